package model

import "strings"

// Pool is a weighted pool snapshot as returned by the index.
type Pool struct {
	ID          string   `json:"id"`
	PublicSwap  bool     `json:"publicSwap"`
	SwapFee     string   `json:"swapFee"`
	Liquidity   string   `json:"liquidity"`
	SwapsCount  string   `json:"swapsCount"`
	CreateTime  int64    `json:"createTime"`
	TotalWeight string   `json:"totalWeight"`
	TotalShares string   `json:"totalShares"`
	TokensList  []string `json:"tokensList"`
	Tokens      []Token  `json:"tokens"`
}

// Token is a pool constituent.
type Token struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	Symbol       string `json:"symbol"`
	DenormWeight string `json:"denormWeight"`
	Balance      string `json:"balance"`
	Decimals     int    `json:"decimals"`
}

// Symbols joins token symbols in pool order.
func (p Pool) Symbols() string {
	symbols := make([]string, 0, len(p.Tokens))
	for _, token := range p.Tokens {
		symbols = append(symbols, token.Symbol)
	}
	return strings.Join(symbols, "/")
}

// HasExactTokens reports whether the pool holds exactly the given token set,
// ignoring order and address case.
func (p Pool) HasExactTokens(addresses []string) bool {
	if len(p.Tokens) != len(addresses) {
		return false
	}
	want := make(map[string]int, len(addresses))
	for _, addr := range addresses {
		want[NormalizeAddress(addr)]++
	}
	for _, token := range p.Tokens {
		key := NormalizeAddress(token.Address)
		if want[key] == 0 {
			return false
		}
		want[key]--
	}
	return true
}

// NormalizeAddress returns the case-insensitive identity of an address.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
