package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"poolScope/internal/model"
)

// MaxPageSize is the largest `first` the index accepts.
const MaxPageSize = 1000

const poolFields = `
    id
    publicSwap
    swapFee
    liquidity
    swapsCount
    createTime
    totalWeight
    totalShares
    tokensList
    tokens {
      id
      address
      balance
      decimals
      symbol
      denormWeight
    }`

const swapFields = `
      id
      tokenInSym
      tokenOutSym
      tokenAmountOut
      timestamp
      poolLiquidity
      feeValue`

// PoolFilter selects pools from the index. Numeric thresholds are decimal
// strings, MinSwaps a whole number; empty means no threshold.
type PoolFilter struct {
	Tokens       []string
	MinLiquidity string
	MinSwaps     string
	MinFees      string
	PublicOnly   bool
	First        int
}

// PoolsQuery builds a pool listing document. tokenOrder is the exact
// tokensList ordering to match; nil means no token filter.
func PoolsQuery(filter PoolFilter, tokenOrder []string) (string, error) {
	where := make([]string, 0, 5)
	if len(tokenOrder) > 0 {
		quoted := make([]string, 0, len(tokenOrder))
		for _, token := range tokenOrder {
			quoted = append(quoted, quote(strings.ToLower(token)))
		}
		where = append(where, fmt.Sprintf("tokensList: [%s]", strings.Join(quoted, ", ")))
	}
	if filter.PublicOnly {
		where = append(where, "publicSwap: true")
	}

	thresholds := []struct {
		key     string
		value   string
		integer bool
	}{
		{"liquidity_gt", filter.MinLiquidity, false},
		{"swapsCount_gt", filter.MinSwaps, true},
		{"totalSwapFee_gt", filter.MinFees, false},
	}
	for _, th := range thresholds {
		if strings.TrimSpace(th.value) == "" {
			continue
		}
		// swapsCount is a BigInt in the index and rejects fractional input.
		if th.integer {
			n, err := model.ParseCount(th.key, th.value)
			if err != nil {
				return "", fmt.Errorf("invalid %s threshold: %w", th.key, err)
			}
			where = append(where, fmt.Sprintf("%s: %s", th.key, quote(strconv.FormatInt(n, 10))))
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(th.value))
		if err != nil {
			return "", fmt.Errorf("invalid %s threshold %q: %w", th.key, th.value, err)
		}
		where = append(where, fmt.Sprintf("%s: %s", th.key, quote(d.String())))
	}

	args := []string{fmt.Sprintf("first: %d", clampFirst(filter.First))}
	if len(where) > 0 {
		args = append(args, fmt.Sprintf("where: {%s}", strings.Join(where, ", ")))
	}

	doc := fmt.Sprintf("{\n  pools(%s) {%s\n  }\n}\n", strings.Join(args, ", "), poolFields)
	return validate(doc)
}

// SwapsQuery builds a document for one page of a pool's swaps at or after
// cutoff, ordered by timestamp ascending.
func SwapsQuery(poolID string, cutoff int64, skip, first int) (string, error) {
	if strings.TrimSpace(poolID) == "" {
		return "", fmt.Errorf("pool id is required")
	}
	if skip < 0 {
		return "", fmt.Errorf("skip must be >= 0")
	}
	if cutoff < 0 {
		cutoff = 0
	}

	doc := fmt.Sprintf(`{
  pools(where: {id: %s}) {
    id
    swaps(first: %d, skip: %d, orderBy: timestamp, orderDirection: asc, where: {timestamp_gte: %d}) {%s
    }
  }
}
`, quote(strings.ToLower(poolID)), clampFirst(first), skip, cutoff, swapFields)
	return validate(doc)
}

func validate(doc string) (string, error) {
	if _, gerr := parser.ParseQuery(&ast.Source{Name: "query", Input: doc}); gerr != nil {
		return "", fmt.Errorf("parse query document: %w", gerr)
	}
	return doc, nil
}

func clampFirst(first int) int {
	if first <= 0 || first > MaxPageSize {
		return MaxPageSize
	}
	return first
}

func quote(value string) string {
	b, _ := json.Marshal(value)
	return string(b)
}
