package model

import "github.com/shopspring/decimal"

// PoolMetrics is the reduced summary of a pool's swaps over the window.
type PoolMetrics struct {
	TotalFeesUSD    decimal.Decimal `json:"total_fees_usd"`
	PeriodReturnPct decimal.Decimal `json:"period_return_pct"`
	AnnualizedPct   decimal.Decimal `json:"annualized_pct"`
	SwapsAnalyzed   int             `json:"swaps_analyzed"`
	FlaggedSwaps    []string        `json:"flagged_swaps,omitempty"`
}

// TokenShare is a token's normalized share of pool weight, in percent.
type TokenShare struct {
	Address string          `json:"address"`
	Symbol  string          `json:"symbol"`
	Share   decimal.Decimal `json:"share"`
}

// PoolReport pairs a fetched pool with everything derived from it. The
// embedded Pool is the fetched snapshot and is never modified.
type PoolReport struct {
	Pool    Pool
	Weights []TokenShare
	Metrics *PoolMetrics
	History SwapHistory
	Err     error
}
