package model

// DisplayRow is the flat, output-ready view of a pool.
type DisplayRow struct {
	ID              string `json:"id"`
	Tokens          string `json:"tokens"`
	SwapFee         string `json:"swap_fee"`
	Weights         string `json:"weights"`
	Liquidity       int64  `json:"liquidity"`
	SwapsCount      int64  `json:"swaps_count"`
	Created         string `json:"created"`
	HasMetrics      bool   `json:"has_metrics"`
	TotalFeesUSD    string `json:"total_fees_usd,omitempty"`
	PeriodReturnPct string `json:"period_return_pct,omitempty"`
	AnnualizedPct   string `json:"annualized_pct,omitempty"`
	SwapsAnalyzed   int    `json:"swaps_analyzed,omitempty"`
	FlaggedSwaps    int    `json:"flagged_swaps,omitempty"`
	FailedPages     int    `json:"failed_pages,omitempty"`
	DuplicateSwaps  int    `json:"duplicate_swaps,omitempty"`
	Error           string `json:"error,omitempty"`
}
