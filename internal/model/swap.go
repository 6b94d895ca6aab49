package model

// Swap is a single trade against a pool. PoolLiquidity is the liquidity
// snapshot carried on the swap record at the time of the trade.
type Swap struct {
	ID             string `json:"id"`
	TokenInSym     string `json:"tokenInSym"`
	TokenOutSym    string `json:"tokenOutSym"`
	TokenAmountOut string `json:"tokenAmountOut"`
	Timestamp      int64  `json:"timestamp"`
	PoolLiquidity  string `json:"poolLiquidity"`
	FeeValue       string `json:"feeValue"`
}

// SwapHistory is the merged result of paginating a pool's swaps.
type SwapHistory struct {
	Swaps       []Swap
	Pages       int
	FailedPages int
	Duplicates  int
	// Truncated is set when the last requested page came back full, which
	// means the reported swap count may understate the real one.
	Truncated bool
}
