package aggregate

import (
	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Accumulator folds a pool's swaps into running totals.
type Accumulator struct {
	TotalFeesUSD    decimal.Decimal
	PeriodReturnPct decimal.Decimal
	SwapCount       int
	Flagged         []string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		TotalFeesUSD:    decimal.Zero,
		PeriodReturnPct: decimal.Zero,
	}
}

// AddSwap applies one swap. An unparsable fee contributes nothing; an
// unparsable or zero liquidity still counts the fee but adds no return.
// Either case flags the swap and returns the parse error.
func (a *Accumulator) AddSwap(swap model.Swap) error {
	a.SwapCount++

	fee, err := model.ParseDecimal("feeValue", swap.FeeValue)
	if err != nil {
		a.Flagged = append(a.Flagged, swap.ID)
		return err
	}
	a.TotalFeesUSD = a.TotalFeesUSD.Add(fee)

	liquidity, err := model.ParseDecimal("poolLiquidity", swap.PoolLiquidity)
	if err != nil {
		a.Flagged = append(a.Flagged, swap.ID)
		return err
	}
	if liquidity.IsZero() {
		a.Flagged = append(a.Flagged, swap.ID)
		return &model.NumericParseError{Field: "poolLiquidity", Value: swap.PoolLiquidity}
	}

	a.PeriodReturnPct = a.PeriodReturnPct.Add(fee.Div(liquidity).Mul(hundred))
	return nil
}

// Metrics returns the summary accumulated so far.
func (a *Accumulator) Metrics() model.PoolMetrics {
	flagged := make([]string, len(a.Flagged))
	copy(flagged, a.Flagged)
	return model.PoolMetrics{
		TotalFeesUSD:    a.TotalFeesUSD,
		PeriodReturnPct: a.PeriodReturnPct,
		AnnualizedPct:   decimal.Zero,
		SwapsAnalyzed:   a.SwapCount,
		FlaggedSwaps:    flagged,
	}
}

// Reduce folds swaps left to right from {0, 0}. The period return is a sum
// of simple per-swap returns, not a compounded yield.
func Reduce(swaps []model.Swap) model.PoolMetrics {
	acc := NewAccumulator()
	for _, swap := range swaps {
		_ = acc.AddSwap(swap)
	}
	return acc.Metrics()
}
