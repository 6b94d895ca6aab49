package rank

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

const unavailable = "n/a"

// FormatSwapFee renders a fee fraction as a percentage, e.g. "0.0015" -> "0.15%".
func FormatSwapFee(fee string) string {
	d, err := model.ParseDecimal("swapFee", fee)
	if err != nil {
		return unavailable
	}
	return d.Mul(decimal.NewFromInt(100)).String() + "%"
}

// FormatWeights renders shares as "80% WETH / 20% DAI".
func FormatWeights(shares []model.TokenShare) string {
	if len(shares) == 0 {
		return unavailable
	}
	parts := make([]string, 0, len(shares))
	for _, share := range shares {
		parts = append(parts, share.Share.Round(2).String()+"% "+share.Symbol)
	}
	return strings.Join(parts, " / ")
}

// FormatCreated renders a unix creation time relative to now.
func FormatCreated(createTime int64, now time.Time) string {
	if createTime <= 0 {
		return unavailable
	}
	return humanize.RelTime(time.Unix(createTime, 0), now, "ago", "from now")
}

// BuildRow derives a display row from a report without touching the report.
func BuildRow(report model.PoolReport, now time.Time) model.DisplayRow {
	pool := report.Pool
	row := model.DisplayRow{
		ID:      pool.ID,
		Tokens:  pool.Symbols(),
		SwapFee: FormatSwapFee(pool.SwapFee),
		Weights: FormatWeights(report.Weights),
		Created: FormatCreated(pool.CreateTime, now),
	}

	if liquidity, err := model.ParseDecimal("liquidity", pool.Liquidity); err == nil {
		row.Liquidity = clampInt64(liquidity)
	}
	if count, err := model.ParseCount("swapsCount", pool.SwapsCount); err == nil {
		row.SwapsCount = count
	}

	if m := report.Metrics; m != nil {
		row.HasMetrics = true
		row.TotalFeesUSD = m.TotalFeesUSD.StringFixed(2)
		row.PeriodReturnPct = m.PeriodReturnPct.StringFixed(4)
		row.AnnualizedPct = m.AnnualizedPct.StringFixed(2)
		row.SwapsAnalyzed = m.SwapsAnalyzed
		row.FlaggedSwaps = len(m.FlaggedSwaps)
	}
	row.FailedPages = report.History.FailedPages
	row.DuplicateSwaps = report.History.Duplicates
	if report.Err != nil {
		row.Error = report.Err.Error()
	}
	return row
}

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// clampInt64 returns the integer part of d, saturating at the int64 range.
func clampInt64(d decimal.Decimal) int64 {
	switch {
	case d.GreaterThan(maxInt64):
		return math.MaxInt64
	case d.LessThan(minInt64):
		return math.MinInt64
	}
	return d.IntPart()
}
