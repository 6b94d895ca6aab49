package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

const year = 365 * 24 * time.Hour

// Annualize projects a period return linearly over a year.
func Annualize(periodReturnPct decimal.Decimal, window time.Duration) decimal.Decimal {
	if window <= 0 {
		return decimal.Zero
	}
	scale := decimal.NewFromInt(int64(year)).Div(decimal.NewFromInt(int64(window)))
	return periodReturnPct.Mul(scale)
}

// WeightDistribution computes each token's share of pool weight in percent:
// denormWeight * (100 / totalWeight). With recompute set, totalWeight is the
// sum of the listed tokens' weights instead of the reported pool total, which
// can include tokens missing from a filtered view.
func WeightDistribution(pool model.Pool, recompute bool) ([]model.TokenShare, error) {
	if len(pool.Tokens) == 0 {
		return nil, fmt.Errorf("pool %s has no tokens", pool.ID)
	}

	weights := make([]decimal.Decimal, 0, len(pool.Tokens))
	sum := decimal.Zero
	for _, token := range pool.Tokens {
		w, err := model.ParseDecimal("denormWeight", token.DenormWeight)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", token.Symbol, err)
		}
		weights = append(weights, w)
		sum = sum.Add(w)
	}

	total := sum
	if !recompute {
		reported, err := model.ParseDecimal("totalWeight", pool.TotalWeight)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", pool.ID, err)
		}
		total = reported
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("pool %s: total weight must be positive, got %s", pool.ID, total)
	}

	factor := hundred.Div(total)
	shares := make([]model.TokenShare, 0, len(pool.Tokens))
	for i, token := range pool.Tokens {
		shares = append(shares, model.TokenShare{
			Address: model.NormalizeAddress(token.Address),
			Symbol:  token.Symbol,
			Share:   weights[i].Mul(factor),
		})
	}
	return shares, nil
}
