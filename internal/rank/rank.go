package rank

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// Key selects the ranking column.
type Key string

const (
	ByLiquidity Key = "liquidity"
	ByFees      Key = "fees"
	ByReturn    Key = "return"
	BySwaps     Key = "swaps"
)

// ParseKey validates a sort key name; empty means liquidity.
func ParseKey(name string) (Key, error) {
	switch key := Key(strings.ToLower(strings.TrimSpace(name))); key {
	case "":
		return ByLiquidity, nil
	case ByLiquidity, ByFees, ByReturn, BySwaps:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want liquidity, fees, return or swaps)", name)
	}
}

// Rank builds display rows ordered by key descending. Ties are broken by
// pool id ascending so the order is fully deterministic.
func Rank(reports []model.PoolReport, key Key, now time.Time) ([]model.DisplayRow, error) {
	value, err := keyFunc(key)
	if err != nil {
		return nil, err
	}

	type entry struct {
		id    string
		value decimal.Decimal
		row   model.DisplayRow
	}
	entries := make([]entry, 0, len(reports))
	for _, report := range reports {
		entries = append(entries, entry{
			id:    model.NormalizeAddress(report.Pool.ID),
			value: value(report),
			row:   BuildRow(report, now),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if cmp := entries[i].value.Cmp(entries[j].value); cmp != 0 {
			return cmp > 0
		}
		return entries[i].id < entries[j].id
	})

	rows := make([]model.DisplayRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.row)
	}
	return rows, nil
}

func keyFunc(key Key) (func(model.PoolReport) decimal.Decimal, error) {
	switch key {
	case ByLiquidity, "":
		return func(r model.PoolReport) decimal.Decimal {
			return parseOrZero("liquidity", r.Pool.Liquidity)
		}, nil
	case BySwaps:
		return func(r model.PoolReport) decimal.Decimal {
			return parseOrZero("swapsCount", r.Pool.SwapsCount)
		}, nil
	case ByFees:
		return func(r model.PoolReport) decimal.Decimal {
			if r.Metrics == nil {
				return decimal.Zero
			}
			return r.Metrics.TotalFeesUSD
		}, nil
	case ByReturn:
		return func(r model.PoolReport) decimal.Decimal {
			if r.Metrics == nil {
				return decimal.Zero
			}
			return r.Metrics.PeriodReturnPct
		}, nil
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
}

func parseOrZero(field, value string) decimal.Decimal {
	d, err := model.ParseDecimal(field, value)
	if err != nil {
		return decimal.Zero
	}
	return d
}
