package fetch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"poolScope/internal/model"
	"poolScope/internal/query"
	"poolScope/internal/subgraph"
)

type poolsResponse struct {
	Pools []model.Pool `json:"pools"`
}

// PoolFetcher lists pools matching a filter.
type PoolFetcher struct {
	querier subgraph.Querier
	logger  *zap.Logger
}

func NewPoolFetcher(querier subgraph.Querier, logger *zap.Logger) *PoolFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolFetcher{querier: querier, logger: logger}
}

// Fetch returns the pools matching filter. The index matches tokensList by
// order, so a token filter is issued once per ordering and the results are
// merged in request order, deduplicated by pool id. Listings are capped at
// one page; a full page is logged as possibly truncated.
func (f *PoolFetcher) Fetch(ctx context.Context, filter query.PoolFilter) ([]model.Pool, error) {
	if f.querier == nil {
		return nil, fmt.Errorf("querier is nil")
	}

	orders := query.Permutations(filter.Tokens)
	if len(orders) == 0 {
		orders = [][]string{nil}
	}

	seen := make(map[string]struct{})
	pools := make([]model.Pool, 0)
	var duplicates, mismatched int

	for _, order := range orders {
		doc, err := query.PoolsQuery(filter, order)
		if err != nil {
			return nil, fmt.Errorf("build pools query: %w", err)
		}

		var resp poolsResponse
		if err := f.querier.Query(ctx, doc, &resp); err != nil {
			return nil, fmt.Errorf("fetch pools %v: %w", order, err)
		}

		if len(resp.Pools) >= query.MaxPageSize {
			f.logger.Warn("pool listing hit page cap, results may be truncated",
				zap.Strings("order", order),
				zap.Int("cap", query.MaxPageSize),
			)
		}

		for _, pool := range resp.Pools {
			key := model.NormalizeAddress(pool.ID)
			if _, ok := seen[key]; ok {
				duplicates++
				continue
			}
			if len(filter.Tokens) > 0 && !pool.HasExactTokens(filter.Tokens) {
				mismatched++
				f.logger.Warn("pool token set mismatch", zap.String("pool", pool.ID), zap.String("tokens", pool.Symbols()))
				continue
			}
			seen[key] = struct{}{}
			pools = append(pools, pool)
		}
	}

	f.logger.Debug("pools fetched",
		zap.Int("requests", len(orders)),
		zap.Int("pools", len(pools)),
		zap.Int("duplicates", duplicates),
		zap.Int("mismatched", mismatched),
	)

	return pools, nil
}
