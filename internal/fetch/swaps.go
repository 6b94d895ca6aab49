package fetch

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"poolScope/internal/model"
	"poolScope/internal/query"
	"poolScope/internal/subgraph"
)

type swapsResponse struct {
	Pools []struct {
		ID    string       `json:"id"`
		Swaps []model.Swap `json:"swaps"`
	} `json:"pools"`
}

// PaginatorConfig controls swap pagination.
type PaginatorConfig struct {
	PageSize int
	// Concurrency is the number of pages in flight. 1 or less fetches pages
	// strictly in order.
	Concurrency int
}

// SwapPaginator retrieves a pool's swap history page by page.
type SwapPaginator struct {
	cfg     PaginatorConfig
	querier subgraph.Querier
	logger  *zap.Logger
	metrics *Metrics
}

func NewSwapPaginator(cfg PaginatorConfig, querier subgraph.Querier, logger *zap.Logger, metrics *Metrics) *SwapPaginator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if cfg.PageSize <= 0 || cfg.PageSize > query.MaxPageSize {
		cfg.PageSize = query.MaxPageSize
	}
	return &SwapPaginator{cfg: cfg, querier: querier, logger: logger, metrics: metrics}
}

// Fetch returns every swap of poolID at or after cutoff, ordered by
// timestamp. One page is requested per PageOffsets entry for swapCount, even
// after a short page, so an overstated count only costs empty pages. A failed
// page is logged and treated as empty; only context cancellation returns an
// error.
func (p *SwapPaginator) Fetch(ctx context.Context, poolID string, swapCount int64, cutoff int64) (model.SwapHistory, error) {
	var history model.SwapHistory
	if p.querier == nil {
		return history, fmt.Errorf("querier is nil")
	}

	offsets := PageOffsets(swapCount, p.cfg.PageSize)
	if len(offsets) == 0 {
		return history, nil
	}

	pages := make([][]model.Swap, len(offsets))
	failed := make([]bool, len(offsets))
	requested := make([]bool, len(offsets))

	var err error
	if p.cfg.Concurrency <= 1 {
		err = p.fetchSequential(ctx, poolID, cutoff, offsets, pages, failed, requested)
	} else {
		err = p.fetchConcurrent(ctx, poolID, cutoff, offsets, pages, failed, requested)
	}
	if err != nil {
		return history, err
	}

	for i := range offsets {
		if requested[i] {
			history.Pages++
		}
		if failed[i] {
			history.FailedPages++
		}
	}
	last := len(offsets) - 1
	history.Truncated = requested[last] && !failed[last] && len(pages[last]) >= p.cfg.PageSize
	if history.Truncated {
		p.logger.Warn("swap count may be understated, trailing swaps omitted",
			zap.String("pool", poolID),
			zap.Int64("swap_count", swapCount),
		)
	}

	history.Swaps, history.Duplicates = mergePages(pages)
	return history, nil
}

func (p *SwapPaginator) fetchSequential(ctx context.Context, poolID string, cutoff int64, offsets []int, pages [][]model.Swap, failed, requested []bool) error {
	for i, skip := range offsets {
		if err := ctx.Err(); err != nil {
			return err
		}
		requested[i] = true
		swaps, err := p.fetchPage(ctx, poolID, cutoff, skip)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed[i] = true
			continue
		}
		pages[i] = swaps
	}
	return nil
}

func (p *SwapPaginator) fetchConcurrent(ctx context.Context, poolID string, cutoff int64, offsets []int, pages [][]model.Swap, failed, requested []bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, skip := range offsets {
		i, skip := i, skip
		g.Go(func() error {
			requested[i] = true
			swaps, err := p.fetchPage(gctx, poolID, cutoff, skip)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed[i] = true
				return nil
			}
			pages[i] = swaps
			return nil
		})
	}
	return g.Wait()
}

func (p *SwapPaginator) fetchPage(ctx context.Context, poolID string, cutoff int64, skip int) ([]model.Swap, error) {
	doc, err := query.SwapsQuery(poolID, cutoff, skip, p.cfg.PageSize)
	if err != nil {
		p.metrics.pages.WithLabelValues("failed").Inc()
		p.logger.Warn("build swaps query", zap.String("pool", poolID), zap.Error(err))
		return nil, err
	}

	var resp swapsResponse
	if err := p.querier.Query(ctx, doc, &resp); err != nil {
		p.metrics.pages.WithLabelValues("failed").Inc()
		p.logger.Warn("swap page unavailable, treating as empty",
			zap.String("pool", poolID),
			zap.Int("skip", skip),
			zap.Error(err),
		)
		return nil, err
	}
	if len(resp.Pools) == 0 {
		p.metrics.pages.WithLabelValues("failed").Inc()
		p.logger.Warn("swap page has no pool, treating as empty", zap.String("pool", poolID), zap.Int("skip", skip))
		return nil, fmt.Errorf("pool %s not found", poolID)
	}

	swaps := resp.Pools[0].Swaps
	p.metrics.pages.WithLabelValues("ok").Inc()
	p.metrics.swaps.Add(float64(len(swaps)))
	p.logger.Debug("swap page", zap.String("pool", poolID), zap.Int("skip", skip), zap.Int("swaps", len(swaps)))
	return swaps, nil
}

// mergePages concatenates pages in page order, drops repeated swap ids
// (page boundaries can shift under concurrent writes) and orders the result
// by timestamp.
func mergePages(pages [][]model.Swap) ([]model.Swap, int) {
	total := 0
	for _, page := range pages {
		total += len(page)
	}

	merged := make([]model.Swap, 0, total)
	seen := make(map[string]struct{}, total)
	duplicates := 0
	for _, page := range pages {
		for _, swap := range page {
			if _, ok := seen[swap.ID]; ok {
				duplicates++
				continue
			}
			seen[swap.ID] = struct{}{}
			merged = append(merged, swap)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged, duplicates
}
