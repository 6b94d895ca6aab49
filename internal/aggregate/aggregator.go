package aggregate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"poolScope/internal/model"
	"poolScope/internal/query"
)

// PoolSource lists pools.
type PoolSource interface {
	Fetch(ctx context.Context, filter query.PoolFilter) ([]model.Pool, error)
}

// SwapSource returns a pool's swap history at or after cutoff.
type SwapSource interface {
	Fetch(ctx context.Context, poolID string, swapCount int64, cutoff int64) (model.SwapHistory, error)
}

// Config controls aggregation behavior.
type Config struct {
	Filter query.PoolFilter
	Window time.Duration
	// Concurrency is the number of pools processed at once; 1 or less keeps
	// pools strictly sequential.
	Concurrency int
	// PoolsOnly skips swap retrieval and metrics.
	PoolsOnly bool
	Now       func() time.Time
}

// Aggregator turns pool listings and swap histories into pool reports.
type Aggregator struct {
	cfg    Config
	pools  PoolSource
	swaps  SwapSource
	logger *zap.Logger
}

func NewAggregator(cfg Config, pools PoolSource, swaps SwapSource, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Aggregator{cfg: cfg, pools: pools, swaps: swaps, logger: logger}
}

// Run lists pools and builds one report per pool. Failing to list pools is
// fatal. A failure while processing one pool is recorded on its report and
// never stops the others.
func (a *Aggregator) Run(ctx context.Context) ([]model.PoolReport, error) {
	if a.pools == nil {
		return nil, fmt.Errorf("pool source is nil")
	}
	if !a.cfg.PoolsOnly {
		if a.swaps == nil {
			return nil, fmt.Errorf("swap source is nil")
		}
		if a.cfg.Window <= 0 {
			return nil, fmt.Errorf("window must be positive")
		}
	}

	pools, err := a.pools.Fetch(ctx, a.cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}

	cutoff := a.cfg.Now().Add(-a.cfg.Window).Unix()
	a.logger.Info("pools listed",
		zap.Int("pools", len(pools)),
		zap.Int64("cutoff", cutoff),
		zap.Int("concurrency", a.cfg.Concurrency),
	)

	reports := make([]model.PoolReport, len(pools))
	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)
	for i := range pools {
		i := i
		g.Go(func() error {
			reports[i] = a.processPool(ctx, pools[i], cutoff)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return reports, err
	}

	var failed int
	for _, report := range reports {
		if report.Err != nil {
			failed++
		}
	}
	a.logger.Info("aggregate complete", zap.Int("pools", len(reports)), zap.Int("failed", failed))

	return reports, nil
}

func (a *Aggregator) processPool(ctx context.Context, pool model.Pool, cutoff int64) model.PoolReport {
	report := model.PoolReport{Pool: pool}

	weights, err := WeightDistribution(pool, len(a.cfg.Filter.Tokens) > 0)
	if err != nil {
		a.logger.Warn("weight distribution", zap.String("pool", pool.ID), zap.Error(err))
	} else {
		report.Weights = weights
	}

	if a.cfg.PoolsOnly {
		return report
	}

	swapCount, err := model.ParseCount("swapsCount", pool.SwapsCount)
	if err != nil {
		a.logger.Warn("swap count", zap.String("pool", pool.ID), zap.Error(err))
		report.Err = err
		return report
	}

	history, err := a.swaps.Fetch(ctx, pool.ID, swapCount, cutoff)
	report.History = history
	if err != nil {
		a.logger.Warn("swap history", zap.String("pool", pool.ID), zap.Error(err))
		report.Err = err
		return report
	}

	metrics := Reduce(history.Swaps)
	metrics.AnnualizedPct = Annualize(metrics.PeriodReturnPct, a.cfg.Window)
	if len(metrics.FlaggedSwaps) > 0 {
		a.logger.Warn("swaps with unparsable numbers contributed zero",
			zap.String("pool", pool.ID),
			zap.Int("flagged", len(metrics.FlaggedSwaps)),
			zap.String("first", metrics.FlaggedSwaps[0]),
		)
	}
	report.Metrics = &metrics

	a.logger.Debug("pool aggregated",
		zap.String("pool", pool.ID),
		zap.Int("swaps", metrics.SwapsAnalyzed),
		zap.Int("pages", history.Pages),
		zap.Int("failed_pages", history.FailedPages),
		zap.Int("duplicates", history.Duplicates),
		zap.Bool("truncated", history.Truncated),
		zap.String("fees_usd", metrics.TotalFeesUSD.String()),
		zap.String("period_return_pct", metrics.PeriodReturnPct.String()),
	)
	return report
}
