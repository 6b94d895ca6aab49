package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolScope/internal/aggregate"
	"poolScope/internal/config"
	"poolScope/internal/fetch"
	"poolScope/internal/model"
	"poolScope/internal/query"
	"poolScope/internal/rank"
	"poolScope/internal/render"
	"poolScope/internal/subgraph"
)

func runMetrics(cmd *cobra.Command, _ []string) error {
	return run(cmd, false)
}

func runPools(cmd *cobra.Command, _ []string) error {
	return run(cmd, true)
}

func run(cmd *cobra.Command, poolsOnly bool) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sortKey, err := rank.ParseKey(cfg.Sort)
	if err != nil {
		return err
	}
	if poolsOnly && (sortKey == rank.ByFees || sortKey == rank.ByReturn) {
		return fmt.Errorf("sort key %q needs metrics, use the metrics command", sortKey)
	}
	window, err := config.ParseWindow(cfg.Window)
	if err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}
	tokens, err := cfg.Tokens()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	client, err := subgraph.NewClient(subgraph.ClientConfig{
		Endpoint:     cfg.Endpoint,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger, registry)
	if err != nil {
		return err
	}

	poolFetcher := fetch.NewPoolFetcher(client, logger)
	paginator := fetch.NewSwapPaginator(fetch.PaginatorConfig{
		PageSize:    query.MaxPageSize,
		Concurrency: cfg.PageConcurrency,
	}, client, logger, fetch.NewMetrics(registry))

	agg := aggregate.NewAggregator(aggregate.Config{
		Filter: query.PoolFilter{
			Tokens:       tokens,
			MinLiquidity: cfg.MinLiquidity,
			MinSwaps:     cfg.MinSwaps,
			MinFees:      cfg.MinFees,
			PublicOnly:   cfg.PublicOnly,
			First:        query.MaxPageSize,
		},
		Window:      window,
		Concurrency: cfg.Concurrency,
		PoolsOnly:   poolsOnly,
	}, poolFetcher, paginator, logger)

	logger.Info("run start",
		zap.String("endpoint", cfg.Endpoint),
		zap.Strings("tokens", tokens),
		zap.Bool("pools_only", poolsOnly),
		zap.Duration("window", window),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Int("page_concurrency", cfg.PageConcurrency),
		zap.String("sort", string(sortKey)),
	)

	reports, err := agg.Run(ctx)
	if err != nil {
		logger.Error("run failed, no output produced", zap.Error(err))
		return err
	}

	rows, err := rank.Rank(reports, sortKey, time.Now())
	if err != nil {
		return err
	}
	if err := writeRows(cfg, rows, !poolsOnly); err != nil {
		return err
	}

	if cfg.MetricsOut != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsOut, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	logger.Info("run complete", zap.Int("pools", len(rows)), zap.Int("degraded", countDegraded(reports)))
	return nil
}

func writeRows(cfg config.Config, rows []model.DisplayRow, withMetrics bool) error {
	out, err := render.OpenOutput(cfg.Out)
	if err != nil {
		return err
	}

	switch strings.ToLower(cfg.Format) {
	case "jsonl":
		err = render.JSONL(out, rows)
	default:
		err = render.Table(out, rows, withMetrics)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

func countDegraded(reports []model.PoolReport) int {
	var n int
	for _, report := range reports {
		if report.Err != nil || report.History.FailedPages > 0 {
			n++
		}
	}
	return n
}
