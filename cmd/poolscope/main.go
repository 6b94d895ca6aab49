package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poolscope",
		Short:        "Weighted pool metrics from a DEX subgraph",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Fetch pools and swaps, compute fee metrics, and rank them",
		RunE:  runMetrics,
	}
	addCommonFlags(metricsCmd)
	metricsCmd.Flags().String("window", "7d", "analysis window (e.g. 24h, 7d)")
	metricsCmd.Flags().Int("concurrency", 1, "pools processed in parallel")
	metricsCmd.Flags().Int("page-concurrency", 1, "swap pages fetched in parallel per pool")
	metricsCmd.Flags().String("sort", "liquidity", "sort key (liquidity, fees, return, swaps)")
	metricsCmd.Flags().String("metrics-out", "", "write prometheus counters to this textfile")
	root.AddCommand(metricsCmd)

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "List pools with their weight distribution",
		RunE:  runPools,
	}
	addCommonFlags(poolsCmd)
	poolsCmd.Flags().String("sort", "liquidity", "sort key (liquidity, swaps)")
	root.AddCommand(poolsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("endpoint", "", "subgraph GraphQL endpoint")
	cmd.Flags().String("token-a", "", "first token address of the pair")
	cmd.Flags().String("token-b", "", "second token address of the pair")
	cmd.Flags().Bool("pair-filter", true, "only pools holding exactly the token pair")
	cmd.Flags().String("min-liquidity", "", "minimum pool liquidity")
	cmd.Flags().String("min-swaps", "", "minimum pool swap count")
	cmd.Flags().String("min-fees", "", "minimum cumulative swap fee")
	cmd.Flags().Bool("public-only", true, "only publicly swappable pools")
	cmd.Flags().String("format", "table", "output format (table, jsonl)")
	cmd.Flags().String("out", "-", "output path, - for stdout")
	cmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().Int("max-retries", 3, "transport retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
