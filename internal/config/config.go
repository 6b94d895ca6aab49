package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEndpoint = "https://api.thegraph.com/subgraphs/name/balancer-labs/balancer"
	DefaultTokenA   = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2" // WETH
	DefaultTokenB   = "0x6b175474e89094c44da98b954eedeac495271d0f" // DAI
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Endpoint        string
	TokenA          string
	TokenB          string
	PairFilter      bool
	MinLiquidity    string
	MinSwaps        string
	MinFees         string
	PublicOnly      bool
	Window          string
	Concurrency     int
	PageConcurrency int
	Sort            string
	Format          string
	Out             string
	MetricsOut      string
	Timeout         time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("token-a", DefaultTokenA)
	v.SetDefault("token-b", DefaultTokenB)
	v.SetDefault("pair-filter", true)
	v.SetDefault("public-only", true)
	v.SetDefault("window", "7d")
	v.SetDefault("concurrency", 1)
	v.SetDefault("page-concurrency", 1)
	v.SetDefault("sort", "liquidity")
	v.SetDefault("format", "table")
	v.SetDefault("out", "-")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Endpoint:        v.GetString("endpoint"),
		TokenA:          v.GetString("token-a"),
		TokenB:          v.GetString("token-b"),
		PairFilter:      v.GetBool("pair-filter"),
		MinLiquidity:    v.GetString("min-liquidity"),
		MinSwaps:        v.GetString("min-swaps"),
		MinFees:         v.GetString("min-fees"),
		PublicOnly:      v.GetBool("public-only"),
		Window:          v.GetString("window"),
		Concurrency:     v.GetInt("concurrency"),
		PageConcurrency: v.GetInt("page-concurrency"),
		Sort:            v.GetString("sort"),
		Format:          v.GetString("format"),
		Out:             v.GetString("out"),
		MetricsOut:      v.GetString("metrics-out"),
		Timeout:         v.GetDuration("timeout"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.PairFilter {
		if _, err := c.Tokens(); err != nil {
			return err
		}
	}
	if _, err := ParseWindow(c.Window); err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}
	if c.Concurrency < 1 || c.PageConcurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	switch strings.ToLower(c.Format) {
	case "table", "jsonl":
	default:
		return fmt.Errorf("unknown format %q (want table or jsonl)", c.Format)
	}
	return nil
}

// Tokens returns the normalized token pair, or nil when pair filtering is off.
func (c Config) Tokens() ([]string, error) {
	if !c.PairFilter {
		return nil, nil
	}
	tokens, err := ParseAddresses([]string{c.TokenA, c.TokenB})
	if err != nil {
		return nil, err
	}
	if len(tokens) != 2 {
		return nil, fmt.Errorf("token pair requires two addresses")
	}
	if tokens[0] == tokens[1] {
		return nil, fmt.Errorf("token pair addresses must differ")
	}
	return tokens, nil
}
