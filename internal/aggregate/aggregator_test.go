package aggregate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"poolScope/internal/model"
	"poolScope/internal/query"
	"poolScope/internal/subgraph"
)

type stubPools struct {
	pools []model.Pool
	err   error
}

func (s stubPools) Fetch(ctx context.Context, filter query.PoolFilter) ([]model.Pool, error) {
	return s.pools, s.err
}

type stubSwaps struct {
	mu      sync.Mutex
	cutoffs []int64
	byPool  map[string][]model.Swap
	failing map[string]error
}

func (s *stubSwaps) Fetch(ctx context.Context, poolID string, swapCount int64, cutoff int64) (model.SwapHistory, error) {
	s.mu.Lock()
	s.cutoffs = append(s.cutoffs, cutoff)
	s.mu.Unlock()
	if err := s.failing[poolID]; err != nil {
		return model.SwapHistory{}, err
	}
	return model.SwapHistory{Swaps: s.byPool[poolID], Pages: 1}, nil
}

func testPool(id, swapsCount string) model.Pool {
	return model.Pool{
		ID:          id,
		SwapsCount:  swapsCount,
		Liquidity:   "1000",
		TotalWeight: "10",
		Tokens: []model.Token{
			{Symbol: "WETH", DenormWeight: "8"},
			{Symbol: "DAI", DenormWeight: "2"},
		},
	}
}

func TestAggregatorIsolatesPoolFailures(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	swaps := &stubSwaps{
		byPool: map[string][]model.Swap{
			"0xa": {{ID: "1", FeeValue: "10", PoolLiquidity: "1000"}},
			"0xc": {{ID: "2", FeeValue: "5", PoolLiquidity: "500"}},
		},
		failing: map[string]error{"0xb": context.DeadlineExceeded},
	}
	pools := stubPools{pools: []model.Pool{testPool("0xa", "1"), testPool("0xb", "1"), testPool("0xc", "1")}}

	for _, concurrency := range []int{1, 3} {
		agg := NewAggregator(Config{
			Window:      7 * 24 * time.Hour,
			Concurrency: concurrency,
			Now:         func() time.Time { return now },
		}, pools, swaps, zap.NewNop())

		reports, err := agg.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(reports))
		}
		if reports[0].Pool.ID != "0xa" || reports[2].Pool.ID != "0xc" {
			t.Fatalf("report order must follow pool order")
		}
		if reports[1].Err == nil || reports[1].Metrics != nil {
			t.Fatalf("expected failure recorded on pool b: %+v", reports[1])
		}
		for _, idx := range []int{0, 2} {
			if reports[idx].Metrics == nil {
				t.Fatalf("expected metrics for %s", reports[idx].Pool.ID)
			}
			if !reports[idx].Metrics.PeriodReturnPct.Equal(decimal.NewFromInt(1)) {
				t.Fatalf("period return mismatch for %s: %s", reports[idx].Pool.ID, reports[idx].Metrics.PeriodReturnPct)
			}
		}
		if len(reports[0].Weights) != 2 || !reports[0].Weights[0].Share.Equal(decimal.NewFromInt(80)) {
			t.Fatalf("weights mismatch: %+v", reports[0].Weights)
		}
	}

	wantCutoff := now.Add(-7 * 24 * time.Hour).Unix()
	for _, cutoff := range swaps.cutoffs {
		if cutoff != wantCutoff {
			t.Fatalf("cutoff mismatch: %d != %d", cutoff, wantCutoff)
		}
	}
}

func TestAggregatorListingFailureIsFatal(t *testing.T) {
	listErr := &subgraph.UpstreamError{Errors: []subgraph.GraphQLError{{Message: "down"}}}
	agg := NewAggregator(Config{Window: time.Hour}, stubPools{err: listErr}, &stubSwaps{}, nil)

	_, err := agg.Run(context.Background())
	if !errors.Is(err, subgraph.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestAggregatorBadSwapCount(t *testing.T) {
	swaps := &stubSwaps{}
	agg := NewAggregator(Config{Window: time.Hour}, stubPools{pools: []model.Pool{testPool("0xa", "many")}}, swaps, nil)

	reports, err := agg.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parseErr *model.NumericParseError
	if !errors.As(reports[0].Err, &parseErr) {
		t.Fatalf("expected NumericParseError, got %v", reports[0].Err)
	}
	if len(swaps.cutoffs) != 0 {
		t.Fatalf("swap source must not be called")
	}
}

func TestAggregatorPoolsOnly(t *testing.T) {
	agg := NewAggregator(Config{PoolsOnly: true}, stubPools{pools: []model.Pool{testPool("0xa", "3")}}, nil, nil)

	reports, err := agg.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reports[0].Metrics != nil || len(reports[0].Weights) != 2 {
		t.Fatalf("unexpected report: %+v", reports[0])
	}
}

func TestAggregatorRequiresWindow(t *testing.T) {
	agg := NewAggregator(Config{}, stubPools{}, &stubSwaps{}, nil)
	if _, err := agg.Run(context.Background()); err == nil {
		t.Fatalf("expected error for zero window")
	}
}
