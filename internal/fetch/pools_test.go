package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"poolScope/internal/model"
	"poolScope/internal/query"
	"poolScope/internal/subgraph"
)

const (
	weth = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	dai  = "0x6b175474e89094c44da98b954eedeac495271d0f"
	usdc = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
)

func pairPool(id, first, second string) model.Pool {
	return model.Pool{
		ID:         id,
		Liquidity:  "100",
		SwapsCount: "10",
		Tokens: []model.Token{
			{Address: first, Symbol: "A", DenormWeight: "5"},
			{Address: second, Symbol: "B", DenormWeight: "5"},
		},
	}
}

func TestPoolFetcherUnionsPermutations(t *testing.T) {
	q := &fakeQuerier{handler: func(doc string) (any, error) {
		if strings.Index(doc, weth) < strings.Index(doc, dai) {
			return poolsResponse{Pools: []model.Pool{
				pairPool("0x01", weth, dai),
				pairPool("0x02", weth, dai),
			}}, nil
		}
		return poolsResponse{Pools: []model.Pool{
			pairPool("0x03", dai, weth),
			// Upper-cased id of a pool already seen.
			pairPool("0X02", dai, weth),
			// Pool matched by the index but holding a third token.
			{ID: "0x04", Tokens: []model.Token{{Address: dai}, {Address: weth}, {Address: usdc}}},
		}}, nil
	}}

	f := NewPoolFetcher(q, zap.NewNop())
	pools, err := f.Fetch(context.Background(), query.PoolFilter{Tokens: []string{weth, dai}, PublicOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(q.docs) != 2 {
		t.Fatalf("expected one request per permutation, got %d", len(q.docs))
	}

	ids := make([]string, 0, len(pools))
	for _, pool := range pools {
		ids = append(ids, pool.ID)
	}
	if strings.Join(ids, ",") != "0x01,0x02,0x03" {
		t.Fatalf("pool union mismatch: %v", ids)
	}
}

func TestPoolFetcherUnfilteredSingleRequest(t *testing.T) {
	q := &fakeQuerier{handler: func(doc string) (any, error) {
		if strings.Contains(doc, "tokensList:") {
			t.Fatalf("unexpected token filter in %s", doc)
		}
		return poolsResponse{Pools: []model.Pool{
			pairPool("0x01", weth, dai),
			{ID: "0x05", Tokens: []model.Token{{Address: usdc}, {Address: dai}, {Address: weth}}},
		}}, nil
	}}

	pools, err := NewPoolFetcher(q, nil).Fetch(context.Background(), query.PoolFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.docs) != 1 || len(pools) != 2 {
		t.Fatalf("expected 1 request and 2 pools, got %d and %d", len(q.docs), len(pools))
	}
}

func TestPoolFetcherDataUnavailableIsFatal(t *testing.T) {
	q := &fakeQuerier{handler: func(doc string) (any, error) {
		return nil, &subgraph.UpstreamError{Errors: []subgraph.GraphQLError{{Message: "bad query"}}}
	}}

	_, err := NewPoolFetcher(q, nil).Fetch(context.Background(), query.PoolFilter{Tokens: []string{weth, dai}})
	if !errors.Is(err, subgraph.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if len(q.docs) != 1 {
		t.Fatalf("fetcher must not retry, got %d requests", len(q.docs))
	}
}
