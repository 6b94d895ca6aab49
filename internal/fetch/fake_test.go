package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"poolScope/internal/model"
)

var skipPattern = regexp.MustCompile(`skip: (\d+)`)

// fakeQuerier answers documents with a canned handler and records them.
type fakeQuerier struct {
	mu      sync.Mutex
	docs    []string
	handler func(doc string) (any, error)
}

func (f *fakeQuerier) Query(ctx context.Context, doc string, out any) error {
	f.mu.Lock()
	f.docs = append(f.docs, doc)
	f.mu.Unlock()

	value, err := f.handler(doc)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeQuerier) skips() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, skipOf(doc))
	}
	return out
}

func skipOf(doc string) int {
	m := skipPattern.FindStringSubmatch(doc)
	if m == nil {
		return -1
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func makeSwaps(start, n int) []model.Swap {
	swaps := make([]model.Swap, 0, n)
	for i := start; i < start+n; i++ {
		swaps = append(swaps, model.Swap{
			ID:            fmt.Sprintf("swap-%05d", i),
			Timestamp:     int64(1_700_000_000 + i),
			PoolLiquidity: "1000",
			FeeValue:      "1",
		})
	}
	return swaps
}

func swapPage(poolID string, swaps []model.Swap) map[string]any {
	return map[string]any{
		"pools": []map[string]any{{"id": poolID, "swaps": swaps}},
	}
}
