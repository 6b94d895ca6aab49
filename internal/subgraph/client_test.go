package subgraph

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testEndpoint = "https://index.example/subgraphs/name/pools"

type poolsData struct {
	Pools []struct {
		ID string `json:"id"`
	} `json:"pools"`
}

func newTestClient(t *testing.T, maxRetries int) (*Client, *httpmock.MockTransport, *prometheus.Registry) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	reg := prometheus.NewRegistry()
	client, err := NewClient(ClientConfig{
		Endpoint:     testEndpoint,
		Timeout:      time.Second,
		MaxRetries:   maxRetries,
		RetryBackoff: time.Millisecond,
		Transport:    transport,
	}, zap.NewNop(), reg)
	require.NoError(t, err)
	return client, transport, reg
}

func TestClientQueryDecodesData(t *testing.T) {
	client, transport, reg := newTestClient(t, 0)

	var gotQuery string
	transport.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		gotQuery = string(body)
		return httpmock.NewStringResponse(200, `{"data":{"pools":[{"id":"0x1"},{"id":"0x2"}]}}`), nil
	})

	var out poolsData
	require.NoError(t, client.Query(context.Background(), "{ pools { id } }", &out))
	require.Len(t, out.Pools, 2)
	assert.Equal(t, "0x2", out.Pools[1].ID)
	assert.Contains(t, gotQuery, `"query":"{ pools { id } }"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.requests.WithLabelValues(outcomeOK)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestClientQueryErrorsWithoutData(t *testing.T) {
	client, transport, _ := newTestClient(t, 3)

	calls := 0
	transport.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		calls++
		return httpmock.NewStringResponse(200, `{"errors":[{"message":"indexing_error"},{"message":"timeout"}]}`), nil
	})

	var out poolsData
	err := client.Query(context.Background(), "{ pools { id } }", &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Len(t, upstream.Errors, 2)
	assert.Equal(t, "indexing_error", upstream.Errors[0].Message)
	assert.True(t, strings.Contains(err.Error(), "timeout"))
	assert.Equal(t, 1, calls, "graphql errors must not be retried")
}

func TestClientQueryErrorPathWithIndex(t *testing.T) {
	client, transport, _ := newTestClient(t, 0)
	transport.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(200, `{"data":null,"errors":[{"message":"bad swap","path":["pools",0,"swaps"]}]}`))

	var out poolsData
	err := client.Query(context.Background(), "{ pools { id } }", &out)
	require.ErrorIs(t, err, ErrDataUnavailable)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Len(t, upstream.Errors, 1)
	assert.Equal(t, "bad swap", upstream.Errors[0].Message)
	assert.Equal(t, []any{"pools", 0.0, "swaps"}, upstream.Errors[0].Path)
}

func TestClientQueryNullData(t *testing.T) {
	client, transport, _ := newTestClient(t, 0)
	transport.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(200, `{"data":null}`))

	var out poolsData
	err := client.Query(context.Background(), "{ pools { id } }", &out)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestClientQueryRetriesServerErrors(t *testing.T) {
	client, transport, _ := newTestClient(t, 2)

	calls := 0
	transport.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return httpmock.NewStringResponse(503, "unavailable"), nil
		}
		return httpmock.NewStringResponse(200, `{"data":{"pools":[]}}`), nil
	})

	var out poolsData
	require.NoError(t, client.Query(context.Background(), "{ pools { id } }", &out))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.retries))
}

func TestClientQueryGivesUpAfterRetries(t *testing.T) {
	client, transport, _ := newTestClient(t, 2)

	calls := 0
	transport.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		calls++
		return httpmock.NewStringResponse(502, "bad gateway"), nil
	})

	var out poolsData
	err := client.Query(context.Background(), "{ pools { id } }", &out)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, 3, calls)
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(ClientConfig{}, nil, nil)
	assert.Error(t, err)
}
