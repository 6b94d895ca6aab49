package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Querier runs a GraphQL document and decodes the `data` payload into out.
type Querier interface {
	Query(ctx context.Context, document string, out any) error
}

// ClientConfig controls the HTTP transport.
type ClientConfig struct {
	Endpoint     string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// Transport overrides the HTTP round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Client posts GraphQL documents to a subgraph endpoint.
type Client struct {
	cfg     ClientConfig
	http    *resty.Client
	logger  *zap.Logger
	metrics *Metrics
}

type request struct {
	Query string `json:"query"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// NewClient builds a Client. The registerer receives the request collectors.
func NewClient(cfg ClientConfig, logger *zap.Logger, reg prometheus.Registerer) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Transport != nil {
		httpClient.SetTransport(cfg.Transport)
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		logger:  logger,
		metrics: NewMetrics(reg),
	}, nil
}

// Query posts document and decodes the data payload into out. Any outcome
// without a data payload returns an error matching ErrDataUnavailable.
// Transport failures and 5xx/429 responses are retried; GraphQL errors are not.
func (c *Client) Query(ctx context.Context, document string, out any) error {
	timer := prometheus.NewTimer(c.metrics.duration)
	defer timer.ObserveDuration()

	var payload json.RawMessage
	onRetry := func(attempt int, err error) {
		c.metrics.retries.Inc()
		c.logger.Warn("subgraph request retry", zap.Int("attempt", attempt), zap.Error(err))
	}
	err := withRetry(ctx, c.cfg.MaxRetries, c.cfg.RetryBackoff, onRetry, func(ctx context.Context) error {
		var err error
		payload, err = c.post(ctx, document)
		return err
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, out); err != nil {
		c.metrics.requests.WithLabelValues(outcomeNoData).Inc()
		return &UpstreamError{Cause: fmt.Errorf("decode data: %w", err)}
	}
	c.metrics.requests.WithLabelValues(outcomeOK).Inc()
	return nil
}

func (c *Client) post(ctx context.Context, document string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request{Query: document}).
		Post(c.cfg.Endpoint)
	if err != nil {
		c.metrics.requests.WithLabelValues(outcomeTransport).Inc()
		if ctx.Err() != nil {
			return nil, permanent(ctx.Err())
		}
		return nil, &UpstreamError{Cause: fmt.Errorf("post: %w", err)}
	}

	status := resp.StatusCode()
	if status >= 500 || status == http.StatusTooManyRequests {
		c.metrics.requests.WithLabelValues(outcomeHTTP).Inc()
		return nil, &UpstreamError{StatusCode: status}
	}

	var env response
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		c.metrics.requests.WithLabelValues(outcomeHTTP).Inc()
		return nil, permanent(&UpstreamError{StatusCode: status, Cause: fmt.Errorf("decode response: %w", err)})
	}

	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		c.metrics.requests.WithLabelValues(outcomeNoData).Inc()
		upstream := &UpstreamError{Errors: env.Errors}
		if status >= 300 {
			upstream.StatusCode = status
		}
		return nil, permanent(upstream)
	}

	if len(env.Errors) > 0 {
		c.logger.Warn("subgraph partial errors", zap.Int("count", len(env.Errors)), zap.String("first", env.Errors[0].Message))
	}
	return env.Data, nil
}
