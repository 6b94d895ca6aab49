package subgraph

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK        = "ok"
	outcomeNoData    = "no_data"
	outcomeHTTP      = "http_error"
	outcomeTransport = "transport_error"
)

// Metrics holds collectors for upstream requests.
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	retries  prometheus.Counter
}

// NewMetrics registers the client collectors. A nil registerer gets a
// private registry so repeated construction never collides.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolscope",
			Subsystem: "subgraph",
			Name:      "requests_total",
			Help:      "Subgraph requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "poolscope",
			Subsystem: "subgraph",
			Name:      "request_duration_seconds",
			Help:      "Subgraph request latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "poolscope",
			Subsystem: "subgraph",
			Name:      "retries_total",
			Help:      "Transport-level retry attempts.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.retries)
	return m
}
