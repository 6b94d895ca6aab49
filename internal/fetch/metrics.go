package fetch

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds pagination collectors.
type Metrics struct {
	pages *prometheus.CounterVec
	swaps prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolscope",
			Subsystem: "swaps",
			Name:      "pages_total",
			Help:      "Swap pages requested by outcome.",
		}, []string{"outcome"}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "poolscope",
			Subsystem: "swaps",
			Name:      "fetched_total",
			Help:      "Swap records received.",
		}),
	}
	reg.MustRegister(m.pages, m.swaps)
	return m
}
