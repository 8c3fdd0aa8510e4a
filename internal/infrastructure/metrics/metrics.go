package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the screening loop.
type Metrics struct {
	CyclesTotal     prometheus.Counter
	CycleDuration   prometheus.Histogram
	MarketsScreened prometheus.Counter
	FetchErrors     prometheus.Counter
	Candidates      prometheus.Gauge

	// Labeled by the criterion that short-circuited the market.
	RejectionsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

func New() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_cycles_total",
			Help: "Completed screening cycles.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_cycle_duration_seconds",
			Help:    "Wall time per screening cycle.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		MarketsScreened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_markets_screened_total",
			Help: "Markets pushed through the evaluator chain.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_fetch_errors_total",
			Help: "Upstream market-data fetch failures.",
		}),
		Candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_candidates",
			Help: "Candidates in the most recent report.",
		}),
		RejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_rejections_total",
			Help: "Markets rejected, by first failing criterion.",
		}, []string{"criterion"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.MarketsScreened,
		m.FetchErrors,
		m.Candidates,
		m.RejectionsTotal,
	)

	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
