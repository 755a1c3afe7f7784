package webserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the relay collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests    *prometheus.CounterVec
	upstream    *prometheus.HistogramVec
	extractions *prometheus.CounterVec
	limited     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medshield",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medshield",
			Subsystem: "upstream",
			Name:      "duration_seconds",
			Help:      "Model call latency including retries.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"outcome"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medshield",
			Subsystem: "extractor",
			Name:      "results_total",
			Help:      "Extraction outcomes by winning stage.",
		}, []string{"stage"}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medshield",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.upstream, m.extractions, m.limited)
	}
	return m
}

func (m *Metrics) request(route, method, status string) {
	if m != nil {
		m.requests.WithLabelValues(route, method, status).Inc()
	}
}

func (m *Metrics) upstreamCall(outcome string, d time.Duration) {
	if m != nil {
		m.upstream.WithLabelValues(outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) extraction(stage string) {
	if m != nil {
		m.extractions.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) rateLimited() {
	if m != nil {
		m.limited.Inc()
	}
}
