package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache lookups. A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups *prometheus.CounterVec
	evicts  prometheus.Counter
}

// NewMetrics registers the cache collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medshield",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by backend and result.",
		}, []string{"backend", "result"}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medshield",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Expired entries removed by the sweeper.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.evicts)
	}
	return m
}

func (m *Metrics) hit(backend string) {
	if m != nil {
		m.lookups.WithLabelValues(backend, "hit").Inc()
	}
}

func (m *Metrics) miss(backend string) {
	if m != nil {
		m.lookups.WithLabelValues(backend, "miss").Inc()
	}
}

func (m *Metrics) evicted(n int) {
	if m != nil {
		m.evicts.Add(float64(n))
	}
}
