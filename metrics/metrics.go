// Package metrics holds the prometheus instruments of the catalog service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "library"

type Metrics struct {
	Operations    *prometheus.CounterVec
	BooksAdded    prometheus.Counter
	EventsDropped prometheus.Counter
	Subscribers   prometheus.Gauge
}

// NewMetrics creates the instruments and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "operations_total",
				Help:      "Resolved GraphQL fields by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		BooksAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "books_added_total",
			Help:      "Books created through addBook",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "events_dropped_total",
			Help:      "bookAdded events dropped because a subscriber buffer was full",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "subscribers",
			Help:      "Active bookAdded subscribers",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.BooksAdded, m.EventsDropped, m.Subscribers)
	}
	return m
}

// Observe counts one resolver call. Outcome is "ok" or "error".
func (m *Metrics) Observe(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) BookAdded() {
	if m == nil {
		return
	}
	m.BooksAdded.Inc()
}

func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.EventsDropped.Inc()
}

func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.Subscribers.Set(float64(n))
}
