// Package metrics provides Prometheus instrumentation for chequer.
//
// Every bus records into an EventMetrics. The package-level Events is
// registered on DefaultRegistry and is what a bus uses unless told
// otherwise; tests build their own with NewEventMetrics and a fresh
// registry so counts do not leak between cases.
//
// Expose the registry with Handler, e.g. from internal/server:
//
//	r.Handle("/metrics", metrics.Handler())
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chequer"

// Failure kinds used as the "kind" label of HandlerFailures.
const (
	KindError = "error"
	KindPanic = "panic"
)

// EventMetrics groups the collectors recorded by an event bus.
type EventMetrics struct {
	// EventsSent counts Send calls by event type and dispatch mode.
	EventsSent *prometheus.CounterVec

	// HandlerInvocations counts every handler call, successful or not.
	HandlerInvocations *prometheus.CounterVec

	// HandlerFailures counts handler calls that returned an error or panicked.
	HandlerFailures *prometheus.CounterVec

	// SubscriptionsActive tracks live subscriptions per event type.
	SubscriptionsActive *prometheus.GaugeVec

	// DrainQueueDepth records the longest pending queue seen by one
	// breadth-first drain.
	DrainQueueDepth prometheus.Histogram
}

// NewEventMetrics creates the bus collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewEventMetrics(reg prometheus.Registerer) *EventMetrics {
	m := &EventMetrics{
		EventsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "event",
				Name:      "sent_total",
				Help:      "Total number of events sent.",
			},
			[]string{"event_type", "mode"},
		),
		HandlerInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "event",
				Name:      "handler_invocations_total",
				Help:      "Total number of event handler invocations.",
			},
			[]string{"event_type"},
		),
		HandlerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "event",
				Name:      "handler_failures_total",
				Help:      "Total number of event handler invocations that failed.",
			},
			[]string{"event_type", "kind"}, // "error" | "panic"
		),
		SubscriptionsActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "event",
				Name:      "subscriptions_active",
				Help:      "Number of live subscriptions.",
			},
			[]string{"event_type"},
		),
		DrainQueueDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "drain_queue_depth",
			Help:      "Longest pending queue reached during one breadth-first drain.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 1024},
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.EventsSent,
			m.HandlerInvocations,
			m.HandlerFailures,
			m.SubscriptionsActive,
			m.DrainQueueDepth,
		)
	}
	return m
}

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by chequer.
// Register your own metrics against this.
var DefaultRegistry = prometheus.NewRegistry()

// Events is the default bus instrumentation, registered on DefaultRegistry.
var Events *EventMetrics

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	Events = NewEventMetrics(DefaultRegistry)
}

// Register lets you add your own prometheus.Collector to the chequer registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ─────────────────────────────────────────────
// /metrics endpoint handler
// ─────────────────────────────────────────────

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
func Handler() http.HandlerFunc {
	return HandlerFor(DefaultRegistry)
}

// HandlerFor is Handler for an arbitrary gatherer.
func HandlerFor(g prometheus.Gatherer) http.HandlerFunc {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: true, // enables text/plain AND OpenMetrics formats
	})
	return h.ServeHTTP
}
