package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/chequer/pkg/metrics"
)

func TestNewEventMetrics_RegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewEventMetrics(reg)

	m.EventsSent.WithLabelValues("int", "breadth_first").Inc()
	m.SubscriptionsActive.WithLabelValues("int").Set(2)
	m.DrainQueueDepth.Observe(3)

	n, err := testutil.GatherAndCount(reg,
		"chequer_event_sent_total",
		"chequer_event_subscriptions_active",
		"chequer_event_drain_queue_depth",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNewEventMetrics_NilRegistry(t *testing.T) {
	m := metrics.NewEventMetrics(nil)
	m.HandlerFailures.WithLabelValues("int", metrics.KindPanic).Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HandlerFailures.WithLabelValues("int", metrics.KindPanic)))
}

func TestNewEventMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewEventMetrics(reg)
	assert.Panics(t, func() { metrics.NewEventMetrics(reg) })
}

func TestHandler_ServesDefaultRegistry(t *testing.T) {
	metrics.Events.HandlerInvocations.WithLabelValues("metrics_test").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `chequer_event_handler_invocations_total{event_type="metrics_test"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
