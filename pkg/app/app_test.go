package app_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/chequer/config"
	"github.com/shashiranjanraj/chequer/pkg/app"
	"github.com/shashiranjanraj/chequer/pkg/event"
	"github.com/shashiranjanraj/chequer/pkg/logger"
	"github.com/shashiranjanraj/chequer/pkg/metrics"
)

type ping struct{ N int }

type registered struct{}

var globalRuns int

func init() {
	app.RegisterListener(func(b *event.Bus) {
		globalRuns++
		event.Of[registered](b).Subscribe(func(context.Context, registered) error { return nil })
	})
}

func withEnv(t *testing.T, kv ...string) {
	t.Helper()
	for i := 0; i+1 < len(kv); i += 2 {
		t.Setenv(kv[i], kv[i+1])
	}
	require.NoError(t, config.Reload())
	t.Cleanup(func() { _ = config.Reload() })
}

func quiet() []event.Option {
	return []event.Option{
		event.WithLogger(logger.Discard()),
		event.WithMetrics(metrics.NewEventMetrics(prometheus.NewRegistry())),
	}
}

func TestBus_FromConfig(t *testing.T) {
	withEnv(t, "EVENT_MODE", "depth_first", "EVENT_ON_ERROR", "ignore")

	var got []int
	bus, err := app.New().
		With(quiet()...).
		Listen(func(b *event.Bus) {
			event.Of[ping](b).Subscribe(func(_ context.Context, p ping) error {
				got = append(got, p.N)
				return nil
			})
		}).
		Bus()
	require.NoError(t, err)

	assert.Equal(t, event.DepthFirst, bus.Mode())
	require.NoError(t, event.Of[ping](bus).Send(context.Background(), ping{N: 7}))
	assert.Equal(t, []int{7}, got)
}

func TestBus_RunsGlobalListeners(t *testing.T) {
	withEnv(t, "EVENT_MODE", "breadth_first", "EVENT_ON_ERROR", "log")

	before := globalRuns
	bus, err := app.New().With(quiet()...).Bus()
	require.NoError(t, err)

	assert.Equal(t, before+1, globalRuns)
	assert.Equal(t, 1, event.Of[registered](bus).Subscribers())
}

func TestBus_OptionsOverrideConfig(t *testing.T) {
	withEnv(t, "EVENT_MODE", "depth_first", "EVENT_ON_ERROR", "ignore")

	bus, err := app.New().With(append(quiet(), event.WithMode(event.BreadthFirst))...).Bus()
	require.NoError(t, err)
	assert.Equal(t, event.BreadthFirst, bus.Mode())
}

func TestBus_InvalidMode(t *testing.T) {
	withEnv(t, "EVENT_MODE", "sideways", "EVENT_ON_ERROR", "ignore")

	_, err := app.New().With(quiet()...).Bus()
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrInvalidMode)
}

func TestBus_InvalidErrorPolicy(t *testing.T) {
	withEnv(t, "EVENT_MODE", "bfs", "EVENT_ON_ERROR", "shrug")

	_, err := app.Options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EVENT_ON_ERROR")
}

func TestServe_PropagatesBootError(t *testing.T) {
	withEnv(t, "EVENT_MODE", "sideways")

	err := app.New().With(quiet()...).Serve(context.Background(), "127.0.0.1:0")
	assert.ErrorIs(t, err, event.ErrInvalidMode)
}
