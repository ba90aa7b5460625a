// Package server exposes a bus over HTTP for operators: Prometheus
// metrics, a liveness probe and a snapshot of the subscription table.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/chequer/pkg/event"
	"github.com/shashiranjanraj/chequer/pkg/logger"
	"github.com/shashiranjanraj/chequer/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// EventType is one row of the /debug/events table.
type EventType struct {
	Type        string `json:"type"`
	Subscribers int    `json:"subscribers"`
}

// Snapshot is the /debug/events response body.
type Snapshot struct {
	BusID      string      `json:"bus_id"`
	Mode       string      `json:"mode"`
	EventTypes []EventType `json:"event_types"`
}

// Handler builds the router. metricsHandler may be nil, in which case the
// default metrics registry is served.
func Handler(bus *event.Bus, metricsHandler http.Handler) http.Handler {
	if metricsHandler == nil {
		metricsHandler = metrics.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", metricsHandler)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/debug/events", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, snapshot(bus))
	})
	return r
}

func snapshot(bus *event.Bus) Snapshot {
	types := bus.EventTypes()
	out := Snapshot{
		BusID:      bus.ID(),
		Mode:       bus.Mode().String(),
		EventTypes: make([]EventType, 0, len(types)),
	}
	for _, t := range types {
		out.EventTypes = append(out.EventTypes, EventType{
			Type:        t.String(),
			Subscribers: bus.Subscribers(t),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Start listens on addr and serves h until ctx is cancelled, then shuts
// down gracefully. A nil return means a clean shutdown.
func Start(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, h)
}

// Serve is Start on an existing listener. It takes ownership of ln.
func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http server shutting down", "addr", ln.Addr().String())
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
