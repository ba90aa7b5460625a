package app

import (
	"context"

	"github.com/shashiranjanraj/chequer/config"
	"github.com/shashiranjanraj/chequer/internal/server"
)

// Serve builds the bus and exposes it over HTTP on addr until ctx is done.
// An empty addr falls back to METRICS_ADDR.
func (a *Application) Serve(ctx context.Context, addr string) error {
	b, err := a.Bus()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = config.MetricsAddr()
	}
	return server.Start(ctx, addr, server.Handler(b, nil))
}
