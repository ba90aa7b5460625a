package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/chequer/config"
	"github.com/shashiranjanraj/chequer/pkg/app"
)

var serveAddrFlag string

// chequer serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve /metrics, /healthz and /debug/events for a configured bus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := serveAddrFlag
		if addr == "" {
			addr = config.MetricsAddr()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "chequer serving on %s. Press Ctrl+C to stop.\n", addr)
		if err := app.New().Serve(ctx, addr); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "chequer stopped.")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address (default: METRICS_ADDR)")
}
