package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/chequer/pkg/event"
	"github.com/shashiranjanraj/chequer/pkg/logger"
	"github.com/shashiranjanraj/chequer/pkg/metrics"
)

var demoModeFlag string

// chequer demo
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show the delivery order of a nested send in each mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		modes := []event.Mode{event.BreadthFirst, event.DepthFirst}
		if demoModeFlag != "" {
			m, err := event.ParseMode(demoModeFlag)
			if err != nil {
				return err
			}
			modes = []event.Mode{m}
		}

		out := cmd.OutOrStdout()
		for _, m := range modes {
			trace, err := demoTrace(m)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-14s %s\n", m.String()+":", strings.Join(trace, " -> "))
		}
		return nil
	},
}

func init() {
	demoCmd.Flags().StringVar(&demoModeFlag, "mode", "", "breadth_first or depth_first (default: both)")
}

// demoTrace wires two float64 handlers A and B and one int handler C.
// A sends an int through its context before returning.
func demoTrace(mode event.Mode) ([]string, error) {
	bus, err := event.New(
		event.WithMode(mode),
		event.WithLogger(logger.Discard()),
		event.WithMetrics(metrics.NewEventMetrics(prometheus.NewRegistry())),
		event.WithErrorHandler(event.LogErrors),
	)
	if err != nil {
		return nil, err
	}

	var trace []string
	floats := event.Of[float64](bus)
	ints := event.Of[int](bus)

	floats.Subscribe(func(ctx context.Context, v float64) error {
		trace = append(trace, fmt.Sprintf("A(%g)", v))
		return ints.Send(ctx, 0)
	})
	floats.Subscribe(func(_ context.Context, v float64) error {
		trace = append(trace, fmt.Sprintf("B(%g)", v))
		return nil
	})
	ints.Subscribe(func(_ context.Context, v int) error {
		trace = append(trace, fmt.Sprintf("C(%d)", v))
		return nil
	})

	if err := floats.Send(context.Background(), 3.0); err != nil {
		return trace, err
	}
	return trace, nil
}
