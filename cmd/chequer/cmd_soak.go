package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/chequer/pkg/event"
	"github.com/shashiranjanraj/chequer/pkg/logger"
)

var (
	soakModeFlag        string
	soakGoroutinesFlag  int
	soakEventsFlag      int
	soakSubscribersFlag int
)

// chequer soak
var soakCmd = &cobra.Command{
	Use:   "soak",
	Short: "Stress the bus with concurrent sends, subscribes and closes",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := event.ParseMode(soakModeFlag)
		if err != nil {
			return err
		}

		res, err := runSoak(cmd.Context(), soakOptions{
			Mode:        mode,
			Goroutines:  soakGoroutinesFlag,
			Events:      soakEventsFlag,
			Subscribers: soakSubscribersFlag,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"run %s (%s): sent=%d delivered=%d/%d echoes=%d/%d churned=%d in %s\n",
			res.RunID, res.Mode, res.Sent, res.Delivered, res.Expected,
			res.Echoes, res.Sent, res.Churned, res.Elapsed.Round(time.Millisecond))

		if lost := res.Lost(); lost != 0 {
			return fmt.Errorf("soak %s: %d deliveries lost", res.RunID, lost)
		}
		return nil
	},
}

func init() {
	soakCmd.Flags().StringVar(&soakModeFlag, "mode", "breadth_first", "breadth_first or depth_first")
	soakCmd.Flags().IntVar(&soakGoroutinesFlag, "goroutines", 8, "concurrent senders")
	soakCmd.Flags().IntVar(&soakEventsFlag, "events", 10000, "total events to send")
	soakCmd.Flags().IntVar(&soakSubscribersFlag, "subscribers", 4, "stable subscribers")
}

type soakOptions struct {
	Mode        event.Mode
	Goroutines  int
	Events      int
	Subscribers int
}

type soakTick struct{ Seq int }

type soakEcho struct{ Seq int }

type soakResult struct {
	RunID     string
	Mode      event.Mode
	Sent      int
	Expected  int64
	Delivered int64
	Echoes    int64
	Churned   int64
	Elapsed   time.Duration
}

// Lost counts deliveries the stable subscribers and the echo handler missed.
func (r soakResult) Lost() int64 {
	return (r.Expected - r.Delivered) + (int64(r.Sent) - r.Echoes)
}

// runSoak sends opts.Events ticks from at most opts.Goroutines goroutines.
// Every tick reaches each stable subscriber once, and the first subscriber
// re-sends it as an echo through its context. A churn goroutine keeps
// subscribing and closing extra handlers while the senders run.
func runSoak(ctx context.Context, opts soakOptions) (soakResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Goroutines < 1 {
		opts.Goroutines = 1
	}
	if opts.Subscribers < 1 {
		opts.Subscribers = 1
	}

	res := soakResult{
		RunID:    uuid.NewString(),
		Mode:     opts.Mode,
		Sent:     opts.Events,
		Expected: int64(opts.Events) * int64(opts.Subscribers),
	}
	log := logger.Component("soak").With("run_id", res.RunID)

	collect, failures := event.CollectErrors()
	bus, err := event.New(
		event.WithMode(opts.Mode),
		event.WithErrorHandler(collect),
		event.WithLogger(logger.Discard()), // churn would flood DEBUG
	)
	if err != nil {
		return res, err
	}

	var delivered, echoes, churned atomic.Int64
	ticks := event.Of[soakTick](bus)
	echo := event.Of[soakEcho](bus)

	subs := make([]*event.Subscription, 0, opts.Subscribers+1)
	for i := range opts.Subscribers {
		relay := i == 0
		subs = append(subs, ticks.Subscribe(func(ctx context.Context, t soakTick) error {
			delivered.Add(1)
			if relay {
				return echo.Send(ctx, soakEcho(t))
			}
			return nil
		}))
	}
	subs = append(subs, echo.Subscribe(func(context.Context, soakEcho) error {
		echoes.Add(1)
		return nil
	}))
	defer func() {
		for _, s := range subs {
			s.Dispose()
		}
	}()

	log.Info("soak started",
		"mode", opts.Mode.String(),
		"goroutines", opts.Goroutines,
		"events", opts.Events,
		"subscribers", opts.Subscribers,
	)
	start := time.Now()

	churnCtx, stopChurn := context.WithCancel(ctx)
	defer stopChurn()
	churn := make(chan struct{})
	go func() {
		defer close(churn)
		for churnCtx.Err() == nil {
			s := ticks.Subscribe(func(context.Context, soakTick) error {
				churned.Add(1)
				return nil
			})
			s.Dispose()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Goroutines)
	for seq := range opts.Events {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return ticks.Send(context.Background(), soakTick{Seq: seq})
		})
	}
	err = g.Wait()

	stopChurn()
	<-churn

	res.Elapsed = time.Since(start)
	res.Delivered = delivered.Load()
	res.Echoes = echoes.Load()
	res.Churned = churned.Load()

	if err != nil {
		return res, err
	}
	if err := failures(); err != nil {
		return res, err
	}
	log.Info("soak finished",
		"delivered", res.Delivered,
		"echoes", res.Echoes,
		"churned", res.Churned,
		"elapsed", res.Elapsed,
	)
	return res, nil
}
