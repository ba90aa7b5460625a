// Package app boots a chequer event bus from configuration.
//
// # Minimal usage
//
//	package main
//
//	import (
//	    "context"
//	    "github.com/shashiranjanraj/chequer/pkg/app"
//	    "github.com/shashiranjanraj/chequer/pkg/event"
//	)
//
//	func main() {
//	    bus, err := app.New().
//	        Listen(func(b *event.Bus) {
//	            event.Of[UserCreated](b).Subscribe(sendWelcomeMail)
//	        }).
//	        Bus()
//	    if err != nil {
//	        panic(err)
//	    }
//	    _ = event.Of[UserCreated](bus).Send(context.Background(), UserCreated{ID: 1})
//	}
//
// Mode and error policy come from EVENT_MODE and EVENT_ON_ERROR (see
// package config); options passed to With win over both.
package app

import (
	"fmt"

	"github.com/shashiranjanraj/chequer/config"
	"github.com/shashiranjanraj/chequer/pkg/event"
	"github.com/shashiranjanraj/chequer/pkg/logger"
)

// ListenerFunc registers subscriptions on a freshly built bus.
type ListenerFunc func(*event.Bus)

// global listeners registered via blank-import init() functions.
var globalListeners []ListenerFunc

// RegisterListener adds fn to every bus built by an Application.
// Call this from an init() in your listener files.
func RegisterListener(fn ListenerFunc) {
	globalListeners = append(globalListeners, fn)
}

// ─── Application Builder ──────────────────────────────────────────────────────

// Application collects what is needed to build a bus.
// Build one with New(), attach listeners and options, then call Bus().
type Application struct {
	listeners []ListenerFunc
	opts      []event.Option
}

// New creates a new Application instance.
func New() *Application {
	return &Application{}
}

// Listen adds a listener registration callback. Callbacks run in the
// order they were added, after the global ones.
func (a *Application) Listen(fn ListenerFunc) *Application {
	a.listeners = append(a.listeners, fn)
	return a
}

// With appends bus options applied after the configured ones.
func (a *Application) With(opts ...event.Option) *Application {
	a.opts = append(a.opts, opts...)
	return a
}

// Options resolves the configured mode and error policy into bus options.
func Options() ([]event.Option, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	mode, err := event.ParseMode(config.EventMode())
	if err != nil {
		return nil, fmt.Errorf("EVENT_MODE: %w", err)
	}
	onError, err := event.ParseErrorHandler(config.EventOnError())
	if err != nil {
		return nil, fmt.Errorf("EVENT_ON_ERROR: %w", err)
	}

	return []event.Option{
		event.WithMode(mode),
		event.WithErrorHandler(onError),
		event.WithLogger(logger.L),
	}, nil
}

// Bus builds the bus and runs every listener callback against it.
func (a *Application) Bus() (*event.Bus, error) {
	opts, err := Options()
	if err != nil {
		return nil, err
	}

	b, err := event.New(append(opts, a.opts...)...)
	if err != nil {
		return nil, err
	}

	for _, fn := range globalListeners {
		fn(b)
	}
	for _, fn := range a.listeners {
		fn(b)
	}

	logger.Info("event bus ready",
		"bus_id", b.ID(),
		"mode", b.Mode().String(),
		"event_types", len(b.EventTypes()),
	)
	return b, nil
}
