package event

import (
	"log/slog"

	"github.com/shashiranjanraj/chequer/pkg/metrics"
)

// Option configures a Bus.
type Option func(*settings)

type settings struct {
	mode    Mode
	onError ErrorHandler
	log     *slog.Logger
	metrics *metrics.EventMetrics
}

func defaultSettings() settings {
	return settings{
		mode:    BreadthFirst,
		onError: FailFast,
		metrics: metrics.Events,
	}
}

// WithMode fixes the dispatch mode. New rejects modes other than
// BreadthFirst and DepthFirst.
func WithMode(m Mode) Option {
	return func(s *settings) {
		s.mode = m
	}
}

// WithErrorHandler replaces FailFast as the policy used by Handle.Send.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *settings) {
		if h != nil {
			s.onError = h
		}
	}
}

// WithLogger sets the logger the bus writes to. The bus adds
// component=event and bus_id to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// WithMetrics records into m instead of metrics.Events.
func WithMetrics(m *metrics.EventMetrics) Option {
	return func(s *settings) {
		if m != nil {
			s.metrics = m
		}
	}
}
