package event

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/chequer/pkg/logger"
	"github.com/shashiranjanraj/chequer/pkg/metrics"
)

// Bus decouples senders from subscribers. It is safe for concurrent use.
// Obtain a typed view with Of.
type Bus struct {
	id      string
	mode    Mode
	onError ErrorHandler
	log     *slog.Logger
	metrics *metrics.EventMetrics

	reg     *registry
	handles sync.Map // reflect.Type → *Handle[T]
}

// New creates a Bus. The dispatch mode is fixed for the life of the bus.
func New(opts ...Option) (*Bus, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	if !s.mode.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, s.mode)
	}

	id := uuid.NewString()
	log := s.log
	if log == nil {
		log = logger.L
	}
	log = log.With("component", "event", "bus_id", id)

	b := &Bus{
		id:      id,
		mode:    s.mode,
		onError: s.onError,
		log:     log,
		metrics: s.metrics,
		reg:     newRegistry(),
	}
	log.Debug("event bus created", "mode", s.mode.String())
	return b, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Bus {
	b, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// ID identifies the bus in logs.
func (b *Bus) ID() string { return b.id }

func (b *Bus) Mode() Mode { return b.mode }

// EventTypes lists the types that currently have subscribers.
func (b *Bus) EventTypes() []reflect.Type { return b.reg.types() }

// Subscribers counts the live subscriptions for typ.
func (b *Bus) Subscribers(typ reflect.Type) int { return b.reg.count(typ) }

func (b *Bus) subscribe(typ reflect.Type, fn handlerFunc) *Subscription {
	id := b.reg.add(typ, fn)
	b.metrics.SubscriptionsActive.WithLabelValues(typ.String()).Inc()
	b.log.Debug("subscribed", "event_type", typ.String(), "subscription_id", id)

	return &Subscription{bus: b, typ: typ, id: id}
}

// unsubscribe is a no-op for registrations that are already gone.
func (b *Bus) unsubscribe(typ reflect.Type, id uint64) {
	if !b.reg.remove(typ, id) {
		return
	}
	b.metrics.SubscriptionsActive.WithLabelValues(typ.String()).Dec()
	b.log.Debug("unsubscribed", "event_type", typ.String(), "subscription_id", id)
}

func (b *Bus) send(ctx context.Context, typ reflect.Type, ev any, onError ErrorHandler) error {
	if ctx == nil {
		return ErrNilContext
	}
	if onError == nil {
		onError = b.onError
	}

	subs := b.reg.snapshot(typ)
	b.metrics.EventsSent.WithLabelValues(typ.String(), b.mode.String()).Inc()

	switch b.mode {
	case BreadthFirst:
		b.sendBreadthFirst(ctx, ev, subs, onError)
		return nil
	case DepthFirst:
		return b.sendDepthFirst(ctx, ev, subs)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMode, b.mode)
	}
}
