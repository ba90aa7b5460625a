package event

import (
	"context"
	"reflect"
	"sync/atomic"
)

// Handler receives events of type T. The context carries the dispatch
// chain; pass it (or a context derived from it) to any Send made from the
// handler so breadth-first ordering holds.
type Handler[T any] func(ctx context.Context, ev T) error

// Handle sends and subscribes to events of one type on one bus.
type Handle[T any] struct {
	bus *Bus
	typ reflect.Type
}

// Of returns the bus's Handle for T. The same *Handle is returned for the
// life of the bus.
func Of[T any](b *Bus) *Handle[T] {
	typ := reflect.TypeFor[T]()
	if h, ok := b.handles.Load(typ); ok {
		return h.(*Handle[T])
	}
	h, _ := b.handles.LoadOrStore(typ, &Handle[T]{bus: b, typ: typ})
	return h.(*Handle[T])
}

// Type is the reflect.Type used as T's registry key.
func (h *Handle[T]) Type() reflect.Type { return h.typ }

// Subscribers counts the live subscriptions for T.
func (h *Handle[T]) Subscribers() int { return h.bus.reg.count(h.typ) }

// Send broadcasts ev to every subscriber of T using the bus's error policy
// (FailFast unless the bus was built WithErrorHandler).
//
// In BreadthFirst mode handler failures go to the policy and Send returns
// nil. In DepthFirst mode the first handler error is returned and the
// remaining handlers are skipped.
func (h *Handle[T]) Send(ctx context.Context, ev T) error {
	return h.bus.send(ctx, h.typ, ev, nil)
}

// SendWith is Send with onError as the policy for the calls it queues.
// DepthFirst buses ignore onError.
func (h *Handle[T]) SendWith(ctx context.Context, ev T, onError ErrorHandler) error {
	return h.bus.send(ctx, h.typ, ev, onError)
}

// Subscribe calls fn for every T sent until the returned Subscription is
// closed.
func (h *Handle[T]) Subscribe(fn Handler[T]) *Subscription {
	if fn == nil {
		panic("event: Subscribe called with nil handler")
	}
	return h.bus.subscribe(h.typ, func(ctx context.Context, ev any) error {
		v, _ := ev.(T)
		return fn(ctx, v)
	})
}

// SubscribeOnce calls fn for the first T sent and then closes its own
// subscription before fn runs, so events fn sends itself never reach it.
// Closing the returned Subscription early cancels it.
func (h *Handle[T]) SubscribeOnce(fn Handler[T]) *Subscription {
	if fn == nil {
		panic("event: SubscribeOnce called with nil handler")
	}

	var (
		self  atomic.Pointer[Subscription]
		fired atomic.Bool
	)
	sub := h.Subscribe(func(ctx context.Context, ev T) error {
		if !fired.CompareAndSwap(false, true) {
			return nil
		}
		if s := self.Load(); s != nil {
			_ = s.Close()
		}
		return fn(ctx, ev)
	})

	self.Store(sub)
	// A concurrent Send may have fired before self was set.
	if fired.Load() {
		_ = sub.Close()
	}
	return sub
}
