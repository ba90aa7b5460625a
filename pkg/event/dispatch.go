package event

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/shashiranjanraj/chequer/pkg/metrics"
)

// sendBreadthFirst queues one call per subscriber. If ctx belongs to a
// chain of this bus that is still draining, the calls join it and the
// function returns at once; otherwise it starts a chain and drains it on
// the calling goroutine, including everything handlers send meanwhile.
func (b *Bus) sendBreadthFirst(ctx context.Context, ev any, subs []subscriber, onError ErrorHandler) {
	entries := make([]pending, len(subs))
	for i, sub := range subs {
		entries[i] = pending{event: ev, sub: sub, onError: onError}
	}

	if c := chainFrom(ctx, b); c != nil && c.join(entries) {
		return
	}
	if len(entries) == 0 {
		return
	}

	c := newChain(entries)
	ctx = context.WithValue(ctx, chainKey{bus: b}, c)
	defer func() {
		b.metrics.DrainQueueDepth.Observe(float64(c.finish()))
	}()

	for {
		p, ok := c.next()
		if !ok {
			return
		}
		if err := b.invoke(ctx, p.sub, p.event); err != nil {
			p.onError(ctx, err)
		}
	}
}

// invoke runs one handler, turning a returned error or a panic into a
// *HandlerError.
func (b *Bus) invoke(ctx context.Context, sub subscriber, ev any) (err error) {
	label := sub.typ.String()
	b.metrics.HandlerInvocations.WithLabelValues(label).Inc()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b.metrics.HandlerFailures.WithLabelValues(label, metrics.KindPanic).Inc()

		cause := fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		if rerr, ok := r.(error); ok {
			cause = fmt.Errorf("%w: %w", ErrHandlerPanic, rerr)
		}
		err = &HandlerError{
			EventType:      sub.typ,
			SubscriptionID: sub.id,
			Err:            cause,
			Stack:          debug.Stack(),
		}
	}()

	if herr := sub.fn(ctx, ev); herr != nil {
		b.metrics.HandlerFailures.WithLabelValues(label, metrics.KindError).Inc()
		return &HandlerError{EventType: sub.typ, SubscriptionID: sub.id, Err: herr}
	}
	return nil
}

// sendDepthFirst calls every subscriber in order on the calling goroutine.
// A nested Send completes before the next subscriber here runs. The first
// error is returned as is and later subscribers are skipped; panics are not
// recovered.
func (b *Bus) sendDepthFirst(ctx context.Context, ev any, subs []subscriber) error {
	for _, sub := range subs {
		label := sub.typ.String()
		b.metrics.HandlerInvocations.WithLabelValues(label).Inc()

		if err := sub.fn(ctx, ev); err != nil {
			b.metrics.HandlerFailures.WithLabelValues(label, metrics.KindError).Inc()
			return err
		}
	}
	return nil
}
