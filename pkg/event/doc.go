// Package event provides an in-process, type-safe publish/subscribe bus.
//
// Senders and subscribers only share the event type:
//
//	bus := event.MustNew()
//
//	sub := event.Of[UserCreated](bus).Subscribe(func(ctx context.Context, ev UserCreated) error {
//	    return mailer.Welcome(ctx, ev.Email)
//	})
//	defer sub.Dispose()
//
//	_ = event.Of[UserCreated](bus).Send(ctx, UserCreated{Email: "a@b.c"})
//
// # Nested sends
//
// A handler may send further events. The bus mode decides what runs first.
//
// With BreadthFirst (the default) the nested event waits: every remaining
// handler of the current event runs, then the nested event's handlers, in
// the order the sends happened. The outermost Send runs all of it before
// returning. Handlers must pass the context they received to the nested
// Send; that context is how the bus recognises the nested call.
//
// With DepthFirst a nested Send delivers immediately and returns before the
// next handler of the outer event runs.
//
// # Failures
//
// In BreadthFirst mode each queued call carries an ErrorHandler. A handler
// that returns an error or panics is reported to it as a *HandlerError and
// the drain moves on to the next call. Handle.Send uses the bus policy,
// FailFast by default; Handle.SendWith takes one per call.
//
// In DepthFirst mode nothing is intercepted: the first error is returned by
// Send, later handlers are skipped, and panics unwind through the caller.
//
// # Concurrency
//
// Any goroutine may Send, Subscribe or Close at any time. Handlers run on
// the goroutine that made the outermost Send. Ordering guarantees hold
// within one dispatch chain only; chains started by different goroutines
// interleave freely.
package event
