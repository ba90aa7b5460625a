package event

import (
	"io"
	"reflect"
	"sync"
)

// Subscription is returned by Subscribe and SubscribeOnce. Closing it
// cancels the registration. Close may be called any number of times from
// any goroutine, including from inside the subscribed handler; only the
// first call has an effect.
type Subscription struct {
	bus *Bus
	typ reflect.Type
	id  uint64

	mu     sync.Mutex
	closed bool
}

var _ io.Closer = (*Subscription)(nil)

// ID is the registration id, unique and increasing within one bus.
func (s *Subscription) ID() uint64 { return s.id }

// EventType is the type the subscription listens for.
func (s *Subscription) EventType() reflect.Type { return s.typ }

// Close removes the subscription from the bus. It always returns nil.
// Sends that already took their snapshot may still call the handler once.
func (s *Subscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.bus.unsubscribe(s.typ, s.id)
	return nil
}

// Dispose is Close without the error, for use in defer statements.
func (s *Subscription) Dispose() { _ = s.Close() }

// Closed reports whether Close has been called.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
