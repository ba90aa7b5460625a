package event

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidMode is returned by New and ParseMode for a dispatch mode
	// that is neither BreadthFirst nor DepthFirst.
	ErrInvalidMode = errors.New("event: invalid dispatch mode")

	// ErrNilContext is returned by Send when called with a nil context.
	ErrNilContext = errors.New("event: send context is nil")

	// ErrHandlerPanic is wrapped by the HandlerError produced when a handler
	// panics during a breadth-first drain.
	ErrHandlerPanic = errors.New("event: handler panicked")
)

// HandlerError reports a failed handler invocation to an ErrorHandler.
type HandlerError struct {
	EventType      reflect.Type
	SubscriptionID uint64
	Err            error

	// Stack is set when the handler panicked.
	Stack []byte
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("event: handler %d for %s: %v", e.SubscriptionID, e.EventType, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Panicked reports whether the handler panicked rather than returning an error.
func (e *HandlerError) Panicked() bool {
	return errors.Is(e.Err, ErrHandlerPanic)
}
