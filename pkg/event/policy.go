package event

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shashiranjanraj/chequer/pkg/logger"
)

// ErrorHandler receives the failure of one handler invocation during a
// breadth-first drain. err is always a *HandlerError. The drain continues
// with the next pending handler once ErrorHandler returns.
type ErrorHandler func(ctx context.Context, err error)

// Exit terminates the process for FailFast. Tests replace it.
var Exit = os.Exit

// FailFast logs the failure and terminates the process with status 2.
// It is the bus default unless WithErrorHandler says otherwise.
func FailFast(ctx context.Context, err error) {
	args := []any{"error", err}
	var he *HandlerError
	if errors.As(err, &he) {
		args = append(args, "event_type", he.EventType.String(), "subscription_id", he.SubscriptionID)
		if he.Stack != nil {
			args = append(args, "stack", string(he.Stack))
		}
	}
	logger.WithCtx(ctx).Error("event handler failed, aborting", args...)
	Exit(2)
}

// LogErrors logs the failure at WARN and lets the drain continue.
func LogErrors(ctx context.Context, err error) {
	logger.WithCtx(ctx).Warn("event handler failed", "error", err)
}

// Ignore drops the failure.
func Ignore(context.Context, error) {}

// CollectErrors returns an ErrorHandler that records every failure and a
// function returning them joined with errors.Join (nil when none occurred).
// Both are safe for concurrent use.
func CollectErrors() (ErrorHandler, func() error) {
	var (
		mu   sync.Mutex
		errs []error
	)
	collect := func(_ context.Context, err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	result := func() error {
		mu.Lock()
		defer mu.Unlock()
		return errors.Join(errs...)
	}
	return collect, result
}

// ParseErrorHandler maps a configuration name to a policy:
// "failfast", "log" or "ignore".
func ParseErrorHandler(s string) (ErrorHandler, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "failfast", "fail_fast", "fail-fast":
		return FailFast, nil
	case "log":
		return LogErrors, nil
	case "ignore":
		return Ignore, nil
	default:
		return nil, fmt.Errorf("event: unknown error policy %q", s)
	}
}
