// Package contexts has helpers for code that borrows a shared deadline as a
// context.Context rather than holding the timeout.Timeout itself.
package contexts

import (
	"context"
	"errors"
	"time"
)

// EnsureContext will choose the first non-nil context passed in. If all values
// are nil, context.Background() is returned.
func EnsureContext(ctx ...context.Context) context.Context {
	for _, c := range ctx {
		if c != nil {
			return c
		}
	}

	return context.Background()
}

// IsContextAlive returns true if the context is not done. A nil context is
// never alive.
func IsContextAlive(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	// This is non-blocking, so it will return immediately.
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// Remaining returns the time left until the context's deadline, measured
// from now. It returns false if the context is nil or has no deadline. The
// duration is negative once the deadline has passed.
func Remaining(ctx context.Context) (time.Duration, bool) {
	if ctx == nil {
		return 0, false
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}

	return time.Until(deadline), true
}

// Expired returns true if the context is done because its deadline passed,
// as opposed to being canceled or not being done at all.
func Expired(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}
