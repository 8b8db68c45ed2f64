package using

import (
	"context"
	"time"

	"github.com/amp-labs/shared-timeout/timeout"
)

// Timeout returns a Resource which creates a shared timeout with the given
// budget and closes it when Use returns.
func Timeout(budget time.Duration, opts ...timeout.Option) *Resource[*timeout.Timeout] {
	return NewResource(func() (*timeout.Timeout, Closer, error) {
		t := timeout.FromDuration(budget, opts...)

		return t, t.Close, nil
	})
}

// ExistingTimeout wraps an already constructed timeout, so that it gets
// closed when Use returns. Ownership moves into the Resource.
func ExistingTimeout(t *timeout.Timeout) *Resource[*timeout.Timeout] {
	return NewResource(func() (*timeout.Timeout, Closer, error) {
		if t == nil {
			return nil, nil, ErrResourceNil
		}

		return t, t.Close, nil
	})
}

// Signal is like Timeout, but hands the cancellation signal to the function
// instead of the timeout itself. The signal is canceled with
// timeout.ErrDisposed as its cause once Use returns.
func Signal(budget time.Duration, opts ...timeout.Option) *Resource[context.Context] {
	return NewResource(func() (context.Context, Closer, error) {
		t := timeout.FromDuration(budget, opts...)

		ctx, err := t.Signal()

		return ctx, t.Close, err
	})
}
