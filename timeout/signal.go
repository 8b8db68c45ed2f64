package timeout

import (
	"context"
	"errors"

	"github.com/amp-labs/shared-timeout/contexts"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	causeExpired  = "expired"
	causeDisposed = "disposed"
)

// Signal returns a context which is canceled once the deadline elapses.
//
// The context is created on the first call, with a timer set to whatever
// Remaining returns at that moment, so it targets the same absolute deadline
// as the Timeout itself. Every later call returns that same context; the
// timer is never re-armed. If the Timeout has already elapsed, the context
// is canceled from the start.
//
// When the deadline elapses, the context's Err is context.DeadlineExceeded
// and its context.Cause is ErrExpired. When the Timeout is closed first,
// Err is context.Canceled and the cause is ErrDisposed.
//
// The returned context has no cancel function: borrowers can watch it, but
// only the deadline or Close can end it. After Close, Signal returns
// ErrDisposed.
func (t *Timeout) Signal() (context.Context, error) {
	t.mut.Lock()
	defer t.mut.Unlock()

	if t.disposed.Load() {
		return nil, ErrDisposed
	}

	if t.signal != nil {
		return t.signal, nil
	}

	remaining := t.Remaining()

	base, release := context.WithCancelCause(context.Background())
	ctx, stop := context.WithTimeoutCause(base, remaining, ErrExpired)

	t.signal = ctx
	t.release = release
	t.stop = stop

	name := t.metricName()
	signalsArmed.WithLabelValues(name).Inc()
	signalsActive.WithLabelValues(name).Inc()

	context.AfterFunc(ctx, func() {
		t.fired(ctx)
	})

	t.getLogger().Debug("shared timeout signal armed",
		"name", t.name,
		"remaining", remaining,
		"deadline", t.Deadline())

	return ctx, nil
}

// MustSignal is like Signal, but panics if the Timeout has been closed.
func (t *Timeout) MustSignal() context.Context {
	ctx, err := t.Signal()
	if err != nil {
		panic(err)
	}

	return ctx
}

// Bind returns a child of parent which is done when parent is done, when
// the shared deadline elapses or when the Timeout is closed, whichever comes
// first. A nil parent is treated as context.Background().
//
// Bind arms the shared signal if needed. Unlike Signal, each call creates a
// new context, and the caller owns the returned cancel function. A bound
// context ended by Close has ErrDisposed as its context.Cause. If parent
// carries a recording span, a "shared_timeout.bind" event is added to it.
func (t *Timeout) Bind(parent context.Context) (context.Context, context.CancelFunc, error) {
	signal, err := t.Signal()
	if err != nil {
		return nil, nil, err
	}

	parent = contexts.EnsureContext(parent)
	remaining := t.Remaining()

	span := trace.SpanFromContext(parent)
	if span.IsRecording() {
		span.AddEvent("shared_timeout.bind", trace.WithAttributes(
			attribute.String("shared_timeout.name", t.metricName()),
			attribute.Int64("shared_timeout.budget_ms", t.budget.Milliseconds()),
			attribute.Int64("shared_timeout.remaining_ms", remaining.Milliseconds()),
		))
	}

	bound, release := context.WithCancelCause(parent)
	ctx, stop := context.WithTimeoutCause(bound, remaining, ErrExpired)

	// Only disposal is forwarded; expiry is reported by the child's own timer.
	unlink := context.AfterFunc(signal, func() {
		if errors.Is(context.Cause(signal), ErrDisposed) {
			release(ErrDisposed)
		}
	})

	cancel := func() {
		unlink()
		stop()
		release(context.Canceled)
	}

	return ctx, cancel, nil
}

// Close releases the timer behind the signal, if Signal was ever called.
// Borrowers still holding the signal see it canceled with ErrDisposed as
// the cause. Close is idempotent and always returns nil.
func (t *Timeout) Close() error {
	t.mut.Lock()
	defer t.mut.Unlock()

	if t.disposed.Swap(true) {
		return nil
	}

	timeoutsDisposed.WithLabelValues(t.metricName()).Inc()

	if t.release == nil {
		t.getLogger().Debug("shared timeout disposed", "name", t.name)

		return nil
	}

	t.release(ErrDisposed)
	t.stop()

	t.getLogger().Debug("shared timeout disposed",
		"name", t.name,
		"remaining", t.Remaining())

	return nil
}

// fired runs once the signal is done, for either reason.
func (t *Timeout) fired(ctx context.Context) {
	cause := causeExpired
	if errors.Is(context.Cause(ctx), ErrDisposed) {
		cause = causeDisposed
	}

	if cause == causeExpired {
		t.getLogger().Debug("shared timeout expired",
			"name", t.name,
			"budget", t.budget)
	}

	name := t.metricName()
	signalsActive.WithLabelValues(name).Dec()
	signalsFired.WithLabelValues(name, cause).Inc()
}
