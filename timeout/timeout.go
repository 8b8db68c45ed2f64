// Package timeout provides a shared timeout: a deadline computed once, at
// construction, which can then be handed down through several layers of a
// call chain. Every layer observes the same absolute deadline instead of
// starting a fresh timeout of its own.
//
// A Timeout can be read as a remaining time.Duration, as a remaining count
// of milliseconds, seconds, minutes, hours or days, or as a context.Context
// which is canceled when the deadline elapses.
//
// Example usage:
//
//	t := timeout.FromSeconds(30)
//	defer t.Close()
//
//	ctx, err := t.Signal()
//	if err != nil {
//	    return err
//	}
//
//	if err := fetchUser(ctx); err != nil {
//	    return err
//	}
//
//	// Same deadline, whatever is left of the 30 seconds.
//	slog.Info("fetching orders", "remaining", t.Remaining())
//
//	return fetchOrders(ctx)
//
// The layer which constructs a Timeout owns it and is the only one which
// should call Close. Callees receive the Timeout (or its Signal) as
// read-only borrowers, and Close must only happen once every borrower is done.
package timeout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/amp-labs/shared-timeout/logger"
	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/atomic"
)

var (
	// ErrDisposed is returned when the cancellation signal of a Timeout is
	// requested after the Timeout has been closed. Borrowers that still hold
	// the signal will see it as the context.Cause of the canceled context.
	ErrDisposed = errors.New("shared timeout is disposed")

	// ErrExpired is the context.Cause of a signal whose deadline elapsed.
	// It is never returned by an operation: an elapsed timeout is a valid value.
	ErrExpired = errors.New("shared timeout expired")
)

const day = 24 * time.Hour

// Timeout is a fixed deadline (creation instant plus budget) with several
// read-only views of it. All methods are safe for concurrent use.
//
// The zero value is not usable; call Zero for an empty Timeout.
type Timeout struct {
	name      string
	createdAt time.Time
	budget    time.Duration
	clock     clock.Clock
	log       *slog.Logger

	// mut guards lazy creation of the signal and its release in Close.
	mut      sync.Mutex
	signal   context.Context //nolint:containedctx
	release  context.CancelCauseFunc
	stop     context.CancelFunc
	disposed atomic.Bool
}

// FromDuration returns a Timeout whose deadline is now + budget. A zero or
// negative budget yields a Timeout which has already elapsed.
func FromDuration(budget time.Duration, opts ...Option) *Timeout {
	o := newOptions(opts)

	t := &Timeout{
		name:      o.name,
		createdAt: o.clock.Now(),
		budget:    budget,
		clock:     o.clock,
		log:       o.logger,
	}

	timeoutsCreated.WithLabelValues(t.metricName()).Inc()

	return t
}

// FromMilliseconds returns a Timeout for the given number of milliseconds.
func FromMilliseconds(n int, opts ...Option) *Timeout {
	return FromDuration(scale(n, time.Millisecond), opts...)
}

// FromSeconds returns a Timeout for the given number of seconds.
func FromSeconds(n int, opts ...Option) *Timeout {
	return FromDuration(scale(n, time.Second), opts...)
}

// FromMinutes returns a Timeout for the given number of minutes.
func FromMinutes(n int, opts ...Option) *Timeout {
	return FromDuration(scale(n, time.Minute), opts...)
}

// FromHours returns a Timeout for the given number of hours.
func FromHours(n int, opts ...Option) *Timeout {
	return FromDuration(scale(n, time.Hour), opts...)
}

// FromDays returns a Timeout for the given number of days.
func FromDays(n int, opts ...Option) *Timeout {
	return FromDuration(scale(n, day), opts...)
}

// Zero returns a Timeout with no budget at all. It is elapsed from the start,
// and is mostly useful where a default instance is needed.
func Zero(opts ...Option) *Timeout {
	return FromDuration(0, opts...)
}

// scale converts n units into a duration, saturating instead of wrapping
// around when the result doesn't fit in a time.Duration.
func scale(n int, unit time.Duration) time.Duration {
	switch {
	case n > 0 && int64(n) > math.MaxInt64/int64(unit):
		return time.Duration(math.MaxInt64)
	case n < 0 && int64(n) < math.MinInt64/int64(unit):
		return time.Duration(math.MinInt64)
	default:
		return time.Duration(n) * unit
	}
}

// Remaining returns the time left until the deadline. It is computed from
// the clock on every call, and is negative once the deadline has passed.
func (t *Timeout) Remaining() time.Duration {
	return t.Deadline().Sub(t.clock.Now())
}

// RemainingMilliseconds returns Remaining truncated to whole milliseconds.
func (t *Timeout) RemainingMilliseconds() int64 {
	return int64(t.Remaining() / time.Millisecond)
}

// RemainingSeconds returns Remaining truncated to whole seconds.
func (t *Timeout) RemainingSeconds() int64 {
	return int64(t.Remaining() / time.Second)
}

// RemainingMinutes returns Remaining truncated to whole minutes.
func (t *Timeout) RemainingMinutes() int64 {
	return int64(t.Remaining() / time.Minute)
}

// RemainingHours returns Remaining truncated to whole hours.
func (t *Timeout) RemainingHours() int64 {
	return int64(t.Remaining() / time.Hour)
}

// RemainingDays returns Remaining truncated to whole days.
func (t *Timeout) RemainingDays() int64 {
	return int64(t.Remaining() / day)
}

// Elapsed returns true once there is no time left.
func (t *Timeout) Elapsed() bool {
	return t.Remaining() <= 0
}

// Deadline returns the absolute point in time at which the Timeout elapses.
func (t *Timeout) Deadline() time.Time {
	return t.createdAt.Add(t.budget)
}

// Budget returns the duration the Timeout was created with.
func (t *Timeout) Budget() time.Duration {
	return t.budget
}

// CreatedAt returns the instant the Timeout was created.
func (t *Timeout) CreatedAt() time.Time {
	return t.createdAt
}

// Name returns the name given with WithName, or an empty string.
func (t *Timeout) Name() string {
	return t.name
}

func (t *Timeout) String() string {
	name := t.name
	if name == "" {
		name = "timeout"
	}

	return fmt.Sprintf("%s: %s remaining of %s", name, t.Remaining(), t.budget)
}

func (t *Timeout) getLogger() *slog.Logger {
	if t.log != nil {
		return t.log
	}

	return logger.Get()
}

func (t *Timeout) metricName() string {
	if t.name == "" {
		return "default"
	}

	return t.name
}
