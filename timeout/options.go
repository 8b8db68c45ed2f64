package timeout

import (
	"log/slog"

	"github.com/lightningnetwork/lnd/clock"
)

// Option is a functional option for the Timeout constructors.
type Option func(*options)

type options struct {
	name   string
	clock  clock.Clock
	logger *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.clock == nil {
		o.clock = clock.NewDefaultClock()
	}

	return o
}

// WithName names the Timeout. The name shows up in log lines, in String(),
// and as the "name" label of the shared_timeout_* metrics, so it should
// come from a small, fixed set of values.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithClock replaces the wall clock used to capture the creation instant
// and to compute the remaining time. Mainly useful in tests, together with
// clock.NewTestClock.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithLogger sets the logger used for debug output. If unset, the
// process-wide logger from the logger package is used.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}
