package timeout_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/shared-timeout/timeout"
	"github.com/lightningnetwork/lnd/clock"
)

func ExampleFromSeconds() {
	start := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewTestClock(start)

	t := timeout.FromSeconds(90, timeout.WithClock(clk))
	defer t.Close()

	// Time passes in an outer layer...
	clk.SetTime(start.Add(40 * time.Second))

	// ...and an inner layer sees what is left of the same budget.
	fmt.Println(t.Remaining())
	fmt.Println(t.RemainingSeconds())
	fmt.Println(t.RemainingMinutes())

	// Output:
	// 50s
	// 50
	// 0
}

func ExampleTimeout_Signal() {
	t := timeout.FromMilliseconds(10)
	defer t.Close()

	ctx, err := t.Signal()
	if err != nil {
		panic(err)
	}

	<-ctx.Done()

	fmt.Println(errors.Is(ctx.Err(), context.DeadlineExceeded))
	fmt.Println(errors.Is(context.Cause(ctx), timeout.ErrExpired))

	// Output:
	// true
	// true
}

func ExampleTimeout_Close() {
	t := timeout.FromHours(1)
	ctx := t.MustSignal()

	_ = t.Close()

	fmt.Println(errors.Is(context.Cause(ctx), timeout.ErrDisposed))

	_, err := t.Signal()
	fmt.Println(err)

	// Output:
	// true
	// shared timeout is disposed
}
