package contexts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type contextKey string

func TestEnsureContext(t *testing.T) {
	t.Parallel()

	t.Run("returns first non-nil context", func(t *testing.T) {
		t.Parallel()

		ctx1 := context.WithValue(t.Context(), contextKey("which"), "first")
		ctx2 := t.Context()

		result := EnsureContext(nil, nil, ctx1, ctx2)
		assert.Equal(t, ctx1, result)
	})

	t.Run("returns background context when all are nil", func(t *testing.T) {
		t.Parallel()

		result := EnsureContext(nil, nil, nil)
		assert.Equal(t, context.Background(), result) //nolint:usetesting
	})

	t.Run("handles empty input", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, context.Background(), EnsureContext()) //nolint:usetesting
	})
}

func TestIsContextAlive(t *testing.T) {
	t.Parallel()

	t.Run("returns false for nil context", func(t *testing.T) {
		t.Parallel()
		assert.False(t, IsContextAlive(nil)) //nolint:staticcheck // Testing nil context behavior
	})

	t.Run("returns true for active context", func(t *testing.T) {
		t.Parallel()
		assert.True(t, IsContextAlive(t.Context()))
	})

	t.Run("returns false for cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.False(t, IsContextAlive(ctx))
	})

	t.Run("returns false for expired context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(t.Context(), -time.Second)
		defer cancel()

		assert.False(t, IsContextAlive(ctx))
	})
}

func TestRemaining(t *testing.T) {
	t.Parallel()

	t.Run("no deadline", func(t *testing.T) {
		t.Parallel()

		remaining, ok := Remaining(context.Background()) //nolint:usetesting
		assert.False(t, ok)
		assert.Zero(t, remaining)
	})

	t.Run("nil context", func(t *testing.T) {
		t.Parallel()

		_, ok := Remaining(nil) //nolint:staticcheck // Testing nil context behavior
		assert.False(t, ok)
	})

	t.Run("future deadline", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), time.Hour) //nolint:usetesting
		defer cancel()

		remaining, ok := Remaining(ctx)
		assert.True(t, ok)
		assert.LessOrEqual(t, remaining, time.Hour)
		assert.Greater(t, remaining, 59*time.Minute)
	})

	t.Run("past deadline", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Minute)) //nolint:usetesting
		defer cancel()

		remaining, ok := Remaining(ctx)
		assert.True(t, ok)
		assert.Negative(t, remaining)
	})
}

func TestExpired(t *testing.T) {
	t.Parallel()

	t.Run("deadline passed", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(t.Context(), 0)
		defer cancel()

		assert.True(t, Expired(ctx))
	})

	t.Run("canceled is not expired", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(t.Context(), time.Hour)
		cancel()

		assert.False(t, Expired(ctx))
	})

	t.Run("alive is not expired", func(t *testing.T) {
		t.Parallel()

		assert.False(t, Expired(t.Context()))
		assert.False(t, Expired(nil)) //nolint:staticcheck // Testing nil context behavior
	})
}
