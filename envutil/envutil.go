// Package envutil reads typed configuration values from environment variables.
//
// Each function returns a Reader, which carries the value along with whether
// the variable was set and whether it could be parsed:
//
//	budget := envutil.Duration("SHARED_TIMEOUT_DEFAULT",
//	    envutil.Default(30*time.Second),
//	    envutil.Validate(envutil.NonNegative)).ValueOrFatal()
package envutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrNegative        = errors.New("value must not be negative")
)

// get returns a Reader for the given environment variable key.
func get(key string) Reader[string] {
	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(key string, opts ...Option[string]) Reader[string] {
	return apply(get(key), opts)
}

// Bool returns a Reader which parses the variable with strconv.ParseBool.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(key), strconv.ParseBool), opts)
}

// Duration returns a Reader which parses the variable with time.ParseDuration,
// so values look like "1500ms", "30s" or "1h15m".
func Duration(key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(Map(get(key), trim), time.ParseDuration), opts)
}

// SlogLevel returns a Reader which accepts debug, info, warn or error
// (case-insensitive).
func SlogLevel(key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(Map(get(key), trim), slogLevel), opts)
}

// NonNegative is a validator for Duration readers which rejects negative
// values.
func NonNegative(d time.Duration) error {
	if d < 0 {
		return ErrNegative
	}

	return nil
}

func trim(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

func slogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, value)
	}
}
