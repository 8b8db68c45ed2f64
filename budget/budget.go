// Package budget keeps a set of named timeout budgets, loaded from YAML and
// the environment, so that every call site asking for e.g. the "database"
// budget gets the same configured duration.
//
// The file format is:
//
//	default: 30s
//	budgets:
//	  database: 5s
//	  http: 1m
package budget

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amp-labs/shared-timeout/envutil"
	"github.com/amp-labs/shared-timeout/timeout"
	"gopkg.in/yaml.v3"
)

const (
	// FileEnvVar names an optional YAML file with budgets.
	FileEnvVar = "SHARED_TIMEOUT_BUDGETS_FILE"
	// DefaultEnvVar overrides the default budget.
	DefaultEnvVar = "SHARED_TIMEOUT_DEFAULT"

	// DefaultBudget applies when neither the file nor the environment set one.
	DefaultBudget = 30 * time.Second
)

// ErrBadBudget is returned for budgets which are not valid, non-negative durations.
var ErrBadBudget = errors.New("invalid timeout budget")

// Set maps budget names to durations. It is safe for concurrent use.
type Set struct {
	mut     sync.RWMutex
	dflt    time.Duration
	budgets map[string]time.Duration
}

type file struct {
	Default string            `yaml:"default"`
	Budgets map[string]string `yaml:"budgets"`
}

// NewSet returns a Set with the given default and no named budgets.
func NewSet(dflt time.Duration) *Set {
	return &Set{
		dflt:    dflt,
		budgets: make(map[string]time.Duration),
	}
}

// Parse reads a Set from YAML. A missing default falls back to DefaultBudget.
func Parse(data []byte) (*Set, error) {
	var f file

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBudget, err)
	}

	set := NewSet(DefaultBudget)

	if f.Default != "" {
		dflt, err := parseBudget("default", f.Default)
		if err != nil {
			return nil, err
		}

		set.dflt = dflt
	}

	for name, value := range f.Budgets {
		d, err := parseBudget(name, value)
		if err != nil {
			return nil, err
		}

		set.budgets[name] = d
	}

	return set, nil
}

// Load reads a Set from a YAML file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the intended file to load
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// FromEnv builds a Set from the file named by SHARED_TIMEOUT_BUDGETS_FILE,
// if any, and then applies SHARED_TIMEOUT_DEFAULT on top of it. An empty
// SHARED_TIMEOUT_DEFAULT is ignored.
func FromEnv() (*Set, error) {
	set := NewSet(DefaultBudget)

	path := envutil.String(FileEnvVar)
	if path.HasValue() {
		loaded, err := Load(path.ValueOrPanic())
		if err != nil {
			return nil, err
		}

		set = loaded
	}

	// An empty SHARED_TIMEOUT_DEFAULT counts as unset.
	raw := envutil.String(DefaultEnvVar)
	if !raw.HasValue() || strings.TrimSpace(raw.ValueOrPanic()) == "" {
		return set, nil
	}

	dflt, err := envutil.Duration(DefaultEnvVar, envutil.Validate(envutil.NonNegative)).Value()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBudget, err)
	}

	set.dflt = dflt

	return set, nil
}

func parseBudget(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrBadBudget, name, err)
	}

	if err := envutil.NonNegative(d); err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrBadBudget, name, err)
	}

	return d, nil
}

// Default returns the budget used for names that aren't configured.
func (s *Set) Default() time.Duration {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.dflt
}

// Get returns the budget for name, or the default if there is none.
func (s *Set) Get(name string) time.Duration {
	s.mut.RLock()
	defer s.mut.RUnlock()

	if d, ok := s.budgets[name]; ok {
		return d
	}

	return s.dflt
}

// Put sets the budget for name.
func (s *Set) Put(name string, d time.Duration) error {
	if err := envutil.NonNegative(d); err != nil {
		return fmt.Errorf("%w %q: %w", ErrBadBudget, name, err)
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	s.budgets[name] = d

	return nil
}

// Names returns the configured budget names, sorted.
func (s *Set) Names() []string {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return slices.Sorted(maps.Keys(s.budgets))
}

// New starts a shared timeout with the budget for name. The timeout is
// named after the budget, so its logs and metrics can be told apart.
func (s *Set) New(name string, opts ...timeout.Option) *timeout.Timeout {
	return timeout.FromDuration(s.Get(name), append([]timeout.Option{timeout.WithName(name)}, opts...)...)
}
