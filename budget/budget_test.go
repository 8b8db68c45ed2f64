package budget

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
default: 10s
budgets:
  database: 5s
  http: 1m30s
`

func TestParse(t *testing.T) {
	t.Parallel()

	set, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, set.Default())
	assert.Equal(t, 5*time.Second, set.Get("database"))
	assert.Equal(t, 90*time.Second, set.Get("http"))
	assert.Equal(t, 10*time.Second, set.Get("unknown"))
	assert.Equal(t, []string{"database", "http"}, set.Names())
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	set, err := Parse([]byte("budgets:\n  cache: 250ms\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBudget, set.Default())
	assert.Equal(t, 250*time.Millisecond, set.Get("cache"))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"not yaml", "budgets: [unterminated"},
		{"bad duration", "budgets:\n  database: fast\n"},
		{"negative budget", "budgets:\n  database: -1s\n"},
		{"bad default", "default: whenever\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.input))
			require.ErrorIs(t, err, ErrBadBudget)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "budgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, set.Get("database"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

//nolint:paralleltest // Uses t.Setenv
func TestFromEnv(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		set, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultBudget, set.Default())
		assert.Empty(t, set.Names())
	})

	t.Run("file and default override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "budgets.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

		t.Setenv(FileEnvVar, path)
		t.Setenv(DefaultEnvVar, "45s")

		set, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, set.Default())
		assert.Equal(t, 5*time.Second, set.Get("database"))
	})

	t.Run("empty default is ignored", func(t *testing.T) {
		t.Setenv(DefaultEnvVar, "  ")

		set, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultBudget, set.Default())
	})

	t.Run("malformed default", func(t *testing.T) {
		t.Setenv(DefaultEnvVar, "soon")

		_, err := FromEnv()
		require.ErrorIs(t, err, ErrBadBudget)
	})

	t.Run("negative default", func(t *testing.T) {
		t.Setenv(DefaultEnvVar, "-1s")

		_, err := FromEnv()
		require.ErrorIs(t, err, ErrBadBudget)
	})
}

func TestPut(t *testing.T) {
	t.Parallel()

	set := NewSet(time.Second)
	require.NoError(t, set.Put("queue", 2*time.Second))
	require.ErrorIs(t, set.Put("queue", -time.Second), ErrBadBudget)

	assert.Equal(t, 2*time.Second, set.Get("queue"))
}

func TestNew(t *testing.T) {
	t.Parallel()

	set := NewSet(time.Second)
	require.NoError(t, set.Put("database", time.Hour))

	to := set.New("database")
	defer func() { require.NoError(t, to.Close()) }()

	assert.Equal(t, "database", to.Name())
	assert.Equal(t, time.Hour, to.Budget())
	assert.Greater(t, to.Remaining(), 59*time.Minute)

	fallback := set.New("other")
	defer func() { require.NoError(t, fallback.Close()) }()

	assert.Equal(t, time.Second, fallback.Budget())
}
