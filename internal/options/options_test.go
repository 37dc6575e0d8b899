package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	capacity int
	name     string
	calls    []string
}

func withCapacity(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n <= 0 {
			return errors.New("capacity must be positive")
		}
		c.capacity = n
		c.calls = append(c.calls, "capacity")

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.name = name
		c.calls = append(c.calls, "name")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}

		err := Apply(cfg, withName("layout"), withCapacity(16))
		require.NoError(t, err)
		require.Equal(t, 16, cfg.capacity)
		require.Equal(t, "layout", cfg.name)
		require.Equal(t, []string{"name", "capacity"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}

		err := Apply(cfg, withCapacity(0), withName("never"))
		require.EqualError(t, err, "capacity must be positive")
		require.Empty(t, cfg.name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}

		err := Apply(cfg, nil, withName("x"), nil)
		require.NoError(t, err)
		require.Equal(t, "x", cfg.name)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{capacity: 3}

		require.NoError(t, Apply(cfg))
		require.Equal(t, 3, cfg.capacity)
	})
}
