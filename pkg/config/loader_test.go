package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/config"
)

type testConfig struct {
	Name     string        `env:"CONFIG_TEST_NAME" envDefault:"authkit"`
	Retries  int           `env:"CONFIG_TEST_RETRIES" envDefault:"3"`
	Interval time.Duration `env:"CONFIG_TEST_INTERVAL" envDefault:"5s"`
	Optional string        `env:"CONFIG_TEST_OPTIONAL"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply when env is unset", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "authkit", cfg.Name)
		assert.Equal(t, 3, cfg.Retries)
		assert.Equal(t, 5*time.Second, cfg.Interval)
		assert.Empty(t, cfg.Optional)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_NAME", "custom")
		t.Setenv("CONFIG_TEST_INTERVAL", "100ms")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "custom", cfg.Name)
		assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		var cfg *testConfig
		err := config.Load(cfg)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("reports parse failures", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_RETRIES", "not-a-number")

		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_RETRIES", "boom")

		assert.Panics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("returns silently on success", func(t *testing.T) {
		assert.NotPanics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}
