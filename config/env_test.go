package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/chequer/config"
)

var knownKeys = []string{"APP_ENV", "LOG_LEVEL", "EVENT_MODE", "EVENT_ON_ERROR", "METRICS_ADDR"}

// clearEnv unsets every known key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range knownKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() { _ = config.Reload() })
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	require.NoError(t, config.Reload())

	assert.Equal(t, "local", config.AppEnv())
	assert.Equal(t, "", config.LogLevel())
	assert.Equal(t, "breadth_first", config.EventMode())
	assert.Equal(t, "failfast", config.EventOnError())
	assert.Equal(t, ":9090", config.MetricsAddr())

	v, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, config.Values{
		AppEnv:       "local",
		EventMode:    "breadth_first",
		EventOnError: "failfast",
		MetricsAddr:  ":9090",
	}, v)
}

func TestProcessEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("EVENT_MODE", "depth_first")
	t.Setenv("EVENT_ON_ERROR", "Log")
	t.Setenv("METRICS_ADDR", "127.0.0.1:9100")
	require.NoError(t, config.Reload())

	v, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, "production", v.AppEnv)
	assert.Equal(t, "debug", v.LogLevel)
	assert.Equal(t, "depth_first", v.EventMode)
	assert.Equal(t, "log", v.EventOnError)
	assert.Equal(t, "127.0.0.1:9100", v.MetricsAddr)
}

func TestSettings_UnknownModePassesValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVENT_MODE", "sideways")
	require.NoError(t, config.Reload())

	v, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, "sideways", v.EventMode)
}

func TestSettings_Invalid(t *testing.T) {
	cases := map[string]struct{ key, value string }{
		"error policy": {"EVENT_ON_ERROR", "shrug"},
		"log level":    {"LOG_LEVEL", "loud"},
		"metrics addr": {"METRICS_ADDR", "nowhere"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			require.NoError(t, config.Reload())

			_, err := config.Settings()
			assert.Error(t, err)
		})
	}
}

func TestGet_Fallback(t *testing.T) {
	clearEnv(t)
	require.NoError(t, config.Reload())

	assert.Equal(t, "fallback", config.Get("CHEQUER_NOT_SET", "fallback"))
	assert.Equal(t, "breadth_first", config.Get("EVENT_MODE", "x"))
}
