package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

var configKeys = []string{
	"PORT", "APP_ENV", "LOG_LEVEL", "API_KEY", "OPENWEATHER_API_KEY", "API_BASE_URL",
	"WEATHER_PROVIDER", "OPENMETEO_GEOCODING_URL", "OPENMETEO_FORECAST_URL", "HTTP_TIMEOUT",
	"HISTORY_FILE", "HISTORY_MAX_ENTRIES", "HISTORY_MAX_AGE", "HISTORY_PRUNE_INTERVAL",
	"STATIC_DIR", "TIMEZONE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, providers.ModeAuto, cfg.Provider)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "db/searchHistory.json", cfg.HistoryFile)
	assert.Equal(t, providers.DefaultOpenWeatherBaseURL, cfg.OpenWeatherBaseURL)
	assert.Zero(t, cfg.HistoryMaxEntries)
	assert.Zero(t, cfg.HistoryMaxAge)
	assert.Equal(t, time.Hour, cfg.HistoryPruneInterval)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadReportsEnvFile(t *testing.T) {
	clearEnv(t)

	t.Run("missing .env is reported, not fatal", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Load()

		require.NoError(t, err)
		assert.Error(t, cfg.EnvFileErr)
	})

	t.Run("present .env loads", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WEATHER_LOOKUP_DOTENV_MARKER=1\n"), 0o644))
		chdir(t, dir)
		t.Cleanup(func() { os.Unsetenv("WEATHER_LOOKUP_DOTENV_MARKER") })

		cfg, err := Load()

		require.NoError(t, err)
		assert.NoError(t, cfg.EnvFileErr)
		assert.Equal(t, "1", os.Getenv("WEATHER_LOOKUP_DOTENV_MARKER"))
	})
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("OPENWEATHER_API_KEY", "legacy-key")
	t.Setenv("WEATHER_PROVIDER", "OpenMeteo")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("HISTORY_MAX_ENTRIES", "25")
	t.Setenv("HISTORY_MAX_AGE", "720h")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "legacy-key", cfg.APIKey)
	assert.Equal(t, providers.ModeOpenMeteo, cfg.Provider)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 25, cfg.HistoryMaxEntries)
	assert.Equal(t, 720*time.Hour, cfg.HistoryMaxAge)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadAPIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "primary")
	t.Setenv("OPENWEATHER_API_KEY", "legacy")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.APIKey)
}

func TestLoadInvalid(t *testing.T) {
	testCases := map[string]string{
		"WEATHER_PROVIDER":    "google",
		"HTTP_TIMEOUT":        "soon",
		"HISTORY_MAX_AGE":     "-1h",
		"HISTORY_MAX_ENTRIES": "many",
		"TIMEZONE":            "Mars/Olympus",
	}

	for key, value := range testCases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
