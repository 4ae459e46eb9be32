package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string

	// Provider selection and credentials.
	Provider              providers.Mode
	APIKey                string
	OpenWeatherBaseURL    string
	OpenMeteoGeocodingURL string
	OpenMeteoForecastURL  string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// Search history file and retention.
	HistoryFile          string
	HistoryMaxEntries    int           // 0 = unlimited
	HistoryMaxAge        time.Duration // 0 = unlimited
	HistoryPruneInterval time.Duration

	StaticDir string

	// Timezone dates are rendered in; empty means the process local zone.
	Timezone string

	// EnvFileErr is why .env could not be loaded, nil when it was. Load runs
	// before the logger exists, so the caller reports it.
	EnvFileErr error
}

// Load reads configuration from .env and the environment with sensible defaults.
// A missing .env file is not an error; it is kept in EnvFileErr.
func Load() (*AppConfig, error) {
	envErr := godotenv.Load()

	cfg := &AppConfig{
		EnvFileErr:            envErr,
		Port:                  getenvDefault("PORT", "3001"),
		Env:                   getenvDefault("APP_ENV", "development"),
		LogLevel:              getenvDefault("LOG_LEVEL", "info"),
		APIKey:                firstNonEmpty(os.Getenv("API_KEY"), os.Getenv("OPENWEATHER_API_KEY")),
		OpenWeatherBaseURL:    getenvDefault("API_BASE_URL", providers.DefaultOpenWeatherBaseURL),
		OpenMeteoGeocodingURL: getenvDefault("OPENMETEO_GEOCODING_URL", providers.DefaultOpenMeteoGeocodingURL),
		OpenMeteoForecastURL:  getenvDefault("OPENMETEO_FORECAST_URL", providers.DefaultOpenMeteoForecastURL),
		HistoryFile:           getenvDefault("HISTORY_FILE", "db/searchHistory.json"),
		StaticDir:             getenvDefault("STATIC_DIR", "client/dist"),
		Timezone:              os.Getenv("TIMEZONE"),
	}

	mode, err := providers.ParseMode(os.Getenv("WEATHER_PROVIDER"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER: %w", err)
	}
	cfg.Provider = mode

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.HistoryMaxAge, err = getenvDuration("HISTORY_MAX_AGE", "0s"); err != nil {
		return nil, err
	}
	if cfg.HistoryPruneInterval, err = getenvDuration("HISTORY_PRUNE_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.HistoryMaxEntries, err = getenvInt("HISTORY_MAX_ENTRIES", 0); err != nil {
		return nil, err
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	return cfg, nil
}

// Location returns the configured time zone, defaulting to time.Local.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
