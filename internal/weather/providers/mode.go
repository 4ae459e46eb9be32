package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/logger"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// Mode selects which upstream vendor serves both geocoding and weather.
type Mode string

const (
	// ModeAuto uses OpenWeather when a usable key is configured, else Open-Meteo.
	ModeAuto        Mode = "auto"
	ModeOpenWeather Mode = "openweather"
	ModeOpenMeteo   Mode = "openmeteo"
)

// Provider geocodes and fetches weather against one vendor, so both steps
// of a lookup always agree on the payload shape.
type Provider interface {
	weather.Geocoder
	weather.Fetcher
	Name() string
}

// Options configures New.
type Options struct {
	Client                *http.Client
	APIKey                string
	OpenWeatherBaseURL    string
	OpenMeteoGeocodingURL string
	OpenMeteoForecastURL  string
	Logger                logger.Logger
}

// ParseMode accepts "", "auto", "openweather" and "openmeteo".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeOpenWeather, ModeOpenMeteo:
		return m, nil
	default:
		return "", fmt.Errorf("unknown weather provider %q", s)
	}
}

// UsableAPIKey rejects empty keys and the sample value shipped in .env files.
func UsableAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !common.HasAny(key, "your_", "_here")
}

// ResolveMode settles the requested mode against the configured key. The
// keyed provider is only chosen when a usable key exists.
func ResolveMode(requested Mode, apiKey string) Mode {
	switch requested {
	case ModeOpenMeteo:
		return ModeOpenMeteo
	case ModeOpenWeather, ModeAuto, "":
		if UsableAPIKey(apiKey) {
			return ModeOpenWeather
		}
		return ModeOpenMeteo
	default:
		return ModeOpenMeteo
	}
}

// New builds the provider for mode after resolving it against opts.APIKey.
func New(mode Mode, opts Options) (Provider, error) {
	if opts.Client == nil {
		return nil, errNoHTTPClient
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	resolved := ResolveMode(mode, opts.APIKey)
	if mode == ModeOpenWeather && resolved != ModeOpenWeather {
		log.Warnf("openweather requested but no usable API key is configured; using openmeteo")
	}

	switch resolved {
	case ModeOpenWeather:
		return NewOpenWeatherProvider(opts.Client, opts.OpenWeatherBaseURL, opts.APIKey, log), nil
	default:
		return NewOpenMeteoProvider(opts.Client, opts.OpenMeteoGeocodingURL, opts.OpenMeteoForecastURL, log), nil
	}
}
