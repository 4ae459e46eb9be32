package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/logger"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	DefaultOpenMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultOpenMeteoForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// OpenMeteoProvider is the keyless fallback: Open-Meteo geocoding and the
// daily forecast.
type OpenMeteoProvider struct {
	name         string
	geocodingURL string
	forecastURL  string
	client       *http.Client
	circuit      *gobreaker.CircuitBreaker
	log          logger.Logger
}

func NewOpenMeteoProvider(client *http.Client, geocodingURL, forecastURL string, log logger.Logger) *OpenMeteoProvider {
	if geocodingURL == "" {
		geocodingURL = DefaultOpenMeteoGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = DefaultOpenMeteoForecastURL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &OpenMeteoProvider{
		name:         "openmeteo",
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		client:       client,
		circuit:      newCircuitBreaker("openmeteo"),
		log:          log.WithField("provider", "openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Resolve queries the geocoding search and maps results[0] to coordinates.
func (p *OpenMeteoProvider) Resolve(ctx context.Context, city string) (weather.Coordinates, error) {
	values := url.Values{}
	values.Set("name", city)
	values.Set("count", "1")

	p.log.Debugf("geocoding %q", city)
	body, err := getJSON(ctx, p.client, p.circuit, p.name, "geocode", p.geocodingURL+"?"+values.Encode())
	if err != nil {
		return weather.Coordinates{}, err
	}

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Coordinates{}, malformed(p.name, "geocode", err)
	}
	if len(payload.Results) == 0 {
		return weather.Coordinates{}, &weather.NotFoundError{Query: city}
	}

	first := payload.Results[0]
	return checkCoordinates(p.name, weather.Coordinates{Lat: first.Latitude, Lon: first.Longitude})
}

// Fetch retrieves five days of daily aggregates in °F and mph.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.Payload, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,windspeed_10m_max")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("windspeed_unit", "mph")
	values.Set("precipitation_unit", "inch")
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(weather.ForecastDays))

	body, err := getJSON(ctx, p.client, p.circuit, p.name, "forecast", p.forecastURL+"?"+values.Encode())
	if err != nil {
		return nil, err
	}

	payload, err := weather.DecodePayload(body)
	if err != nil {
		return nil, malformed(p.name, "forecast", err)
	}
	if payload.Shape() != weather.ShapeDaily {
		return nil, malformed(p.name, "forecast", fmt.Errorf("expected daily payload, got %s", payload.Shape()))
	}
	return payload, nil
}
