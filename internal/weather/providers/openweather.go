package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/logger"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider is the keyed provider: OpenWeatherMap direct geocoding
// and the 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	log     logger.Logger
}

func NewOpenWeatherProvider(client *http.Client, baseURL, apiKey string, log logger.Logger) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newCircuitBreaker("openweather"),
		log:     log.WithField("provider", "openweathermap"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Resolve looks city up with /geo/1.0/direct and takes the first candidate.
func (p *OpenWeatherProvider) Resolve(ctx context.Context, city string) (weather.Coordinates, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("limit", "1")
	values.Set("appid", p.apiKey)

	p.log.Debugf("geocoding %q", city)
	body, err := getJSON(ctx, p.client, p.circuit, p.name, "geocode", p.baseURL+"/geo/1.0/direct?"+values.Encode())
	if err != nil {
		return weather.Coordinates{}, err
	}

	var candidates []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &candidates); err != nil {
		return weather.Coordinates{}, malformed(p.name, "geocode", err)
	}
	if len(candidates) == 0 {
		return weather.Coordinates{}, &weather.NotFoundError{Query: city}
	}

	return checkCoordinates(p.name, weather.Coordinates{Lat: candidates[0].Lat, Lon: candidates[0].Lon})
}

// Fetch retrieves the 3-hourly forecast in imperial units.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.Payload, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("units", "imperial")
	values.Set("appid", p.apiKey)

	body, err := getJSON(ctx, p.client, p.circuit, p.name, "forecast", p.baseURL+"/data/2.5/forecast?"+values.Encode())
	if err != nil {
		return nil, err
	}

	payload, err := weather.DecodePayload(body)
	if err != nil {
		return nil, malformed(p.name, "forecast", err)
	}
	if payload.Shape() != weather.ShapeList {
		return nil, malformed(p.name, "forecast", fmt.Errorf("expected list payload, got %s", payload.Shape()))
	}
	return payload, nil
}
