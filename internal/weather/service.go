package weather

import (
	"context"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/logger"
	"github.com/i474232898/weather-lookup/internal/store"
)

// Service ties geocoding, weather retrieval, normalization and the search
// history together.
type Service struct {
	geocoder   Geocoder
	fetcher    Fetcher
	history    History
	normalizer *Normalizer
	log        logger.Logger
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, fetcher Fetcher, history History, normalizer *Normalizer, log logger.Logger) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		geocoder:   geocoder,
		fetcher:    fetcher,
		history:    history,
		normalizer: normalizer,
		log:        log.WithField("component", "weather_service"),
	}
}

// LookupWeather resolves city, fetches and normalizes its weather and records
// the city in the history. Geocoding must finish before the fetch starts.
// A failed history write is returned even though the report was built.
func (s *Service) LookupWeather(ctx context.Context, city string) (WeatherReport, error) {
	city = common.CleanCity(city)
	if city == "" {
		return WeatherReport{}, &ValidationError{Field: "city", Reason: "must not be empty"}
	}

	s.log.Debugf("resolving coordinates for %q", city)
	coords, err := s.geocoder.Resolve(ctx, city)
	if err != nil {
		return WeatherReport{}, err
	}
	s.log.Debugf("coordinates for %q: lat=%f lon=%f", city, coords.Lat, coords.Lon)

	payload, err := s.fetcher.Fetch(ctx, coords)
	if err != nil {
		return WeatherReport{}, err
	}

	current, err := s.normalizer.ParseCurrent(payload)
	if err != nil {
		// A 2xx body without readings is a provider fault like any other.
		return WeatherReport{}, &UpstreamError{Provider: providerName(s.fetcher), Op: "forecast", Err: err}
	}

	report := WeatherReport{
		City:     city,
		Current:  current,
		Forecast: s.normalizer.BuildForecast(current, payload),
	}

	if _, err := s.history.Add(ctx, city); err != nil {
		s.log.Errorf("failed to record %q in history: %v", city, err)
		return report, err
	}

	s.log.Infof("weather lookup for %q served from %s payload", city, payload.Shape())
	return report, nil
}

func providerName(f Fetcher) string {
	if named, ok := f.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "weather"
}

// ListHistory delegates to the history store.
func (s *Service) ListHistory(ctx context.Context) []store.HistoryRecord {
	return s.history.List(ctx)
}

// DeleteHistory removes a history record. It reports false when id is unknown.
func (s *Service) DeleteHistory(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	return s.history.Remove(ctx, id)
}
