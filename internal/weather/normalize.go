package weather

import (
	"fmt"
	"time"
)

const (
	// ForecastDays is the fixed length of a report's forecast, today included.
	ForecastDays = 5

	// DateLayout renders entry dates as month/day/year without padding.
	DateLayout = "1/2/2006"

	// samplesPerDay is the stride through a 3-hourly list.
	samplesPerDay = 8

	placeholderIcon        = "01d"
	dailyCurrentDesc       = "Weather forecast"
	dailyForecastDesc      = "Forecast"
	unavailableDescription = "Unavailable"
)

// Normalizer turns decoded provider payloads into WeatherEntry values.
type Normalizer struct {
	// Now supplies "today" for payloads without timestamps.
	Now func() time.Time
	// Location is the zone dates are rendered in.
	Location *time.Location
}

// NewNormalizer returns a Normalizer using the wall clock. A nil loc means
// the process local zone.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{Now: time.Now, Location: loc}
}

// ParseCurrent extracts the current conditions from a payload.
func (n *Normalizer) ParseCurrent(payload Payload) (WeatherEntry, error) {
	switch p := payload.(type) {
	case *ListPayload:
		for _, s := range p.List {
			if s != nil {
				return n.fromSample(s), nil
			}
		}
		return WeatherEntry{}, fmt.Errorf("%w: empty list", ErrEmptyPayload)
	case *DailyPayload:
		if len(p.Daily.TemperatureMax) == 0 {
			return WeatherEntry{}, fmt.Errorf("%w: empty daily arrays", ErrEmptyPayload)
		}
		return n.fromDaily(p, 0, n.today(), dailyCurrentDesc), nil
	default:
		return WeatherEntry{}, fmt.Errorf("%w: %T", ErrUnrecognizedPayload, payload)
	}
}

// BuildForecast returns exactly ForecastDays entries starting with current.
// Days the payload cannot supply are filled with "Unavailable" entries dated
// one day after their predecessor.
func (n *Normalizer) BuildForecast(current WeatherEntry, payload Payload) []WeatherEntry {
	forecast := make([]WeatherEntry, 0, ForecastDays)
	forecast = append(forecast, current)
	last := n.parseDate(current.Date)

	switch p := payload.(type) {
	case *ListPayload:
		for i := samplesPerDay; i < len(p.List) && len(forecast) < ForecastDays; i += samplesPerDay {
			s := p.List[i]
			if s == nil {
				continue
			}
			forecast = append(forecast, n.fromSample(s))
			last = time.Unix(s.Dt, 0).In(n.loc())
		}
	case *DailyPayload:
		today := n.today()
		for i := 1; i < ForecastDays; i++ {
			if i >= len(p.Daily.TemperatureMax) {
				break
			}
			day := today.AddDate(0, 0, i)
			forecast = append(forecast, n.fromDaily(p, i, day, dailyForecastDesc))
			last = day
		}
	}

	for len(forecast) < ForecastDays {
		last = last.AddDate(0, 0, 1)
		forecast = append(forecast, WeatherEntry{
			Date:        last.Format(DateLayout),
			Description: unavailableDescription,
			Icon:        placeholderIcon,
		})
	}

	return forecast
}

func (n *Normalizer) fromSample(s *ListSample) WeatherEntry {
	e := WeatherEntry{
		Date:      time.Unix(s.Dt, 0).In(n.loc()).Format(DateLayout),
		Temp:      s.Main.Temp,
		Humidity:  s.Main.Humidity,
		WindSpeed: s.Wind.Speed,
	}
	if len(s.Weather) > 0 {
		e.Description = s.Weather[0].Description
		e.Icon = s.Weather[0].Icon
	}
	return e
}

// fromDaily reads index i of the daily arrays. Humidity is not offered by
// the daily provider and stays 0.
func (n *Normalizer) fromDaily(p *DailyPayload, i int, day time.Time, desc string) WeatherEntry {
	return WeatherEntry{
		Date:        day.Format(DateLayout),
		Temp:        at(p.Daily.TemperatureMax, i),
		WindSpeed:   at(p.Daily.WindSpeedMax, i),
		Description: desc,
		Icon:        placeholderIcon,
	}
}

func (n *Normalizer) today() time.Time {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	return now().In(n.loc())
}

func (n *Normalizer) loc() *time.Location {
	if n.Location == nil {
		return time.Local
	}
	return n.Location
}

func (n *Normalizer) parseDate(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, n.loc())
	if err != nil {
		return n.today()
	}
	return t
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
