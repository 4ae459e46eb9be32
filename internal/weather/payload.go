package weather

import (
	"encoding/json"
	"fmt"
)

// Payload is a decoded weather provider body. It is one of *ListPayload or
// *DailyPayload; the normalizer switches on the concrete type.
type Payload interface {
	Shape() Shape
}

// Shape names the structure of a provider body.
type Shape string

const (
	ShapeList  Shape = "list"
	ShapeDaily Shape = "daily"
)

// ListSample is one 3-hourly sample of a list-based forecast.
type ListSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// ListPayload is the timestamped 3-hourly shape. Null samples decode to nil
// and are skipped when sampling.
type ListPayload struct {
	List []*ListSample `json:"list"`
}

func (*ListPayload) Shape() Shape { return ShapeList }

// DailyPayload is the daily-aggregate shape with parallel arrays per metric.
type DailyPayload struct {
	Timezone string `json:"timezone"`
	Daily    struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WindSpeedMax     []float64 `json:"windspeed_10m_max"`
	} `json:"daily"`
}

func (*DailyPayload) Shape() Shape { return ShapeDaily }

// DecodePayload parses a provider body into its variant. A top-level "list"
// key selects the list shape, a "daily" key the daily-aggregate shape.
func DecodePayload(body []byte) (Payload, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedPayload, err)
	}

	if _, ok := probe["list"]; ok {
		var p ListPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode list payload: %w", err)
		}
		return &p, nil
	}

	if _, ok := probe["daily"]; ok {
		var p DailyPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode daily payload: %w", err)
		}
		return &p, nil
	}

	return nil, fmt.Errorf("%w: neither list nor daily present", ErrUnrecognizedPayload)
}
