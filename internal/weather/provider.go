package weather

import (
	"context"

	"github.com/i474232898/weather-lookup/internal/store"
)

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, city string) (Coordinates, error)
}

// Fetcher retrieves the raw forecast for a coordinate pair.
type Fetcher interface {
	Fetch(ctx context.Context, coords Coordinates) (Payload, error)
}

// History is the search log the service records lookups in.
type History interface {
	List(ctx context.Context) []store.HistoryRecord
	Add(ctx context.Context, city string) (store.HistoryRecord, error)
	Remove(ctx context.Context, id string) (bool, error)
}
