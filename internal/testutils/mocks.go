package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Resolve(ctx context.Context, city string) (weather.Coordinates, error) {
	args := m.Called(ctx, city)
	return args.Get(0).(weather.Coordinates), args.Error(1)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, coords weather.Coordinates) (weather.Payload, error) {
	args := m.Called(ctx, coords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(weather.Payload), args.Error(1)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) List(ctx context.Context) []store.HistoryRecord {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]store.HistoryRecord)
}

func (m *MockHistory) Add(ctx context.Context, city string) (store.HistoryRecord, error) {
	args := m.Called(ctx, city)
	return args.Get(0).(store.HistoryRecord), args.Error(1)
}

func (m *MockHistory) Remove(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
