package weather

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2023-11-14T22:13:20Z
const baseEpoch = 1700000000

func testNormalizer() *Normalizer {
	return &Normalizer{
		Now:      func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}

// listPayload builds n three-hourly samples whose temp equals their index.
func listPayload(t *testing.T, n int, nullAt ...int) Payload {
	t.Helper()
	null := map[int]bool{}
	for _, i := range nullAt {
		null[i] = true
	}

	list := make([]interface{}, n)
	for i := 0; i < n; i++ {
		if null[i] {
			continue
		}
		list[i] = map[string]interface{}{
			"dt":      baseEpoch + i*3*3600,
			"main":    map[string]interface{}{"temp": float64(i), "humidity": 40 + i},
			"wind":    map[string]interface{}{"speed": 1.5},
			"weather": []map[string]interface{}{{"description": "scattered clouds", "icon": "03d"}},
		}
	}

	body, err := json.Marshal(map[string]interface{}{"list": list})
	require.NoError(t, err)
	p, err := DecodePayload(body)
	require.NoError(t, err)
	return p
}

func dailyPayload(t *testing.T, temps, winds []float64) Payload {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"daily": map[string]interface{}{
			"temperature_2m_max": temps,
			"windspeed_10m_max":  winds,
		},
	})
	require.NoError(t, err)
	p, err := DecodePayload(body)
	require.NoError(t, err)
	return p
}

func TestParseCurrent_List(t *testing.T) {
	n := testNormalizer()

	current, err := n.ParseCurrent(listPayload(t, 40))

	require.NoError(t, err)
	assert.Equal(t, WeatherEntry{
		Date:        "11/14/2023",
		Temp:        0,
		Humidity:    40,
		WindSpeed:   1.5,
		Description: "scattered clouds",
		Icon:        "03d",
	}, current)
}

func TestParseCurrent_Daily(t *testing.T) {
	n := testNormalizer()

	current, err := n.ParseCurrent(dailyPayload(t, []float64{71.2}, []float64{8.4}))

	require.NoError(t, err)
	assert.Equal(t, WeatherEntry{
		Date:        "10/18/2026",
		Temp:        71.2,
		Humidity:    0,
		WindSpeed:   8.4,
		Description: "Weather forecast",
		Icon:        "01d",
	}, current)
}

func TestParseCurrent_Empty(t *testing.T) {
	n := testNormalizer()

	_, err := n.ParseCurrent(listPayload(t, 0))
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = n.ParseCurrent(dailyPayload(t, nil, nil))
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = n.ParseCurrent(nil)
	assert.ErrorIs(t, err, ErrUnrecognizedPayload)
}

func TestBuildForecast_ListSamplesEveryEighth(t *testing.T) {
	n := testNormalizer()
	payload := listPayload(t, 40)
	current, err := n.ParseCurrent(payload)
	require.NoError(t, err)

	forecast := n.BuildForecast(current, payload)

	require.Len(t, forecast, ForecastDays)
	assert.Equal(t, current, forecast[0])
	for slot, idx := range []int{8, 16, 24, 32} {
		assert.Equal(t, float64(idx), forecast[slot+1].Temp, "slot %d", slot+1)
		assert.Equal(t, 40+idx, forecast[slot+1].Humidity)
	}
	assert.Equal(t, []string{"11/14/2023", "11/15/2023", "11/16/2023", "11/17/2023", "11/18/2023"}, dates(forecast))
}

func TestBuildForecast_ListSkipsNullSlots(t *testing.T) {
	n := testNormalizer()
	payload := listPayload(t, 40, 8)
	current, err := n.ParseCurrent(payload)
	require.NoError(t, err)

	forecast := n.BuildForecast(current, payload)

	require.Len(t, forecast, ForecastDays)
	assert.Equal(t, 16.0, forecast[1].Temp)
	assert.Equal(t, 24.0, forecast[2].Temp)
	assert.Equal(t, 32.0, forecast[3].Temp)
	assert.Equal(t, "Unavailable", forecast[4].Description)
	assert.Equal(t, "11/19/2023", forecast[4].Date)
}

func TestBuildForecast_ShortListIsPadded(t *testing.T) {
	n := testNormalizer()
	payload := listPayload(t, 10)
	current, err := n.ParseCurrent(payload)
	require.NoError(t, err)

	forecast := n.BuildForecast(current, payload)

	require.Len(t, forecast, ForecastDays)
	assert.Equal(t, 8.0, forecast[1].Temp)
	for _, e := range forecast[2:] {
		assert.Equal(t, "Unavailable", e.Description)
		assert.Zero(t, e.Temp)
		assert.Zero(t, e.Humidity)
	}
	assert.Equal(t, []string{"11/14/2023", "11/15/2023", "11/16/2023", "11/17/2023", "11/18/2023"}, dates(forecast))
}

func TestBuildForecast_Daily(t *testing.T) {
	n := testNormalizer()
	temps := []float64{70, 71, 72, 73, 74}
	winds := []float64{5, 6, 7, 8, 9}
	payload := dailyPayload(t, temps, winds)
	current, err := n.ParseCurrent(payload)
	require.NoError(t, err)

	forecast := n.BuildForecast(current, payload)

	require.Len(t, forecast, ForecastDays)
	assert.Equal(t, current, forecast[0])
	for i, e := range forecast {
		assert.Equal(t, temps[i], e.Temp)
		assert.Equal(t, winds[i], e.WindSpeed)
		assert.Zero(t, e.Humidity)
		assert.Equal(t, "01d", e.Icon)
		if i > 0 {
			assert.Equal(t, "Forecast", e.Description)
		}
	}
	assert.Equal(t, []string{"10/18/2026", "10/19/2026", "10/20/2026", "10/21/2026", "10/22/2026"}, dates(forecast))
}

func TestBuildForecast_ShortDailyIsPadded(t *testing.T) {
	n := testNormalizer()
	payload := dailyPayload(t, []float64{60, 61, 62}, []float64{1})
	current, err := n.ParseCurrent(payload)
	require.NoError(t, err)

	forecast := n.BuildForecast(current, payload)

	require.Len(t, forecast, ForecastDays)
	assert.Equal(t, 61.0, forecast[1].Temp)
	assert.Zero(t, forecast[1].WindSpeed)
	assert.Equal(t, "Forecast", forecast[2].Description)
	assert.Equal(t, "Unavailable", forecast[3].Description)
	assert.Equal(t, "Unavailable", forecast[4].Description)
	assert.Equal(t, []string{"10/18/2026", "10/19/2026", "10/20/2026", "10/21/2026", "10/22/2026"}, dates(forecast))
}

func TestBuildForecast_UsesConfiguredZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	n := &Normalizer{Now: time.Now, Location: tokyo}
	payload := listPayload(t, 1)

	current, err := n.ParseCurrent(payload)

	require.NoError(t, err)
	assert.Equal(t, "11/15/2023", current.Date)
}

func dates(entries []WeatherEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Date)
	}
	return out
}
