package weather

// Coordinates is a resolved geographic position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the pair lies within the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// WeatherEntry is one normalized day of weather. Temperatures are in °F and
// wind speed in mph. Humidity is 0 when the provider does not report it.
type WeatherEntry struct {
	Date        string  `json:"date"`
	Temp        float64 `json:"temp"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// WeatherReport is the response of a lookup. Forecast always holds
// ForecastDays entries and Forecast[0] equals Current.
type WeatherReport struct {
	City     string         `json:"city"`
	Current  WeatherEntry   `json:"current"`
	Forecast []WeatherEntry `json:"forecast"`
}
