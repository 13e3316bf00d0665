// Package weather provides a client for the Singapore NEA two-hour weather
// forecast API and helpers for picking the forecast area nearest a point.
package weather

// LabelLocation is the representative point of a forecast area.
type LabelLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AreaMetadata names a forecast area and its representative point.
type AreaMetadata struct {
	Name          string        `json:"name"`
	LabelLocation LabelLocation `json:"label_location"`
}

// AreaForecast is the forecast text for one named area.
type AreaForecast struct {
	Area     string `json:"area"`
	Forecast string `json:"forecast"`
}

// Forecast bundles the area metadata with the current forecast period.
type Forecast struct {
	Areas     []AreaMetadata
	Forecasts []AreaForecast
}
