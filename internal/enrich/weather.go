package enrich

import (
	"context"
	"fmt"

	"github.com/tripweave/tripweave/internal/itinerary"
)

// attachWeather sets the forecast text for the route midpoint, approximated
// as the average of the first and last route coordinates. The forecast area
// grid is city-scale, so the straight average is close enough to pick the
// right area.
func (s *Service) attachWeather(ctx context.Context, it *itinerary.Itinerary) error {
	points := it.RoutePoints()
	if len(points) == 0 {
		return nil
	}

	first, last := points[0], points[len(points)-1]
	midLat := (first.Lat + last.Lat) / 2
	midLng := (first.Lng + last.Lng) / 2

	forecast, err := s.weather.FetchTwoHourForecast(ctx)
	if err != nil {
		return fmt.Errorf("fetch forecast: %w", err)
	}

	it.Weather = forecast.ForecastAt(midLat, midLng)
	return nil
}
