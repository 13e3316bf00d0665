// Package enrich augments parsed itineraries with live signals: weather,
// traffic incidents, carpark availability, bus wait times and platform
// crowd density.
//
// Enrichment is best-effort. Each signal writes only the itinerary fields
// it owns, and a failed signal leaves those fields at their zero values
// without failing the itinerary.
package enrich

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/datamall"
	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/internal/weather"
)

// TransportData is the subset of the DataMall client the enrichers use.
type TransportData interface {
	FetchCarparkAvailability(ctx context.Context) ([]datamall.CarparkRecord, error)
	FetchTrafficIncidents(ctx context.Context) ([]itinerary.Incident, error)
	FetchBusArrivals(ctx context.Context, busStopCode, serviceNo string) ([]datamall.BusArrival, error)
	FetchPlatformCrowd(ctx context.Context, trainLine string) ([]datamall.StationCrowd, error)
}

// WeatherData is the subset of the weather client the enrichers use.
type WeatherData interface {
	FetchTwoHourForecast(ctx context.Context) (*weather.Forecast, error)
}

// ServiceConfig holds dependencies for the enrichment service.
type ServiceConfig struct {
	Transport TransportData
	Weather   WeatherData
	Logger    zerolog.Logger
}

// Service coordinates the per-itinerary enrichment fan-out.
type Service struct {
	transport TransportData
	weather   WeatherData
	log       zerolog.Logger
}

// NewService creates a new enrichment service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		transport: cfg.Transport,
		weather:   cfg.Weather,
		log:       cfg.Logger.With().Str("component", "enrich").Logger(),
	}
}

// EnrichAll runs every applicable signal for every itinerary concurrently.
// Signals never fail the batch: a signal that errors is logged and its
// fields stay at their zero values.
func (s *Service) EnrichAll(ctx context.Context, itineraries []*itinerary.Itinerary) {
	var wg sync.WaitGroup
	for _, it := range itineraries {
		wg.Add(1)
		go func(it *itinerary.Itinerary) {
			defer wg.Done()
			s.enrichOne(ctx, it)
		}(it)
	}
	wg.Wait()
}

// enrichOne fans out the signals for a single itinerary. The signals write
// disjoint fields, so they run concurrently without locking.
func (s *Service) enrichOne(ctx context.Context, it *itinerary.Itinerary) {
	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context, *itinerary.Itinerary) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx, it); err != nil {
				s.log.Warn().Err(err).
					Str("signal", name).
					Str("itinerary", it.Name).
					Msg("enrichment signal failed")
			}
		}()
	}

	// Weather is attached to driving and walking itineraries only; public
	// itineraries skip the forecast even though their legs carry geometry.
	switch it.Mode {
	case itinerary.ModeDriving:
		run("weather", s.attachWeather)
		run("incidents", s.attachIncidents)
	case itinerary.ModeWalking:
		run("weather", s.attachWeather)
	case itinerary.ModePublic:
		run("bus_wait", s.attachBusWait)
		run("platform_density", s.attachPlatformDensity)
	}

	wg.Wait()
}
