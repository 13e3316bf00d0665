// Package planner orchestrates a trip query end to end: fetch candidate
// routes per mode, build driving composites around nearby carparks, enrich
// with live signals and rank by the caller's preference weights.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/internal/routing"
	"github.com/tripweave/tripweave/internal/score"
)

// ErrNoItineraries is returned when every requested mode failed or came
// back empty.
var ErrNoItineraries = errors.New("no itineraries found for any requested mode")

// Request is one trip query.
type Request struct {
	Start      routing.Point
	End        routing.Point
	Modes      []routing.Mode
	Preference score.Preference
}

// Enricher augments itineraries with live signals before ranking.
type Enricher interface {
	EnrichAll(ctx context.Context, itineraries []*itinerary.Itinerary)
	NearestCarparks(ctx context.Context, destLat, destLng float64) ([]itinerary.Carpark, error)
}

// ServiceConfig holds dependencies for the planner service.
type ServiceConfig struct {
	Provider routing.Provider
	Enricher Enricher
	Logger   zerolog.Logger
}

// Service plans and ranks trips.
type Service struct {
	provider routing.Provider
	enricher Enricher
	parser   *itinerary.Parser
	log      zerolog.Logger
}

// NewService creates a planner service.
func NewService(cfg ServiceConfig) *Service {
	log := cfg.Logger.With().Str("component", "planner").Logger()
	return &Service{
		provider: cfg.Provider,
		enricher: cfg.Enricher,
		parser:   itinerary.NewParser(log),
		log:      log,
	}
}

// Plan fetches candidates for every requested mode, enriches them and ranks
// them under the request's preference weights.
//
// Modes fail independently: one mode's provider error is logged and drops
// only that mode's candidates. Plan fails only when no mode produced
// anything, or the preference vector itself is invalid.
func (s *Service) Plan(ctx context.Context, req Request) (*score.Result, error) {
	if err := req.Preference.Validate(); err != nil {
		return nil, err
	}

	modes := req.Modes
	if len(modes) == 0 {
		modes = []routing.Mode{routing.ModeTransit, routing.ModeDrive, routing.ModeWalk}
	}

	var mu sync.Mutex
	var candidates []*itinerary.Itinerary

	var wg sync.WaitGroup
	for _, mode := range modes {
		wg.Add(1)
		go func(mode routing.Mode) {
			defer wg.Done()
			its, err := s.planMode(ctx, req, mode)
			if err != nil {
				s.log.Warn().Err(err).Str("mode", string(mode)).Msg("mode planning failed")
				return
			}
			mu.Lock()
			candidates = append(candidates, its...)
			mu.Unlock()
		}(mode)
	}
	wg.Wait()

	if len(candidates) == 0 {
		return nil, ErrNoItineraries
	}

	s.enricher.EnrichAll(ctx, candidates)

	return score.Rank(candidates, req.Preference)
}

// planMode produces the candidates for one request mode.
func (s *Service) planMode(ctx context.Context, req Request, mode routing.Mode) ([]*itinerary.Itinerary, error) {
	if mode == routing.ModeDrive {
		return s.planDriving(ctx, req)
	}

	resp, err := s.provider.GetRoute(ctx, req.Start, req.End, mode)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(resp, mode)
}

// planDriving builds the driving candidates: one composite per nearby
// carpark (drive to the carpark, walk the rest) plus the direct
// door-to-door route. A failed carpark lookup degrades to the direct route
// alone.
func (s *Service) planDriving(ctx context.Context, req Request) ([]*itinerary.Itinerary, error) {
	var candidates []*itinerary.Itinerary

	carparks, err := s.enricher.NearestCarparks(ctx, req.End.Lat, req.End.Lng)
	if err != nil {
		s.log.Warn().Err(err).Msg("carpark lookup failed, falling back to direct route")
	}

	for i := range carparks {
		composite, err := s.driveViaCarpark(ctx, req, carparks[i])
		if err != nil {
			s.log.Warn().Err(err).
				Str("carpark", carparks[i].Name).
				Msg("carpark composite failed")
			continue
		}
		candidates = append(candidates, composite)
	}

	direct, err := s.directDrive(ctx, req)
	if err != nil {
		if len(candidates) == 0 {
			return nil, err
		}
		s.log.Warn().Err(err).Msg("direct driving route failed")
	} else {
		candidates = append(candidates, direct...)
	}

	return candidates, nil
}

// driveViaCarpark builds one composite: the driving route to the carpark
// with the carpark-to-destination walk appended, and the real carpark
// attached in place of the parser's placeholder.
func (s *Service) driveViaCarpark(ctx context.Context, req Request, carpark itinerary.Carpark) (*itinerary.Itinerary, error) {
	carparkPoint := routing.Point{Lat: carpark.Lat, Lng: carpark.Lng}

	driveResp, err := s.provider.GetRoute(ctx, req.Start, carparkPoint, routing.ModeDrive)
	if err != nil {
		return nil, fmt.Errorf("drive leg: %w", err)
	}
	drives, err := s.parser.Parse(driveResp, routing.ModeDrive)
	if err != nil {
		return nil, fmt.Errorf("parse drive leg: %w", err)
	}
	if len(drives) == 0 {
		return nil, routing.ErrNoRouteFound
	}

	walkResp, err := s.provider.GetRoute(ctx, carparkPoint, req.End, routing.ModeWalk)
	if err != nil {
		return nil, fmt.Errorf("walk leg: %w", err)
	}
	walks, err := s.parser.Parse(walkResp, routing.ModeWalk)
	if err != nil {
		return nil, fmt.Errorf("parse walk leg: %w", err)
	}

	composite := drives[0]
	if len(walks) > 0 {
		composite.Append(walks[0])
	}
	cp := carpark
	composite.NearestCarpark = &cp
	composite.Name = "Park at " + carpark.Name
	return composite, nil
}

// directDrive fetches the door-to-door driving route.
func (s *Service) directDrive(ctx context.Context, req Request) ([]*itinerary.Itinerary, error) {
	resp, err := s.provider.GetRoute(ctx, req.Start, req.End, routing.ModeDrive)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(resp, routing.ModeDrive)
}
