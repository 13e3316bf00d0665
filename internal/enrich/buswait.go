package enrich

import (
	"context"
	"time"

	"github.com/tripweave/tripweave/internal/datamall"
	"github.com/tripweave/tripweave/internal/itinerary"
)

// attachBusWait estimates the total bus headway of a transit itinerary.
// For every bus leg it fetches the next arrivals at the boarding stop and
// averages the minute gaps between consecutive arrivals. Legs with fewer
// than two usable arrivals, or whose fetch fails, contribute nothing, so
// the estimate degrades to a partial sum rather than failing.
func (s *Service) attachBusWait(ctx context.Context, it *itinerary.Itinerary) error {
	var total float64
	for _, leg := range it.Legs {
		if leg.Mode != itinerary.LegBus || leg.BusStopCode == "" || leg.RouteName == "" {
			continue
		}

		arrivals, err := s.transport.FetchBusArrivals(ctx, leg.BusStopCode, leg.RouteName)
		if err != nil {
			s.log.Warn().Err(err).
				Str("stop", leg.BusStopCode).
				Str("service", leg.RouteName).
				Msg("bus arrivals unavailable, skipping leg")
			continue
		}

		total += averageHeadwayMinutes(arrivals)
	}

	it.BusWaitTime = total
	return nil
}

// averageHeadwayMinutes averages the pairwise gaps between consecutive
// estimated arrivals. Unparseable timestamps are dropped; fewer than two
// usable arrivals yields 0.
func averageHeadwayMinutes(arrivals []datamall.BusArrival) float64 {
	var times []time.Time
	for _, a := range arrivals {
		t, err := time.Parse(time.RFC3339, a.EstimatedArrival)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	if len(times) < 2 {
		return 0
	}

	var sum float64
	for i := 1; i < len(times); i++ {
		sum += times[i].Sub(times[i-1]).Minutes()
	}
	return sum / float64(len(times)-1)
}
