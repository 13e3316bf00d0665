package enrich

import (
	"context"
	"strconv"
	"strings"

	"github.com/tripweave/tripweave/internal/datamall"
	"github.com/tripweave/tripweave/internal/itinerary"
)

// defaultCrowdScore is assumed for stations the crowd feed does not cover.
const defaultCrowdScore = 0.5

// attachPlatformDensity averages the platform crowd level over the stations
// each train leg passes through. Crowd levels map to 0 (low), 0.5
// (moderate) and 1 (high). A leg whose crowd feed is unavailable counts as
// moderate rather than failing the itinerary. An itinerary with no train
// legs keeps density 0.
func (s *Service) attachPlatformDensity(ctx context.Context, it *itinerary.Itinerary) error {
	var sum float64
	var legs int

	for _, leg := range it.Legs {
		if leg.Mode != itinerary.LegSubway || leg.FromStation == nil || leg.ToStation == nil {
			continue
		}

		prefix := leg.FromStation.LinePrefix()
		if prefix == "" {
			continue
		}

		crowd, err := s.transport.FetchPlatformCrowd(ctx, strings.ToUpper(prefix)+"L")
		if err != nil {
			s.log.Warn().Err(err).
				Str("line", prefix).
				Msg("platform crowd unavailable, assuming moderate")
			sum += defaultCrowdScore
			legs++
			continue
		}

		sum += legDensity(leg, prefix, crowd)
		legs++
	}

	if legs == 0 {
		return nil
	}
	it.PlatformDensity = sum / float64(legs)
	return nil
}

// legDensity averages the crowd score over the feed's stations that fall on
// the leg's line between boarding (inclusive) and alighting (exclusive).
// A leg with no matching stations scores moderate.
func legDensity(leg itinerary.Leg, prefix string, crowd []datamall.StationCrowd) float64 {
	lo := leg.FromStation.StopNumber()
	hi := leg.ToStation.StopNumber()
	if lo > hi {
		lo, hi = hi, lo
	}

	line := strings.ToUpper(prefix)
	var sum float64
	count := 0
	for _, c := range crowd {
		station := strings.ToUpper(c.Station)
		if !strings.HasPrefix(station, line) {
			continue
		}
		n, err := strconv.Atoi(station[len(line):])
		if err != nil || n < lo || n >= hi {
			continue
		}
		sum += crowdScore(c.CrowdLevel)
		count++
	}
	if count == 0 {
		return defaultCrowdScore
	}
	return sum / float64(count)
}

func crowdScore(level string) float64 {
	switch strings.ToLower(level) {
	case "l":
		return 0
	case "h":
		return 1
	case "m":
		return 0.5
	default:
		return defaultCrowdScore
	}
}
