package enrich

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/pkg/geo"
)

const (
	carparkRetries = 3
	carparkTopN    = 3
)

// CarparkFetchError indicates the carpark availability feed stayed
// unavailable through all retry attempts.
type CarparkFetchError struct {
	Attempts int
	Err      error
}

func (e *CarparkFetchError) Error() string {
	return fmt.Sprintf("carpark availability unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *CarparkFetchError) Unwrap() error {
	return e.Err
}

// carparkCandidate pairs a carpark with its distance to the destination.
type carparkCandidate struct {
	carpark itinerary.Carpark
	km      float64
}

// NearestCarparks returns up to three carparks with open lots, nearest
// first by great-circle distance to the destination. Zero-lot carparks and
// records with unparseable locations are dropped. The availability fetch is
// retried; exhaustion yields a CarparkFetchError.
func (s *Service) NearestCarparks(ctx context.Context, destLat, destLng float64) ([]itinerary.Carpark, error) {
	var rows []carparkCandidate

	operation := func() error {
		fetched, err := s.transport.FetchCarparkAvailability(ctx)
		if err != nil {
			return err
		}

		rows = rows[:0]
		for _, rec := range fetched {
			if rec.AvailableLots <= 0 {
				continue
			}
			lat, lng, ok := parseLocation(rec.Location)
			if !ok {
				continue
			}
			rows = append(rows, carparkCandidate{
				carpark: itinerary.Carpark{
					ID:            rec.CarParkID,
					Name:          rec.Development,
					Lat:           lat,
					Lng:           lng,
					AvailableLots: rec.AvailableLots,
				},
				km: geo.DistanceKm(destLat, destLng, lat, lng),
			})
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, carparkRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, &CarparkFetchError{Attempts: carparkRetries, Err: err}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].km < rows[j].km })

	n := len(rows)
	if n > carparkTopN {
		n = carparkTopN
	}
	carparks := make([]itinerary.Carpark, 0, n)
	for _, row := range rows[:n] {
		carparks = append(carparks, row.carpark)
	}
	return carparks, nil
}

// parseLocation splits the "lat lng" location string.
func parseLocation(location string) (lat, lng float64, ok bool) {
	parts := strings.Fields(location)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
