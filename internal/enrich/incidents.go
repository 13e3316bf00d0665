package enrich

import (
	"context"
	"fmt"

	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/pkg/geo"
)

const (
	// incidentBBoxDeg is the cheap bounding-box margin around the route,
	// in degrees, applied before the exact distance check.
	incidentBBoxDeg = 0.003

	// incidentRadiusKm is the point-to-segment distance under which an
	// incident counts as on the route.
	incidentRadiusKm = 0.03
)

// attachIncidents geofences the current traffic incidents onto a driving
// route. An incident matches when it falls inside the expanded bounding box
// of some route segment and lies within incidentRadiusKm of that segment's
// line. Matches are deduplicated by type and message.
func (s *Service) attachIncidents(ctx context.Context, it *itinerary.Itinerary) error {
	points := it.RoutePoints()
	if len(points) < 2 {
		return nil
	}

	incidents, err := s.transport.FetchTrafficIncidents(ctx)
	if err != nil {
		return fmt.Errorf("fetch incidents: %w", err)
	}

	seen := make(map[string]struct{})
	var matched []itinerary.Incident

	for _, inc := range incidents {
		if _, dup := seen[inc.Key()]; dup {
			continue
		}
		for i := 0; i < len(points)-1; i++ {
			a, b := points[i], points[i+1]
			if !inSegmentBox(inc.Latitude, inc.Longitude, a.Lat, a.Lng, b.Lat, b.Lng) {
				continue
			}
			if geo.PointToLineKm(inc.Latitude, inc.Longitude, a.Lat, a.Lng, b.Lat, b.Lng) < incidentRadiusKm {
				seen[inc.Key()] = struct{}{}
				matched = append(matched, inc)
				break
			}
		}
	}

	it.Incidents = matched
	return nil
}

// inSegmentBox reports whether the point lies inside the segment's bounding
// box expanded by incidentBBoxDeg on every side.
func inSegmentBox(lat, lng, aLat, aLng, bLat, bLng float64) bool {
	minLat, maxLat := aLat, bLat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLng, maxLng := aLng, bLng
	if minLng > maxLng {
		minLng, maxLng = maxLng, minLng
	}
	return lat >= minLat-incidentBBoxDeg && lat <= maxLat+incidentBBoxDeg &&
		lng >= minLng-incidentBBoxDeg && lng <= maxLng+incidentBBoxDeg
}
