package itinerary

import (
	"fmt"
	"strings"

	"github.com/tripweave/tripweave/pkg/polyline"
)

// Mode discriminates the three itinerary variants. It is immutable after
// construction and selects both the scoring strategy and the serialization
// shape.
type Mode string

// Itinerary modes. The string values double as the wire discriminant in
// serialized records.
const (
	ModeDriving Mode = "DrivingItinerary"
	ModePublic  Mode = "PublicItinerary"
	ModeWalking Mode = "SimpleWalkingItinerary"
)

// Itinerary is one complete trip proposal: an ordered leg sequence plus
// aggregate metrics and mode-specific extensions.
//
// An itinerary is built once by the parser, then mutated in place by the
// enrichment pipeline (weather, incidents, carpark, bus wait, platform
// density) and by the scoring engine. Each enrichment coordinator writes
// only the fields it exclusively owns, so concurrent enrichment of one
// itinerary needs no locking.
type Itinerary struct {
	Mode Mode
	Legs []Leg

	TotalDuration   float64 // seconds
	TotalDistance   float64 // meters
	TotalTransfers  int
	TotalFare       float64
	WalkingDistance float64 // meters, sum of walking-typed legs

	Name    string
	Weather string // empty until enriched

	// Score is the convenience score, 0 until assigned by the scoring
	// engine (or for a degenerate preference vector).
	Score float64

	// Driving variant.
	NearestCarpark *Carpark
	FullGeometry   string // encoded polyline of the whole route
	Polyline       []polyline.Coordinate
	ViaRoute       string
	Incidents      []Incident // empty until enriched

	// Public transit variant.
	BusWaitTime     float64 // minutes, 0 until enriched
	PlatformDensity float64 // 0-1 crowding, written by enrichment

	// UserMode is the request mode this itinerary was produced for
	// ("drive", "pt", "walk" or "cycle").
	UserMode string
}

// newBase computes the aggregates every variant shares.
func newBase(mode Mode, legs []Leg, userMode string) *Itinerary {
	it := &Itinerary{
		Mode:     mode,
		Legs:     legs,
		Name:     "Route",
		UserMode: userMode,
	}
	for _, leg := range legs {
		it.TotalDuration += leg.Duration
		it.TotalDistance += leg.Distance
		if leg.IsWalking() {
			it.WalkingDistance += leg.Distance
		}
	}
	if n := len(legs) - 1; n > 0 {
		it.TotalTransfers = n
	}
	return it
}

// NewDriving builds a driving itinerary. fullGeometry is the encoded
// polyline of the whole route; when present it is decoded for geofencing
// and rendering, otherwise the route geometry is stitched from the legs.
// carpark may be a zero-lot placeholder for direct (non-carpark) routes.
func NewDriving(legs []Leg, fullGeometry string, carpark *Carpark, viaRoute string) *Itinerary {
	it := newBase(ModeDriving, legs, "drive")
	it.NearestCarpark = carpark
	it.FullGeometry = fullGeometry
	it.ViaRoute = viaRoute
	it.Name = "Driving Route " + viaRoute
	if fullGeometry != "" {
		it.Polyline = polyline.Decode(fullGeometry)
	} else {
		it.Polyline = legsGeometry(legs)
	}
	return it
}

// NewPublic builds a public-transit itinerary. The provider-reported
// duration, transfer count and fare are applied by the parser after
// construction.
func NewPublic(legs []Leg) *Itinerary {
	return newBase(ModePublic, legs, "pt")
}

// NewWalking builds a walking (or cycling) itinerary from a single
// synthesized leg spanning the whole route.
func NewWalking(legs []Leg, fullGeometry, userMode string) *Itinerary {
	it := newBase(ModeWalking, legs, userMode)
	it.FullGeometry = fullGeometry
	it.Name = "Walking Route"
	if fullGeometry != "" {
		it.Polyline = polyline.Decode(fullGeometry)
	} else {
		it.Polyline = legsGeometry(legs)
	}
	return it
}

func legsGeometry(legs []Leg) []polyline.Coordinate {
	var coords []polyline.Coordinate
	for _, leg := range legs {
		coords = append(coords, leg.Geometry...)
	}
	return coords
}

// Summary renders the human-readable itinerary summary. It is derived from
// the round-tripped fields, so it does not need to survive serialization
// byte-for-byte.
func (it *Itinerary) Summary() string {
	switch it.Mode {
	case ModePublic:
		var b strings.Builder
		fmt.Fprintf(&b, "Public Transport<br>Duration: %.0f mins<br>Distance: %.2f km<br>Transfers: %d<br><br>",
			it.TotalDuration/60, it.TotalDistance/1000, it.TotalTransfers)
		b.WriteString(it.legDescriptions())
		return b.String()
	case ModeDriving:
		return fmt.Sprintf("Duration: %.0f mins<br>Distance: %.2f km<br>%s",
			it.TotalDuration/60, it.TotalDistance/1000, it.legDescriptions())
	default:
		return fmt.Sprintf("Duration: %.0f mins<br>Distance: %.2f km<br>Mode: %s",
			it.TotalDuration/60, it.TotalDistance/1000, it.UserMode)
	}
}

func (it *Itinerary) legDescriptions() string {
	descriptions := make([]string, 0, len(it.Legs))
	for _, leg := range it.Legs {
		descriptions = append(descriptions, leg.Description)
	}
	return strings.Join(descriptions, "<br>")
}

// RoutePoints returns the coordinates available for geofencing and
// midpoint math: the decoded full-route polyline when the variant carries
// one, otherwise the concatenated leg geometry.
func (it *Itinerary) RoutePoints() []polyline.Coordinate {
	if len(it.Polyline) > 0 {
		return it.Polyline
	}
	return legsGeometry(it.Legs)
}

// CarparkLots returns the available-lot count of the nearest carpark, or 0
// when no carpark is attached.
func (it *Itinerary) CarparkLots() int {
	if it.NearestCarpark == nil {
		return 0
	}
	return it.NearestCarpark.AvailableLots
}

// Append merges a follow-on itinerary (the walk from a carpark to the
// destination) into this one: legs, geometry and totals are concatenated.
// WalkingDistance is intentionally left untouched: a drive-to-carpark
// composite keeps the walking distance computed at construction.
func (it *Itinerary) Append(tail *Itinerary) {
	it.Legs = append(it.Legs, tail.Legs...)
	it.Polyline = append(it.Polyline, tail.Polyline...)
	it.TotalDuration += tail.TotalDuration
	it.TotalDistance += tail.TotalDistance
}
