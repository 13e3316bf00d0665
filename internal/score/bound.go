package score

import (
	"math"

	"github.com/tripweave/tripweave/internal/itinerary"
)

// epsilon below which a dimension carries no discriminating signal.
const epsilon = 1e-3

// MaxMin is the range of one scoring dimension over the candidate set.
type MaxMin struct {
	Max float64
	Min float64
}

// Normalize maps v into [0,1] within the range. A degenerate range (all
// candidates effectively equal, including the single-candidate case)
// resolves to 1 for every v: no signal is treated as fully favorable.
func Normalize(v float64, r MaxMin) float64 {
	if r.Max-r.Min <= epsilon {
		return 1
	}
	return (v - r.Min) / (r.Max - r.Min)
}

// Bound holds the per-dimension ranges for one ranking call. It is built
// fresh from the full candidate list, read-only afterwards, and shared by
// every scoring call in the invocation.
type Bound struct {
	Duration            MaxMin
	WalkingDistance     MaxMin
	NoTransfer          MaxMin
	Fare                MaxMin
	BusWaitTime         MaxMin
	PlatformDensity     MaxMin
	CarparkAvailability MaxMin
}

// NewBound computes dimension ranges over the candidate set. Duration and
// walking distance span all candidates; transfer, fare, bus-wait and
// platform-density ranges span only transit candidates; carpark
// availability spans only driving candidates.
func NewBound(itineraries []*itinerary.Itinerary) *Bound {
	var transit, driving []*itinerary.Itinerary
	for _, it := range itineraries {
		switch it.Mode {
		case itinerary.ModePublic:
			transit = append(transit, it)
		case itinerary.ModeDriving:
			driving = append(driving, it)
		}
	}

	return &Bound{
		Duration:        maxMin(itineraries, func(it *itinerary.Itinerary) float64 { return it.TotalDuration }),
		WalkingDistance: maxMin(itineraries, func(it *itinerary.Itinerary) float64 { return it.WalkingDistance }),
		NoTransfer:      maxMin(transit, func(it *itinerary.Itinerary) float64 { return float64(it.TotalTransfers) }),
		Fare:            maxMin(transit, func(it *itinerary.Itinerary) float64 { return it.TotalFare }),
		BusWaitTime:     maxMin(transit, func(it *itinerary.Itinerary) float64 { return it.BusWaitTime }),
		PlatformDensity: maxMin(transit, func(it *itinerary.Itinerary) float64 { return it.PlatformDensity }),
		CarparkAvailability: maxMin(driving, func(it *itinerary.Itinerary) float64 {
			return float64(it.CarparkLots())
		}),
	}
}

// maxMin scans a candidate subset with a dimension selector. An empty
// subset yields an inverted infinite range, which Normalize resolves to the
// degenerate (always 1) case.
func maxMin(itineraries []*itinerary.Itinerary, selector func(*itinerary.Itinerary) float64) MaxMin {
	r := MaxMin{Max: math.Inf(-1), Min: math.Inf(1)}
	for _, it := range itineraries {
		v := selector(it)
		if v > r.Max {
			r.Max = v
		}
		if v < r.Min {
			r.Min = v
		}
	}
	return r
}
