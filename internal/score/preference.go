// Package score implements the convenience scoring engine: per-request
// min-max normalization bounds, mode-keyed weighted scoring and ranking.
package score

import (
	"errors"
	"fmt"
)

// Scoring errors.
var (
	// ErrNegativeWeight is returned when a preference weight is negative.
	// Preferences are validated once at construction, never at scoring time.
	ErrNegativeWeight = errors.New("preference weight must be non-negative")

	// ErrInvalidItineraryType is returned when a scoring strategy is applied
	// to an itinerary of the wrong mode. This is a programmer error, not a
	// transient condition.
	ErrInvalidItineraryType = errors.New("itinerary mode does not match scoring strategy")
)

// Preference is the user-supplied weight vector. All weights are
// non-negative; the applicable subtotal per mode is recomputed on demand.
type Preference struct {
	DurationWeight            float64
	WalkingDistanceWeight     float64
	NoTransferWeight          float64
	CarparkAvailabilityWeight float64
	BusWaitTimeWeight         float64
	PlatformDensityWeight     float64
	FareWeight                float64
}

// NewPreference validates and returns a preference vector. Any negative
// weight is rejected here so scoring itself can never fail on input.
func NewPreference(duration, noTransfer, walkingDistance, carparkAvailability, busWaitTime, platformDensity, fare float64) (Preference, error) {
	p := Preference{
		DurationWeight:            duration,
		WalkingDistanceWeight:     walkingDistance,
		NoTransferWeight:          noTransfer,
		CarparkAvailabilityWeight: carparkAvailability,
		BusWaitTimeWeight:         busWaitTime,
		PlatformDensityWeight:     platformDensity,
		FareWeight:                fare,
	}
	return p, p.Validate()
}

// Validate checks every weight for non-negativity.
func (p Preference) Validate() error {
	weights := map[string]float64{
		"duration":            p.DurationWeight,
		"walkingDistance":     p.WalkingDistanceWeight,
		"noTransfer":          p.NoTransferWeight,
		"carparkAvailability": p.CarparkAvailabilityWeight,
		"busWaitTime":         p.BusWaitTimeWeight,
		"platformDensity":     p.PlatformDensityWeight,
		"fare":                p.FareWeight,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %s = %v", ErrNegativeWeight, name, w)
		}
	}
	return nil
}

// TotalWeightWalking is the weight applicable to walking itineraries.
func (p Preference) TotalWeightWalking() float64 {
	return p.DurationWeight
}

// TotalWeightPublicTransport is the weight applicable to transit itineraries.
func (p Preference) TotalWeightPublicTransport() float64 {
	return p.DurationWeight + p.WalkingDistanceWeight +
		p.NoTransferWeight + p.BusWaitTimeWeight +
		p.PlatformDensityWeight + p.FareWeight
}

// TotalWeightDriving is the weight applicable to driving itineraries.
func (p Preference) TotalWeightDriving() float64 {
	return p.DurationWeight + p.WalkingDistanceWeight + p.CarparkAvailabilityWeight
}
