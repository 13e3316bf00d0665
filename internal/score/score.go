package score

import (
	"fmt"

	"github.com/tripweave/tripweave/internal/itinerary"
)

// Compute returns the convenience score for one itinerary against the
// shared bound. The base score covers duration and walking distance; the
// mode-keyed strategy adds its dimensions and rescales into the 1-10 band.
// A preference whose applicable weight subtotal is effectively zero yields
// exactly 0 (defined degenerate behavior, not an error).
//
// Compute never makes network calls and only fails on programmer misuse:
// an itinerary with an unknown mode discriminant.
func Compute(it *itinerary.Itinerary, bound *Bound, pref Preference) (float64, error) {
	base := pref.DurationWeight*(1-Normalize(it.TotalDuration, bound.Duration)) +
		pref.WalkingDistanceWeight*(1-Normalize(it.WalkingDistance, bound.WalkingDistance))

	switch it.Mode {
	case itinerary.ModeWalking:
		return ComputeWalking(base, it, bound, pref)
	case itinerary.ModePublic:
		return ComputePublic(base, it, bound, pref)
	case itinerary.ModeDriving:
		return ComputeDriving(base, it, bound, pref)
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidItineraryType, it.Mode)
	}
}

// ComputeWalking applies the walking strategy: only the duration weight
// applies, rescaled to 1-10.
func ComputeWalking(base float64, it *itinerary.Itinerary, _ *Bound, pref Preference) (float64, error) {
	if it.Mode != itinerary.ModeWalking {
		return 0, fmt.Errorf("%w: walking strategy got %q", ErrInvalidItineraryType, it.Mode)
	}
	total := pref.TotalWeightWalking()
	if total <= epsilon {
		return 0, nil
	}
	return base/total*9 + 1, nil
}

// ComputePublic applies the transit strategy: transfers, fare, bus wait and
// platform density all count inverted (lower is better), rescaled to 1-10.
func ComputePublic(base float64, it *itinerary.Itinerary, bound *Bound, pref Preference) (float64, error) {
	if it.Mode != itinerary.ModePublic {
		return 0, fmt.Errorf("%w: transit strategy got %q", ErrInvalidItineraryType, it.Mode)
	}

	s := base +
		pref.NoTransferWeight*(1-Normalize(float64(it.TotalTransfers), bound.NoTransfer)) +
		pref.FareWeight*(1-Normalize(it.TotalFare, bound.Fare)) +
		pref.BusWaitTimeWeight*(1-Normalize(it.BusWaitTime, bound.BusWaitTime)) +
		pref.PlatformDensityWeight*(1-Normalize(it.PlatformDensity, bound.PlatformDensity))

	total := pref.TotalWeightPublicTransport()
	if total <= epsilon {
		return 0, nil
	}
	return s/total*9 + 1, nil
}

// ComputeDriving applies the driving strategy. Carpark availability is the
// one dimension that is not inverted: more open lots is directly more
// favorable.
func ComputeDriving(base float64, it *itinerary.Itinerary, bound *Bound, pref Preference) (float64, error) {
	if it.Mode != itinerary.ModeDriving {
		return 0, fmt.Errorf("%w: driving strategy got %q", ErrInvalidItineraryType, it.Mode)
	}

	s := base + pref.CarparkAvailabilityWeight*Normalize(float64(it.CarparkLots()), bound.CarparkAvailability)

	total := pref.TotalWeightDriving()
	if total <= epsilon {
		return 0, nil
	}
	return s/total*9 + 1, nil
}
