// Package trips provides saved-trip management services.
package trips

import (
	"errors"
	"time"

	"github.com/tripweave/tripweave/internal/itinerary"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Trip represents a saved trip: a labeled origin/destination pair with the
// chosen itinerary in its serialized record form.
type Trip struct {
	ID          string
	UserID      string
	Label       string
	Origin      Point
	Destination Point
	Itinerary   itinerary.Record
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Point represents a geographic point.
type Point struct {
	Lat float64
	Lng float64
}
