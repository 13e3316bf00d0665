package models

import "github.com/tripweave/tripweave/internal/itinerary"

// Trip represents a saved trip.
type Trip struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Origin      Point             `json:"origin"`
	Destination Point             `json:"destination"`
	Itinerary   itinerary.Record  `json:"itinerary"`
	Notes       *string           `json:"notes,omitempty"`
	CreatedAt   Timestamp         `json:"createdAt"`
	UpdatedAt   Timestamp         `json:"updatedAt"`
}

// TripCreateRequest is the payload for creating a trip.
type TripCreateRequest struct {
	Label       string           `json:"label"`
	Origin      Point            `json:"origin"`
	Destination Point            `json:"destination"`
	Itinerary   itinerary.Record `json:"itinerary"`
	Notes       *string          `json:"notes,omitempty"`
}

// TripUpdateRequest is the payload for updating a trip. Nil fields are left
// unchanged.
type TripUpdateRequest struct {
	Label       *string           `json:"label,omitempty"`
	Origin      *Point            `json:"origin,omitempty"`
	Destination *Point            `json:"destination,omitempty"`
	Itinerary   *itinerary.Record `json:"itinerary,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}

// PagedTrips is a page of saved trips.
type PagedTrips struct {
	Items []Trip            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
