package models

import "github.com/tripweave/tripweave/internal/itinerary"

// Weights are the preference weights a trip is ranked under. All weights
// must be non-negative; a weight of zero removes that dimension from the
// score.
type Weights struct {
	Duration            float64 `json:"duration"`
	NoTransfer          float64 `json:"noTransfer"`
	WalkingDistance     float64 `json:"walkingDistance"`
	CarparkAvailability float64 `json:"carparkAvailability"`
	BusWaitTime         float64 `json:"busWaitTime"`
	PlatformDensity     float64 `json:"platformDensity"`
	Fare                float64 `json:"fare"`
}

// PlanRequest is a trip planning query.
type PlanRequest struct {
	Start Point `json:"start"`
	End   Point `json:"end"`

	// Modes limits the request modes ("pt", "drive", "walk", "cycle").
	// Empty means all primary modes.
	Modes []string `json:"modes,omitempty"`

	Weights Weights `json:"weights"`
}

// PlanResponse holds the ranked itineraries: the overall shortlist plus the
// per-mode leaderboards, each sorted by descending score.
type PlanResponse struct {
	Best    []itinerary.Record `json:"best"`
	Walking []itinerary.Record `json:"walking"`
	Public  []itinerary.Record `json:"public"`
	Driving []itinerary.Record `json:"driving"`
}

// RankRequest re-ranks previously serialized itineraries under new weights.
type RankRequest struct {
	Itineraries []itinerary.Record `json:"itineraries"`
	Weights     Weights            `json:"weights"`
}
