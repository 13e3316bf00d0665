// Package routing defines the routing-provider contract: the request modes
// and the two response shapes the upstream provider returns (a transit plan
// envelope and a generic turn-by-turn block).
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates the provided coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Mode is the route request mode.
type Mode string

// Request modes accepted by the provider.
const (
	ModeTransit Mode = "pt"
	ModeDrive   Mode = "drive"
	ModeWalk    Mode = "walk"
	ModeCycle   Mode = "cycle"
)

// Point is a request coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// Provider fetches candidate routes from the upstream routing service.
type Provider interface {
	// GetRoute fetches route candidates between two points for one mode.
	GetRoute(ctx context.Context, start, end Point, mode Mode) (*Response, error)
	// Name returns the provider identifier for logging.
	Name() string
}

// Response is the union of the two upstream response shapes. Exactly one of
// Plan (transit) or the route_* fields (turn-by-turn) is populated.
type Response struct {
	// Transit plan envelope.
	Plan *Plan `json:"plan,omitempty"`

	// Turn-by-turn shape.
	StatusMessage     string        `json:"status_message,omitempty"`
	Status            int           `json:"status,omitempty"`
	RouteGeometry     string        `json:"route_geometry,omitempty"`
	RouteInstructions []Instruction `json:"route_instructions,omitempty"`
	RouteName         []string      `json:"route_name,omitempty"`
	RouteSummary      *RouteSummary `json:"route_summary,omitempty"`
	ViaRoute          string        `json:"viaRoute,omitempty"`
	Subtitle          string        `json:"subtitle,omitempty"`
}

// Plan is the transit-plan envelope.
type Plan struct {
	Itineraries []PlanItinerary `json:"itineraries"`
}

// PlanItinerary is one transit itinerary record.
type PlanItinerary struct {
	Duration  float64   `json:"duration"`
	Transfers int       `json:"transfers"`
	Fare      string    `json:"fare"`
	Legs      []PlanLeg `json:"legs"`
}

// PlanLeg is one leg of a transit itinerary.
type PlanLeg struct {
	Mode        string      `json:"mode"`
	Distance    float64     `json:"distance"`
	Duration    float64     `json:"duration"`
	Route       string      `json:"route"`
	From        *Vertex     `json:"from"`
	To          *Vertex     `json:"to"`
	LegGeometry LegGeometry `json:"legGeometry"`
}

// Vertex is a named stop or place at either end of a leg.
type Vertex struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	StopCode string  `json:"stopCode"`
}

// LegGeometry carries the encoded polyline of one leg.
type LegGeometry struct {
	Points string `json:"points"`
	Length int    `json:"length"`
}

// RouteSummary holds the totals of a turn-by-turn route.
type RouteSummary struct {
	StartPoint    string  `json:"start_point"`
	EndPoint      string  `json:"end_point"`
	TotalTime     float64 `json:"total_time"`
	TotalDistance float64 `json:"total_distance"`
}

// Instruction is one turn-by-turn instruction row. The upstream encodes it
// as a heterogeneous JSON array:
//
//	[action, road, distance, "lat,lng", seconds, distanceText, dirStart, dirEnd, mode, text]
type Instruction struct {
	Action       string
	Road         string
	Distance     float64
	Coord        string // "lat,lng"
	Duration     float64
	DistanceText string
	Direction    string
}

// UnmarshalJSON decodes the positional array form. Missing or mistyped
// cells decode to zero values rather than failing the whole row.
func (i *Instruction) UnmarshalJSON(data []byte) error {
	var cells []json.RawMessage
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("route instruction is not an array: %w", err)
	}

	str := func(idx int) string {
		if idx >= len(cells) {
			return ""
		}
		var s string
		if err := json.Unmarshal(cells[idx], &s); err != nil {
			return ""
		}
		return s
	}
	num := func(idx int) float64 {
		if idx >= len(cells) {
			return 0
		}
		var f float64
		if err := json.Unmarshal(cells[idx], &f); err != nil {
			return 0
		}
		return f
	}

	i.Action = str(0)
	i.Road = str(1)
	i.Distance = num(2)
	i.Coord = str(3)
	i.Duration = num(4)
	i.DistanceText = str(5)
	i.Direction = str(6)
	return nil
}

// MarshalJSON re-encodes the positional array form.
func (i Instruction) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		i.Action, i.Road, i.Distance, i.Coord, i.Duration, i.DistanceText, i.Direction,
	})
}
