// Package itinerary provides the uniform trip model shared by the parser,
// the enrichment pipeline, the scoring engine and the HTTP layer.
//
// Legs and itineraries are closed tagged unions: a single struct carries a
// mode discriminant plus the fields relevant to that mode, and every
// consumer switches on the tag. There is no type registry; the tag is the
// sole dispatch key.
package itinerary

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tripweave/tripweave/pkg/polyline"
)

// LegMode identifies the transport mode of a single leg.
type LegMode string

// Leg modes.
const (
	LegWalk   LegMode = "WALK"
	LegBus    LegMode = "BUS"
	LegSubway LegMode = "SUBWAY"
	LegDrive  LegMode = "DRIVE"
)

// Endpoint is a named point at either end of a leg.
type Endpoint struct {
	Name string
	Lat  float64
	Lng  float64
}

// TrainStation identifies a rail station by display name and stop code
// (e.g. "NS1", "EW24").
type TrainStation struct {
	Name string
	Code string
}

var stopNumberRe = regexp.MustCompile(`\d+`)

// StopNumber returns the numeric ordinal embedded in the station code, or 0
// if the code carries no digits. Stop ordinals order stations along a line.
func (s TrainStation) StopNumber() int {
	m := stopNumberRe.FindString(s.Code)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// LinePrefix returns the leading letters of the station code (e.g. "NS").
func (s TrainStation) LinePrefix() string {
	for i := 0; i < len(s.Code); i++ {
		if s.Code[i] < 'A' || s.Code[i] > 'Z' {
			return s.Code[:i]
		}
	}
	return s.Code
}

// Carpark is a parking facility candidate attached to a driving itinerary.
type Carpark struct {
	ID            string
	Name          string
	Lat           float64
	Lng           float64
	AvailableLots int
}

// Incident is a traffic incident geofenced onto a driving route.
// Field names follow the upstream incident feed contract.
type Incident struct {
	Type      string  `json:"Type"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
	Message   string  `json:"Message"`
}

// Key returns the deduplication key for an incident.
func (i Incident) Key() string {
	return i.Type + "-" + i.Message
}

// Leg is one atomic travel segment. Mode determines which of the variant
// fields are populated; the base fields are always valid. Legs are built
// once by the parser and read-only thereafter.
type Leg struct {
	Mode        LegMode
	Distance    float64 // meters
	Duration    float64 // seconds
	Start       *Endpoint
	End         *Endpoint
	Geometry    []polyline.Coordinate
	Description string

	// Bus and train legs.
	RouteName string

	// Bus legs: boarding stop code for arrival lookups.
	BusStopCode string

	// Train legs.
	FromStation *TrainStation
	ToStation   *TrainStation

	// Driving legs: one turn-by-turn instruction.
	Instruction  string
	RoadName     string
	DistanceText string
	Direction    string

	// Simple walking legs: raw endpoints with no named stop.
	FromPoint *polyline.Coordinate
	ToPoint   *polyline.Coordinate
}

// Label returns the leg's contribution to an itinerary display name:
// "Bus 36" for a bus leg, the line name for a train leg, "Walk" for a
// walking leg and "" for anything else.
func (l Leg) Label() string {
	switch l.Mode {
	case LegBus:
		if l.RouteName != "" {
			return "Bus " + l.RouteName
		}
	case LegSubway:
		if l.RouteName != "" {
			return l.RouteName
		}
	case LegWalk:
		return "Walk"
	}
	return string(l.Mode)
}

// IsWalking reports whether the leg counts toward an itinerary's walking
// distance aggregate.
func (l Leg) IsWalking() bool {
	return l.Mode == LegWalk
}

func endpointName(e *Endpoint, fallback string) string {
	if e == nil || e.Name == "" {
		return fallback
	}
	return e.Name
}

func formatMeters(distance float64) string {
	return fmt.Sprintf("%.0f m", distance)
}
