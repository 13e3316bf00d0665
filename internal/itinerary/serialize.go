package itinerary

import (
	"fmt"

	"github.com/tripweave/tripweave/pkg/polyline"
)

// ModeMismatchError is returned when a record's mode discriminant does not
// match the variant the caller asked to decode. It indicates a broken
// caller contract, never a transient condition.
type ModeMismatchError struct {
	Want Mode
	Got  Mode
}

func (e *ModeMismatchError) Error() string {
	return fmt.Sprintf("itinerary record mode %q, want %q", e.Got, e.Want)
}

// Record is the transport-safe representation of an itinerary: a mode
// discriminant plus a flat data payload. Every field the scoring engine and
// ranking controller read survives a round trip; the summary is regenerable
// from the round-tripped fields.
type Record struct {
	Mode Mode       `json:"mode"`
	Data RecordData `json:"data"`
}

// RecordData is the flat payload. Mode-specific fields are only populated
// for the matching variant.
type RecordData struct {
	TotalDuration   float64   `json:"totalDuration"`
	TotalDistance   float64   `json:"totalDistance"`
	WalkingDistance float64   `json:"walkingDistance"`
	Score           float64   `json:"score"`
	Summary         string    `json:"summary"`
	Name            string    `json:"name"`
	Legs            []LegData `json:"legs"`
	Weather         string    `json:"weather,omitempty"`

	// Public transit fields.
	TotalTransfers  int     `json:"totalTransfers,omitempty"`
	TotalFare       float64 `json:"totalFare,omitempty"`
	BusWaitTime     float64 `json:"busWaitTime,omitempty"`
	PlatformDensity float64 `json:"platformDensity,omitempty"`

	// Driving and walking fields.
	PolylineCoords [][2]float64 `json:"polyLineCoords,omitempty"`

	// Driving fields.
	ViaRoute       string       `json:"viaRoute,omitempty"`
	NearestCarpark *CarparkData `json:"nearestCarpark,omitempty"`
	Incidents      []Incident   `json:"incidents,omitempty"`
}

// LegData is the flat representation of one leg.
type LegData struct {
	Mode        LegMode   `json:"mode"`
	Duration    float64   `json:"duration"`
	Distance    float64   `json:"distance"`
	Description string    `json:"description"`
	Geometry    []LatLng  `json:"geometry"`
}

// LatLng is a geometry point in wire form.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CarparkData is the wire form of a carpark reference.
type CarparkData struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	AvailableLots int     `json:"availableLots"`
}

// Serialize converts an itinerary to its tagged wire record.
func Serialize(it *Itinerary) Record {
	data := RecordData{
		TotalDuration:   it.TotalDuration,
		TotalDistance:   it.TotalDistance,
		WalkingDistance: it.WalkingDistance,
		Score:           it.Score,
		Summary:         it.Summary(),
		Name:            it.Name,
		Legs:            serializeLegs(it.Legs),
	}

	switch it.Mode {
	case ModePublic:
		data.TotalTransfers = it.TotalTransfers
		data.TotalFare = it.TotalFare
		data.BusWaitTime = it.BusWaitTime
		data.PlatformDensity = it.PlatformDensity
	case ModeDriving:
		data.PolylineCoords = serializeCoords(it.Polyline)
		data.ViaRoute = viaRouteOrUnknown(it.ViaRoute)
		data.NearestCarpark = serializeCarpark(it.NearestCarpark)
		data.Incidents = it.Incidents
		data.Weather = it.Weather
	case ModeWalking:
		data.PolylineCoords = serializeCoords(it.Polyline)
		data.Weather = it.Weather
	}

	return Record{Mode: it.Mode, Data: data}
}

// Deserialize decodes a record by its own mode discriminant.
func Deserialize(rec Record) (*Itinerary, error) {
	switch rec.Mode {
	case ModeDriving:
		return DeserializeDriving(rec)
	case ModePublic:
		return DeserializePublic(rec)
	case ModeWalking:
		return DeserializeWalking(rec)
	default:
		return nil, fmt.Errorf("unknown itinerary mode %q", rec.Mode)
	}
}

// DeserializePublic decodes a public-transit record. A record tagged with
// any other mode fails with ModeMismatchError.
func DeserializePublic(rec Record) (*Itinerary, error) {
	if rec.Mode != ModePublic {
		return nil, &ModeMismatchError{Want: ModePublic, Got: rec.Mode}
	}

	it := NewPublic(nil)
	applyBase(it, rec.Data)
	it.TotalTransfers = rec.Data.TotalTransfers
	it.TotalFare = rec.Data.TotalFare
	it.BusWaitTime = rec.Data.BusWaitTime
	it.PlatformDensity = rec.Data.PlatformDensity
	return it, nil
}

// DeserializeDriving decodes a driving record. A record tagged with any
// other mode fails with ModeMismatchError.
func DeserializeDriving(rec Record) (*Itinerary, error) {
	if rec.Mode != ModeDriving {
		return nil, &ModeMismatchError{Want: ModeDriving, Got: rec.Mode}
	}

	it := NewDriving(nil, "", deserializeCarpark(rec.Data.NearestCarpark), rec.Data.ViaRoute)
	applyBase(it, rec.Data)
	it.Polyline = deserializeCoords(rec.Data.PolylineCoords)
	it.Incidents = rec.Data.Incidents
	it.Weather = rec.Data.Weather
	return it, nil
}

// DeserializeWalking decodes a walking record. A record tagged with any
// other mode fails with ModeMismatchError.
func DeserializeWalking(rec Record) (*Itinerary, error) {
	if rec.Mode != ModeWalking {
		return nil, &ModeMismatchError{Want: ModeWalking, Got: rec.Mode}
	}

	it := NewWalking(nil, "", "walk")
	applyBase(it, rec.Data)
	it.Polyline = deserializeCoords(rec.Data.PolylineCoords)
	it.Weather = rec.Data.Weather
	return it, nil
}

func applyBase(it *Itinerary, data RecordData) {
	it.TotalDuration = data.TotalDuration
	it.TotalDistance = data.TotalDistance
	it.WalkingDistance = data.WalkingDistance
	it.Score = data.Score
	it.Name = data.Name
	it.Legs = deserializeLegs(data.Legs)
}

func serializeLegs(legs []Leg) []LegData {
	out := make([]LegData, 0, len(legs))
	for _, leg := range legs {
		geometry := make([]LatLng, 0, len(leg.Geometry))
		for _, p := range leg.Geometry {
			geometry = append(geometry, LatLng{Lat: p.Lat, Lng: p.Lng})
		}
		out = append(out, LegData{
			Mode:        leg.Mode,
			Duration:    leg.Duration,
			Distance:    leg.Distance,
			Description: leg.Description,
			Geometry:    geometry,
		})
	}
	return out
}

func deserializeLegs(data []LegData) []Leg {
	out := make([]Leg, 0, len(data))
	for _, d := range data {
		geometry := make([]polyline.Coordinate, 0, len(d.Geometry))
		for _, p := range d.Geometry {
			geometry = append(geometry, polyline.Coordinate{Lat: p.Lat, Lng: p.Lng})
		}
		out = append(out, Leg{
			Mode:        d.Mode,
			Duration:    d.Duration,
			Distance:    d.Distance,
			Description: d.Description,
			Geometry:    geometry,
		})
	}
	return out
}

func serializeCoords(coords []polyline.Coordinate) [][2]float64 {
	out := make([][2]float64, 0, len(coords))
	for _, c := range coords {
		out = append(out, [2]float64{c.Lat, c.Lng})
	}
	return out
}

func deserializeCoords(pairs [][2]float64) []polyline.Coordinate {
	out := make([]polyline.Coordinate, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, polyline.Coordinate{Lat: p[0], Lng: p[1]})
	}
	return out
}

func serializeCarpark(c *Carpark) *CarparkData {
	if c == nil {
		return &CarparkData{ID: "0", Name: "Unknown"}
	}
	return &CarparkData{ID: c.ID, Name: c.Name, Lat: c.Lat, Lng: c.Lng, AvailableLots: c.AvailableLots}
}

func deserializeCarpark(d *CarparkData) *Carpark {
	if d == nil {
		return &Carpark{Name: "Unknown"}
	}
	return &Carpark{ID: d.ID, Name: d.Name, Lat: d.Lat, Lng: d.Lng, AvailableLots: d.AvailableLots}
}

func viaRouteOrUnknown(viaRoute string) string {
	if viaRoute == "" {
		return "Unknown"
	}
	return viaRoute
}
