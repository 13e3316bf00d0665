package itinerary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/routing"
	"github.com/tripweave/tripweave/pkg/polyline"
)

// ErrEmptyResponse is returned when the provider response is absent
// entirely. A recognized-but-empty response parses to an empty list instead,
// so one mode's absence never blocks the other modes.
var ErrEmptyResponse = errors.New("empty routing provider response")

// Parser translates provider responses into itineraries.
type Parser struct {
	log zerolog.Logger
}

// NewParser creates a Parser.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// Parse dispatches on the request mode: transit responses go through the
// plan envelope, everything else through the turn-by-turn shape. An
// unrecognized response shape is logged and yields an empty list rather
// than an error.
func (p *Parser) Parse(resp *routing.Response, mode routing.Mode) ([]*Itinerary, error) {
	if resp == nil {
		return nil, ErrEmptyResponse
	}

	switch {
	case mode == routing.ModeTransit && resp.Plan != nil:
		return p.parseTransitPlan(resp.Plan), nil
	case mode == routing.ModeDrive || mode == routing.ModeWalk || mode == routing.ModeCycle:
		return p.parseTurnByTurn(resp, mode), nil
	default:
		p.log.Warn().
			Str("mode", string(mode)).
			Msg("unrecognized routing response shape, returning no itineraries")
		return nil, nil
	}
}

// parseTransitPlan builds one public itinerary per plan record.
//
// Legs are selected by mode tag: BUS, RAIL/SUBWAY/TRAIN and WALK are kept;
// any other tag (ferry, cable car) is silently dropped. This mirrors the
// upstream coverage and is intentional.
func (p *Parser) parseTransitPlan(plan *routing.Plan) []*Itinerary {
	itineraries := make([]*Itinerary, 0, len(plan.Itineraries))

	for _, record := range plan.Itineraries {
		legs := make([]Leg, 0, len(record.Legs))
		for _, raw := range record.Legs {
			switch strings.ToUpper(raw.Mode) {
			case "BUS":
				legs = append(legs, newBusLeg(raw))
			case "RAIL", "SUBWAY", "TRAIN":
				legs = append(legs, newTrainLeg(raw))
			case "WALK":
				legs = append(legs, newTransitWalkLeg(raw))
			}
		}

		it := NewPublic(legs)
		it.TotalDuration = record.Duration
		it.TotalTransfers = record.Transfers
		it.TotalFare = parseFare(record.Fare)
		it.Name = transitName(legs)
		itineraries = append(itineraries, it)
	}

	return itineraries
}

// parseTurnByTurn handles the drive/walk/cycle response shape.
func (p *Parser) parseTurnByTurn(resp *routing.Response, mode routing.Mode) []*Itinerary {
	if mode == routing.ModeDrive {
		if len(resp.RouteInstructions) == 0 {
			return nil
		}
		return []*Itinerary{buildDriving(resp)}
	}
	return []*Itinerary{buildWalking(resp, mode)}
}

// buildDriving turns each instruction row into a driving leg. No real
// carpark is known at parse time; a zero-lot placeholder is attached and
// the planner swaps in the real one.
func buildDriving(resp *routing.Response) *Itinerary {
	legs := make([]Leg, 0, len(resp.RouteInstructions))
	for _, instr := range resp.RouteInstructions {
		legs = append(legs, newDrivingLeg(instr))
	}

	placeholder := &Carpark{Name: "Unknown"}
	viaRoute := resp.ViaRoute
	if viaRoute == "" {
		viaRoute = "Via Unknown"
	}

	it := NewDriving(legs, resp.RouteGeometry, placeholder, viaRoute)
	if resp.RouteSummary != nil {
		it.TotalDuration = resp.RouteSummary.TotalTime
		it.TotalDistance = resp.RouteSummary.TotalDistance
	}
	it.TotalTransfers = 0
	return it
}

// buildWalking synthesizes a single leg spanning the whole route, using the
// first and last instruction rows' coordinates as endpoints.
func buildWalking(resp *routing.Response, mode routing.Mode) *Itinerary {
	var totalTime, totalDistance float64
	if resp.RouteSummary != nil {
		totalTime = resp.RouteSummary.TotalTime
		totalDistance = resp.RouteSummary.TotalDistance
	}

	var from, to *polyline.Coordinate
	if n := len(resp.RouteInstructions); n > 0 {
		from = parseCoord(resp.RouteInstructions[0].Coord)
		to = parseCoord(resp.RouteInstructions[n-1].Coord)
	}

	leg := newSimpleWalkLeg(totalDistance, totalTime, from, to)
	it := NewWalking([]Leg{leg}, resp.RouteGeometry, string(mode))
	it.TotalDuration = totalTime
	it.TotalDistance = totalDistance
	it.TotalTransfers = 0
	return it
}

// transitName joins the leg labels into an arrow-separated display name,
// skipping legs that contribute none.
func transitName(legs []Leg) string {
	labels := make([]string, 0, len(legs))
	for _, leg := range legs {
		if label := leg.Label(); label != "" {
			labels = append(labels, label)
		}
	}
	return strings.Join(labels, " → ")
}

func newBusLeg(raw routing.PlanLeg) Leg {
	leg := baseTransitLeg(LegBus, raw)
	leg.RouteName = raw.Route
	if leg.RouteName == "" {
		leg.RouteName = "Unknown Bus"
	}
	if raw.From != nil {
		leg.BusStopCode = raw.From.StopCode
	}
	leg.Description = fmt.Sprintf("Take %s from %s → %s",
		leg.RouteName, endpointName(leg.Start, "Unknown"), endpointName(leg.End, "Unknown"))
	return leg
}

func newTrainLeg(raw routing.PlanLeg) Leg {
	leg := baseTransitLeg(LegSubway, raw)
	leg.RouteName = raw.Route
	if leg.RouteName == "" {
		leg.RouteName = "Train Line"
	}

	from := &TrainStation{Name: endpointName(leg.Start, "Unknown")}
	to := &TrainStation{Name: endpointName(leg.End, "Unknown")}
	if raw.From != nil {
		from.Code = raw.From.StopCode
	}
	if raw.To != nil {
		to.Code = raw.To.StopCode
	}
	leg.FromStation = from
	leg.ToStation = to
	leg.Description = fmt.Sprintf("Take %s from %s → %s", leg.RouteName, from.Name, to.Name)
	return leg
}

func newTransitWalkLeg(raw routing.PlanLeg) Leg {
	leg := baseTransitLeg(LegWalk, raw)
	fromName := "Unknown Start"
	toName := "Unknown End"
	if raw.From != nil && raw.From.Name != "" {
		fromName = raw.From.Name
	}
	if raw.To != nil && raw.To.Name != "" {
		toName = raw.To.Name
	}
	leg.Description = fmt.Sprintf("Walk from %s → %s (%s)", fromName, toName, formatMeters(leg.Distance))
	return leg
}

func baseTransitLeg(mode LegMode, raw routing.PlanLeg) Leg {
	leg := Leg{
		Mode:     mode,
		Distance: raw.Distance,
		Duration: raw.Duration,
		Geometry: polyline.Decode(raw.LegGeometry.Points),
	}
	if raw.From != nil {
		leg.Start = &Endpoint{Name: raw.From.Name, Lat: raw.From.Lat, Lng: raw.From.Lon}
	}
	if raw.To != nil {
		leg.End = &Endpoint{Name: raw.To.Name, Lat: raw.To.Lat, Lng: raw.To.Lon}
	}
	return leg
}

func newDrivingLeg(instr routing.Instruction) Leg {
	road := instr.Road
	if road == "" {
		road = "Unnamed Road"
	}
	distanceText := instr.DistanceText
	if distanceText == "" {
		distanceText = fmt.Sprintf("%.0fm", instr.Distance)
	}

	return Leg{
		Mode:         LegDrive,
		Distance:     instr.Distance,
		Duration:     instr.Duration,
		Instruction:  instr.Action,
		RoadName:     road,
		DistanceText: distanceText,
		Direction:    instr.Direction,
		Description:  fmt.Sprintf("%s on %s (%s)", instr.Action, road, distanceText),
	}
}

func newSimpleWalkLeg(distance, duration float64, from, to *polyline.Coordinate) Leg {
	return Leg{
		Mode:        LegWalk,
		Distance:    distance,
		Duration:    duration,
		FromPoint:   from,
		ToPoint:     to,
		Description: fmt.Sprintf("WALK for %.2f km", distance/1000),
	}
}

// parseCoord parses a "lat,lng" cell. Malformed cells parse to the origin,
// matching the upstream's forgiving handling.
func parseCoord(s string) *polyline.Coordinate {
	parts := strings.Split(s, ",")
	coord := &polyline.Coordinate{}
	if len(parts) > 0 {
		coord.Lat, _ = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	}
	if len(parts) > 1 {
		coord.Lng, _ = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	}
	return coord
}

func parseFare(s string) float64 {
	if s == "" {
		return 0
	}
	fare, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return fare
}
