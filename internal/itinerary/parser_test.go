package itinerary

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/internal/routing"
)

func testParser() *Parser {
	return NewParser(zerolog.Nop())
}

func TestParse_NilResponse(t *testing.T) {
	_, err := testParser().Parse(nil, routing.ModeTransit)
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestParse_UnrecognizedShape(t *testing.T) {
	// A transit request without a plan envelope yields no itineraries, not
	// an error, so other modes keep flowing.
	its, err := testParser().Parse(&routing.Response{}, routing.ModeTransit)
	require.NoError(t, err)
	assert.Empty(t, its)
}

func TestParse_TransitPlan(t *testing.T) {
	resp := &routing.Response{
		Plan: &routing.Plan{
			Itineraries: []routing.PlanItinerary{
				{
					Duration:  1860,
					Transfers: 1,
					Fare:      "1.72",
					Legs: []routing.PlanLeg{
						{
							Mode: "WALK", Distance: 250, Duration: 200,
							From: &routing.Vertex{Name: "Origin", Lat: 1.30, Lon: 103.85},
							To:   &routing.Vertex{Name: "Bugis Stn", Lat: 1.3009, Lon: 103.856},
						},
						{
							Mode: "SUBWAY", Distance: 5200, Duration: 720, Route: "Downtown Line",
							From: &routing.Vertex{Name: "Bugis", StopCode: "DT14"},
							To:   &routing.Vertex{Name: "Expo", StopCode: "DT35"},
						},
						{
							Mode: "BUS", Distance: 1400, Duration: 480, Route: "24",
							From: &routing.Vertex{Name: "Expo Stn", StopCode: "96301"},
							To:   &routing.Vertex{Name: "Changi", StopCode: "96089"},
						},
					},
				},
			},
		},
	}

	its, err := testParser().Parse(resp, routing.ModeTransit)
	require.NoError(t, err)
	require.Len(t, its, 1)

	it := its[0]
	assert.Equal(t, ModePublic, it.Mode)
	require.Len(t, it.Legs, 3)

	// Provider totals override the leg sums.
	assert.Equal(t, 1860.0, it.TotalDuration)
	assert.Equal(t, 1, it.TotalTransfers)
	assert.InDelta(t, 1.72, it.TotalFare, 1e-9)

	// Leg sum is kept for distance.
	assert.Equal(t, 6850.0, it.TotalDistance)
	assert.Equal(t, 250.0, it.WalkingDistance)

	assert.Equal(t, "Walk → Downtown Line → Bus 24", it.Name)

	train := it.Legs[1]
	require.NotNil(t, train.FromStation)
	assert.Equal(t, "DT14", train.FromStation.Code)
	assert.Equal(t, 14, train.FromStation.StopNumber())

	bus := it.Legs[2]
	assert.Equal(t, "96301", bus.BusStopCode)
	assert.Equal(t, "24", bus.RouteName)
}

func TestParse_TransitPlan_DropsUnknownLegModes(t *testing.T) {
	resp := &routing.Response{
		Plan: &routing.Plan{
			Itineraries: []routing.PlanItinerary{
				{
					Legs: []routing.PlanLeg{
						{Mode: "FERRY", Distance: 900, Duration: 600},
						{Mode: "WALK", Distance: 100, Duration: 90},
					},
				},
			},
		},
	}

	its, err := testParser().Parse(resp, routing.ModeTransit)
	require.NoError(t, err)
	require.Len(t, its, 1)
	require.Len(t, its[0].Legs, 1)
	assert.Equal(t, LegWalk, its[0].Legs[0].Mode)
}

func TestParse_Driving(t *testing.T) {
	resp := &routing.Response{
		RouteGeometry: "_p~iF~ps|U_ulLnnqC",
		ViaRoute:      "PIE",
		RouteInstructions: []routing.Instruction{
			{Action: "Head", Road: "Orchard Rd", Distance: 500, Coord: "1.3040,103.8318", Duration: 60, DistanceText: "500m"},
			{Action: "Right", Road: "Scotts Rd", Distance: 1200, Coord: "1.3071,103.8312", Duration: 180, DistanceText: "1.2km"},
		},
		RouteSummary: &routing.RouteSummary{TotalTime: 240, TotalDistance: 1700},
	}

	its, err := testParser().Parse(resp, routing.ModeDrive)
	require.NoError(t, err)
	require.Len(t, its, 1)

	it := its[0]
	assert.Equal(t, ModeDriving, it.Mode)
	assert.Equal(t, "Driving Route PIE", it.Name)
	assert.Equal(t, 240.0, it.TotalDuration)
	assert.Equal(t, 1700.0, it.TotalDistance)
	require.Len(t, it.Legs, 2)
	assert.Equal(t, "Right on Scotts Rd (1.2km)", it.Legs[1].Description)

	// Parse-time carpark is a zero-lot placeholder until the planner
	// attaches a real one.
	require.NotNil(t, it.NearestCarpark)
	assert.Equal(t, "Unknown", it.NearestCarpark.Name)
	assert.Equal(t, 0, it.CarparkLots())
}

func TestParse_Driving_NoInstructions(t *testing.T) {
	its, err := testParser().Parse(&routing.Response{RouteGeometry: "abc"}, routing.ModeDrive)
	require.NoError(t, err)
	assert.Empty(t, its)
}

func TestParse_Walking(t *testing.T) {
	resp := &routing.Response{
		RouteGeometry: "_p~iF~ps|U_ulLnnqC",
		RouteInstructions: []routing.Instruction{
			{Action: "Head", Coord: "1.3000,103.8500", Distance: 400},
			{Action: "Arrive", Coord: "1.3100,103.8600", Distance: 0},
		},
		RouteSummary: &routing.RouteSummary{TotalTime: 1500, TotalDistance: 2100},
	}

	its, err := testParser().Parse(resp, routing.ModeWalk)
	require.NoError(t, err)
	require.Len(t, its, 1)

	it := its[0]
	assert.Equal(t, ModeWalking, it.Mode)
	assert.Equal(t, "walk", it.UserMode)
	require.Len(t, it.Legs, 1)

	leg := it.Legs[0]
	assert.Equal(t, "WALK for 2.10 km", leg.Description)
	require.NotNil(t, leg.FromPoint)
	assert.InDelta(t, 1.30, leg.FromPoint.Lat, 1e-9)
	require.NotNil(t, leg.ToPoint)
	assert.InDelta(t, 103.86, leg.ToPoint.Lng, 1e-9)
}

func TestParse_Cycling_UsesWalkingShape(t *testing.T) {
	resp := &routing.Response{
		RouteSummary: &routing.RouteSummary{TotalTime: 600, TotalDistance: 3000},
	}

	its, err := testParser().Parse(resp, routing.ModeCycle)
	require.NoError(t, err)
	require.Len(t, its, 1)
	assert.Equal(t, ModeWalking, its[0].Mode)
	assert.Equal(t, "cycle", its[0].UserMode)
}

func TestParseFare(t *testing.T) {
	assert.Equal(t, 0.0, parseFare(""))
	assert.Equal(t, 0.0, parseFare("free"))
	assert.InDelta(t, 2.05, parseFare("2.05"), 1e-9)
}
