package polyline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_GoogleReferenceExample(t *testing.T) {
	// Canonical example from the polyline algorithm documentation.
	coords := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")

	require.Len(t, coords, 3)
	assert.InDelta(t, 38.5, coords[0].Lat, 1e-9)
	assert.InDelta(t, -120.2, coords[0].Lng, 1e-9)
	assert.InDelta(t, 40.7, coords[1].Lat, 1e-9)
	assert.InDelta(t, -120.95, coords[1].Lng, 1e-9)
	assert.InDelta(t, 43.252, coords[2].Lat, 1e-9)
	assert.InDelta(t, -126.453, coords[2].Lng, 1e-9)
}

func TestDecode_Empty(t *testing.T) {
	assert.Nil(t, Decode(""))
}

func TestDecode_TruncatedInputDegradesSilently(t *testing.T) {
	full := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	truncated := Decode("_p~iF~ps|U_ulLnnqC")

	// No error signaling on corruption: we just get fewer points.
	require.Len(t, truncated, 2)
	assert.Equal(t, full[:2], truncated)
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		coords []Coordinate
	}{
		{
			name: "reference example",
			coords: []Coordinate{
				{Lat: 38.5, Lng: -120.2},
				{Lat: 40.7, Lng: -120.95},
				{Lat: 43.252, Lng: -126.453},
			},
		},
		{
			name:   "single point",
			coords: []Coordinate{{Lat: 1.3521, Lng: 103.8198}},
		},
		{
			name: "crossing the equator and prime meridian",
			coords: []Coordinate{
				{Lat: 0.00001, Lng: -0.00001},
				{Lat: -0.00001, Lng: 0.00001},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := Decode(Encode(tt.coords))
			require.Len(t, decoded, len(tt.coords))
			for i := range tt.coords {
				assert.InDelta(t, tt.coords[i].Lat, decoded[i].Lat, 1e-9)
				assert.InDelta(t, tt.coords[i].Lng, decoded[i].Lng, 1e-9)
			}
		})
	}
}

func TestEncode_RoundsToFiveDecimals(t *testing.T) {
	coords := []Coordinate{{Lat: 1.2345649, Lng: 103.1234551}}
	decoded := Decode(Encode(coords))

	require.Len(t, decoded, 1)
	assert.InDelta(t, 1.23456, decoded[0].Lat, 1e-9)
	assert.InDelta(t, 103.12346, decoded[0].Lng, 1e-9)
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode(nil))
}

func TestLength(t *testing.T) {
	// Roughly one degree of latitude near the equator is ~111km.
	coords := []Coordinate{
		{Lat: 0, Lng: 103.8},
		{Lat: 1, Lng: 103.8},
	}

	length := Length(coords)
	assert.InDelta(t, 111195, length, 500)

	assert.Zero(t, Length(coords[:1]))
	assert.Zero(t, Length(nil))
}

func TestLength_Additive(t *testing.T) {
	a := Coordinate{Lat: 1.30, Lng: 103.80}
	b := Coordinate{Lat: 1.31, Lng: 103.81}
	c := Coordinate{Lat: 1.32, Lng: 103.82}

	total := Length([]Coordinate{a, b, c})
	parts := Length([]Coordinate{a, b}) + Length([]Coordinate{b, c})
	assert.True(t, math.Abs(total-parts) < 1e-9)
}
