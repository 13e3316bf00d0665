package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name: "zero distance",
			lat1: 1.3521, lng1: 103.8198,
			lat2: 1.3521, lng2: 103.8198,
			wantKm: 0, tolerance: 1e-9,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lng1: 103.8,
			lat2: 1, lng2: 103.8,
			wantKm: 111.2, tolerance: 0.5,
		},
		{
			name: "across town",
			lat1: 1.3521, lng1: 103.8198, // city center
			lat2: 1.3644, lng2: 103.9915, // airport
			wantKm: 19.1, tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	d1 := DistanceKm(1.30, 103.80, 1.35, 103.95)
	d2 := DistanceKm(1.35, 103.95, 1.30, 103.80)
	assert.InDelta(t, d1, d2, 1e-12)
}

func TestPointToLineKm(t *testing.T) {
	// Line running due east along lat 1.30; point 0.01 degrees north of it.
	// 0.01 degrees of latitude is ~1.11km.
	d := PointToLineKm(1.31, 103.85, 1.30, 103.80, 1.30, 103.90)
	assert.InDelta(t, 1.11, d, 0.02)
}

func TestPointToLineKm_PointOnLine(t *testing.T) {
	d := PointToLineKm(1.30, 103.85, 1.30, 103.80, 1.30, 103.90)
	assert.InDelta(t, 0, d, 1e-9)
}
