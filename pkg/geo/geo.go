// Package geo provides great-circle and planar distance helpers used by
// carpark proximity search and traffic-incident geofencing.
package geo

import "math"

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two points in
// kilometers, using the haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	rLat1 := toRad(lat1)
	rLat2 := toRad(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(rLat1)*math.Cos(rLat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// PointToLineKm returns the perpendicular distance in kilometers from a point
// to the line through (aLat,aLng) and (bLat,bLng).
//
// The three points are projected onto a local equirectangular plane centered
// on their mean latitude, so the result is only accurate over city-scale
// distances. The distance is to the infinite line, not the clipped segment.
func PointToLineKm(pLat, pLng, aLat, aLng, bLat, bLng float64) float64 {
	refLat := (pLat + aLat + bLat) / 3
	x0, y0 := latLngToXY(pLat, pLng, refLat)
	x1, y1 := latLngToXY(aLat, aLng, refLat)
	x2, y2 := latLngToXY(bLat, bLng, refLat)

	// Line equation Ax + By + C = 0 through (x1,y1) and (x2,y2).
	a := y2 - y1
	b := x1 - x2
	c := -a*x1 - b*y1
	return math.Abs(a*x0+b*y0+c) / math.Sqrt(a*a+b*b)
}

// latLngToXY projects a lat/lng pair onto a plane tangent at refLat.
func latLngToXY(lat, lng, refLat float64) (float64, float64) {
	x := earthRadiusKm * toRad(lng) * math.Cos(toRad(refLat))
	y := earthRadiusKm * toRad(lat)
	return x, y
}

func toRad(degree float64) float64 {
	return degree * math.Pi / 180
}
