// Package polyline implements Google's encoded polyline format at the
// standard 1e-5 precision, which is also what OneMap route geometry uses.
// Format reference:
// https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"math"
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Decode expands an encoded polyline into coordinates.
//
// Decode never fails: the format carries no checksum, so truncated or
// corrupt input degrades silently to whatever partial result the character
// stream produces. Callers must not rely on error signaling for corruption.
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	d := decoder{src: encoded}
	var coords []Coordinate
	var lat, lng int

	for !d.done() {
		lat += d.next()
		lng += d.next()
		coords = append(coords, Coordinate{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return coords
}

type decoder struct {
	src string
	pos int
}

func (d *decoder) done() bool {
	return d.pos >= len(d.src)
}

// next reads one zigzag-encoded delta from the stream.
func (d *decoder) next() int {
	var result, shift int
	for d.pos < len(d.src) {
		chunk := int(d.src[d.pos]) - 63
		d.pos++
		result |= (chunk & 0x1f) << shift
		shift += 5
		if chunk < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1)
	}
	return result >> 1
}

// Encode renders coordinates as an encoded polyline.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(coords)*4)
	var prevLat, prevLng int

	for _, c := range coords {
		lat := int(math.Round(c.Lat * 1e5))
		lng := int(math.Round(c.Lng * 1e5))
		buf = appendDelta(buf, lat-prevLat)
		buf = appendDelta(buf, lng-prevLng)
		prevLat, prevLng = lat, lng
	}

	return string(buf)
}

// appendDelta zigzag-encodes one delta into 5-bit chunks.
func appendDelta(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}
	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}

const earthRadiusMeters = 6371000

// Length sums the haversine distances along the polyline, in meters.
func Length(coords []Coordinate) float64 {
	var total float64
	for i := 1; i < len(coords); i++ {
		total += haversineMeters(coords[i-1], coords[i])
	}
	return total
}

func haversineMeters(a, b Coordinate) float64 {
	const degToRad = math.Pi / 180

	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*sinLng*sinLng
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
