package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

// GeohashPrecision is the stored cell size for property locations (~150m).
const GeohashPrecision uint = 7

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// EncodeGeohash returns the geohash of p at the given precision.
func EncodeGeohash(p GeoPoint, precision uint) string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, precision)
}

// NearbyCells returns the cell containing p plus its eight neighbours at the
// given precision. Prefix-matching stored hashes against these finds points
// within roughly one cell width.
func NearbyCells(p GeoPoint, precision uint) []string {
	center := EncodeGeohash(p, precision)
	return append([]string{center}, geohash.Neighbors(center)...)
}

// PrecisionForRadius picks the longest geohash prefix whose cell is at least
// radiusKm wide.
func PrecisionForRadius(radiusKm float64) uint {
	// approximate cell widths in km for precisions 1..7
	widths := []float64{5000, 1250, 156, 39, 4.9, 1.2, 0.15}
	for i := len(widths) - 1; i >= 0; i-- {
		if widths[i] >= radiusKm {
			return uint(i + 1)
		}
	}
	return 1
}

// DistanceKm is the haversine distance between two points.
func DistanceKm(a, b GeoPoint) float64 {
	const earthRadius = 6371.0
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
