// Package geo computes great-circle distances and reduces issue lists to
// those near a reference coordinate.
package geo

import (
	"math"

	"github.com/civicworks/civic-cli/internal/model"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Distance returns the great-circle distance between a and b in kilometers
// using the haversine formula. The asin argument is clamped to [0, 1] so
// floating-point overshoot on antipodal points cannot produce NaN.
func Distance(a, b model.Coordinate) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
