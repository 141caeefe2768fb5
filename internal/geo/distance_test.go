package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicworks/civic-cli/internal/model"
)

func TestDistanceSymmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]model.Coordinate{
		{{Lat: 40.7589, Lng: -73.9851}, {Lat: 40.70, Lng: -74.00}},
		{{Lat: 51.5074, Lng: -0.1278}, {Lat: 48.8566, Lng: 2.3522}},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 35.6762, Lng: 139.6503}},
		{{Lat: 90, Lng: 0}, {Lat: -90, Lng: 0}},
		{{Lat: 0, Lng: 179.9}, {Lat: 0, Lng: -179.9}},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		assert.InEpsilon(t, ab, ba, 1e-9)
		assert.False(t, math.IsNaN(ab))
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestDistanceIdentity(t *testing.T) {
	t.Parallel()

	coords := []model.Coordinate{
		{},
		{Lat: 40.7589, Lng: -73.9851},
		{Lat: -90, Lng: 180},
		{Lat: 89.9999, Lng: -179.9999},
	}
	for _, c := range coords {
		assert.InDelta(t, 0, Distance(c, c), 1e-9)
	}
}

func TestDistanceKnownValues(t *testing.T) {
	t.Parallel()

	// London to Paris is about 344 km.
	london := model.Coordinate{Lat: 51.5074, Lng: -0.1278}
	paris := model.Coordinate{Lat: 48.8566, Lng: 2.3522}
	assert.InDelta(t, 344, Distance(london, paris), 2)

	// Pole to pole is half the Earth's circumference.
	north := model.Coordinate{Lat: 90}
	south := model.Coordinate{Lat: -90}
	assert.InDelta(t, math.Pi*earthRadiusKm, Distance(north, south), 1e-6)
}

func TestDistanceAntipodalNoNaN(t *testing.T) {
	t.Parallel()

	// Antipodal points push the haversine term right to the asin domain
	// edge; the clamp must keep the result finite.
	a := model.Coordinate{Lat: 0, Lng: 0}
	b := model.Coordinate{Lat: 0, Lng: 180}
	d := Distance(a, b)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*earthRadiusKm, d, 1e-6)
}
