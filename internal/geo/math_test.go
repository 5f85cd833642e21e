package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatLngToVectorNorm(t *testing.T) {
	radii := []float64{100, 100 * 1.001}

	for _, r := range radii {
		for lat := -90.0; lat <= 90.0; lat += 7.5 {
			for lng := -180.0; lng <= 180.0; lng += 12.5 {
				v := LatLngToVector(lat, lng, r)
				assert.InDelta(t, r, v.Len(), 1e-9, "lat=%v lng=%v", lat, lng)
			}
		}
	}
}

func TestLatLngToVectorAxes(t *testing.T) {
	north := LatLngToVector(90, 0, 1)
	assert.InDelta(t, 1, north.Y(), 1e-12)

	// lng -180 sits on +X, lng -90 on +Z.
	v := LatLngToVector(0, -180, 1)
	assert.InDelta(t, 1, v.X(), 1e-12)
	v = LatLngToVector(0, -90, 1)
	assert.InDelta(t, 1, v.Z(), 1e-12)
}

func TestVectorToLatLngRoundTrip(t *testing.T) {
	cases := [][2]float64{
		{0, 0}, {48.85, 2.35}, {-33.86, 151.2}, {64.1, -21.9}, {-89, 179}, {12, -179.5},
	}

	for _, c := range cases {
		lat, lng, r := VectorToLatLng(LatLngToVector(c[0], c[1], 42))
		assert.InDelta(t, c[0], lat, 1e-9)
		assert.InDelta(t, c[1], lng, 1e-9)
		assert.InDelta(t, 42, r, 1e-9)
	}
}

func TestValidLatLng(t *testing.T) {
	assert.True(t, ValidLatLng(0, 0))
	assert.True(t, ValidLatLng(-90, 180))
	assert.False(t, ValidLatLng(91, 0))
	assert.False(t, ValidLatLng(0, -181))
	assert.False(t, ValidLatLng(math.NaN(), 0))
	assert.False(t, ValidLatLng(0, math.Inf(1)))
}
