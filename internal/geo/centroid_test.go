package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(lng0, lat0, size float64) orb.Ring {
	return orb.Ring{
		{lng0, lat0}, {lng0 + size, lat0}, {lng0 + size, lat0 + size}, {lng0, lat0 + size}, {lng0, lat0},
	}
}

func TestCentroidSquare(t *testing.T) {
	f := BoundaryFeature{Name: "Box", Geometry: orb.Polygon{square(10, 20, 2)}}

	lat, lng, err := Centroid(f)
	require.NoError(t, err)
	assert.InDelta(t, 21, lat, 0.01)
	assert.InDelta(t, 11, lng, 0.01)
}

func TestCentroidClockwiseRing(t *testing.T) {
	r := square(10, 20, 2)
	r.Reverse()
	f := BoundaryFeature{Name: "Box", Geometry: orb.Polygon{r}}

	lat, lng, err := Centroid(f)
	require.NoError(t, err)
	assert.InDelta(t, 21, lat, 0.01)
	assert.InDelta(t, 11, lng, 0.01)
}

func TestCentroidAntimeridian(t *testing.T) {
	f := BoundaryFeature{Name: "Fiji", Geometry: orb.MultiPolygon{
		{square(178, -18, 1)},
		{square(-180, -18, 1)},
	}}

	lat, lng, err := Centroid(f)
	require.NoError(t, err)
	assert.InDelta(t, -17.5, lat, 0.05)
	assert.InDelta(t, 180, abs(lng), 0.6)
}

func TestCentroidDegenerate(t *testing.T) {
	f := BoundaryFeature{Name: "Line", Geometry: orb.Polygon{{{0, 0}, {1, 1}, {0, 0}}}}
	_, _, err := Centroid(f)
	assert.ErrorIs(t, err, ErrNoCentroid)

	f = BoundaryFeature{Name: "Point", Geometry: orb.Point{1, 2}}
	_, _, err = Centroid(f)
	assert.ErrorIs(t, err, ErrNoCentroid)
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection([]BoundaryFeature{
		{Name: "A", IsoA2: "AA", Geometry: orb.Polygon{square(0, 0, 1)}},
		{Name: "Empty"},
	})

	require.Len(t, fc.Features, 1)
	assert.Equal(t, "A", fc.Features[0].Properties["name"])
	assert.Equal(t, "AA", fc.Features[0].Properties["iso_a2"])
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
