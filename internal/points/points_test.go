package points

import (
	"math"
	"testing"

	"github.com/woozymasta/travelglobe/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var restaurants = []dataset.Restaurant{
	{Name: "Alpha", City: "Paris", Lat: 48.85, Lng: 2.35, Stars: 3},
	{Name: "Beta", City: "Tokyo", Lat: 35.68, Lng: 139.69, Stars: 1},
	{Name: "Gamma", Lat: 41.9, Lng: 12.49, Stars: 2},
	{Name: "Broken", Lat: 120, Lng: 0, Stars: 2},
	{Name: "Zero", Lat: -33.9, Lng: 18.4, Stars: 0},
}

func TestProjectRestaurants(t *testing.T) {
	pts := Project(restaurants, RestaurantRule{}, 100)
	require.Len(t, pts, 4)

	assert.Equal(t, ThreeStarColor, pts[0].Color)
	assert.Equal(t, 0.7, pts[0].Size)
	assert.Equal(t, "Alpha ★★★ · Paris", pts[0].Label)
	assert.Equal(t, OneStarColor, pts[1].Color)
	assert.Equal(t, TwoStarColor, pts[2].Color)
	assert.Equal(t, "Gamma ★★", pts[2].Label)
	assert.Equal(t, OneStarColor, pts[3].Color)
	assert.Equal(t, restaurants[4], pts[3].Payload)

	for _, p := range pts {
		assert.InDelta(t, 100, p.Position.Len(), 1e-9)
		assert.InDelta(t, 100*p.Size*math.Pi/180, p.Radius, 1e-12)
	}
}

func TestProjectIdempotent(t *testing.T) {
	a := Project(restaurants, RestaurantRule{}, 100)
	b := Project(restaurants, RestaurantRule{}, 100)
	assert.Equal(t, a, b)

	airports := []dataset.Airport{{Name: "Heathrow", Code: "LHR", Lat: 51.47, Lng: -0.45}}
	c := Project(airports, AirportRule{}, 100)
	d := Project(airports, AirportRule{}, 100)
	assert.Equal(t, c, d)
	assert.Equal(t, "LHR · Heathrow", c[0].Label)
	assert.Equal(t, AirportColor, c[0].Color)
}

func TestProjectEmpty(t *testing.T) {
	pts := Project[dataset.Airport](nil, AirportRule{}, 100)
	assert.Empty(t, pts)
	assert.NotNil(t, pts)
}
