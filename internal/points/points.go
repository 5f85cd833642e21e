// Package points projects geocoded records onto the globe surface as markers.
package points

import (
	"image/color"
	"math"

	"github.com/woozymasta/travelglobe/internal/dataset"
	"github.com/woozymasta/travelglobe/internal/geo"

	"github.com/go-gl/mathgl/mgl64"
)

// GlobePoint is one marker on the sphere surface.
// Size is the marker radius in degrees of arc.
type GlobePoint struct {
	Payload  any         `json:"payload"`
	Label    string      `json:"label"`
	Color    color.NRGBA `json:"color"`
	Position mgl64.Vec3  `json:"position"`
	Lat      float64     `json:"lat"`
	Lng      float64     `json:"lng"`
	Size     float64     `json:"size"`
	// Radius is the pick and draw radius in world units.
	Radius float64 `json:"radius"`
}

// Rule derives a marker from a record. Every method must be a pure function
// of the record.
type Rule[T any] interface {
	Locate(rec T) (lat, lng float64)
	Style(rec T) (size float64, c color.NRGBA)
	Label(rec T) string
}

// Project converts records to markers sitting on a sphere of globeRadius.
// Records with invalid coordinates are skipped. The output depends only on
// the inputs, so projecting the same list twice yields identical points.
func Project[T any](records []T, rule Rule[T], globeRadius float64) []GlobePoint {
	out := make([]GlobePoint, 0, len(records))

	for _, rec := range records {
		lat, lng := rule.Locate(rec)
		if !geo.ValidLatLng(lat, lng) {
			continue
		}

		size, c := rule.Style(rec)
		out = append(out, GlobePoint{
			Lat:      lat,
			Lng:      lng,
			Size:     size,
			Color:    c,
			Label:    rule.Label(rec),
			Payload:  rec,
			Position: geo.LatLngToVector(lat, lng, globeRadius),
			Radius:   globeRadius * size * math.Pi / 180,
		})
	}

	return out
}

// Marker palette.
var (
	AirportColor    = color.NRGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
	OneStarColor    = color.NRGBA{R: 0xfb, G: 0xbf, B: 0x24, A: 0xff}
	TwoStarColor    = color.NRGBA{R: 0xf9, G: 0x73, B: 0x16, A: 0xff}
	ThreeStarColor  = color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff}
	AirportSize     = 0.35
	restaurantSizes = [3]float64{0.4, 0.55, 0.7}
)

// AirportRule draws every airport with the same size and color.
type AirportRule struct{}

func (AirportRule) Locate(a dataset.Airport) (float64, float64) { return a.Lat, a.Lng }

func (AirportRule) Style(dataset.Airport) (float64, color.NRGBA) {
	return AirportSize, AirportColor
}

func (AirportRule) Label(a dataset.Airport) string {
	if a.Code == "" {
		return a.Name
	}
	return a.Code + " · " + a.Name
}

// RestaurantRule sizes and colors restaurants by star tier.
// Out-of-range star counts are clamped to 1..3.
type RestaurantRule struct{}

func (RestaurantRule) Locate(r dataset.Restaurant) (float64, float64) { return r.Lat, r.Lng }

func (RestaurantRule) Style(r dataset.Restaurant) (float64, color.NRGBA) {
	switch tier := min(max(r.Stars, 1), 3); tier {
	case 3:
		return restaurantSizes[2], ThreeStarColor
	case 2:
		return restaurantSizes[1], TwoStarColor
	default:
		return restaurantSizes[0], OneStarColor
	}
}

func (RestaurantRule) Label(r dataset.Restaurant) string {
	stars := min(max(r.Stars, 1), 3)
	label := r.Name + " " + "★★★"[:stars*len("★")]
	if r.City != "" {
		label += " · " + r.City
	}
	return label
}
