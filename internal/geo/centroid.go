package geo

import (
	"errors"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// ErrNoCentroid is returned when a feature has no area to average over.
var ErrNoCentroid = errors.New("feature has no usable centroid")

// Centroid returns the area-weighted spherical centroid of the outer rings
// of a feature. Working on the sphere keeps antimeridian-crossing countries
// (Fiji, Russia) centered correctly.
func Centroid(f BoundaryFeature) (lat, lng float64, err error) {
	var sum s2.Point

	for _, poly := range f.Polygons() {
		if len(poly) == 0 {
			continue
		}

		loop := ringLoop(poly[0])
		if loop == nil {
			continue
		}
		// Centroid is scaled by loop area, so summing weights by area.
		c := loop.Centroid()
		sum = s2.Point{Vector: sum.Add(c.Vector)}
	}

	if sum.Norm() < 1e-15 {
		return 0, 0, ErrNoCentroid
	}

	ll := s2.LatLngFromPoint(sum)
	return ll.Lat.Degrees(), ll.Lng.Degrees(), nil
}

// ringLoop converts a closed ring into a normalized s2 loop.
// Rings with fewer than three distinct vertices return nil.
func ringLoop(r orb.Ring) *s2.Loop {
	pts := make([]s2.Point, 0, len(r))
	for i, p := range r {
		if i == len(r)-1 && len(r) > 1 && p == r[0] {
			break
		}
		if i > 0 && p == r[i-1] {
			continue
		}
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat(), p.Lon())))
	}
	if len(pts) < 3 {
		return nil
	}

	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop
}
