// Package picking resolves what lies under the pointer: the nearest country
// mesh and, independently, the nearest point marker.
package picking

import (
	"math"

	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/mesh"
	"github.com/woozymasta/travelglobe/internal/points"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the nearest intersection with one kind of pickable.
type Hit struct {
	Pick     mesh.Pickable
	Position mgl64.Vec3
	Distance float64
	ID       mesh.ID
}

// Result holds the independent country and point hits of one ray.
// A pointer can be over a country and a marker at the same time; callers
// decide precedence.
type Result struct {
	Country *Hit
	Point   *Hit
}

// CountryKey returns the hit country key or "".
func (r Result) CountryKey() string {
	if r.Country == nil {
		return ""
	}
	return r.Country.Pick.Country
}

// GlobePoint returns the hit marker or nil.
func (r Result) GlobePoint() *points.GlobePoint {
	if r.Point == nil {
		return nil
	}
	return r.Point.Pick.Point
}

// Engine tests rays against a registry snapshot.
type Engine struct {
	// Occlude drops hits on the far side of the globe, which is hidden by
	// the opaque base sphere.
	Occlude bool
}

// Pick returns the nearest country and nearest point along the ray.
func (e Engine) Pick(r camera.Ray, snap *mesh.Snapshot) Result {
	var res Result
	if snap == nil {
		return res
	}

	best := math.Inf(1)
	for i := range snap.Countries {
		m := &snap.Countries[i]
		g := m.Geometry
		if g == nil {
			continue
		}
		if !mayHit(r, g, best) {
			continue
		}

		for tri := 0; tri < g.TriangleCount(); tri++ {
			a, b, c := g.Triangle(tri)
			t, ok := IntersectTriangle(r, a, b, c)
			if !ok || t >= best {
				continue
			}
			p := r.At(t)
			if e.Occlude && !facesViewer(p, r.Origin) {
				continue
			}
			best = t
			res.Country = &Hit{Pick: m.Pick, Position: p, Distance: t, ID: m.ID}
		}
	}

	best = math.Inf(1)
	for i := range snap.Points {
		pp := &snap.Points[i]
		if pp.Point.Radius <= 0 {
			continue
		}
		t, ok := IntersectSphere(r, pp.Point.Position, pp.Point.Radius)
		if !ok || t >= best {
			continue
		}
		if e.Occlude && !facesViewer(pp.Point.Position, r.Origin) {
			continue
		}
		best = t
		res.Point = &Hit{Pick: pp.Pick, Position: r.At(t), Distance: t, ID: pp.ID}
	}

	return res
}

// Hover resolves the hovered country key ("" for none) and hovered point.
func (e Engine) Hover(r camera.Ray, snap *mesh.Snapshot) (string, *points.GlobePoint) {
	res := e.Pick(r, snap)
	return res.CountryKey(), res.GlobePoint()
}

// Click resolves the clicked country key and clicked point.
func (e Engine) Click(r camera.Ray, snap *mesh.Snapshot) (string, *points.GlobePoint) {
	return e.Hover(r, snap)
}

// mayHit rejects meshes whose bounding sphere the ray misses or enters
// beyond the current best distance.
func mayHit(r camera.Ray, g *mesh.Geometry, best float64) bool {
	if r.Origin.Sub(g.Center).Len() <= g.Radius {
		return true
	}
	t, ok := IntersectSphere(r, g.Center, g.Radius)
	return ok && t < best
}
