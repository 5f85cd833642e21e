// Package mesh builds sphere-surface country meshes and keeps the registry
// of meshes and point primitives that picking and coloring read from.
package mesh

import (
	"github.com/woozymasta/travelglobe/internal/geo"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// Geometry is a triangle mesh: positions plus a triangle index buffer.
type Geometry struct {
	Vertices []mgl64.Vec3
	Indices  []uint32

	// Bounding sphere used to reject rays before triangle tests.
	Center mgl64.Vec3
	Radius float64
}

// TriangleCount is len(Indices)/3.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Triangle returns the corners of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c mgl64.Vec3) {
	return g.Vertices[g.Indices[3*i]], g.Vertices[g.Indices[3*i+1]], g.Vertices[g.Indices[3*i+2]]
}

// BuildGeometry projects the outer ring of every polygon of f onto a sphere
// of the given radius and fan-triangulates it. It returns nil when the
// geometry is neither Polygon nor MultiPolygon or yields no triangles.
//
// Fan triangulation only fills convex rings correctly. Concave outlines,
// which most countries have, produce overlapping or spilling triangles.
// Holes are not cut.
func BuildGeometry(f geo.BoundaryFeature, radius float64) *Geometry {
	var polys []orb.Polygon
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{g}
	case orb.MultiPolygon:
		polys = g
	default:
		return nil
	}

	out := &Geometry{}
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}

		ring := openRing(poly[0])
		if len(ring) < 3 {
			continue
		}

		base := uint32(len(out.Vertices))
		for _, p := range ring {
			out.Vertices = append(out.Vertices, geo.LatLngToVector(p.Lat(), p.Lon(), radius))
		}
		out.Indices = append(out.Indices, FanIndices(len(ring), base)...)
	}

	if len(out.Indices) == 0 {
		return nil
	}

	out.Center, out.Radius = boundingSphere(out.Vertices)
	return out
}

// FanIndices triangulates an n-vertex ring as a fan from its first vertex:
// (0, i, i+1) for i in [1, n-2], offset by base.
func FanIndices(n int, base uint32) []uint32 {
	if n < 3 {
		return nil
	}

	idx := make([]uint32, 0, 3*(n-2))
	for i := 1; i <= n-2; i++ {
		idx = append(idx, base, base+uint32(i), base+uint32(i+1))
	}
	return idx
}

// openRing drops the closing vertex that repeats the first one.
func openRing(r orb.Ring) orb.Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

func boundingSphere(vs []mgl64.Vec3) (mgl64.Vec3, float64) {
	if len(vs) == 0 {
		return mgl64.Vec3{}, 0
	}

	var c mgl64.Vec3
	for _, v := range vs {
		c = c.Add(v)
	}
	c = c.Mul(1 / float64(len(vs)))

	var r float64
	for _, v := range vs {
		if d := v.Sub(c).Len(); d > r {
			r = d
		}
	}
	return c, r
}
