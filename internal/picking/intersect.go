package picking

import (
	"math"

	"github.com/woozymasta/travelglobe/internal/camera"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-12

// IntersectTriangle returns the ray distance to triangle abc using the
// Möller–Trumbore algorithm. Both windings count as hits.
func IntersectTriangle(r camera.Ray, a, b, c mgl64.Vec3) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectSphere returns the distance to the nearest intersection at or
// after the ray origin. A ray starting inside the sphere hits its far side.
func IntersectSphere(r camera.Ray, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// facesViewer reports whether p lies on the hemisphere of the globe that
// can be seen from eye. The globe is centered on the origin.
func facesViewer(p, eye mgl64.Vec3) bool {
	return p.Dot(eye) > p.Dot(p)
}
