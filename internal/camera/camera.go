// Package camera holds the perspective camera orbiting the globe, the
// point-of-view animator and idle auto-rotation.
package camera

import (
	"math"

	"github.com/woozymasta/travelglobe/internal/geo"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera. Position and Target are in world space;
// the globe is centered on the origin.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FovY     float64 // degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// New returns a camera looking at the origin from pos.
func New(pos mgl64.Vec3, fovY, aspect float64) *Camera {
	c := &Camera{
		Position: pos,
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     fovY,
		Aspect:   aspect,
		Near:     0.1,
		Far:      10000,
	}
	c.LookAt(mgl64.Vec3{})
	return c
}

// LookAt aims the camera at target. Up stays +Y unless the view direction
// is parallel to it, as it is directly above a pole.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.Target = target
	dir := target.Sub(c.Position)
	up := mgl64.Vec3{0, 1, 0}
	if dir.Len() > 0 && dir.Normalize().Cross(up).Len() < 1e-6 {
		up = mgl64.Vec3{0, 0, -1}
	}
	c.Up = up
}

// View is the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection is the camera-to-clip matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// RayFromNDC casts a ray from the camera through a pointer position in
// normalized device coordinates (x right, y up, both in [-1, 1]).
func (c *Camera) RayFromNDC(x, y float64) Ray {
	inv := c.Projection().Mul4(c.View()).Inv()

	near := inv.Mul4x1(mgl64.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{x, y, 1, 1})
	n := near.Vec3().Mul(1 / near.W())
	f := far.Vec3().Mul(1 / far.W())

	return Ray{Origin: c.Position, Dir: f.Sub(n).Normalize()}
}

// Project maps a world point to normalized device coordinates.
// ok is false for points behind the camera.
func (c *Camera) Project(p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	if clip.W() <= 1e-9 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

// LatLngAltitude reports where the camera hovers: the lat/lng below it and
// its distance from the center in globe radii.
func (c *Camera) LatLngAltitude(globeRadius float64) (lat, lng, altitude float64) {
	lat, lng, r := geo.VectorToLatLng(c.Position)
	if globeRadius > 0 {
		altitude = r / globeRadius
	}
	return lat, lng, altitude
}

// Orbit rotates the camera around its target by azimuth and polar deltas in
// degrees, keeping the distance. The polar angle is clamped to
// [minPolar, 180-minPolar] so the camera never flips over a pole.
func (c *Camera) Orbit(dAzimuth, dPolar, minPolar float64) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}

	polar := math.Acos(clamp(offset.Y()/r, -1, 1))
	azimuth := math.Atan2(offset.Z(), offset.X())

	azimuth += mgl64.DegToRad(dAzimuth)
	lo := mgl64.DegToRad(minPolar)
	polar = clamp(polar+mgl64.DegToRad(dPolar), lo, math.Pi-lo)

	sinP := math.Sin(polar)
	c.Position = c.Target.Add(mgl64.Vec3{
		r * sinP * math.Cos(azimuth),
		r * math.Cos(polar),
		r * sinP * math.Sin(azimuth),
	})
	c.LookAt(c.Target)
}

// Zoom scales the distance to the target by factor, clamped to [minDist, maxDist].
func (c *Camera) Zoom(factor, minDist, maxDist float64) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 || factor <= 0 {
		return
	}

	nr := clamp(r*factor, minDist, maxDist)
	c.Position = c.Target.Add(offset.Mul(nr / r))
	c.LookAt(c.Target)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
