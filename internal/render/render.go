// Package render draws the globe scene headlessly through the live camera.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/mesh"

	"github.com/go-gl/mathgl/mgl64"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Options size and color a snapshot.
type Options struct {
	Background color.NRGBA
	Ocean      color.NRGBA
	Width      int
	Height     int
	// Supersample draws at this multiple of the size and scales down.
	Supersample int
}

const (
	silhouetteSegments = 128
	pointSegments      = 16
)

// Renderer rasterizes scenes. It reuses its buffers between frames and is
// not safe for concurrent use.
type Renderer struct {
	ras  *vector.Rasterizer
	work *image.RGBA
	opts Options
}

// New returns a renderer for the given options.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	return &Renderer{opts: opts, ras: &vector.Rasterizer{}}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Draw renders the snapshot as seen by cam around a base sphere of
// globeRadius. Only the hemisphere facing the camera is drawn.
func (r *Renderer) Draw(cam *camera.Camera, snap *mesh.Snapshot, globeRadius float64) *image.RGBA {
	ss := r.opts.Supersample
	w, h := r.opts.Width*ss, r.opts.Height*ss

	if r.work == nil || r.work.Bounds().Dx() != w || r.work.Bounds().Dy() != h {
		r.work = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	draw.Draw(r.work, r.work.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	v := view{cam: cam, vp: cam.Projection().Mul4(cam.View()), w: float64(w), h: float64(h)}

	r.silhouette(v, globeRadius)
	if snap != nil {
		for i := range snap.Countries {
			r.country(v, &snap.Countries[i])
		}
		for i := range snap.Points {
			r.point(v, &snap.Points[i])
		}
	}

	if ss == 1 {
		out := image.NewRGBA(r.work.Bounds())
		copy(out.Pix, r.work.Pix)
		return out
	}

	out := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), r.work, r.work.Bounds(), draw.Src, nil)
	return out
}

// silhouette fills the outline of the base sphere with the ocean color.
func (r *Renderer) silhouette(v view, radius float64) {
	eye := v.cam.Position
	d := eye.Len()
	if d <= radius {
		return
	}

	// tangent circle of the cone from the eye around the sphere
	axis := eye.Normalize()
	center := axis.Mul(radius * radius / d)
	rad := radius * math.Sqrt(1-radius*radius/(d*d))
	u, w := basis(axis)

	ring := make([]mgl64.Vec3, silhouetteSegments)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / silhouetteSegments
		ring[i] = center.Add(u.Mul(rad * math.Cos(a))).Add(w.Mul(rad * math.Sin(a)))
	}
	r.fillPolygon(v, ring, r.opts.Ocean)
}

func (r *Renderer) country(v view, m *mesh.CountryMesh) {
	g := m.Geometry
	if g == nil {
		return
	}

	r.ras.Reset(int(v.w), int(v.h))
	drawn := false
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		if !facing(a, v.cam.Position) || !facing(b, v.cam.Position) || !facing(c, v.cam.Position) {
			continue
		}

		pa, okA := v.screen(a)
		pb, okB := v.screen(b)
		pc, okC := v.screen(c)
		if !okA || !okB || !okC {
			continue
		}

		// one orientation for all triangles so overlaps add up instead of cancelling
		if cross2(pa, pb, pc) < 0 {
			pb, pc = pc, pb
		}
		r.ras.MoveTo(pa[0], pa[1])
		r.ras.LineTo(pb[0], pb[1])
		r.ras.LineTo(pc[0], pc[1])
		r.ras.ClosePath()
		drawn = true
	}

	if drawn {
		r.ras.Draw(r.work, r.work.Bounds(), image.NewUniform(m.Material.Fill()), image.Point{})
	}
}

func (r *Renderer) point(v view, p *mesh.PointPrimitive) {
	pos := p.Point.Position
	if !facing(pos, v.cam.Position) || p.Point.Radius <= 0 {
		return
	}

	u, w := basis(pos.Normalize())
	ring := make([]mgl64.Vec3, pointSegments)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / pointSegments
		ring[i] = pos.Add(u.Mul(p.Point.Radius * math.Cos(a))).Add(w.Mul(p.Point.Radius * math.Sin(a)))
	}
	r.fillPolygon(v, ring, p.Material.Fill())
}

func (r *Renderer) fillPolygon(v view, ring []mgl64.Vec3, c color.NRGBA) {
	r.ras.Reset(int(v.w), int(v.h))
	for i, p := range ring {
		s, ok := v.screen(p)
		if !ok {
			return
		}
		if i == 0 {
			r.ras.MoveTo(s[0], s[1])
		} else {
			r.ras.LineTo(s[0], s[1])
		}
	}
	r.ras.ClosePath()
	r.ras.Draw(r.work, r.work.Bounds(), image.NewUniform(c), image.Point{})
}

type view struct {
	cam  *camera.Camera
	vp   mgl64.Mat4
	w, h float64
}

// screen maps a world point to pixel coordinates.
func (v view) screen(p mgl64.Vec3) ([2]float32, bool) {
	clip := v.vp.Mul4x1(p.Vec4(1))
	if clip.W() <= 1e-9 {
		return [2]float32{}, false
	}
	x := clip.X() / clip.W()
	y := clip.Y() / clip.W()
	return [2]float32{
		float32((x + 1) / 2 * v.w),
		float32((1 - y) / 2 * v.h),
	}, true
}

// facing reports whether p is on the hemisphere seen from eye.
func facing(p, eye mgl64.Vec3) bool {
	return p.Dot(eye) > p.Dot(p)
}

// basis returns two unit vectors perpendicular to n and each other.
func basis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u := n.Cross(ref).Normalize()
	return u, n.Cross(u).Normalize()
}

func cross2(a, b, c [2]float32) float32 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
