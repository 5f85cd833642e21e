package camera

import (
	"testing"
	"time"

	"github.com/woozymasta/travelglobe/internal/geo"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl64.Vec3, eps float64) {
	t.Helper()
	assert.InDelta(t, 0, want.Sub(got).Len(), eps, "want %v got %v", want, got)
}

func TestRayThroughCenter(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1.5)
	ray := cam.RayFromNDC(0, 0)

	vecNear(t, mgl64.Vec3{0, 0, 250}, ray.Origin, 1e-9)
	vecNear(t, mgl64.Vec3{0, 0, -1}, ray.Dir, 1e-9)
	vecNear(t, mgl64.Vec3{0, 0, 150}, ray.At(100), 1e-9)
}

func TestProjectRayRoundTrip(t *testing.T) {
	cam := New(geo.LatLngToVector(20, 30, 250), 50, 16.0/9.0)

	for _, ll := range [][2]float64{{20, 30}, {35, 45}, {5, 10}, {10, 50}} {
		p := geo.LatLngToVector(ll[0], ll[1], 100)
		ndc, ok := cam.Project(p)
		require.True(t, ok)

		ray := cam.RayFromNDC(ndc.X(), ndc.Y())
		// distance from p to the ray line
		v := p.Sub(ray.Origin)
		d := v.Sub(ray.Dir.Mul(v.Dot(ray.Dir))).Len()
		assert.InDelta(t, 0, d, 1e-6, "%v", ll)
	}

	_, ok := cam.Project(cam.Position.Mul(2))
	assert.False(t, ok)
}

func TestOrbit(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	cam.Orbit(90, 0, 5)
	assert.InDelta(t, 250, cam.Position.Len(), 1e-9)
	vecNear(t, mgl64.Vec3{-250, 0, 0}, cam.Position, 1e-9)

	cam.Orbit(0, -170, 5)
	lat, _, alt := cam.LatLngAltitude(100)
	assert.InDelta(t, 85, lat, 1e-9)
	assert.InDelta(t, 2.5, alt, 1e-9)
}

func TestZoomClamp(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	cam.Zoom(0.1, 110, 800)
	assert.InDelta(t, 110, cam.Position.Len(), 1e-9)
	cam.Zoom(100, 110, 800)
	assert.InDelta(t, 800, cam.Position.Len(), 1e-9)
}

func TestLookAtAbovePole(t *testing.T) {
	cam := New(mgl64.Vec3{0, 300, 0}, 50, 1)
	assert.NotEqual(t, mgl64.Vec3{0, 1, 0}, cam.Up)

	ray := cam.RayFromNDC(0, 0)
	vecNear(t, mgl64.Vec3{0, -1, 0}, ray.Dir, 1e-9)
}

func TestEaseOutCubic(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutCubic(0))
	assert.Equal(t, 1.0, EaseOutCubic(1))
	assert.InDelta(t, 0.875, EaseOutCubic(0.5), 1e-12)
	assert.Greater(t, EaseOutCubic(0.25), 0.25)
}

func TestAnimatorConverges(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	var anim Animator
	target := Target{Lat: 48.85, Lng: 2.35, Altitude: 2, Duration: time.Second}
	anim.Start(cam, target, 100, 1.1)

	dest := Destination(target, 100)
	frame := time.Second / 60
	var elapsed time.Duration
	for elapsed+frame < time.Second {
		require.True(t, anim.Step(cam, frame))
		elapsed += frame
		assert.Less(t, anim.Progress(), 1.0)
	}
	anim.Step(cam, time.Second-elapsed)

	assert.False(t, anim.Active())
	assert.Equal(t, 1.0, anim.Progress())
	vecNear(t, dest, cam.Position, 1e-9)
	assert.Equal(t, mgl64.Vec3{}, cam.Target)

	assert.False(t, anim.Step(cam, frame))
	vecNear(t, dest, cam.Position, 1e-9)
}

func TestAnimatorRestartsFromCurrentPosition(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	var anim Animator
	anim.Start(cam, Target{Lat: 0, Lng: 90, Duration: time.Second}, 100, 1.1)
	anim.Step(cam, 400*time.Millisecond)
	mid := cam.Position

	next := Target{Lat: -30, Lng: 100, Altitude: 3, Duration: 500 * time.Millisecond}
	anim.Start(cam, next, 100, 1.1)
	assert.Zero(t, anim.Progress())
	assert.Equal(t, mid, anim.from)

	anim.Step(cam, 500*time.Millisecond)
	vecNear(t, Destination(next, 100), cam.Position, 1e-9)
}

func TestAnimatorZeroDurationAndDefaults(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	var anim Animator
	anim.Start(cam, Target{Lat: 10, Lng: 20}, 100, 1.1)
	assert.True(t, anim.Active())

	assert.False(t, anim.Step(cam, 0))
	assert.InDelta(t, 250, cam.Position.Len(), 1e-9)
	vecNear(t, geo.LatLngToVector(10, 20, 250), cam.Position, 1e-9)
}

func TestAnimatorStaysOutsideGlobe(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	var anim Animator
	_, lng, _ := geo.VectorToLatLng(mgl64.Vec3{0, 0, -1})
	anim.Start(cam, Target{Lat: 0, Lng: lng, Altitude: 2.5, Duration: time.Second}, 100, 1.1)

	for anim.Step(cam, 10*time.Millisecond) {
		assert.GreaterOrEqual(t, cam.Position.Len(), 110-1e-9)
	}
	vecNear(t, mgl64.Vec3{0, 0, -250}, cam.Position, 1e-6)
}

func TestAnimatorCancel(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	var anim Animator
	anim.Start(cam, Target{Lat: 10, Lng: 20, Duration: time.Second}, 100, 1.1)
	anim.Step(cam, 100*time.Millisecond)
	pos := cam.Position

	anim.Cancel()
	assert.False(t, anim.Step(cam, 100*time.Millisecond))
	assert.Equal(t, pos, cam.Position)
}

func TestAutoRotator(t *testing.T) {
	cam := New(mgl64.Vec3{0, 0, 250}, 50, 1)
	rot := AutoRotator{Speed: 90, Enabled: true}

	assert.False(t, rot.Step(cam, time.Second, true, false))
	assert.False(t, rot.Step(cam, time.Second, false, true))
	assert.Equal(t, mgl64.Vec3{0, 0, 250}, cam.Position)

	assert.True(t, rot.Step(cam, time.Second, false, false))
	assert.InDelta(t, 250, cam.Position.Len(), 1e-9)
	vecNear(t, mgl64.Vec3{250, 0, 0}, cam.Position, 1e-9)

	rot.Enabled = false
	assert.False(t, rot.Step(cam, time.Second, false, false))
}
