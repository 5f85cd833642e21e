package camera

import (
	"time"

	"github.com/woozymasta/travelglobe/internal/geo"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultAltitude is used when a target leaves Altitude unset.
const DefaultAltitude = 2.5

// Target is a point-of-view request. Altitude is the camera distance from
// the globe center in globe radii.
type Target struct {
	Lat      float64       `json:"lat"`
	Lng      float64       `json:"lng"`
	Altitude float64       `json:"altitude"`
	Duration time.Duration `json:"duration"`
}

// Animator flies the camera to a Target with an ease-out-cubic curve.
// Time only advances through Step, so a stalled frame loop simply resumes
// where it left off.
type Animator struct {
	from     mgl64.Vec3
	to       mgl64.Vec3
	elapsed  time.Duration
	duration time.Duration
	progress float64
	// minDist keeps interpolated positions outside the globe
	minDist float64
	active  bool
}

// EaseOutCubic maps linear progress p in [0, 1] to 1 - (1-p)^3.
func EaseOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// Destination returns the camera position for a target around a globe of
// the given radius.
func Destination(t Target, globeRadius float64) mgl64.Vec3 {
	alt := t.Altitude
	if alt <= 0 {
		alt = DefaultAltitude
	}
	return geo.LatLngToVector(t.Lat, t.Lng, globeRadius*alt)
}

// Start begins a new flight from the camera's current position. Any flight
// in progress is discarded, not queued.
func (a *Animator) Start(cam *Camera, t Target, globeRadius, minAltitude float64) {
	*a = Animator{
		from:     cam.Position,
		to:       Destination(t, globeRadius),
		duration: t.Duration,
		minDist:  globeRadius * minAltitude,
		active:   true,
	}
}

// Cancel stops the flight where it is.
func (a *Animator) Cancel() {
	a.active = false
}

// Active reports whether a flight is in progress.
func (a *Animator) Active() bool {
	return a.active
}

// Progress is the linear progress of the last flight, 1 once it completed.
func (a *Animator) Progress() float64 {
	return a.progress
}

// Destination is where the current or last flight ends.
func (a *Animator) Destination() mgl64.Vec3 {
	return a.to
}

// Step advances the flight by dt and moves the camera. It returns true
// while the flight is still running.
func (a *Animator) Step(cam *Camera, dt time.Duration) bool {
	if !a.active {
		return false
	}

	a.elapsed += dt
	if a.duration <= 0 || a.elapsed >= a.duration {
		a.progress = 1
	} else {
		a.progress = float64(a.elapsed) / float64(a.duration)
	}

	if a.progress >= 1 {
		cam.Position = a.to
		a.active = false
	} else {
		e := EaseOutCubic(a.progress)
		cam.Position = a.keepOutside(a.from.Add(a.to.Sub(a.from).Mul(e)))
	}

	cam.LookAt(mgl64.Vec3{})
	return a.active
}

// keepOutside pushes a straight-line position that cuts through the globe
// back out to the minimum distance.
func (a *Animator) keepOutside(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Len()
	if d >= a.minDist || a.minDist <= 0 {
		return p
	}
	if d < 1e-9 {
		// exactly antipodal endpoints: leave the chord sideways
		side := a.from.Cross(mgl64.Vec3{0, 1, 0})
		if side.Len() < 1e-9 {
			side = mgl64.Vec3{1, 0, 0}
		}
		return side.Normalize().Mul(a.minDist)
	}
	return p.Mul(a.minDist / d)
}
