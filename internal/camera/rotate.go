package camera

import "time"

// AutoRotator slowly orbits the camera around the polar axis while the
// globe is idle.
type AutoRotator struct {
	// Speed in degrees per second; positive turns the globe eastward under the camera.
	Speed   float64
	Enabled bool
}

// Step rotates the camera by Speed*dt unless the user is interacting or a
// point-of-view flight is running. It reports whether the camera moved.
func (r AutoRotator) Step(cam *Camera, dt time.Duration, interacting, flying bool) bool {
	if !r.Enabled || r.Speed == 0 || interacting || flying || dt <= 0 {
		return false
	}

	cam.Orbit(-r.Speed*dt.Seconds(), 0, 0)
	return true
}
