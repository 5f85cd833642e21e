package globe

import (
	"time"

	"github.com/woozymasta/travelglobe/internal/camera"
)

// Options tune the globe scene and its camera.
type Options struct {
	// Radius of the opaque base sphere in world units.
	Radius float64 `yaml:"radius" json:"radius"`
	// MeshOffset lifts country meshes off the base sphere, >1.
	MeshOffset float64 `yaml:"mesh_offset" json:"mesh_offset"`

	FovY   float64 `yaml:"fov" json:"fov"`
	Aspect float64 `yaml:"aspect" json:"aspect"`

	// Altitudes are camera distances from the center in globe radii.
	StartLat        float64 `yaml:"start_lat" json:"start_lat"`
	StartLng        float64 `yaml:"start_lng" json:"start_lng"`
	DefaultAltitude float64 `yaml:"default_altitude" json:"default_altitude"`
	MinAltitude     float64 `yaml:"min_altitude" json:"min_altitude"`
	MaxAltitude     float64 `yaml:"max_altitude" json:"max_altitude"`
	// MinPolar keeps orbiting this many degrees away from the poles.
	MinPolar float64 `yaml:"min_polar" json:"min_polar"`

	FlightDuration time.Duration `yaml:"flight_duration" json:"flight_duration"`

	AutoRotate camera.AutoRotator `yaml:"auto_rotate" json:"auto_rotate"`

	// Occlude hides picks on the far side of the globe.
	Occlude bool `yaml:"occlude" json:"occlude"`
}

// DefaultOptions returns the stock scene setup.
func DefaultOptions() Options {
	return Options{
		Radius:          100,
		MeshOffset:      1.001,
		FovY:            50,
		Aspect:          16.0 / 9.0,
		StartLat:        20,
		DefaultAltitude: camera.DefaultAltitude,
		MinAltitude:     1.1,
		MaxAltitude:     8,
		MinPolar:        5,
		FlightDuration:  time.Second,
		AutoRotate:      camera.AutoRotator{Speed: 6, Enabled: true},
		Occlude:         true,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Radius <= 0 {
		o.Radius = d.Radius
	}
	if o.MeshOffset <= 1 {
		o.MeshOffset = d.MeshOffset
	}
	if o.FovY <= 0 {
		o.FovY = d.FovY
	}
	if o.Aspect <= 0 {
		o.Aspect = d.Aspect
	}
	if o.DefaultAltitude <= 0 {
		o.DefaultAltitude = d.DefaultAltitude
	}
	if o.MinAltitude <= o.MeshOffset {
		o.MinAltitude = d.MinAltitude
	}
	if o.MaxAltitude < o.MinAltitude {
		o.MaxAltitude = d.MaxAltitude
	}
	if o.FlightDuration < 0 {
		o.FlightDuration = d.FlightDuration
	}
	return o
}
