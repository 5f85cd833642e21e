// Package globe ties the registry, picking, colorizing and camera together
// behind one frame function. Step runs the stages in a fixed order:
// rebuild, pick, colorize, camera-step.
package globe

import (
	"time"

	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/dataset"
	"github.com/woozymasta/travelglobe/internal/geo"
	"github.com/woozymasta/travelglobe/internal/mesh"
	"github.com/woozymasta/travelglobe/internal/names"
	"github.com/woozymasta/travelglobe/internal/picking"
	"github.com/woozymasta/travelglobe/internal/points"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"
)

// ViewState is the interaction state the colorizer and host UI read.
type ViewState struct {
	SelectedPoint   *points.GlobePoint `json:"selected_point,omitempty"`
	HoveredPoint    *points.GlobePoint `json:"hovered_point,omitempty"`
	SelectedCountry string             `json:"selected_country,omitempty"`
	HoveredCountry  string             `json:"hovered_country,omitempty"`
	View            colorize.View      `json:"view"`
}

// Handlers are host callbacks. Country callbacks receive the normalized
// key, as used by Select and Snapshot().Lookup, and the canonical display
// name of the mesh. An empty key or nil point means "nothing".
type Handlers struct {
	OnCountryClick func(key, name string)
	OnCountryHover func(key, name string)
	OnPointClick   func(p points.GlobePoint)
	OnPointHover   func(p *points.GlobePoint)
}

// Drag is a pointer drag since the last frame in degrees of orbit.
type Drag struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Input is the host input gathered for one frame.
type Input struct {
	// Pointer in normalized device coordinates; nil when off the canvas.
	Pointer *mgl64.Vec2
	Drag    *Drag
	// Zoom multiplies the camera distance; 0 leaves it alone.
	Zoom float64
	Dt   time.Duration
	// Click is a discrete pointer-down at Pointer.
	Click bool
	// Interacting is true while the user holds the pointer down.
	Interacting bool
}

// Output reports what a frame did.
type Output struct {
	ClickedPoint   *points.GlobePoint
	HoveredPoint   *points.GlobePoint
	ClickedCountry string
	HoveredCountry string
	Frame          uint64
	Progress       float64
	Rebuilt        bool
	Recolored      bool
	Flying         bool
	Rotated        bool
}

// Globe is the scene state machine. It is not safe for concurrent use;
// callers serialize access, as the frame loop of the server does.
type Globe struct {
	cam       *camera.Camera
	registry  *mesh.Registry
	colorizer *colorize.Colorizer
	resolver  names.Resolver
	handlers  Handlers
	target    *camera.Target

	records    dataset.Records
	features   []geo.BoundaryFeature
	advisories dataset.AdvisoryByCountry
	visa       dataset.VisaByCountry
	visaFrom   string
	report     dataset.JoinReport

	state  ViewState
	anim   camera.Animator
	picker picking.Engine
	opts   Options
	frame  uint64

	featuresDirty bool
	recordsDirty  bool
	pointsDirty   bool
	colorDirty    bool
	visaDirty     bool
	interacting   bool
}

// New creates an empty globe. A nil resolver uses names.New().
func New(opts Options, resolver names.Resolver) *Globe {
	opts = opts.withDefaults()
	if resolver == nil {
		resolver = names.New()
	}

	start := geo.LatLngToVector(opts.StartLat, opts.StartLng, opts.Radius*opts.DefaultAltitude)
	return &Globe{
		opts:       opts,
		resolver:   resolver,
		registry:   mesh.NewRegistry(opts.Radius, opts.MeshOffset, resolver),
		colorizer:  colorize.New(),
		picker:     picking.Engine{Occlude: opts.Occlude},
		cam:        camera.New(start, opts.FovY, opts.Aspect),
		advisories: dataset.AdvisoryByCountry{},
		visa:       dataset.VisaByCountry{},
		colorDirty: true,
	}
}

// SetHandlers replaces the host callbacks.
func (g *Globe) SetHandlers(h Handlers) {
	g.handlers = h
}

// SetFeatures queues a country rebuild for the next frame.
func (g *Globe) SetFeatures(features []geo.BoundaryFeature) {
	g.features = features
	g.featuresDirty = true
}

// SetRecords queues reindexing and point projection for the next frame.
func (g *Globe) SetRecords(r dataset.Records) {
	g.records = r
	g.recordsDirty = true
}

// SetView switches the active view. Points are rebuilt for the new view.
func (g *Globe) SetView(v colorize.View) {
	if g.state.View == v {
		return
	}
	g.state.View = v
	g.state.HoveredPoint = nil
	g.state.SelectedPoint = nil
	g.pointsDirty = true
	g.colorDirty = true
}

// SetColorizer swaps the colorizer, for a custom palette.
func (g *Globe) SetColorizer(c *colorize.Colorizer) {
	g.colorizer = c
	g.colorDirty = true
}

// Select marks a country as selected by name, alias, ISO code or key, as a
// search box would. An empty string clears the selection. It reports
// whether the country exists.
func (g *Globe) Select(nameOrCode string) bool {
	if nameOrCode == "" {
		g.state.SelectedCountry = ""
		g.colorDirty = true
		return true
	}

	key, ok := g.registry.Snapshot().ResolveKey(nameOrCode)
	if !ok {
		return false
	}
	g.state.SelectedCountry = key
	g.state.SelectedPoint = nil
	g.colorDirty = true
	return true
}

// PointOfView requests a camera flight. It replaces any pending or running
// flight when the next frame steps the camera.
func (g *Globe) PointOfView(t camera.Target) {
	if t.Altitude <= 0 {
		t.Altitude = g.opts.DefaultAltitude
	}
	g.target = &t
}

// FocusCountry flies to the centroid of a country. A country without a
// usable centroid is logged and ignored.
func (g *Globe) FocusCountry(nameOrCode string) bool {
	snap := g.registry.Snapshot()
	key, ok := snap.ResolveKey(nameOrCode)
	if !ok {
		log.Warn().Str("country", nameOrCode).Msg("Cannot focus unknown country")
		return false
	}

	m, _ := snap.Lookup(key)
	lat, lng, err := geo.Centroid(m.Source)
	if err != nil {
		log.Warn().Err(err).Str("country", key).Msg("Cannot focus country")
		return false
	}

	g.PointOfView(camera.Target{
		Lat:      lat,
		Lng:      lng,
		Altitude: g.opts.DefaultAltitude,
		Duration: g.opts.FlightDuration,
	})
	return true
}

// Camera returns the live camera.
func (g *Globe) Camera() *camera.Camera {
	return g.cam
}

// Snapshot returns the current registry generation.
func (g *Globe) Snapshot() *mesh.Snapshot {
	return g.registry.Snapshot()
}

// ViewState returns a copy of the interaction state.
func (g *Globe) ViewState() ViewState {
	return g.state
}

// JoinReport returns the result of the last advisory join.
func (g *Globe) JoinReport() dataset.JoinReport {
	return g.report
}

// Options returns the effective options.
func (g *Globe) Options() Options {
	return g.opts
}

// Frame is the number of frames stepped so far.
func (g *Globe) Frame() uint64 {
	return g.frame
}

// Flying reports whether a point-of-view flight is running.
func (g *Globe) Flying() bool {
	return g.anim.Active()
}
