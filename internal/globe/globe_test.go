package globe

import (
	"testing"
	"time"

	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/dataset"
	"github.com/woozymasta/travelglobe/internal/geo"
	"github.com/woozymasta/travelglobe/internal/names"
	"github.com/woozymasta/travelglobe/internal/points"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(name, iso string, lng, lat float64) geo.BoundaryFeature {
	return geo.BoundaryFeature{
		Name:  name,
		IsoA2: iso,
		Geometry: orb.Polygon{{
			{lng, lat}, {lng + 10, lat}, {lng + 10, lat + 10}, {lng, lat + 10}, {lng, lat},
		}},
	}
}

func testFeatures() []geo.BoundaryFeature {
	return []geo.BoundaryFeature{
		square("Alpha", "AL", 0, 0),
		square("Beta", "BE", 20, 0),
		square("Gamma", "GA", 40, 0),
	}
}

// testGlobe looks straight down at lat 3, lng 6, inside Alpha.
func testGlobe(t *testing.T) *Globe {
	t.Helper()
	opts := DefaultOptions()
	opts.StartLat, opts.StartLng = 3, 6
	opts.AutoRotate.Enabled = false
	return New(opts, names.New())
}

var center = &mgl64.Vec2{0, 0}

func TestStepRebuildsBeforePicking(t *testing.T) {
	g := testGlobe(t)

	var hovers []string
	g.SetHandlers(Handlers{OnCountryHover: func(key, _ string) { hovers = append(hovers, key) }})

	g.SetFeatures(testFeatures())
	out := g.Step(Input{Pointer: center, Dt: 16 * time.Millisecond})

	assert.True(t, out.Rebuilt)
	assert.True(t, out.Recolored)
	assert.Equal(t, "alpha", out.HoveredCountry)
	assert.Equal(t, uint64(1), out.Frame)

	// hover is recolored in the same frame
	m, ok := g.Snapshot().Lookup("alpha")
	require.True(t, ok)
	assert.InDelta(t, 0.9, m.Material.Uniforms.Opacity, 1e-12)

	out = g.Step(Input{Pointer: center})
	assert.False(t, out.Rebuilt)
	assert.False(t, out.Recolored)
	assert.Equal(t, "alpha", out.HoveredCountry)

	out = g.Step(Input{})
	assert.Empty(t, out.HoveredCountry)
	assert.True(t, out.Recolored)

	assert.Equal(t, []string{"alpha", ""}, hovers)
}

func TestClickSelectsCountry(t *testing.T) {
	g := testGlobe(t)
	g.SetFeatures(testFeatures())

	var clicked, clickedNames []string
	g.SetHandlers(Handlers{OnCountryClick: func(key, name string) {
		clicked = append(clicked, key)
		clickedNames = append(clickedNames, name)
	}})

	out := g.Step(Input{Pointer: center, Click: true})
	assert.Equal(t, "alpha", out.ClickedCountry)
	assert.Nil(t, out.ClickedPoint)
	assert.Equal(t, []string{"alpha"}, clicked)
	assert.Equal(t, []string{"Alpha"}, clickedNames)
	assert.Equal(t, "alpha", g.ViewState().SelectedCountry)

	m, _ := g.Snapshot().Lookup("alpha")
	assert.InDelta(t, 1.0, m.Material.Uniforms.Opacity, 1e-12)

	// a click over empty space keeps the selection
	out = g.Step(Input{Pointer: &mgl64.Vec2{0.99, 0.99}, Click: true})
	assert.Empty(t, out.ClickedCountry)
	assert.Equal(t, "alpha", g.ViewState().SelectedCountry)
}

func TestPointClickWins(t *testing.T) {
	g := testGlobe(t)
	g.SetFeatures(testFeatures())
	g.SetRecords(dataset.Records{
		Restaurants: []dataset.Restaurant{
			{Name: "Chez Test", City: "Somewhere", Lat: 3, Lng: 6, Stars: 3},
			{Name: "Far Away", City: "Elsewhere", Lat: -40, Lng: 120, Stars: 1},
		},
	})
	g.SetView(colorize.ViewMichelin)

	var order []string
	g.SetHandlers(Handlers{
		OnCountryClick: func(key, _ string) { order = append(order, "country:"+key) },
		OnPointClick:   func(p points.GlobePoint) { order = append(order, "point:"+p.Payload.(dataset.Restaurant).Name) },
		OnPointHover:   func(p *points.GlobePoint) { order = append(order, "hover") },
	})

	out := g.Step(Input{Pointer: center, Click: true})
	require.NotNil(t, out.ClickedPoint)
	assert.Equal(t, "alpha", out.ClickedCountry)
	assert.Equal(t, []string{"hover", "country:alpha", "point:Chez Test"}, order)

	state := g.ViewState()
	assert.Empty(t, state.SelectedCountry)
	require.NotNil(t, state.SelectedPoint)
	assert.Equal(t, "Chez Test", state.SelectedPoint.Payload.(dataset.Restaurant).Name)

	// every country is backdrop in a point view
	for _, m := range g.Snapshot().Countries {
		assert.Equal(t, colorize.Slate, m.Material.Uniforms.Color)
		assert.InDelta(t, 0.4, m.Material.Uniforms.Opacity, 1e-12)
	}
	assert.Greater(t, g.Snapshot().Points[0].Material.Uniforms.Highlight, 0.0)

	// switching view rebuilds points and drops the point selection
	g.SetView(colorize.ViewAdvisories)
	out = g.Step(Input{})
	assert.True(t, out.Rebuilt)
	assert.Empty(t, g.Snapshot().Points)
	assert.Nil(t, g.ViewState().SelectedPoint)
}

func TestAdvisoryJoin(t *testing.T) {
	g := testGlobe(t)
	g.SetFeatures(testFeatures())
	g.SetRecords(dataset.Records{
		Advisories: []dataset.Advisory{
			{CountryName: "Alpha", Level: 3},
			{CountryName: "Unknown", CountryCode: "BE", Level: 1},
			{CountryName: "Atlantis", Level: 4},
		},
	})
	g.Step(Input{})

	assert.Equal(t, dataset.JoinReport{Matched: 2, Unmatched: []string{"Atlantis"}}, g.JoinReport())

	alpha, _ := g.Snapshot().Lookup("alpha")
	beta, _ := g.Snapshot().Lookup("beta")
	gamma, _ := g.Snapshot().Lookup("gamma")
	assert.Equal(t, colorize.Orange, alpha.Material.Uniforms.Color)
	assert.Equal(t, colorize.Green, beta.Material.Uniforms.Color)
	assert.Equal(t, colorize.Gray, gamma.Material.Uniforms.Color)
	assert.InDelta(t, 0.3, gamma.Material.Uniforms.Opacity, 1e-12)
}

func TestVisaFollowsSelection(t *testing.T) {
	g := testGlobe(t)
	g.SetFeatures(testFeatures())
	g.SetRecords(dataset.Records{
		VisaRules: []dataset.VisaRule{
			{FromCountry: "Alpha", ToCountry: "Beta", RequirementType: dataset.VisaFree},
			{FromCountry: "Alpha", ToCountry: "Gamma", RequirementType: dataset.VisaRequired},
			{FromCountry: "Beta", ToCountry: "Alpha", RequirementType: dataset.EVisa},
		},
	})
	g.SetView(colorize.ViewVisa)
	g.Step(Input{})

	// no "from" country yet
	for _, m := range g.Snapshot().Countries {
		assert.Equal(t, colorize.Gray, m.Material.Uniforms.Color)
	}

	require.True(t, g.Select("AL"))
	g.Step(Input{})
	beta, _ := g.Snapshot().Lookup("beta")
	gamma, _ := g.Snapshot().Lookup("gamma")
	assert.Equal(t, colorize.Green, beta.Material.Uniforms.Color)
	assert.Equal(t, colorize.Orange, gamma.Material.Uniforms.Color)

	require.True(t, g.Select("Beta"))
	g.Step(Input{})
	alpha, _ := g.Snapshot().Lookup("alpha")
	gamma, _ = g.Snapshot().Lookup("gamma")
	assert.Equal(t, colorize.Yellow, alpha.Material.Uniforms.Color)
	assert.Equal(t, colorize.Gray, gamma.Material.Uniforms.Color)

	assert.False(t, g.Select("Narnia"))
}

func TestPointOfViewConverges(t *testing.T) {
	opts := DefaultOptions()
	g := New(opts, nil)

	target := camera.Target{Lat: 40, Lng: -70, Altitude: 3, Duration: time.Second}
	g.PointOfView(target)

	var out Output
	for i := 0; i < 10; i++ {
		out = g.Step(Input{Dt: 100 * time.Millisecond})
		if i < 9 {
			assert.True(t, out.Flying)
			assert.False(t, out.Rotated)
		}
	}

	assert.False(t, out.Flying)
	assert.False(t, out.Rotated, "rotation waits for the landing frame")
	assert.InDelta(t, 1.0, out.Progress, 1e-12)
	want := camera.Destination(target, opts.Radius)
	assert.InDelta(t, 0, want.Sub(g.Camera().Position).Len(), 1e-9)

	// idle rotation resumes afterwards
	out = g.Step(Input{Dt: 100 * time.Millisecond})
	assert.True(t, out.Rotated)
}

func TestDragCancelsFlight(t *testing.T) {
	g := testGlobe(t)
	g.PointOfView(camera.Target{Lat: 50, Lng: 50, Duration: time.Second})

	out := g.Step(Input{Dt: 100 * time.Millisecond})
	require.True(t, out.Flying)

	out = g.Step(Input{Dt: 100 * time.Millisecond, Drag: &Drag{DX: 10}})
	assert.False(t, out.Flying)
	assert.False(t, g.Flying())
}

func TestAutoRotateSuspendedWhileInteracting(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoRotate = camera.AutoRotator{Speed: 10, Enabled: true}
	g := New(opts, nil)

	before := g.Camera().Position
	out := g.Step(Input{Dt: time.Second, Interacting: true})
	assert.False(t, out.Rotated)
	assert.Equal(t, before, g.Camera().Position)

	out = g.Step(Input{Dt: time.Second})
	assert.True(t, out.Rotated)
	assert.NotEqual(t, before, g.Camera().Position)
}

func TestZoomClamped(t *testing.T) {
	g := testGlobe(t)
	g.Step(Input{Zoom: 0.01})
	_, _, alt := g.Camera().LatLngAltitude(g.Options().Radius)
	assert.InDelta(t, g.Options().MinAltitude, alt, 1e-9)

	g.Step(Input{Zoom: 100})
	_, _, alt = g.Camera().LatLngAltitude(g.Options().Radius)
	assert.InDelta(t, g.Options().MaxAltitude, alt, 1e-9)
}

func TestFocusCountry(t *testing.T) {
	g := testGlobe(t)
	g.SetFeatures(testFeatures())
	g.Step(Input{})

	assert.False(t, g.FocusCountry("Narnia"))
	require.True(t, g.FocusCountry("BE"))

	g.Step(Input{Dt: g.Options().FlightDuration})
	lat, lng, alt := g.Camera().LatLngAltitude(g.Options().Radius)
	assert.InDelta(t, 5, lat, 0.1)
	assert.InDelta(t, 25, lng, 0.1)
	assert.InDelta(t, g.Options().DefaultAltitude, alt, 1e-9)
}

func TestState(t *testing.T) {
	g := testGlobe(t)
	g.SetFeatures(testFeatures())
	g.SetRecords(dataset.Records{Advisories: []dataset.Advisory{{CountryName: "Gamma", Level: 4}}})
	g.Step(Input{Pointer: center})

	s := g.State()
	assert.Equal(t, colorize.ViewAdvisories, s.View)
	assert.Equal(t, "alpha", s.HoveredCountry)
	assert.Equal(t, uint64(1), s.Frame)
	require.Len(t, s.Countries, 3)

	assert.Equal(t, CountryState{
		Key: "gamma", Name: "Gamma", IsoA2: "GA", Color: "#ef4444", Opacity: 0.8, Triangles: 2,
	}, s.Countries[2])
	assert.InDelta(t, 3, s.Camera.Lat, 1e-9)
	assert.InDelta(t, 6, s.Camera.Lng, 1e-9)
	assert.InDelta(t, 2.5, s.Camera.Altitude, 1e-9)
}
