package globe

import (
	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/dataset"
	"github.com/woozymasta/travelglobe/internal/points"

	"github.com/rs/zerolog/log"
)

// Step advances the scene by one frame.
func (g *Globe) Step(in Input) Output {
	g.frame++
	out := Output{Frame: g.frame}

	out.Rebuilt = g.rebuild()
	g.pick(in, &out)
	out.Recolored = g.colorize()
	g.stepCamera(in, &out)

	return out
}

// rebuild publishes new meshes and points when their inputs changed.
func (g *Globe) rebuild() bool {
	rebuilt := false

	if g.featuresDirty {
		stats := g.registry.RebuildCountries(g.features)
		log.Info().
			Int("meshes", stats.Meshes).
			Int("unsupported", stats.Unsupported).
			Int("merged", stats.Merged).
			Msg("Country meshes built")

		g.featuresDirty = false
		// joins depend on the mesh keys
		g.recordsDirty = true
		rebuilt = true
	}

	if g.recordsDirty {
		g.advisories, g.report = dataset.IndexAdvisories(g.records.Advisories, g.registry.Snapshot())
		if len(g.report.Unmatched) > 0 || len(g.report.Duplicates) > 0 {
			log.Warn().
				Int("matched", g.report.Matched).
				Strs("unmatched", g.report.Unmatched).
				Strs("duplicates", g.report.Duplicates).
				Msg("Advisories not joined to a country")
		}

		g.visaDirty = true
		g.recordsDirty = false
		g.pointsDirty = true
		rebuilt = true
	}

	if g.pointsDirty {
		g.registry.ReplacePoints(g.projectPoints())
		g.pointsDirty = false
		rebuilt = true
	}

	if rebuilt {
		g.colorDirty = true
		g.dropStaleState()
	}
	return rebuilt
}

func (g *Globe) projectPoints() []points.GlobePoint {
	switch g.state.View {
	case colorize.ViewAirports:
		return points.Project(g.records.Airports, points.AirportRule{}, g.opts.Radius)
	case colorize.ViewMichelin:
		return points.Project(g.records.Restaurants, points.RestaurantRule{}, g.opts.Radius)
	}
	return nil
}

// dropStaleState clears selections that no longer exist after a rebuild.
func (g *Globe) dropStaleState() {
	snap := g.registry.Snapshot()
	if _, ok := snap.Lookup(g.state.SelectedCountry); !ok {
		g.state.SelectedCountry = ""
	}
	if _, ok := snap.Lookup(g.state.HoveredCountry); !ok {
		g.state.HoveredCountry = ""
	}
	g.state.HoveredPoint = g.findPoint(g.state.HoveredPoint)
	g.state.SelectedPoint = g.findPoint(g.state.SelectedPoint)
}

// findPoint maps a marker from an older generation to the current one.
func (g *Globe) findPoint(p *points.GlobePoint) *points.GlobePoint {
	if p == nil {
		return nil
	}
	snap := g.registry.Snapshot()
	for i := range snap.Points {
		q := &snap.Points[i].Point
		if q.Label == p.Label && q.Lat == p.Lat && q.Lng == p.Lng {
			return q
		}
	}
	return nil
}

// pick updates hover every frame and resolves a click when one happened.
func (g *Globe) pick(in Input, out *Output) {
	var (
		country string
		point   *points.GlobePoint
	)

	snap := g.registry.Snapshot()
	if in.Pointer != nil {
		ray := g.cam.RayFromNDC(in.Pointer.X(), in.Pointer.Y())
		country, point = g.picker.Hover(ray, snap)
	}

	if country != g.state.HoveredCountry {
		g.state.HoveredCountry = country
		g.colorDirty = true
		if g.handlers.OnCountryHover != nil {
			g.handlers.OnCountryHover(country, g.countryName(country))
		}
	}
	if point != g.state.HoveredPoint {
		g.state.HoveredPoint = point
		g.colorDirty = true
		if g.handlers.OnPointHover != nil {
			g.handlers.OnPointHover(point)
		}
	}
	out.HoveredCountry = country
	out.HoveredPoint = point

	if !in.Click || in.Pointer == nil {
		return
	}

	// countries first, points second: a marker click wins the selection
	if country != "" {
		g.state.SelectedCountry = country
		g.state.SelectedPoint = nil
		g.colorDirty = true
		out.ClickedCountry = country
		if g.handlers.OnCountryClick != nil {
			g.handlers.OnCountryClick(country, g.countryName(country))
		}
	}
	if point != nil {
		g.state.SelectedPoint = point
		g.state.SelectedCountry = ""
		g.colorDirty = true
		out.ClickedPoint = point
		if g.handlers.OnPointClick != nil {
			g.handlers.OnPointClick(*point)
		}
	}

	log.Trace().
		Str("country", out.ClickedCountry).
		Bool("point", out.ClickedPoint != nil).
		Msg("Pointer click")
}

// countryName is the display name of the mesh with key, or "".
func (g *Globe) countryName(key string) string {
	if m, ok := g.registry.Snapshot().Lookup(key); ok {
		return m.Name
	}
	return ""
}

// colorize runs a full recoloring pass when any of its inputs changed.
func (g *Globe) colorize() bool {
	if g.state.View == colorize.ViewVisa && (g.visaDirty || g.visaFrom != g.state.SelectedCountry) {
		var report dataset.JoinReport
		g.visa, report = dataset.IndexVisa(g.records.VisaRules, g.state.SelectedCountry, g.registry.Snapshot())
		g.visaFrom = g.state.SelectedCountry
		g.visaDirty = false
		g.colorDirty = true

		log.Debug().
			Str("from", g.visaFrom).
			Int("matched", report.Matched).
			Int("unmatched", len(report.Unmatched)).
			Int("duplicates", len(report.Duplicates)).
			Msg("Visa rules indexed")
	}

	if !g.colorDirty {
		return false
	}

	g.colorizer.Apply(colorize.Input{
		View:          g.state.View,
		Advisories:    g.advisories,
		Visa:          g.visa,
		Selected:      g.state.SelectedCountry,
		Hovered:       g.state.HoveredCountry,
		SelectedPoint: g.state.SelectedPoint,
		HoveredPoint:  g.state.HoveredPoint,
	}, g.registry.Snapshot())

	g.colorDirty = false
	return true
}

// stepCamera applies user orbit and zoom, starts a requested flight and
// advances the flight or the idle rotation.
func (g *Globe) stepCamera(in Input, out *Output) {
	g.interacting = in.Interacting || in.Drag != nil

	if in.Drag != nil && (in.Drag.DX != 0 || in.Drag.DY != 0) {
		g.anim.Cancel()
		g.cam.Orbit(-in.Drag.DX, -in.Drag.DY, g.opts.MinPolar)
	}
	if in.Zoom > 0 && in.Zoom != 1 {
		g.cam.Zoom(in.Zoom, g.opts.Radius*g.opts.MinAltitude, g.opts.Radius*g.opts.MaxAltitude)
	}

	if g.target != nil {
		g.anim.Start(g.cam, *g.target, g.opts.Radius, g.opts.MinAltitude)
		g.target = nil
	}

	// a flight landing this frame still holds off the rotation
	flying := g.anim.Active()
	out.Flying = g.anim.Step(g.cam, in.Dt)
	out.Progress = g.anim.Progress()
	out.Rotated = g.opts.AutoRotate.Step(g.cam, in.Dt, g.interacting, flying)
}
