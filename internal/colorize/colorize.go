// Package colorize recolors country meshes and point markers for the
// active view. Every call is a full pass; nothing is updated incrementally.
package colorize

import (
	"image/color"

	"github.com/woozymasta/travelglobe/internal/dataset"
	"github.com/woozymasta/travelglobe/internal/mesh"
	"github.com/woozymasta/travelglobe/internal/points"
)

// Palette holds the colors and opacities of the rule table.
type Palette struct {
	Visa   map[dataset.Requirement]color.NRGBA
	Levels [4]color.NRGBA
	// NoData colors choropleth countries without a joined record.
	NoData color.NRGBA
	// Backdrop colors every country in point views.
	Backdrop color.NRGBA

	DataOpacity     float64
	NoDataOpacity   float64
	BackdropOpacity float64
	SelectedOpacity float64
	HoveredOpacity  float64

	// PointHover and PointSelected are marker highlight amounts.
	PointHover    float64
	PointSelected float64
}

var (
	Green      = color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff}
	LightGreen = color.NRGBA{R: 0x86, G: 0xef, B: 0xac, A: 0xff}
	Yellow     = color.NRGBA{R: 0xea, G: 0xb3, B: 0x08, A: 0xff}
	Orange     = color.NRGBA{R: 0xf9, G: 0x73, B: 0x16, A: 0xff}
	Red        = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	Gray       = color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	Slate      = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// DefaultPalette returns the stock rule table.
func DefaultPalette() Palette {
	return Palette{
		Levels: [4]color.NRGBA{Green, Yellow, Orange, Red},
		Visa: map[dataset.Requirement]color.NRGBA{
			dataset.VisaFree:      Green,
			dataset.VisaOnArrival: LightGreen,
			dataset.EVisa:         Yellow,
			dataset.VisaRequired:  Orange,
		},
		NoData:          Gray,
		Backdrop:        Slate,
		DataOpacity:     0.8,
		NoDataOpacity:   0.3,
		BackdropOpacity: 0.4,
		SelectedOpacity: 1.0,
		HoveredOpacity:  0.9,
		PointHover:      0.35,
		PointSelected:   0.6,
	}
}

// Input is everything a recoloring pass depends on.
type Input struct {
	Advisories    dataset.AdvisoryByCountry
	Visa          dataset.VisaByCountry
	SelectedPoint *points.GlobePoint
	HoveredPoint  *points.GlobePoint
	Selected      string
	Hovered       string
	View          View
}

// Colorizer writes materials. It is the only writer of material fields.
type Colorizer struct {
	Palette Palette
}

// New returns a colorizer with the default palette.
func New() *Colorizer {
	return &Colorizer{Palette: DefaultPalette()}
}

// Apply recolors every country mesh and point primitive in snap.
func (c *Colorizer) Apply(in Input, snap *mesh.Snapshot) {
	if snap == nil {
		return
	}

	for i := range snap.Countries {
		m := &snap.Countries[i]
		m.Material = c.CountryMaterial(in, m.Key)
	}
	for i := range snap.Points {
		p := &snap.Points[i]
		p.Material = c.PointMaterial(in, &p.Point)
	}
}

// CountryMaterial resolves the material of one country key.
func (c *Colorizer) CountryMaterial(in Input, key string) mesh.Material {
	pal := &c.Palette
	u := mesh.Uniforms{Color: pal.Backdrop, Opacity: pal.BackdropOpacity}

	if in.View.Choropleth() {
		if col, ok := c.dataColor(in, key); ok {
			u.Color, u.Opacity = col, pal.DataOpacity
		} else {
			u.Color, u.Opacity = pal.NoData, pal.NoDataOpacity
		}

		switch {
		case key != "" && key == in.Selected:
			u.Opacity = pal.SelectedOpacity
		case key != "" && key == in.Hovered:
			u.Opacity = pal.HoveredOpacity
		}
	}

	return mesh.Material{Program: mesh.ProgramCountry, Uniforms: u}
}

// PointMaterial keeps the marker's own color and raises its highlight when
// it is hovered or selected.
func (c *Colorizer) PointMaterial(in Input, p *points.GlobePoint) mesh.Material {
	u := mesh.Uniforms{Color: p.Color, Opacity: 1}

	switch {
	case samePoint(p, in.SelectedPoint):
		u.Highlight = c.Palette.PointSelected
	case samePoint(p, in.HoveredPoint):
		u.Highlight = c.Palette.PointHover
	}

	return mesh.Material{Program: mesh.ProgramPoint, Uniforms: u}
}

func (c *Colorizer) dataColor(in Input, key string) (color.NRGBA, bool) {
	switch in.View {
	case ViewAdvisories:
		a, ok := in.Advisories[key]
		if !ok || a.Level < 1 || a.Level > len(c.Palette.Levels) {
			return color.NRGBA{}, false
		}
		return c.Palette.Levels[a.Level-1], true

	case ViewVisa:
		r, ok := in.Visa[key]
		if !ok {
			return color.NRGBA{}, false
		}
		col, ok := c.Palette.Visa[r.RequirementType]
		return col, ok
	}
	return color.NRGBA{}, false
}

// samePoint compares markers by identity of what they show, since
// primitives are rebuilt whenever points are replaced.
func samePoint(a, b *points.GlobePoint) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return a.Label == b.Label && a.Lat == b.Lat && a.Lng == b.Lng
}
