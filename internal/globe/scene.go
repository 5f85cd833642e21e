package globe

import (
	"fmt"
	"image/color"

	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/dataset"
)

// Scene is a serializable view of the globe for hosts that render or
// inspect it out of process.
type Scene struct {
	Countries       []CountryState     `json:"countries" yaml:"countries"`
	Points          []PointState       `json:"points" yaml:"points"`
	Report          dataset.JoinReport `json:"join_report" yaml:"join_report"`
	SelectedCountry string             `json:"selected_country,omitempty" yaml:"selected_country,omitempty"`
	HoveredCountry  string             `json:"hovered_country,omitempty" yaml:"hovered_country,omitempty"`
	Camera          CameraState        `json:"camera" yaml:"camera"`
	Version         uint64             `json:"version" yaml:"version"`
	Frame           uint64             `json:"frame" yaml:"frame"`
	View            colorize.View      `json:"view" yaml:"view"`
}

// CountryState is one country with its current material.
type CountryState struct {
	Key       string  `json:"key" yaml:"key"`
	Name      string  `json:"name" yaml:"name"`
	IsoA2     string  `json:"iso_a2,omitempty" yaml:"iso_a2,omitempty"`
	IsoA3     string  `json:"iso_a3,omitempty" yaml:"iso_a3,omitempty"`
	Color     string  `json:"color" yaml:"color"`
	Opacity   float64 `json:"opacity" yaml:"opacity"`
	Triangles int     `json:"triangles" yaml:"triangles"`
}

// PointState is one marker with its current material.
type PointState struct {
	Label     string  `json:"label" yaml:"label"`
	Color     string  `json:"color" yaml:"color"`
	Lat       float64 `json:"lat" yaml:"lat"`
	Lng       float64 `json:"lng" yaml:"lng"`
	Size      float64 `json:"size" yaml:"size"`
	Highlight float64 `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Selected  bool    `json:"selected,omitempty" yaml:"selected,omitempty"`
	Hovered   bool    `json:"hovered,omitempty" yaml:"hovered,omitempty"`
}

// CameraState is where the camera hovers.
type CameraState struct {
	Lat      float64 `json:"lat" yaml:"lat"`
	Lng      float64 `json:"lng" yaml:"lng"`
	Altitude float64 `json:"altitude" yaml:"altitude"`
	Progress float64 `json:"progress" yaml:"progress"`
	Flying   bool    `json:"flying" yaml:"flying"`
}

// State exports the current scene.
func (g *Globe) State() Scene {
	snap := g.registry.Snapshot()
	lat, lng, alt := g.cam.LatLngAltitude(g.opts.Radius)

	s := Scene{
		View:            g.state.View,
		SelectedCountry: g.state.SelectedCountry,
		HoveredCountry:  g.state.HoveredCountry,
		Report:          g.report,
		Version:         snap.Version,
		Frame:           g.frame,
		Countries:       make([]CountryState, 0, len(snap.Countries)),
		Points:          make([]PointState, 0, len(snap.Points)),
		Camera: CameraState{
			Lat:      lat,
			Lng:      lng,
			Altitude: alt,
			Progress: g.anim.Progress(),
			Flying:   g.anim.Active(),
		},
	}

	for _, m := range snap.Countries {
		s.Countries = append(s.Countries, CountryState{
			Key:       m.Key,
			Name:      m.Name,
			IsoA2:     m.IsoA2,
			IsoA3:     m.IsoA3,
			Color:     hexColor(m.Material.Uniforms.Color),
			Opacity:   m.Material.Uniforms.Opacity,
			Triangles: m.Geometry.TriangleCount(),
		})
	}

	for i := range snap.Points {
		p := &snap.Points[i]
		s.Points = append(s.Points, PointState{
			Label:     p.Point.Label,
			Lat:       p.Point.Lat,
			Lng:       p.Point.Lng,
			Size:      p.Point.Size,
			Color:     hexColor(p.Point.Color),
			Highlight: p.Material.Uniforms.Highlight,
			Selected:  &p.Point == g.state.SelectedPoint,
			Hovered:   &p.Point == g.state.HoveredPoint,
		})
	}

	return s
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
