package mesh

import "image/color"

// Program selects one of the fixed shader programs. Visual variations are
// expressed through Uniforms rather than new program types.
type Program uint8

const (
	ProgramCountry Program = iota
	ProgramPoint
)

func (p Program) String() string {
	switch p {
	case ProgramCountry:
		return "country"
	case ProgramPoint:
		return "point"
	}
	return "unknown"
}

// Uniforms are the per-instance values fed to a Program.
type Uniforms struct {
	Color   color.NRGBA `json:"color"`
	Opacity float64     `json:"opacity"`
	// Highlight in [0, 1] brightens hovered or selected markers.
	Highlight float64 `json:"highlight,omitempty"`
}

// Material binds uniforms to a program.
type Material struct {
	Program  Program  `json:"program"`
	Uniforms Uniforms `json:"uniforms"`
}

// Fill returns the uniform color with opacity applied as alpha.
func (m Material) Fill() color.NRGBA {
	c := m.Uniforms.Color
	o := m.Uniforms.Opacity
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	c.A = uint8(o*255 + 0.5)

	if h := m.Uniforms.Highlight; h > 0 {
		c.R = lighten(c.R, h)
		c.G = lighten(c.G, h)
		c.B = lighten(c.B, h)
	}
	return c
}

func lighten(v uint8, h float64) uint8 {
	if h > 1 {
		h = 1
	}
	return uint8(float64(v) + (255-float64(v))*h*0.5 + 0.5)
}
