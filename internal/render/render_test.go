package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/geo"
	"github.com/woozymasta/travelglobe/internal/mesh"
	"github.com/woozymasta/travelglobe/internal/names"
	"github.com/woozymasta/travelglobe/internal/points"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	background = color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	ocean      = color.NRGBA{R: 10, G: 20, B: 90, A: 255}
	red        = color.NRGBA{R: 255, A: 255}
	blue       = color.NRGBA{B: 255, A: 255}
)

func testScene(t *testing.T) (*camera.Camera, *mesh.Registry) {
	t.Helper()
	reg := mesh.NewRegistry(100, 1.001, names.New())
	reg.RebuildCountries([]geo.BoundaryFeature{{
		Name:     "Alpha",
		Geometry: orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
	}})

	m, ok := reg.Snapshot().Lookup("alpha")
	require.True(t, ok)
	m.Material = mesh.Material{Program: mesh.ProgramCountry, Uniforms: mesh.Uniforms{Color: red, Opacity: 1}}

	return camera.New(geo.LatLngToVector(3, 6, 250), 50, 4.0/3.0), reg
}

func TestDrawScene(t *testing.T) {
	cam, reg := testScene(t)
	r := New(Options{Width: 160, Height: 120, Supersample: 1, Background: background, Ocean: ocean})

	img := r.Draw(cam, reg.Snapshot(), 100)
	require.Equal(t, 160, img.Bounds().Dx())
	require.Equal(t, 120, img.Bounds().Dy())

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(80, 60), "country at center")
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, img.RGBAAt(1, 1), "background in the corner")

	// globe edge is at ~23.6 deg of a 25 deg half field of view; just inside it is ocean
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 90, A: 255}, img.RGBAAt(80, 5))
}

func TestDrawPointOnTop(t *testing.T) {
	cam, reg := testScene(t)
	reg.ReplacePoints([]points.GlobePoint{{
		Label:    "marker",
		Position: geo.LatLngToVector(3, 6, 100),
		Radius:   3,
		Color:    blue,
	}})

	r := New(Options{Width: 160, Height: 120, Supersample: 1, Background: background, Ocean: ocean})
	img := r.Draw(cam, reg.Snapshot(), 100)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(80, 60))
}

func TestDrawSupersampled(t *testing.T) {
	cam, reg := testScene(t)
	r := New(Options{Width: 64, Height: 48, Supersample: 3, Background: background, Ocean: ocean})

	img := r.Draw(cam, reg.Snapshot(), 100)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	c := img.RGBAAt(32, 24)
	assert.Greater(t, int(c.R), 200)

	// drawing twice reuses the buffer without leaking the old frame
	cam.Position = geo.LatLngToVector(-40, -120, 250)
	cam.LookAt(geo.LatLngToVector(0, 0, 0))
	img = r.Draw(cam, reg.Snapshot(), 100)
	assert.Less(t, int(img.RGBAAt(32, 24).R), 50)
}

func TestDrawEmpty(t *testing.T) {
	r := New(Options{})
	assert.Equal(t, 1280, r.Options().Width)

	cam := camera.New(geo.LatLngToVector(0, 0, 250), 50, 16.0/9.0)
	img := r.Draw(cam, nil, 100)
	assert.Equal(t, 720, img.Bounds().Dy())
}

func TestEncode(t *testing.T) {
	cam, reg := testScene(t)
	img := New(Options{Width: 32, Height: 24, Supersample: 1, Background: background, Ocean: ocean}).Draw(cam, reg.Snapshot(), 100)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatPNG, 0))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatWebP, 80))
	assert.Equal(t, "RIFF", buf.String()[:4])

	assert.Error(t, Encode(&buf, img, "gif", 0))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" WebP ")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, f)
	assert.Equal(t, "image/webp", f.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())

	_, err = ParseFormat("bmp")
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#0f172a", color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}},
		{"fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#11223380", color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "#12", "#zzzzzz"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}
