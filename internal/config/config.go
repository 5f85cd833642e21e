// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/globe"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// Aliases extend the built-in country name table: variant -> canonical name.
	Aliases map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	Topology Topology      `yaml:"topology" json:"topology"`
	Render   Render        `yaml:"render" json:"render"`
	View     string        `yaml:"view,omitempty" json:"view,omitempty"`
	GeoIP    string        `yaml:"geoip,omitempty" json:"-"` // GeoLite2 City database path
	Records  []string      `yaml:"records,omitempty" json:"-"`
	Globe    globe.Options `yaml:"globe" json:"globe"`
}

// Topology names the boundary asset and how to reduce it.
type Topology struct {
	// Source is a local path or an http(s) URL.
	Source string `yaml:"source" json:"-"`
	// Object inside the topology holding the countries.
	Object string `yaml:"object,omitempty" json:"object"`
	// Tolerance is the simplification distance in degrees; 0 disables it.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// Render sets up headless snapshots.
type Render struct {
	Format     string `yaml:"format,omitempty" json:"format"` // png or webp
	Background string `yaml:"background,omitempty" json:"background"`
	Ocean      string `yaml:"ocean,omitempty" json:"ocean"`
	Width      int    `yaml:"width,omitempty" json:"width"`
	Height     int    `yaml:"height,omitempty" json:"height"`
	Quality    int    `yaml:"quality,omitempty" json:"quality"`
	// Supersample renders at this multiple of the size and scales down.
	Supersample int `yaml:"supersample,omitempty" json:"supersample"`
}

// Default returns the configuration used for anything the file leaves out.
func Default() *Config {
	return &Config{
		Topology: Topology{
			Object:    "countries",
			Tolerance: 0.25,
		},
		Render: Render{
			Format:      "png",
			Background:  "#020617",
			Ocean:       "#0f172a",
			Width:       1280,
			Height:      720,
			Quality:     85,
			Supersample: 2,
		},
		View:  colorize.ViewAdvisories.String(),
		Globe: globe.DefaultOptions(),
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Keys missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := colorize.ParseView(c.View); err != nil {
		return err
	}
	if c.Topology.Tolerance < 0 {
		return fmt.Errorf("topology tolerance must not be negative")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	switch c.Render.Format {
	case "png", "webp":
	default:
		return fmt.Errorf("unknown render format %q", c.Render.Format)
	}
	return nil
}

// InitialView returns the validated start view.
func (c *Config) InitialView() colorize.View {
	v, _ := colorize.ParseView(c.View)
	return v
}
