// Package geo handles boundary features and coordinate conversions.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BoundaryFeature is one country outline decoded from the world topology.
// Name is the identity key; coordinates are [lng, lat] WGS84 degrees.
type BoundaryFeature struct {
	Geometry orb.Geometry `json:"geometry" yaml:"-"`
	Name     string       `json:"name" yaml:"name"`
	IsoA2    string       `json:"iso_a2,omitempty" yaml:"iso_a2,omitempty"`
	IsoA3    string       `json:"iso_a3,omitempty" yaml:"iso_a3,omitempty"`
}

// Polygons returns the polygons of a Polygon or MultiPolygon feature.
// Any other geometry type yields nil.
func (f BoundaryFeature) Polygons() []orb.Polygon {
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return []orb.Polygon(g)
	default:
		return nil
	}
}

// VertexCount is the total number of ring vertices of the feature.
func (f BoundaryFeature) VertexCount() int {
	n := 0
	for _, p := range f.Polygons() {
		for _, r := range p {
			n += len(r)
		}
	}
	return n
}

// FeatureCollection converts features into a GeoJSON collection.
// Name and ISO codes are stored in the feature properties.
func FeatureCollection(features []BoundaryFeature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}

		gf := geojson.NewFeature(f.Geometry)
		gf.Properties["name"] = f.Name
		if f.IsoA2 != "" {
			gf.Properties["iso_a2"] = f.IsoA2
		}
		if f.IsoA3 != "" {
			gf.Properties["iso_a3"] = f.IsoA3
		}
		fc.Append(gf)
	}

	return fc
}
