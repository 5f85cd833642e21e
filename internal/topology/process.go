package topology

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/woozymasta/travelglobe/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/rs/zerolog/log"
)

// Stats summarizes one processing pass.
type Stats struct {
	Features          int `json:"features" yaml:"features"`
	Dropped           int `json:"dropped" yaml:"dropped"`
	Rings             int `json:"rings" yaml:"rings"`
	RingsUnsimplified int `json:"rings_unsimplified" yaml:"rings_unsimplified"`
	RingsDropped      int `json:"rings_dropped" yaml:"rings_dropped"`
	VerticesBefore    int `json:"vertices_before" yaml:"vertices_before"`
	VerticesAfter     int `json:"vertices_after" yaml:"vertices_after"`
}

// Processor turns a topology object into simplified boundary features.
type Processor struct {
	// Tolerance is the Douglas-Peucker threshold in degrees. Zero disables simplification.
	Tolerance float64
}

// Process reconstructs every geometry of the named object as a BoundaryFeature.
//
// Arcs are simplified once, before ring assembly, so borders shared by two
// countries stay identical on both sides. A ring that becomes invalid after
// simplification (collapsed, self-intersecting or flipped) is rebuilt from the
// original arcs. Features left with no usable ring are dropped with a warning.
func (p Processor) Process(t *Topology, object string) ([]geo.BoundaryFeature, Stats, error) {
	var stats Stats

	obj, ok := t.Objects[object]
	if !ok || obj == nil {
		return nil, stats, fmt.Errorf("%w: %q", ErrObjectNotFound, object)
	}

	original := arcSet(t.decoded)
	simplified := original
	if p.Tolerance > 0 {
		simplified = simplifyArcs(original, p.Tolerance)
	}

	geoms := obj.Geometries
	if obj.Type != "GeometryCollection" {
		geoms = []*Object{obj}
	}

	features := make([]geo.BoundaryFeature, 0, len(geoms))
	for i, g := range geoms {
		if g == nil {
			continue
		}

		f := geo.BoundaryFeature{
			Name:  featureName(g),
			IsoA2: stringProp(g.Properties, "ISO_A2", "iso_a2", "ISO_A2_EH"),
			IsoA3: stringProp(g.Properties, "ISO_A3", "iso_a3", "ADM0_A3"),
		}
		if f.Name == "" {
			log.Warn().Int("index", i).Msg("Boundary without name or id dropped")
			stats.Dropped++
			continue
		}

		geom, err := p.geometry(t, g, original, simplified, &stats)
		if err != nil {
			log.Warn().Err(err).Str("country", f.Name).Msg("Boundary geometry is malformed, dropped")
			stats.Dropped++
			continue
		}
		if geom == nil {
			log.Warn().Str("country", f.Name).Str("type", g.Type).Msg("Boundary has no usable rings, dropped")
			stats.Dropped++
			continue
		}

		f.Geometry = geom
		features = append(features, f)
	}

	stats.Features = len(features)
	log.Debug().
		Str("object", object).
		Int("features", stats.Features).
		Int("dropped", stats.Dropped).
		Int("vertices_before", stats.VerticesBefore).
		Int("vertices_after", stats.VerticesAfter).
		Int("rings_unsimplified", stats.RingsUnsimplified).
		Msg("Topology processed")

	return features, stats, nil
}

// geometry assembles one object. Polygon types return nil when no outer ring
// survives; other types pass through and are rejected later by the mesh builder.
func (p Processor) geometry(t *Topology, g *Object, original, simplified arcSet, stats *Stats) (orb.Geometry, error) {
	switch g.Type {
	case "Polygon":
		var refs [][]int
		if err := json.Unmarshal(g.Arcs, &refs); err != nil {
			return nil, fmt.Errorf("polygon arcs: %w", err)
		}
		poly, err := p.polygon(refs, original, simplified, stats)
		if err != nil || poly == nil {
			return nil, err
		}
		return poly, nil

	case "MultiPolygon":
		var refs [][][]int
		if err := json.Unmarshal(g.Arcs, &refs); err != nil {
			return nil, fmt.Errorf("multipolygon arcs: %w", err)
		}
		var mp orb.MultiPolygon
		for _, pr := range refs {
			poly, err := p.polygon(pr, original, simplified, stats)
			if err != nil {
				return nil, err
			}
			if poly != nil {
				mp = append(mp, poly)
			}
		}
		if len(mp) == 0 {
			return nil, nil
		}
		return mp, nil

	case "LineString":
		var refs []int
		if err := json.Unmarshal(g.Arcs, &refs); err != nil {
			return nil, fmt.Errorf("linestring arcs: %w", err)
		}
		ls, err := simplified.line(refs)
		if err != nil {
			return nil, err
		}
		return ls, nil

	case "MultiLineString":
		var refs [][]int
		if err := json.Unmarshal(g.Arcs, &refs); err != nil {
			return nil, fmt.Errorf("multilinestring arcs: %w", err)
		}
		var mls orb.MultiLineString
		for _, r := range refs {
			ls, err := simplified.line(r)
			if err != nil {
				return nil, err
			}
			mls = append(mls, ls)
		}
		return mls, nil

	case "Point":
		var raw []float64
		if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
			return nil, fmt.Errorf("point coordinates: %w", err)
		}
		if pt, ok := t.point(raw); ok {
			return pt, nil
		}
		return nil, nil

	case "MultiPoint":
		var raw [][]float64
		if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
			return nil, fmt.Errorf("multipoint coordinates: %w", err)
		}
		var mp orb.MultiPoint
		for _, r := range raw {
			if pt, ok := t.point(r); ok {
				mp = append(mp, pt)
			}
		}
		return mp, nil
	}

	// null geometries and unknown types have nothing to draw
	return nil, nil
}

// polygon assembles the rings of one polygon. A polygon whose outer ring is
// unusable is skipped; unusable holes are skipped on their own.
func (p Processor) polygon(refs [][]int, original, simplified arcSet, stats *Stats) (orb.Polygon, error) {
	var poly orb.Polygon

	for i, ringRefs := range refs {
		full, err := original.ring(ringRefs)
		if err != nil {
			return nil, err
		}
		stats.Rings++
		stats.VerticesBefore += len(full)

		if !usableRing(full) {
			stats.RingsDropped++
			if i == 0 {
				return nil, nil
			}
			continue
		}

		ring := full
		if p.Tolerance > 0 {
			reduced, err := simplified.ring(ringRefs)
			if err != nil {
				return nil, err
			}
			if validSimplification(full, reduced) {
				ring = reduced
			} else {
				stats.RingsUnsimplified++
			}
		}

		stats.VerticesAfter += len(ring)
		poly = append(poly, ring)
	}

	if len(poly) == 0 {
		return nil, nil
	}
	return poly, nil
}

func simplifyArcs(arcs arcSet, tolerance float64) arcSet {
	dp := simplify.DouglasPeucker(tolerance)

	out := make(arcSet, len(arcs))
	for i, arc := range arcs {
		if len(arc) <= 2 {
			out[i] = arc
			continue
		}
		out[i] = dp.LineString(arc.Clone())
	}

	return out
}

func featureName(g *Object) string {
	if name := stringProp(g.Properties, "name", "NAME", "ADMIN", "NAME_EN", "name_en"); name != "" {
		return name
	}

	switch id := g.ID.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}

	return ""
}

func stringProp(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := props[k].(string); ok {
			v = strings.TrimSpace(v)
			// Natural Earth marks missing codes with -99
			if v != "" && v != "-99" {
				return v
			}
		}
	}
	return ""
}
