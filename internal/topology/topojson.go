// Package topology decodes TopoJSON world boundaries into boundary features.
package topology

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/orb"
)

var (
	// ErrNotTopology is returned when the document is not a TopoJSON topology.
	ErrNotTopology = errors.New("document is not a topology")
	// ErrObjectNotFound is returned when the requested object is missing.
	ErrObjectNotFound = errors.New("topology object not found")
	// ErrArcIndex is returned when a geometry references a missing arc.
	ErrArcIndex = errors.New("arc index out of range")
)

// Topology is a decoded TopoJSON document. Shared borders are stored once in
// Arcs and referenced by index from every object geometry.
type Topology struct {
	Transform *Transform         `json:"transform,omitempty"`
	Objects   map[string]*Object `json:"objects"`
	Type      string             `json:"type"`
	BBox      []float64          `json:"bbox,omitempty"`
	Arcs      [][][]float64      `json:"arcs"`

	decoded []orb.LineString
}

// Transform dequantizes integer positions: p = q * Scale + Translate.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Object is one TopoJSON geometry object. Arcs holds int, []int, [][]int
// or [][][]int depending on Type, so it is kept raw until assembly.
type Object struct {
	ID          any             `json:"id,omitempty"`
	Properties  map[string]any  `json:"properties,omitempty"`
	Type        string          `json:"type"`
	Arcs        json.RawMessage `json:"arcs,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  []*Object       `json:"geometries,omitempty"`
}

// Decode reads a TopoJSON document and dequantizes its arcs.
func Decode(r io.Reader) (*Topology, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}
	if t.Type != "Topology" {
		return nil, fmt.Errorf("%w: type %q", ErrNotTopology, t.Type)
	}

	t.decoded = make([]orb.LineString, len(t.Arcs))
	for i, arc := range t.Arcs {
		t.decoded[i] = t.decodeArc(arc)
	}

	return &t, nil
}

// ObjectNames lists the top-level objects of the topology.
func (t *Topology) ObjectNames() []string {
	out := make([]string, 0, len(t.Objects))
	for name := range t.Objects {
		out = append(out, name)
	}
	return out
}

// ArcCount is the number of shared arcs.
func (t *Topology) ArcCount() int {
	return len(t.decoded)
}

// decodeArc converts a raw arc into absolute [lng, lat] positions.
// Quantized topologies store the first position absolute and the rest as deltas.
func (t *Topology) decodeArc(raw [][]float64) orb.LineString {
	ls := make(orb.LineString, 0, len(raw))

	var x, y float64
	for _, p := range raw {
		if len(p) < 2 {
			continue
		}
		if t.Transform == nil {
			ls = append(ls, orb.Point{p[0], p[1]})
			continue
		}
		x += p[0]
		y += p[1]
		ls = append(ls, t.position(x, y))
	}

	return ls
}

func (t *Topology) position(x, y float64) orb.Point {
	if t.Transform == nil {
		return orb.Point{x, y}
	}
	return orb.Point{
		x*t.Transform.Scale[0] + t.Transform.Translate[0],
		y*t.Transform.Scale[1] + t.Transform.Translate[1],
	}
}

// arcSet resolves signed arc references against one version of the arcs,
// either as decoded or after simplification.
type arcSet []orb.LineString

// line concatenates the referenced arcs. A negative index ^i walks arc i
// backwards; the shared joint between consecutive arcs is emitted once.
func (a arcSet) line(refs []int) (orb.LineString, error) {
	var out orb.LineString

	for k, ref := range refs {
		idx, reversed := ref, false
		if ref < 0 {
			idx, reversed = ^ref, true
		}
		if idx < 0 || idx >= len(a) {
			return nil, fmt.Errorf("%w: %d", ErrArcIndex, ref)
		}

		arc := a[idx]
		n := len(arc)
		for j := 0; j < n; j++ {
			if k > 0 && j == 0 {
				continue
			}
			if reversed {
				out = append(out, arc[n-1-j])
			} else {
				out = append(out, arc[j])
			}
		}
	}

	return out, nil
}

func (a arcSet) ring(refs []int) (orb.Ring, error) {
	ls, err := a.line(refs)
	if err != nil {
		return nil, err
	}
	return orb.Ring(ls), nil
}

// point decodes a Point/MultiPoint position; these are quantized but never delta-encoded.
func (t *Topology) point(raw []float64) (orb.Point, bool) {
	if len(raw) < 2 {
		return orb.Point{}, false
	}
	return t.position(raw[0], raw[1]), true
}
