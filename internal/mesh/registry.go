package mesh

import (
	"image/color"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/woozymasta/travelglobe/internal/geo"
	"github.com/woozymasta/travelglobe/internal/names"
	"github.com/woozymasta/travelglobe/internal/points"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// ID indexes a slot of the registry arena. IDs are stable for the lifetime
// of one snapshot.
type ID int

// Kind tags what a pickable slot refers to.
type Kind uint8

const (
	KindCountry Kind = iota + 1
	KindPoint
)

// Pickable is the typed identity recovered from a hit test.
// Exactly one of Country and Point is set, according to Kind.
type Pickable struct {
	Point   *points.GlobePoint
	Country string
	Kind    Kind
}

// CountryMesh is the renderable, pickable mesh of one country.
// Geometry is written only by the registry; Material only by the colorizer.
type CountryMesh struct {
	Geometry *Geometry
	Key      string
	Name     string
	IsoA2    string
	IsoA3    string
	Source   geo.BoundaryFeature
	Pick     Pickable
	Material Material
	ID       ID
}

// PointPrimitive is the renderable, pickable form of a GlobePoint.
type PointPrimitive struct {
	Pick     Pickable
	Point    points.GlobePoint
	Material Material
	ID       ID
}

// Snapshot is one consistent generation of the registry. Readers holding a
// snapshot never observe a half-built arena.
type Snapshot struct {
	byKey     map[string]ID
	byISO     map[string]ID
	resolver  names.Resolver
	Countries []CountryMesh
	Points    []PointPrimitive
	Version   uint64
}

// Lookup returns the mesh with the given key.
func (s *Snapshot) Lookup(key string) (*CountryMesh, bool) {
	id, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return &s.Countries[id], true
}

// ResolveKey maps a country name, alias or ISO code to a mesh key.
func (s *Snapshot) ResolveKey(nameOrCode string) (string, bool) {
	if s.resolver != nil {
		if id, ok := s.byKey[s.resolver.Key(nameOrCode)]; ok {
			return s.Countries[id].Key, true
		}
	}
	if id, ok := s.byISO[strings.ToUpper(strings.TrimSpace(nameOrCode))]; ok {
		return s.Countries[id].Key, true
	}
	return "", false
}

// Keys lists all country keys in arena order.
func (s *Snapshot) Keys() []string {
	out := make([]string, len(s.Countries))
	for i := range s.Countries {
		out[i] = s.Countries[i].Key
	}
	return out
}

// Clone copies the snapshot so its materials can be read while the
// colorizer keeps writing the original. Geometry is shared; it is never
// written after a rebuild.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Countries = append([]CountryMesh(nil), s.Countries...)
	c.Points = make([]PointPrimitive, len(s.Points))
	for i := range s.Points {
		c.Points[i] = s.Points[i]
		c.Points[i].Pick.Point = &c.Points[i].Point
	}
	return &c
}

// BuildStats reports what a country rebuild produced.
type BuildStats struct {
	Meshes      int
	Unsupported int
	Merged      int
}

// Registry owns the country meshes and point primitives. Rebuilds assemble
// a new snapshot off to the side and publish it with one atomic swap.
type Registry struct {
	current  atomic.Pointer[Snapshot]
	resolver names.Resolver
	// radius of the base sphere; meshes sit at radius*offset
	radius float64
	offset float64
}

// NewRegistry creates an empty registry.
func NewRegistry(radius, offset float64, resolver names.Resolver) *Registry {
	if offset <= 1 {
		offset = 1.001
	}
	if resolver == nil {
		resolver = names.New()
	}

	r := &Registry{radius: radius, offset: offset, resolver: resolver}
	r.current.Store(&Snapshot{
		byKey:    map[string]ID{},
		byISO:    map[string]ID{},
		resolver: resolver,
	})
	return r
}

// Snapshot returns the current generation.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// MeshRadius is the radius country meshes are projected at.
func (r *Registry) MeshRadius() float64 {
	return r.radius * r.offset
}

// GlobeRadius is the radius of the base sphere.
func (r *Registry) GlobeRadius() float64 {
	return r.radius
}

// DefaultCountryMaterial is applied to freshly built meshes until the
// colorizer runs.
var DefaultCountryMaterial = Material{
	Program:  ProgramCountry,
	Uniforms: Uniforms{Color: color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}, Opacity: 0.3},
}

// RebuildCountries replaces every country mesh. Features sharing a
// normalized key are merged into one mesh; features the geometry builder
// rejects are skipped.
func (r *Registry) RebuildCountries(features []geo.BoundaryFeature) BuildStats {
	var stats BuildStats

	order := make([]string, 0, len(features))
	grouped := make(map[string]geo.BoundaryFeature, len(features))
	for _, f := range features {
		key := r.resolver.Key(f.Name)
		if key == "" {
			continue
		}

		prev, ok := grouped[key]
		if !ok {
			f.Name = r.resolver.Canonical(f.Name)
			grouped[key] = f
			order = append(order, key)
			continue
		}

		log.Debug().Str("country", f.Name).Msg("Merging boundary features with the same key")
		prev.Geometry = mergePolygons(prev.Geometry, f.Geometry)
		if prev.IsoA2 == "" {
			prev.IsoA2 = f.IsoA2
		}
		if prev.IsoA3 == "" {
			prev.IsoA3 = f.IsoA3
		}
		grouped[key] = prev
		stats.Merged++
	}

	old := r.current.Load()
	next := &Snapshot{
		byKey:     make(map[string]ID, len(order)),
		byISO:     make(map[string]ID, 2*len(order)),
		resolver:  r.resolver,
		Countries: make([]CountryMesh, 0, len(order)),
		Points:    old.Points,
		Version:   old.Version + 1,
	}

	for _, key := range order {
		f := grouped[key]
		g := BuildGeometry(f, r.MeshRadius())
		if g == nil {
			stats.Unsupported++
			continue
		}

		id := ID(len(next.Countries))
		next.Countries = append(next.Countries, CountryMesh{
			ID:       id,
			Key:      key,
			Name:     f.Name,
			IsoA2:    f.IsoA2,
			IsoA3:    f.IsoA3,
			Geometry: g,
			Material: DefaultCountryMaterial,
			Source:   f,
			Pick:     Pickable{Kind: KindCountry, Country: key},
		})
		next.byKey[key] = id
		for _, code := range []string{f.IsoA2, f.IsoA3} {
			if code != "" {
				next.byISO[strings.ToUpper(code)] = id
			}
		}
	}

	stats.Meshes = len(next.Countries)
	r.current.Store(next)

	log.Debug().
		Int("meshes", stats.Meshes).
		Int("unsupported", stats.Unsupported).
		Int("merged", stats.Merged).
		Uint64("version", next.Version).
		Msg("Country meshes rebuilt")

	return stats
}

// ReplacePoints swaps the whole point list. Country meshes are carried over.
func (r *Registry) ReplacePoints(pts []points.GlobePoint) {
	old := r.current.Load()
	next := &Snapshot{
		byKey:     old.byKey,
		byISO:     old.byISO,
		resolver:  old.resolver,
		Countries: old.Countries,
		Points:    make([]PointPrimitive, len(pts)),
		Version:   old.Version + 1,
	}

	for i := range pts {
		next.Points[i] = PointPrimitive{
			ID:    ID(i),
			Point: pts[i],
			Material: Material{
				Program:  ProgramPoint,
				Uniforms: Uniforms{Color: pts[i].Color, Opacity: 1},
			},
		}
		next.Points[i].Pick = Pickable{Kind: KindPoint, Point: &next.Points[i].Point}
	}

	r.current.Store(next)
}

// SortedKeys lists country keys alphabetically.
func (s *Snapshot) SortedKeys() []string {
	keys := s.Keys()
	sort.Strings(keys)
	return keys
}

func mergePolygons(a, b orb.Geometry) orb.Geometry {
	var mp orb.MultiPolygon
	for _, g := range []orb.Geometry{a, b} {
		switch v := g.(type) {
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		}
	}
	if len(mp) == 0 {
		return a
	}
	return mp
}
