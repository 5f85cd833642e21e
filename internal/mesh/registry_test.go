package mesh

import (
	"testing"

	"github.com/woozymasta/travelglobe/internal/geo"
	"github.com/woozymasta/travelglobe/internal/names"
	"github.com/woozymasta/travelglobe/internal/points"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(lng, lat float64) orb.Polygon {
	return orb.Polygon{ring([2]float64{lng, lat}, [2]float64{lng + 1, lat}, [2]float64{lng + 1, lat + 1}, [2]float64{lng, lat + 1})}
}

func testFeatures() []geo.BoundaryFeature {
	return []geo.BoundaryFeature{
		{Name: "France", IsoA2: "FR", IsoA3: "FRA", Geometry: box(2, 46)},
		{Name: "The Bahamas", Geometry: box(-77, 24)},
		{Name: "bahamas", IsoA2: "BS", Geometry: box(-78, 25)},
		{Name: "Border", Geometry: orb.LineString{{0, 0}, {1, 1}}},
		{Name: "Côte d'Ivoire", IsoA3: "CIV", Geometry: box(-5, 7)},
	}
}

func TestRegistryRebuild(t *testing.T) {
	reg := NewRegistry(100, 1.001, names.New(names.DefaultAliases))
	stats := reg.RebuildCountries(testFeatures())

	assert.Equal(t, BuildStats{Meshes: 3, Unsupported: 1, Merged: 1}, stats)

	snap := reg.Snapshot()
	assert.Equal(t, []string{"france", "bahamas", "cote divoire"}, snap.Keys())
	assert.Equal(t, []string{"bahamas", "cote divoire", "france"}, snap.SortedKeys())

	m, ok := snap.Lookup("bahamas")
	require.True(t, ok)
	assert.Equal(t, "Bahamas", m.Name)
	assert.Equal(t, "BS", m.IsoA2)
	assert.Equal(t, 4, m.Geometry.TriangleCount())
	assert.Equal(t, Pickable{Kind: KindCountry, Country: "bahamas"}, m.Pick)
	assert.Equal(t, DefaultCountryMaterial, m.Material)

	for i, c := range snap.Countries {
		assert.Equal(t, ID(i), c.ID)
		for _, v := range c.Geometry.Vertices {
			assert.InDelta(t, reg.MeshRadius(), v.Len(), 1e-9)
		}
	}
}

func TestRegistryResolveKey(t *testing.T) {
	reg := NewRegistry(100, 1.001, names.New(names.DefaultAliases))
	reg.RebuildCountries(testFeatures())
	snap := reg.Snapshot()

	for _, in := range []string{"France", "FRANCE", "fr", "FRA", "Ivory Coast", "civ", "Bahamas"} {
		_, ok := snap.ResolveKey(in)
		assert.True(t, ok, in)
	}

	key, _ := snap.ResolveKey("Ivory Coast")
	assert.Equal(t, "cote divoire", key)

	_, ok := snap.ResolveKey("Atlantis")
	assert.False(t, ok)
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	reg := NewRegistry(100, 0, nil)
	reg.RebuildCountries(testFeatures())
	before := reg.Snapshot()

	reg.RebuildCountries(testFeatures()[:1])
	after := reg.Snapshot()

	assert.Len(t, before.Countries, 3)
	assert.Len(t, after.Countries, 1)
	assert.Greater(t, after.Version, before.Version)
	assert.InDelta(t, 100.1, reg.MeshRadius(), 1e-12)
}

func TestRegistryReplacePoints(t *testing.T) {
	reg := NewRegistry(100, 1.001, nil)
	reg.RebuildCountries(testFeatures())

	pts := []points.GlobePoint{{Label: "A", Lat: 1, Lng: 2}, {Label: "B", Lat: 3, Lng: 4}}
	reg.ReplacePoints(pts)

	snap := reg.Snapshot()
	require.Len(t, snap.Points, 2)
	assert.Len(t, snap.Countries, 3)
	for i, p := range snap.Points {
		assert.Equal(t, ID(i), p.ID)
		assert.Equal(t, KindPoint, p.Pick.Kind)
		require.NotNil(t, p.Pick.Point)
		assert.Equal(t, pts[i].Label, p.Pick.Point.Label)
		assert.Equal(t, ProgramPoint, p.Material.Program)
	}

	reg.ReplacePoints(nil)
	assert.Empty(t, reg.Snapshot().Points)
	assert.Len(t, snap.Points, 2)
}

func TestSnapshotClone(t *testing.T) {
	reg := NewRegistry(100, 1.001, nil)
	reg.RebuildCountries(testFeatures())
	reg.ReplacePoints([]points.GlobePoint{{Label: "A", Lat: 1, Lng: 2}})

	snap := reg.Snapshot()
	c := snap.Clone()
	require.Len(t, c.Countries, len(snap.Countries))
	require.Len(t, c.Points, 1)
	assert.Equal(t, snap.Version, c.Version)

	snap.Countries[0].Material.Uniforms.Opacity = 0.123
	snap.Points[0].Material.Uniforms.Highlight = 1
	assert.NotEqual(t, 0.123, c.Countries[0].Material.Uniforms.Opacity)
	assert.Zero(t, c.Points[0].Material.Uniforms.Highlight)

	assert.Same(t, snap.Countries[0].Geometry, c.Countries[0].Geometry)
	assert.Same(t, &c.Points[0].Point, c.Points[0].Pick.Point)

	key := snap.Countries[0].Key
	m, ok := c.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, key, m.Key)
}
