package loader

import (
	"fmt"
	"net/http"

	"github.com/woozymasta/travelglobe/internal/geo"
	"github.com/woozymasta/travelglobe/internal/topology"

	"github.com/rs/zerolog/log"
)

// LoadTopology fetches and decodes the topology once. Failures are returned
// as is; there is no retry.
func LoadTopology(client *http.Client, source string) (*topology.Topology, error) {
	rc, err := Open(client, source)
	if err != nil {
		return nil, fmt.Errorf("open topology: %w", err)
	}
	defer func() { _ = rc.Close() }()

	t, err := topology.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode topology %s: %w", source, err)
	}

	log.Info().
		Str("source", source).
		Int("arcs", t.ArcCount()).
		Strs("objects", t.ObjectNames()).
		Msg("Topology loaded")

	return t, nil
}

// LoadFeatures loads a topology and turns one of its objects into
// simplified boundary features.
func LoadFeatures(client *http.Client, source, object string, tolerance float64) ([]geo.BoundaryFeature, topology.Stats, error) {
	t, err := LoadTopology(client, source)
	if err != nil {
		return nil, topology.Stats{}, err
	}

	features, stats, err := topology.Processor{Tolerance: tolerance}.Process(t, object)
	if err != nil {
		return nil, stats, err
	}

	log.Info().
		Int("features", stats.Features).
		Int("dropped", stats.Dropped).
		Int("rings_unsimplified", stats.RingsUnsimplified).
		Int("vertices_before", stats.VerticesBefore).
		Int("vertices_after", stats.VerticesAfter).
		Msg("Boundaries processed")

	return features, stats, nil
}
