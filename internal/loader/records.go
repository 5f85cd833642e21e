package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/woozymasta/travelglobe/internal/dataset"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Format is a record file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the encoding from the file extension of a path or URL.
func FormatOf(source string) (Format, error) {
	p := source
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported record file %q", source)
}

// DecodeRecords reads one record document. Any subset of the Records keys
// may be present.
func DecodeRecords(r io.Reader, format Format) (dataset.Records, error) {
	var rec dataset.Records

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&rec); err != nil {
			return rec, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&rec); err != nil && err != io.EOF {
			return rec, err
		}
	default:
		return rec, fmt.Errorf("unknown format %q", format)
	}

	return rec, nil
}

// Merge appends b to a.
func Merge(a, b dataset.Records) dataset.Records {
	a.Advisories = append(a.Advisories, b.Advisories...)
	a.VisaRules = append(a.VisaRules, b.VisaRules...)
	a.Airports = append(a.Airports, b.Airports...)
	a.Restaurants = append(a.Restaurants, b.Restaurants...)
	a.Countries = append(a.Countries, b.Countries...)
	return a
}

type recordJob struct {
	source string
	index  int
}

type recordResult struct {
	err     error
	records dataset.Records
	index   int
}

// LoadRecords fetches every source with up to concurrency workers and
// merges them in source order. The first failing source aborts the load.
func LoadRecords(client *http.Client, sources []string, concurrency int) (dataset.Records, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	jobs := make(chan recordJob, len(sources))
	results := make(chan recordResult, len(sources))

	for i, s := range sources {
		jobs <- recordJob{source: s, index: i}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(sources); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				rec, err := loadRecordFile(client, j.source)
				results <- recordResult{index: j.index, records: rec, err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	ordered := make([]dataset.Records, len(sources))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("load %s: %w", sources[res.index], res.err)
			}
			continue
		}
		ordered[res.index] = res.records
	}
	if firstErr != nil {
		return dataset.Records{}, firstErr
	}

	var out dataset.Records
	for _, r := range ordered {
		out = Merge(out, r)
	}

	log.Info().
		Int("files", len(sources)).
		Int("advisories", len(out.Advisories)).
		Int("visa_rules", len(out.VisaRules)).
		Int("airports", len(out.Airports)).
		Int("restaurants", len(out.Restaurants)).
		Int("countries", len(out.Countries)).
		Msg("Records loaded")

	return out, nil
}

func loadRecordFile(client *http.Client, source string) (dataset.Records, error) {
	format, err := FormatOf(source)
	if err != nil {
		return dataset.Records{}, err
	}

	rc, err := Open(client, source)
	if err != nil {
		return dataset.Records{}, err
	}
	defer func() { _ = rc.Close() }()

	return DecodeRecords(rc, format)
}
