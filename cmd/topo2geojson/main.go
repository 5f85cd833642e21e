package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/travelglobe/internal/geo"
	"github.com/woozymasta/travelglobe/internal/loader"
	"github.com/woozymasta/travelglobe/internal/topology"

	"github.com/jessevdk/go-flags"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input     string  `short:"i" long:"in" description:"Input TopoJSON path or URL. Reads from stdin if empty"`
	Output    string  `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Object    string  `short:"O" long:"object" description:"Topology object holding the countries" default:"countries"`
	Format    string  `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Tolerance float64 `short:"t" long:"tolerance" description:"Simplification tolerance in degrees, 0 disables it" default:"0"`
	Minify    bool    `short:"m" long:"minify" description:"Minify JSON output"`
	Stats     bool    `short:"s" long:"stats" description:"Print processing stats to stderr"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Tolerance < 0 {
		fmt.Fprintln(os.Stderr, "Error: --tolerance must be >= 0")
		os.Exit(1)
	}

	var (
		features []geo.BoundaryFeature
		stats    topology.Stats
		err      error
	)

	if opts.Input != "" {
		features, stats, err = loader.LoadFeatures(loader.NewClient(time.Minute), opts.Input, opts.Object, opts.Tolerance)
	} else {
		var topo *topology.Topology
		topo, err = topology.Decode(os.Stdin)
		if err == nil {
			features, stats, err = topology.Processor{Tolerance: opts.Tolerance}.Process(topo, opts.Object)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading topology: %v\n", err)
		os.Exit(1)
	}

	fc := geo.FeatureCollection(features)

	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = toYAML(fc)
	} else if opts.Minify {
		outputData, err = json.Marshal(fc)
		if err == nil {
			m := minify.New()
			m.AddFunc("application/json", mjson.Minify)
			outputData, err = m.Bytes("application/json", outputData)
		}
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Stats {
		fmt.Fprintf(os.Stderr,
			"features=%d dropped=%d rings=%d unsimplified=%d rings_dropped=%d vertices=%d->%d\n",
			stats.Features, stats.Dropped, stats.Rings, stats.RingsUnsimplified,
			stats.RingsDropped, stats.VerticesBefore, stats.VerticesAfter)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d countries to %s (format: %s)\n", len(fc.Features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// toYAML goes through JSON so geometries keep their GeoJSON shape.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}
