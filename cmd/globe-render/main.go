package main

import (
	"os"
	"time"

	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/config"
	"github.com/woozymasta/travelglobe/internal/globe"
	"github.com/woozymasta/travelglobe/internal/loader"
	"github.com/woozymasta/travelglobe/internal/logger"
	"github.com/woozymasta/travelglobe/internal/names"
	"github.com/woozymasta/travelglobe/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Output      string   `short:"o" long:"out"                            description:"Output image path" default:"globe.png"`
	View        string   `short:"v" long:"view"                           description:"View to render, overrides config" choice:"advisories" choice:"visa" choice:"michelin" choice:"airports"`
	Select      string   `short:"s" long:"select"                         description:"Country to select (name, alias or ISO code)"`
	Focus       string   `short:"F" long:"focus"                          description:"Country to fly to before rendering"`
	Records     []string `short:"r" long:"records"     env:"RECORD_FILES" env-delim:"," description:"Record files, added to those in config"`
	Format      string   `short:"f" long:"format"                         description:"Image format, overrides config" choice:"png" choice:"webp"`
	Lat         *float64 `long:"lat"                                      description:"Point of view latitude"`
	Lng         *float64 `long:"lng"                                      description:"Point of view longitude"`
	Altitude    float64  `long:"altitude"                                 description:"Point of view altitude in globe radii"`
	Frames      int      `short:"n" long:"frames"                         description:"Frames to simulate before the snapshot" default:"60"`
	FPS         int      `long:"fps"                                      description:"Simulated frame rate" default:"60"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY"  description:"Record files fetched in parallel" default:"4"`
}

func main() {
	_ = godotenv.Load(".env")

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	view := cfg.InitialView()
	if opts.View != "" {
		if view, err = colorize.ParseView(opts.View); err != nil {
			log.Fatal().Err(err).Msg("Invalid view")
		}
	}

	format, err := render.ParseFormat(cfg.Render.Format)
	if opts.Format != "" {
		format, err = render.ParseFormat(opts.Format)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid image format")
	}

	client := loader.NewClient(30 * time.Second)

	features, _, err := loader.LoadFeatures(client, cfg.Topology.Source, cfg.Topology.Object, cfg.Topology.Tolerance)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Topology.Source).Msg("Failed to load topology")
	}

	records, err := loader.LoadRecords(client, append(cfg.Records, opts.Records...), opts.Concurrency)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load records")
	}

	cfg.Globe.Aspect = float64(cfg.Render.Width) / float64(cfg.Render.Height)
	g := globe.New(cfg.Globe, names.New(names.DefaultAliases, cfg.Aliases))
	g.SetFeatures(features)
	g.SetRecords(records)
	g.SetView(view)

	// build meshes before resolving countries
	g.Step(globe.Input{})

	if opts.Select != "" && !g.Select(opts.Select) {
		log.Warn().Str("country", opts.Select).Msg("Country to select not found")
	}
	if opts.Focus != "" {
		g.FocusCountry(opts.Focus)
	}
	if opts.Lat != nil && opts.Lng != nil {
		g.PointOfView(camera.Target{
			Lat:      *opts.Lat,
			Lng:      *opts.Lng,
			Altitude: opts.Altitude,
			Duration: cfg.Globe.FlightDuration,
		})
	}

	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	// one frame at least, so a requested flight gets started
	if opts.Frames < 1 {
		opts.Frames = 1
	}
	dt := time.Second / time.Duration(opts.FPS)

	var out globe.Output
	for i := 0; i < opts.Frames; i++ {
		out = g.Step(globe.Input{Dt: dt})
	}

	// land a flight that is still in the air
	for g.Flying() {
		out = g.Step(globe.Input{Dt: dt})
	}

	report := g.JoinReport()
	log.Info().
		Uint64("frames", out.Frame).
		Int("advisories_matched", report.Matched).
		Int("advisories_unmatched", len(report.Unmatched)).
		Int("advisories_duplicates", len(report.Duplicates)).
		Str("selected", g.ViewState().SelectedCountry).
		Msg("Scene ready")

	bg, err := render.ParseHex(cfg.Render.Background)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid background color")
	}
	ocean, err := render.ParseHex(cfg.Render.Ocean)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid ocean color")
	}

	r := render.New(render.Options{
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		Supersample: cfg.Render.Supersample,
		Background:  bg,
		Ocean:       ocean,
	})
	img := r.Draw(g.Camera(), g.Snapshot(), g.Options().Radius)

	f, err := os.Create(opts.Output)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to create output")
	}

	if err := render.Encode(f, img, format, cfg.Render.Quality); err != nil {
		_ = f.Close()
		log.Fatal().Err(err).Msg("Failed to encode image")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("Failed to write image")
	}

	log.Info().
		Str("path", opts.Output).
		Str("format", string(format)).
		Str("view", view.String()).
		Msg("Snapshot written")
}
