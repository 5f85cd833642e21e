package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/travelglobe/internal/config"
	"github.com/woozymasta/travelglobe/internal/globe"
	"github.com/woozymasta/travelglobe/internal/loader"
	"github.com/woozymasta/travelglobe/internal/locate"
	"github.com/woozymasta/travelglobe/internal/logger"
	"github.com/woozymasta/travelglobe/internal/names"
	"github.com/woozymasta/travelglobe/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	GeoIP      string `short:"g" long:"geoip"  env:"GEOIP_DB"       description:"GeoLite2 City database, overrides config"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	FPS        int    `short:"f" long:"fps"    env:"FRAME_RATE"     description:"Frame loop rate"            default:"30"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.GeoIP != "" {
		cfg.GeoIP = opts.GeoIP
	}

	client := loader.NewClient(30 * time.Second)

	// the topology is fetched once; failing here is fatal
	features, _, err := loader.LoadFeatures(client, cfg.Topology.Source, cfg.Topology.Object, cfg.Topology.Tolerance)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Topology.Source).Msg("Failed to load topology")
	}

	records, err := loader.LoadRecords(client, cfg.Records, 4)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load records")
	}

	loc, err := locate.Open(cfg.GeoIP)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open GeoIP database")
	}
	defer func() { _ = loc.Close() }()

	cfg.Globe.Aspect = float64(cfg.Render.Width) / float64(cfg.Render.Height)
	g := globe.New(cfg.Globe, names.New(names.DefaultAliases, cfg.Aliases))
	g.SetFeatures(features)
	g.SetRecords(records)
	g.SetView(cfg.InitialView())

	srvCtx, err := server.NewServerContext(cfg, g, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// first frame builds the scene before any request arrives
	srvCtx.Tick(0)
	go srvCtx.Run(ctx, opts.FPS)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           server.RequestLogger(srvCtx.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("countries", len(features)).
		Int("fps", opts.FPS).
		Str("view", cfg.View).
		Msg("Web server started")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Web server stopped")
}
