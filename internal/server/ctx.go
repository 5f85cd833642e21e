package server

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/woozymasta/travelglobe/assets"
	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/config"
	"github.com/woozymasta/travelglobe/internal/globe"
	"github.com/woozymasta/travelglobe/internal/locate"
	"github.com/woozymasta/travelglobe/internal/mesh"
	"github.com/woozymasta/travelglobe/internal/points"
	"github.com/woozymasta/travelglobe/internal/render"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"
)

const maxEvents = 32

// Event is a pick callback recorded for the viewer.
type Event struct {
	Time    time.Time `json:"time"`
	Kind    string    `json:"kind"`
	Country string    `json:"country,omitempty"`
	Name    string    `json:"name,omitempty"`
	Point   string    `json:"point,omitempty"`
	Frame   uint64    `json:"frame"`
}

// pendingInput collects requests between two frames.
type pendingInput struct {
	pointer *mgl64.Vec2
	drag    globe.Drag
	zoom    float64
	click   bool
	dragged bool
	down    bool
}

func (p *pendingInput) take(dt time.Duration) globe.Input {
	in := globe.Input{
		Pointer:     p.pointer,
		Click:       p.click,
		Zoom:        p.zoom,
		Interacting: p.down,
		Dt:          dt,
	}
	if p.dragged {
		d := p.drag
		in.Drag = &d
	}

	// the pointer stays where it is; one-shot inputs are consumed
	p.click = false
	p.dragged = false
	p.drag = globe.Drag{}
	p.zoom = 0
	return in
}

// ServerContext holds dependencies for request handlers and owns the frame loop.
// Every access to the globe happens under mu.
type ServerContext struct {
	globe    *globe.Globe
	renderer *render.Renderer
	locator  *locate.Locator
	format   render.Format
	input    pendingInput
	frame    []byte
	events   []Event

	IndexHTML []byte
	Favicon   []byte

	mu        sync.Mutex
	renderMu  sync.Mutex
	rendered  uint64
	queued    uint64
	published uint64
	quality   int
}

// NewServerContext wires the globe, renderer and page together.
func NewServerContext(cfg *config.Config, g *globe.Globe, loc *locate.Locator) (*ServerContext, error) {
	format, err := render.ParseFormat(cfg.Render.Format)
	if err != nil {
		return nil, err
	}

	bg, err := render.ParseHex(cfg.Render.Background)
	if err != nil {
		return nil, err
	}
	ocean, err := render.ParseHex(cfg.Render.Ocean)
	if err != nil {
		return nil, err
	}

	views := make([]string, 0, 4)
	for _, v := range []colorize.View{colorize.ViewAdvisories, colorize.ViewVisa, colorize.ViewMichelin, colorize.ViewAirports} {
		views = append(views, v.String())
	}

	m := NewMinifier()
	index, err := BuildIndex(m, PageData{
		Title:   "Travel globe",
		Views:   views,
		Width:   cfg.Render.Width,
		Height:  cfg.Render.Height,
		Visitor: loc.Enabled(),
	})
	if err != nil {
		return nil, err
	}

	icon, err := m.Bytes("image/svg+xml", []byte(assets.Favicon))
	if err != nil {
		return nil, err
	}

	s := &ServerContext{
		globe:   g,
		locator: loc,
		format:  format,
		quality: cfg.Render.Quality,
		renderer: render.New(render.Options{
			Width:       cfg.Render.Width,
			Height:      cfg.Render.Height,
			Supersample: cfg.Render.Supersample,
			Background:  bg,
			Ocean:       ocean,
		}),
		IndexHTML: index,
		Favicon:   icon,
	}
	s.globe.SetHandlers(s.handlers())

	log.Info().
		Str("format", string(format)).
		Int("width", cfg.Render.Width).
		Int("height", cfg.Render.Height).
		Bool("geoip", loc.Enabled()).
		Int("index_bytes", len(index)).
		Msg("Server context initialized successfully")

	return s, nil
}

// handlers records pick callbacks as events. They run inside Step, so mu is held.
func (s *ServerContext) handlers() globe.Handlers {
	return globe.Handlers{
		OnCountryClick: func(key, name string) {
			s.record(Event{Kind: "country_click", Country: key, Name: name})
		},
		OnCountryHover: func(key, name string) {
			s.record(Event{Kind: "country_hover", Country: key, Name: name})
		},
		OnPointClick: func(p points.GlobePoint) {
			s.record(Event{Kind: "point_click", Point: p.Label})
		},
		OnPointHover: func(p *points.GlobePoint) {
			e := Event{Kind: "point_hover"}
			if p != nil {
				e.Point = p.Label
			}
			s.record(e)
		},
	}
}

func (s *ServerContext) record(e Event) {
	e.Time = time.Now()
	e.Frame = s.globe.Frame()
	log.Debug().
		Str("kind", e.Kind).
		Str("country", e.Country).
		Str("point", e.Point).
		Msg("Globe event")

	s.events = append(s.events, e)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
}

// frameJob is a detached copy of the scene, rendered without holding mu.
type frameJob struct {
	snap   *mesh.Snapshot
	cam    camera.Camera
	radius float64
	seq    uint64
}

// Tick steps one frame and re-renders the image when the scene changed.
// Only the step holds mu; rasterizing and encoding run on a copy so input
// handlers are not blocked by them.
func (s *ServerContext) Tick(dt time.Duration) globe.Output {
	out, job := s.step(dt)
	if job == nil {
		return out
	}

	frame, err := s.encode(job)
	if err != nil {
		log.Error().Err(err).Msg("Failed to render frame")
		return out
	}
	s.publish(job, frame)
	return out
}

func (s *ServerContext) step(dt time.Duration) (globe.Output, *frameJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.globe.Camera().Position
	out := s.globe.Step(s.input.take(dt))
	moved := s.globe.Camera().Position != before

	if s.frame != nil && !out.Rebuilt && !out.Recolored && !moved {
		return out, nil
	}

	s.queued++
	return out, &frameJob{
		snap:   s.globe.Snapshot().Clone(),
		cam:    *s.globe.Camera(),
		radius: s.globe.Options().Radius,
		seq:    s.queued,
	}
}

// encode draws and encodes a job. The renderer reuses its buffers, so
// renderMu serializes callers.
func (s *ServerContext) encode(job *frameJob) ([]byte, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	img := s.renderer.Draw(&job.cam, job.snap, job.radius)

	var buf bytes.Buffer
	if err := render.Encode(&buf, img, s.format, s.quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// publish stores an encoded frame unless a newer one is already out.
func (s *ServerContext) publish(job *frameJob, frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.seq <= s.published {
		return
	}
	s.published = job.seq
	s.frame = frame
	s.rendered++
}

// Run drives the frame loop at fps until ctx is done.
func (s *ServerContext) Run(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = 30
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	log.Info().Int("fps", fps).Msg("Frame loop started")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Frame loop stopped")
			return
		case now := <-ticker.C:
			s.Tick(now.Sub(last))
			last = now
		}
	}
}
