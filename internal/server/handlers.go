// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/woozymasta/travelglobe/internal/camera"
	"github.com/woozymasta/travelglobe/internal/colorize"
	"github.com/woozymasta/travelglobe/internal/globe"
	"github.com/woozymasta/travelglobe/internal/locate"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"
)

const maxBody = 1 << 16

// StateResponse is the state document polled by the viewer.
type StateResponse struct {
	globe.Scene
	Events   []Event `json:"events,omitempty"`
	Rendered uint64  `json:"rendered"`
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleFrame serves the latest rendered frame.
func (s *ServerContext) HandleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	frame, seq := s.frame, s.rendered
	s.mu.Unlock()

	if frame == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}

	etag := `"` + strconv.FormatUint(seq, 16) + `"`
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", s.format.ContentType())
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(frame)
}

// HandleState serves the scene, recent events and the render sequence.
func (s *ServerContext) HandleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StateResponse{
		Scene:    s.globe.State(),
		Events:   append([]Event(nil), s.events...),
		Rendered: s.rendered,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

type pointerRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Down  bool    `json:"down"`
	Leave bool    `json:"leave"`
}

// HandlePointer moves the pointer; hover is resolved on the next frame.
func (s *ServerContext) HandlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	if req.Leave {
		s.input.pointer = nil
		s.input.down = false
	} else {
		s.input.pointer = &mgl64.Vec2{clampNDC(req.X), clampNDC(req.Y)}
		s.input.down = req.Down
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// HandleClick queues a click at a pointer position.
func (s *ServerContext) HandleClick(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	s.input.pointer = &mgl64.Vec2{clampNDC(req.X), clampNDC(req.Y)}
	s.input.click = true
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// HandleDrag accumulates an orbit drag in degrees.
func (s *ServerContext) HandleDrag(w http.ResponseWriter, r *http.Request) {
	var req globe.Drag
	if !decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	s.input.drag.DX += req.DX
	s.input.drag.DY += req.DY
	s.input.dragged = true
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// HandleZoom multiplies the camera distance.
func (s *ServerContext) HandleZoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Factor float64 `json:"factor"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Factor <= 0 {
		http.Error(w, "factor must be positive", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.input.zoom == 0 {
		s.input.zoom = 1
	}
	s.input.zoom *= req.Factor
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// HandleView switches the active view.
func (s *ServerContext) HandleView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := colorize.ParseView(req.View)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.globe.SetView(v)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"view": v.String()})
}

type countryRequest struct {
	Country string `json:"country"`
}

// HandleSelect selects a country by name, alias or ISO code; empty clears.
func (s *ServerContext) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req countryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	ok := s.globe.Select(req.Country)
	selected := s.globe.ViewState().SelectedCountry
	s.mu.Unlock()

	if !ok {
		http.Error(w, "unknown country", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"selected": selected})
}

// HandleFocus flies to the centroid of a country.
func (s *ServerContext) HandleFocus(w http.ResponseWriter, r *http.Request) {
	var req countryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	ok := s.globe.FocusCountry(req.Country)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "country cannot be focused", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

type povRequest struct {
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Altitude   float64 `json:"altitude"`
	DurationMS int64   `json:"duration_ms"`
}

// HandlePointOfView starts a camera flight.
func (s *ServerContext) HandlePointOfView(w http.ResponseWriter, r *http.Request) {
	var req povRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 || req.DurationMS < 0 {
		http.Error(w, "invalid point of view", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.globe.PointOfView(camera.Target{
		Lat:      req.Lat,
		Lng:      req.Lng,
		Altitude: req.Altitude,
		Duration: time.Duration(req.DurationMS) * time.Millisecond,
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// HandleVisitor flies to the location of the requesting address.
func (s *ServerContext) HandleVisitor(w http.ResponseWriter, r *http.Request) {
	ip := locate.ClientIP(r)
	place, err := s.locator.Lookup(ip)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, locate.ErrDisabled) {
			status = http.StatusNotImplemented
		}
		log.Debug().Err(err).Str("ip", ip.String()).Msg("Visitor lookup failed")
		http.Error(w, err.Error(), status)
		return
	}

	s.mu.Lock()
	d := s.globe.Options().FlightDuration
	s.globe.PointOfView(camera.Target{Lat: place.Lat, Lng: place.Lng, Duration: d})
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, place)
}

// Routes registers every handler on a new mux.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.HandleState)
	mux.HandleFunc("GET /api/frame", s.HandleFrame)
	mux.HandleFunc("POST /api/pointer", s.HandlePointer)
	mux.HandleFunc("POST /api/click", s.HandleClick)
	mux.HandleFunc("POST /api/drag", s.HandleDrag)
	mux.HandleFunc("POST /api/zoom", s.HandleZoom)
	mux.HandleFunc("POST /api/view", s.HandleView)
	mux.HandleFunc("POST /api/select", s.HandleSelect)
	mux.HandleFunc("POST /api/focus", s.HandleFocus)
	mux.HandleFunc("POST /api/pov", s.HandlePointOfView)
	mux.HandleFunc("POST /api/visitor", s.HandleVisitor)
	mux.HandleFunc("GET /favicon.ico", s.HandleFavicon)
	mux.HandleFunc("GET /", s.HandleIndex)
	return mux
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func clampNDC(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
