// Package server exposes interactive graph sessions over HTTP. Each
// session owns a live view with a running simulation; clients pull SVG
// frames and push pointer events.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/calderviz/calder/config"
	"github.com/calderviz/calder/ingest"
	"github.com/calderviz/calder/physics"
	"github.com/calderviz/calder/style"
	"github.com/calderviz/calder/view"
)

// session pairs a live view with a frame-rate limiter so a misbehaving
// client cannot pull frames faster than the simulation produces them.
type session struct {
	view    *view.View
	limiter *rate.Limiter
	created time.Time
}

// Server hosts interactive graph sessions.
type Server struct {
	cfg    config.Config
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*session

	http *http.Server
}

// New creates a server from the given configuration.
func New(cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/graphs", s.handleCreate)
	r.Route("/graphs/{id}", func(r chi.Router) {
		r.Get("/frame", s.handleFrame)
		r.Post("/events", s.handleEvent)
		r.Post("/zoom", s.handleZoom)
		r.Delete("/", s.handleDelete)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return r
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully and destroys every live session.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
	defer cancel()
	err := s.http.Shutdown(shutCtx)

	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.view.Destroy()
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	s.logger.Info("server stopped")
	return err
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) get(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// handleCreate parses the posted graph document, mounts a view, starts
// its simulation, and returns the session id.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 10<<20)
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		httpError(w, http.StatusBadRequest, "reading graph document: %v", err)
		return
	}

	palette := style.DefaultPalette()
	if s.cfg.View.Palette == "midnight" {
		palette = style.MidnightPalette()
	}
	doc, err := ingest.NewJSONProcessor(palette).ProcessData(raw)
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}

	v, err := view.New(view.Option{
		Nodes:        doc.Nodes,
		Links:        doc.Links,
		Width:        s.cfg.View.Width,
		Height:       s.cfg.View.Height,
		FadeOpacity:  s.cfg.View.FadeOpacity,
		TickInterval: s.cfg.View.TickInterval(),
		Physics: physics.Config{
			Repulsion:      s.cfg.Physics.Repulsion,
			SpringLength:   s.cfg.Physics.SpringLength,
			CollideRadius:  s.cfg.Physics.CollideRadius,
			VelocityDecay:  s.cfg.Physics.VelocityDecay,
			AlphaDecay:     s.cfg.Physics.AlphaDecay,
			DriftAmplitude: s.cfg.Physics.DriftAmplitude,
		},
		Logger: s.logger,
	})
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err := v.UpdateSimulation(); err != nil {
		v.Destroy()
		httpError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	fps := s.cfg.Server.FramesPerSecond
	if fps <= 0 {
		fps = 60
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{
		view:    v,
		limiter: rate.NewLimiter(rate.Limit(fps), fps),
		created: time.Now(),
	}
	s.mu.Unlock()

	s.logger.Info("session created", "id", id, "graph", doc.Name, "nodes", len(doc.Nodes), "links", len(doc.Links))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id, "name": doc.Name})
}

// handleFrame serializes the session's current surface. Frame pulls are
// rate limited per session.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess := s.get(chi.URLParam(r, "id"))
	if sess == nil {
		httpError(w, http.StatusNotFound, "unknown session")
		return
	}
	if !sess.limiter.Allow() {
		httpError(w, http.StatusTooManyRequests, "frame rate exceeded")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(sess.view.Frame())
}

// eventRequest is the wire shape of a pointer event.
type eventRequest struct {
	Type string  `json:"type"`
	Node string  `json:"node,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// handleEvent applies a pointer event to the session's view.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess := s.get(chi.URLParam(r, "id"))
	if sess == nil {
		httpError(w, http.StatusNotFound, "unknown session")
		return
	}
	var ev eventRequest
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		httpError(w, http.StatusBadRequest, "reading event: %v", err)
		return
	}

	v := sess.view
	switch ev.Type {
	case "dragstart":
		v.OnDragStart(ev.Node)
	case "drag":
		v.OnDrag(ev.Node, view.PointerEvent{X: ev.X, Y: ev.Y})
	case "dragend":
		v.OnDragEnd(ev.Node)
	case "click":
		v.Click(ev.Node)
	case "mouseover":
		v.MouseOver(ev.Node)
	case "mouseout":
		v.MouseOut(ev.Node)
	case "background":
		v.BackgroundMouseOver(view.PointerEvent{X: ev.X, Y: ev.Y})
	case "select":
		v.SelectNode(ev.Node)
	case "unselect":
		v.UnselectNode()
	default:
		httpError(w, http.StatusBadRequest, "unknown event type: %s", ev.Type)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// zoomRequest is the wire shape of a viewport change.
type zoomRequest struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// handleZoom replaces the session's viewport transform.
func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	sess := s.get(chi.URLParam(r, "id"))
	if sess == nil {
		httpError(w, http.StatusNotFound, "unknown session")
		return
	}
	var z zoomRequest
	if err := json.NewDecoder(r.Body).Decode(&z); err != nil {
		httpError(w, http.StatusBadRequest, "reading zoom: %v", err)
		return
	}
	if z.Scale <= 0 {
		httpError(w, http.StatusBadRequest, "scale must be positive")
		return
	}
	sess.view.Zoom(z.Scale, z.TX, z.TY)
	w.WriteHeader(http.StatusNoContent)
}

// handleDelete tears the session down.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	sess := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if sess == nil {
		httpError(w, http.StatusNotFound, "unknown session")
		return
	}
	sess.view.Destroy()
	s.logger.Info("session destroyed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprintf(format, args...)})
}
