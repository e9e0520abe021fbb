// Package web serves the game to browsers: a static page that draws frames
// on a canvas and a websocket per player carrying input and frames.
package web

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/websocket"

	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/session"
)

//go:embed static/index.html
var indexHTML []byte

// Options configures a Server.
type Options struct {
	Config   *config.Config
	Registry *session.Registry
	Logger   *log.Logger
	// ShutdownGrace is how long a session keeps running after a shutdown
	// notice before the socket is closed.
	ShutdownGrace time.Duration
}

// Server owns the HTTP routes and the live websocket sessions.
type Server struct {
	cfg      *config.Config
	registry *session.Registry
	logger   *log.Logger
	upgrader websocket.Upgrader
	grace    time.Duration
}

// New creates a server. Config is required.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("web: nil config")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Registry == nil {
		opts.Registry = session.NewRegistry(0, opts.Logger)
	}
	if opts.ShutdownGrace == 0 {
		opts.ShutdownGrace = 2 * time.Second
	}
	return &Server{
		cfg:      opts.Config,
		registry: opts.Registry,
		logger:   opts.Logger,
		grace:    opts.ShutdownGrace,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// Registry returns the session registry.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.registry.Count(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	h, err := s.registry.Register(r.RemoteAddr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer s.registry.Unregister(h.ID)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	p, err := newPlayer(s, conn, h)
	if err != nil {
		s.logger.Error("start session", "id", h.ID, "err", err)
		return
	}
	if err := p.run(r.Context()); err != nil {
		s.logger.Error("session failed", "id", h.ID, "err", err)
	}
}
