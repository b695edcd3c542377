// Package server exposes the converter over HTTP
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hesusruiz/texmd/texmd"
	"go.uber.org/zap"
)

// maxSourceSize limits the size of the LaTeX sources accepted in a request
const maxSourceSize = 8 << 20

// Server is the HTTP API of the converter
type Server struct {
	router chi.Router
	cfg    *texmd.Config
	log    *zap.SugaredLogger
}

// New creates the server. Every request is converted with cfg, or with the default
// configuration when cfg is nil.
func New(cfg *texmd.Config, log *zap.SugaredLogger) *Server {
	if cfg == nil {
		cfg = texmd.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		cfg: cfg,
		log: log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/convert", s.handleConvert)
	r.Post("/outline", s.handleOutline)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
