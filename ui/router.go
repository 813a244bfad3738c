package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds the process-level HTTP settings
type RouterConfig struct {
	Profiling bool
}

// NewRouter wraps the gin server in a chi router carrying the process-level
// middleware, the health check and the optional profiler
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(middleware.Compress(5))

	if cfg.Profiling {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Mount("/", s.Handler())
	return r
}
