// Package ui serves the exploration panel over HTTP.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"stilidash/adapters/chart"
	"stilidash/internal"
	"stilidash/internal/dashboard"

	"github.com/gin-gonic/gin"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// Config holds UI settings
type Config struct {
	Title string
}

// Server represents the web server for the panel
type Server struct {
	router    *gin.Engine
	panel     *dashboard.Panel
	title     string
	templates *template.Template
	logger    *internal.Logger
}

// NewServer creates a server for panel. Gin's mode is process-global and is left to
// the caller.
func NewServer(panel *dashboard.Panel, cfg Config, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"count": chart.FormatCount,
		"pct": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f*100)
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		panel:     panel,
		title:     cfg.Title,
		templates: templates,
		logger:    logger.With("component", "ui"),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("failed to create static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	api.GET("/panel", s.handlePanel)
	api.GET("/options/:field", s.handleOptions)
	api.GET("/metrics", s.handleMetrics)
	api.GET("/themes", s.handleThemes)
	api.GET("/dataset", s.handleDataset)
	api.GET("/chart/:kind", s.handleChart)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Handler returns the gin engine as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP lets the server be mounted directly
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
