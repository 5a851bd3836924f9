package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/iconforge/internal/icons"
	"github.com/meur/iconforge/internal/metrics"
	"github.com/meur/iconforge/internal/storage"
	"github.com/sirupsen/logrus"
)

// availableIDsLimit caps the keys echoed back in not-found responses
const availableIDsLimit = 10

// Server holds the HTTP server dependencies
type Server struct {
	pipeline *icons.Pipeline
	imp      *storage.Import // nil unless the index came from a catalog database
	log      logrus.FieldLogger
	router   chi.Router
}

// Options configures optional Server behavior
type Options struct {
	AllowedOrigins []string
	Import         *storage.Import
	Logger         logrus.FieldLogger
}

// New creates a new API server
func New(pipeline *icons.Pipeline, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		pipeline: pipeline,
		imp:      opts.Import,
		log:      opts.Logger,
		router:   chi.NewRouter(),
	}

	s.setupMiddleware(opts.AllowedOrigins)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Instrument)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/library", func(r chi.Router) {
		r.Get("/icons", s.handleGetIcon)
		r.Get("/item_info", s.handleGetItemInfo)
		r.Get("/stats", s.handleGetStats)
	})

	s.router.Handle("/metrics", metrics.Handler())

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondPNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
