// Package api implements the HTTP layer for culture-guard.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nyashahama/culture-guard/internal/ai"
	"github.com/nyashahama/culture-guard/internal/culture"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// RequestTimeout bounds every request via chi's Timeout middleware.
	// Zero means 30s.
	RequestTimeout time.Duration
}

// Analyzer produces results for one message. *ai.Analyzer satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, text, country string) ([]culture.Result, ai.Source)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	analyzer Analyzer

	// metrics serves GET /metrics. nil disables the route.
	metrics http.Handler

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.Server.
func NewServer(analyzer Analyzer, metrics http.Handler, cfg Config, logger *slog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		analyzer: analyzer,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{headerAnalysisID, headerAnalysisSource},
		MaxAge:         86400,
	}))
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/countries", s.handleListCountries)

	// ── Analysis ──────────────────────────────────────────────────────────────
	// The front-end calls /api/analyze; /analyze is kept for direct clients.
	r.Post("/analyze", s.handleAnalyze)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/countries", s.handleListCountries)
	})

	return r
}
