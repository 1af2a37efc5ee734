// Package http wires the HTTP interface of the search service: the chi
// router, the server lifecycle and the request middleware chain.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/prometheus"
	"github.com/texttechlab/enhanced-search/internal/interfaces/http/handlers"
	"github.com/texttechlab/enhanced-search/internal/interfaces/http/middleware"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

// RouterConfig carries the handlers and cross-cutting dependencies the
// router mounts.  Nil fields disable the corresponding routes.
type RouterConfig struct {
	SearchHandler *handlers.SearchHandler
	HealthHandler *handlers.HealthHandler
	Metrics       *prometheus.Metrics
	Logger        logging.Logger
	Logging       middleware.LoggingConfig
}

// NewRouter builds the service's route tree.  Health and metrics endpoints
// are public; the API lives under /api/v1.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Recoverer)

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.SearchHandler != nil {
			r.Get("/search", cfg.SearchHandler.Search)
			r.Get("/annotate", cfg.SearchHandler.Annotate)
		}
	})

	return r
}
