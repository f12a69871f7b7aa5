// Package http wires the chi route tree and the server lifecycle around the
// discovery and credential-pool handlers.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/internal/interfaces/http/handlers"
	"github.com/pharmyrus/pharmyrus/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies for the
// complete route tree.
type RouterConfig struct {
	HealthHandler  *handlers.HealthHandler
	SearchHandler  *handlers.SearchHandler
	KeyPoolHandler *handlers.KeyPoolHandler

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	CORS   middleware.CORSConfig
	Logger logging.Logger
}

// NewRouter builds the route tree:
//
//	GET /                    service info
//	GET /health              legacy health + pool counters
//	GET /healthz /readyz     probes
//	GET /metrics             Prometheus exposition
//	GET /api/v1/search       discovery pipeline
//	GET /api/v1/serpapi/...  credential pool diagnostics
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger))
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.SearchHandler != nil {
			cfg.SearchHandler.RegisterRoutes(api)
		}
		if cfg.KeyPoolHandler != nil {
			cfg.KeyPoolHandler.RegisterRoutes(api)
		}
	})

	return r
}
