package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
)

// HealthChecker reports one infrastructure component's health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// PoolStatusSource exposes the credential pool status for the legacy
// /health body.
type PoolStatusSource interface {
	Status(ctx context.Context) (*credential.PoolStatus, error)
}

// HealthHandler serves the service-info root, the legacy /health endpoint and
// the Kubernetes-style probes.
type HealthHandler struct {
	version  string
	pool     PoolStatusSource
	checkers []HealthChecker
	startAt  time.Time
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(version string, pool PoolStatusSource, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		version:  version,
		pool:     pool,
		checkers: checkers,
		startAt:  time.Now(),
	}
}

// RegisterRoutes registers the info and probe routes.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Info)
	r.Get("/health", h.Health)
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// InfoResponse is the root endpoint body.
type InfoResponse struct {
	Service  string   `json:"service"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// Info handles GET / with a static service description.
func (h *HealthHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Service: "Pharmyrus",
		Version: h.version,
		Features: []string{
			"PubChem molecule enrichment",
			"WO family discovery via web search",
			"Google Patents family expansion",
			"INPI direct crawl",
			"rotating SerpAPI key pool",
		},
	})
}

// HealthResponse is the legacy /health body: overall status plus the
// credential pool counters.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Uptime      string                 `json:"uptime"`
	SerpAPIPool *credential.PoolStatus `json:"serpapi_pool,omitempty"`
}

// Health handles GET /health.  A pool status failure degrades the body but
// still answers 200: the process itself is healthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "healthy",
		Uptime: time.Since(h.startAt).Truncate(time.Second).String(),
	}
	if h.pool != nil {
		if status, err := h.pool.Status(r.Context()); err == nil {
			resp.SerpAPIPool = status
		} else {
			resp.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Liveness handles GET /healthz.  Always 200 while the process runs.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "alive",
		"version": h.version,
	})
}

// ComponentCheck is one component's probe result.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReadinessResponse is the /readyz body.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// Readiness handles GET /readyz: every registered checker must pass.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.checkers) == 0 {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]ComponentCheck, len(h.checkers))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()
			start := time.Now()
			err := c.Check(ctx)
			check := ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(start).Truncate(time.Millisecond).String(),
			}
			if err != nil {
				check.Status = "unhealthy"
				check.Error = err.Error()
			}
			mu.Lock()
			components[c.Name()] = check
			mu.Unlock()
		}(checker)
	}
	wg.Wait()

	resp := ReadinessResponse{Status: "ready", Components: components}
	code := http.StatusOK
	for _, c := range components {
		if c.Status != "healthy" {
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, resp)
}
