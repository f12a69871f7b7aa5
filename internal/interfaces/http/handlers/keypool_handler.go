package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
)

// keyPreviewLength is how many leading characters of a credential the
// diagnostic endpoint shows before the ellipsis.
const keyPreviewLength = 20

// KeyPool is the credential pool surface the handler needs.
type KeyPool interface {
	Acquire(ctx context.Context) (string, error)
	Status(ctx context.Context) (*credential.PoolStatus, error)
}

// KeyPoolHandler serves the credential pool diagnostic endpoints.
type KeyPoolHandler struct {
	pool   KeyPool
	logger logging.Logger
}

// NewKeyPoolHandler constructs a KeyPoolHandler.
func NewKeyPoolHandler(pool KeyPool, logger logging.Logger) *KeyPoolHandler {
	return &KeyPoolHandler{
		pool:   pool,
		logger: logger.Named("keypool-handler"),
	}
}

// RegisterRoutes registers the pool routes on an /api/v1 subrouter.
func (h *KeyPoolHandler) RegisterRoutes(r chi.Router) {
	r.Get("/serpapi/status", h.Status)
	r.Get("/serpapi/key", h.NextKey)
}

// Status handles GET /api/v1/serpapi/status.
func (h *KeyPoolHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.pool.Status(r.Context())
	if err != nil {
		h.logger.Error("pool status failed", logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// NextKeyResponse echoes the issued credential: a truncated preview for
// humans and the full key for scripted callers.
type NextKeyResponse struct {
	Key  string `json:"key"`
	Full string `json:"full"`
}

// NextKey handles GET /api/v1/serpapi/key.  It draws a real issuance from
// the pool, consuming one quota unit.
func (h *KeyPoolHandler) NextKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.pool.Acquire(r.Context())
	if err != nil {
		h.logger.Error("key acquisition failed", logging.Err(err))
		writeAppError(w, err)
		return
	}

	preview := key
	if len(preview) > keyPreviewLength {
		preview = preview[:keyPreviewLength] + "..."
	}
	writeJSON(w, http.StatusOK, NextKeyResponse{Key: preview, Full: key})
}
