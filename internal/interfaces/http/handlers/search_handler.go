package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pharmyrus/pharmyrus/internal/application/discovery"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// SearchService runs one discovery pipeline pass.
type SearchService interface {
	Search(ctx context.Context, molecule string) (*discovery.Result, error)
}

// SearchHandler serves the discovery endpoint.
type SearchHandler struct {
	service SearchService
	logger  logging.Logger
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(service SearchService, logger logging.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger.Named("search-handler"),
	}
}

// RegisterRoutes registers the search route on an /api/v1 subrouter.
func (h *SearchHandler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.Search)
}

// Search handles GET /api/v1/search?molecule_name=<name>.  The call is
// synchronous and can run for minutes; the response is the full pipeline
// result.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	molecule := r.URL.Query().Get("molecule_name")
	if molecule == "" {
		writeError(w, http.StatusBadRequest, errors.ErrCodeBadRequest,
			"query parameter molecule_name is required")
		return
	}

	result, err := h.service.Search(r.Context(), molecule)
	if err != nil {
		h.logger.Error("search failed",
			logging.String("molecule", molecule),
			logging.Err(err),
		)
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
