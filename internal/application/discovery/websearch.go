package discovery

import (
	"context"
	"strings"
	"time"

	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
)

// defaultSearchPause is the fixed interval between successive search
// provider calls.
const defaultSearchPause = 500 * time.Millisecond

// WebSearchStage mines candidate family identifiers out of general web
// search results.
type WebSearchStage struct {
	provider SearchProvider
	keys     CredentialSource
	pauseDur time.Duration
	logger   logging.Logger
}

// NewWebSearchStage constructs a WebSearchStage.  pauseDur ≤ 0 selects the
// default inter-call pause.
func NewWebSearchStage(provider SearchProvider, keys CredentialSource, pauseDur time.Duration, logger logging.Logger) *WebSearchStage {
	if pauseDur <= 0 {
		pauseDur = defaultSearchPause
	}
	return &WebSearchStage{
		provider: provider,
		keys:     keys,
		pauseDur: pauseDur,
		logger:   logger.Named("websearch"),
	}
}

// SearchFamilyIDs runs the planned queries in order and returns every
// distinct family identifier found in result titles, snippets and links,
// in first-seen order.
//
// Failure handling is per query: a failed call is logged and skipped.  The
// one stricter case is credential acquisition failing — further queries
// cannot succeed without a credential, so the stage stops immediately.
func (s *WebSearchStage) SearchFamilyIDs(ctx context.Context, queries []string) ([]string, domain.StageOutcome) {
	var (
		ids     []string
		seen    = map[string]bool{}
		outcome domain.StageOutcome
	)

	for i, query := range queries {
		key, err := s.keys.Acquire(ctx)
		if err != nil || key == "" {
			s.logger.Warn("no search credential available, stopping stage",
				logging.Int("queries_remaining", len(queries)-i),
				logging.Err(err),
			)
			if len(ids) == 0 {
				outcome.Status = domain.StageSkipped
			}
			break
		}

		outcome.Calls++
		results, err := s.provider.Search(ctx, query, key)
		if err != nil {
			outcome.Failures++
			s.logger.Warn("query failed, skipping",
				logging.String("query", query),
				logging.Err(err),
			)
			pause(ctx, s.pauseDur)
			continue
		}

		for _, r := range results {
			text := strings.Join([]string{r.Title, r.Snippet, r.Link}, " ")
			for _, id := range domain.ExtractFamilyIDs(text, seen) {
				ids = append(ids, id)
				s.logger.Info("family identifier found",
					logging.String("id", id),
					logging.String("query", query),
				)
			}
		}
		s.logger.Debug("query complete",
			logging.String("query", query),
			logging.Int("results", len(results)),
		)

		pause(ctx, s.pauseDur)
	}

	outcome.Finalize(len(ids))
	return ids, outcome
}
