package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

const (
	// maxCandidates bounds the family expansion fan-out to the first few
	// identifiers the web search produced.
	maxCandidates = 5

	// defaultFamilyPause is the fixed interval between candidate expansions.
	defaultFamilyPause = time.Second

	// patentLinkBase is the canonical public document link prefix.
	patentLinkBase = "https://patents.google.com/patent/"
)

// FamilyExpansionStage resolves a candidate family identifier into the
// national-phase filings of the target jurisdiction.
type FamilyExpansionStage struct {
	provider     FamilyProvider
	keys         CredentialSource
	jurisdiction string
	pauseDur     time.Duration
	logger       logging.Logger
}

// NewFamilyExpansionStage constructs a FamilyExpansionStage for the given
// jurisdiction prefix (e.g. "BR").
func NewFamilyExpansionStage(provider FamilyProvider, keys CredentialSource, jurisdiction string, pauseDur time.Duration, logger logging.Logger) *FamilyExpansionStage {
	if pauseDur <= 0 {
		pauseDur = defaultFamilyPause
	}
	return &FamilyExpansionStage{
		provider:     provider,
		keys:         keys,
		jurisdiction: jurisdiction,
		pauseDur:     pauseDur,
		logger:       logger.Named("family"),
	}
}

// Expand resolves one candidate.  The provider's first result may carry a
// continuation link to the full family record; the link is followed with
// the same credential.  No continuation link means no breakdown is
// available and the candidate yields zero records, which is not an error.
func (s *FamilyExpansionStage) Expand(ctx context.Context, candidate string) ([]domain.PatentRecord, error) {
	key, err := s.keys.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchNoKey, "acquire credential for family lookup")
	}

	results, err := s.provider.PatentSearch(ctx, candidate, key)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0].SerpAPILink == "" {
		s.logger.Debug("no continuation link for candidate", logging.String("candidate", candidate))
		return nil, nil
	}

	detail, err := s.provider.FetchFamilyDetail(ctx, results[0].SerpAPILink, key)
	if err != nil {
		return nil, err
	}

	var records []domain.PatentRecord
	for _, apps := range detail.WorldwideApplications {
		for _, app := range apps {
			if !strings.HasPrefix(app.DocumentID, s.jurisdiction) {
				continue
			}
			records = append(records, domain.PatentRecord{
				Number:   app.DocumentID,
				WOSource: candidate,
				Title:    app.Title,
				Link:     fmt.Sprintf("%s%s", patentLinkBase, app.DocumentID),
			})
			s.logger.Info("national filing found",
				logging.String("document_id", app.DocumentID),
				logging.String("candidate", candidate),
			)
		}
	}
	return records, nil
}

// ExpandAll fans out over the first maxCandidates candidates, pausing
// between each, isolating per-candidate failures.
func (s *FamilyExpansionStage) ExpandAll(ctx context.Context, candidates []string) ([]domain.PatentRecord, domain.StageOutcome) {
	var (
		records []domain.PatentRecord
		outcome domain.StageOutcome
	)
	if len(candidates) == 0 {
		outcome.Status = domain.StageSkipped
		return nil, outcome
	}

	for i, candidate := range candidates {
		if i >= maxCandidates {
			break
		}
		outcome.Calls++
		found, err := s.Expand(ctx, candidate)
		if err != nil {
			outcome.Failures++
			s.logger.Warn("candidate expansion failed, skipping",
				logging.String("candidate", candidate),
				logging.Err(err),
			)
		} else {
			records = append(records, found...)
		}
		pause(ctx, s.pauseDur)
	}

	outcome.Finalize(len(records))
	return records, outcome
}
