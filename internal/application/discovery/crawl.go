package discovery

import (
	"context"
	"strings"
	"time"

	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
)

const (
	// maxCrawlDevCodes bounds how many alternate identifiers become
	// crawler queries.
	maxCrawlDevCodes = 8

	// maxCrawlQueries caps the total crawler query list after dedup.
	maxCrawlQueries = 12

	// defaultCrawlPause is the fixed interval between crawler calls.
	defaultCrawlPause = time.Second
)

// DirectCrawlStage queries the jurisdiction crawler with every identifier
// known for the molecule.
type DirectCrawlStage struct {
	provider CrawlerProvider
	pauseDur time.Duration
	logger   logging.Logger
}

// NewDirectCrawlStage constructs a DirectCrawlStage.
func NewDirectCrawlStage(provider CrawlerProvider, pauseDur time.Duration, logger logging.Logger) *DirectCrawlStage {
	if pauseDur <= 0 {
		pauseDur = defaultCrawlPause
	}
	return &DirectCrawlStage{
		provider: provider,
		pauseDur: pauseDur,
		logger:   logger.Named("crawl"),
	}
}

// buildQueries assembles the crawler query list: the molecule name verbatim,
// its lowercase variant, a bounded number of dev codes, and the CAS number
// when known.  The list itself is deduplicated and capped.
func buildQueries(molecule string, devCodes []string, cas string) []string {
	raw := []string{molecule, strings.ToLower(molecule)}
	for i, code := range devCodes {
		if i >= maxCrawlDevCodes {
			break
		}
		raw = append(raw, code)
	}
	if cas != "" {
		raw = append(raw, cas)
	}

	seen := make(map[string]bool, len(raw))
	queries := make([]string, 0, len(raw))
	for _, q := range raw {
		if seen[q] || len(queries) >= maxCrawlQueries {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries
}

// Crawl runs every query against the crawler, accumulates non-empty result
// lists, and deduplicates by normalized title, keeping the first occurrence.
// Individual query failures are logged and skipped.
func (s *DirectCrawlStage) Crawl(ctx context.Context, molecule string, devCodes []string, cas string) ([]domain.PatentRecord, domain.StageOutcome) {
	queries := buildQueries(molecule, devCodes, cas)

	var (
		accumulated []domain.PatentRecord
		outcome     domain.StageOutcome
	)
	for _, q := range queries {
		outcome.Calls++
		records, err := s.provider.Search(ctx, q)
		if err != nil {
			outcome.Failures++
			s.logger.Warn("crawler query failed, skipping",
				logging.String("query", q),
				logging.Err(err),
			)
			pause(ctx, s.pauseDur)
			continue
		}

		for _, r := range records {
			accumulated = append(accumulated, domain.PatentRecord{
				Number: r.Number,
				Title:  r.Title,
				Link:   r.Link,
				Extra:  r.Extra,
			})
		}
		s.logger.Debug("crawler query complete",
			logging.String("query", q),
			logging.Int("records", len(records)),
		)

		pause(ctx, s.pauseDur)
	}

	unique := dedupByTitle(accumulated)
	s.logger.Info("crawl complete",
		logging.Int("queries", len(queries)),
		logging.Int("unique_records", len(unique)),
	)

	outcome.Finalize(len(unique))
	return unique, outcome
}

// dedupByTitle keeps the first record per normalized title.  The crawler
// does not reliably expose a document number, so the title is the only
// identity the stage can use; records without one are dropped.
func dedupByTitle(records []domain.PatentRecord) []domain.PatentRecord {
	seen := make(map[string]bool, len(records))
	var unique []domain.PatentRecord
	for _, r := range records {
		key := domain.NormalizeDocID(r.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}
	return unique
}
