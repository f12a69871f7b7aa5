// Package discovery implements the multi-source patent discovery pipeline:
// chemistry lookup, query planning, family-identifier web search, family
// expansion, the direct jurisdiction crawl, and the aggregation of all
// sources into one deduplicated result.
package discovery

import (
	"context"
	"time"

	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/inpi"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/pubchem"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/serp"
)

// ChemistryProvider is the outbound contract of the chemistry metadata
// service.  Both calls are independent; either may fail without affecting
// the other.
type ChemistryProvider interface {
	Synonyms(ctx context.Context, name string) ([]string, error)
	Properties(ctx context.Context, name string) ([]pubchem.Property, error)
}

// SearchProvider is the outbound contract of the rate-limited web search
// engine.  A credential is required per call.
type SearchProvider interface {
	Search(ctx context.Context, query, apiKey string) ([]serp.OrganicResult, error)
}

// FamilyProvider is the outbound contract of the patent-family engine.
type FamilyProvider interface {
	PatentSearch(ctx context.Context, familyID, apiKey string) ([]serp.OrganicResult, error)
	FetchFamilyDetail(ctx context.Context, link, apiKey string) (*serp.FamilyDetail, error)
}

// CrawlerProvider is the outbound contract of the jurisdiction crawler.
type CrawlerProvider interface {
	Search(ctx context.Context, query string) ([]inpi.Record, error)
}

// CredentialSource issues one search-provider credential per call.  It never
// blocks; an empty key or an error means no credential can be issued and the
// calling stage must stop.
type CredentialSource interface {
	Acquire(ctx context.Context) (string, error)
}

// pause sleeps for d unless the context ends first.  The fixed inter-call
// pause is the pipeline's whole rate-limiting strategy: one in-flight call
// per stage, a minimum interval between calls, no adaptive backoff.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
