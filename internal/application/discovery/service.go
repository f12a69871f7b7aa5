package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
)

// Stage names used as keys in the result's sources and stages maps and as
// metric labels.
const (
	StagePubChem   = "pubchem"
	StageWebSearch = "google_search"
	StageFamily    = "google_patents"
	StageCrawler   = "inpi"
)

// Recorder receives per-stage observations.  The HTTP server wires the
// Prometheus implementation; the CLI and tests use a nop.
type Recorder interface {
	ObserveStage(stage string, outcome domain.StageOutcome, elapsed time.Duration)
	ObserveSearch(elapsed time.Duration, found int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, domain.StageOutcome, time.Duration) {}
func (nopRecorder) ObserveSearch(time.Duration, int)                        {}

// NopRecorder returns a Recorder that discards every observation.
func NopRecorder() Recorder { return nopRecorder{} }

// Service runs the full discovery pipeline for one molecule name.
type Service struct {
	chemistry *ChemistryLookup
	webSearch *WebSearchStage
	family    *FamilyExpansionStage
	crawl     *DirectCrawlStage
	recorder  Recorder
	logger    logging.Logger
	now       func() time.Time
}

// NewService constructs a Service.  recorder may be nil.
func NewService(
	chemistry *ChemistryLookup,
	webSearch *WebSearchStage,
	family *FamilyExpansionStage,
	crawl *DirectCrawlStage,
	recorder Recorder,
	logger logging.Logger,
) *Service {
	if recorder == nil {
		recorder = NopRecorder()
	}
	return &Service{
		chemistry: chemistry,
		webSearch: webSearch,
		family:    family,
		crawl:     crawl,
		recorder:  recorder,
		logger:    logger.Named("discovery"),
		now:       time.Now,
	}
}

// Search runs the pipeline: chemistry lookup, query planning, family
// identifier mining, family expansion and the direct crawl, then aggregates
// everything into one result.  Stage failures degrade the result instead of
// failing the run; Search itself returns an error only when the context is
// already dead before work starts.
func (s *Service) Search(ctx context.Context, molecule string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchID := uuid.NewString()
	logger := s.logger.With(
		logging.String("search_id", searchID),
		logging.String("molecule", molecule),
	)
	logger.Info("search started")
	start := s.now()

	outcomes := make(map[string]domain.StageOutcome, 4)

	stageStart := s.now()
	profile := s.chemistry.Lookup(ctx, molecule)
	chemOutcome := domain.StageOutcome{Calls: 2}
	chemOutcome.Finalize(len(profile.Synonyms) + len(profile.DevCodes))
	outcomes[StagePubChem] = chemOutcome
	s.recorder.ObserveStage(StagePubChem, chemOutcome, s.now().Sub(stageStart))

	queries := PlanQueries(molecule, profile.DevCodes)

	stageStart = s.now()
	woNumbers, searchOutcome := s.webSearch.SearchFamilyIDs(ctx, queries)
	outcomes[StageWebSearch] = searchOutcome
	s.recorder.ObserveStage(StageWebSearch, searchOutcome, s.now().Sub(stageStart))

	stageStart = s.now()
	familyRecords, familyOutcome := s.family.ExpandAll(ctx, woNumbers)
	outcomes[StageFamily] = familyOutcome
	s.recorder.ObserveStage(StageFamily, familyOutcome, s.now().Sub(stageStart))

	stageStart = s.now()
	crawlRecords, crawlOutcome := s.crawl.Crawl(ctx, molecule, profile.DevCodes, profile.CAS)
	outcomes[StageCrawler] = crawlOutcome
	s.recorder.ObserveStage(StageCrawler, crawlOutcome, s.now().Sub(stageStart))

	elapsed := s.now().Sub(start)
	result := Aggregate(profile, woNumbers, familyRecords, crawlRecords, outcomes, elapsed.Seconds())
	result.SearchID = searchID

	s.recorder.ObserveSearch(elapsed, result.Statistics.TotalBRPatents)
	logger.Info("search complete",
		logging.Int("br_patents", result.Statistics.TotalBRPatents),
		logging.Int("wo_numbers", result.Statistics.WONumbersFound),
		logging.Duration("elapsed", elapsed),
	)
	return result, nil
}
