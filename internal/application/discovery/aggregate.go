package discovery

import (
	"fmt"

	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
)

// expectedBaseline is the fixed benchmark the result size is compared
// against for the qualitative coverage indicator.  It is not derived from
// any provider; it exists so a human can glance at a response and judge
// "how complete does this look".
const expectedBaseline = 8

// excellentThreshold is the unique-record count at or above which coverage
// is reported as excellent.
const excellentThreshold = 6

// Statistics summarizes one pipeline run.
type Statistics struct {
	TotalBRPatents int     `json:"total_br_patents"`
	WONumbersFound int     `json:"wo_numbers_found"`
	BRFromWO       int     `json:"br_from_wo"`
	BRFromCrawler  int     `json:"br_from_inpi"`
	DevCodes       int     `json:"dev_codes"`
	ExecutionTime  float64 `json:"execution_time"`
}

// Comparison is the qualitative coverage block.
type Comparison struct {
	Expected  int    `json:"expected"`
	Found     int    `json:"found"`
	MatchRate string `json:"match_rate"`
	Status    string `json:"status"`
}

// Result is the complete response envelope for one search request.
// It is constructed once by the aggregator and never mutated after.
type Result struct {
	SearchID   string                         `json:"search_id"`
	Molecule   string                         `json:"molecule"`
	Chemistry  *domain.ChemicalProfile        `json:"pubchem"`
	WONumbers  []string                       `json:"wo_numbers"`
	BRPatents  []domain.PatentRecord          `json:"br_patents"`
	Statistics Statistics                     `json:"statistics"`
	Sources    map[string]string              `json:"sources"`
	Stages     map[string]domain.StageOutcome `json:"stages"`
	Comparison Comparison                     `json:"comparison"`
}

// Aggregate merges the family-expansion and crawler record sets into one
// deduplicated list and derives the run statistics.
//
// Identity per record is its normalized document number when present, else
// its normalized title (such records are marked weakly identified), else
// the record is dropped as unidentifiable.  Family records precede crawler
// records in the concatenation, so on an identity collision the family
// version wins.
func Aggregate(
	profile *domain.ChemicalProfile,
	woNumbers []string,
	familyRecords, crawlRecords []domain.PatentRecord,
	outcomes map[string]domain.StageOutcome,
	elapsedSeconds float64,
) *Result {
	all := make([]domain.PatentRecord, 0, len(familyRecords)+len(crawlRecords))
	all = append(all, familyRecords...)
	all = append(all, crawlRecords...)

	seen := make(map[string]bool, len(all))
	unique := make([]domain.PatentRecord, 0, len(all))
	for _, r := range all {
		key, ok := r.IdentityKey()
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		r.WeaklyIdentified = domain.NormalizeDocID(r.Number) == ""
		unique = append(unique, r)
	}

	found := len(unique)
	rate := found * 100 / expectedBaseline
	if rate > 100 {
		rate = 100
	}
	status := "low"
	if found >= excellentThreshold {
		status = "excellent"
	}

	sources := make(map[string]string, len(outcomes))
	for name, o := range outcomes {
		sources[name] = o.Indicator()
	}

	return &Result{
		Molecule:  profile.Molecule,
		Chemistry: profile,
		WONumbers: woNumbers,
		BRPatents: unique,
		Statistics: Statistics{
			TotalBRPatents: found,
			WONumbersFound: len(woNumbers),
			BRFromWO:       len(familyRecords),
			BRFromCrawler:  len(crawlRecords),
			DevCodes:       len(profile.DevCodes),
			ExecutionTime:  elapsedSeconds,
		},
		Sources:    sources,
		Stages:     outcomes,
		Comparison: Comparison{
			Expected:  expectedBaseline,
			Found:     found,
			MatchRate: fmt.Sprintf("%d%%", rate),
			Status:    status,
		},
	}
}
