package discovery

// StageStatus classifies how a pipeline stage ended.  Distinguishing "the
// provider had nothing" from "the stage never ran" lets the aggregator and
// tests reason about partial results instead of guessing from empty slices.
type StageStatus string

const (
	// StageHit means the stage completed and produced at least one result.
	StageHit StageStatus = "hit"

	// StageEmpty means the stage ran its full query list and found nothing.
	StageEmpty StageStatus = "empty"

	// StageSkipped means a precondition failed before the stage could do
	// useful work (no credential available, no candidates to expand).
	StageSkipped StageStatus = "skipped"
)

// StageOutcome summarizes one stage's execution for statistics and logging.
type StageOutcome struct {
	Status StageStatus `json:"status"`

	// Calls is the number of external provider calls issued.
	Calls int `json:"calls"`

	// Failures is the number of individual calls that errored and were
	// recovered locally.  A failed call never aborts the stage.
	Failures int `json:"failures"`
}

// Indicator renders the legacy one-glyph source indicator used in the API
// response: "ok" when the stage produced data, "none" otherwise.
func (o StageOutcome) Indicator() string {
	if o.Status == StageHit {
		return "ok"
	}
	return "none"
}

// Finalize sets Status from the observed result count, preserving an
// explicit skip.
func (o *StageOutcome) Finalize(results int) {
	if o.Status == StageSkipped {
		return
	}
	if results > 0 {
		o.Status = StageHit
	} else {
		o.Status = StageEmpty
	}
}
