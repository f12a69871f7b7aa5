// Package discovery defines the core entities of the patent discovery
// pipeline: the chemical profile resolved for a molecule, the candidate
// family identifiers extracted from search text, and the national-phase
// patent records assembled from the family and crawler sources.
package discovery

// ChemicalProfile holds everything the chemistry provider knows about a
// molecule name.  It is created once per search request and is immutable
// after construction.
type ChemicalProfile struct {
	Molecule string `json:"molecule"`

	// DevCodes are compact developer codes (e.g. "ODM-201", "BAY-1841788")
	// classified from the provider's synonym list.  Exact-string dedup,
	// first-seen order.
	DevCodes []string `json:"dev_codes"`

	// CAS is the first registry number found among the synonyms, empty when
	// none matched.
	CAS string `json:"cas,omitempty"`

	IUPACName        string `json:"iupac,omitempty"`
	MolecularFormula string `json:"molecular_formula,omitempty"`
	MolecularWeight  string `json:"molecular_weight,omitempty"`
	SMILES           string `json:"smiles,omitempty"`
	InChI            string `json:"inchi,omitempty"`
	InChIKey         string `json:"inchi_key,omitempty"`

	// Synonyms retains the raw provider synonyms (≥3 chars, capped) for
	// display and debugging.
	Synonyms []string `json:"synonyms,omitempty"`
}

// EmptyProfile returns a degraded profile for a molecule the chemistry
// provider could not resolve.  The pipeline continues with it; downstream
// stages simply have fewer identifiers to query with.
func EmptyProfile(molecule string) *ChemicalProfile {
	return &ChemicalProfile{Molecule: molecule, DevCodes: []string{}, Synonyms: []string{}}
}

// PatentRecord is one national-phase filing discovered by the pipeline.
type PatentRecord struct {
	// Number is the jurisdiction document identifier (e.g. "BR112020012345").
	// Records from the direct crawler may lack it.
	Number string `json:"number,omitempty"`

	// WOSource is the candidate family identifier this record was expanded
	// from; empty for crawler records.
	WOSource string `json:"wo_source,omitempty"`

	Title string `json:"title,omitempty"`
	Link  string `json:"link,omitempty"`

	// Extra carries crawler-owned fields the pipeline does not interpret
	// (applicant, filing dates, whatever the scraper exposes).  They pass
	// through to the response verbatim.
	Extra map[string]interface{} `json:"extra,omitempty"`

	// WeaklyIdentified marks records whose dedup identity had to fall back
	// to the normalized title because no document number was available.
	// Two unrelated documents sharing a generic title would collapse; the
	// flag keeps that risk visible to callers instead of hiding it.
	WeaklyIdentified bool `json:"weakly_identified,omitempty"`
}

// IdentityKey returns the canonical dedup identity of a record: the
// normalized document number when present, else the normalized title.
// The second return value is false when the record carries neither and
// should be dropped as unidentifiable.
func (r *PatentRecord) IdentityKey() (string, bool) {
	if key := NormalizeDocID(r.Number); key != "" {
		return key, true
	}
	if key := NormalizeDocID(r.Title); key != "" {
		return key, true
	}
	return "", false
}
