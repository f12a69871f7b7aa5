package discovery

import (
	"context"
	"regexp"

	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/pubchem"
)

const (
	maxDevCodes = 10
	maxSynonyms = 50

	// Synonyms longer than this are prose, not identifiers.
	maxSynonymLength = 40
)

var (
	// devCodePattern matches compact developer codes such as "ODM-201",
	// "BAY 1841788" or "ORM16555": 2–5 letters, optional separator, 3–7
	// digits, optional trailing letter.
	devCodePattern = regexp.MustCompile(`(?i)^[A-Z]{2,5}[-\s]?\d{3,7}[A-Z]?$`)

	// casPattern matches a CAS registry number: three hyphenated numeric
	// groups with a single check digit.
	casPattern = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)
)

// Property labels scanned from the chemistry provider's compound table.
const (
	labelIUPACName        = "IUPAC Name"
	labelMolecularFormula = "Molecular Formula"
	labelMolecularWeight  = "Molecular Weight"
	labelSMILES           = "SMILES"
	labelInChI            = "InChI"
	labelInChIKey         = "InChIKey"
)

// ChemistryLookup resolves a molecule name into a ChemicalProfile.
type ChemistryLookup struct {
	provider ChemistryProvider
	logger   logging.Logger
}

// NewChemistryLookup constructs a ChemistryLookup.
func NewChemistryLookup(provider ChemistryProvider, logger logging.Logger) *ChemistryLookup {
	return &ChemistryLookup{
		provider: provider,
		logger:   logger.Named("chemistry"),
	}
}

// Lookup never fails: any provider error degrades to an empty profile so the
// pipeline can continue with just the molecule name.  The synonym call and
// the property call are independent; one failing does not skip the other.
func (l *ChemistryLookup) Lookup(ctx context.Context, molecule string) *domain.ChemicalProfile {
	profile := domain.EmptyProfile(molecule)

	syns, err := l.provider.Synonyms(ctx, molecule)
	if err != nil {
		l.logger.Warn("synonym lookup degraded", logging.String("molecule", molecule), logging.Err(err))
	} else {
		l.classifySynonyms(profile, syns)
		l.logger.Info("synonyms classified",
			logging.String("molecule", molecule),
			logging.Int("dev_codes", len(profile.DevCodes)),
			logging.Bool("cas_found", profile.CAS != ""),
		)
	}

	props, err := l.provider.Properties(ctx, molecule)
	if err != nil {
		l.logger.Warn("property lookup degraded", logging.String("molecule", molecule), logging.Err(err))
	} else {
		l.fillProperties(profile, props)
	}

	return profile
}

// classifySynonyms sorts each raw synonym into dev codes, the CAS number and
// the general synonym list.  A single string can land in more than one
// bucket.  First CAS match wins; dev codes dedup by exact string in
// first-seen order.
func (l *ChemistryLookup) classifySynonyms(profile *domain.ChemicalProfile, syns []string) {
	seen := make(map[string]bool, len(syns))
	for _, s := range syns {
		if s == "" || len(s) > maxSynonymLength {
			continue
		}

		if devCodePattern.MatchString(s) && !seen[s] && len(profile.DevCodes) < maxDevCodes {
			seen[s] = true
			profile.DevCodes = append(profile.DevCodes, s)
		}

		if profile.CAS == "" && casPattern.MatchString(s) {
			profile.CAS = s
		}

		if len(profile.Synonyms) < maxSynonyms && len(s) >= 3 {
			profile.Synonyms = append(profile.Synonyms, s)
		}
	}
}

// fillProperties scans the label/value table for the fixed descriptor
// labels.  First match per label wins; qualified labels (SMILES, InChI,
// InChIKey) additionally require the canonical/standard variant name.
func (l *ChemistryLookup) fillProperties(profile *domain.ChemicalProfile, props []pubchem.Property) {
	for _, p := range props {
		switch {
		case p.Label == labelIUPACName && profile.IUPACName == "":
			profile.IUPACName = p.Value
		case p.Label == labelMolecularFormula && profile.MolecularFormula == "":
			profile.MolecularFormula = p.Value
		case p.Label == labelMolecularWeight && profile.MolecularWeight == "":
			profile.MolecularWeight = p.Value
		case p.Label == labelSMILES && p.Name == "Canonical" && profile.SMILES == "":
			profile.SMILES = p.Value
		case p.Label == labelInChI && p.Name == "Standard" && profile.InChI == "":
			profile.InChI = p.Value
		case p.Label == labelInChIKey && p.Name == "Standard" && profile.InChIKey == "":
			profile.InChIKey = p.Value
		}
	}
}
