package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/pubchem"
)

func TestChemistryLookup_ClassifiesSynonyms(t *testing.T) {
	provider := new(mockChemistry)
	provider.On("Synonyms", mock.Anything, "darolutamide").Return([]string{
		"ODM-201",
		"BAY-1841788",
		"1297538-32-9",
		"darolutamide free base",
		"ODM-201", // exact duplicate, must not repeat in dev codes
		"xy",      // too short for the synonym list
	}, nil)
	provider.On("Properties", mock.Anything, "darolutamide").Return(nil, errors.New("service down"))

	lookup := NewChemistryLookup(provider, logging.NewNopLogger())
	profile := lookup.Lookup(context.Background(), "darolutamide")

	require.NotNil(t, profile)
	assert.Equal(t, "darolutamide", profile.Molecule)
	assert.Equal(t, []string{"ODM-201", "BAY-1841788"}, profile.DevCodes)
	assert.Equal(t, "1297538-32-9", profile.CAS)
	assert.NotContains(t, profile.Synonyms, "xy")
	assert.Contains(t, profile.Synonyms, "darolutamide free base")
}

func TestChemistryLookup_FirstCASWins(t *testing.T) {
	provider := new(mockChemistry)
	provider.On("Synonyms", mock.Anything, "m").Return([]string{"111-22-3", "444-55-6"}, nil)
	provider.On("Properties", mock.Anything, "m").Return(nil, errors.New("down"))

	lookup := NewChemistryLookup(provider, logging.NewNopLogger())
	profile := lookup.Lookup(context.Background(), "m")

	assert.Equal(t, "111-22-3", profile.CAS)
}

func TestChemistryLookup_SkipsOverlongSynonyms(t *testing.T) {
	long := strings.Repeat("x", 41)
	provider := new(mockChemistry)
	provider.On("Synonyms", mock.Anything, "m").Return([]string{long, "short name"}, nil)
	provider.On("Properties", mock.Anything, "m").Return(nil, errors.New("down"))

	lookup := NewChemistryLookup(provider, logging.NewNopLogger())
	profile := lookup.Lookup(context.Background(), "m")

	assert.Equal(t, []string{"short name"}, profile.Synonyms)
}

func TestChemistryLookup_FillsProperties(t *testing.T) {
	provider := new(mockChemistry)
	provider.On("Synonyms", mock.Anything, "m").Return(nil, errors.New("down"))
	provider.On("Properties", mock.Anything, "m").Return([]pubchem.Property{
		{Label: "IUPAC Name", Name: "Preferred", Value: "the-iupac-name"},
		{Label: "Molecular Formula", Value: "C19H19F1N6O2"},
		{Label: "Molecular Weight", Value: "398.4"},
		{Label: "SMILES", Name: "Isomeric", Value: "not-this-one"},
		{Label: "SMILES", Name: "Canonical", Value: "CC1=NN=C..."},
		{Label: "InChI", Name: "Standard", Value: "InChI=1S/..."},
		{Label: "InChIKey", Name: "Standard", Value: "ABCDEFGHIJKLMN-UHFFFAOYSA-N"},
	}, nil)

	lookup := NewChemistryLookup(provider, logging.NewNopLogger())
	profile := lookup.Lookup(context.Background(), "m")

	assert.Equal(t, "the-iupac-name", profile.IUPACName)
	assert.Equal(t, "C19H19F1N6O2", profile.MolecularFormula)
	assert.Equal(t, "398.4", profile.MolecularWeight)
	assert.Equal(t, "CC1=NN=C...", profile.SMILES)
	assert.Equal(t, "InChI=1S/...", profile.InChI)
	assert.Equal(t, "ABCDEFGHIJKLMN-UHFFFAOYSA-N", profile.InChIKey)
}

func TestChemistryLookup_BothCallsFailStillReturnsProfile(t *testing.T) {
	provider := new(mockChemistry)
	provider.On("Synonyms", mock.Anything, "ghost").Return(nil, errors.New("down"))
	provider.On("Properties", mock.Anything, "ghost").Return(nil, errors.New("down"))

	lookup := NewChemistryLookup(provider, logging.NewNopLogger())
	profile := lookup.Lookup(context.Background(), "ghost")

	require.NotNil(t, profile)
	assert.Equal(t, "ghost", profile.Molecule)
	assert.Empty(t, profile.DevCodes)
	assert.Empty(t, profile.CAS)
}

func TestDevCodePattern(t *testing.T) {
	matches := []string{"ODM-201", "BAY 1841788", "ORM16555", "AB-1234X"}
	for _, s := range matches {
		assert.True(t, devCodePattern.MatchString(s), s)
	}
	misses := []string{"A-123", "ABCDEF-123", "ODM-12", "plain word", "12345"}
	for _, s := range misses {
		assert.False(t, devCodePattern.MatchString(s), s)
	}
}
