package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/serp"
	apperrors "github.com/pharmyrus/pharmyrus/pkg/errors"
)

func newFamilyStage(provider FamilyProvider, keys CredentialSource) *FamilyExpansionStage {
	return NewFamilyExpansionStage(provider, keys, "BR", testPause, logging.NewNopLogger())
}

func TestFamilyExpansion_FiltersJurisdiction(t *testing.T) {
	provider := new(mockFamily)
	provider.On("PatentSearch", mock.Anything, "WO2020123456", "key-1").Return([]serp.OrganicResult{
		{Title: "family record", SerpAPILink: "https://api.example/detail?id=1"},
	}, nil)
	provider.On("FetchFamilyDetail", mock.Anything, "https://api.example/detail?id=1", "key-1").Return(&serp.FamilyDetail{
		WorldwideApplications: map[string][]serp.WorldwideApplication{
			"2020": {
				{DocumentID: "BR112020012345A2", Title: "Processo farmaceutico"},
				{DocumentID: "US20200123456A1", Title: "Pharmaceutical process"},
			},
			"2021": {
				{DocumentID: "BR112021000777B1", Title: "Composicao"},
			},
		},
	}, nil)

	stage := newFamilyStage(provider, staticKeys{key: "key-1"})
	records, err := stage.Expand(context.Background(), "WO2020123456")

	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "WO2020123456", r.WOSource)
		assert.Contains(t, r.Link, "https://patents.google.com/patent/BR")
	}
}

func TestFamilyExpansion_NoContinuationLinkYieldsNothing(t *testing.T) {
	provider := new(mockFamily)
	provider.On("PatentSearch", mock.Anything, "WO2020999999", "key-1").Return([]serp.OrganicResult{
		{Title: "record without detail link"},
	}, nil)

	stage := newFamilyStage(provider, staticKeys{key: "key-1"})
	records, err := stage.Expand(context.Background(), "WO2020999999")

	require.NoError(t, err)
	assert.Empty(t, records)
	provider.AssertNotCalled(t, "FetchFamilyDetail", mock.Anything, mock.Anything, mock.Anything)
}

func TestFamilyExpansion_CredentialFailureWrapsCode(t *testing.T) {
	stage := newFamilyStage(new(mockFamily), brokenKeys{})
	_, err := stage.Expand(context.Background(), "WO2020123456")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSearchNoKey))
}

func TestFamilyExpansion_ExpandAllIsolatesFailures(t *testing.T) {
	provider := new(mockFamily)
	provider.On("PatentSearch", mock.Anything, "WO2020000001", "key-1").Return(nil, errors.New("upstream 429"))
	provider.On("PatentSearch", mock.Anything, "WO2020000002", "key-1").Return([]serp.OrganicResult{
		{SerpAPILink: "https://api.example/detail?id=2"},
	}, nil)
	provider.On("FetchFamilyDetail", mock.Anything, "https://api.example/detail?id=2", "key-1").Return(&serp.FamilyDetail{
		WorldwideApplications: map[string][]serp.WorldwideApplication{
			"2020": {{DocumentID: "BR112020054321A2", Title: "Formulacao"}},
		},
	}, nil)

	stage := newFamilyStage(provider, staticKeys{key: "key-1"})
	records, outcome := stage.ExpandAll(context.Background(), []string{"WO2020000001", "WO2020000002"})

	require.Len(t, records, 1)
	assert.Equal(t, "BR112020054321A2", records[0].Number)
	assert.Equal(t, 2, outcome.Calls)
	assert.Equal(t, 1, outcome.Failures)
	assert.Equal(t, domain.StageHit, outcome.Status)
}

func TestFamilyExpansion_ExpandAllCapsCandidates(t *testing.T) {
	provider := new(mockFamily)
	provider.On("PatentSearch", mock.Anything, mock.Anything, "key-1").Return([]serp.OrganicResult{}, nil)

	candidates := []string{"WO2020000001", "WO2020000002", "WO2020000003", "WO2020000004", "WO2020000005", "WO2020000006", "WO2020000007"}
	stage := newFamilyStage(provider, staticKeys{key: "key-1"})
	_, outcome := stage.ExpandAll(context.Background(), candidates)

	assert.Equal(t, maxCandidates, outcome.Calls)
}

func TestFamilyExpansion_NoCandidatesIsSkipped(t *testing.T) {
	stage := newFamilyStage(new(mockFamily), staticKeys{key: "key-1"})
	records, outcome := stage.ExpandAll(context.Background(), nil)

	assert.Empty(t, records)
	assert.Equal(t, domain.StageSkipped, outcome.Status)
}
