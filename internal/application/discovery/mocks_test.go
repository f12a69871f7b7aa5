package discovery

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/inpi"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/pubchem"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/providers/serp"
)

type mockChemistry struct {
	mock.Mock
}

func (m *mockChemistry) Synonyms(ctx context.Context, name string) ([]string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockChemistry) Properties(ctx context.Context, name string) ([]pubchem.Property, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pubchem.Property), args.Error(1)
}

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) Search(ctx context.Context, query, apiKey string) ([]serp.OrganicResult, error) {
	args := m.Called(ctx, query, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]serp.OrganicResult), args.Error(1)
}

type mockFamily struct {
	mock.Mock
}

func (m *mockFamily) PatentSearch(ctx context.Context, familyID, apiKey string) ([]serp.OrganicResult, error) {
	args := m.Called(ctx, familyID, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]serp.OrganicResult), args.Error(1)
}

func (m *mockFamily) FetchFamilyDetail(ctx context.Context, link, apiKey string) (*serp.FamilyDetail, error) {
	args := m.Called(ctx, link, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*serp.FamilyDetail), args.Error(1)
}

type mockCrawler struct {
	mock.Mock
}

func (m *mockCrawler) Search(ctx context.Context, query string) ([]inpi.Record, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inpi.Record), args.Error(1)
}

// staticKeys always issues the same credential.
type staticKeys struct {
	key string
}

func (s staticKeys) Acquire(context.Context) (string, error) { return s.key, nil }

// brokenKeys fails every acquisition, as a broken state store would.
type brokenKeys struct{}

func (brokenKeys) Acquire(context.Context) (string, error) {
	return "", errors.New("state store unavailable")
}
