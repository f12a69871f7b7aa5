package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pharmyrus/pharmyrus/pkg/errors"
)

func TestSynonyms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/name/darolutamide/synonyms/JSON", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"InformationList": {
				"Information": [
					{"Synonym": ["darolutamide", "ODM-201", "1297538-32-9"]}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	syns, err := c.Synonyms(context.Background(), "darolutamide")

	require.NoError(t, err)
	assert.Equal(t, []string{"darolutamide", "ODM-201", "1297538-32-9"}, syns)
}

func TestSynonyms_EmptyInformationList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"InformationList": {"Information": []}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	syns, err := c.Synonyms(context.Background(), "unknown")

	require.NoError(t, err)
	assert.Empty(t, syns)
}

func TestProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/name/darolutamide/JSON", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"PC_Compounds": [
				{"props": [
					{"urn": {"label": "IUPAC Name", "name": "Preferred"}, "value": {"sval": "the-name"}},
					{"urn": {"label": "SMILES", "name": "Canonical"}, "value": {"sval": "CC1..."}}
				]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	props, err := c.Properties(context.Background(), "darolutamide")

	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, Property{Label: "IUPAC Name", Name: "Preferred", Value: "the-name"}, props[0])
	assert.Equal(t, Property{Label: "SMILES", Name: "Canonical", Value: "CC1..."}, props[1])
}

func TestBadStatusMapsToCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Synonyms(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeChemBadStatus))
}

func TestMalformedBodyMapsToCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"InformationList": `))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Synonyms(context.Background(), "x")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeChemParseFailed))
}
