package inpi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pharmyrus/pharmyrus/pkg/errors"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "darolutamide", r.URL.Query().Get("medicine"))
		_, _ = w.Write([]byte(`{
			"data": [
				{"number": "BR112020012345", "title": "Composicao farmaceutica", "link": "https://x/1",
				 "depositor": "Orion Corp", "filing_date": "2020-06-18"},
				{"title": "Registro sem numero"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	records, err := c.Search(context.Background(), "darolutamide")

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "BR112020012345", records[0].Number)
	assert.Equal(t, "Composicao farmaceutica", records[0].Title)
	// unknown upstream fields survive in Extra
	assert.Equal(t, "Orion Corp", records[0].Extra["depositor"])
	assert.Equal(t, "2020-06-18", records[0].Extra["filing_date"])

	assert.Empty(t, records[1].Number)
	assert.Nil(t, records[1].Extra)
}

func TestSearch_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	records, err := c.Search(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), "x")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCrawlBadStatus))
}
