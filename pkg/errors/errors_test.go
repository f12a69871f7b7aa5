package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without detail",
			err:  New(ErrCodeSearchBadStatus, "serpapi returned 429"),
			want: "[SRCH_002] serpapi returned 429",
		},
		{
			name: "with detail",
			err:  New(ErrCodeCrawlFailed, "crawl failed").WithDetail("query=darolutamide"),
			want: "[CRAWL_001] crawl failed: query=darolutamide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrCodePoolStateSave, "persist failed"))
	})

	t.Run("wraps and unwraps cause", func(t *testing.T) {
		cause := fmt.Errorf("disk full")
		err := Wrap(cause, ErrCodePoolStateSave, "persist failed")
		require.NotNil(t, err)
		assert.Equal(t, ErrCodePoolStateSave, err.Code)
		assert.ErrorIs(t, err, cause)
	})
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeSearchNoKey, "no search credential available")
	outer := Wrap(inner, ErrCodeSearchFailed, "query aborted")

	assert.True(t, IsCode(outer, ErrCodeSearchNoKey))
	assert.True(t, IsCode(outer, ErrCodeSearchFailed))
	assert.False(t, IsCode(outer, ErrCodeCrawlFailed))
	assert.False(t, IsCode(nil, ErrCodeSearchNoKey))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrorCode("OK"), GetCode(nil))
	assert.Equal(t, ErrCodeInternal, GetCode(fmt.Errorf("plain error")))
	assert.Equal(t, ErrCodeChemBadStatus, GetCode(New(ErrCodeChemBadStatus, "pubchem 500")))

	wrapped := fmt.Errorf("outer: %w", New(ErrCodeFamilyParseError, "bad body"))
	assert.Equal(t, ErrCodeFamilyParseError, GetCode(wrapped))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatusForCode(ErrCodeSearchNoKey))
	assert.Equal(t, http.StatusBadGateway, HTTPStatusForCode(ErrCodeCrawlBadStatus))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "POOL", ModuleForCode(ErrCodePoolExhausted))
	assert.Equal(t, "SRCH", ModuleForCode(ErrCodeSearchFailed))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("_x")))
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.False(t, IsServerError(ErrCodeBadRequest))
	assert.True(t, IsServerError(ErrCodePoolStateLoad))
}
