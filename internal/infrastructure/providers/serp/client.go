// Package serp implements the client for the rotating-credential search
// provider.  It serves two pipeline stages: plain web search (Google engine)
// for family-identifier mining, and patent search (Google Patents engine)
// for family expansion, including the continuation-link fetch that yields
// the worldwide-applications breakdown.
package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// DefaultBaseURL is the public search provider endpoint.
const DefaultBaseURL = "https://serpapi.com"

// Config holds client construction parameters.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OrganicResult is one entry of a search response.  SerpAPILink, when
// present on a patent-engine result, is the continuation link to the full
// family record.
type OrganicResult struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Link        string `json:"link"`
	SerpAPILink string `json:"serpapi_link"`
}

// WorldwideApplication is one national application inside a patent family.
type WorldwideApplication struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

// FamilyDetail is the continuation-link payload: national applications
// grouped by filing year.
type FamilyDetail struct {
	WorldwideApplications map[string][]WorldwideApplication
}

// Client talks to the search provider.  Credentials are passed per call;
// the client holds none itself.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client.  Zero-value config fields fall back to the
// public endpoint and a 30s timeout.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	OrganicResults []OrganicResult `json:"organic_results"`
}

// Search issues one Google-engine query and returns its organic results.
func (c *Client) Search(ctx context.Context, query, apiKey string) ([]OrganicResult, error) {
	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("api_key", apiKey)
	q.Set("num", "10")

	var resp searchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/search.json?%s", c.baseURL, q.Encode()), &resp,
		errors.ErrCodeSearchFailed, errors.ErrCodeSearchBadStatus, errors.ErrCodeSearchParseError); err != nil {
		return nil, err
	}
	return resp.OrganicResults, nil
}

// PatentSearch looks a family identifier up on the Google Patents engine and
// returns the organic results; the first result's continuation link, when
// set, leads to the full family record.
func (c *Client) PatentSearch(ctx context.Context, familyID, apiKey string) ([]OrganicResult, error) {
	q := url.Values{}
	q.Set("engine", "google_patents")
	q.Set("q", familyID)
	q.Set("api_key", apiKey)
	q.Set("num", "20")

	var resp searchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/search.json?%s", c.baseURL, q.Encode()), &resp,
		errors.ErrCodeFamilyLookupFailed, errors.ErrCodeFamilyBadStatus, errors.ErrCodeFamilyParseError); err != nil {
		return nil, err
	}
	return resp.OrganicResults, nil
}

type familyDetailResponse struct {
	WorldwideApplications map[string]json.RawMessage `json:"worldwide_applications"`
}

// FetchFamilyDetail follows a continuation link, appending the same
// credential the originating search used, and returns the
// worldwide-applications breakdown.  Year entries whose payload is not a
// list are skipped, matching the provider's loose schema.
func (c *Client) FetchFamilyDetail(ctx context.Context, link, apiKey string) (*FamilyDetail, error) {
	sep := "?"
	if containsQuery(link) {
		sep = "&"
	}
	full := fmt.Sprintf("%s%sapi_key=%s", link, sep, url.QueryEscape(apiKey))

	var resp familyDetailResponse
	if err := c.getJSON(ctx, full, &resp,
		errors.ErrCodeFamilyLookupFailed, errors.ErrCodeFamilyBadStatus, errors.ErrCodeFamilyParseError); err != nil {
		return nil, err
	}

	detail := &FamilyDetail{WorldwideApplications: map[string][]WorldwideApplication{}}
	for year, raw := range resp.WorldwideApplications {
		var apps []WorldwideApplication
		if err := json.Unmarshal(raw, &apps); err != nil {
			continue
		}
		detail.WorldwideApplications[year] = apps
	}
	return detail, nil
}

func containsQuery(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.RawQuery != ""
}

func (c *Client) getJSON(ctx context.Context, u string, dest interface{}, callCode, statusCode, parseCode errors.ErrorCode) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, callCode, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, callCode, "search provider call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(statusCode, "search provider returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, parseCode, "decode search response")
	}
	return nil
}
