// Package inpi implements the client for the Brazilian patent office
// crawler.  The crawler is an external service with its own scraping
// pipeline; its record shape is owned upstream and passed through with only
// the fields the aggregator needs lifted into struct fields.
package inpi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// DefaultBaseURL is the deployed crawler endpoint.
const DefaultBaseURL = "https://crawler3-production.up.railway.app/api/data/inpi/patents"

// Config holds client construction parameters.  The crawler scrapes the
// patent office on demand and is slow; its default timeout is double the
// other providers'.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Record is one crawler result.  Unknown upstream fields are preserved in
// Extra; the crawl stage copies them onto the outgoing patent record so the
// API response keeps whatever the crawler exposed.
type Record struct {
	Number string `json:"number,omitempty"`
	Title  string `json:"title,omitempty"`
	Link   string `json:"link,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

// UnmarshalJSON keeps known fields typed and everything else in Extra.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if v, ok := m["number"].(string); ok {
		r.Number = v
		delete(m, "number")
	}
	if v, ok := m["title"].(string); ok {
		r.Title = v
		delete(m, "title")
	}
	if v, ok := m["link"].(string); ok {
		r.Link = v
		delete(m, "link")
	}
	if len(m) > 0 {
		r.Extra = m
	}
	return nil
}

// Client talks to the jurisdiction crawler.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client.  Zero-value config fields fall back to the
// deployed crawler and a 60s timeout.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}
}

type crawlerResponse struct {
	Data []Record `json:"data"`
}

// Search issues one crawler query and returns its records.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	u := fmt.Sprintf("%s?medicine=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCrawlFailed, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCrawlFailed, "crawler call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeCrawlBadStatus, "crawler returned %d", resp.StatusCode)
	}

	var body crawlerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCrawlParseError, "decode crawler response")
	}
	return body.Data, nil
}
