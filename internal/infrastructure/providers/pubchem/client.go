// Package pubchem implements the chemistry provider client.  It exposes the
// two read-only endpoints the discovery pipeline consumes: the synonym
// listing for a compound name and the structured property table.
package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// DefaultBaseURL is the public PubChem PUG REST endpoint.
const DefaultBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

// Config holds client construction parameters.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Property is one label/value pair from the compound property table.  The
// provider qualifies some labels with a name (e.g. label "SMILES", name
// "Canonical"); both are needed to pick the right variant.
type Property struct {
	Label string
	Name  string
	Value string
}

// Client talks to the chemistry provider.
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

type synonymsResponse struct {
	InformationList struct {
		Information []struct {
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
}

// Synonyms returns the provider's raw synonym list for a compound name.
func (c *Client) Synonyms(ctx context.Context, name string) ([]string, error) {
	u := fmt.Sprintf("%s/compound/name/%s/synonyms/JSON", c.baseURL, url.PathEscape(name))

	var resp synonymsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if len(resp.InformationList.Information) == 0 {
		return nil, nil
	}
	return resp.InformationList.Information[0].Synonym, nil
}

type compoundResponse struct {
	PCCompounds []struct {
		Props []struct {
			URN struct {
				Label string `json:"label"`
				Name  string `json:"name"`
			} `json:"urn"`
			Value struct {
				SVal string `json:"sval"`
			} `json:"value"`
		} `json:"props"`
	} `json:"PC_Compounds"`
}

// Properties returns the compound's label/value property table.
func (c *Client) Properties(ctx context.Context, name string) ([]Property, error) {
	u := fmt.Sprintf("%s/compound/name/%s/JSON", c.baseURL, url.PathEscape(name))

	var resp compoundResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if len(resp.PCCompounds) == 0 {
		return nil, nil
	}

	props := make([]Property, 0, len(resp.PCCompounds[0].Props))
	for _, p := range resp.PCCompounds[0].Props {
		props = append(props, Property{
			Label: p.URN.Label,
			Name:  p.URN.Name,
			Value: p.Value.SVal,
		})
	}
	return props, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeChemLookupFailed, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeChemLookupFailed, "chemistry provider call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrCodeChemBadStatus, "chemistry provider returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeChemParseFailed, "decode chemistry response")
	}
	return nil
}
