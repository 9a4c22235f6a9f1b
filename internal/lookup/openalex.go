// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// openAlexWorksURL is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexWorksURL = "https://api.openalex.org/works"

// OpenAlex looks references up with the OpenAlex works search.
type OpenAlex struct {
	Client    *http.Client
	UserAgent string
	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string
}

// Name returns the backend identifier.
func (o *OpenAlex) Name() string { return "openalex" }

// Lookup returns the top search result that carries a DOI.
func (o *OpenAlex) Lookup(ctx context.Context, reference string) (Match, error) {
	params := url.Values{
		"search":   {reference},
		"per_page": {"1"},
	}
	if o.Mailto != "" {
		params.Set("mailto", o.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexWorksURL+"?"+params.Encode(), nil)
	if err != nil {
		return Match{}, fmt.Errorf("creating request: %w", err)
	}
	if o.UserAgent != "" {
		req.Header.Set("User-Agent", o.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Match{}, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Match{}, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return Match{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	for _, work := range oar.Results {
		if work.DOI == "" {
			continue
		}
		return Match{
			DOI:   stripDOIPrefix(work.DOI),
			Title: work.Title,
			Score: work.RelevanceScore,
		}, nil
	}
	return Match{}, ErrNotFound
}

// stripDOIPrefix turns "https://doi.org/10.1/x" into "10.1/x".
func stripDOIPrefix(doi string) string {
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/"} {
		if strings.HasPrefix(strings.ToLower(doi), p) {
			return doi[len(p):]
		}
	}
	return doi
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	DOI            string  `json:"doi"`
	RelevanceScore float64 `json:"relevance_score"`
}
