// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
)

// crossrefWorksURL is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefWorksURL = "https://api.crossref.org/works"

// CrossRef looks references up with CrossRef's query.bibliographic search.
type CrossRef struct {
	Client *http.Client
	// UserAgent should carry a mailto contact for the polite pool.
	UserAgent string
	Mailto    string
}

// Name returns the backend identifier.
func (c *CrossRef) Name() string { return "crossref" }

// Lookup returns the first item of a one-row bibliographic search.
func (c *CrossRef) Lookup(ctx context.Context, reference string) (Match, error) {
	var body string
	rb := requests.URL(crossrefWorksURL).
		Client(c.Client).
		Param("query.bibliographic", reference).
		ParamInt("rows", 1).
		Accept("application/json").
		ToString(&body)
	if c.UserAgent != "" {
		rb = rb.UserAgent(c.UserAgent)
	}
	if c.Mailto != "" {
		rb = rb.Param("mailto", c.Mailto)
	}

	if err := rb.Fetch(ctx); err != nil {
		return Match{}, fmt.Errorf("CrossRef API request: %w", err)
	}

	item := gjson.Get(body, "message.items.0")
	doi := item.Get("DOI").String()
	if doi == "" {
		return Match{}, ErrNotFound
	}
	return Match{
		DOI:   doi,
		Title: item.Get("title.0").String(),
		Score: item.Get("score").Float(),
	}, nil
}
