// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup resolves free-text bibliographic references to DOIs using
// a metadata search service. Each service is a Backend; the resolver asks
// for the single best match and takes it as-is.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

// ErrNotFound is returned when the service has no match for a reference.
var ErrNotFound = errors.New("no matching work found")

// Match is the best work returned for a reference.
type Match struct {
	DOI   string
	Title string
	Score float64
}

// Backend queries one metadata service.
type Backend interface {
	Name() string
	Lookup(ctx context.Context, reference string) (Match, error)
}

// New returns the backend named by cfg.Backend. An empty name selects CrossRef.
func New(cfg types.LookupConfig, client *http.Client) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "crossref":
		return &CrossRef{Client: client, UserAgent: cfg.ContactAgent(), Mailto: cfg.Mailto}, nil
	case "openalex":
		return &OpenAlex{Client: client, UserAgent: cfg.ContactAgent(), Mailto: cfg.Mailto}, nil
	default:
		return nil, fmt.Errorf("unknown lookup backend %q (want crossref or openalex)", cfg.Backend)
	}
}

// TitleMismatch reports whether title is absent from reference after both
// are folded to lower-case alphanumeric words. An empty title never
// mismatches because there is nothing to compare.
func TitleMismatch(reference, title string) bool {
	t := fold(title)
	if t == "" {
		return false
	}
	return !strings.Contains(fold(reference), t)
}

func fold(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}
