// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

const sampleCrossRefSearchJSON = `{
  "status": "ok",
  "message": {
    "total-results": 1,
    "items": [
      {
        "DOI": "10.1037/0003-066X.59.1.29",
        "title": ["How the Mind Hurts and Heals the Body"],
        "score": 87.3
      }
    ]
  }
}`

const sampleOpenAlexSearchJSON = `{
  "meta": {"count": 2, "per_page": 1, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W2100837269",
      "title": "How the Mind Hurts and Heals the Body",
      "doi": "https://doi.org/10.1037/0003-066x.59.1.29",
      "relevance_score": 412.5
    }
  ]
}`

func withCrossRef(t *testing.T, url string) {
	t.Helper()
	orig := crossrefWorksURL
	crossrefWorksURL = url
	t.Cleanup(func() { crossrefWorksURL = orig })
}

func withOpenAlex(t *testing.T, url string) {
	t.Helper()
	orig := openAlexWorksURL
	openAlexWorksURL = url
	t.Cleanup(func() { openAlexWorksURL = orig })
}

func TestCrossRefLookup(t *testing.T) {
	var gotQuery, gotRows, gotAgent, gotMailto string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.bibliographic")
		gotRows = r.URL.Query().Get("rows")
		gotMailto = r.URL.Query().Get("mailto")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleCrossRefSearchJSON)
	}))
	defer ts.Close()
	withCrossRef(t, ts.URL+"/works")

	b := &CrossRef{Client: ts.Client(), UserAgent: "doi-fetch-test/0.1 (mailto:a@b.edu)", Mailto: "a@b.edu"}
	ref := "Ray, O. (2004). How the mind hurts and heals the body. American Psychologist, 59(1), 29-40."

	m, err := b.Lookup(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "10.1037/0003-066X.59.1.29", m.DOI)
	assert.Equal(t, "How the Mind Hurts and Heals the Body", m.Title)
	assert.InDelta(t, 87.3, m.Score, 0.001)
	assert.Equal(t, ref, gotQuery)
	assert.Equal(t, "1", gotRows)
	assert.Equal(t, "a@b.edu", gotMailto)
	assert.Equal(t, "doi-fetch-test/0.1 (mailto:a@b.edu)", gotAgent)
}

func TestCrossRefLookupNoItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok","message":{"items":[]}}`)
	}))
	defer ts.Close()
	withCrossRef(t, ts.URL+"/works")

	_, err := (&CrossRef{Client: ts.Client()}).Lookup(context.Background(), "nothing like this")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCrossRefLookupHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()
	withCrossRef(t, ts.URL+"/works")

	_, err := (&CrossRef{Client: ts.Client()}).Lookup(context.Background(), "ref")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestOpenAlexLookup(t *testing.T) {
	var gotSearch, gotPerPage string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleOpenAlexSearchJSON)
	}))
	defer ts.Close()
	withOpenAlex(t, ts.URL+"/works")

	m, err := (&OpenAlex{Client: ts.Client()}).Lookup(context.Background(), "mind hurts heals body")
	require.NoError(t, err)

	assert.Equal(t, "10.1037/0003-066x.59.1.29", m.DOI)
	assert.Equal(t, "mind hurts heals body", gotSearch)
	assert.Equal(t, "1", gotPerPage)
}

func TestOpenAlexLookupNoDOI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":"W1","title":"x","doi":null}]}`)
	}))
	defer ts.Close()
	withOpenAlex(t, ts.URL+"/works")

	_, err := (&OpenAlex{Client: ts.Client()}).Lookup(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenAlexLookupHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	withOpenAlex(t, ts.URL+"/works")

	_, err := (&OpenAlex{Client: ts.Client()}).Lookup(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend  string
		wantName string
		wantErr  bool
	}{
		{"", "crossref", false},
		{"crossref", "crossref", false},
		{"OpenAlex", "openalex", false},
		{"scholar", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			b, err := New(types.LookupConfig{Backend: tt.backend}, http.DefaultClient)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, b.Name())
		})
	}
}

func TestTitleMismatch(t *testing.T) {
	ref := "Ray, O. (2004). How the mind hurts and heals the body. American Psychologist, 59(1), 29-40."
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"same title different case", "How the Mind Hurts and Heals the Body", false},
		{"punctuation ignored", "How the mind hurts -- and heals -- the body!", false},
		{"different work", "Deep Residual Learning for Image Recognition", true},
		{"empty title", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleMismatch(ref, tt.title))
		})
	}
}

func TestStripDOIPrefix(t *testing.T) {
	assert.Equal(t, "10.1/x", stripDOIPrefix("https://doi.org/10.1/x"))
	assert.Equal(t, "10.1/x", stripDOIPrefix("http://doi.org/10.1/x"))
	assert.Equal(t, "10.1/x", stripDOIPrefix("10.1/x"))
}
