// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across pipelines.
package httputil

import (
	"mime"
	"net/http"
	"strings"
	"time"
)

// HeaderTransport sets fixed headers on every outgoing request that does
// not already carry them.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers http.Header
}

// RoundTrip implements http.RoundTripper.
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if len(t.Headers) == 0 {
		return base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	for k, vs := range t.Headers {
		if req.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return base.RoundTrip(req)
}

// NewClient returns a client with the given timeout whose requests carry
// userAgent unless the caller sets their own.
func NewClient(timeout time.Duration, userAgent string) *http.Client {
	h := http.Header{}
	if userAgent != "" {
		h.Set("User-Agent", userAgent)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &HeaderTransport{Headers: h},
	}
}

// IsPDF reports whether a Content-Type header value names a PDF. Any media
// type containing "pdf" qualifies, so application/x-pdf passes too.
func IsPDF(contentType string) bool {
	if contentType == "" {
		return false
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.Contains(mt, "pdf")
	}
	return strings.Contains(strings.ToLower(contentType), "pdf")
}
