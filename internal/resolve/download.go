// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/internal/httputil"
	"github.com/pdiddy/doi-fetch/pkg/types"
)

// DownloadError reports a response that was not a PDF.
type DownloadError struct {
	URL         string
	StatusCode  int
	ContentType string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("no direct PDF at %s (status=%d, content-type=%s)", e.URL, e.StatusCode, e.ContentType)
}

// ProxyURL returns the proxied request URL for a DOI.
func ProxyURL(doi string, cfg types.ResolverConfig) string {
	return cfg.ProxyPrefix + CanonicalURL(doi)
}

// DownloadPDF fetches the PDF for doi through the configured proxy and
// saves it at path. If path already exists nothing is requested and
// skipped is true. The file is written only for a 200 response whose
// Content-Type names a PDF; otherwise a *DownloadError is returned and no
// file is created.
func DownloadPDF(ctx context.Context, client *http.Client, doi, path string, cfg types.ResolverConfig) (skipped bool, err error) {
	if batch.Exists(path) {
		return true, nil
	}

	url := ProxyURL(doi, cfg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.ContactAgent())
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK || !httputil.IsPDF(contentType) {
		io.Copy(io.Discard, resp.Body)
		return false, &DownloadError{URL: url, StatusCode: resp.StatusCode, ContentType: contentType}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating directory: %w", err)
	}
	if err := writeAtomic(path, resp.Body); err != nil {
		return false, err
	}
	return false, nil
}

// writeAtomic copies r to a temporary file next to destPath and renames it
// into place, so a partial body never appears under the final name.
func writeAtomic(destPath string, r io.Reader) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
