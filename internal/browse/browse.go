// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browse downloads PDFs by driving a real browser to each DOI URL,
// clicking a "PDF" link when the landing page has one, and renaming the
// resulting download to its sequential NNN.pdf name.
package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/pkg/types"
)

// PipelineName identifies browser runs in summaries and the ledger.
const PipelineName = "browse"

// ErrNoDownload is recorded when neither the browser nor the output
// directory yields a downloaded PDF for a URL.
var ErrNoDownload = errors.New("no downloaded PDF found")

// Browser is the page automation the downloader needs.
type Browser interface {
	// Navigate loads url in the current tab.
	Navigate(ctx context.Context, url string) error
	// ClickLink clicks the first link whose visible text contains text and
	// reports whether one was found.
	ClickLink(ctx context.Context, text string) (bool, error)
	// TakeDownload returns the path of a download the browser reported as
	// completed since the previous call, if any.
	TakeDownload() (string, bool)
	Close() error
}

// Downloader runs the browser-driven pipeline.
type Downloader struct {
	Browser Browser
	Config  types.BrowserConfig
	Console io.Writer
	Logger  *log.Logger

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run visits each URL in order. Per-URL failures are recorded and the
// batch continues. The browser is closed when Run returns.
func (d *Downloader) Run(ctx context.Context, urls []string) (types.RunSummary, error) {
	summary := types.RunSummary{
		RunID:    uuid.NewString(),
		Pipeline: PipelineName,
		Started:  time.Now().UTC(),
	}
	defer func() {
		if err := d.Browser.Close(); err != nil {
			d.logger().Debug("closing browser", "err", err)
		}
	}()

	logger := d.logger()
	reserved := reservedNames(len(urls))
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			summary.Finished = time.Now().UTC()
			return summary, err
		}

		idx := i + 1
		target := batch.ArtifactPath(d.Config.OutputDir, idx)
		item := types.ItemResult{Index: idx, Input: url, Path: target}
		itemLog := logger.WithPrefix(fmt.Sprintf("%03d", idx))

		if batch.Exists(target) {
			d.printf("Skipped %s: already exists\n", types.ArtifactName(idx))
			item.Status = types.StatusSkipped
			summary.Add(item)
			continue
		}

		d.printf("Processing %d/%d: %s\n", idx, len(urls), url)
		if err := d.fetchOne(ctx, url, target, reserved, itemLog); err != nil {
			itemLog.Error("error processing URL", "url", url, "err", err)
			item.Status = types.StatusInteractionFailed
			item.Error = err.Error()
		} else {
			item.Status = types.StatusDownloaded
		}
		summary.Add(item)
	}
	summary.Finished = time.Now().UTC()
	return summary, nil
}

func (d *Downloader) fetchOne(ctx context.Context, url, target string, reserved map[string]bool, logger *log.Logger) error {
	if err := d.Browser.Navigate(ctx, url); err != nil {
		return fmt.Errorf("navigating: %w", err)
	}
	if err := d.sleep(ctx, d.Config.Wait); err != nil {
		return err
	}

	clicked, err := d.Browser.ClickLink(ctx, d.linkText())
	switch {
	case err != nil:
		logger.Warn("could not click PDF link; download may start automatically", "err", err)
	case clicked:
		d.printf("Clicked %s link\n", d.linkText())
		if err := d.sleep(ctx, d.Config.Wait); err != nil {
			return err
		}
	default:
		d.printf("No explicit %s link found; download may start automatically\n", d.linkText())
	}

	src, ok := d.Browser.TakeDownload()
	if !ok {
		logger.Debug("no download event; falling back to newest download in directory")
		src, err = LatestPDF(d.Config.OutputDir, reserved)
		if err != nil {
			return err
		}
		if src == "" {
			return ErrNoDownload
		}
	}

	if filepath.Clean(src) == filepath.Clean(target) {
		return nil
	}
	if err := os.Rename(src, target); err != nil {
		return fmt.Errorf("renaming download: %w", err)
	}
	d.printf("Renamed to %s\n", filepath.Base(target))
	return nil
}

func (d *Downloader) linkText() string {
	if d.Config.LinkText == "" {
		return types.DefaultLinkText
	}
	return d.Config.LinkText
}

func (d *Downloader) sleep(ctx context.Context, dur time.Duration) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, dur)
	}
	if dur <= 0 {
		return nil
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Downloader) printf(format string, args ...any) {
	if d.Console != nil {
		fmt.Fprintf(d.Console, format, args...)
	}
}

func (d *Downloader) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.New(io.Discard)
}
