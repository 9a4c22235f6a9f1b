// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns bibliographic reference lines into DOIs and fetches
// the matching PDFs through an institutional proxy. Each reference produces
// exactly one annotated output line and one ItemResult; every failure is
// confined to its own line.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/internal/lookup"
	"github.com/pdiddy/doi-fetch/pkg/types"
)

// PipelineName identifies resolver runs in summaries and the ledger.
const PipelineName = "resolve"

// NotFound marks a reference whose DOI could not be resolved.
const NotFound = "NOT FOUND"

// Resolver runs the reference-to-PDF pipeline.
type Resolver struct {
	// Client performs the PDF downloads.
	Client *http.Client
	// Lookup resolves references that carry no doi.org link.
	Lookup lookup.Backend
	Config types.ResolverConfig

	// Out receives the annotated records; Console receives a copy.
	Out     io.Writer
	Console io.Writer
	Logger  *log.Logger
}

// Annotate returns the output record for a reference. An empty doi marks
// the reference as not found.
func Annotate(reference, doi string) string {
	if doi == "" {
		return fmt.Sprintf("%s DOI: %s", reference, NotFound)
	}
	return fmt.Sprintf("%s DOI: %s", reference, CanonicalURL(doi))
}

// Run processes references in order. It returns early only when ctx is
// cancelled or an annotated record cannot be written.
func (r *Resolver) Run(ctx context.Context, references []string) (types.RunSummary, error) {
	summary := types.RunSummary{
		RunID:    uuid.NewString(),
		Pipeline: PipelineName,
		Started:  time.Now().UTC(),
	}
	logger := r.logger()
	for i, ref := range references {
		if err := ctx.Err(); err != nil {
			summary.Finished = time.Now().UTC()
			return summary, err
		}

		idx := i + 1
		itemLog := logger.WithPrefix(fmt.Sprintf("%03d", idx))
		item := r.resolveOne(ctx, idx, ref, itemLog)

		if err := r.emit(Annotate(ref, item.DOI)); err != nil {
			summary.Add(item)
			summary.Finished = time.Now().UTC()
			return summary, err
		}

		if item.DOI != "" {
			r.download(ctx, &item, itemLog)
		}
		summary.Add(item)
	}
	summary.Finished = time.Now().UTC()
	return summary, nil
}

// resolveOne finds the DOI for a reference, recording lookup failures.
func (r *Resolver) resolveOne(ctx context.Context, idx int, ref string, logger *log.Logger) types.ItemResult {
	item := types.ItemResult{
		Index: idx,
		Input: ref,
		Path:  batch.ArtifactPath(r.Config.OutputDir, idx),
	}

	if doi := ExtractDOI(ref); doi != "" {
		item.DOI = doi
		item.Source = "pattern"
		return item
	}

	if r.Lookup == nil {
		item.Status = types.StatusLookupFailed
		item.Error = "no DOI link and no lookup backend configured"
		return item
	}

	m, err := r.Lookup.Lookup(ctx, ref)
	if err != nil {
		if !errors.Is(err, lookup.ErrNotFound) {
			logger.Error("error looking up DOI", "backend", r.Lookup.Name(), "err", err)
		}
		item.Status = types.StatusLookupFailed
		item.Error = err.Error()
		return item
	}

	item.DOI = m.DOI
	item.Source = r.Lookup.Name()
	if lookup.TitleMismatch(ref, m.Title) {
		item.TitleMismatch = true
		logger.Warn("best match title does not appear in reference", "doi", m.DOI, "title", m.Title)
	}
	return item
}

// download fetches the artifact for a resolved item and sets its status.
func (r *Resolver) download(ctx context.Context, item *types.ItemResult, logger *log.Logger) {
	name := types.ArtifactName(item.Index)
	skipped, err := DownloadPDF(ctx, r.Client, item.DOI, item.Path, r.Config)
	switch {
	case err != nil:
		item.Status = types.StatusDownloadFailed
		item.Error = err.Error()
		var dlErr *DownloadError
		if errors.As(err, &dlErr) {
			logger.Warn("no direct PDF found", "url", dlErr.URL, "status", dlErr.StatusCode, "content-type", dlErr.ContentType)
		} else {
			logger.Error("error downloading PDF", "doi", item.DOI, "err", err)
		}
	case skipped:
		item.Status = types.StatusSkipped
		logger.Info("skipped: already exists", "file", name)
	default:
		item.Status = types.StatusDownloaded
		logger.Info("saved PDF", "file", item.Path)
	}
}

func (r *Resolver) emit(record string) error {
	if r.Console != nil {
		fmt.Fprintln(r.Console, record)
	}
	if r.Out == nil {
		return nil
	}
	if _, err := fmt.Fprintln(r.Out, record); err != nil {
		return fmt.Errorf("writing output record: %w", err)
	}
	return nil
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}
