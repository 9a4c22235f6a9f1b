// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ItemStatus records how a single input line was handled.
type ItemStatus string

const (
	StatusDownloaded        ItemStatus = "downloaded"
	StatusSkipped           ItemStatus = "skipped"
	StatusLookupFailed      ItemStatus = "lookup-failed"
	StatusDownloadFailed    ItemStatus = "download-failed"
	StatusInteractionFailed ItemStatus = "interaction-failed"
)

// Failed reports whether the status is one of the failure kinds.
func (s ItemStatus) Failed() bool {
	switch s {
	case StatusLookupFailed, StatusDownloadFailed, StatusInteractionFailed:
		return true
	}
	return false
}

// ArtifactName returns the sequential file name for a 1-based input
// position: 1 -> "001.pdf".
func ArtifactName(index int) string {
	return fmt.Sprintf("%03d.pdf", index)
}

// ItemResult is the outcome for one input line.
type ItemResult struct {
	// Index is the 1-based position of the line in the input file.
	Index int `json:"index" yaml:"index"`

	// Input is the reference or DOI URL as read.
	Input string `json:"input" yaml:"input"`

	// DOI is the resolved identifier, without the doi.org prefix.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Source names where the DOI came from: "pattern" or a lookup backend.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Path is the artifact location, set whether or not it was written.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	Status ItemStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed items.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// TitleMismatch is set when the lookup returned a work whose title is
	// not found in the reference text.
	TitleMismatch bool `json:"title_mismatch,omitempty" yaml:"title_mismatch,omitempty"`
}

// RunSummary collects the per-item results of one pipeline run.
type RunSummary struct {
	RunID    string       `json:"run_id" yaml:"run_id"`
	Pipeline string       `json:"pipeline" yaml:"pipeline"`
	Started  time.Time    `json:"started" yaml:"started"`
	Finished time.Time    `json:"finished" yaml:"finished"`
	Items    []ItemResult `json:"items" yaml:"items"`
}

// Add appends an item result.
func (s *RunSummary) Add(r ItemResult) {
	s.Items = append(s.Items, r)
}

// Count returns the number of items with the given status.
func (s RunSummary) Count(status ItemStatus) int {
	n := 0
	for _, it := range s.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}

// Total returns the number of items processed.
func (s RunSummary) Total() int {
	return len(s.Items)
}

// HasFailures reports whether any item failed.
func (s RunSummary) HasFailures() bool {
	for _, it := range s.Items {
		if it.Status.Failed() {
			return true
		}
	}
	return false
}
