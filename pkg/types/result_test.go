// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "001.pdf", ArtifactName(1))
	assert.Equal(t, "042.pdf", ArtifactName(42))
	assert.Equal(t, "1234.pdf", ArtifactName(1234))
}

func TestRunSummaryCounts(t *testing.T) {
	var s RunSummary
	s.Add(ItemResult{Index: 1, Status: StatusDownloaded})
	s.Add(ItemResult{Index: 2, Status: StatusSkipped})
	s.Add(ItemResult{Index: 3, Status: StatusLookupFailed})
	s.Add(ItemResult{Index: 4, Status: StatusDownloaded})

	assert.Equal(t, 4, s.Total())
	assert.Equal(t, 2, s.Count(StatusDownloaded))
	assert.Equal(t, 1, s.Count(StatusSkipped))
	assert.Equal(t, 0, s.Count(StatusInteractionFailed))
	assert.True(t, s.HasFailures())
}

func TestRunSummaryNoFailures(t *testing.T) {
	s := RunSummary{Items: []ItemResult{{Status: StatusSkipped}, {Status: StatusDownloaded}}}
	assert.False(t, s.HasFailures())
}

func TestContactAgent(t *testing.T) {
	tests := []struct {
		name string
		cfg  HTTPConfig
		want string
	}{
		{"agent only", HTTPConfig{UserAgent: "x/1"}, "x/1"},
		{"with mailto", HTTPConfig{UserAgent: "x/1", Mailto: "a@b.edu"}, "x/1 (mailto:a@b.edu)"},
		{"default agent", HTTPConfig{Mailto: "a@b.edu"}, DefaultUserAgent + " (mailto:a@b.edu)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ContactAgent())
		})
	}
}
