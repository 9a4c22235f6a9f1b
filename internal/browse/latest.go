// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

// LatestPDF returns the path of the most recently modified download
// candidate in dir, or "" when there is none. Candidates are .pdf files
// and files named by a bare download GUID, which is how the browser saves
// downloads it was told to name itself. Names in reserved (the NNN.pdf
// artifacts of the current run) are never candidates.
//
// This is a best-effort guess: a leftover from an earlier failed download
// that is newer than the real download will be picked instead. It is used
// only when the browser reported no completed download.
func LatestPDF(dir string, reserved map[string]bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}

	var (
		latest     string
		latestTime time.Time
	)
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || reserved[name] || !isDownload(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = filepath.Join(dir, name)
			latestTime = info.ModTime()
		}
	}
	return latest, nil
}

func isDownload(name string) bool {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return true
	}
	_, err := uuid.Parse(name)
	return err == nil && len(name) == 36
}

// reservedNames returns the artifact names of a run over n inputs.
func reservedNames(n int) map[string]bool {
	names := make(map[string]bool, n)
	for i := 1; i <= n; i++ {
		names[types.ArtifactName(i)] = true
	}
	return names
}
