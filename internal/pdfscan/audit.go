// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfscan

import (
	"strings"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/internal/resolve"
)

// Status is the outcome of checking one artifact.
type Status string

const (
	StatusMatch      Status = "match"
	StatusMismatch   Status = "mismatch"
	StatusMissing    Status = "missing"
	StatusUnreadable Status = "unreadable"
	StatusNoDOI      Status = "no-doi"
)

// Finding is the audit result for one resolved record.
type Finding struct {
	Index    int    `json:"index" yaml:"index"`
	Expected string `json:"expected" yaml:"expected"`
	Found    string `json:"found,omitempty" yaml:"found,omitempty"`
	Path     string `json:"path" yaml:"path"`
	Status   Status `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// recordMarker separates the reference from its annotation.
const recordMarker = " DOI: "

// extract is swapped in tests.
var extract = ExtractDOI

// ParseRecord splits an annotated output line into the reference and its
// DOI. The DOI is everything after the annotation, so identifiers with
// parentheses or semicolons survive intact. ok is false for NOT FOUND
// lines and lines without an annotation.
func ParseRecord(line string) (reference, doi string, ok bool) {
	i := strings.LastIndex(line, recordMarker)
	if i < 0 {
		return line, "", false
	}
	reference = line[:i]
	value := strings.TrimSpace(line[i+len(recordMarker):])
	if value == resolve.NotFound {
		return reference, "", false
	}
	doi = strings.TrimPrefix(value, resolve.DOIBase)
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	return reference, doi, doi != ""
}

// Audit checks the artifact of every resolved record in dir. Records are
// numbered by position, matching the resolver's NNN.pdf naming; unresolved
// records are skipped since they never produce an artifact.
func Audit(records []string, dir string) []Finding {
	var findings []Finding
	for i, line := range records {
		_, want, ok := ParseRecord(line)
		if !ok {
			continue
		}
		idx := i + 1
		f := Finding{
			Index:    idx,
			Expected: want,
			Path:     batch.ArtifactPath(dir, idx),
		}
		switch {
		case !batch.Exists(f.Path):
			f.Status = StatusMissing
		default:
			got, err := extract(f.Path)
			f.Found = got
			switch {
			case err != nil:
				f.Status = StatusUnreadable
				f.Error = err.Error()
			case got == "":
				f.Status = StatusNoDOI
			case strings.EqualFold(got, want):
				f.Status = StatusMatch
			default:
				f.Status = StatusMismatch
			}
		}
		findings = append(findings, f)
	}
	return findings
}

// Count returns how many findings have the given status.
func Count(findings []Finding, s Status) int {
	n := 0
	for _, f := range findings {
		if f.Status == s {
			n++
		}
	}
	return n
}
