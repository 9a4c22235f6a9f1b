// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfscan reads DOIs back out of downloaded PDFs to check that
// each NNN.pdf artifact is the paper its reference resolved to.
package pdfscan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPages bounds how far into a document we look; the DOI is almost
// always in the first page header or footer.
const maxPages = 3

var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI returns the first DOI found in the opening pages of the PDF
// at path. An empty string with a nil error means the text carried no DOI.
func ExtractDOI(path string) (doi string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pages := min(r.NumPage(), maxPages)
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}
	return "", nil
}

func findDOI(text string) string {
	m := doiPattern.FindString(text)
	return strings.TrimRight(m, ".,;:)")
}
