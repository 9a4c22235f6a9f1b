// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"regexp"
	"strings"
)

// DOIBase is the canonical DOI resolver prefix.
const DOIBase = "https://doi.org/"

// doiURLPattern matches a doi.org link embedded in free text. The character
// class stops at whitespace and at punctuation such as ')' or ',' that
// commonly follows a link in a reference.
var doiURLPattern = regexp.MustCompile(`https?://doi\.org/[\w./_-]+`)

// ExtractDOI returns the DOI of the first doi.org link in line, with the
// scheme and host stripped, or "" when the line has no such link.
func ExtractDOI(line string) string {
	m := doiURLPattern.FindString(line)
	if m == "" {
		return ""
	}
	m = strings.TrimPrefix(m, "https://doi.org/")
	return strings.TrimPrefix(m, "http://doi.org/")
}

// CanonicalURL returns https://doi.org/<doi>.
func CanonicalURL(doi string) string {
	return DOIBase + doi
}
