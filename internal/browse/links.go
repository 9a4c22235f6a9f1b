// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browse

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is an anchor found on a page.
type Link struct {
	Text string
	Href string
}

// FindLinks returns the anchors in html whose visible text contains text,
// in document order. Matching is case-sensitive, like a partial link-text
// locator.
func FindLinks(html, text string) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var links []Link
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		visible := strings.Join(strings.Fields(s.Text()), " ")
		if !strings.Contains(visible, text) {
			return
		}
		href, _ := s.Attr("href")
		links = append(links, Link{Text: visible, Href: href})
	})
	return links, nil
}

// linkXPath selects the first anchor whose normalized text contains text.
func linkXPath(text string) string {
	return fmt.Sprintf(`(//a[contains(normalize-space(.), %s)])[1]`, xpathLiteral(text))
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	if len(quoted) == 1 {
		quoted = append(quoted, `""`)
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
