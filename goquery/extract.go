// Package goquery cleans filing HTML before Markdown conversion.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dossier"
)

// Ensure Cleaner implements dossier.Cleaner at compile time.
var _ dossier.Cleaner = (*Cleaner)(nil)

// noiseSelectors match elements that never contribute readable text.
var noiseSelectors = "script, style, noscript, img, svg, iframe, object, link, meta"

// hiddenTags are namespaced inline XBRL elements whose content is a block
// of machine-readable facts rather than prose.
var hiddenTags = map[string]bool{
	"ix:header": true,
}

// Cleaner implements dossier.Cleaner using goquery.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean removes non-text markup, resolves links against baseURL and
// returns the document title with the cleaned body HTML.
func (c *Cleaner) Clean(html, baseURL string) (*dossier.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "failed to parse HTML: %v", err)
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")

	doc.Find(noiseSelectors).Remove()
	doc.Find("*").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return hiddenTags[goquery.NodeName(sel)]
	}).Remove()

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, dossier.Errorf(dossier.EINVALID, "invalid base URL: %v", err)
		}
	}
	rewriteLinks(doc.Selection, base)

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	content, err := root.Html()
	if err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "failed to render HTML: %v", err)
	}

	return &dossier.ExtractResult{
		Title:       title,
		ContentHTML: content,
	}, nil
}

// rewriteLinks makes hrefs absolute and unwraps anchors that do not lead
// anywhere outside the current document.
func rewriteLinks(sel *goquery.Selection, base *url.URL) {
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" || isNonHTTPLink(href) {
			a.ReplaceWithSelection(a.Contents())
			return
		}
		if base == nil {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			a.ReplaceWithSelection(a.Contents())
			return
		}
		a.SetAttr("href", resolved)
	})
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// points back at the base document.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
