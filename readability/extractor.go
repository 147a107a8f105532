// Package readability is the fallback main-content extractor used when
// trafilatura returns nothing.
package readability

import (
	"strings"

	"github.com/fwojciec/dossier"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements dossier.Extractor at compile time.
var _ dossier.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*dossier.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, dossier.Errorf(dossier.EPARSE, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "extract main content: %v", err)
	}

	return &dossier.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
