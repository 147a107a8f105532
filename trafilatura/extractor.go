// Package trafilatura isolates the main body of a filing for deep
// normalization.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/dossier"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements dossier.Extractor at compile time.
var _ dossier.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML. Tables and links are kept
// since financial statements live in tables. An empty ContentHTML means
// trafilatura found nothing it considers main content.
func (e *Extractor) Extract(rawHTML string) (*dossier.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, dossier.Errorf(dossier.EPARSE, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "extract main content: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &dossier.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", dossier.Errorf(dossier.EPARSE, "render content: %v", err)
	}
	return buf.String(), nil
}
