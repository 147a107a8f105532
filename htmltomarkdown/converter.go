// Package htmltomarkdown renders cleaned filing HTML as Markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/dossier"
)

// Ensure Converter implements dossier.Converter at compile time.
var _ dossier.Converter = (*Converter)(nil)

// blankRuns matches the long runs of empty lines left behind by the
// spacer rows and empty cells common in EDGAR documents.
var blankRuns = regexp.MustCompile(`\n[ \t]*(\n[ \t]*){2,}`)

// Converter wraps html-to-markdown to convert filing HTML to Markdown.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links against domain, for example
// "https://www.sec.gov".
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = domain
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", dossier.Errorf(dossier.EPARSE, "empty HTML input")
	}

	var convOpts []converter.ConvertOptionFunc
	if c.domain != "" {
		convOpts = append(convOpts, converter.WithDomain(c.domain))
	}

	result, err := c.conv.ConvertString(html, convOpts...)
	if err != nil {
		return "", dossier.Errorf(dossier.EPARSE, "convert HTML: %v", err)
	}

	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result) + "\n", nil
}
