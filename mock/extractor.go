package mock

import "github.com/fwojciec/dossier"

var _ dossier.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of dossier.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*dossier.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*dossier.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ dossier.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of dossier.Cleaner.
type Cleaner struct {
	CleanFn func(html, baseURL string) (*dossier.ExtractResult, error)
}

func (c *Cleaner) Clean(html, baseURL string) (*dossier.ExtractResult, error) {
	return c.CleanFn(html, baseURL)
}
