package mock

import "github.com/fwojciec/dossier"

var _ dossier.Converter = (*Converter)(nil)

// Converter is a mock implementation of dossier.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ dossier.XMLFlattener = (*XMLFlattener)(nil)

// XMLFlattener is a mock implementation of dossier.XMLFlattener.
type XMLFlattener struct {
	FlattenFn func(data []byte) (string, error)
}

func (f *XMLFlattener) Flatten(data []byte) (string, error) {
	return f.FlattenFn(data)
}
