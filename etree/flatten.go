// Package etree renders XML filings, such as ownership reports, as
// Markdown so they can be chunked like any other document.
package etree

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/dossier"
)

var _ dossier.XMLFlattener = (*Flattener)(nil)

// maxHeadingLevel is the deepest Markdown heading.
const maxHeadingLevel = 6

// Flattener turns an element tree into Markdown. Elements with children
// become headings whose level follows their depth; leaf elements become
// "- tag: value" list items.
type Flattener struct{}

// NewFlattener creates a new Flattener.
func NewFlattener() *Flattener {
	return &Flattener{}
}

// Flatten parses data as XML and renders it.
func (f *Flattener) Flatten(data []byte) (string, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return "", dossier.Errorf(dossier.EPARSE, "parsing XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return "", dossier.Errorf(dossier.EPARSE, "XML document has no root element")
	}

	var b strings.Builder
	writeElement(&b, root, 1)
	return strings.TrimSpace(b.String()) + "\n", nil
}

func writeElement(b *strings.Builder, el *etree.Element, depth int) {
	children := el.ChildElements()
	text := collapse(el.Text())

	if len(children) == 0 {
		if text == "" {
			return
		}
		b.WriteString("- ")
		b.WriteString(el.Tag)
		b.WriteString(": ")
		b.WriteString(text)
		b.WriteString("\n")
		return
	}

	level := min(depth, maxHeadingLevel)
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("#", level))
	b.WriteString(" ")
	b.WriteString(el.Tag)
	b.WriteString("\n\n")
	if text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	// Leaves are listed before nested containers so that each list stays
	// under its own heading.
	for _, child := range children {
		if len(child.ChildElements()) == 0 {
			writeElement(b, child, depth+1)
		}
	}
	for _, child := range children {
		if len(child.ChildElements()) > 0 {
			writeElement(b, child, depth+1)
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
