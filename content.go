package dossier

import (
	"bytes"
	"path/filepath"
	"strings"
)

// ContentKind is the closed set of content the normalizer understands.
type ContentKind int

// ContentKind values.
const (
	KindUnsupported ContentKind = iota
	KindMarkup
	KindText
	KindJSON
	KindXML
	KindPDF
)

// String returns the kind's name as recorded in normalized metadata.
func (k ContentKind) String() string {
	switch k {
	case KindMarkup:
		return "markup"
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindXML:
		return "xml"
	case KindPDF:
		return "pdf"
	default:
		return "unsupported"
	}
}

// ClassifyContent picks a content kind from the file extension. For .xml
// files head, the first bytes of content, decides between XHTML markup and
// plain XML, since EDGAR serves some primary documents as .xml HTML.
func ClassifyContent(path string, head []byte) ContentKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".htm", ".html", ".xhtml":
		return KindMarkup
	case ".txt":
		return KindText
	case ".json":
		return KindJSON
	case ".xml":
		if bytes.Contains(bytes.ToLower(head), []byte("<html")) {
			return KindMarkup
		}
		return KindXML
	case ".pdf":
		return KindPDF
	default:
		return KindUnsupported
	}
}
