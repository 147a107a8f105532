package dossier

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the document title.
	Title string

	// ContentHTML is the retained content as HTML.
	ContentHTML string
}

// Extractor isolates the main content of a deep-normalized HTML filing.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Cleaner strips markup that carries no readable text (scripts, styles,
// images, inline XBRL headers) and reports the document title. Relative
// links are resolved against baseURL.
type Cleaner interface {
	Clean(html, baseURL string) (*ExtractResult, error)
}
