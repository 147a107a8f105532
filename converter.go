package dossier

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms cleaned HTML into Markdown, keeping link
	// references and dropping images.
	Convert(html string) (string, error)
}

// XMLFlattener renders an XML document as readable markdown.
type XMLFlattener interface {
	Flatten(data []byte) (string, error)
}
