package dossier

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultMinChunkChars is the trimmed length a chunk must exceed to be kept.
const DefaultMinChunkChars = 50

// Chunk is one heading-delimited passage of a normalized artifact.
// Chunks reference their artifact by id only.
type Chunk struct {
	ArtifactID  string   `json:"artifact_id"`
	SourceURL   string   `json:"source_url"`
	SectionPath []string `json:"section_path"`
	ChunkIndex  int      `json:"chunk_index"`
	Text        string   `json:"text"`
	WordCount   int      `json:"word_count"`
	TextHash    string   `json:"text_hash"`
}

// ChunkDocument splits normalized markdown at heading lines. Each closed
// chunk is tagged with the heading that preceded it and numbered from zero.
// Chunks whose trimmed text is not longer than minChars are dropped.
// The result depends only on the inputs.
func ChunkDocument(a *Artifact, markdown string, minChars int) []*Chunk {
	var chunks []*Chunk
	var body []string
	section := []string{}

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
		if len(text) <= minChars {
			return
		}
		chunks = append(chunks, &Chunk{
			ArtifactID:  a.ID,
			SourceURL:   a.URL,
			SectionPath: section,
			ChunkIndex:  len(chunks),
			Text:        text,
			WordCount:   len(strings.Fields(text)),
			TextHash:    HashText(text),
		})
	}

	scanLines(markdown, func(line string, heading bool) {
		if !heading {
			body = append(body, line)
			return
		}
		flush()
		_, title := parseHeading(line)
		section = []string{title}
	})
	flush()

	return chunks
}

// HashText returns the xxHash64 of text as 16 hex digits.
func HashText(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// IndexWriter writes chunk records to the dossier index.
// Writes go to a temporary file; Commit replaces the index wholesale and
// Abort discards pending writes.
type IndexWriter interface {
	WriteChunks(ctx context.Context, chunks []*Chunk) error
	Commit() error
	Abort() error
}
