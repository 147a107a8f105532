package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fwojciec/dossier"
)

// Normalizer renders downloaded artifacts as markdown next to a metadata
// record.
type Normalizer struct {
	Blobs     dossier.BlobStore
	Cleaner   dossier.Cleaner
	Converter dossier.Converter
	Flattener dossier.XMLFlattener

	// Extractors are tried in order at the deep level until one keeps
	// any content.
	Extractors []dossier.Extractor

	// Tokens adds token_count to the metadata record. Optional.
	Tokens dossier.TokenCounter

	Now func() time.Time
}

// normalizedMeta is the <id>.json record written next to the markdown.
type normalizedMeta struct {
	ArtifactID   string    `json:"artifact_id"`
	Source       string    `json:"source"`
	Type         string    `json:"type"`
	OriginalPath string    `json:"original_path"`
	ContentKind  string    `json:"content_kind"`
	Title        string    `json:"title"`
	NormalizedAt time.Time `json:"normalized_at"`
	WordCount    int       `json:"word_count"`
	TokenCount   *int      `json:"token_count,omitempty"`

	// Sections is the heading outline of the markdown.
	Sections []dossier.Section `json:"sections,omitempty"`
}

// Normalize converts a pending artifact at level and returns its markdown.
// The artifact ends in success or failed; failures return "".
// Artifacts that are not pending are skipped.
func (n *Normalizer) Normalize(ctx context.Context, a *dossier.Artifact, layout dossier.Layout, level string) string {
	if a.ParseStatus != dossier.StatusPending {
		return ""
	}
	if a.LocalPath == "" {
		a.Fail("no local copy to normalize")
		return ""
	}

	data, err := n.Blobs.Get(ctx, layout.Abs(a.LocalPath))
	if err != nil {
		a.Fail(errorText(err))
		return ""
	}

	kind := dossier.ClassifyContent(a.LocalPath, head(data))
	markdown, title, err := n.render(kind, a, data, level)
	if err != nil {
		a.Fail(errorText(err))
		return ""
	}

	mdPath, metaPath := layout.NormalizedPaths(a)
	if _, err := n.Blobs.Put(ctx, layout.Abs(mdPath), []byte(markdown)); err != nil {
		a.Fail(errorText(err))
		return ""
	}

	meta := normalizedMeta{
		ArtifactID:   a.ID,
		Source:       a.Source,
		Type:         a.Type,
		OriginalPath: a.LocalPath,
		ContentKind:  kind.String(),
		Title:        title,
		NormalizedAt: n.now(),
		WordCount:    len(strings.Fields(markdown)),
		Sections:     dossier.ExtractSections(markdown),
	}
	if n.Tokens != nil {
		count, err := n.Tokens.CountTokens(ctx, markdown)
		if err == nil {
			meta.TokenCount = &count
		}
	}
	buf, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		a.Fail(err.Error())
		return ""
	}
	if _, err := n.Blobs.Put(ctx, layout.Abs(metaPath), append(buf, '\n')); err != nil {
		a.Fail(errorText(err))
		return ""
	}

	a.Succeed()
	a.Metadata["normalized_path"] = mdPath
	if title != "" {
		a.Metadata["title"] = title
	}
	return markdown
}

func (n *Normalizer) render(kind dossier.ContentKind, a *dossier.Artifact, data []byte, level string) (markdown, title string, err error) {
	switch kind {
	case dossier.KindMarkup:
		return n.renderMarkup(string(data), a.URL, level)
	case dossier.KindText:
		return string(data), "", nil
	case dossier.KindJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return "", "", dossier.Errorf(dossier.EPARSE, "invalid JSON: %v", err)
		}
		return "```json\n" + buf.String() + "\n```\n", "", nil
	case dossier.KindXML:
		md, err := n.Flattener.Flatten(data)
		return md, "", err
	case dossier.KindPDF:
		return "", "", dossier.Errorf(dossier.EPARSE, "PDF normalization not implemented")
	default:
		return "", "", dossier.Errorf(dossier.EPARSE, "unsupported content: %s", a.LocalPath)
	}
}

func (n *Normalizer) renderMarkup(html, baseURL, level string) (string, string, error) {
	var title string
	if level == dossier.NormalizeDeep {
		for _, e := range n.Extractors {
			res, err := e.Extract(html)
			if err != nil || strings.TrimSpace(res.ContentHTML) == "" {
				continue
			}
			html = res.ContentHTML
			title = res.Title
			break
		}
	}

	cleaned, err := n.Cleaner.Clean(html, baseURL)
	if err != nil {
		return "", "", err
	}
	if cleaned.Title != "" {
		title = cleaned.Title
	}

	md, err := n.Converter.Convert(cleaned.ContentHTML)
	if err != nil {
		return "", "", err
	}
	return md, title, nil
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}

// head returns the prefix of data used to sniff .xml content.
func head(data []byte) []byte {
	const sniffLen = 1024
	if len(data) > sniffLen {
		return data[:sniffLen]
	}
	return data
}
