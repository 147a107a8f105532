package dossier

import (
	"path"
	"path/filepath"
	"strings"
)

// Layout locates files inside one ticker's dossier directory.
// Paths returned by Layout are relative to Dir unless noted.
type Layout struct {
	Root   string
	Ticker string
}

// NewLayout returns the layout of ticker under root.
func NewLayout(root, ticker string) Layout {
	return Layout{Root: root, Ticker: NormalizeTicker(ticker)}
}

// Dir returns the absolute dossier directory.
func (l Layout) Dir() string {
	return filepath.Join(l.Root, l.Ticker)
}

// Abs resolves a dossier-relative path.
func (l Layout) Abs(rel string) string {
	return filepath.Join(l.Dir(), filepath.FromSlash(rel))
}

// ManifestPath returns the absolute manifest path.
func (l Layout) ManifestPath() string {
	return filepath.Join(l.Dir(), "manifest.json")
}

// RawFilingPath returns where a filing's primary document is stored:
// raw/sec/<category>/<date>_<form>_<accession><ext>.
func (l Layout) RawFilingPath(f *Filing) string {
	ext := path.Ext(f.PrimaryDocument)
	if ext == "" {
		ext = ".html"
	}
	date := "undated"
	if f.FiledAt != nil {
		date = f.FiledAt.Format(DateFormat)
	}
	name := date + "_" + FormSlug(f.Form) + "_" + strings.ReplaceAll(f.AccessionNumber, "-", "") + ext
	return path.Join("raw", "sec", FormCategory(f.Form), name)
}

// CompanyFactsPath returns where the XBRL company facts are stored.
func (l Layout) CompanyFactsPath(cik string) string {
	return path.Join("raw", "sec", "structured_data", "xbrl", cik+"_companyfacts.json")
}

// NormalizedPaths mirrors an artifact's raw directory under normalized/
// and returns the markdown and metadata paths.
func (l Layout) NormalizedPaths(a *Artifact) (markdown, meta string) {
	dir := path.Dir(filepath.ToSlash(a.LocalPath))
	dir = strings.TrimPrefix(dir, "raw")
	dir = path.Join("normalized", dir)
	return path.Join(dir, a.ID+".md"), path.Join(dir, a.ID+".json")
}

// IndexPath returns the chunk index path.
func (l Layout) IndexPath() string {
	return path.Join("index", "documents.jsonl")
}

// IRDirs returns the directories reserved for investor-relations material.
func (l Layout) IRDirs() []string {
	return []string{
		path.Join("raw", "ir", "press_releases"),
		path.Join("raw", "ir", "presentations"),
		path.Join("raw", "ir", "earnings"),
	}
}

// MetricsPath returns the Prometheus textfile path.
func (l Layout) MetricsPath() string {
	return path.Join("logs", "metrics.prom")
}
