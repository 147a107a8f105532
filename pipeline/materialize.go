// Package pipeline orchestrates dossier builds. It resolves a ticker,
// materializes the filing history as artifacts, normalizes downloaded
// content to markdown, writes the chunk index and the manifest.
package pipeline

import (
	"context"
	"mime"
	"path"
	"time"

	"github.com/fwojciec/dossier"
)

// Materializer turns filings into manifest artifacts, downloading and
// hashing their content in full mode.
type Materializer struct {
	Fetcher dossier.Fetcher
	Blobs   dossier.BlobStore

	// Browser is used instead of Fetcher when the fetch mode is
	// browser_fallback. Optional.
	Browser dossier.Fetcher

	Now func() time.Time
}

// MaterializeOptions selects how artifacts are materialized.
type MaterializeOptions struct {
	DownloadMode string
	FetchMode    string
	Force        bool
}

// MaterializeFiling returns the artifact of f. prev is the artifact with the
// same id from the previous manifest, or nil. Failures are recorded on the
// returned artifact.
func (m *Materializer) MaterializeFiling(ctx context.Context, f *dossier.Filing, layout dossier.Layout, prev *dossier.Artifact, opts MaterializeOptions) *dossier.Artifact {
	a := dossier.NewFilingArtifact(f)
	a.Metadata["category"] = dossier.FormCategory(f.Form)
	m.materialize(ctx, a, layout, layout.RawFilingPath(f), prev, opts)
	return a
}

// MaterializeCompanyFacts returns the XBRL company facts artifact of cik.
func (m *Materializer) MaterializeCompanyFacts(ctx context.Context, cik, url string, layout dossier.Layout, prev *dossier.Artifact, opts MaterializeOptions) *dossier.Artifact {
	desc := "XBRL company facts"
	a := &dossier.Artifact{
		ID:          dossier.CompanyFactsArtifactID(cik),
		Source:      dossier.SourceSEC,
		Type:        dossier.TypeStructuredData,
		Form:        "XBRL",
		URL:         url,
		Description: &desc,
		Metadata:    map[string]any{"category": "structured_data"},
	}
	m.materialize(ctx, a, layout, layout.CompanyFactsPath(cik), prev, opts)
	return a
}

func (m *Materializer) materialize(ctx context.Context, a *dossier.Artifact, layout dossier.Layout, rel string, prev *dossier.Artifact, opts MaterializeOptions) {
	a.Metadata["raw_url"] = a.URL
	if a.ViewerURL != "" {
		a.Metadata["viewer_url"] = a.ViewerURL
	}

	if opts.DownloadMode == dossier.DownloadLinksOnly {
		a.ParseStatus = dossier.StatusLinksOnly
		a.LocalPath = ""
		return
	}

	a.ParseStatus = dossier.StatusPending
	abs := layout.Abs(rel)

	local, err := m.Blobs.Inspect(ctx, abs)
	if err != nil && dossier.ErrorCode(err) != dossier.ENOTFOUND {
		a.Fail(errorText(err))
		return
	}

	var previous string
	if local != nil {
		previous = local.SHA256
		if !opts.Force && (prev == nil || prev.SHA256 == "" || prev.SHA256 == local.SHA256) {
			m.reuse(a, rel, local, prev)
			return
		}
	}

	resp, err := m.fetcher(opts).Get(ctx, a.URL)
	if err != nil {
		a.Fail(errorText(err))
		return
	}
	info, err := m.Blobs.Put(ctx, abs, resp.Body)
	if err != nil {
		a.Fail(errorText(err))
		return
	}

	now := m.now()
	a.LocalPath = rel
	a.ContentType = resp.ContentType
	if a.ContentType == "" {
		a.ContentType = contentTypeOf(rel)
	}
	a.SizeBytes = info.Size
	a.SHA256 = info.SHA256
	a.DownloadedAt = &now
	a.Versioning = &dossier.Versioning{
		PreviousSHA256: previous,
		Changed:        previous != "" && previous != info.SHA256,
	}
}

// reuse records an intact local copy without touching the network.
func (m *Materializer) reuse(a *dossier.Artifact, rel string, local *dossier.BlobInfo, prev *dossier.Artifact) {
	a.LocalPath = rel
	a.SizeBytes = local.Size
	a.SHA256 = local.SHA256
	a.ContentType = contentTypeOf(rel)
	downloaded := local.ModTime.UTC()
	a.DownloadedAt = &downloaded
	if prev != nil {
		if prev.ContentType != "" {
			a.ContentType = prev.ContentType
		}
		if prev.DownloadedAt != nil {
			a.DownloadedAt = prev.DownloadedAt
		}
	}
	a.Versioning = &dossier.Versioning{Cached: true, PreviousSHA256: local.SHA256}
}

func (m *Materializer) fetcher(opts MaterializeOptions) dossier.Fetcher {
	if opts.FetchMode == dossier.FetchBrowserFallback && m.Browser != nil {
		return m.Browser
	}
	return m.Fetcher
}

func (m *Materializer) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func contentTypeOf(rel string) string {
	if t := mime.TypeByExtension(path.Ext(rel)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// errorText renders err for a manifest parse_error field.
func errorText(err error) string {
	if dossier.ErrorCode(err) == dossier.EINTERNAL {
		return err.Error()
	}
	return dossier.ErrorMessage(err)
}
