package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/google/uuid"
)

var _ dossier.DossierService = (*Builder)(nil)

// Builder builds dossiers. Execution is sequential; every outbound call
// goes through the fetchers the collaborators were built with.
type Builder struct {
	Config       *dossier.Config
	Resolver     dossier.TickerResolver
	Filings      dossier.FilingService
	Manifests    dossier.ManifestService
	Blobs        dossier.BlobStore
	Materializer *Materializer
	Normalizer   *Normalizer

	// NewIndex opens the chunk index writer at path.
	NewIndex func(path string) dossier.IndexWriter

	// Runs records build history. Optional.
	Runs dossier.RunService

	// Metrics exports build metrics to logs/metrics.prom. Optional.
	Metrics dossier.MetricsRecorder

	Progress dossier.ProgressFunc
	Now      func() time.Time
	NewRunID func() string
}

// Build resolves ticker and rebuilds its dossier with opts over the
// configured defaults.
func (b *Builder) Build(ctx context.Context, ticker string, opts dossier.BuildOptions) *dossier.BuildResult {
	return b.run(ctx, ticker, opts, false)
}

// Update rebuilds ticker, taking every option opts leaves unset from the
// previous manifest's config snapshot.
func (b *Builder) Update(ctx context.Context, ticker string, opts dossier.BuildOptions) *dossier.BuildResult {
	return b.run(ctx, ticker, opts, true)
}

func (b *Builder) run(ctx context.Context, ticker string, opts dossier.BuildOptions, update bool) *dossier.BuildResult {
	start := b.now()
	layout := dossier.NewLayout(b.Config.DossierRoot, ticker)
	res := &dossier.BuildResult{
		DossierPath:  layout.Dir(),
		ManifestPath: layout.ManifestPath(),
		Summary: dossier.BuildSummary{
			Ticker: layout.Ticker,
			Status: dossier.RunRunning,
		},
	}

	if layout.Ticker == "" {
		return fail(res, dossier.Errorf(dossier.EINVALID, "ticker required"))
	}
	if err := opts.Validate(); err != nil {
		return fail(res, err)
	}

	b.progress(dossier.Progress{Stage: dossier.StageResolve, Message: layout.Ticker})
	entry, err := b.Resolver.ResolveTicker(ctx, layout.Ticker)
	if err != nil {
		return fail(res, err)
	}
	res.Summary.CIK = entry.CIK
	res.Summary.CompanyName = entry.Name

	prev, err := b.Manifests.FindManifest(ctx, layout.Ticker)
	if err != nil {
		if dossier.ErrorCode(err) != dossier.ENOTFOUND {
			if update {
				return fail(res, err)
			}
			b.progress(dossier.Progress{Stage: dossier.StageManifest, Message: "ignoring unreadable previous manifest", Err: err})
		}
		prev = nil
	}

	var prevSnap *dossier.ConfigSnapshot
	if update && prev != nil {
		prevSnap = &prev.ConfigSnapshot
	}

	m := &dossier.Manifest{
		Company: dossier.CompanyInfo{
			Ticker:      layout.Ticker,
			CompanyName: entry.Name,
			CIK:         entry.CIK,
		},
		RunInfo: dossier.RunInfo{
			RunID:     b.newRunID(),
			StartedAt: start,
			Status:    dossier.RunRunning,
			Version:   dossier.SchemaVersion,
		},
		ConfigSnapshot: dossier.ResolveSnapshot(b.Config, prevSnap, opts),
		Artifacts:      []*dossier.Artifact{},
	}
	if err := b.Manifests.SaveManifest(ctx, m); err != nil {
		return fail(res, err)
	}
	b.recordRun(ctx, m)

	if err := b.populate(ctx, m, prev, layout, &res.Summary); err != nil {
		return b.abandon(ctx, m, layout, res, err)
	}

	end := b.now()
	m.RunInfo.EndedAt = &end
	m.RunInfo.Status = dossier.RunSuccess
	summarize(m, &res.Summary)
	if err := b.Manifests.SaveManifest(ctx, m); err != nil {
		return b.abandon(ctx, m, layout, res, err)
	}
	b.progress(dossier.Progress{Stage: dossier.StageManifest, Message: "manifest written", Completed: len(m.Artifacts), Total: len(m.Artifacts)})

	res.Summary.Status = dossier.RunSuccess
	res.QualityMetrics = dossier.AssessQuality(m, end)
	b.recordMetrics(layout, m, &res.Summary, end.Sub(start))
	b.recordRun(ctx, m)
	return res
}

// populate fetches, materializes, normalizes and indexes into m.
// Per-artifact failures are recorded on the artifacts; the returned error
// fails the whole build.
func (b *Builder) populate(ctx context.Context, m *dossier.Manifest, prev *dossier.Manifest, layout dossier.Layout, summary *dossier.BuildSummary) error {
	snap := m.ConfigSnapshot
	cik := m.Company.CIK

	b.progress(dossier.Progress{Stage: dossier.StageFetch, Message: cik})
	history, err := b.Filings.FindFilings(ctx, cik, dossier.FilingFilter{
		Forms:      snap.Forms,
		Years:      snap.Years,
		MaxPerForm: snap.MaxFilingsPerForm,
		Now:        b.now(),
	})
	if err != nil {
		return fmt.Errorf("find filings: %w", err)
	}
	if history.Name != "" {
		m.Company.CompanyName = history.Name
	}
	if len(history.Exchanges) > 0 {
		exchange := history.Exchanges[0]
		m.Company.Exchange = &exchange
	}

	previous := make(map[string]*dossier.Artifact)
	if prev != nil {
		for _, a := range prev.Artifacts {
			previous[a.ID] = a
		}
	}

	opts := MaterializeOptions{
		DownloadMode: snap.DownloadMode,
		FetchMode:    snap.FetchMode,
		Force:        snap.ForceRebuild,
	}
	total := len(history.Filings) + 1
	for i, f := range history.Filings {
		if err := ctx.Err(); err != nil {
			return err
		}
		id := dossier.FilingArtifactID(f.AccessionNumber, f.Form)
		a := b.Materializer.MaterializeFiling(ctx, f, layout, previous[id], opts)
		m.Artifacts = append(m.Artifacts, a)
		b.reportArtifact(dossier.StageMaterialize, a, i+1, total)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	factsURL := b.endpoints().CompanyFactsURL(cik)
	facts := b.Materializer.MaterializeCompanyFacts(ctx, cik, factsURL, layout, previous[dossier.CompanyFactsArtifactID(cik)], opts)
	m.Artifacts = append(m.Artifacts, facts)
	b.reportArtifact(dossier.StageMaterialize, facts, total, total)

	if snap.IncludeIR {
		b.prepareIR(ctx, layout, snap)
	}

	if snap.DownloadMode != dossier.DownloadFull || snap.NormalizeLevel == dossier.NormalizeNone {
		return b.clearIndex(ctx, layout)
	}
	return b.normalizeAndIndex(ctx, m, layout, summary)
}

// clearIndex empties an index left by an earlier build so no chunk refers
// to an artifact this build did not normalize.
func (b *Builder) clearIndex(ctx context.Context, layout dossier.Layout) error {
	path := layout.Abs(layout.IndexPath())
	if _, err := b.Blobs.Inspect(ctx, path); dossier.ErrorCode(err) == dossier.ENOTFOUND {
		return nil
	} else if err != nil {
		return fmt.Errorf("inspect index: %w", err)
	}
	if err := b.NewIndex(path).Commit(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	b.progress(dossier.Progress{Stage: dossier.StageIndex, Message: "0 chunks"})
	return nil
}

// normalizeAndIndex normalizes every pending artifact and rebuilds the
// chunk index from the results. The index is only replaced on success.
func (b *Builder) normalizeAndIndex(ctx context.Context, m *dossier.Manifest, layout dossier.Layout, summary *dossier.BuildSummary) (err error) {
	index := b.NewIndex(layout.Abs(layout.IndexPath()))
	defer func() {
		if err != nil {
			_ = index.Abort()
		}
	}()

	level := m.ConfigSnapshot.NormalizeLevel
	var chunks int
	for i, a := range m.Artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.ParseStatus != dossier.StatusPending {
			continue
		}

		markdown := b.Normalizer.Normalize(ctx, a, layout, level)
		b.reportArtifact(dossier.StageNormalize, a, i+1, len(m.Artifacts))

		// Company facts are a single unstructured JSON blob and stay out of
		// the index.
		if a.ParseStatus != dossier.StatusSuccess || a.Type == dossier.TypeStructuredData {
			continue
		}
		batch := dossier.ChunkDocument(a, markdown, dossier.DefaultMinChunkChars)
		if len(batch) == 0 {
			continue
		}
		if err := index.WriteChunks(ctx, batch); err != nil {
			return fmt.Errorf("write index: %w", err)
		}
		chunks += len(batch)
	}

	if err := index.Commit(); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}
	summary.ChunkCount = chunks
	b.progress(dossier.Progress{Stage: dossier.StageIndex, Message: fmt.Sprintf("%d chunks", chunks), Completed: chunks, Total: chunks})
	return nil
}

// abandon rewrites the running manifest as failed and leaves it in place.
func (b *Builder) abandon(ctx context.Context, m *dossier.Manifest, layout dossier.Layout, res *dossier.BuildResult, cause error) *dossier.BuildResult {
	ctx = context.WithoutCancel(ctx)
	msg := errorText(cause)
	end := b.now()
	m.RunInfo.EndedAt = &end
	m.RunInfo.Status = dossier.RunFailed
	m.RunInfo.Error = &msg
	summarize(m, &res.Summary)
	fail(res, cause)

	if err := b.Manifests.SaveManifest(ctx, m); err != nil {
		b.progress(dossier.Progress{Stage: dossier.StageManifest, Message: "write failed manifest", Err: err})
	}
	b.recordMetrics(layout, m, &res.Summary, end.Sub(m.RunInfo.StartedAt))
	b.recordRun(ctx, m)
	return res
}

// fail marks res as a failed build.
func fail(res *dossier.BuildResult, err error) *dossier.BuildResult {
	msg := errorText(err)
	res.Summary.Status = dossier.RunFailed
	res.Summary.Error = &msg
	return res
}

// summarize fills the artifact counts of s from m.
func summarize(m *dossier.Manifest, s *dossier.BuildSummary) {
	s.Ticker = m.Company.Ticker
	s.CIK = m.Company.CIK
	s.CompanyName = m.Company.CompanyName
	s.TotalFilings = len(m.Filings())
	s.LatestFiledAt = m.LatestFiledAt()
	s.DownloadedCount, s.SkippedCached, s.LinksOnly = 0, 0, 0
	s.ParsedSuccess, s.ParsedFailed = 0, 0

	for _, a := range m.Artifacts {
		switch a.ParseStatus {
		case dossier.StatusLinksOnly:
			s.LinksOnly++
		case dossier.StatusSuccess:
			s.ParsedSuccess++
		case dossier.StatusFailed:
			s.ParsedFailed++
		}
		if a.Versioning == nil {
			continue
		}
		if a.Versioning.Cached {
			s.SkippedCached++
		} else {
			s.DownloadedCount++
		}
	}
}

// Status reports on the dossier of ticker without touching the network.
func (b *Builder) Status(ctx context.Context, ticker string) (*dossier.StatusReport, error) {
	ticker = dossier.NormalizeTicker(ticker)
	m, err := b.Manifests.FindManifest(ctx, ticker)
	if dossier.ErrorCode(err) == dossier.ENOTFOUND {
		return &dossier.StatusReport{Exists: false, Ticker: ticker}, nil
	} else if err != nil {
		return nil, err
	}

	updated := m.RunInfo.EndedAt
	if updated == nil {
		updated = &m.RunInfo.StartedAt
	}
	return &dossier.StatusReport{
		Exists:        true,
		Ticker:        m.Company.Ticker,
		CompanyName:   m.Company.CompanyName,
		CIK:           m.Company.CIK,
		TotalFilings:  len(m.Filings()),
		LatestFiledAt: m.LatestFiledAt(),
		LastUpdated:   updated,
		RunStatus:     m.RunInfo.Status,
		ManifestPath:  dossier.NewLayout(b.Config.DossierRoot, ticker).ManifestPath(),
	}, nil
}

// ListFilings returns the filing artifacts of ticker matching filter.
func (b *Builder) ListFilings(ctx context.Context, ticker string, filter dossier.ArtifactFilter) ([]*dossier.Artifact, error) {
	m, err := b.Manifests.FindManifest(ctx, dossier.NormalizeTicker(ticker))
	if dossier.ErrorCode(err) == dossier.ENOTFOUND {
		return []*dossier.Artifact{}, nil
	} else if err != nil {
		return nil, err
	}
	typ := dossier.TypeFiling
	filter.Type = &typ
	return dossier.FilterArtifacts(m.Artifacts, filter), nil
}

func (b *Builder) recordRun(ctx context.Context, m *dossier.Manifest) {
	if b.Runs == nil {
		return
	}
	run := &dossier.RunRecord{
		RunID:         m.RunInfo.RunID,
		Ticker:        m.Company.Ticker,
		Status:        m.RunInfo.Status,
		StartedAt:     m.RunInfo.StartedAt,
		EndedAt:       m.RunInfo.EndedAt,
		ArtifactCount: len(m.Artifacts),
	}
	if m.RunInfo.Error != nil {
		run.Error = *m.RunInfo.Error
	}
	if err := b.Runs.CreateRun(context.WithoutCancel(ctx), run); err != nil {
		b.progress(dossier.Progress{Stage: dossier.StageManifest, Message: "record run", Err: err})
	}
}

func (b *Builder) recordMetrics(layout dossier.Layout, m *dossier.Manifest, summary *dossier.BuildSummary, elapsed time.Duration) {
	if b.Metrics == nil {
		return
	}
	if err := b.Metrics.RecordBuild(layout.Abs(layout.MetricsPath()), m, summary, elapsed); err != nil {
		b.progress(dossier.Progress{Stage: dossier.StageManifest, Message: "record metrics", Err: err})
	}
}

func (b *Builder) reportArtifact(stage string, a *dossier.Artifact, completed, total int) {
	p := dossier.Progress{
		Stage:      stage,
		ArtifactID: a.ID,
		Message:    string(a.ParseStatus),
		Completed:  completed,
		Total:      total,
	}
	if a.ParseError != nil {
		p.Err = errors.New(*a.ParseError)
	}
	b.progress(p)
}

func (b *Builder) progress(p dossier.Progress) {
	if b.Progress != nil {
		b.Progress(p)
	}
}

func (b *Builder) endpoints() dossier.Endpoints {
	if b.Config.Endpoints.Data == "" {
		return dossier.DefaultEndpoints
	}
	return b.Config.Endpoints
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now().UTC()
	}
	return time.Now().UTC()
}

func (b *Builder) newRunID() string {
	if b.NewRunID != nil {
		return b.NewRunID()
	}
	return uuid.NewString()
}
