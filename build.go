package dossier

import (
	"context"
	"time"
)

// BuildResult is returned to the caller of a build or update.
// A failed build is reported through Summary.Status, not an error.
type BuildResult struct {
	DossierPath    string          `json:"dossier_path"`
	ManifestPath   string          `json:"manifest_path"`
	Summary        BuildSummary    `json:"summary"`
	QualityMetrics *QualityMetrics `json:"quality_metrics"`
}

// BuildSummary counts what a build did.
type BuildSummary struct {
	Ticker          string     `json:"ticker"`
	CIK             string     `json:"cik"`
	CompanyName     string     `json:"company_name"`
	TotalFilings    int        `json:"total_filings"`
	DownloadedCount int        `json:"downloaded_count"`
	SkippedCached   int        `json:"skipped_cached"`
	LinksOnly       int        `json:"links_only"`
	ParsedSuccess   int        `json:"parsed_success"`
	ParsedFailed    int        `json:"parsed_failed"`
	ChunkCount      int        `json:"chunk_count"`
	LatestFiledAt   *time.Time `json:"latest_filed_at"`
	Status          RunStatus  `json:"status"`
	Error           *string    `json:"error"`
}

// Failed reports whether the build as a whole failed.
func (r *BuildResult) Failed() bool {
	return r.Summary.Status == RunFailed
}

// StatusReport describes an existing dossier without touching the network.
type StatusReport struct {
	Exists        bool       `json:"exists"`
	Ticker        string     `json:"ticker"`
	CompanyName   string     `json:"company_name,omitempty"`
	CIK           string     `json:"cik,omitempty"`
	TotalFilings  int        `json:"total_filings"`
	LatestFiledAt *time.Time `json:"latest_filed_at,omitempty"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
	RunStatus     RunStatus  `json:"run_status,omitempty"`
	ManifestPath  string     `json:"manifest_path,omitempty"`
}

// DossierService builds and inspects dossiers.
type DossierService interface {
	// Build resolves ticker and rewrites its dossier from scratch.
	Build(ctx context.Context, ticker string, opts BuildOptions) *BuildResult

	// Update rebuilds ticker with unspecified options taken from the
	// previous manifest's config snapshot.
	Update(ctx context.Context, ticker string, opts BuildOptions) *BuildResult

	// Status reports on the dossier of ticker. A missing dossier is not
	// an error.
	Status(ctx context.Context, ticker string) (*StatusReport, error)

	// ListFilings returns the filing artifacts of ticker matching filter.
	// A missing dossier yields an empty list.
	ListFilings(ctx context.Context, ticker string, filter ArtifactFilter) ([]*Artifact, error)
}

// Progress stages.
const (
	StageResolve     = "resolve"
	StageFetch       = "fetch"
	StageMaterialize = "materialize"
	StageIR          = "ir"
	StageNormalize   = "normalize"
	StageIndex       = "index"
	StageManifest    = "manifest"
)

// Progress reports one step of a build.
type Progress struct {
	Stage      string
	ArtifactID string
	Message    string
	Completed  int
	Total      int
	Err        error
}

// ProgressFunc is called as a build advances.
type ProgressFunc func(Progress)

// MetricsRecorder exports build metrics.
type MetricsRecorder interface {
	// RecordBuild records a finished build and writes the metrics to path.
	RecordBuild(path string, m *Manifest, summary *BuildSummary, elapsed time.Duration) error
}
