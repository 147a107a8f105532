package dossier

import (
	"context"
	"time"
)

// SchemaVersion is written into every manifest's run info.
const SchemaVersion = "2.0.0"

// RunStatus is the overall state of a build.
type RunStatus string

// RunStatus values. Builds write RunSuccess; RunCompleted is accepted on read.
const (
	RunRunning   RunStatus = "running"
	RunSuccess   RunStatus = "success"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Download modes.
const (
	DownloadLinksOnly = "links_only"
	DownloadFull      = "full"
)

// Normalization levels.
const (
	NormalizeNone  = "none"
	NormalizeLight = "light"
	NormalizeDeep  = "deep"
)

// Fetch modes.
const (
	FetchHTTP            = "http"
	FetchBrowserFallback = "browser_fallback"
)

// RunInfo describes one build invocation.
type RunInfo struct {
	RunID     string     `json:"run_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Status    RunStatus  `json:"status"`
	Version   string     `json:"version"`
	Error     *string    `json:"error"`
}

// ConfigSnapshot records every tunable used for a build so that update can
// replay it.
type ConfigSnapshot struct {
	Years             int               `json:"years"`
	Forms             []string          `json:"forms"`
	IncludeIR         bool              `json:"include_ir"`
	MaxFilingsPerForm int               `json:"max_filings_per_form"`
	ForceRebuild      bool              `json:"force_rebuild"`
	NormalizeLevel    string            `json:"normalize_level"`
	FetchMode         string            `json:"fetch_mode"`
	DownloadMode      string            `json:"download_mode"`
	SECUserAgent      string            `json:"sec_user_agent"`
	SECRPSLimit       float64           `json:"sec_rps_limit"`
	DomainAllowlist   []string          `json:"domain_allowlist"`
	IRBaseURLMap      map[string]string `json:"ir_base_url_map"`
}

// Manifest is the on-disk aggregate root of a dossier.
type Manifest struct {
	Company        CompanyInfo    `json:"company"`
	RunInfo        RunInfo        `json:"run_info"`
	ConfigSnapshot ConfigSnapshot `json:"config_snapshot"`
	Artifacts      []*Artifact    `json:"artifacts"`
}

// Filings returns the artifacts of type filing.
func (m *Manifest) Filings() []*Artifact {
	typ := TypeFiling
	return FilterArtifacts(m.Artifacts, ArtifactFilter{Type: &typ})
}

// LatestFiledAt returns the most recent filing date, or nil.
func (m *Manifest) LatestFiledAt() *time.Time {
	var latest *time.Time
	for _, a := range m.Filings() {
		if a.FiledAt != nil && (latest == nil || a.FiledAt.After(*latest)) {
			latest = a.FiledAt
		}
	}
	return latest
}

// ManifestService reads and writes one manifest per ticker.
type ManifestService interface {
	// FindManifest reads the manifest of ticker.
	// Returns ENOTFOUND if no manifest exists.
	FindManifest(ctx context.Context, ticker string) (*Manifest, error)

	// SaveManifest overwrites the manifest of m.Company.Ticker.
	SaveManifest(ctx context.Context, m *Manifest) error
}

// ManifestValidator checks raw manifest JSON against the manifest schema.
type ManifestValidator interface {
	ValidateManifest(data []byte) error
}
