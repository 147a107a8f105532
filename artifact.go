package dossier

import (
	"strings"
	"time"
)

// Artifact sources.
const (
	SourceSEC = "sec"
	SourceIR  = "ir"
)

// Artifact types.
const (
	TypeFiling         = "filing"
	TypeExhibit        = "exhibit"
	TypeStructuredData = "structured_data"
	TypePress          = "press"
	TypePresentation   = "presentation"
	TypeOther          = "other"
)

// ParseStatus tracks an artifact through materialization and normalization.
type ParseStatus string

// ParseStatus values. Only StatusPending can still move.
const (
	StatusPending   ParseStatus = "pending"
	StatusSuccess   ParseStatus = "success"
	StatusFailed    ParseStatus = "failed"
	StatusLinksOnly ParseStatus = "links_only"
)

// Terminal reports whether s can no longer change within a run.
func (s ParseStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusLinksOnly:
		return true
	}
	return false
}

// Artifact is a filing or supplementary document recorded in the manifest.
type Artifact struct {
	ID              string         `json:"id"`
	Source          string         `json:"source"`
	Type            string         `json:"type"`
	Form            string         `json:"form"`
	Period          *string        `json:"period"`
	FiledAt         *time.Time     `json:"filed_at"`
	AccessionNumber string         `json:"accession_number"`
	PrimaryDocument string         `json:"primary_document"`
	URL             string         `json:"url"`
	ViewerURL       string         `json:"viewer_url"`
	Description     *string        `json:"description"`
	LocalPath       string         `json:"local_path"`
	ContentType     string         `json:"content_type"`
	SizeBytes       int64          `json:"size_bytes"`
	SHA256          string         `json:"sha256"`
	DownloadedAt    *time.Time     `json:"downloaded_at"`
	ParseStatus     ParseStatus    `json:"parse_status"`
	ParseError      *string        `json:"parse_error"`
	Versioning      *Versioning    `json:"versioning"`
	Metadata        map[string]any `json:"metadata"`
}

// Versioning records how the materializer arrived at an artifact's content.
type Versioning struct {
	Cached         bool   `json:"cached"`
	PreviousSHA256 string `json:"previous_sha256"`
	Changed        bool   `json:"changed"`
}

// Fail moves a non-terminal artifact to StatusFailed with msg.
// Terminal artifacts are left untouched.
func (a *Artifact) Fail(msg string) {
	if a.ParseStatus.Terminal() {
		return
	}
	a.ParseStatus = StatusFailed
	a.ParseError = &msg
}

// Succeed moves a pending artifact to StatusSuccess.
func (a *Artifact) Succeed() {
	if a.ParseStatus != StatusPending {
		return
	}
	a.ParseStatus = StatusSuccess
	a.ParseError = nil
}

// NewFilingArtifact copies a filing's fields into a new artifact.
// The caller sets status and storage fields.
func NewFilingArtifact(f *Filing) *Artifact {
	return &Artifact{
		ID:              FilingArtifactID(f.AccessionNumber, f.Form),
		Source:          SourceSEC,
		Type:            TypeFiling,
		Form:            f.Form,
		Period:          f.Period,
		FiledAt:         f.FiledAt,
		AccessionNumber: f.AccessionNumber,
		PrimaryDocument: f.PrimaryDocument,
		URL:             f.URL,
		ViewerURL:       f.ViewerURL,
		Description:     f.Description,
		Metadata:        map[string]any{},
	}
}

// FilingArtifactID is the manifest-unique id of a filing artifact.
func FilingArtifactID(accession, form string) string {
	return "sec_filing_" + accession + "_" + FormSlug(form)
}

// CompanyFactsArtifactID is the id of the per-company XBRL facts artifact.
func CompanyFactsArtifactID(cik string) string {
	return "sec_xbrl_" + cik + "_companyfacts"
}

// Form categories group raw filings on disk.
const (
	CategoryFinancialReports       = "financial_reports"
	CategoryMaterialEvents         = "material_events"
	CategoryProxyStatements        = "proxy_statements"
	CategoryInsiderTransactions    = "insider_transactions"
	CategoryRegistrationStatements = "registration_statements"
	CategoryInstitutionalHoldings  = "institutional_holdings"
	CategoryFundReports            = "fund_reports"
	CategoryOther                  = "other_filings"
)

var formCategories = map[string]string{
	"10-K":    CategoryFinancialReports,
	"10-Q":    CategoryFinancialReports,
	"20-F":    CategoryFinancialReports,
	"40-F":    CategoryFinancialReports,
	"8-K":     CategoryMaterialEvents,
	"6-K":     CategoryMaterialEvents,
	"DEF 14A": CategoryProxyStatements,
	"3":       CategoryInsiderTransactions,
	"4":       CategoryInsiderTransactions,
	"5":       CategoryInsiderTransactions,
	"S-1":     CategoryRegistrationStatements,
	"S-3":     CategoryRegistrationStatements,
	"S-4":     CategoryRegistrationStatements,
	"S-8":     CategoryRegistrationStatements,
	"13F-HR":  CategoryInstitutionalHoldings,
	"13F-NT":  CategoryInstitutionalHoldings,
	"N-CSR":   CategoryFundReports,
	"N-CSRS":  CategoryFundReports,
	"N-Q":     CategoryFundReports,
}

// FormCategory returns the storage category for a form type.
func FormCategory(form string) string {
	if c, ok := formCategories[strings.TrimSpace(form)]; ok {
		return c
	}
	return CategoryOther
}

// ArtifactFilter represents a filter for FilterArtifacts.
type ArtifactFilter struct {
	// Form keeps artifacts whose form equals it exactly.
	Form *string

	// Since keeps artifacts filed at or after it.
	Since *time.Time

	// Type keeps artifacts of a single type.
	Type *string
}

// FilterArtifacts returns the artifacts matching filter in manifest order.
// Artifacts without a filing date never match a Since filter.
func FilterArtifacts(artifacts []*Artifact, filter ArtifactFilter) []*Artifact {
	out := []*Artifact{}
	for _, a := range artifacts {
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		if filter.Form != nil && a.Form != *filter.Form {
			continue
		}
		if filter.Since != nil && (a.FiledAt == nil || a.FiledAt.Before(*filter.Since)) {
			continue
		}
		out = append(out, a)
	}
	return out
}
