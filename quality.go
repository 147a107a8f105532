package dossier

import "time"

// QualityMetrics summarizes how complete, fresh and traceable a dossier is.
type QualityMetrics struct {
	Completeness Completeness `json:"completeness"`
	Freshness    Freshness    `json:"freshness"`
	Traceability Traceability `json:"traceability"`
}

// Completeness flags whether the expected filings are present.
type Completeness struct {
	HasRecent10K bool `json:"has_recent_10k"`
	HasRecent10Q bool `json:"has_recent_10q"`
	HasRecent8K  bool `json:"has_recent_8k"`
	HasXBRL      bool `json:"has_xbrl"`
}

// Freshness reports the most recent filing.
type Freshness struct {
	LatestFiledAt       *time.Time `json:"latest_filed_at"`
	DaysSinceLastUpdate *int       `json:"days_since_last_update"`
}

// Traceability reports whether every artifact can be traced to a source.
type Traceability struct {
	ManifestArtifactsComplete bool `json:"manifest_artifacts_complete"`
	AllArtifactsHaveIDs       bool `json:"all_artifacts_have_ids"`
	AllArtifactsHaveURLs      bool `json:"all_artifacts_have_urls"`
}

// AssessQuality computes quality metrics for m as of now. It has no side
// effects and degrades to false and nil fields when inputs are missing.
func AssessQuality(m *Manifest, now time.Time) *QualityMetrics {
	q := &QualityMetrics{}
	if m == nil {
		return q
	}

	years := m.ConfigSnapshot.Years
	if years <= 0 {
		years = DefaultYears
	}

	counts := make(map[string]int)
	for _, a := range m.Filings() {
		counts[a.Form]++
	}
	q.Completeness.HasRecent10K = counts["10-K"] >= min(years, 3)
	q.Completeness.HasRecent10Q = counts["10-Q"] >= min(years*4, 8)
	q.Completeness.HasRecent8K = counts["8-K"] > 0
	for _, a := range m.Artifacts {
		// Links-only entries were never fetched.
		if a.Type == TypeStructuredData && (a.SHA256 != "" || a.ParseStatus == StatusSuccess) {
			q.Completeness.HasXBRL = true
		}
	}

	if latest := m.LatestFiledAt(); latest != nil {
		days := int(now.UTC().Sub(*latest).Hours() / 24)
		q.Freshness.LatestFiledAt = latest
		q.Freshness.DaysSinceLastUpdate = &days
	}

	q.Traceability.ManifestArtifactsComplete = len(m.Artifacts) > 0
	q.Traceability.AllArtifactsHaveIDs = true
	q.Traceability.AllArtifactsHaveURLs = true
	for _, a := range m.Artifacts {
		if a.ID == "" {
			q.Traceability.AllArtifactsHaveIDs = false
		}
		if a.Type != TypeStructuredData && a.URL == "" {
			q.Traceability.AllArtifactsHaveURLs = false
		}
	}

	return q
}
