package dossier

import (
	"context"
	"time"
)

// RunRecord is one entry of the local build history.
type RunRecord struct {
	RunID         string     `json:"run_id"`
	Ticker        string     `json:"ticker"`
	Status        RunStatus  `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at"`
	ArtifactCount int        `json:"artifact_count"`
	Error         string     `json:"error"`
}

// Validate returns an error if the record contains invalid fields.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return Errorf(EINVALID, "run ID required")
	}
	if r.Ticker == "" {
		return Errorf(EINVALID, "run ticker required")
	}
	return nil
}

// RunService stores build history.
type RunService interface {
	// CreateRun inserts or replaces a run record.
	CreateRun(ctx context.Context, run *RunRecord) error

	// FindRuns returns runs matching filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Ticker *string `json:"ticker"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
