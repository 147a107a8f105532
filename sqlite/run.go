package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/dossier"
)

var _ dossier.RunService = (*RunService)(nil)

// RunService implements dossier.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun inserts a run record, replacing any earlier record with the
// same run ID so a run can be saved once when it starts and again when
// it ends.
func (s *RunService) CreateRun(ctx context.Context, run *dossier.RunRecord) error {
	if err := run.Validate(); err != nil {
		return err
	}

	var endedAt sql.NullString
	if run.EndedAt != nil {
		endedAt = sql.NullString{String: formatTime(*run.EndedAt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, ticker, status, started_at, ended_at, artifact_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			status = excluded.status,
			ended_at = excluded.ended_at,
			artifact_count = excluded.artifact_count,
			error = excluded.error
	`, run.RunID, dossier.NormalizeTicker(run.Ticker), string(run.Status), formatTime(run.StartedAt),
		endedAt, run.ArtifactCount, run.Error)
	return err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter dossier.RunFilter) ([]*dossier.RunRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT run_id, ticker, status, started_at, ended_at, artifact_count, error FROM runs WHERE 1=1")

	if filter.Ticker != nil {
		query.WriteString(" AND ticker = ?")
		args = append(args, dossier.NormalizeTicker(*filter.Ticker))
	}

	query.WriteString(" ORDER BY started_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*dossier.RunRecord{}
	for rows.Next() {
		var run dossier.RunRecord
		var status, startedAt string
		var endedAt sql.NullString

		if err := rows.Scan(&run.RunID, &run.Ticker, &status, &startedAt, &endedAt,
			&run.ArtifactCount, &run.Error); err != nil {
			return nil, err
		}
		run.Status = dossier.RunStatus(status)

		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			t, err := parseTime(endedAt.String, "ended_at")
			if err != nil {
				return nil, err
			}
			run.EndedAt = &t
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
