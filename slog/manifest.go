package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dossier"
)

// Ensure LoggingManifestService implements dossier.ManifestService.
var _ dossier.ManifestService = (*LoggingManifestService)(nil)

// LoggingManifestService wraps a ManifestService with logging.
type LoggingManifestService struct {
	next   dossier.ManifestService
	logger *slog.Logger
}

// NewLoggingManifestService creates a new LoggingManifestService.
func NewLoggingManifestService(next dossier.ManifestService, logger *slog.Logger) *LoggingManifestService {
	return &LoggingManifestService{next: next, logger: logger}
}

// FindManifest delegates to the wrapped service. A missing manifest is
// expected on first build and is not logged as an error.
func (s *LoggingManifestService) FindManifest(ctx context.Context, ticker string) (m *dossier.Manifest, err error) {
	defer func(begin time.Time) {
		attrs := []any{"ticker", ticker, "found", m != nil, "duration", time.Since(begin)}
		if err != nil && dossier.ErrorCode(err) != dossier.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		s.logger.Info("read manifest", attrs...)
	}(time.Now())
	return s.next.FindManifest(ctx, ticker)
}

// SaveManifest delegates to the wrapped service and logs the run state.
func (s *LoggingManifestService) SaveManifest(ctx context.Context, m *dossier.Manifest) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("write manifest",
			"ticker", m.Company.Ticker,
			"status", m.RunInfo.Status,
			"artifacts", len(m.Artifacts),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveManifest(ctx, m)
}
