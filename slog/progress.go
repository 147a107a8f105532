package slog

import (
	"log/slog"

	"github.com/fwojciec/dossier"
)

// ProgressLogger returns a ProgressFunc that logs build progress. Stage
// events log at Info, per-artifact events at Debug and anything carrying
// an error at Warn.
func ProgressLogger(logger *slog.Logger) dossier.ProgressFunc {
	return func(p dossier.Progress) {
		attrs := []any{"stage", p.Stage}
		if p.ArtifactID != "" {
			attrs = append(attrs, "artifact", p.ArtifactID)
		}
		if p.Total > 0 {
			attrs = append(attrs, "completed", p.Completed, "total", p.Total)
		}

		switch {
		case p.Err != nil:
			logger.Warn(p.Message, append(attrs, "err", p.Err)...)
		case p.ArtifactID != "":
			logger.Debug(p.Message, attrs...)
		default:
			logger.Info(p.Message, attrs...)
		}
	}
}
