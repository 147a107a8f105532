// Package prometheus exports per-dossier build metrics in the node
// exporter textfile format.
package prometheus

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/prometheus/client_golang/prometheus"
)

var _ dossier.MetricsRecorder = (*Recorder)(nil)

// Recorder implements dossier.MetricsRecorder. Each call builds a fresh
// registry so the textfile reflects only the latest build.
type Recorder struct{}

// NewRecorder creates a new Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordBuild writes the metrics of a finished build to path.
func (r *Recorder) RecordBuild(path string, m *dossier.Manifest, summary *dossier.BuildSummary, elapsed time.Duration) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"ticker": summary.Ticker}

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "dossier_build_duration_seconds",
		Help:        "Wall time of the last build.",
		ConstLabels: labels,
	})
	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "dossier_build_success",
		Help:        "1 if the last build succeeded, 0 otherwise.",
		ConstLabels: labels,
	})
	artifacts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "dossier_artifacts",
		Help:        "Artifacts in the manifest, labeled by type and parse status.",
		ConstLabels: labels,
	}, []string{"type", "parse_status"})
	downloads := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "dossier_materialized",
		Help:        "Artifacts materialized in the last build, labeled by outcome.",
		ConstLabels: labels,
	}, []string{"outcome"})
	chunks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "dossier_chunks",
		Help:        "Chunks written to the index.",
		ConstLabels: labels,
	})
	latest := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "dossier_latest_filing_timestamp_seconds",
		Help:        "Filing date of the most recent filing, as a Unix timestamp.",
		ConstLabels: labels,
	})

	reg.MustRegister(duration, success, artifacts, downloads, chunks, latest)

	duration.Set(elapsed.Seconds())
	if summary.Status != dossier.RunFailed {
		success.Set(1)
	}
	downloads.WithLabelValues("downloaded").Set(float64(summary.DownloadedCount))
	downloads.WithLabelValues("cached").Set(float64(summary.SkippedCached))
	downloads.WithLabelValues("links_only").Set(float64(summary.LinksOnly))
	chunks.Set(float64(summary.ChunkCount))
	if summary.LatestFiledAt != nil {
		latest.Set(float64(summary.LatestFiledAt.Unix()))
	}
	if m != nil {
		for _, a := range m.Artifacts {
			artifacts.WithLabelValues(a.Type, string(a.ParseStatus)).Inc()
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return dossier.Errorf(dossier.EIO, "create %s: %v", filepath.Dir(path), err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return dossier.Errorf(dossier.EIO, "write metrics: %v", err)
	}
	return nil
}
