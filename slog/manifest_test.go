package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/mock"
	dslog "github.com/fwojciec/dossier/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingManifestService(t *testing.T) {
	t.Parallel()

	t.Run("missing manifest is not logged as error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ManifestService{
			FindManifestFn: func(ctx context.Context, ticker string) (*dossier.Manifest, error) {
				return nil, dossier.Errorf(dossier.ENOTFOUND, "no manifest for %s", ticker)
			},
		}

		s := dslog.NewLoggingManifestService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := s.FindManifest(context.Background(), "AAPL")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "read manifest")
		assert.Contains(t, output, "found=false")
		assert.NotContains(t, output, "err=")
	})

	t.Run("logs write with status and artifact count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ManifestService{
			SaveManifestFn: func(ctx context.Context, m *dossier.Manifest) error {
				return nil
			},
		}

		s := dslog.NewLoggingManifestService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		err := s.SaveManifest(context.Background(), &dossier.Manifest{
			Company:   dossier.CompanyInfo{Ticker: "AAPL"},
			RunInfo:   dossier.RunInfo{Status: dossier.RunRunning},
			Artifacts: []*dossier.Artifact{{ID: "a"}},
		})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "write manifest")
		assert.Contains(t, output, "status=running")
		assert.Contains(t, output, "artifacts=1")
	})
}
