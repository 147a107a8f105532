package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/fs"
	"github.com/fwojciec/dossier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *dossier.Manifest {
	filed := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	return &dossier.Manifest{
		Company: dossier.CompanyInfo{Ticker: "AAPL", CompanyName: "Apple Inc.", CIK: "0000320193"},
		RunInfo: dossier.RunInfo{
			RunID:     "run-1",
			StartedAt: filed,
			Status:    dossier.RunRunning,
			Version:   dossier.SchemaVersion,
		},
		Artifacts: []*dossier.Artifact{{
			ID:          dossier.FilingArtifactID("0000320193-24-000123", "10-K"),
			Source:      dossier.SourceSEC,
			Type:        dossier.TypeFiling,
			Form:        "10-K",
			FiledAt:     &filed,
			URL:         "https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm",
			ParseStatus: dossier.StatusLinksOnly,
			Metadata:    map[string]any{},
		}},
	}
}

// Story: Manifest Persistence
// Each ticker has exactly one manifest, replaced atomically

func TestManifestService_SaveThenFind(t *testing.T) {
	t.Parallel()

	// Given a manifest service over an empty root
	root := t.TempDir()
	svc := fs.NewManifestService(root, nil)
	m := sampleManifest()

	// When I save and read the manifest
	require.NoError(t, svc.SaveManifest(context.Background(), m))
	got, err := svc.FindManifest(context.Background(), "aapl")

	// Then it round-trips
	require.NoError(t, err)
	assert.Equal(t, m.Company, got.Company)
	require.Len(t, got.Artifacts, 1)
	assert.Equal(t, m.Artifacts[0].ID, got.Artifacts[0].ID)
	assert.True(t, m.Artifacts[0].FiledAt.Equal(*got.Artifacts[0].FiledAt))

	// And it lives at <root>/<TICKER>/manifest.json
	_, err = os.Stat(filepath.Join(root, "AAPL", "manifest.json"))
	require.NoError(t, err)
}

func TestManifestService_WritesNullableFields(t *testing.T) {
	t.Parallel()

	// Given a saved manifest with unset optional fields
	root := t.TempDir()
	svc := fs.NewManifestService(root, nil)
	require.NoError(t, svc.SaveManifest(context.Background(), sampleManifest()))

	// When I decode the raw JSON
	data, err := os.ReadFile(filepath.Join(root, "AAPL", "manifest.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	// Then the optional fields are present as null
	company := raw["company"].(map[string]any)
	assert.Contains(t, company, "exchange")
	assert.Nil(t, company["exchange"])
	runInfo := raw["run_info"].(map[string]any)
	assert.Contains(t, runInfo, "ended_at")
	assert.Nil(t, runInfo["ended_at"])
}

func TestManifestService_FindMissing(t *testing.T) {
	t.Parallel()

	// Given no manifest on disk
	svc := fs.NewManifestService(t.TempDir(), nil)

	// When I look one up
	_, err := svc.FindManifest(context.Background(), "MSFT")

	// Then ENOTFOUND is returned
	require.Error(t, err)
	assert.Equal(t, dossier.ENOTFOUND, dossier.ErrorCode(err))
}

func TestManifestService_FindValidatesRawBytes(t *testing.T) {
	t.Parallel()

	// Given a validator that rejects everything
	root := t.TempDir()
	require.NoError(t, fs.NewManifestService(root, nil).SaveManifest(context.Background(), sampleManifest()))
	var validated []byte
	svc := fs.NewManifestService(root, &mock.ManifestValidator{
		ValidateManifestFn: func(data []byte) error {
			validated = data
			return dossier.Errorf(dossier.EINVALID, "manifest invalid")
		},
	})

	// When I read the manifest
	_, err := svc.FindManifest(context.Background(), "AAPL")

	// Then the validator saw the raw bytes and its error is returned
	require.Error(t, err)
	assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
	assert.NotEmpty(t, validated)
}

func TestManifestService_FindCorrupt(t *testing.T) {
	t.Parallel()

	// Given a truncated manifest
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "AAPL"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "AAPL", "manifest.json"), []byte(`{"company":`), 0644))

	// When I read it
	_, err := fs.NewManifestService(root, nil).FindManifest(context.Background(), "AAPL")

	// Then EPARSE is returned
	require.Error(t, err)
	assert.Equal(t, dossier.EPARSE, dossier.ErrorCode(err))
}

func TestManifestService_SaveRequiresTicker(t *testing.T) {
	t.Parallel()

	err := fs.NewManifestService(t.TempDir(), nil).SaveManifest(context.Background(), &dossier.Manifest{})

	require.Error(t, err)
	assert.Equal(t, dossier.EINVALID, dossier.ErrorCode(err))
}

func TestManifestService_SaveOverwrites(t *testing.T) {
	t.Parallel()

	// Given a running manifest
	root := t.TempDir()
	svc := fs.NewManifestService(root, nil)
	m := sampleManifest()
	require.NoError(t, svc.SaveManifest(context.Background(), m))

	// When the final manifest is saved
	m.RunInfo.Status = dossier.RunSuccess
	require.NoError(t, svc.SaveManifest(context.Background(), m))

	// Then only the final state remains
	got, err := svc.FindManifest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, dossier.RunSuccess, got.RunInfo.Status)

	entries, err := os.ReadDir(filepath.Join(root, "AAPL"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
