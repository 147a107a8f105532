package fs

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fwojciec/dossier"
)

// Ensure ManifestService implements dossier.ManifestService at compile time.
var _ dossier.ManifestService = (*ManifestService)(nil)

// ManifestService stores one manifest.json per ticker under Root.
type ManifestService struct {
	Root string

	// Validator checks manifests read from disk. Optional.
	Validator dossier.ManifestValidator
}

// NewManifestService creates a ManifestService rooted at the dossier root.
func NewManifestService(root string, validator dossier.ManifestValidator) *ManifestService {
	return &ManifestService{Root: root, Validator: validator}
}

// FindManifest reads and decodes the manifest of ticker.
func (s *ManifestService) FindManifest(ctx context.Context, ticker string) (*dossier.Manifest, error) {
	path := dossier.NewLayout(s.Root, ticker).ManifestPath()

	data, err := os.ReadFile(path)
	if notExist(err) {
		return nil, dossier.Errorf(dossier.ENOTFOUND, "no manifest for %s", dossier.NormalizeTicker(ticker))
	}
	if err != nil {
		return nil, dossier.Errorf(dossier.EIO, "read %s: %v", path, err)
	}

	if s.Validator != nil {
		if err := s.Validator.ValidateManifest(data); err != nil {
			return nil, err
		}
	}

	var m dossier.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "decode %s: %v", path, err)
	}
	return &m, nil
}

// SaveManifest writes m as indented JSON, replacing any previous manifest.
func (s *ManifestService) SaveManifest(ctx context.Context, m *dossier.Manifest) error {
	if m.Company.Ticker == "" {
		return dossier.Errorf(dossier.EINVALID, "manifest ticker required")
	}
	if m.Artifacts == nil {
		m.Artifacts = []*dossier.Artifact{}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return dossier.Errorf(dossier.EINTERNAL, "encode manifest: %v", err)
	}
	data = append(data, '\n')

	return writeFileAtomic(dossier.NewLayout(s.Root, m.Company.Ticker).ManifestPath(), data)
}
