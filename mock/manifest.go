package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.ManifestService = (*ManifestService)(nil)

// ManifestService is a mock implementation of dossier.ManifestService.
type ManifestService struct {
	FindManifestFn func(ctx context.Context, ticker string) (*dossier.Manifest, error)
	SaveManifestFn func(ctx context.Context, m *dossier.Manifest) error
}

func (s *ManifestService) FindManifest(ctx context.Context, ticker string) (*dossier.Manifest, error) {
	return s.FindManifestFn(ctx, ticker)
}

func (s *ManifestService) SaveManifest(ctx context.Context, m *dossier.Manifest) error {
	return s.SaveManifestFn(ctx, m)
}

var _ dossier.ManifestValidator = (*ManifestValidator)(nil)

// ManifestValidator is a mock implementation of dossier.ManifestValidator.
type ManifestValidator struct {
	ValidateManifestFn func(data []byte) error
}

func (v *ManifestValidator) ValidateManifest(data []byte) error {
	return v.ValidateManifestFn(data)
}
