package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.DossierService = (*DossierService)(nil)

// DossierService is a mock implementation of dossier.DossierService.
type DossierService struct {
	BuildFn       func(ctx context.Context, ticker string, opts dossier.BuildOptions) *dossier.BuildResult
	UpdateFn      func(ctx context.Context, ticker string, opts dossier.BuildOptions) *dossier.BuildResult
	StatusFn      func(ctx context.Context, ticker string) (*dossier.StatusReport, error)
	ListFilingsFn func(ctx context.Context, ticker string, filter dossier.ArtifactFilter) ([]*dossier.Artifact, error)
}

func (s *DossierService) Build(ctx context.Context, ticker string, opts dossier.BuildOptions) *dossier.BuildResult {
	return s.BuildFn(ctx, ticker, opts)
}

func (s *DossierService) Update(ctx context.Context, ticker string, opts dossier.BuildOptions) *dossier.BuildResult {
	return s.UpdateFn(ctx, ticker, opts)
}

func (s *DossierService) Status(ctx context.Context, ticker string) (*dossier.StatusReport, error) {
	return s.StatusFn(ctx, ticker)
}

func (s *DossierService) ListFilings(ctx context.Context, ticker string, filter dossier.ArtifactFilter) ([]*dossier.Artifact, error) {
	return s.ListFilingsFn(ctx, ticker, filter)
}
