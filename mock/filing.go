package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.FilingService = (*FilingService)(nil)

// FilingService is a mock implementation of dossier.FilingService.
type FilingService struct {
	FindFilingsFn func(ctx context.Context, cik string, filter dossier.FilingFilter) (*dossier.FilingHistory, error)
}

func (s *FilingService) FindFilings(ctx context.Context, cik string, filter dossier.FilingFilter) (*dossier.FilingHistory, error) {
	return s.FindFilingsFn(ctx, cik, filter)
}
