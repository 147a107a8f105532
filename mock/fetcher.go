package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of dossier.Fetcher.
type Fetcher struct {
	GetFn   func(ctx context.Context, url string) (*dossier.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Get(ctx context.Context, url string) (*dossier.Response, error) {
	return f.GetFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ dossier.RateGate = (*RateGate)(nil)

// RateGate is a mock implementation of dossier.RateGate.
type RateGate struct {
	WaitFn func(ctx context.Context) error
}

func (g *RateGate) Wait(ctx context.Context) error {
	return g.WaitFn(ctx)
}
