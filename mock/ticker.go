package mock

import (
	"context"

	"github.com/fwojciec/dossier"
)

var _ dossier.TickerResolver = (*TickerResolver)(nil)

// TickerResolver is a mock implementation of dossier.TickerResolver.
type TickerResolver struct {
	ResolveTickerFn func(ctx context.Context, ticker string) (*dossier.TickerEntry, error)
}

func (r *TickerResolver) ResolveTicker(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
	return r.ResolveTickerFn(ctx, ticker)
}

var _ dossier.TickerCache = (*TickerCache)(nil)

// TickerCache is a mock implementation of dossier.TickerCache.
type TickerCache struct {
	FindTickerFn func(ctx context.Context, ticker string) (*dossier.TickerEntry, error)
	SaveTickerFn func(ctx context.Context, entry *dossier.TickerEntry) error
}

func (c *TickerCache) FindTicker(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
	return c.FindTickerFn(ctx, ticker)
}

func (c *TickerCache) SaveTicker(ctx context.Context, entry *dossier.TickerEntry) error {
	return c.SaveTickerFn(ctx, entry)
}
