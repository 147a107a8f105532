package http

import (
	"context"
	"sync"

	"github.com/fwojciec/dossier"
)

var _ dossier.Fetcher = (*FallbackFetcher)(nil)

// FallbackFetcher retries transport failures of a primary fetcher with a
// secondary one that is opened on first use.
type FallbackFetcher struct {
	primary dossier.Fetcher
	open    func() (dossier.Fetcher, error)

	mu       sync.Mutex
	opened   bool
	fallback dossier.Fetcher
	openErr  error
}

// NewFallbackFetcher creates a FallbackFetcher. open is called at most once.
func NewFallbackFetcher(primary dossier.Fetcher, open func() (dossier.Fetcher, error)) *FallbackFetcher {
	return &FallbackFetcher{primary: primary, open: open}
}

// Get fetches url with the primary fetcher, falling back on ETRANSPORT.
func (f *FallbackFetcher) Get(ctx context.Context, url string) (*dossier.Response, error) {
	resp, err := f.primary.Get(ctx, url)
	if err == nil || dossier.ErrorCode(err) != dossier.ETRANSPORT {
		return resp, err
	}

	fallback, openErr := f.secondary()
	if openErr != nil {
		return nil, err
	}
	return fallback.Get(ctx, url)
}

func (f *FallbackFetcher) secondary() (dossier.Fetcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.opened {
		f.opened = true
		f.fallback, f.openErr = f.open()
	}
	return f.fallback, f.openErr
}

// Close closes both fetchers.
func (f *FallbackFetcher) Close() error {
	err := f.primary.Close()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fallback != nil {
		if ferr := f.fallback.Close(); err == nil {
			err = ferr
		}
	}
	return err
}
