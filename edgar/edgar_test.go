package edgar_test

import (
	"context"
	"sync"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/mock"
)

// routeFetcher returns a mock fetcher serving fixed bodies by URL and
// counting requests. Unknown URLs fail with ETRANSPORT 404.
func routeFetcher(routes map[string]string) (*mock.Fetcher, func(url string) int) {
	var mu sync.Mutex
	calls := map[string]int{}
	f := &mock.Fetcher{
		GetFn: func(ctx context.Context, url string) (*dossier.Response, error) {
			mu.Lock()
			calls[url]++
			mu.Unlock()
			body, ok := routes[url]
			if !ok {
				return nil, dossier.Errorf(dossier.ETRANSPORT, "HTTP 404 for %s", url)
			}
			return &dossier.Response{StatusCode: 200, ContentType: "application/json", Body: []byte(body)}, nil
		},
		CloseFn: func() error { return nil },
	}
	return f, func(url string) int {
		mu.Lock()
		defer mu.Unlock()
		return calls[url]
	}
}

const directoryJSON = `{
	"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
	"1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"},
	"2": {"cik_str": 1652044, "ticker": "GOOGL", "title": "Alphabet Inc."},
	"10": {"cik_str": 999999, "ticker": "aapl", "title": "Duplicate Listing"}
}`
