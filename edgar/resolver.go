// Package edgar implements ticker resolution and filing-history retrieval
// against the SEC EDGAR JSON APIs.
package edgar

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/dossier"
)

var _ dossier.TickerResolver = (*Resolver)(nil)

// Resolver resolves tickers through the SEC company directory. With a cache
// it looks up and persists entries locally; without one it always fetches.
type Resolver struct {
	fetcher   dossier.Fetcher
	cache     dossier.TickerCache
	endpoints dossier.Endpoints
}

// NewResolver creates a Resolver. cache may be nil.
func NewResolver(fetcher dossier.Fetcher, cache dossier.TickerCache, endpoints dossier.Endpoints) *Resolver {
	return &Resolver{fetcher: fetcher, cache: cache, endpoints: endpoints}
}

// directoryEntry is one value of company_tickers.json.
type directoryEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// ResolveTicker returns the directory entry whose ticker equals ticker,
// ignoring case.
func (r *Resolver) ResolveTicker(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
	symbol := dossier.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, dossier.Errorf(dossier.EINVALID, "ticker required")
	}

	// Any cache failure falls through to the directory.
	if r.cache != nil {
		if entry, err := r.cache.FindTicker(ctx, symbol); err == nil {
			return entry, nil
		}
	}

	resp, err := r.fetcher.Get(ctx, r.endpoints.TickerDirectoryURL())
	if err != nil {
		return nil, err
	}

	var directory map[string]directoryEntry
	if err := json.Unmarshal(resp.Body, &directory); err != nil {
		return nil, dossier.Errorf(dossier.EPARSE, "decoding company directory: %v", err)
	}

	entry := matchTicker(directory, symbol)
	if entry == nil {
		return nil, dossier.Errorf(dossier.ENOTFOUND, "ticker %s not found in SEC company directory", symbol)
	}

	if r.cache != nil {
		// Cache writes are best effort.
		_ = r.cache.SaveTicker(ctx, entry)
	}
	return entry, nil
}

// matchTicker walks the directory in numeric key order so duplicate
// tickers resolve deterministically.
func matchTicker(directory map[string]directoryEntry, symbol string) *dossier.TickerEntry {
	keys := make([]string, 0, len(directory))
	for k := range directory {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	for _, k := range keys {
		e := directory[k]
		if strings.EqualFold(strings.TrimSpace(e.Ticker), symbol) {
			return &dossier.TickerEntry{
				Ticker: symbol,
				CIK:    dossier.PadCIK(e.CIK),
				Name:   e.Title,
			}
		}
	}
	return nil
}
