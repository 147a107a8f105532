package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/dossier"
)

var _ dossier.TickerCache = (*TickerCache)(nil)

// TickerCache implements dossier.TickerCache using SQLite.
type TickerCache struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewTickerCache creates a new TickerCache.
func NewTickerCache(db *DB) *TickerCache {
	return &TickerCache{db: db, Now: time.Now}
}

// FindTicker returns the cached entry for ticker.
func (c *TickerCache) FindTicker(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
	var entry dossier.TickerEntry
	err := c.db.QueryRowContext(ctx, `
		SELECT ticker, cik, name FROM tickers WHERE ticker = ?
	`, dossier.NormalizeTicker(ticker)).Scan(&entry.Ticker, &entry.CIK, &entry.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dossier.Errorf(dossier.ENOTFOUND, "ticker %s not cached", ticker)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveTicker inserts or replaces the cached entry for entry.Ticker.
func (c *TickerCache) SaveTicker(ctx context.Context, entry *dossier.TickerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO tickers (ticker, cik, name, cached_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			cik = excluded.cik,
			name = excluded.name,
			cached_at = excluded.cached_at
	`, dossier.NormalizeTicker(entry.Ticker), entry.CIK, entry.Name, formatTime(c.Now()))
	return err
}
