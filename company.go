package dossier

import (
	"context"
	"fmt"
	"strings"
)

// CompanyInfo identifies the company a dossier belongs to.
// It is re-resolved on every build.
type CompanyInfo struct {
	Ticker      string  `json:"ticker"`
	CompanyName string  `json:"company_name"`
	CIK         string  `json:"cik"`
	Exchange    *string `json:"exchange"`
	CUSIP       *string `json:"cusip"`
}

// TickerEntry is one row of the SEC company directory.
type TickerEntry struct {
	Ticker string `json:"ticker"`
	CIK    string `json:"cik"`
	Name   string `json:"name"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *TickerEntry) Validate() error {
	if e.Ticker == "" {
		return Errorf(EINVALID, "ticker required")
	}
	if len(e.CIK) != 10 {
		return Errorf(EINVALID, "cik must be 10 digits: %q", e.CIK)
	}
	return nil
}

// NormalizeTicker uppercases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// PadCIK zero-pads a numeric CIK to the 10-digit form used in SEC URLs.
func PadCIK(cik int64) string {
	return fmt.Sprintf("%010d", cik)
}

// TickerResolver maps a ticker symbol to its directory entry.
type TickerResolver interface {
	// ResolveTicker performs a case-insensitive exact match of ticker
	// against the SEC company directory.
	// Returns ENOTFOUND if no entry matches.
	ResolveTicker(ctx context.Context, ticker string) (*TickerEntry, error)
}

// TickerCache persists resolved ticker entries between runs.
type TickerCache interface {
	// FindTicker returns the cached entry for an uppercase ticker.
	// Returns ENOTFOUND if the ticker has not been cached.
	FindTicker(ctx context.Context, ticker string) (*TickerEntry, error)

	// SaveTicker inserts or replaces a cached entry.
	SaveTicker(ctx context.Context, entry *TickerEntry) error
}
