package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dossier"
)

// Ensure LoggingResolver implements dossier.TickerResolver.
var _ dossier.TickerResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a TickerResolver with logging.
type LoggingResolver struct {
	next   dossier.TickerResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next dossier.TickerResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// ResolveTicker delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) ResolveTicker(ctx context.Context, ticker string) (entry *dossier.TickerEntry, err error) {
	defer func(begin time.Time) {
		var cik string
		if entry != nil {
			cik = entry.CIK
		}
		r.logger.Info("resolve ticker",
			"ticker", ticker,
			"cik", cik,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ResolveTicker(ctx, ticker)
}

// Ensure LoggingTickerCache implements dossier.TickerCache.
var _ dossier.TickerCache = (*LoggingTickerCache)(nil)

// LoggingTickerCache wraps a TickerCache. Misses are logged at debug level,
// other lookup failures as warnings.
type LoggingTickerCache struct {
	next   dossier.TickerCache
	logger *slog.Logger
}

// NewLoggingTickerCache creates a new LoggingTickerCache.
func NewLoggingTickerCache(next dossier.TickerCache, logger *slog.Logger) *LoggingTickerCache {
	return &LoggingTickerCache{next: next, logger: logger}
}

// FindTicker delegates to the wrapped cache.
func (c *LoggingTickerCache) FindTicker(ctx context.Context, ticker string) (entry *dossier.TickerEntry, err error) {
	defer func() {
		if err != nil && dossier.ErrorCode(err) != dossier.ENOTFOUND {
			c.logger.Warn("ticker cache lookup failed",
				"ticker", ticker,
				"err", err,
			)
			return
		}
		c.logger.Debug("ticker cache lookup",
			"ticker", ticker,
			"hit", entry != nil,
			"err", err,
		)
	}()
	return c.next.FindTicker(ctx, ticker)
}

// SaveTicker delegates to the wrapped cache. Failures are logged as
// warnings since callers treat cache writes as best effort.
func (c *LoggingTickerCache) SaveTicker(ctx context.Context, entry *dossier.TickerEntry) (err error) {
	defer func() {
		if err != nil {
			c.logger.Warn("ticker cache write failed",
				"ticker", entry.Ticker,
				"err", err,
			)
		}
	}()
	return c.next.SaveTicker(ctx, entry)
}

// Ensure LoggingFilingService implements dossier.FilingService.
var _ dossier.FilingService = (*LoggingFilingService)(nil)

// LoggingFilingService wraps a FilingService with logging.
type LoggingFilingService struct {
	next   dossier.FilingService
	logger *slog.Logger
}

// NewLoggingFilingService creates a new LoggingFilingService.
func NewLoggingFilingService(next dossier.FilingService, logger *slog.Logger) *LoggingFilingService {
	return &LoggingFilingService{next: next, logger: logger}
}

// FindFilings delegates to the wrapped service and logs the count.
func (s *LoggingFilingService) FindFilings(ctx context.Context, cik string, filter dossier.FilingFilter) (history *dossier.FilingHistory, err error) {
	defer func(begin time.Time) {
		var count int
		if history != nil {
			count = len(history.Filings)
		}
		s.logger.Info("find filings",
			"cik", cik,
			"forms", filter.Forms,
			"years", filter.Years,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindFilings(ctx, cik, filter)
}
