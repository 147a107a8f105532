package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/mock"
	dslog "github.com/fwojciec/dossier/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingResolver_ResolveTicker(t *testing.T) {
	t.Parallel()

	t.Run("logs ticker and CIK", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.TickerResolver{
			ResolveTickerFn: func(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
				return &dossier.TickerEntry{Ticker: "AAPL", CIK: "0000320193", Name: "Apple Inc."}, nil
			},
		}

		r := dslog.NewLoggingResolver(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		entry, err := r.ResolveTicker(context.Background(), "aapl")

		require.NoError(t, err)
		assert.Equal(t, "0000320193", entry.CIK)
		output := buf.String()
		assert.Contains(t, output, "resolve ticker")
		assert.Contains(t, output, "ticker=aapl")
		assert.Contains(t, output, "cik=0000320193")
	})

	t.Run("logs resolution failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.TickerResolver{
			ResolveTickerFn: func(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
				return nil, dossier.Errorf(dossier.ENOTFOUND, "ticker %s not found", ticker)
			},
		}

		r := dslog.NewLoggingResolver(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := r.ResolveTicker(context.Background(), "ZZZZ")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "ticker ZZZZ not found")
	})
}

func TestLoggingTickerCache(t *testing.T) {
	t.Parallel()

	t.Run("logs failed writes as warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.TickerCache{
			SaveTickerFn: func(ctx context.Context, entry *dossier.TickerEntry) error {
				return errors.New("database is locked")
			},
		}

		c := dslog.NewLoggingTickerCache(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		err := c.SaveTicker(context.Background(), &dossier.TickerEntry{Ticker: "AAPL"})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "err=\"database is locked\"")
	})

	t.Run("logs failed lookups as warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.TickerCache{
			FindTickerFn: func(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
				return nil, dossier.Errorf(dossier.EIO, "database is locked")
			},
		}

		c := dslog.NewLoggingTickerCache(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := c.FindTicker(context.Background(), "AAPL")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "ticker=AAPL")
		assert.Contains(t, output, "database is locked")
	})

	t.Run("logs lookups at debug level only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.TickerCache{
			FindTickerFn: func(ctx context.Context, ticker string) (*dossier.TickerEntry, error) {
				return nil, dossier.Errorf(dossier.ENOTFOUND, "not cached")
			},
		}

		c := dslog.NewLoggingTickerCache(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := c.FindTicker(context.Background(), "AAPL")

		require.Error(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingFilingService_FindFilings(t *testing.T) {
	t.Parallel()

	t.Run("logs filing count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.FilingService{
			FindFilingsFn: func(ctx context.Context, cik string, filter dossier.FilingFilter) (*dossier.FilingHistory, error) {
				return &dossier.FilingHistory{CIK: cik, Filings: []*dossier.Filing{{Form: "10-K"}, {Form: "10-Q"}}}, nil
			},
		}

		s := dslog.NewLoggingFilingService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		history, err := s.FindFilings(context.Background(), "0000320193", dossier.FilingFilter{Forms: []string{"10-K", "10-Q"}, Years: 3})

		require.NoError(t, err)
		assert.Len(t, history.Filings, 2)
		output := buf.String()
		assert.Contains(t, output, "find filings")
		assert.Contains(t, output, "cik=0000320193")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "years=3")
	})
}
