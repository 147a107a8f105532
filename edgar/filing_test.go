package edgar_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/edgar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	form, filed, accession, doc, desc, report string
}

func columns(rows ...row) map[string][]string {
	c := map[string][]string{}
	for _, r := range rows {
		c["form"] = append(c["form"], r.form)
		c["filingDate"] = append(c["filingDate"], r.filed)
		c["accessionNumber"] = append(c["accessionNumber"], r.accession)
		c["primaryDocument"] = append(c["primaryDocument"], r.doc)
		c["primaryDocDescription"] = append(c["primaryDocDescription"], r.desc)
		c["reportDate"] = append(c["reportDate"], r.report)
	}
	return c
}

func submissionsJSON(t *testing.T, recent map[string][]string, files []map[string]any) string {
	t.Helper()
	body := map[string]any{
		"cik":       "320193",
		"name":      "Apple Inc.",
		"exchanges": []string{"Nasdaq"},
		"filings":   map[string]any{"recent": recent, "files": files},
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return string(data)
}

func TestFilingService_FindFilings(t *testing.T) {
	t.Parallel()

	const cik = "0000320193"
	endpoints := dossier.DefaultEndpoints
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	ago := func(days int) string { return now.AddDate(0, 0, -days).Format(dossier.DateFormat) }

	t.Run("filters by form, window and cap in feed order", func(t *testing.T) {
		t.Parallel()

		recent := columns(
			row{"10-K", ago(30), "0000320193-25-000010", "aapl-10k-a.htm", "10-K", ago(60)},
			row{"8-K", ago(40), "0000320193-25-000009", "aapl-8k.htm", "", ""},
			row{"10-K", ago(200), "0000320193-24-000123", "aapl-10k-b.htm", "", ago(230)},
			row{"10-K", ago(400), "0000320193-24-000001", "aapl-10k-c.htm", "", ago(430)},
		)
		fetcher, _ := routeFetcher(map[string]string{
			endpoints.SubmissionsURL(cik): submissionsJSON(t, recent, nil),
		})
		svc := edgar.NewFilingService(fetcher, endpoints)

		history, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{
			Forms: []string{"10-K"}, Years: 1, MaxPerForm: 2, Now: now,
		})

		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", history.Name)
		assert.Equal(t, []string{"Nasdaq"}, history.Exchanges)
		require.Len(t, history.Filings, 2)

		f := history.Filings[0]
		assert.Equal(t, "10-k-"+ago(60), f.ID)
		assert.Equal(t, "0000320193-25-000010", f.AccessionNumber)
		assert.Equal(t, "https://www.sec.gov/Archives/edgar/data/320193/000032019325000010/aapl-10k-a.htm", f.URL)
		assert.Contains(t, f.ViewerURL, "accession_number=0000320193-25-000010")
		require.NotNil(t, f.FiledAt)
		assert.Equal(t, ago(30), f.FiledAt.Format(dossier.DateFormat))
		require.NotNil(t, f.Description)
		assert.Equal(t, "10-K", *f.Description)

		assert.Equal(t, "0000320193-24-000123", history.Filings[1].AccessionNumber)
		assert.Nil(t, history.Filings[1].Description)
	})

	t.Run("uses the filing date in the id when no period is reported", func(t *testing.T) {
		t.Parallel()

		recent := columns(row{"4", ago(5), "0001140361-25-000001", "xslF345X05/form4.xml", "", ""})
		fetcher, _ := routeFetcher(map[string]string{
			endpoints.SubmissionsURL(cik): submissionsJSON(t, recent, nil),
		})
		svc := edgar.NewFilingService(fetcher, endpoints)

		history, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{
			Forms: []string{"4"}, Years: 1, MaxPerForm: 5, Now: now,
		})

		require.NoError(t, err)
		require.Len(t, history.Filings, 1)
		assert.Equal(t, "4-"+ago(5), history.Filings[0].ID)
		assert.Nil(t, history.Filings[0].Period)
	})

	t.Run("reads older pages when the recent block is inside the window", func(t *testing.T) {
		t.Parallel()

		recent := columns(
			row{"10-Q", ago(10), "a-1", "q1.htm", "", ""},
			row{"10-Q", ago(100), "a-2", "q2.htm", "", ""},
		)
		files := []map[string]any{
			{"name": "CIK0000320193-submissions-001.json", "filingCount": 2, "filingFrom": ago(500), "filingTo": ago(100)},
			{"name": "CIK0000320193-submissions-002.json", "filingCount": 1, "filingFrom": ago(3000), "filingTo": ago(2000)},
		}
		older := columns(
			row{"10-Q", ago(100), "a-2", "q2.htm", "", ""},
			row{"10-Q", ago(190), "a-3", "q3.htm", "", ""},
		)
		olderJSON, err := json.Marshal(older)
		require.NoError(t, err)

		page1 := endpoints.SubmissionsPageURL("CIK0000320193-submissions-001.json")
		page2 := endpoints.SubmissionsPageURL("CIK0000320193-submissions-002.json")
		fetcher, calls := routeFetcher(map[string]string{
			endpoints.SubmissionsURL(cik): submissionsJSON(t, recent, files),
			page1:                         string(olderJSON),
		})
		svc := edgar.NewFilingService(fetcher, endpoints)

		history, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{
			Forms: []string{"10-Q"}, Years: 1, MaxPerForm: 10, Now: now,
		})

		require.NoError(t, err)
		var accessions []string
		for _, f := range history.Filings {
			accessions = append(accessions, f.AccessionNumber)
		}
		assert.Equal(t, []string{"a-1", "a-2", "a-3"}, accessions)
		assert.Equal(t, 1, calls(page1))
		assert.Equal(t, 0, calls(page2), "page entirely before the cutoff is skipped")
	})

	t.Run("skips older pages when the recent block already crosses the cutoff", func(t *testing.T) {
		t.Parallel()

		recent := columns(
			row{"8-K", ago(10), "b-1", "e.htm", "", ""},
			row{"8-K", ago(900), "b-2", "f.htm", "", ""},
		)
		files := []map[string]any{{"name": "older.json", "filingTo": ago(900)}}
		fetcher, calls := routeFetcher(map[string]string{
			endpoints.SubmissionsURL(cik): submissionsJSON(t, recent, files),
		})
		svc := edgar.NewFilingService(fetcher, endpoints)

		history, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{
			Forms: []string{"8-K"}, Years: 1, MaxPerForm: 10, Now: now,
		})

		require.NoError(t, err)
		assert.Len(t, history.Filings, 1)
		assert.Equal(t, 0, calls(endpoints.SubmissionsPageURL("older.json")))
	})

	t.Run("fails when an older page cannot be fetched", func(t *testing.T) {
		t.Parallel()

		recent := columns(row{"10-K", ago(10), "c-1", "k.htm", "", ""})
		files := []map[string]any{{"name": "missing.json", "filingTo": ago(20)}}
		fetcher, _ := routeFetcher(map[string]string{
			endpoints.SubmissionsURL(cik): submissionsJSON(t, recent, files),
		})
		svc := edgar.NewFilingService(fetcher, endpoints)

		_, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{
			Forms: []string{"10-K"}, Years: 1, MaxPerForm: 10, Now: now,
		})

		assert.Equal(t, dossier.ETRANSPORT, dossier.ErrorCode(err))
	})

	t.Run("drops repeated accessions but no distinct filing", func(t *testing.T) {
		t.Parallel()

		var rows []row
		for i := range 60 {
			rows = append(rows, row{"8-K", ago(i + 1), fmt.Sprintf("0000320193-25-%06d", i), "aapl-8k.htm", "", ""})
		}
		rows = append(rows, rows[0])
		fetcher, _ := routeFetcher(map[string]string{
			endpoints.SubmissionsURL(cik): submissionsJSON(t, columns(rows...), nil),
		})
		// A filter this coarse reports most new keys as seen.
		svc := edgar.NewFilingService(fetcher, endpoints, edgar.WithFalsePositiveRate(0.9))

		history, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{
			Forms: []string{"8-K"}, Years: 1, MaxPerForm: 100, Now: now,
		})

		require.NoError(t, err)
		require.Len(t, history.Filings, 60)
		seen := make(map[string]bool)
		for _, f := range history.Filings {
			assert.False(t, seen[f.AccessionNumber], f.AccessionNumber)
			seen[f.AccessionNumber] = true
		}
	})

	t.Run("returns an empty list when nothing matches", func(t *testing.T) {
		t.Parallel()

		fetcher, _ := routeFetcher(map[string]string{
			endpoints.SubmissionsURL(cik): submissionsJSON(t, columns(), nil),
		})
		svc := edgar.NewFilingService(fetcher, endpoints)

		history, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{
			Forms: []string{"10-K"}, Years: 1, MaxPerForm: 10, Now: now,
		})

		require.NoError(t, err)
		assert.NotNil(t, history.Filings)
		assert.Empty(t, history.Filings)
	})

	t.Run("reports malformed feeds as parse errors", func(t *testing.T) {
		t.Parallel()

		fetcher, _ := routeFetcher(map[string]string{endpoints.SubmissionsURL(cik): "<html>"})
		svc := edgar.NewFilingService(fetcher, endpoints)

		_, err := svc.FindFilings(context.Background(), cik, dossier.FilingFilter{Forms: []string{"10-K"}, Years: 1, MaxPerForm: 1})

		assert.Equal(t, dossier.EPARSE, dossier.ErrorCode(err))
	})
}
