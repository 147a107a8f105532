package edgar

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/bloom"
)

var _ dossier.FilingService = (*FilingService)(nil)

// FilingService reads the submissions feed of a company. When the recent
// block does not reach back to the lookback cutoff it also reads the older
// history pages the feed lists.
type FilingService struct {
	fetcher   dossier.Fetcher
	endpoints dossier.Endpoints
	fpRate    float64
}

// FilingOption configures a FilingService.
type FilingOption func(*FilingService)

// WithFalsePositiveRate sets the false positive rate of the Bloom filter
// that screens accession numbers for duplicates. Suspected duplicates are
// confirmed exactly, so the rate only trades memory for extra comparisons.
func WithFalsePositiveRate(p float64) FilingOption {
	return func(s *FilingService) {
		s.fpRate = p
	}
}

// NewFilingService creates a FilingService.
func NewFilingService(fetcher dossier.Fetcher, endpoints dossier.Endpoints, opts ...FilingOption) *FilingService {
	s := &FilingService{fetcher: fetcher, endpoints: endpoints, fpRate: bloom.DefaultFPRate}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// submissions is the body of /submissions/CIK##########.json.
type submissions struct {
	CIK       string   `json:"cik"`
	Name      string   `json:"name"`
	Exchanges []string `json:"exchanges"`
	Filings   struct {
		Recent filingColumns `json:"recent"`
		Files  []historyPage `json:"files"`
	} `json:"filings"`
}

// historyPage describes an older page of filings.
type historyPage struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// filingColumns holds the feed's parallel arrays.
type filingColumns struct {
	AccessionNumber       []string `json:"accessionNumber"`
	FilingDate            []string `json:"filingDate"`
	ReportDate            []string `json:"reportDate"`
	Form                  []string `json:"form"`
	PrimaryDocument       []string `json:"primaryDocument"`
	PrimaryDocDescription []string `json:"primaryDocDescription"`
}

func (c *filingColumns) candidates() []dossier.FilingCandidate {
	out := make([]dossier.FilingCandidate, 0, len(c.Form))
	for i := range c.Form {
		out = append(out, dossier.FilingCandidate{
			Form:            c.Form[i],
			FilingDate:      at(c.FilingDate, i),
			AccessionNumber: at(c.AccessionNumber, i),
			PrimaryDocument: at(c.PrimaryDocument, i),
			Description:     at(c.PrimaryDocDescription, i),
			ReportDate:      at(c.ReportDate, i),
		})
	}
	return out
}

func at(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}

// FindFilings returns cik's filings passing filter, in feed order.
func (s *FilingService) FindFilings(ctx context.Context, cik string, filter dossier.FilingFilter) (*dossier.FilingHistory, error) {
	var sub submissions
	if err := s.getJSON(ctx, s.endpoints.SubmissionsURL(cik), &sub); err != nil {
		return nil, err
	}

	candidates := sub.Filings.Recent.candidates()
	cutoff := filter.Cutoff()
	if reachesCutoff(candidates, cutoff) {
		older, err := s.olderCandidates(ctx, sub.Filings.Files, cutoff)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, older...)
	}
	candidates = dedupe(candidates, s.fpRate)

	history := &dossier.FilingHistory{
		CIK:       cik,
		Name:      sub.Name,
		Exchanges: sub.Exchanges,
		Filings:   []*dossier.Filing{},
	}
	for _, c := range dossier.FilterCandidates(candidates, filter) {
		history.Filings = append(history.Filings, s.newFiling(cik, c))
	}
	return history, nil
}

// reachesCutoff reports whether the oldest candidate is still inside the
// window, meaning older pages may hold more matches.
func reachesCutoff(candidates []dossier.FilingCandidate, cutoff time.Time) bool {
	if len(candidates) == 0 {
		return false
	}
	oldest, err := time.Parse(dossier.DateFormat, candidates[len(candidates)-1].FilingDate)
	return err == nil && !oldest.Before(cutoff)
}

func (s *FilingService) olderCandidates(ctx context.Context, pages []historyPage, cutoff time.Time) ([]dossier.FilingCandidate, error) {
	var out []dossier.FilingCandidate
	for _, p := range pages {
		to, err := time.Parse(dossier.DateFormat, p.FilingTo)
		if err == nil && to.Before(cutoff) {
			continue
		}
		var cols filingColumns
		if err := s.getJSON(ctx, s.endpoints.SubmissionsPageURL(p.Name), &cols); err != nil {
			return nil, err
		}
		out = append(out, cols.candidates()...)
	}
	return out, nil
}

// dedupe drops repeated accession numbers, keeping the first occurrence.
// The Bloom filter only screens; a hit is dropped after an exact match
// against the candidates already kept.
func dedupe(candidates []dossier.FilingCandidate, fpRate float64) []dossier.FilingCandidate {
	seen := bloom.NewFilter(uint(len(candidates)), fpRate)
	out := candidates[:0:0]
	for _, c := range candidates {
		if c.AccessionNumber != "" && seen.Seen(c.AccessionNumber) && kept(out, c.AccessionNumber) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func kept(out []dossier.FilingCandidate, accession string) bool {
	for _, c := range out {
		if c.AccessionNumber == accession {
			return true
		}
	}
	return false
}

func (s *FilingService) newFiling(cik string, c dossier.FilingCandidate) *dossier.Filing {
	f := &dossier.Filing{
		ID:              dossier.FilingID(c.Form, c.ReportDate, c.FilingDate),
		Form:            c.Form,
		AccessionNumber: c.AccessionNumber,
		PrimaryDocument: c.PrimaryDocument,
		URL:             s.endpoints.DocumentURL(cik, c.AccessionNumber, c.PrimaryDocument),
		ViewerURL:       s.endpoints.ViewerURL(cik, c.AccessionNumber),
	}
	if filed, err := time.Parse(dossier.DateFormat, c.FilingDate); err == nil {
		f.FiledAt = &filed
	}
	if c.ReportDate != "" {
		period := c.ReportDate
		f.Period = &period
	}
	if c.Description != "" {
		desc := c.Description
		f.Description = &desc
	}
	return f
}

func (s *FilingService) getJSON(ctx context.Context, url string, v any) error {
	resp, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return dossier.Errorf(dossier.EPARSE, "decoding %s: %v", url, err)
	}
	return nil
}
