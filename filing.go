package dossier

import (
	"context"
	"strings"
	"time"
)

// DateFormat is the layout of filing and report dates in the SEC feed.
const DateFormat = "2006-01-02"

// DefaultForms are the form types fetched when none are requested.
var DefaultForms = []string{"10-K", "10-Q", "8-K", "DEF 14A", "4"}

// Filing is an immutable historical filing as listed by the SEC.
type Filing struct {
	ID              string     `json:"id"`
	Form            string     `json:"form"`
	Period          *string    `json:"period"`
	FiledAt         *time.Time `json:"filed_at"`
	AccessionNumber string     `json:"accession_number"`
	PrimaryDocument string     `json:"primary_document"`
	URL             string     `json:"url"`
	ViewerURL       string     `json:"viewer_url"`
	Description     *string    `json:"description"`
}

// FilingCandidate is one entry of the SEC filing-history feed before
// filtering. Fields are copied verbatim from the feed's parallel arrays.
type FilingCandidate struct {
	Form            string
	FilingDate      string
	AccessionNumber string
	PrimaryDocument string
	Description     string
	ReportDate      string
}

// FilingFilter selects candidates by form, recency and per-form cap.
type FilingFilter struct {
	Forms      []string
	Years      int
	MaxPerForm int

	// Now anchors the lookback window. Zero means time.Now().
	Now time.Time
}

// Cutoff returns the first calendar day inside the lookback window.
func (f FilingFilter) Cutoff() time.Time {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	c := now.UTC().AddDate(0, 0, -365*f.Years)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, time.UTC)
}

// FilterCandidates walks candidates in feed order and keeps an entry iff its
// form is accepted, its filing date is on or after the cutoff and its form
// count is still below the cap. Counters only move on inclusion.
func FilterCandidates(candidates []FilingCandidate, filter FilingFilter) []FilingCandidate {
	accepted := make(map[string]bool, len(filter.Forms))
	for _, form := range filter.Forms {
		accepted[form] = true
	}
	cutoff := filter.Cutoff()
	counts := make(map[string]int)

	var out []FilingCandidate
	for _, c := range candidates {
		if !accepted[c.Form] {
			continue
		}
		filed, err := time.Parse(DateFormat, c.FilingDate)
		if err != nil || filed.Before(cutoff) {
			continue
		}
		if counts[c.Form] >= filter.MaxPerForm {
			continue
		}
		counts[c.Form]++
		out = append(out, c)
	}
	return out
}

// FormSlug turns a form type into a path and id friendly token,
// e.g. "DEF 14A" becomes "def-14a".
func FormSlug(form string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(form)), " ", "-")
}

// FilingID derives the stable filing id from form and period, falling back
// to the filing date when no period was reported.
func FilingID(form, period, filingDate string) string {
	suffix := period
	if suffix == "" {
		suffix = filingDate
	}
	return FormSlug(form) + "-" + suffix
}

// FilingHistory is a company's filtered filing history.
type FilingHistory struct {
	CIK       string    `json:"cik"`
	Name      string    `json:"name"`
	Exchanges []string  `json:"exchanges"`
	Filings   []*Filing `json:"filings"`
}

// FilingService retrieves filing histories from the SEC.
type FilingService interface {
	// FindFilings returns the filings of cik that pass filter, in feed order.
	FindFilings(ctx context.Context, cik string, filter FilingFilter) (*FilingHistory, error)
}
