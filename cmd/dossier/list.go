package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/dossier"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	var filter dossier.ArtifactFilter
	if c.Form != "" {
		filter.Form = &c.Form
	}
	if c.Since != "" {
		since, err := parseSince(c.Since)
		if err != nil {
			return err
		}
		filter.Since = &since
	}

	filings, err := deps.Dossiers.ListFilings(deps.Ctx, c.Ticker, filter)
	if err != nil {
		return err
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, filings)
	}

	if len(filings) == 0 {
		fmt.Fprintf(deps.Stdout, "No filings found for %s.\n", c.Ticker)
		return nil
	}

	for _, a := range filings {
		filed := "-"
		if a.FiledAt != nil {
			filed = a.FiledAt.Format(dossier.DateFormat)
		}
		fmt.Fprintf(deps.Stdout, "%s  %-8s  %-10s  %s\n", filed, a.Form, a.ParseStatus, a.URL)
	}
	return nil
}

// parseSince accepts a calendar date or an RFC 3339 timestamp.
func parseSince(s string) (time.Time, error) {
	if t, err := time.Parse(dossier.DateFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, dossier.Errorf(dossier.EINVALID, "invalid --since %q: want YYYY-MM-DD", s)
}
