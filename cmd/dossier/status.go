package main

import (
	"fmt"

	"github.com/fwojciec/dossier"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	report, err := deps.Dossiers.Status(deps.Ctx, c.Ticker)
	if err != nil {
		return err
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, report)
	}

	if !report.Exists {
		fmt.Fprintf(deps.Stdout, "No dossier for %s. Run 'dossier build %s' to create one.\n", report.Ticker, report.Ticker)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%s  %s  CIK %s\n", report.Ticker, report.CompanyName, report.CIK)
	fmt.Fprintf(deps.Stdout, "  Status: %s\n", report.RunStatus)
	fmt.Fprintf(deps.Stdout, "  Filings: %d\n", report.TotalFilings)
	if report.LatestFiledAt != nil {
		fmt.Fprintf(deps.Stdout, "  Latest filing: %s\n", report.LatestFiledAt.Format(dossier.DateFormat))
	}
	if report.LastUpdated != nil {
		fmt.Fprintf(deps.Stdout, "  Last updated: %s\n", report.LastUpdated.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	fmt.Fprintf(deps.Stdout, "  Manifest: %s\n", report.ManifestPath)
	return nil
}
