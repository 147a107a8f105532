package main

import (
	"fmt"

	"github.com/fwojciec/dossier"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := dossier.RunFilter{Limit: c.Limit}
	if c.Ticker != "" {
		ticker := dossier.NormalizeTicker(c.Ticker)
		filter.Ticker = &ticker
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		return err
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded.")
		return nil
	}

	for _, r := range runs {
		line := fmt.Sprintf("%s  %-6s  %-8s  %3d artifacts  %s",
			r.StartedAt.UTC().Format("2006-01-02 15:04:05"), r.Ticker, r.Status, r.ArtifactCount, r.RunID)
		if r.Error != "" {
			line += "  " + r.Error
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}
