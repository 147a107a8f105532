package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/dossier"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	res := deps.Dossiers.Build(deps.Ctx, c.Ticker, c.BuildOptions())
	return reportBuild(deps, res)
}

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	res := deps.Dossiers.Update(deps.Ctx, c.Ticker, c.BuildOptions())
	return reportBuild(deps, res)
}

// reportBuild prints res and turns a failed build into an error.
func reportBuild(deps *Dependencies, res *dossier.BuildResult) error {
	if deps.JSON {
		if err := writeJSON(deps.Stdout, res); err != nil {
			return err
		}
	} else if !res.Failed() {
		printSummary(deps.Stdout, res)
	}

	if res.Failed() {
		msg := "build failed"
		if res.Summary.Error != nil {
			msg = *res.Summary.Error
		}
		return &buildError{ticker: res.Summary.Ticker, msg: msg}
	}
	return nil
}

func printSummary(w io.Writer, res *dossier.BuildResult) {
	s := res.Summary
	fmt.Fprintf(w, "%s  %s  CIK %s\n", s.Ticker, s.CompanyName, s.CIK)
	fmt.Fprintf(w, "  Filings: %d (downloaded %d, cached %d, links only %d)\n",
		s.TotalFilings, s.DownloadedCount, s.SkippedCached, s.LinksOnly)
	if s.ParsedSuccess+s.ParsedFailed > 0 {
		fmt.Fprintf(w, "  Parsed: %d ok, %d failed, %d chunks\n", s.ParsedSuccess, s.ParsedFailed, s.ChunkCount)
	}
	if s.LatestFiledAt != nil {
		fmt.Fprintf(w, "  Latest filing: %s\n", s.LatestFiledAt.Format(dossier.DateFormat))
	}
	if q := res.QualityMetrics; q != nil {
		fmt.Fprintf(w, "  Coverage: 10-K %s, 10-Q %s, 8-K %s, XBRL %s\n",
			yesNo(q.Completeness.HasRecent10K), yesNo(q.Completeness.HasRecent10Q),
			yesNo(q.Completeness.HasRecent8K), yesNo(q.Completeness.HasXBRL))
	}
	fmt.Fprintf(w, "  Manifest: %s\n", res.ManifestPath)
}

// buildError reports a failed build as a single line.
type buildError struct {
	ticker string
	msg    string
}

func (e *buildError) Error() string {
	return fmt.Sprintf("build %s failed: %s", e.ticker, e.msg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
