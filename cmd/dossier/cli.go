package main

import (
	"context"
	"io"

	"github.com/fwojciec/dossier"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Dossiers dossier.DossierService
	Runs     dossier.RunService

	// JSON selects machine-readable output.
	JSON bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Workspace   string `help:"Workspace root (default: current directory)" type:"path"`
	DossierRoot string `name:"dossier-root" help:"Directory holding one dossier per ticker" type:"path"`
	EnvFile     string `name:"env-file" help:"Dotenv file to load (default: .env if present)"`
	Verbose     bool   `short:"v" help:"Log requests and progress to stderr"`
	JSON        bool   `name:"json" help:"Print results as JSON"`

	Build   BuildCmd   `cmd:"" help:"Build a company dossier from scratch"`
	Update  UpdateCmd  `cmd:"" help:"Rebuild a dossier reusing its previous options"`
	Status  StatusCmd  `cmd:"" help:"Show the state of a dossier"`
	List    ListCmd    `cmd:"" help:"List the filings recorded in a dossier"`
	History HistoryCmd `cmd:"" help:"Show recent builds"`
}

// BuildFlags are the per-build options shared by build and update.
// Zero values leave the option to the previous snapshot or the defaults.
type BuildFlags struct {
	Years             int      `help:"Years of filing history (default: 3)"`
	Forms             []string `help:"Form types to fetch, comma separated (default: 10-K,10-Q,8-K,DEF 14A,4)"`
	MaxFilingsPerForm int      `name:"max-filings-per-form" help:"Cap per form type (default: 50)"`
	ForceRebuild      bool     `name:"force-rebuild" xor:"force" help:"Re-download documents that are already on disk"`
	NoForceRebuild    bool     `name:"no-force-rebuild" xor:"force" help:"Reuse documents on disk even if the previous build forced downloads"`
	Normalize         string   `help:"Normalization level: none, light or deep"`
	DownloadMode      string   `name:"download-mode" help:"links_only or full"`
	FetchMode         string   `name:"fetch-mode" help:"http or browser_fallback"`
	IR                bool     `name:"ir" xor:"ir" help:"Include investor-relations material"`
	NoIR              bool     `name:"no-ir" xor:"ir" help:"Skip investor-relations material"`
}

// BuildOptions converts the flags into build options.
func (f *BuildFlags) BuildOptions() dossier.BuildOptions {
	return dossier.BuildOptions{
		Years:             f.Years,
		Forms:             f.Forms,
		MaxFilingsPerForm: f.MaxFilingsPerForm,
		ForceRebuild:      switchValue(f.ForceRebuild, f.NoForceRebuild),
		IncludeIR:         switchValue(f.IR, f.NoIR),
		NormalizeLevel:    f.Normalize,
		DownloadMode:      f.DownloadMode,
		FetchMode:         f.FetchMode,
	}
}

// switchValue turns a --flag/--no-flag pair into an optional bool.
// Nil means neither was given.
func switchValue(on, off bool) *bool {
	switch {
	case on:
		v := true
		return &v
	case off:
		v := false
		return &v
	}
	return nil
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Ticker string `arg:"" help:"Ticker symbol, e.g. AAPL"`
	BuildFlags `embed:""`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct {
	Ticker string `arg:"" help:"Ticker symbol, e.g. AAPL"`
	BuildFlags `embed:""`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Ticker string `arg:"" help:"Ticker symbol"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Ticker string `arg:"" help:"Ticker symbol"`
	Form   string `help:"Only filings of this form type"`
	Since  string `help:"Only filings on or after this date (YYYY-MM-DD or RFC 3339)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Ticker string `arg:"" optional:"" help:"Only builds of this ticker"`
	Limit  int    `default:"20" help:"Maximum number of builds to show"`
}
