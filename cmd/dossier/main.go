package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/edgar"
	"github.com/fwojciec/dossier/etree"
	"github.com/fwojciec/dossier/fs"
	"github.com/fwojciec/dossier/gemini"
	"github.com/fwojciec/dossier/goquery"
	"github.com/fwojciec/dossier/htmltomarkdown"
	doshttp "github.com/fwojciec/dossier/http"
	"github.com/fwojciec/dossier/jsonschema"
	"github.com/fwojciec/dossier/pipeline"
	"github.com/fwojciec/dossier/prometheus"
	"github.com/fwojciec/dossier/readability"
	"github.com/fwojciec/dossier/rod"
	dslog "github.com/fwojciec/dossier/slog"
	"github.com/fwojciec/dossier/sqlite"
	"github.com/fwojciec/dossier/trafilatura"
	"github.com/fwojciec/dossier/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if cerr := m.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorLine(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding the ticker cache and build history.
	DB *sqlite.DB

	// Services for end-to-end testing. Wired from the environment when nil.
	Dossiers dossier.DossierService
	Runs     dossier.RunService

	closers []io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the fetchers and the database.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dossier"),
		kong.Description("Build local dossiers of a company's SEC filings."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return dossier.Errorf(dossier.EINVALID, "no command specified. Run 'dossier --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return dossier.Errorf(dossier.EINVALID, "%v", err)
	}
	deps.JSON = cli.JSON

	if m.Dossiers == nil || m.Runs == nil {
		if err := m.wire(cli); err != nil {
			return err
		}
	}
	deps.Dossiers = m.Dossiers
	deps.Runs = m.Runs

	return kongCtx.Run(deps)
}

// wire builds the production services from the environment and flags.
func (m *Main) wire(cli *CLI) error {
	cfg, err := viper.Load(viper.Options{
		EnvFile:       cli.EnvFile,
		WorkspaceRoot: cli.Workspace,
		DossierRoot:   cli.DossierRoot,
	})
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CacheDB), 0o755); err != nil {
		return dossier.Errorf(dossier.EIO, "create cache directory: %v", err)
	}
	m.DB = sqlite.NewDB(cfg.CacheDB)
	if err := m.DB.Open(); err != nil {
		return dossier.Errorf(dossier.EIO, "open cache database %s: %v", cfg.CacheDB, err)
	}
	m.closers = append(m.closers, m.DB)

	gate := doshttp.NewGate(cfg.SECRPSLimit)
	client := doshttp.NewClient(
		doshttp.WithGate(gate),
		doshttp.WithUserAgent(cfg.SECUserAgent),
		doshttp.WithTimeout(cfg.HTTPTimeout),
		doshttp.WithRetryDelays(doshttp.RetryDelays(cfg.MaxRetries, cfg.BackoffMax)),
	)
	fetcher := dslog.NewLoggingFetcher(client, logger)

	// The browser shares the gate so fallbacks stay within the rate limit.
	browser := doshttp.NewFallbackFetcher(fetcher, func() (dossier.Fetcher, error) {
		f, err := rod.NewFetcher(
			rod.WithGate(gate),
			rod.WithUserAgent(cfg.SECUserAgent),
			rod.WithTimeout(cfg.HTTPTimeout),
		)
		if err != nil {
			return nil, err
		}
		return dslog.NewLoggingFetcher(f, logger), nil
	})
	m.closers = append(m.closers, browser)

	validator, err := jsonschema.NewValidator()
	if err != nil {
		return err
	}

	blobs := fs.NewBlobStore()
	cache := dslog.NewLoggingTickerCache(sqlite.NewTickerCache(m.DB), logger)

	normalizer := &pipeline.Normalizer{
		Blobs:     blobs,
		Cleaner:   goquery.NewCleaner(),
		Converter: htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(cfg.Endpoints.WWW)),
		Flattener: etree.NewFlattener(),
		Extractors: []dossier.Extractor{
			trafilatura.NewExtractor(),
			readability.NewExtractor(),
		},
	}
	if cfg.CountTokens {
		tokens, err := gemini.NewTokenCounter(gemini.DefaultModel)
		if err != nil {
			return err
		}
		normalizer.Tokens = tokens
	}

	runs := sqlite.NewRunService(m.DB)
	m.Runs = runs
	m.Dossiers = &pipeline.Builder{
		Config:    cfg,
		Resolver:  dslog.NewLoggingResolver(edgar.NewResolver(fetcher, cache, cfg.Endpoints), logger),
		Filings:   dslog.NewLoggingFilingService(edgar.NewFilingService(fetcher, cfg.Endpoints), logger),
		Manifests: dslog.NewLoggingManifestService(fs.NewManifestService(cfg.DossierRoot, validator), logger),
		Blobs:     blobs,
		Materializer: &pipeline.Materializer{
			Fetcher: fetcher,
			Blobs:   blobs,
			Browser: browser,
		},
		Normalizer: normalizer,
		NewIndex: func(path string) dossier.IndexWriter {
			return fs.NewIndexWriter(path)
		},
		Runs:     runs,
		Metrics:  prometheus.NewRecorder(),
		Progress: dslog.ProgressLogger(logger),
	}
	return nil
}

// errorLine renders err for the single error line printed on failure.
func errorLine(err error) string {
	if dossier.ErrorCode(err) == dossier.EINTERNAL {
		return err.Error()
	}
	return dossier.ErrorMessage(err)
}
