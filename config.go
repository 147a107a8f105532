package dossier

import (
	"net/url"
	"slices"
	"time"
)

// Defaults applied when neither the caller nor a previous manifest sets a value.
const (
	DefaultYears             = 3
	DefaultMaxFilingsPerForm = 50
	DefaultRPSLimit          = 3.0
	MaxRPSLimit              = 10.0
	DefaultMaxRetries        = 3
	DefaultBackoffMax        = 8 * time.Second
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultUserAgent         = "OpenClawResearchBot/1.0 (research@openclaw.ai)"
)

// Config is the fully resolved process configuration. The core never reads
// the environment; callers build a Config and pass it in.
type Config struct {
	WorkspaceRoot     string
	DossierRoot       string
	CacheDB           string
	SECUserAgent      string
	SECRPSLimit       float64
	MaxRetries        int
	BackoffMax        time.Duration
	HTTPTimeout       time.Duration
	MaxFilingsPerForm int
	ForceRebuild      bool
	DomainAllowlist   []string
	IRBaseURLMap      map[string]string
	NormalizeLevel    string
	DownloadMode      string
	FetchMode         string
	CountTokens       bool
	Endpoints         Endpoints
}

// Validate returns an error if the configuration cannot drive a build.
func (c *Config) Validate() error {
	if c.DossierRoot == "" {
		return Errorf(EINVALID, "dossier root required")
	}
	if c.SECUserAgent == "" {
		return Errorf(EINVALID, "SEC user agent required")
	}
	if c.SECRPSLimit <= 0 || c.SECRPSLimit > MaxRPSLimit {
		return Errorf(EINVALID, "SEC rps limit must be in (0, %g]: %g", MaxRPSLimit, c.SECRPSLimit)
	}
	if c.MaxRetries < 0 {
		return Errorf(EINVALID, "max retries must not be negative")
	}
	if c.MaxFilingsPerForm < 0 {
		return Errorf(EINVALID, "max filings per form must not be negative")
	}
	if err := validateEnum("normalize level", c.NormalizeLevel, NormalizeNone, NormalizeLight, NormalizeDeep); err != nil {
		return err
	}
	if err := validateEnum("download mode", c.DownloadMode, DownloadLinksOnly, DownloadFull); err != nil {
		return err
	}
	if err := validateEnum("fetch mode", c.FetchMode, FetchHTTP, FetchBrowserFallback); err != nil {
		return err
	}
	for ticker, raw := range c.IRBaseURLMap {
		if u, err := url.Parse(raw); err != nil || u.Host == "" {
			return Errorf(EINVALID, "invalid IR base URL for %s: %q", ticker, raw)
		}
	}
	return nil
}

func validateEnum(name, value string, allowed ...string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return Errorf(EINVALID, "unknown %s %q", name, value)
}

// BuildOptions are the per-invocation overrides of a build. Zero values
// and nil pointers mean "not specified" and fall back to the previous
// snapshot (update) or the Config defaults.
type BuildOptions struct {
	Years             int
	Forms             []string
	MaxFilingsPerForm int
	ForceRebuild      *bool
	IncludeIR         *bool
	NormalizeLevel    string
	DownloadMode      string
	FetchMode         string
}

// Validate returns an error if an explicitly set option is invalid.
func (o BuildOptions) Validate() error {
	if o.Years < 0 {
		return Errorf(EINVALID, "years must not be negative")
	}
	if o.MaxFilingsPerForm < 0 {
		return Errorf(EINVALID, "max filings per form must not be negative")
	}
	if err := validateEnum("normalize level", o.NormalizeLevel, NormalizeNone, NormalizeLight, NormalizeDeep); err != nil {
		return err
	}
	if err := validateEnum("download mode", o.DownloadMode, DownloadLinksOnly, DownloadFull); err != nil {
		return err
	}
	return validateEnum("fetch mode", o.FetchMode, FetchHTTP, FetchBrowserFallback)
}

// ResolveSnapshot merges options over prev (may be nil) over cfg into the
// snapshot a build runs with.
func ResolveSnapshot(cfg *Config, prev *ConfigSnapshot, opts BuildOptions) ConfigSnapshot {
	base := ConfigSnapshot{
		Years:             DefaultYears,
		Forms:             DefaultForms,
		IncludeIR:         true,
		MaxFilingsPerForm: firstInt(cfg.MaxFilingsPerForm, DefaultMaxFilingsPerForm),
		ForceRebuild:      cfg.ForceRebuild,
		NormalizeLevel:    firstString(cfg.NormalizeLevel, NormalizeLight),
		FetchMode:         firstString(cfg.FetchMode, FetchHTTP),
		DownloadMode:      firstString(cfg.DownloadMode, DownloadLinksOnly),
		DomainAllowlist:   cfg.DomainAllowlist,
		IRBaseURLMap:      cfg.IRBaseURLMap,
	}
	if prev != nil {
		base.Years = firstInt(prev.Years, base.Years)
		if len(prev.Forms) > 0 {
			base.Forms = prev.Forms
		}
		base.IncludeIR = prev.IncludeIR
		base.MaxFilingsPerForm = firstInt(prev.MaxFilingsPerForm, base.MaxFilingsPerForm)
		base.ForceRebuild = prev.ForceRebuild
		base.NormalizeLevel = firstString(prev.NormalizeLevel, base.NormalizeLevel)
		base.FetchMode = firstString(prev.FetchMode, base.FetchMode)
		base.DownloadMode = firstString(prev.DownloadMode, base.DownloadMode)
		if len(base.DomainAllowlist) == 0 {
			base.DomainAllowlist = prev.DomainAllowlist
		}
		if len(base.IRBaseURLMap) == 0 {
			base.IRBaseURLMap = prev.IRBaseURLMap
		}
	}

	snap := base
	snap.Years = firstInt(opts.Years, base.Years)
	if len(opts.Forms) > 0 {
		snap.Forms = opts.Forms
	}
	snap.MaxFilingsPerForm = firstInt(opts.MaxFilingsPerForm, base.MaxFilingsPerForm)
	if opts.ForceRebuild != nil {
		snap.ForceRebuild = *opts.ForceRebuild
	}
	if opts.IncludeIR != nil {
		snap.IncludeIR = *opts.IncludeIR
	}
	snap.NormalizeLevel = firstString(opts.NormalizeLevel, base.NormalizeLevel)
	snap.FetchMode = firstString(opts.FetchMode, base.FetchMode)
	snap.DownloadMode = firstString(opts.DownloadMode, base.DownloadMode)
	snap.SECUserAgent = cfg.SECUserAgent
	snap.SECRPSLimit = cfg.SECRPSLimit
	if snap.DomainAllowlist == nil {
		snap.DomainAllowlist = []string{}
	}
	if snap.IRBaseURLMap == nil {
		snap.IRBaseURLMap = map[string]string{}
	}
	return snap
}

func firstInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func firstString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
