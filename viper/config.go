// Package viper loads dossier configuration from the environment and an
// optional dotenv file.
package viper

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

// bindings maps each config key to the environment names it is read from,
// in order of preference.
var bindings = map[string][]string{
	"workspace_root":       {"US_COMPANY_DOSSIER_WORKSPACE_ROOT", "WORKSPACE_ROOT"},
	"dossier_root":         {"US_COMPANY_DOSSIER_DOSSIER_ROOT", "DOSSIER_ROOT"},
	"sec_user_agent":       {"US_COMPANY_DOSSIER_SEC_USER_AGENT", "SEC_USER_AGENT"},
	"sec_rps_limit":        {"US_COMPANY_DOSSIER_SEC_RPS_LIMIT", "SEC_RPS_LIMIT"},
	"max_retries":          {"DOSSIER_MAX_RETRIES"},
	"backoff_max":          {"DOSSIER_BACKOFF_MAX"},
	"http_timeout":         {"DOSSIER_HTTP_TIMEOUT"},
	"max_filings_per_form": {"US_COMPANY_DOSSIER_MAX_FILINGS_PER_FORM", "MAX_FILINGS_PER_FORM"},
	"force_rebuild":        {"US_COMPANY_DOSSIER_FORCE_REBUILD", "FORCE_REBUILD"},
	"domain_allowlist":     {"DOMAIN_ALLOWLIST"},
	"ir_base_url_map":      {"IR_BASE_URL_MAP"},
	"normalize_level":      {"NORMALIZE_LEVEL"},
	"download_mode":        {"DOWNLOAD_MODE"},
	"fetch_mode":           {"FETCH_MODE"},
	"cache_db":             {"DOSSIER_CACHE_DB"},
	"count_tokens":         {"DOSSIER_COUNT_TOKENS"},
	"sec_base_url":         {"DOSSIER_SEC_BASE_URL"},
	"sec_data_url":         {"DOSSIER_SEC_DATA_URL"},
}

// Options are explicit overrides, typically command-line flags. They take
// precedence over the environment.
type Options struct {
	// EnvFile names a dotenv file. Empty means DefaultEnvFile if it exists.
	EnvFile string

	WorkspaceRoot string
	DossierRoot   string
}

// Load builds a Config from overrides, environment variables, the dotenv
// file and defaults, in that order of precedence.
func Load(opts Options) (*dossier.Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, names := range bindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, dossier.Errorf(dossier.EINTERNAL, "bind %s: %v", key, err)
		}
	}

	if err := mergeEnvFile(v, opts.EnvFile); err != nil {
		return nil, err
	}

	if opts.WorkspaceRoot != "" {
		v.Set("workspace_root", opts.WorkspaceRoot)
	}
	if opts.DossierRoot != "" {
		v.Set("dossier_root", opts.DossierRoot)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sec_user_agent", dossier.DefaultUserAgent)
	v.SetDefault("sec_rps_limit", dossier.DefaultRPSLimit)
	v.SetDefault("max_retries", dossier.DefaultMaxRetries)
	v.SetDefault("backoff_max", dossier.DefaultBackoffMax.String())
	v.SetDefault("http_timeout", dossier.DefaultHTTPTimeout.String())
	v.SetDefault("max_filings_per_form", dossier.DefaultMaxFilingsPerForm)
	v.SetDefault("force_rebuild", false)
	v.SetDefault("domain_allowlist", "")
	v.SetDefault("ir_base_url_map", "")
	v.SetDefault("normalize_level", dossier.NormalizeLight)
	v.SetDefault("download_mode", dossier.DownloadLinksOnly)
	v.SetDefault("fetch_mode", dossier.FetchHTTP)
	v.SetDefault("count_tokens", false)
	v.SetDefault("sec_base_url", dossier.DefaultEndpoints.WWW)
	v.SetDefault("sec_data_url", dossier.DefaultEndpoints.Data)
}

// mergeEnvFile reads a dotenv file into a separate viper instance and
// promotes its values to defaults, so real environment variables still win.
func mergeEnvFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return dossier.Errorf(dossier.EINVALID, "env file %s: %v", path, err)
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("env")
	if err := file.ReadInConfig(); err != nil {
		return dossier.Errorf(dossier.EINVALID, "read env file %s: %v", path, err)
	}

	for key, names := range bindings {
		for _, name := range names {
			if file.IsSet(strings.ToLower(name)) {
				v.SetDefault(key, file.Get(strings.ToLower(name)))
				break
			}
		}
	}
	return nil
}

func decode(v *viper.Viper) (*dossier.Config, error) {
	workspace := v.GetString("workspace_root")
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, dossier.Errorf(dossier.EIO, "working directory: %v", err)
		}
		workspace = wd
	}

	backoffMax, err := duration(v, "backoff_max")
	if err != nil {
		return nil, err
	}
	timeout, err := duration(v, "http_timeout")
	if err != nil {
		return nil, err
	}
	irMap, err := urlMap(v.GetString("ir_base_url_map"))
	if err != nil {
		return nil, err
	}

	cfg := &dossier.Config{
		WorkspaceRoot:     workspace,
		DossierRoot:       v.GetString("dossier_root"),
		CacheDB:           v.GetString("cache_db"),
		SECUserAgent:      strings.TrimSpace(v.GetString("sec_user_agent")),
		SECRPSLimit:       v.GetFloat64("sec_rps_limit"),
		MaxRetries:        v.GetInt("max_retries"),
		BackoffMax:        backoffMax,
		HTTPTimeout:       timeout,
		MaxFilingsPerForm: v.GetInt("max_filings_per_form"),
		ForceRebuild:      v.GetBool("force_rebuild"),
		DomainAllowlist:   splitList(v.GetString("domain_allowlist")),
		IRBaseURLMap:      irMap,
		NormalizeLevel:    strings.ToLower(v.GetString("normalize_level")),
		DownloadMode:      strings.ToLower(v.GetString("download_mode")),
		FetchMode:         strings.ToLower(v.GetString("fetch_mode")),
		CountTokens:       v.GetBool("count_tokens"),
		Endpoints: dossier.Endpoints{
			WWW:  strings.TrimRight(v.GetString("sec_base_url"), "/"),
			Data: strings.TrimRight(v.GetString("sec_data_url"), "/"),
		},
	}
	if cfg.DossierRoot == "" {
		cfg.DossierRoot = filepath.Join(workspace, "dossiers")
	}
	if cfg.CacheDB == "" {
		cfg.CacheDB = filepath.Join(workspace, ".dossier", "cache.db")
	}
	return cfg, nil
}

// duration accepts Go durations ("8s") and bare numbers of seconds.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, dossier.Errorf(dossier.EINVALID, "invalid %s %q", key, raw)
	}
	return d, nil
}

// splitList parses a comma-separated host list.
func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// urlMap parses a JSON object of ticker to URL. Tickers are uppercased.
func urlMap(raw string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, dossier.Errorf(dossier.EINVALID, "IR_BASE_URL_MAP must be a JSON object: %v", err)
	}
	for ticker, u := range m {
		out[dossier.NormalizeTicker(ticker)] = strings.TrimSpace(u)
	}
	return out, nil
}
