package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/fwojciec/dossier"
)

// IRBaseURL returns the investor-relations site of ticker, preferring the
// configured map over the investors.<ticker>.com convention.
func IRBaseURL(ticker string, urls map[string]string) string {
	ticker = dossier.NormalizeTicker(ticker)
	if u := urls[ticker]; u != "" {
		return u
	}
	return "https://investors." + strings.ToLower(ticker) + ".com"
}

// DomainAllowed reports whether the host of rawURL is in allowlist.
// An empty allowlist allows every host.
func DomainAllowed(rawURL string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	return slices.ContainsFunc(allowlist, func(d string) bool {
		return strings.ToLower(strings.TrimSpace(d)) == host
	})
}

// prepareIR checks the IR site against the allowlist and, in full mode,
// reserves the IR directories. IR scraping itself is not implemented and
// yields no artifacts.
func (b *Builder) prepareIR(ctx context.Context, layout dossier.Layout, snap dossier.ConfigSnapshot) {
	base := IRBaseURL(layout.Ticker, snap.IRBaseURLMap)
	if !DomainAllowed(base, snap.DomainAllowlist) {
		b.progress(dossier.Progress{
			Stage:   dossier.StageIR,
			Message: fmt.Sprintf("IR domain of %s not in allowlist", base),
		})
		return
	}

	if snap.DownloadMode == dossier.DownloadFull {
		for _, dir := range layout.IRDirs() {
			if err := b.Blobs.MkdirAll(ctx, layout.Abs(dir)); err != nil {
				b.progress(dossier.Progress{Stage: dossier.StageIR, Message: "create IR directory", Err: err})
				return
			}
		}
	}

	b.progress(dossier.Progress{
		Stage:   dossier.StageIR,
		Message: fmt.Sprintf("IR scraping not implemented, would fetch from %s", base),
	})
}
