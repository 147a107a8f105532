// Package rod fetches documents through headless Chrome. It serves as the
// fallback transport when plain HTTP requests are refused.
package rod

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTimeout bounds a single page load.
const DefaultTimeout = 30 * time.Second

// Ensure Fetcher implements dossier.Fetcher at compile time.
var _ dossier.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documents using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	gate      dossier.RateGate
	userAgent string
	timeout   time.Duration

	mu     sync.Mutex
	closed atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithGate makes every navigation wait on gate first.
func WithGate(gate dossier.RateGate) Option {
	return func(f *Fetcher) {
		f.gate = gate
	}
}

// WithUserAgent overrides the browser's User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTimeout sets the per-page load timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, dossier.Errorf(dossier.ETRANSPORT, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, dossier.Errorf(dossier.ETRANSPORT, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Get navigates to url and returns the document. HTML documents are
// returned as rendered markup; other content types as the body text the
// browser displays.
func (f *Fetcher) Get(ctx context.Context, url string) (*dossier.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.closed.Load() {
		return nil, dossier.Errorf(dossier.ETRANSPORT, "browser closed")
	}
	if f.gate != nil {
		if err := f.gate.Wait(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, dossier.Errorf(dossier.ETRANSPORT, "opening page: %v", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := (proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}).Call(page); err != nil {
			return nil, dossier.Errorf(dossier.ETRANSPORT, "setting user agent: %v", err)
		}
	}

	var status int
	var mime string
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		mime = e.Response.MIMEType
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, navigationError(ctx, url, err)
	}
	wait()
	if err := page.WaitLoad(); err != nil {
		return nil, navigationError(ctx, url, err)
	}

	if status != 0 && (status < 200 || status > 299) {
		return &dossier.Response{StatusCode: status, ContentType: mime},
			dossier.Errorf(dossier.ETRANSPORT, "HTTP %d for %s", status, url)
	}

	body, err := pageBody(page, mime)
	if err != nil {
		return nil, navigationError(ctx, url, err)
	}

	if status == 0 {
		status = 200
	}
	return &dossier.Response{
		StatusCode:  status,
		ContentType: mime,
		Body:        []byte(body),
	}, nil
}

func pageBody(page *rod.Page, mime string) (string, error) {
	if mime == "" || strings.Contains(mime, "html") {
		return page.HTML()
	}
	el, err := page.Element("body")
	if err != nil {
		return "", err
	}
	return el.Text()
}

// navigationError keeps context errors visible to callers while tagging
// everything else as a transport failure.
func navigationError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("fetching %s: %w", url, ctxErr)
	}
	return dossier.Errorf(dossier.ETRANSPORT, "fetching %s: %v", url, err)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
	}
	if f.launcher != nil {
		f.launcher.Kill()
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}
