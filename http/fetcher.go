// Package http provides the SEC transport: a rate-gated, retrying GET client
// that identifies itself with the configured User-Agent.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/dossier"
)

// DefaultFetchTimeout is the default per-request timeout.
const DefaultFetchTimeout = dossier.DefaultHTTPTimeout

// Ensure Client implements dossier.Fetcher at compile time.
var _ dossier.Fetcher = (*Client)(nil)

// Client issues GET requests to SEC endpoints. Every attempt, retries
// included, first passes through the shared gate.
type Client struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	gate      dossier.RateGate
	delays    []time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithGate sets the rate gate shared with other transports.
func WithGate(g dossier.RateGate) Option {
	return func(c *Client) {
		c.gate = g
	}
}

// WithRetryDelays sets the waits between attempts of a transient failure.
// No delays means a single attempt.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.delays = delays
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultFetchTimeout,
		userAgent: dossier.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// Get fetches url, retrying network errors, 429 and 5xx responses.
func (c *Client) Get(ctx context.Context, url string) (*dossier.Response, error) {
	maxAttempts := len(c.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := c.get(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var te *transientError
		if !errors.As(err, &te) || attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delays[attempt]):
		}
	}

	var te *transientError
	if errors.As(lastErr, &te) {
		return nil, te.err
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, url string) (*dossier.Response, error) {
	if c.gate != nil {
		if err := c.gate.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dossier.Errorf(dossier.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &transientError{err: dossier.Errorf(dossier.ETRANSPORT, "GET %s: %v", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := dossier.Errorf(dossier.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, url)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &transientError{err: err}
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transientError{err: dossier.Errorf(dossier.ETRANSPORT, "reading %s: %v", url, err)}
	}

	return &dossier.Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases resources. For HTTP client this is a no-op since
// http.Client doesn't require explicit cleanup.
func (c *Client) Close() error {
	return nil
}

// transientError marks a failure worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// RetryDelays returns maxRetries waits starting at 500ms and doubling,
// each capped at ceiling.
func RetryDelays(maxRetries int, ceiling time.Duration) []time.Duration {
	delays := make([]time.Duration, 0, maxRetries)
	d := 500 * time.Millisecond
	for i := 0; i < maxRetries; i++ {
		if ceiling > 0 && d > ceiling {
			d = ceiling
		}
		delays = append(delays, d)
		d *= 2
	}
	return delays
}
