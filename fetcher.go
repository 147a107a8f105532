package dossier

import "context"

// Response is the result of a successful GET.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves documents over the network. Every call passes through
// the shared rate gate and carries the configured User-Agent.
type Fetcher interface {
	// Get fetches url. Non-2xx responses and network failures return
	// ETRANSPORT.
	Get(ctx context.Context, url string) (*Response, error)

	// Close releases transport resources.
	Close() error
}

// RateGate serializes outbound requests to a fixed rate.
type RateGate interface {
	// Wait blocks until the next request may be issued.
	Wait(ctx context.Context) error
}
