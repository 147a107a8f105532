package http

import (
	"context"

	"github.com/fwojciec/dossier"
	"golang.org/x/time/rate"
)

var _ dossier.RateGate = (*Gate)(nil)

// Gate enforces a minimum interval between outbound requests using a token
// bucket with a burst of 1. One Gate is shared by every transport.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a Gate allowing rps requests per second.
func NewGate(rps float64) *Gate {
	return &Gate{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next request may be issued.
// Returns an error if the context is canceled before the wait completes.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
