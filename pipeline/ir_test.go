package pipeline_test

import (
	"testing"

	"github.com/fwojciec/dossier/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestIRBaseURL(t *testing.T) {
	t.Parallel()

	t.Run("prefers the configured map", func(t *testing.T) {
		t.Parallel()
		urls := map[string]string{"AAPL": "https://investor.apple.com"}
		assert.Equal(t, "https://investor.apple.com", pipeline.IRBaseURL("aapl", urls))
	})

	t.Run("falls back to the investors subdomain", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://investors.msft.com", pipeline.IRBaseURL("MSFT", nil))
	})
}

func TestDomainAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		url       string
		allowlist []string
		want      bool
	}{
		{"empty allowlist allows all", "https://investors.aapl.com", nil, true},
		{"exact host", "https://investor.apple.com/news", []string{"investor.apple.com"}, true},
		{"case insensitive", "https://Investor.Apple.com", []string{" investor.apple.com"}, true},
		{"other host", "https://investors.aapl.com", []string{"investor.apple.com"}, false},
		{"subdomain is not implied", "https://ir.investor.apple.com", []string{"investor.apple.com"}, false},
		{"unparseable url", "::", []string{"investor.apple.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pipeline.DomainAllowed(tt.url, tt.allowlist))
		})
	}
}
