// Package bloom deduplicates SEC accession numbers across filing-history
// pages using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFPRate keeps the chance of dropping a distinct filing negligible.
const DefaultFPRate = 1e-7

// Filter wraps a Bloom filter keyed by accession number.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test returns true if the key might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// Seen reports whether key might have been added before and records it.
func (f *Filter) Seen(key string) bool {
	return f.f.TestAndAddString(key)
}
