// Copyright 2024 The bitset Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bloom implements a Bloom filter on top of the dense bitset:
// approximate set membership with no false negatives and a tunable
// false-positive rate.
package bloom

import (
	"math"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/bitset"
)

// Filter is a Bloom filter.  Add and Has may be called concurrently
// with other readers, but writers need exclusive access, same as the
// underlying bitset.
type Filter struct {
	bits *bitset.Bitset
	k    int
}

// New sizes a filter for n expected elements at target false-positive
// rate p (0 < p < 1), using the standard m = -n*ln(p)/ln(2)^2 and
// k = (m/n)*ln(2) formulas.  Out-of-range arguments are clamped rather
// than rejected: a Bloom filter degrades gracefully, it doesn't fail.
func New(n int, p float64) *Filter {
	if n < 1 {
		n = 1
	}
	if p <= 0 || p >= 1 {
		p = 0.01
	}
	m := int(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if m < bitset.WordBits {
		m = bitset.WordBits
	}
	k := int(math.Round(float64(m) / float64(n) * math.Ln2))
	if k < 1 {
		k = 1
	}
	return &Filter{
		bits: bitset.New(m),
		k:    k,
	}
}

// Add inserts key into the filter.
func (f *Filter) Add(key []byte) {
	h1, h2 := hash2(key)
	m := uint64(f.bits.Len())
	for i := uint64(0); i < uint64(f.k); i++ {
		f.bits.Set(int((h1 + i*h2) % m))
	}
}

// Has reports whether key may be in the filter.  False means
// definitely absent; true means present with probability 1-p.
func (f *Filter) Has(key []byte) bool {
	h1, h2 := hash2(key)
	m := uint64(f.bits.Len())
	for i := uint64(0); i < uint64(f.k); i++ {
		if !f.bits.IsSet(int((h1 + i*h2) % m)) {
			return false
		}
	}
	return true
}

// AddString inserts key into the filter.
func (f *Filter) AddString(key string) {
	f.Add([]byte(key))
}

// HasString reports whether key may be in the filter.
func (f *Filter) HasString(key string) bool {
	return f.Has([]byte(key))
}

// hash2 derives the two independent hashes for double hashing.  The
// second is forced odd so the probe stride is never zero, which would
// degenerate to setting a single bit.
func hash2(key []byte) (uint64, uint64) {
	return farm.Hash64WithSeed(key, 0), farm.Hash64WithSeed(key, 1) | 1
}
