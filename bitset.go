// Copyright 2023 The bitset Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitset implements a dense, fixed-granularity bitset: a packed
// array of bits over a known universe size, stored as 64-bit words.
// Single-bit reads and writes are O(1), bulk set algebra and scanning
// are O(nbits/64) using per-word hardware popcount and trailing-zero
// instructions.
//
// Bitsets shine for dense finite sets (visited-node tracking, membership
// over small integer IDs).  They are a poor fit for sparse sets: a set
// holding {3, 1_000_000} still pays for a million bits of storage, and
// iteration has to walk every intervening word.
//
// Index and size preconditions are enforced with panics: passing an
// out-of-range index or combining sets over different universes is a bug
// at the call site, not a recoverable condition.
package bitset

import (
	"fmt"
	"math/bits"

	"github.com/bpowers/bitset/internal/zero"
)

// WordBits is the number of bits in a storage word.
const WordBits = 64

// Bitset is a mutable set of bits over a fixed universe [0, Len()).
// The zero value is an empty set over an empty universe; use New to get
// a set with room for bits.
//
// A Bitset carries no internal synchronization: concurrent readers are
// fine, but a writer requires exclusive access.
type Bitset struct {
	words []uint64
	nbits int
}

func wordsFor(nbits int) int {
	return (nbits + WordBits - 1) / WordBits
}

func getOffsets(i int) (wordOff int, bitOff uint) {
	wordOff = i / WordBits
	bitOff = uint(i) % WordBits
	return
}

// New returns a bitset with all nbits bits clear.
func New(nbits int) *Bitset {
	if nbits < 0 {
		panic(fmt.Sprintf("bitset: negative size %d", nbits))
	}
	return &Bitset{
		words: make([]uint64, wordsFor(nbits)),
		nbits: nbits,
	}
}

// NewFromWords returns a bitset that uses words as its storage rather
// than allocating.  len(words) must be exactly ceil(nbits/WordBits).
// Any padding bits in the final word (at index >= nbits) are cleared to
// establish the invariant Count and the scan functions depend on.
//
// The view aliases words: it is for callers like package offheap that
// manage word storage themselves.  Calling Resize or Free on the view
// detaches it from that storage.
func NewFromWords(words []uint64, nbits int) *Bitset {
	if nbits < 0 || len(words) != wordsFor(nbits) {
		panic(fmt.Sprintf("bitset: %d words can't hold exactly %d bits", len(words), nbits))
	}
	b := &Bitset{
		words: words,
		nbits: nbits,
	}
	b.clearTail()
	return b
}

// Len returns the number of addressable bits.
func (b *Bitset) Len() int {
	return b.nbits
}

// Free releases the storage back to the garbage collector.  The bitset
// must not be used afterward; like the rest of this package's contract
// violations, misuse is a caller bug and is not guarded against.
func (b *Bitset) Free() {
	b.words = nil
	b.nbits = 0
}

// Resize changes the universe to [0, nbits), preserving the values of
// bits below min(old, new) and clearing everything above.  It never
// modifies the bitset on allocation failure: a fresh buffer is filled
// first and only then swapped in.
func (b *Bitset) Resize(nbits int) {
	if nbits < 0 {
		panic(fmt.Sprintf("bitset: negative size %d", nbits))
	}
	words := make([]uint64, wordsFor(nbits))
	copy(words, b.words)
	b.words = words
	b.nbits = nbits
	// shrinking can pull previously-addressable bits into the tail
	// padding of the (possibly same) final word
	b.clearTail()
}

// clearTail zeroes the padding bits above nbits in the final word.
func (b *Bitset) clearTail() {
	if tail := uint(b.nbits) % WordBits; tail != 0 {
		b.words[len(b.words)-1] &= (1 << tail) - 1
	}
}

// CopyFrom overwrites b's storage word-for-word with src's.  Both sets
// must occupy the same number of words; CopyFrom never resizes, and b
// keeps its own universe size.
func (b *Bitset) CopyFrom(src *Bitset) {
	b.checkSameSize(src)
	copy(b.words, src.words)
	// src may address more bits than b within the same word count
	b.clearTail()
}

// Clone returns an independent copy of b.
func (b *Bitset) Clone() *Bitset {
	c := New(b.nbits)
	copy(c.words, b.words)
	return c
}

// Reset clears every bit, keeping the universe size.
func (b *Bitset) Reset() {
	zero.Uint64(b.words)
}

func (b *Bitset) checkIndex(i int) {
	if i < 0 || i >= b.nbits {
		panic(fmt.Sprintf("bitset: index %d out of range [0, %d)", i, b.nbits))
	}
}

func (b *Bitset) checkSameSize(other *Bitset) {
	if len(b.words) != len(other.words) {
		panic(fmt.Sprintf("bitset: word count mismatch (%d != %d)", len(b.words), len(other.words)))
	}
}

// IsSet reports whether bit i is 1.
func (b *Bitset) IsSet(i int) bool {
	b.checkIndex(i)
	wordOff, bitOff := getOffsets(i)
	return b.words[wordOff]&(1<<bitOff) != 0
}

// Set sets bit i to 1.
func (b *Bitset) Set(i int) {
	b.checkIndex(i)
	wordOff, bitOff := getOffsets(i)
	b.words[wordOff] |= 1 << bitOff
}

// Clear sets bit i to 0.
func (b *Bitset) Clear(i int) {
	b.checkIndex(i)
	wordOff, bitOff := getOffsets(i)
	b.words[wordOff] &^= 1 << bitOff
}

// SetTo sets bit i to exactly v: afterward IsSet(i) == v regardless of
// the bit's prior state.  This is an unconditional masked write, not a
// read-then-toggle.
func (b *Bitset) SetTo(i int, v bool) {
	b.checkIndex(i)
	wordOff, bitOff := getOffsets(i)
	var bit uint64
	if v {
		bit = 1 << bitOff
	}
	b.words[wordOff] = b.words[wordOff]&^(1<<bitOff) | bit
}

// Toggle flips bit i.
func (b *Bitset) Toggle(i int) {
	b.checkIndex(i)
	wordOff, bitOff := getOffsets(i)
	b.words[wordOff] ^= 1 << bitOff
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// FirstSet returns the index of the lowest set bit, or -1 if the set is
// empty.
func (b *Bitset) FirstSet() int {
	for wordOff, w := range b.words {
		if w != 0 {
			return wordOff*WordBits + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// NextSet returns the index of the lowest set bit strictly greater than
// from, or -1 if there is none.
func (b *Bitset) NextSet(from int) int {
	b.checkIndex(from)
	wordOff, bitOff := getOffsets(from)
	// mask away from and everything below it; a shift count of
	// WordBits (bitOff == 63) is well defined in Go and leaves w == 0
	w := b.words[wordOff] &^ (1<<(bitOff+1) - 1)
	for w == 0 {
		wordOff++
		if wordOff == len(b.words) {
			return -1
		}
		w = b.words[wordOff]
	}
	return wordOff*WordBits + bits.TrailingZeros64(w)
}

// And intersects b with other in place.
func (b *Bitset) And(other *Bitset) {
	b.checkSameSize(other)
	for i, w := range other.words {
		b.words[i] &= w
	}
}

// Or unions other into b in place.
func (b *Bitset) Or(other *Bitset) {
	b.checkSameSize(other)
	for i, w := range other.words {
		b.words[i] |= w
	}
}

// AndTo stores the intersection of a and b into dest.  All three sets
// must occupy the same number of words.
func AndTo(dest, a, b *Bitset) {
	a.checkSameSize(b)
	dest.checkSameSize(a)
	for i := range a.words {
		dest.words[i] = a.words[i] & b.words[i]
	}
}

// OrTo stores the union of a and b into dest.  All three sets must
// occupy the same number of words.
func OrTo(dest, a, b *Bitset) {
	a.checkSameSize(b)
	dest.checkSameSize(a)
	for i := range a.words {
		dest.words[i] = a.words[i] | b.words[i]
	}
}
