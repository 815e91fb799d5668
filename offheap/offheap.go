// Copyright 2024 The bitset Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package offheap provides a bitset whose words live in anonymous
// mmap'd memory outside the Go heap.  Unlike the heap-backed bitset,
// allocation failure surfaces as an error rather than aborting the
// process, and storage follows an explicit acquire/release contract:
// every successful New must be paired with exactly one Free.
package offheap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/bpowers/bitset"
)

// Bitset is a dense bitset over mmap'd storage.  The embedded
// *bitset.Bitset provides the full accessor, algebra, and scan API;
// Resize and Free are shadowed here because they manage the mapping.
type Bitset struct {
	*bitset.Bitset
	mem   []byte
	words []uint64
}

// New returns a bitset with all nbits bits clear, or an error if the
// kernel refuses the mapping.  On error nothing is allocated.
func New(nbits int) (*Bitset, error) {
	if nbits < 0 {
		return nil, fmt.Errorf("offheap: negative size %d", nbits)
	}
	mem, words, err := mapWords(nbits)
	if err != nil {
		return nil, err
	}
	return &Bitset{
		Bitset: bitset.NewFromWords(words, nbits),
		mem:    mem,
		words:  words,
	}, nil
}

// mapWords maps a fresh zero-filled anonymous region big enough for
// nbits bits and returns a word-granularity view of it.  An empty
// universe gets no mapping at all.
func mapWords(nbits int) (mem []byte, words []uint64, err error) {
	nwords := (nbits + bitset.WordBits - 1) / bitset.WordBits
	if nwords == 0 {
		return nil, nil, nil
	}
	mem, err = unix.Mmap(-1, 0, nwords*8,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("unix.Mmap(%d bytes): %w", nwords*8, err)
	}
	words = unsafe.Slice((*uint64)(unsafe.Pointer(&mem[0])), nwords)
	return mem, words, nil
}

// Resize changes the universe to [0, nbits), preserving bits below
// min(old, new) and clearing everything above.  A fresh region is
// mapped and filled before the old one is released, so on error the
// receiver is unchanged and still valid.
func (b *Bitset) Resize(nbits int) error {
	mem, words, err := mapWords(nbits)
	if err != nil {
		return err
	}
	copy(words, b.words)
	old := b.mem
	// NewFromWords re-zeroes the tail padding, which a shrink can
	// leave dirty after the copy above
	b.Bitset = bitset.NewFromWords(words, nbits)
	b.mem = mem
	b.words = words
	if old != nil {
		if err := unix.Munmap(old); err != nil {
			return fmt.Errorf("unix.Munmap: %w", err)
		}
	}
	return nil
}

// Free unmaps the storage.  Freeing twice is a no-op; any other use
// after Free is undefined.
func (b *Bitset) Free() error {
	mem := b.mem
	b.Bitset = nil
	b.mem = nil
	b.words = nil
	if mem == nil {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("unix.Munmap: %w", err)
	}
	return nil
}
