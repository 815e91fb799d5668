// Copyright 2024 The bitset Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package offheap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAndFree(t *testing.T) {
	b, err := New(130)
	require.NoError(t, err)
	require.Equal(t, 130, b.Len())
	require.Zero(t, b.Count())

	b.Set(0)
	b.Set(64)
	b.Set(129)
	require.Equal(t, 3, b.Count())
	require.True(t, b.IsSet(64))
	require.Equal(t, 0, b.FirstSet())
	require.Equal(t, 64, b.NextSet(0))
	require.Equal(t, 129, b.NextSet(64))
	require.Equal(t, -1, b.NextSet(129))

	require.NoError(t, b.Free())
	// double Free is a no-op
	require.NoError(t, b.Free())
}

func TestNegativeSize(t *testing.T) {
	_, err := New(-1)
	require.Error(t, err)
}

func TestEmptyUniverse(t *testing.T) {
	b, err := New(0)
	require.NoError(t, err)
	require.Zero(t, b.Len())
	require.Equal(t, -1, b.FirstSet())
	require.NoError(t, b.Free())
}

func TestResize(t *testing.T) {
	b, err := New(10)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, b.Free())
	}()

	b.Set(2)
	b.Set(7)

	require.NoError(t, b.Resize(200))
	require.Equal(t, 200, b.Len())
	require.Equal(t, 2, b.Count())
	require.True(t, b.IsSet(2))
	require.True(t, b.IsSet(7))
	for i := 10; i < 200; i++ {
		require.False(t, b.IsSet(i))
	}

	b.Set(199)
	require.NoError(t, b.Resize(5))
	require.Equal(t, 5, b.Len())
	require.Equal(t, 1, b.Count())
	require.True(t, b.IsSet(2))
}

func TestResizeSameWordCountClearsTail(t *testing.T) {
	b, err := New(64)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, b.Free())
	}()

	b.Set(5)
	b.Set(63)
	require.NoError(t, b.Resize(10))
	require.Equal(t, 1, b.Count())
	require.Equal(t, 5, b.FirstSet())
	require.Equal(t, -1, b.NextSet(5))
}

func TestMatchesHeapBitset(t *testing.T) {
	b, err := New(300)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, b.Free())
	}()

	// same API as the heap-backed set, same answers
	for i := 0; i < 300; i += 7 {
		b.SetTo(i, true)
	}
	b.Clear(7)
	require.Equal(t, 42, b.Count())
	require.Equal(t, 14, b.NextSet(0))
}
