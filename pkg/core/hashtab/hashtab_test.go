package hashtab_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvreede/amplc/pkg/core/hashtab"
)

func intHash(k int, size uint) uint { return uint(k) % size }

func intCmp(a, b int) int { return a - b }

func newIntTable() *hashtab.Table[int, string] {
	return hashtab.New[int, string](0.75, intHash, intCmp)
}

func TestInsertAndSearch(t *testing.T) {
	tab := newIntTable()
	for i := 0; i < 100; i++ {
		require.NoError(t, tab.Insert(i, fmt.Sprintf("v%d", i)))
	}
	require.Equal(t, 100, tab.Len())

	for i := 0; i < 100; i++ {
		v, ok := tab.Search(i)
		require.True(t, ok, "key %d", i)
		assert.Equal(t, fmt.Sprintf("v%d", i), v)
	}
	_, ok := tab.Search(100)
	assert.False(t, ok)
}

func TestDuplicateInsertRejected(t *testing.T) {
	tab := newIntTable()
	require.NoError(t, tab.Insert(7, "first"))

	err := tab.Insert(7, "second")
	require.ErrorIs(t, err, hashtab.ErrKeyExists)
	assert.Equal(t, 1, tab.Len())

	v, ok := tab.Search(7)
	require.True(t, ok)
	assert.Equal(t, "first", v, "duplicate insert must not overwrite")
}

func TestCapacitySequence(t *testing.T) {
	tab := newIntTable()
	require.EqualValues(t, 13, tab.Cap())

	// capacity grows along the almost-prime sequence 13, 31, 61 just before
	// an insertion would reach the maximum load factor
	for i := 0; i < 9; i++ {
		require.NoError(t, tab.Insert(i, ""))
	}
	assert.EqualValues(t, 13, tab.Cap())

	require.NoError(t, tab.Insert(9, ""))
	assert.EqualValues(t, 31, tab.Cap())

	for i := 10; i < 23; i++ {
		require.NoError(t, tab.Insert(i, ""))
	}
	assert.EqualValues(t, 31, tab.Cap())

	require.NoError(t, tab.Insert(23, ""))
	assert.EqualValues(t, 61, tab.Cap())
}

func TestLoadFactorInvariant(t *testing.T) {
	tab := newIntTable()
	for i := 0; i < 500; i++ {
		require.NoError(t, tab.Insert(i, ""))
		load := float64(tab.Len()) / float64(tab.Cap())
		require.Less(t, load, 0.75, "after %d inserts", i+1)
	}
}

func TestRehashPreservesEntries(t *testing.T) {
	tab := hashtab.New[string, int](0.75,
		func(k string, size uint) uint {
			var h uint
			for i := 0; i < len(k); i++ {
				h = h*31 + uint(k[i])
			}
			return h % size
		},
		strings.Compare)

	for i := 0; i < 64; i++ {
		require.NoError(t, tab.Insert(fmt.Sprintf("key%d", i), i))
	}
	for i := 0; i < 64; i++ {
		v, ok := tab.Search(fmt.Sprintf("key%d", i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestWalkVisitsEveryEntry(t *testing.T) {
	tab := newIntTable()
	for i := 0; i < 30; i++ {
		require.NoError(t, tab.Insert(i, fmt.Sprintf("v%d", i)))
	}

	seen := make(map[int]string)
	tab.Walk(func(k int, v string) { seen[k] = v })

	require.Len(t, seen, 30)
	for i := 0; i < 30; i++ {
		assert.Equal(t, fmt.Sprintf("v%d", i), seen[i])
	}
}
