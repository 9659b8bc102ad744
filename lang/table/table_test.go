package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	tb := New[int]()

	require.True(t, tb.Set("a", 1))
	require.False(t, tb.Set("a", 2), "re-setting an existing key is not new")
	v, ok := tb.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.False(t, tb.Has("missing"))
	require.True(t, tb.Delete("a"))
	require.False(t, tb.Delete("a"), "deleting twice reports absent the second time")
	require.False(t, tb.Has("a"))
}

func TestTombstoneKeepsProbeChainValid(t *testing.T) {
	tb := New[int]()
	tb.Set("a", 1)
	tb.Set("b", 2)
	tb.Set("c", 3)

	tb.Delete("b")
	v, ok := tb.Get("c")
	require.True(t, ok, "probing past a tombstone must still find later keys")
	require.Equal(t, 3, v)
}

func TestGrowthPreservesAllEntries(t *testing.T) {
	tb := New[int]()
	const n = 200
	for i := 0; i < n; i++ {
		tb.Set(fmt.Sprintf("key%d", i), i)
	}
	require.Equal(t, n, tb.Len())
	for i := 0; i < n; i++ {
		v, ok := tb.Get(fmt.Sprintf("key%d", i))
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestEachVisitsOnlyLiveEntries(t *testing.T) {
	tb := New[int]()
	tb.Set("a", 1)
	tb.Set("b", 2)
	tb.Delete("a")

	seen := map[string]int{}
	tb.Each(func(key string, v int) { seen[key] = v })
	require.Equal(t, map[string]int{"b": 2}, seen)
}

func TestDeleteIf(t *testing.T) {
	tb := New[int]()
	tb.Set("a", 1)
	tb.Set("b", 2)
	tb.Set("c", 3)

	tb.DeleteIf(func(v int) bool { return v%2 == 0 })
	require.False(t, tb.Has("b"))
	require.True(t, tb.Has("a"))
	require.True(t, tb.Has("c"))
}
