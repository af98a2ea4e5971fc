package once

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroveInsertThenGet(t *testing.T) {
	g := NewGrove[int]()
	g.Insert(7, 99)
	v, ok := g.Get(7)
	require.True(t, ok)
	require.Equal(t, 99, v)
}

func TestGroveConcurrentDisjointInserts(t *testing.T) {
	g := NewGrove[int]()
	const n = 500
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g.Insert(i, i*i)
		}(i)
	}
	wg.Wait()

	require.GreaterOrEqual(t, g.Len(), n)
	for i := 0; i < n; i++ {
		v, ok := g.Get(i)
		require.True(t, ok, "index %d", i)
		require.Equal(t, i*i, v)
	}
}

func TestGroveTryInsertOnOccupied(t *testing.T) {
	g := NewGrove[string]()
	g.Insert(3, "first")
	err := g.TryInsert(3, "second")
	require.Error(t, err)
	v, ok := g.Get(3)
	require.True(t, ok)
	require.Equal(t, "first", v)
}

func TestScenarioS5GroveSparseInserts(t *testing.T) {
	g := NewGrove[int]()
	g.Insert(0, 10)
	g.Insert(100, 20)
	g.Insert(1000, 30)

	v0, ok0 := g.Get(0)
	require.True(t, ok0)
	require.Equal(t, 10, v0)

	v100, ok100 := g.Get(100)
	require.True(t, ok100)
	require.Equal(t, 20, v100)

	v1000, ok1000 := g.Get(1000)
	require.True(t, ok1000)
	require.Equal(t, 30, v1000)

	_, ok50 := g.Get(50)
	require.False(t, ok50)

	require.Equal(t, 1001, g.Len())
}

func TestLocateCoversIncreasingBlocks(t *testing.T) {
	// Block k spans indices [2^k - 1, 2*2^k - 1).
	for k := 0; k < 8; k++ {
		lo := (1 << uint(k)) - 1
		gotK, gotOff := locate(lo)
		require.Equal(t, k, gotK)
		require.Equal(t, 0, gotOff)
	}
}
