package once

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOnceVecPush(t *testing.T) {
	v := NewOnceVec[int]()
	v.Push(10)
	v.Push(20)
	v.Push(30)
	require.Equal(t, 3, v.Len())
	for i, want := range []int{10, 20, 30} {
		got, ok := v.Get(i)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestOnceVecPushPanicsDuringPendingGap(t *testing.T) {
	v := NewOnceVec[int]()
	v.PushOutOfOrder(2, 30)
	require.Panics(t, func() { v.Push(0) })
}

func TestScenarioS6PushOutOfOrder(t *testing.T) {
	v := NewOnceVec[int]()

	_, len1 := v.PushOutOfOrder(0, 10)
	require.Equal(t, 1, len1)

	_, len2 := v.PushOutOfOrder(2, 30)
	require.Equal(t, 1, len2) // still a gap at index 1
	require.Equal(t, []int{2}, v.PendingOutOfOrder())

	_, len3 := v.PushOutOfOrder(1, 20)
	require.Equal(t, 3, len3) // gap closes, consuming the pending index 2 too

	require.Equal(t, 3, v.Len())
	require.Empty(t, v.PendingOutOfOrder())
	for i, want := range []int{10, 20, 30} {
		got, ok := v.Get(i)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestOnceVecExtend(t *testing.T) {
	v := NewOnceVec[int]()
	v.Extend(4, func(i int) int { return i * 10 })
	require.Equal(t, 5, v.Len())
	for i := 0; i <= 4; i++ {
		got, ok := v.Get(i)
		require.True(t, ok)
		require.Equal(t, i*10, got)
	}
}

func TestOnceVecParExtend(t *testing.T) {
	v := NewOnceVec[int]()
	v.ParExtend(nil, 999, func(i int) int { return i + 1 })
	require.Equal(t, 1000, v.Len())
	for i := 0; i <= 999; i++ {
		got, ok := v.Get(i)
		require.True(t, ok)
		require.Equal(t, i+1, got)
	}
}

func TestOnceVecEventualConsistencyUnderConcurrentOutOfOrderInserts(t *testing.T) {
	v := NewOnceVec[int]()
	const n = 200
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	// Deterministic shuffle so the test is reproducible without rand.
	for i := 0; i < n; i++ {
		j := (i*37 + 11) % n
		perm[i], perm[j] = perm[j], perm[i]
	}

	var wg sync.WaitGroup
	for _, idx := range perm {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v.PushOutOfOrder(idx, idx*2)
		}(idx)
	}
	wg.Wait()

	require.Equal(t, n, v.Len())
	for i := 0; i < n; i++ {
		got, ok := v.Get(i)
		require.True(t, ok, "index %d", i)
		require.Equal(t, i*2, got)
	}
}

func TestOnceBiVecNegativeMinDegree(t *testing.T) {
	v := NewOnceBiVec[int](-3)
	require.Equal(t, -3, v.Len())
	v.Push(100) // lands at index -3
	v.Push(200) // lands at index -2
	require.Equal(t, -1, v.Len())

	got, ok := v.Get(-3)
	require.True(t, ok)
	require.Equal(t, 100, got)

	got, ok = v.Get(-2)
	require.True(t, ok)
	require.Equal(t, 200, got)
}

func TestOnceBiVecExtendAndParExtend(t *testing.T) {
	v := NewOnceBiVec[int](-2)
	v.Extend(1, func(i int) int { return i * 3 })
	require.Equal(t, 2, v.Len())
	for i := -2; i <= 1; i++ {
		got, ok := v.Get(i)
		require.True(t, ok)
		require.Equal(t, i*3, got)
	}

	v2 := NewOnceBiVec[int](-2)
	v2.ParExtend(nil, 1, func(i int) int { return i * 5 })
	require.Equal(t, 2, v2.Len())
	for i := -2; i <= 1; i++ {
		got, ok := v2.Get(i)
		require.True(t, ok)
		require.Equal(t, i*5, got)
	}
}
