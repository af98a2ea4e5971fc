package once

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/SpectralSequences/sseq-sub002/internal/parallel"
)

// OnceVec is a contiguous push-only sequence layered on a Grove: len
// is the largest prefix [0, len) in which every slot has been filled;
// ooo tracks indices >= len that have been filled out of order,
// leaving a gap. ooo and len are disjoint by construction: the lock
// is held across every operation that could observe or change either.
type OnceVec[T any] struct {
	grove  *Grove[T]
	mu     sync.Mutex
	length int
	ooo    map[int]struct{}
}

// NewOnceVec returns an empty OnceVec.
func NewOnceVec[T any]() *OnceVec[T] {
	return &OnceVec[T]{grove: NewGrove[T](), ooo: make(map[int]struct{})}
}

// Len returns the largest prefix length that is fully, contiguously
// filled. It takes the same lock as Push, PushOutOfOrder, Extend and
// ParExtend, so it waits for any of them that is in progress.
func (v *OnceVec[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.length
}

// PendingOutOfOrder returns the indices currently sitting beyond Len()
// that have been filled but not yet joined to the closed prefix,
// sorted ascending.
func (v *OnceVec[T]) PendingOutOfOrder() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	pending := lo.Keys(v.ooo)
	sort.Ints(pending)
	return pending
}

// Get returns the value at index i, if present (whether inside the
// closed prefix or an out-of-order gap fill).
func (v *OnceVec[T]) Get(i int) (T, bool) { return v.grove.Get(i) }

// GetUnchecked returns the value at index i, panicking if unset.
func (v *OnceVec[T]) GetUnchecked(i int) T { return v.grove.GetUnchecked(i) }

// Push appends value as the next in-order element. Panics if any
// out-of-order gap is currently pending, keeping ordered-only use
// unambiguous.
func (v *OnceVec[T]) Push(value T) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.ooo) != 0 {
		panic("once: OnceVec: Push called while an out-of-order gap is pending")
	}
	i := v.length
	v.grove.Insert(i, value)
	v.length = i + 1
	return i
}

// PushOutOfOrder inserts value at index i, which may be ahead of the
// current Len, leaving a gap. Returns the newly-closed contiguous
// range [oldLen, newLen) (empty, i.e. oldLen == newLen, when this
// push only opened or extended a gap rather than closing one).
func (v *OnceVec[T]) PushOutOfOrder(i int, value T) (oldLen, newLen int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < v.length {
		panic(fmt.Sprintf("once: OnceVec: index %d already in the closed prefix (len=%d)", i, v.length))
	}
	if _, pending := v.ooo[i]; pending {
		panic(fmt.Sprintf("once: OnceVec: index %d already pushed out of order", i))
	}
	v.grove.Insert(i, value)
	oldLen = v.length
	if i != v.length {
		v.ooo[i] = struct{}{}
		return oldLen, oldLen
	}
	next := v.length + 1
	for {
		if _, ok := v.ooo[next]; !ok {
			break
		}
		delete(v.ooo, next)
		next++
	}
	v.length = next
	return oldLen, next
}

// Extend fills every index in [Len(), max] in order, calling f(i) to
// produce each value. Panics if an out-of-order gap is pending.
func (v *OnceVec[T]) Extend(max int, f func(i int) T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.ooo) != 0 {
		panic("once: OnceVec: Extend called while an out-of-order gap is pending")
	}
	for i := v.length; i <= max; i++ {
		v.grove.Insert(i, f(i))
		v.length = i + 1
	}
}

// ParExtend fills every index in [Len(), max] concurrently across
// pool, then bumps Len to max+1 once every fill has completed. During
// the fill, Get may return false for not-yet-filled indices in that
// range: callers must let ParExtend return before relying on Get over
// [oldLen, max]. A nil pool uses the package-default pool.
func (v *OnceVec[T]) ParExtend(pool *parallel.Pool, max int, f func(i int) T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.ooo) != 0 {
		panic("once: OnceVec: ParExtend called while an out-of-order gap is pending")
	}
	start := v.length
	if max < start {
		return
	}
	if pool == nil {
		pool = parallel.Default()
	}
	n := max - start + 1
	err := pool.ForEachIndex(n, func(k int) error {
		i := start + k
		v.grove.Insert(i, f(i))
		return nil
	})
	if err != nil {
		panic(err)
	}
	v.length = max + 1
}
