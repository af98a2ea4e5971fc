package once

import (
	"fmt"
	"math"
	"sync/atomic"
)

// TwoEndedGrove is a Grove indexed by any int, positive or negative: a
// non-negative-side Grove and a negative-side Grove back to back,
// plus the running (min, max) of every index ever inserted. Used as
// the per-level storage inside MultiIndexed, where a coordinate (e.g.
// an Adams filtration x) is routinely negative.
type TwoEndedGrove[T any] struct {
	nonNeg *Grove[T] // index i >= 0 stored at nonNeg[i]
	neg    *Grove[T] // index i < 0 stored at neg[-i-1]
	min    atomic.Int64
	max    atomic.Int64
	seeded atomic.Bool
}

// NewTwoEndedGrove returns an empty TwoEndedGrove.
func NewTwoEndedGrove[T any]() *TwoEndedGrove[T] {
	g := &TwoEndedGrove[T]{nonNeg: NewGrove[T](), neg: NewGrove[T]()}
	g.min.Store(math.MaxInt64)
	g.max.Store(math.MinInt64)
	return g
}

func (g *TwoEndedGrove[T]) sideAndOffset(i int) (side *Grove[T], offset int) {
	if i >= 0 {
		return g.nonNeg, i
	}
	return g.neg, -i - 1
}

// TryInsert claims index i for value, returning an error if it was
// already set.
func (g *TwoEndedGrove[T]) TryInsert(i int, value T) error {
	side, offset := g.sideAndOffset(i)
	if err := side.TryInsert(offset, value); err != nil {
		return fmt.Errorf("once: TwoEndedGrove: index %d already set", i)
	}
	g.observe(i)
	return nil
}

// Insert claims index i for value, panicking if it was already set.
func (g *TwoEndedGrove[T]) Insert(i int, value T) {
	if err := g.TryInsert(i, value); err != nil {
		panic(err)
	}
}

func (g *TwoEndedGrove[T]) observe(i int) {
	g.seeded.Store(true)
	v := int64(i)
	for {
		cur := g.max.Load()
		if v <= cur {
			break
		}
		if g.max.CompareAndSwap(cur, v) {
			break
		}
	}
	for {
		cur := g.min.Load()
		if v >= cur {
			break
		}
		if g.min.CompareAndSwap(cur, v) {
			break
		}
	}
}

// Get returns the value at index i, if one has been inserted.
func (g *TwoEndedGrove[T]) Get(i int) (T, bool) {
	side, offset := g.sideAndOffset(i)
	return side.Get(offset)
}

// GetUnchecked returns the value at index i, panicking if unset.
func (g *TwoEndedGrove[T]) GetUnchecked(i int) T {
	side, offset := g.sideAndOffset(i)
	return side.GetUnchecked(offset)
}

// Bounds reports the smallest and largest index ever inserted, and
// whether anything has been inserted at all.
func (g *TwoEndedGrove[T]) Bounds() (min, max int, ok bool) {
	if !g.seeded.Load() {
		return 0, 0, false
	}
	return int(g.min.Load()), int(g.max.Load()), true
}
