package once

import "github.com/SpectralSequences/sseq-sub002/internal/parallel"

// OnceBiVec is an OnceVec whose index domain starts at a signed
// minDegree instead of 0 — the natural shape for a sequence indexed by
// a page number or cohomological degree that need not start at zero.
type OnceBiVec[T any] struct {
	inner     *OnceVec[T]
	minDegree int
}

// NewOnceBiVec returns an empty OnceBiVec starting at minDegree.
func NewOnceBiVec[T any](minDegree int) *OnceBiVec[T] {
	return &OnceBiVec[T]{inner: NewOnceVec[T](), minDegree: minDegree}
}

// MinDegree returns the smallest valid index.
func (v *OnceBiVec[T]) MinDegree() int { return v.minDegree }

// Len returns minDegree + (the underlying OnceVec's length), so it
// can be negative if nothing has been pushed yet.
func (v *OnceBiVec[T]) Len() int { return v.minDegree + v.inner.Len() }

// Get returns the value at index i, if present.
func (v *OnceBiVec[T]) Get(i int) (T, bool) { return v.inner.Get(i - v.minDegree) }

// GetUnchecked returns the value at index i, panicking if unset.
func (v *OnceBiVec[T]) GetUnchecked(i int) T { return v.inner.GetUnchecked(i - v.minDegree) }

// Push appends value as the next in-order element.
func (v *OnceBiVec[T]) Push(value T) int { return v.inner.Push(value) + v.minDegree }

// PushOutOfOrder inserts value at index i (absolute, not shifted).
func (v *OnceBiVec[T]) PushOutOfOrder(i int, value T) (oldLen, newLen int) {
	lo, hi := v.inner.PushOutOfOrder(i-v.minDegree, value)
	return lo + v.minDegree, hi + v.minDegree
}

// Extend fills every index in [Len(), max] in order.
func (v *OnceBiVec[T]) Extend(max int, f func(i int) T) {
	v.inner.Extend(max-v.minDegree, func(j int) T { return f(j + v.minDegree) })
}

// ParExtend fills every index in [Len(), max] concurrently.
func (v *OnceBiVec[T]) ParExtend(pool *parallel.Pool, max int, f func(i int) T) {
	v.inner.ParExtend(pool, max-v.minDegree, func(j int) T { return f(j + v.minDegree) })
}
