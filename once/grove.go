package once

import (
	"fmt"
	"math/bits"
	"sync/atomic"
)

// maxBlocks bounds the number of geometrically-growing blocks a Grove
// ever allocates: block k has capacity 2^k, so 32 blocks cover indices
// 0 through 2^32 - 2; locating a larger index panics.
const maxBlocks = 32

// slot holds one pinned element. Once its pointer is set, the pointee
// is never moved or overwritten — later writers lose a CompareAndSwap
// race and their value is discarded.
type slot[T any] struct {
	value atomic.Pointer[T]
}

type block[T any] struct {
	slots []slot[T]
}

// Grove is an insert-only sparse vector indexed by non-negative int.
// Storage is a series of lazily-allocated blocks, block k holding 2^k
// slots; index i lives in block k = floor(log2(i+1)) at offset
// (i+1) - 2^k. Reads and writes are safe to interleave from multiple
// goroutines without a lock: each slot is claimed by at most one
// writer via CompareAndSwap, and Len() reports an acquire-ordered
// upper bound on indices that are safe to read.
type Grove[T any] struct {
	blocks [maxBlocks]atomic.Pointer[block[T]]
	max    atomic.Int64
}

// NewGrove returns an empty Grove.
func NewGrove[T any]() *Grove[T] {
	return &Grove[T]{}
}

func locate(i int) (blockNum, offset int) {
	if i < 0 {
		panic(fmt.Sprintf("once: Grove: negative index %d", i))
	}
	blockNum = bits.Len64(uint64(i)+1) - 1
	offset = (i + 1) - (1 << uint(blockNum))
	return
}

func (g *Grove[T]) ensureBlock(blockNum int) *block[T] {
	if b := g.blocks[blockNum].Load(); b != nil {
		return b
	}
	candidate := &block[T]{slots: make([]slot[T], 1<<uint(blockNum))}
	if g.blocks[blockNum].CompareAndSwap(nil, candidate) {
		return candidate
	}
	// Lost the race: discard our allocation and use the winner's block.
	return g.blocks[blockNum].Load()
}

// TryInsert claims index i for value, returning an error instead of
// overwriting if the index was already set.
func (g *Grove[T]) TryInsert(i int, value T) error {
	blockNum, offset := locate(i)
	b := g.ensureBlock(blockNum)
	if !b.slots[offset].value.CompareAndSwap(nil, &value) {
		return fmt.Errorf("once: Grove: index %d already set", i)
	}
	g.bumpMax(int64(i) + 1)
	return nil
}

// Insert claims index i for value, panicking if it was already set.
func (g *Grove[T]) Insert(i int, value T) {
	if err := g.TryInsert(i, value); err != nil {
		panic(err)
	}
}

func (g *Grove[T]) bumpMax(candidate int64) {
	for {
		cur := g.max.Load()
		if candidate <= cur {
			return
		}
		if g.max.CompareAndSwap(cur, candidate) {
			return
		}
	}
}

// Get returns the value at index i, if one has been inserted.
func (g *Grove[T]) Get(i int) (T, bool) {
	var zero T
	if i < 0 {
		return zero, false
	}
	blockNum, offset := locate(i)
	b := g.blocks[blockNum].Load()
	if b == nil {
		return zero, false
	}
	p := b.slots[offset].value.Load()
	if p == nil {
		return zero, false
	}
	return *p, true
}

// GetUnchecked returns the value at index i, panicking if unset. Used
// by callers (OnceVec's hot path) that have already observed the
// index as safely readable via Len.
func (g *Grove[T]) GetUnchecked(i int) T {
	v, ok := g.Get(i)
	if !ok {
		panic(fmt.Sprintf("once: Grove: GetUnchecked(%d): index not set", i))
	}
	return v
}

// Len returns a strict upper bound on indices ever inserted: every
// index below Len() that this goroutine has separately observed was
// inserted before this bound was published is safe to read.
func (g *Grove[T]) Len() int { return int(g.max.Load()) }
