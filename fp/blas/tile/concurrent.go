package tile

import "github.com/SpectralSequences/sseq-sub002/internal/parallel"

// GemmConcurrent implements spec.md §4.E.iii: if c has more than m
// row-blocks, split a and c at the row midpoint and recurse on the two
// halves in parallel; else if c has more than n col-blocks, split b and
// c at the column midpoint and recurse in parallel; else run the
// sequential tile Gemm with loop order `order`. The two recursive
// branches always write to disjoint blocks of c, so no synchronization
// beyond the join itself is required.
//
// Defaults, matching spec.md: m = 1, n = 16.
func GemmConcurrent(pool *parallel.Pool, m, n int, order LoopOrder, a, b, c Slice) {
	if pool == nil {
		pool = parallel.Default()
	}
	if c.BlockRows() > m {
		mid := c.BlockRows() / 2
		aTop, aBottom := a.SplitRows(mid)
		cTop, cBottom := c.SplitRows(mid)
		pool.Join(
			func() { GemmConcurrent(pool, m, n, order, aTop, b, cTop) },
			func() { GemmConcurrent(pool, m, n, order, aBottom, b, cBottom) },
		)
		return
	}
	if c.BlockCols() > n {
		mid := c.BlockCols() / 2
		bLeft, bRight := b.SplitCols(mid)
		cLeft, cRight := c.SplitCols(mid)
		pool.Join(
			func() { GemmConcurrent(pool, m, n, order, a, bLeft, cLeft) },
			func() { GemmConcurrent(pool, m, n, order, a, bRight, cRight) },
		)
		return
	}
	Gemm(order, a, b, c)
}

// DefaultM and DefaultN are the spec.md §4.E.iii recursion-base sizes.
const (
	DefaultM = 1
	DefaultN = 16
)
