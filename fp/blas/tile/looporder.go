package tile

import "github.com/SpectralSequences/sseq-sub002/fp/blas/block"

// LoopOrder selects which of the three indices — R (row-blocks of A/C),
// I (inner blocks: col-blocks of A = row-blocks of B), Col (col-blocks
// of B/C) — is outermost/middle/innermost when iterating a tile
// multiply. All six orders are legal and produce identical results;
// they differ only in cache behavior (spec.md §4.E.ii, property #14).
type LoopOrder int

const (
	RIC LoopOrder = iota // default: benchmarked best on typical shapes
	RCI
	IRC
	ICR
	CRI
	CIR
)

// DefaultLoopOrder is RIC, per spec.md §4.E.ii.
const DefaultLoopOrder = RIC

// Gemm computes c += a*b over the given tile views (a: R x I blocks, b:
// I x Col blocks, c: R x Col blocks) using loop order order. c is
// accumulated in place (beta = true throughout).
func Gemm(order LoopOrder, a, b, c Slice) {
	switch order {
	case RIC:
		gemmRIC(a, b, c)
	case RCI:
		gemmRCI(a, b, c)
	case IRC:
		gemmIRC(a, b, c)
	case ICR:
		gemmICR(a, b, c)
	case CRI:
		gemmCRI(a, b, c)
	case CIR:
		gemmCIR(a, b, c)
	default:
		panic("tile: unknown loop order")
	}
}

func gemmRIC(a, b, c Slice) {
	R, I, C := c.BlockRows(), a.BlockCols(), c.BlockCols()
	for r := 0; r < R; r++ {
		for i := 0; i < I; i++ {
			ar := a.BlockAt(r, i)
			for col := 0; col < C; col++ {
				bc := b.BlockAt(i, col)
				cur := c.BlockAt(r, col)
				c.SetBlockAt(r, col, block.Gemm(true, ar, bc, true, cur))
			}
		}
	}
}

func gemmRCI(a, b, c Slice) {
	R, I, C := c.BlockRows(), a.BlockCols(), c.BlockCols()
	for r := 0; r < R; r++ {
		for col := 0; col < C; col++ {
			for i := 0; i < I; i++ {
				ar := a.BlockAt(r, i)
				bc := b.BlockAt(i, col)
				cur := c.BlockAt(r, col)
				c.SetBlockAt(r, col, block.Gemm(true, ar, bc, true, cur))
			}
		}
	}
}

func gemmIRC(a, b, c Slice) {
	R, I, C := c.BlockRows(), a.BlockCols(), c.BlockCols()
	for i := 0; i < I; i++ {
		for r := 0; r < R; r++ {
			ar := a.BlockAt(r, i)
			for col := 0; col < C; col++ {
				bc := b.BlockAt(i, col)
				cur := c.BlockAt(r, col)
				c.SetBlockAt(r, col, block.Gemm(true, ar, bc, true, cur))
			}
		}
	}
}

func gemmICR(a, b, c Slice) {
	R, I, C := c.BlockRows(), a.BlockCols(), c.BlockCols()
	for i := 0; i < I; i++ {
		for col := 0; col < C; col++ {
			bc := b.BlockAt(i, col)
			for r := 0; r < R; r++ {
				ar := a.BlockAt(r, i)
				cur := c.BlockAt(r, col)
				c.SetBlockAt(r, col, block.Gemm(true, ar, bc, true, cur))
			}
		}
	}
}

func gemmCRI(a, b, c Slice) {
	R, I, C := c.BlockRows(), a.BlockCols(), c.BlockCols()
	for col := 0; col < C; col++ {
		for r := 0; r < R; r++ {
			for i := 0; i < I; i++ {
				ar := a.BlockAt(r, i)
				bc := b.BlockAt(i, col)
				cur := c.BlockAt(r, col)
				c.SetBlockAt(r, col, block.Gemm(true, ar, bc, true, cur))
			}
		}
	}
}

func gemmCIR(a, b, c Slice) {
	R, I, C := c.BlockRows(), a.BlockCols(), c.BlockCols()
	for col := 0; col < C; col++ {
		for i := 0; i < I; i++ {
			bc := b.BlockAt(i, col)
			for r := 0; r < R; r++ {
				ar := a.BlockAt(r, i)
				cur := c.BlockAt(r, col)
				c.SetBlockAt(r, col, block.Gemm(true, ar, bc, true, cur))
			}
		}
	}
}
