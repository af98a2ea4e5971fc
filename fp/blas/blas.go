package blas

import (
	"fmt"

	"github.com/SpectralSequences/sseq-sub002/fp"
	"github.com/SpectralSequences/sseq-sub002/fp/blas/tile"
	"github.com/SpectralSequences/sseq-sub002/fp/matrix"
	"github.com/SpectralSequences/sseq-sub002/internal/parallel"
)

// NaiveMul computes A*B by the textbook triple loop over any supported
// prime: row i of the product is sum_k A[i][k] * (row k of B).
func NaiveMul(a, b *matrix.Matrix) *matrix.Matrix {
	checkMulShapes(a, b)
	out := matrix.New(a.Prime(), a.NumRows(), b.NumCols())
	for i := 0; i < a.NumRows(); i++ {
		row := a.Row(i)
		for k := 0; k < a.NumCols(); k++ {
			aik := row.Entry(k)
			if aik == 0 {
				continue
			}
			out.Row(i).AsSliceMut().Add(b.Row(k).AsSlice(), aik)
		}
	}
	return out
}

func checkMulShapes(a, b *matrix.Matrix) {
	if a.Prime() != b.Prime() {
		panic(fmt.Sprintf("blas: prime mismatch, A is mod %d, B is mod %d", a.Prime(), b.Prime()))
	}
	if a.NumCols() != b.NumRows() {
		panic(fmt.Sprintf("blas: shape mismatch, A is %dx%d, B is %dx%d", a.NumRows(), a.NumCols(), b.NumRows(), b.NumCols()))
	}
}

// canTile reports whether a, b qualify for the F_2 tiled engine: both
// F_2, and both with physical row counts divisible by 64 (spec.md
// §4.E.iv).
func canTile(a, b *matrix.Matrix) bool {
	return a.Prime() == 2 && b.Prime() == 2 && a.NumRows()%64 == 0 && b.NumRows()%64 == 0
}

// FastMulSequential runs the tiled engine with the given loop order, no
// concurrency.
func FastMulSequential(a, b *matrix.Matrix, order tile.LoopOrder) *matrix.Matrix {
	checkMulShapes(a, b)
	if !canTile(a, b) {
		panic("blas: FastMulSequential requires F_2 operands with row counts divisible by 64")
	}
	aStore, bStore, cStore := packOperands(a, b)
	tile.Gemm(order, aStore.Full(), bStore.Full(), cStore.Full())
	return unpack(cStore, a.NumRows(), b.NumCols())
}

// FastMulSequentialDefaultOrder runs FastMulSequential with the default
// loop order (RIC).
func FastMulSequentialDefaultOrder(a, b *matrix.Matrix) *matrix.Matrix {
	return FastMulSequential(a, b, tile.DefaultLoopOrder)
}

// FastMulConcurrent runs the recursive parallel tiled engine (spec.md
// §4.E.iii) with the given block-count thresholds and loop order.
func FastMulConcurrent(a, b *matrix.Matrix, m, n int, order tile.LoopOrder) *matrix.Matrix {
	checkMulShapes(a, b)
	if !canTile(a, b) {
		panic("blas: FastMulConcurrent requires F_2 operands with row counts divisible by 64")
	}
	aStore, bStore, cStore := packOperands(a, b)
	tile.GemmConcurrent(parallel.Default(), m, n, order, aStore.Full(), bStore.Full(), cStore.Full())
	return unpack(cStore, a.NumRows(), b.NumCols())
}

// FastMulConcurrentDefault runs FastMulConcurrent with spec.md's default
// m=1, n=16, loop order RIC.
func FastMulConcurrentDefault(a, b *matrix.Matrix) *matrix.Matrix {
	return FastMulConcurrent(a, b, tile.DefaultM, tile.DefaultN, tile.DefaultLoopOrder)
}

// Mul is the spec.md §4.E.iv entry point: dispatches to the concurrent
// tiled engine when eligible, otherwise falls back to NaiveMul.
func Mul(a, b *matrix.Matrix) *matrix.Matrix {
	checkMulShapes(a, b)
	if canTile(a, b) {
		return FastMulConcurrentDefault(a, b)
	}
	return NaiveMul(a, b)
}

func packOperands(a, b *matrix.Matrix) (aStore, bStore, cStore *tile.Storage) {
	aStore = packToStorage(a)
	bStore = packToStorage(b)
	cStore = tile.NewStorage(a.NumRows()/64, bStore.BlockCols)
	return
}

func packToStorage(m *matrix.Matrix) *tile.Storage {
	if m.Prime() != 2 {
		panic("blas: packToStorage requires F_2")
	}
	if m.NumRows()%64 != 0 {
		panic("blas: packToStorage requires a row count divisible by 64")
	}
	blockRows := m.NumRows() / 64
	blockCols := fp.NumLimbs(2, m.NumCols())
	st := tile.NewStorage(blockRows, blockCols)
	for i := 0; i < m.NumRows(); i++ {
		limbs := m.Row(i).Limbs()
		for bc := 0; bc < blockCols; bc++ {
			var v uint64
			if bc < len(limbs) {
				v = limbs[bc]
			}
			st.Limbs[i*blockCols+bc] = v
		}
	}
	return st
}

func unpack(st *tile.Storage, rows, cols int) *matrix.Matrix {
	out := matrix.New(2, rows, cols)
	blockCols := st.BlockCols
	for i := 0; i < rows; i++ {
		limbs := make([]uint64, blockCols)
		copy(limbs, st.Limbs[i*blockCols:(i+1)*blockCols])
		out.SetRow(i, fp.FromLimbs(2, cols, limbs))
	}
	return out
}
