package matrix

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/SpectralSequences/sseq-sub002/fp"
)

// Matrix owns a prime p, a column count, a row-major sequence of
// FpVector rows (each of that column count), and an optional pivots
// array populated by RowReduce.
//
// Open question noted in the source this is ported from: row-slicing a
// Matrix (a view over a contiguous range of rows) and "dereferencing" a
// Matrix to its row slice were flagged as possibly inconsistent in
// row-count bookkeeping. This port has no Deref analogue and no
// row-range view type at all — NumRows on Matrix is the only row count —
// so the discrepancy cannot arise here.
type Matrix struct {
	p      fp.Prime
	cols   int
	rows   []*fp.Vector
	pivots []int // nil until RowReduce; else len == cols, value = row index or -1
}

// New returns a zero matrix with the given row and column counts.
func New(p fp.Prime, rows, cols int) *Matrix {
	m := &Matrix{p: p, cols: cols, rows: make([]*fp.Vector, rows)}
	for i := range m.rows {
		m.rows[i] = fp.New(p, cols)
	}
	return m
}

// FromRows validates and wraps an existing slice of rows, all of which
// must share p and cols.
func FromRows(p fp.Prime, rows []*fp.Vector, cols int) *Matrix {
	for i, r := range rows {
		if r.Prime() != p {
			panic(fmt.Sprintf("matrix: row %d has prime %d, want %d", i, r.Prime(), p))
		}
		if r.Len() != cols {
			panic(fmt.Sprintf("matrix: row %d has length %d, want %d columns", i, r.Len(), cols))
		}
	}
	return &Matrix{p: p, cols: cols, rows: append([]*fp.Vector(nil), rows...)}
}

// FromVec builds a Matrix from a dense entry grid; every row must have
// the same length.
func FromVec(p fp.Prime, entries [][]uint8) *Matrix {
	if len(entries) == 0 {
		return New(p, 0, 0)
	}
	cols := len(entries[0])
	rows := lo.Map(entries, func(row []uint8, _ int) *fp.Vector {
		if len(row) != cols {
			panic("matrix: FromVec: ragged rows")
		}
		return fp.FromEntries(p, row)
	})
	return FromRows(p, rows, cols)
}

// AugmentedFromVec returns the padded source-column count and a matrix
// [A | 0 | I] where the right block is the identity of side len(A), and
// the middle zero block pads cols(A) up to a multiple of
// entries-per-limb for p — preparing the matrix for kernel/quasi-inverse
// extraction via RowReduce.
func AugmentedFromVec(p fp.Prime, entries [][]uint8) (paddedCols int, augmented *Matrix) {
	a := FromVec(p, entries)
	return Augmented(a)
}

// Augmented returns the padded source-column count and [A | 0 | I] for
// an already-built matrix A.
func Augmented(a *Matrix) (paddedCols int, augmented *Matrix) {
	epl := entriesPerLimbFor(a.p)
	padded := roundUp(a.cols, epl)
	side := a.NumRows()
	total := padded + side
	m := New(a.p, side, total)
	for i := 0; i < side; i++ {
		row := m.rows[i]
		src := a.rows[i]
		for j := 0; j < a.cols; j++ {
			row.SetEntry(j, src.Entry(j))
		}
		row.SetEntry(padded+i, 1)
	}
	return padded, m
}

func entriesPerLimbFor(p fp.Prime) int {
	// Mirrors fp's unexported entriesPerLimb via bit_length, since that
	// constant is part of the packed layout contract callers need to
	// align augmentation padding to.
	switch p {
	case 2:
		return 64
	case 3, 5:
		return 21
	case 7:
		return 16
	default:
		panic(fmt.Sprintf("matrix: invalid prime %d", p))
	}
}

func roundUp(n, mult int) int {
	if mult <= 0 {
		return n
	}
	return ((n + mult - 1) / mult) * mult
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.rows) }

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int { return m.cols }

// Prime returns the field characteristic.
func (m *Matrix) Prime() fp.Prime { return m.p }

// Row returns the i-th row.
func (m *Matrix) Row(i int) *fp.Vector { return m.rows[i] }

// Rows returns the backing row slice directly (not a copy); callers
// that need to append/rebuild (as Subspace.AddVector and sseq's
// Differential do) read this and construct a fresh Matrix via
// FromRows rather than mutating it in place.
func (m *Matrix) Rows() []*fp.Vector { return m.rows }

// SetRow replaces the i-th row, invalidating any cached pivots.
func (m *Matrix) SetRow(i int, row *fp.Vector) {
	if row.Prime() != m.p || row.Len() != m.cols {
		panic("matrix: SetRow: row shape mismatch")
	}
	m.rows[i] = row
	m.pivots = nil
}

// Pivots returns the pivot array populated by the last RowReduce call,
// or nil if RowReduce has not been called since the matrix was last
// mutated directly.
func (m *Matrix) Pivots() []int { return m.pivots }

// AddIdentity adds the size×size identity matrix into the block of
// columns [colOffset, colOffset+size), row rowOffset+i getting a 1 added
// at column colOffset+i.
func (m *Matrix) AddIdentity(size, rowOffset, colOffset int) {
	for i := 0; i < size; i++ {
		m.rows[rowOffset+i].AddBasisElement(colOffset+i, 1)
	}
}

// Clone returns a deep copy, including pivots.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{p: m.p, cols: m.cols, rows: make([]*fp.Vector, len(m.rows))}
	for i, r := range m.rows {
		out.rows[i] = r.Clone()
	}
	if m.pivots != nil {
		out.pivots = append([]int(nil), m.pivots...)
	}
	return out
}

// RowReduce puts the matrix into reduced row echelon form in place,
// using column order 0..cols-1, and populates Pivots.
func (m *Matrix) RowReduce() {
	order := make([]int, m.cols)
	for i := range order {
		order[i] = i
	}
	m.RowReducePermutation(order)
}

// RowReducePermutation row-reduces with the pivot search iterating
// columns in the caller-supplied order, producing a possibly
// non-standard echelon form. Implements spec §4.C.i:
//
//  1. pivot ← 0.
//  2. For each pivot column j in order: search rows [pivot, rows) for a
//     nonzero entry in column j; if none, continue. Swap that row up to
//     row pivot. Scale row pivot by the inverse of self[pivot, j]. For
//     every other row i with self[i, j] != 0, row[i] += (p -
//     self[i,j])*row[pivot]. Record pivots[j] = pivot. pivot += 1.
func (m *Matrix) RowReducePermutation(order []int) {
	pivots := make([]int, m.cols)
	for i := range pivots {
		pivots[i] = -1
	}
	pivot := 0
	nrows := len(m.rows)
	for _, j := range order {
		if pivot >= nrows {
			break
		}
		found := -1
		for i := pivot; i < nrows; i++ {
			if m.rows[i].Entry(j) != 0 {
				found = i
				break
			}
		}
		if found < 0 {
			continue
		}
		if found != pivot {
			m.rows[pivot], m.rows[found] = m.rows[found], m.rows[pivot]
		}
		pivotRow := m.rows[pivot]
		lead := pivotRow.Entry(j)
		if lead != 1 {
			inv := inverseMod(m.p, lead)
			pivotRow.AsSliceMut().Scale(inv)
		}
		for i := 0; i < nrows; i++ {
			if i == pivot {
				continue
			}
			row := m.rows[i]
			v := row.Entry(j)
			if v == 0 {
				continue
			}
			coeff := uint8((uint64(m.p) - uint64(v)) % uint64(m.p))
			row.AsSliceMut().Add(pivotRow.AsSlice(), coeff)
		}
		pivots[j] = pivot
		pivot++
	}
	m.pivots = pivots
}

func inverseMod(p fp.Prime, a uint8) uint8 {
	pp := int(p)
	a = a % uint8(pp)
	for v := 1; v < pp; v++ {
		if (int(a)*v)%pp == 1 {
			return uint8(v)
		}
	}
	panic("matrix: no inverse found, p is not prime?")
}

// Rank returns the number of pivots found by the last RowReduce.
func (m *Matrix) Rank() int {
	if m.pivots == nil {
		panic("matrix: Rank called before RowReduce")
	}
	n := 0
	for _, v := range m.pivots {
		if v >= 0 {
			n++
		}
	}
	return n
}

// ComputeKernel extracts ker A from an already-RowReduce'd augmented
// matrix [A | 0 | I] (see Augmented): rows whose leading pivot lies at
// or beyond firstSourceCol form a basis for ker A, projected onto the
// I-block.
func (m *Matrix) ComputeKernel(firstSourceCol int) *Subspace {
	if m.pivots == nil {
		panic("matrix: ComputeKernel requires a prior RowReduce")
	}
	kernelRows := make([]*fp.Vector, 0)
	for j := firstSourceCol; j < m.cols; j++ {
		i := m.pivots[j]
		if i < 0 {
			continue
		}
		row := fp.New(m.p, m.cols-firstSourceCol)
		src := m.rows[i]
		for k := firstSourceCol; k < m.cols; k++ {
			row.SetEntry(k-firstSourceCol, src.Entry(k))
		}
		kernelRows = append(kernelRows, row)
	}
	return newSubspaceFromRows(m.p, m.cols-firstSourceCol, kernelRows)
}

// ComputeQuasiInverse extracts, from an already-RowReduce'd augmented
// matrix [A | 0 | I] (target columns [0,lastTargetCol), source/identity
// columns [firstSourceCol, cols)), the image of A (spanned by the
// pivot columns < lastTargetCol) and a preimage matrix Q such that
// A * Q restricted to the image is the identity.
func (m *Matrix) ComputeQuasiInverse(lastTargetCol, firstSourceCol int) (image *Subspace, preimage *Matrix) {
	if m.pivots == nil {
		panic("matrix: ComputeQuasiInverse requires a prior RowReduce")
	}
	var imageRows []*fp.Vector
	var preimageRows []*fp.Vector
	sourceCols := m.cols - firstSourceCol
	for j := 0; j < lastTargetCol; j++ {
		i := m.pivots[j]
		if i < 0 {
			continue
		}
		src := m.rows[i]
		imgRow := fp.New(m.p, lastTargetCol)
		for k := 0; k < lastTargetCol; k++ {
			imgRow.SetEntry(k, src.Entry(k))
		}
		imageRows = append(imageRows, imgRow)

		preRow := fp.New(m.p, sourceCols)
		for k := 0; k < sourceCols; k++ {
			preRow.SetEntry(k, src.Entry(firstSourceCol+k))
		}
		preimageRows = append(preimageRows, preRow)
	}
	image = newSubspaceFromRows(m.p, lastTargetCol, imageRows)
	preimage = FromRows(m.p, preimageRows, sourceCols)
	return image, preimage
}

// ComputeQuasiInverses computes quasi-inverses for two disjoint target
// blocks [0,firstCut) and [firstCut,secondCut) in one RREF pass,
// supplementing spec.md's single-block ComputeQuasiInverse with the
// dual-block form (see SPEC_FULL.md SUPPLEMENTED FEATURES). sseq's
// UpdateBidegree does not call it.
func (m *Matrix) ComputeQuasiInverses(firstCut, secondCut, firstSourceCol int) (imageA, imageB *Subspace, preimageA, preimageB *Matrix) {
	imageA, preimageA = m.ComputeQuasiInverse(firstCut, firstSourceCol)
	imageB, preimageB = m.quasiInverseBlock(firstCut, secondCut, firstSourceCol)
	return
}

func (m *Matrix) quasiInverseBlock(lo, hi, firstSourceCol int) (*Subspace, *Matrix) {
	var imageRows []*fp.Vector
	var preimageRows []*fp.Vector
	sourceCols := m.cols - firstSourceCol
	width := hi - lo
	for j := lo; j < hi; j++ {
		i := m.pivots[j]
		if i < 0 {
			continue
		}
		src := m.rows[i]
		imgRow := fp.New(m.p, width)
		for k := 0; k < width; k++ {
			imgRow.SetEntry(k, src.Entry(lo+k))
		}
		imageRows = append(imageRows, imgRow)

		preRow := fp.New(m.p, sourceCols)
		for k := 0; k < sourceCols; k++ {
			preRow.SetEntry(k, src.Entry(firstSourceCol+k))
		}
		preimageRows = append(preimageRows, preRow)
	}
	image := newSubspaceFromRows(m.p, width, imageRows)
	preimage := FromRows(m.p, preimageRows, sourceCols)
	return image, preimage
}

// Apply computes result += coeff * input * self, treating the matrix as
// acting on the right: result[j] += coeff * sum_i input[i] * self[i][j].
func (m *Matrix) Apply(result *fp.Vector, coeff uint8, input fp.Slice) {
	if input.Len() != len(m.rows) {
		panic("matrix: Apply: input length must equal row count")
	}
	for i := 0; i < input.Len(); i++ {
		c := input.Entry(i)
		if c == 0 {
			continue
		}
		scale := uint8((uint64(c) * uint64(coeff)) % uint64(m.p))
		if scale == 0 {
			continue
		}
		result.AsSliceMut().Add(m.rows[i].AsSlice(), scale)
	}
}
