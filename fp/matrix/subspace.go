package matrix

import "github.com/SpectralSequences/sseq-sub002/fp"

// Subspace wraps a matrix kept in RREF whose rows form a basis.
// Dimension is the number of rows with a pivot; column count is the
// ambient dimension.
type Subspace struct {
	ambient int
	p       fp.Prime
	basis   *Matrix
}

// NewEmptySubspace returns the zero subspace of the given ambient space.
func NewEmptySubspace(p fp.Prime, ambient int) *Subspace {
	s := &Subspace{ambient: ambient, p: p, basis: New(p, 0, ambient)}
	s.basis.RowReduce()
	return s
}

func newSubspaceFromRows(p fp.Prime, ambient int, rows []*fp.Vector) *Subspace {
	m := FromRows(p, rows, ambient)
	m.RowReduce()
	return &Subspace{ambient: ambient, p: p, basis: m}
}

// Ambient returns the ambient dimension.
func (s *Subspace) Ambient() int { return s.ambient }

// Dimension returns the number of basis rows with a pivot.
func (s *Subspace) Dimension() int {
	if s.basis.pivots == nil {
		s.basis.RowReduce()
	}
	return s.basis.Rank()
}

// Basis returns the underlying RREF matrix; callers must not mutate it.
func (s *Subspace) Basis() *Matrix { return s.basis }

// SetToEntire fills the subspace with the ambient identity matrix.
func (s *Subspace) SetToEntire() {
	s.basis = New(s.p, s.ambient, s.ambient)
	s.basis.AddIdentity(s.ambient, 0, 0)
	s.basis.RowReduce()
}

// AddVector appends v as a new row and re-row-reduces; idempotent if v
// is already in the span.
func (s *Subspace) AddVector(v fp.Slice) {
	row := v.ToOwned()
	rows := append(append([]*fp.Vector(nil), s.basis.rows...), row)
	s.basis = FromRows(s.p, rows, s.ambient)
	s.basis.RowReduce()
	s.dropZeroRows()
}

func (s *Subspace) dropZeroRows() {
	var kept []*fp.Vector
	for _, r := range s.basis.rows {
		if !r.IsZero() {
			kept = append(kept, r)
		}
	}
	s.basis = FromRows(s.p, kept, s.ambient)
	s.basis.RowReduce()
}

// Reduce subtracts off the pivot rows so the result has zero in every
// pivot column; v is in the subspace iff the reduced result is zero.
func (s *Subspace) Reduce(v *fp.Vector) {
	if s.basis.pivots == nil {
		s.basis.RowReduce()
	}
	for j := 0; j < s.ambient; j++ {
		i := s.basis.pivots[j]
		if i < 0 {
			continue
		}
		coeff := v.Entry(j)
		if coeff == 0 {
			continue
		}
		neg := uint8((uint64(s.p) - uint64(coeff)) % uint64(s.p))
		v.AsSliceMut().Add(s.basis.rows[i].AsSlice(), neg)
	}
}

// Contains reports whether v lies in the subspace.
func (s *Subspace) Contains(v fp.Slice) bool {
	scratch := v.ToOwned()
	s.Reduce(scratch)
	return scratch.IsZero()
}

// Intersection returns the intersection of two subspaces of the same
// ambient space. Supplements spec.md §4.D per SPEC_FULL.md SUPPLEMENTED
// FEATURES, needed when merging permanent-class information from two
// differentials landing in the same bidegree.
//
// Method: stack the two bases into one matrix M (dimA+dimB rows), find
// ker M via the same augmented-RREF machinery §4.C uses for
// ComputeKernel. Each kernel vector (c_A, c_B) satisfies
// c_A·basis(A) + c_B·basis(B) = 0, so v := c_A·basis(A) equals
// -c_B·basis(B), which lies in both A (closed under linear combination)
// and B (closed under negation and linear combination) — hence in the
// intersection. The kernel's image under this map spans exactly A∩B.
func Intersection(a, b *Subspace) *Subspace {
	if a.ambient != b.ambient || a.p != b.p {
		panic("matrix: Intersection requires matching ambient space and prime")
	}
	da, db := a.Dimension(), b.Dimension()
	if da == 0 || db == 0 {
		return NewEmptySubspace(a.p, a.ambient)
	}
	stacked := make([]*fp.Vector, 0, da+db)
	stacked = append(stacked, a.basis.rows[:da]...)
	stacked = append(stacked, b.basis.rows[:db]...)
	m := FromRows(a.p, stacked, a.ambient)
	paddedCols, aug := Augmented(m)
	aug.RowReduce()
	kernel := aug.ComputeKernel(paddedCols)

	var intersectionRows []*fp.Vector
	for i := 0; i < kernel.Dimension(); i++ {
		coeffs := kernel.basis.rows[i]
		v := fp.New(a.p, a.ambient)
		for k := 0; k < da; k++ {
			c := coeffs.Entry(k)
			if c != 0 {
				v.AsSliceMut().Add(a.basis.rows[k].AsSlice(), c)
			}
		}
		intersectionRows = append(intersectionRows, v)
	}
	return newSubspaceFromRows(a.p, a.ambient, intersectionRows)
}
