package matrix

import "github.com/SpectralSequences/sseq-sub002/fp"

// Subquotient represents (gens + quotient) / quotient within an
// ambient space V. Invariant: rows of gens are pre-reduced modulo
// quotient, so a nonzero reduced gens row represents a nonzero class.
type Subquotient struct {
	ambient        int
	p              fp.Prime
	gens           *Subspace
	quotient       *Subspace
	dimension      int
	dimensionValid bool
}

// NewSubquotient returns the subquotient of the given ambient space with
// empty gens and quotient.
func NewSubquotient(p fp.Prime, ambient int) *Subquotient {
	return &Subquotient{
		ambient:  ambient,
		p:        p,
		gens:     NewEmptySubspace(p, ambient),
		quotient: NewEmptySubspace(p, ambient),
	}
}

// FromParts reduces every row of sub modulo quotient, then row-reduces,
// producing (sub + quotient) / quotient.
func FromParts(sub, quotient *Subspace) *Subquotient {
	sq := &Subquotient{ambient: sub.ambient, p: sub.p, quotient: quotient}
	var genRows []*fp.Vector
	for i := 0; i < sub.Dimension(); i++ {
		v := sub.basis.rows[i].Clone()
		quotient.Reduce(v)
		if !v.IsZero() {
			genRows = append(genRows, v)
		}
	}
	sq.gens = newSubspaceFromRows(sub.p, sub.ambient, genRows)
	sq.recomputeDimension()
	return sq
}

// Ambient returns the ambient dimension.
func (sq *Subquotient) Ambient() int { return sq.ambient }

// Gens returns the generator subspace (pre-reduced mod quotient).
func (sq *Subquotient) Gens() *Subspace { return sq.gens }

// Quotient returns the quotient subspace.
func (sq *Subquotient) Quotient() *Subspace { return sq.quotient }

// Dimension returns the cached rank of gens after quotient-reduction.
func (sq *Subquotient) Dimension() int {
	if !sq.dimensionValid {
		sq.recomputeDimension()
	}
	return sq.dimension
}

func (sq *Subquotient) recomputeDimension() {
	sq.dimension = sq.gens.Dimension()
	sq.dimensionValid = true
}

// Reduce first reduces v modulo quotient, then for each generator pivot
// column that remains nonzero, records the coefficient and zeros it by
// subtracting the matching generator row. Returns the coefficient
// vector of v in the generator basis; a nonzero residual v means
// v is not in gens+quotient.
func (sq *Subquotient) Reduce(v *fp.Vector) *fp.Vector {
	sq.quotient.Reduce(v)
	coeffs := fp.New(sq.p, sq.gens.Dimension())
	if sq.gens.basis.pivots == nil {
		sq.gens.basis.RowReduce()
	}
	pivotCols := make([]int, 0, sq.gens.Dimension())
	for j := 0; j < sq.ambient; j++ {
		if r := sq.gens.basis.pivots[j]; r >= 0 {
			pivotCols = append(pivotCols, j)
		}
	}
	for idx, j := range pivotCols {
		coeff := v.Entry(j)
		if coeff == 0 {
			continue
		}
		coeffs.SetEntry(idx, coeff)
		i := sq.gens.basis.pivots[j]
		neg := uint8((uint64(sq.p) - uint64(coeff)) % uint64(sq.p))
		v.AsSliceMut().Add(sq.gens.basis.rows[i].AsSlice(), neg)
	}
	return coeffs
}

// Contains reports whether v lies in gens+quotient.
func (sq *Subquotient) Contains(v fp.Slice) bool {
	scratch := v.ToOwned()
	sq.Reduce(scratch)
	return scratch.IsZero()
}

// AddToQuotient appends v to the quotient subspace, re-row-reduces, and
// reduces every existing generator row by the new quotient.
func (sq *Subquotient) AddToQuotient(v fp.Slice) {
	sq.quotient.AddVector(v)
	var kept []*fp.Vector
	for i := 0; i < sq.gens.Dimension(); i++ {
		g := sq.gens.basis.rows[i].Clone()
		sq.quotient.Reduce(g)
		if !g.IsZero() {
			kept = append(kept, g)
		}
	}
	sq.gens = newSubspaceFromRows(sq.p, sq.ambient, kept)
	sq.dimensionValid = false
}

// AddGen reduces v mod quotient, appends it to gens, re-row-reduces the
// generators, and updates the cached dimension.
func (sq *Subquotient) AddGen(v fp.Slice) {
	scratch := v.ToOwned()
	sq.quotient.Reduce(scratch)
	if scratch.IsZero() {
		return
	}
	sq.gens.AddVector(scratch.AsSlice())
	sq.dimensionValid = false
}

// Zeros returns a Subspace equal to quotient, representing the set of
// ambient vectors that reduce to zero in this subquotient — used by
// Differential.ReduceTarget when quotienting existing target
// assignments by the target subquotient's zero set (spec.md §4.I.iii).
func (sq *Subquotient) Zeros() *Subspace { return sq.quotient }

// NewFullSubquotient returns the subquotient representing the entire
// ambient space modulo nothing — the pristine E_r page before any
// differential has touched it (spec.md §4.I.i).
func NewFullSubquotient(p fp.Prime, ambient int) *Subquotient {
	sq := &Subquotient{ambient: ambient, p: p, quotient: NewEmptySubspace(p, ambient)}
	sq.gens = NewEmptySubspace(p, ambient)
	sq.gens.SetToEntire()
	sq.recomputeDimension()
	return sq
}

// ClearGens empties the generator set while leaving quotient
// untouched, used by update_bidegree to rebuild page_data[x][y][r]
// from scratch on each recomputation pass.
func (sq *Subquotient) ClearGens() {
	sq.gens = NewEmptySubspace(sq.p, sq.ambient)
	sq.dimensionValid = false
}

// Clone returns an independent deep copy.
func (sq *Subquotient) Clone() *Subquotient {
	genRows := make([]*fp.Vector, len(sq.gens.basis.rows))
	for i, r := range sq.gens.basis.rows {
		genRows[i] = r.Clone()
	}
	quotientRows := make([]*fp.Vector, len(sq.quotient.basis.rows))
	for i, r := range sq.quotient.basis.rows {
		quotientRows[i] = r.Clone()
	}
	return &Subquotient{
		ambient:        sq.ambient,
		p:              sq.p,
		gens:           newSubspaceFromRows(sq.p, sq.ambient, genRows),
		quotient:       newSubspaceFromRows(sq.p, sq.ambient, quotientRows),
		dimension:      sq.dimension,
		dimensionValid: sq.dimensionValid,
	}
}
