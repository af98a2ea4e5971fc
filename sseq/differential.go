package sseq

import (
	"sync"

	"github.com/SpectralSequences/sseq-sub002/fp"
	"github.com/SpectralSequences/sseq-sub002/fp/matrix"
)

// Differential represents d_r restricted to one bidegree: a partial
// linear map from a sourceDim-dimensional space to a targetDim-
// dimensional one, built up one (source, target) assignment at a
// time as more of the map becomes known. Internally it is a
// row-reduced matrix of [source | target] rows, which makes both
// "is this source generator already determined" and "what does it map
// to" a pivot lookup rather than a search.
type Differential struct {
	mu           sync.Mutex
	p            fp.Prime
	sourceDim    int
	targetDim    int
	m            *matrix.Matrix
	inconsistent bool
}

// NewDifferential returns the zero differential sourceDim -> targetDim.
func NewDifferential(p fp.Prime, sourceDim, targetDim int) *Differential {
	return &Differential{p: p, sourceDim: sourceDim, targetDim: targetDim, m: matrix.New(p, 0, sourceDim+targetDim)}
}

func (d *Differential) cols() int { return d.sourceDim + d.targetDim }

// reduceInPlace subtracts off the current rows' pivot columns from v,
// the same projection Subspace.Reduce performs, but against the
// combined [source|target] row space rather than a single block.
func (d *Differential) reduceInPlace(v *fp.Vector) {
	if d.m.Pivots() == nil {
		d.m.RowReduce()
	}
	pivots := d.m.Pivots()
	for j := 0; j < d.cols(); j++ {
		i := pivots[j]
		if i < 0 {
			continue
		}
		coeff := v.Entry(j)
		if coeff == 0 {
			continue
		}
		neg := uint8((uint64(d.p) - uint64(coeff)) % uint64(d.p))
		v.AsSliceMut().Add(d.m.Row(i).AsSlice(), neg)
	}
}

func (d *Differential) appendRow(row *fp.Vector) {
	rows := append(append([]*fp.Vector(nil), d.m.Rows()...), row)
	d.m = matrix.FromRows(d.p, rows, d.cols())
	d.m.RowReduce()
}

// Add records that d_r(source) = target (target == nil means the zero
// vector, used both for "this class is permanent" and for "this
// source lies in the kernel of an earlier page's differential").
// Returns whether this taught the differential anything new. If the
// new assignment contradicts an existing one, the differential is
// marked inconsistent rather than panicking: callers higher up (the
// sseq-level consistency query) surface that to whoever is driving
// the computation.
func (d *Differential) Add(source fp.Slice, target *fp.Vector) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	row := fp.New(d.p, d.cols())
	row.SliceMut(0, d.sourceDim).Assign(source)
	if target != nil {
		row.SliceMut(d.sourceDim, d.cols()).Assign(target.AsSlice())
	}
	d.reduceInPlace(row)
	if row.IsZero() {
		return false
	}
	sourcePart := row.Slice(0, d.sourceDim)
	if sourcePart.IsZero() {
		// The source components cancelled entirely against existing rows,
		// but a nonzero target residue remains: two contradictory images
		// were assigned to the same source combination.
		d.inconsistent = true
		return false
	}
	d.appendRow(row)
	return true
}

// Evaluate computes d_r(source) into out, assuming source already
// lies fully in the span of known source assignments (callers must
// ensure this — e.g. by only evaluating on page_data generators,
// which update_bidegree always does after the relevant Add calls).
func (d *Differential) Evaluate(source fp.Slice, out fp.SliceMut) {
	d.mu.Lock()
	defer d.mu.Unlock()

	full := fp.New(d.p, d.cols())
	full.SliceMut(0, d.sourceDim).Assign(source)
	d.reduceInPlace(full)
	out.SetToZero()
	// full's source part reduced to zero (source was fully determined),
	// leaving -d_r(source) in the target part: negate it back out.
	out.Add(full.Slice(d.sourceDim, d.cols()), uint8(d.p-1))
}

// ReduceTarget quotients every row's target component by zeros (the
// subspace of the target bidegree's page data that is now known to be
// zero on this page), keeping the differential consistent with later
// updates to the target's page data. Grounded on sseq.rs
// update_bidegree's inline `d.reduce_target(page_data[...].zeros())`
// step, promoted to a named method per SPEC_FULL.md's supplement.
func (d *Differential) ReduceTarget(zeros *matrix.Subspace) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows := d.m.Rows()
	newRows := make([]*fp.Vector, 0, len(rows))
	for _, row := range rows {
		target := row.Slice(d.sourceDim, d.cols()).ToOwned()
		zeros.Reduce(target)
		newRow := row.Clone()
		newRow.SliceMut(d.sourceDim, d.cols()).Assign(target.AsSlice())
		newRows = append(newRows, newRow)
	}
	d.m = matrix.FromRows(d.p, newRows, d.cols())
	d.m.RowReduce()
}

// Inconsistent reports whether any two Add calls assigned
// contradictory images to the same source combination.
func (d *Differential) Inconsistent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inconsistent
}
