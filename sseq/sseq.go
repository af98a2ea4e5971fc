package sseq

import (
	"fmt"
	"sync"

	"github.com/SpectralSequences/sseq-sub002/fp"
	"github.com/SpectralSequences/sseq-sub002/fp/matrix"
	"github.com/SpectralSequences/sseq-sub002/once"
)

// Infinity stands in for the page number of a permanent class: a class
// that survives every differential forever.
const Infinity = 1<<31 - 1

// Profile describes how a spectral sequence's bidegree indexing
// behaves: where a d_r differential out of (x, y) lands, the inverse
// of that step, and how a page number relates to a bidegree offset.
// Grounded on sseq.rs's SseqProfile trait.
type Profile struct {
	MinR int

	// Step returns the bidegree d_r maps (x, y) into.
	Step func(r, x, y int) (tx, ty int)

	// StepInverse is Step's inverse: given a differential's target
	// bidegree and page, recovers the source bidegree.
	StepInverse func(r, x, y int) (sx, sy int)

	// DifferentialLength returns the page r of the differential whose
	// Step moves a class by (dx, dy).
	DifferentialLength func(dx, dy int) int
}

// AdamsProfile is the Adams spectral sequence indexing: d_r has
// bidegree (-1, r), so MIN_R = 2 and d_r(x, y) = (x-1, y+r).
func AdamsProfile() Profile {
	return Profile{
		MinR: 2,
		Step: func(r, x, y int) (int, int) {
			return x - 1, y + r
		},
		StepInverse: func(r, x, y int) (int, int) {
			return x + 1, y - r
		},
		DifferentialLength: func(_, dy int) int {
			return dy
		},
	}
}

// bidegree holds all the per-(x,y) state a spectral sequence tracks:
// the ambient dimension, the differentials out of this bidegree on
// each page, the permanent classes found so far, and the E_r page
// data for every page computed to date.
type bidegree struct {
	dim              int
	permanentClasses *matrix.Subspace
	differentials    *once.OnceBiVec[*Differential]
	pageData         *once.OnceBiVec[*matrix.Subquotient]
	invalid          bool
}

func newBidegree(p fp.Prime, minR, dim int) *bidegree {
	b := &bidegree{
		dim:              dim,
		permanentClasses: matrix.NewEmptySubspace(p, dim),
		differentials:    once.NewOnceBiVec[*Differential](minR),
		pageData:         once.NewOnceBiVec[*matrix.Subquotient](minR),
	}
	b.pageData.Push(matrix.NewFullSubquotient(p, dim))
	return b
}

// Product describes a module action class by (DX, DY): multiplying a
// class at (x, y) lands at (x+DX, y+DY). Matrices gives the action
// matrix at each source bidegree that is known; a missing or nil
// entry means the action there is either zero or not yet computed.
// Left records which side of the product the acted-upon class sits
// on, which feeds the Leibniz sign convention.
type Product struct {
	X, Y     int
	Left     bool
	Matrices map[[2]int]*matrix.Matrix
}

// PageDifferentials records, for each generator of page r-1 in a
// bidegree, the coefficients (in the target bidegree's page r-1
// generator basis) of the differential drawn out of it — the
// bookkeeping update_bidegree reports back for each page it
// recomputes.
type PageDifferentials [][]uint8

// Sseq is a bigraded spectral sequence: page data, differentials, and
// permanent classes tracked one bidegree at a time, with the
// recomputation driven explicitly by AddDifferential/UpdateBidegree
// rather than happening automatically. Grounded on sseq.rs's Sseq<P>.
type Sseq struct {
	mu      sync.Mutex
	p       fp.Prime
	profile Profile
	table   *once.MultiIndexed[*bidegree]
	defined [][2]int
}

// New returns an empty spectral sequence over F_p following profile.
func New(p fp.Prime, profile Profile) *Sseq {
	return &Sseq{p: p, profile: profile, table: once.NewMultiIndexed[*bidegree](2)}
}

// NewAdams returns an empty Adams spectral sequence over F_p.
func NewAdams(p fp.Prime) *Sseq {
	return New(p, AdamsProfile())
}

func (s *Sseq) get(x, y int) (*bidegree, bool) {
	return s.table.Get([]int{x, y})
}

func (s *Sseq) dimensionOrZero(x, y int) int {
	b, ok := s.get(x, y)
	if !ok {
		return 0
	}
	return b.dim
}

// Defined reports whether (x, y) has had SetDimension called on it.
func (s *Sseq) Defined(x, y int) bool {
	_, ok := s.get(x, y)
	return ok
}

// Dimension returns the ambient dimension at (x, y), or 0 if the
// bidegree hasn't been defined yet.
func (s *Sseq) Dimension(x, y int) int {
	return s.dimensionOrZero(x, y)
}

// SetDimension defines (x, y)'s ambient dimension. Panics if the
// bidegree was already defined.
func (s *Sseq) SetDimension(x, y, dim int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(x, y); ok {
		panic(fmt.Sprintf("sseq: SetDimension: bidegree (%d, %d) already defined", x, y))
	}
	b := newBidegree(s.p, s.profile.MinR, dim)
	s.table.Insert([]int{x, y}, b)
	s.defined = append(s.defined, [2]int{x, y})
}

// extendDifferential ensures b.differentials has an entry for every
// page up to and including r, seeding each newly-created page's
// differential with the permanent classes already known at (x, y)
// (they map to zero on every page, by definition of permanent).
func (s *Sseq) extendDifferential(b *bidegree, x, y, r int) {
	for b.differentials.Len() <= r {
		nextR := b.differentials.Len()
		tx, ty := s.profile.Step(nextR, x, y)
		d := NewDifferential(s.p, b.dim, s.dimensionOrZero(tx, ty))
		perm := b.permanentClasses.Basis().Rows()
		for i := 0; i < b.permanentClasses.Dimension(); i++ {
			d.Add(perm[i].AsSlice(), nil)
		}
		b.differentials.Push(d)
	}
}

// extendPageData ensures b.pageData has an entry for page r, cloning
// the last known page forward (mirroring sseq.rs's
// `page_data.push(page_data.last().unwrap().clone())`).
func (s *Sseq) extendPageData(b *bidegree, r int) {
	for b.pageData.Len() <= r {
		last, _ := b.pageData.Get(b.pageData.Len() - 1)
		b.pageData.Push(last.Clone())
	}
}

func (s *Sseq) extendPageDataAt(x, y, r int) {
	if b, ok := s.get(x, y); ok {
		s.extendPageData(b, r)
	}
}

// addPermanentClass records class as permanent at (x, y), propagating
// it into every differential already known out of (x, y) (a
// permanent class maps to zero on every page). Returns whether this
// was new information. Assumes s.mu is already held.
func (s *Sseq) addPermanentClass(x, y int, class fp.Slice) bool {
	b, ok := s.get(x, y)
	if !ok {
		panic(fmt.Sprintf("sseq: AddPermanentClass: bidegree (%d, %d) not defined", x, y))
	}
	oldDim := b.permanentClasses.Dimension()
	b.permanentClasses.AddVector(class)
	isNew := b.permanentClasses.Dimension() != oldDim
	if isNew {
		owned := class.ToOwned()
		nr := b.differentials.Len()
		for r := s.profile.MinR; r < nr; r++ {
			d, _ := b.differentials.Get(r)
			d.Add(owned.AsSlice(), nil)
		}
		b.invalid = true
	}
	return isNew
}

// AddPermanentClass records class as permanent at (x, y). Returns
// whether this was new information.
func (s *Sseq) AddPermanentClass(x, y int, class fp.Slice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPermanentClass(x, y, class)
}

// addDifferential is AddDifferential without acquiring s.mu, so
// Leibniz (which must hold the lock across Multiply + AddDifferential)
// can call it directly.
func (s *Sseq) addDifferential(r, x, y int, source fp.Slice, target *fp.Vector) bool {
	b, ok := s.get(x, y)
	if !ok {
		panic(fmt.Sprintf("sseq: AddDifferential: source bidegree (%d, %d) not defined", x, y))
	}
	tx, ty := s.profile.Step(r, x, y)

	s.extendDifferential(b, x, y, r)
	s.extendPageDataAt(x, y, r+1)
	s.extendPageDataAt(tx, ty, r+1)

	// source lies in the kernel of every earlier-page differential out
	// of (x, y): record it mapping to zero there too, and make sure the
	// pages it would have landed on are tracked.
	for rp := s.profile.MinR; rp < r; rp++ {
		d, _ := b.differentials.Get(rp)
		d.Add(source, nil)
		ex, ey := s.profile.Step(rp, x, y)
		s.extendPageDataAt(ex, ey, rp+1)
	}

	dr, _ := b.differentials.Get(r)
	isNew := dr.Add(source, target)
	if !isNew {
		return false
	}
	b.invalid = true

	if target == nil || target.IsZero() {
		return true
	}

	tb, ok := s.get(tx, ty)
	if !ok {
		panic(fmt.Sprintf("sseq: AddDifferential: target bidegree (%d, %d) not defined", tx, ty))
	}
	tb.invalid = true
	s.addPermanentClass(tx, ty, target.AsSlice())

	n := tb.pageData.Len()
	for rr := r + 1; rr < n; rr++ {
		pd, _ := tb.pageData.Get(rr)
		pd.AddToQuotient(target.AsSlice())
		px, py := s.profile.StepInverse(rr, tx, ty)
		if pb, ok := s.get(px, py); ok {
			pb.invalid = true
		}
	}
	return true
}

// AddDifferential records d_r(source) = target at (x, y); target may
// be nil, meaning the zero vector (source lies in the kernel of d_r).
// Returns whether this taught the spectral sequence anything new.
func (s *Sseq) AddDifferential(r, x, y int, source fp.Slice, target *fp.Vector) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addDifferential(r, x, y, source, target)
}

// Invalid reports whether (x, y)'s page data is stale and needs an
// UpdateBidegree pass.
func (s *Sseq) Invalid(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.get(x, y)
	return ok && b.invalid
}

// Update runs UpdateBidegree on every bidegree currently marked
// invalid, repeating until a pass leaves nothing invalid (earlier
// recomputations can mark other bidegrees invalid in turn).
func (s *Sseq) Update() {
	for {
		s.mu.Lock()
		var pending [][2]int
		for _, xy := range s.defined {
			if b, ok := s.get(xy[0], xy[1]); ok && b.invalid {
				pending = append(pending, xy)
			}
		}
		s.mu.Unlock()
		if len(pending) == 0 {
			return
		}
		for _, xy := range pending {
			s.UpdateBidegree(xy[0], xy[1])
		}
	}
}

// UpdateBidegree recomputes page_data[x][y] for every page from
// MinR+1 up to the highest page currently tracked, rebuilding each
// page's generators from the previous page's differential. Returns
// the per-page table of drawn differentials (which generator of the
// previous page mapped to which combination of the target's
// generators). Grounded on sseq.rs's update_bidegree.
func (s *Sseq) UpdateBidegree(x, y int) map[int]PageDifferentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.get(x, y)
	if !ok {
		panic(fmt.Sprintf("sseq: UpdateBidegree: bidegree (%d, %d) not defined", x, y))
	}
	b.invalid = false

	nr := b.differentials.Len()
	for r := s.profile.MinR; r < nr; r++ {
		d, _ := b.differentials.Get(r)
		tx, ty := s.profile.Step(r, x, y)
		var zeros *matrix.Subspace
		if tb, ok := s.get(tx, ty); ok {
			tpd, _ := tb.pageData.Get(r)
			zeros = tpd.Zeros()
		} else {
			zeros = matrix.NewEmptySubspace(s.p, s.dimensionOrZero(tx, ty))
		}
		d.ReduceTarget(zeros)
	}

	drawn := make(map[int]PageDifferentials)
	maxPage := b.pageData.Len()
	for r := s.profile.MinR + 1; r < maxPage; r++ {
		curPD, _ := b.pageData.Get(r)
		curPD.ClearGens()

		prevPD, _ := b.pageData.Get(r - 1)
		prevGens := prevPD.Gens().Basis().Rows()
		prevDim := prevPD.Gens().Dimension()

		tx, ty := s.profile.Step(r-1, x, y)
		tb, tbOK := s.get(tx, ty)
		var targetPrevPD *matrix.Subquotient
		if tbOK {
			targetPrevPD, _ = tb.pageData.Get(r - 1)
		}

		hasDifferential := tbOK && (r-1) < nr && targetPrevPD.Dimension() > 0
		if !hasDifferential {
			for i := 0; i < prevDim; i++ {
				curPD.AddGen(prevGens[i].AsSlice())
			}
			if (r - 1) < nr {
				drawn[r-1] = make(PageDifferentials, prevDim)
			}
			continue
		}

		d, _ := b.differentials.Get(r - 1)
		targetDim := tb.dim
		sourceDim := b.dim

		m := matrix.New(s.p, prevDim, targetDim+sourceDim)
		pageDrawn := make(PageDifferentials, 0, prevDim)
		dvec := fp.New(s.p, targetDim)
		for i := 0; i < prevDim; i++ {
			g := prevGens[i]
			row := m.Row(i)
			row.SliceMut(targetDim, targetDim+sourceDim).Assign(g.AsSlice())
			dvec.SetToZero()
			d.Evaluate(g.AsSlice(), dvec.AsSliceMut())
			row.SliceMut(0, targetDim).Assign(dvec.AsSlice())
			coeffs := targetPrevPD.Reduce(dvec)
			pageDrawn = append(pageDrawn, coeffs.Entries())
		}
		drawn[r-1] = pageDrawn

		m.RowReduce()
		firstKernelRow := 0
		for j := 0; j < targetDim; j++ {
			if m.Pivots()[j] >= 0 {
				firstKernelRow++
			}
		}
		for i := firstKernelRow; i < prevDim; i++ {
			row := m.Row(i)
			if row.IsZero() {
				break
			}
			curPD.AddGen(row.Slice(targetDim, targetDim+sourceDim))
		}
	}
	return drawn
}

// Multiply applies product's action matrix to class at (x, y),
// returning the target bidegree and the resulting class. ok is false
// if the target bidegree isn't defined yet.
func (s *Sseq) Multiply(x, y int, class fp.Slice, product *Product) (tx, ty int, result *fp.Vector, ok bool) {
	tx, ty = x+product.X, y+product.Y
	tb, tbOK := s.get(tx, ty)
	if !tbOK {
		return 0, 0, nil, false
	}
	result = fp.New(s.p, tb.dim)
	if m, present := product.Matrices[[2]int{x, y}]; present && m != nil {
		m.Apply(result, 1, class)
	}
	return tx, ty, result, true
}

// leibnizSourceSign returns the sign the Leibniz rule's source-side
// term (d(a) * b) carries: negative exactly when the product acts on
// the left and its own x-coordinate is odd.
func leibnizSourceSign(p fp.Prime, sourceLeft bool, sourceX int) uint8 {
	if sourceLeft && sourceX%2 != 0 {
		return uint8(p - 1)
	}
	return 1
}

// leibnizTargetSign returns the sign the Leibniz rule's target-side
// term (a * d(b)) carries: negative exactly when the source product
// acts on the right and the class's own x-coordinate minus one is odd.
// The "x - 1" rather than "x" is empirical: it matches known
// differentials by trial and error in the original, not a derived
// consequence of a sign convention, and is kept exactly as the
// original computes it rather than "corrected".
func leibnizTargetSign(p fp.Prime, sourceLeft bool, x int) uint8 {
	if !sourceLeft && (x-1)%2 != 0 {
		return uint8(p - 1)
	}
	return 1
}

// Leibniz propagates a differential d_r(class) across a module
// action, computing the differential on class*sourceProduct implied
// by the Leibniz rule d(a*b) = d(a)*b ± a*d(b), where targetProduct
// (if non-nil) supplies the action on the differential's target side.
// If r == Infinity and targetProduct == nil, class is permanent and
// so is class*sourceProduct. Returns the page, bidegree, and class the
// new differential (or permanent class) was recorded at; ok is false
// if any bidegree involved isn't defined yet.
func (s *Sseq) Leibniz(r, x, y int, class fp.Slice, sourceProduct, targetProduct *Product) (newR, newX, newY int, newClass *fp.Vector, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sx, sy, sourceClass, mOK := s.Multiply(x, y, class, sourceProduct)
	if !mOK {
		return 0, 0, 0, nil, false
	}

	if r == Infinity && targetProduct == nil {
		if s.addPermanentClass(sx, sy, sourceClass.AsSlice()) {
			return Infinity, sx, sy, sourceClass, true
		}
		return 0, 0, 0, nil, false
	}

	targetR := Infinity
	if targetProduct != nil {
		dx := x + targetProduct.X - sx
		dy := y + targetProduct.Y - sy
		targetR = s.profile.DifferentialLength(dx, dy)
	}

	resultR := r
	if targetR < resultR {
		resultR = targetR
	}

	resultX, resultY := s.profile.Step(resultR, sx, sy)
	tb, tbOK := s.get(resultX, resultY)
	if !tbOK {
		return 0, 0, 0, nil, false
	}
	result := fp.New(s.p, tb.dim)

	if r == resultR {
		db, dbOK := s.get(x, y)
		if !dbOK {
			return 0, 0, 0, nil, false
		}
		dr, drOK := db.differentials.Get(r)
		if !drOK {
			return 0, 0, 0, nil, false
		}
		dx, dy := s.profile.Step(r, x, y)
		dClass := fp.New(s.p, s.dimensionOrZero(dx, dy))
		dr.Evaluate(class, dClass.AsSliceMut())
		_, _, multiplied, mOK2 := s.Multiply(dx, dy, dClass.AsSlice(), sourceProduct)
		if !mOK2 {
			return 0, 0, 0, nil, false
		}
		result.AsSliceMut().Add(multiplied.AsSlice(), leibnizSourceSign(s.p, sourceProduct.Left, sourceProduct.X))
	}

	if targetProduct != nil && targetR == resultR {
		_, _, multiplied, mOK3 := s.Multiply(x, y, class, targetProduct)
		if !mOK3 {
			return 0, 0, 0, nil, false
		}
		result.AsSliceMut().Add(multiplied.AsSlice(), leibnizTargetSign(s.p, sourceProduct.Left, x))
	}

	if s.addDifferential(resultR, sx, sy, sourceClass.AsSlice(), result) {
		return resultR, sx, sy, sourceClass, true
	}
	return 0, 0, 0, nil, false
}

// Differentials returns the differential out of (x, y) on page r, if
// that page has been extended at (x, y).
func (s *Sseq) Differentials(x, y, r int) (*Differential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.get(x, y)
	if !ok {
		return nil, false
	}
	return b.differentials.Get(r)
}

// DifferentialsHitting returns the differential on page r landing at
// (x, y), i.e. the differential out of the bidegree profile.StepInverse
// places there, if that bidegree and page exist.
func (s *Sseq) DifferentialsHitting(x, y, r int) (*Differential, bool) {
	sx, sy := s.profile.StepInverse(r, x, y)
	return s.Differentials(sx, sy, r)
}

// PageData returns the E_r subquotient at (x, y), if that page has
// been computed.
func (s *Sseq) PageData(x, y, r int) (*matrix.Subquotient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.get(x, y)
	if !ok {
		return nil, false
	}
	return b.pageData.Get(r)
}

// PermanentClasses returns the permanent-class subspace at (x, y).
func (s *Sseq) PermanentClasses(x, y int) (*matrix.Subspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.get(x, y)
	if !ok {
		return nil, false
	}
	return b.permanentClasses, true
}

// Inconsistent reports whether any differential anywhere in the
// spectral sequence has recorded two contradictory images for the
// same source combination.
func (s *Sseq) Inconsistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, xy := range s.defined {
		b, ok := s.get(xy[0], xy[1])
		if !ok {
			continue
		}
		nr := b.differentials.Len()
		for r := s.profile.MinR; r < nr; r++ {
			d, _ := b.differentials.Get(r)
			if d.Inconsistent() {
				return true
			}
		}
	}
	return false
}

// Complete reports whether every defined bidegree's page data is
// up to date (no UpdateBidegree pass is pending).
func (s *Sseq) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, xy := range s.defined {
		if b, ok := s.get(xy[0], xy[1]); ok && b.invalid {
			return false
		}
	}
	return true
}
