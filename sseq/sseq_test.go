package sseq

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SpectralSequences/sseq-sub002/fp"
	"github.com/SpectralSequences/sseq-sub002/fp/matrix"
)

func matrixIdentity(p fp.Prime, n int) *matrix.Matrix {
	m := matrix.New(p, n, n)
	m.AddIdentity(n, 0, 0)
	return m
}

func TestAdamsProfileStepAndInverse(t *testing.T) {
	profile := AdamsProfile()
	require.Equal(t, 2, profile.MinR)

	tx, ty := profile.Step(3, 5, 7)
	require.Equal(t, 4, tx)
	require.Equal(t, 10, ty)

	sx, sy := profile.StepInverse(3, tx, ty)
	require.Equal(t, 5, sx)
	require.Equal(t, 7, sy)

	require.Equal(t, 10, profile.DifferentialLength(-1, 10))
}

// TestSseqBasicDifferentialAndUpdate walks a single d_2 differential
// through AddDifferential and UpdateBidegree: a 1-dimensional source
// class at (2, 0) mapping onto the single generator of (1, 2), which
// should leave page 3 at (2, 0) with dimension 0 and record a new
// permanent class at (1, 2).
func TestSseqBasicDifferentialAndUpdate(t *testing.T) {
	p := fp.Prime(2)
	s := NewAdams(p)

	s.SetDimension(2, 0, 1)
	s.SetDimension(1, 2, 1)

	source := fp.FromEntries(p, []uint8{1})
	target := fp.FromEntries(p, []uint8{1})

	require.True(t, s.AddDifferential(2, 2, 0, source.AsSlice(), target))
	require.True(t, s.Invalid(2, 0))
	require.True(t, s.Invalid(1, 2))

	s.UpdateBidegree(2, 0)
	s.UpdateBidegree(1, 2)

	pd, ok := s.PageData(2, 0, 3)
	require.True(t, ok)
	require.Equal(t, 0, pd.Dimension())

	perm, ok := s.PermanentClasses(1, 2)
	require.True(t, ok)
	require.Equal(t, 1, perm.Dimension())

	require.False(t, s.Inconsistent())
}

func TestSseqUpdateConvergesAllInvalidBidegrees(t *testing.T) {
	p := fp.Prime(2)
	s := NewAdams(p)

	s.SetDimension(2, 0, 1)
	s.SetDimension(1, 2, 1)

	source := fp.FromEntries(p, []uint8{1})
	target := fp.FromEntries(p, []uint8{1})
	s.AddDifferential(2, 2, 0, source.AsSlice(), target)

	s.Update()
	require.True(t, s.Complete())
}

// TestSseqAddPermanentClassPropagatesIntoDifferentials checks that a
// permanent class discovered after a differential already exists gets
// folded into that differential as mapping to zero.
func TestSseqAddPermanentClassPropagatesIntoDifferentials(t *testing.T) {
	p := fp.Prime(2)
	s := NewAdams(p)
	s.SetDimension(2, 0, 2)
	s.SetDimension(1, 2, 1)

	e0 := fp.FromEntries(p, []uint8{1, 0})
	target := fp.FromEntries(p, []uint8{1})
	require.True(t, s.AddDifferential(2, 2, 0, e0.AsSlice(), target))

	e1 := fp.FromEntries(p, []uint8{0, 1})
	require.True(t, s.AddPermanentClass(2, 0, e1.AsSlice()))

	d, ok := s.Differentials(2, 0, 2)
	require.True(t, ok)
	out := fp.New(p, 1)
	d.Evaluate(e1.AsSlice(), out.AsSliceMut())
	require.True(t, out.IsZero())
}

func TestSseqInconsistentAcrossAddDifferential(t *testing.T) {
	p := fp.Prime(2)
	s := NewAdams(p)
	s.SetDimension(2, 0, 1)
	s.SetDimension(1, 2, 1)

	e0 := fp.FromEntries(p, []uint8{1})
	t1 := fp.FromEntries(p, []uint8{1})
	require.True(t, s.AddDifferential(2, 2, 0, e0.AsSlice(), t1))

	zero := fp.New(p, 1)
	require.False(t, s.AddDifferential(2, 2, 0, e0.AsSlice(), zero))
	require.True(t, s.Inconsistent())
}

// TestSseqLeibnizPropagatesPermanentClass multiplies a permanent class
// by an identity-acting product and checks the image is recorded as
// permanent too.
func TestSseqLeibnizPropagatesPermanentClass(t *testing.T) {
	p := fp.Prime(2)
	s := NewAdams(p)

	s.SetDimension(3, 1, 1)
	s.SetDimension(4, 1, 1) // (x, y) + (DX, DY) = (3+1, 1+0)

	class := fp.FromEntries(p, []uint8{1})
	require.True(t, s.AddPermanentClass(3, 1, class.AsSlice()))

	identity := matrixIdentity(p, 1)
	product := &Product{
		X:        1,
		Y:        0,
		Left:     true,
		Matrices: map[[2]int]*matrix.Matrix{{3, 1}: identity},
	}

	r, x, y, newClass, ok := s.Leibniz(Infinity, 3, 1, class.AsSlice(), product, nil)
	require.True(t, ok)
	require.Equal(t, Infinity, r)
	require.Equal(t, 4, x)
	require.Equal(t, 1, y)
	require.False(t, newClass.IsZero())

	perm, ok := s.PermanentClasses(4, 1)
	require.True(t, ok)
	require.Equal(t, 1, perm.Dimension())
}
