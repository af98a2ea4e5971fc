package fp

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func randEntries(rng *rand.Rand, p Prime, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(rng.IntN(int(p)))
	}
	return out
}

func addEntriesRef(p Prime, u, v []uint8, c uint8) []uint8 {
	out := make([]uint8, len(u))
	for i := range out {
		out[i] = uint8((int(u[i]) + int(c)*int(v[i])) % int(p))
	}
	return out
}

func TestAddCommutativeAssociativeZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, p := range ValidPrimes() {
		for n := 0; n < 20; n++ {
			ue := randEntries(rng, p, n)
			ve := randEntries(rng, p, n)
			u := FromEntries(p, ue)
			v := FromEntries(p, ve)

			uv := u.Clone()
			uv.AsSliceMut().Add(v.AsSlice(), 1)

			vu := v.Clone()
			vu.AsSliceMut().Add(u.AsSlice(), 1)

			require.Equal(t, uv.Entries(), vu.Entries(), "add must be commutative p=%d", p)

			zero := New(p, n)
			uz := u.Clone()
			uz.AsSliceMut().Add(zero.AsSlice(), 1)
			require.Equal(t, u.Entries(), uz.Entries(), "zero must be identity p=%d", p)
		}
	}
}

func TestScaleDistributesAndIdentities(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, p := range ValidPrimes() {
		for n := 1; n < 12; n++ {
			ue := randEntries(rng, p, n)
			ve := randEntries(rng, p, n)
			c := uint8(rng.IntN(int(p)))

			u := FromEntries(p, ue)
			v := FromEntries(p, ve)

			sum := u.Clone()
			sum.AsSliceMut().Add(v.AsSlice(), 1)
			sum.AsSliceMut().Scale(c)

			su := u.Clone()
			su.AsSliceMut().Scale(c)
			sv := v.Clone()
			sv.AsSliceMut().Scale(c)
			su.AsSliceMut().Add(sv.AsSlice(), 1)

			require.Equal(t, sum.Entries(), su.Entries(), "scale must distribute over add, p=%d", p)

			zeroScaled := u.Clone()
			zeroScaled.AsSliceMut().Scale(0)
			require.True(t, zeroScaled.IsZero())

			oneScaled := u.Clone()
			oneScaled.AsSliceMut().Scale(1)
			require.Equal(t, u.Entries(), oneScaled.Entries())
		}
	}
}

func TestSliceToOwned(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for _, p := range ValidPrimes() {
		entries := randEntries(rng, p, 17)
		u := FromEntries(p, entries)
		a, b := 3, 11
		got := u.Slice(a, b).ToOwned().Entries()
		require.Equal(t, entries[a:b], got)
	}
}

func TestRoundTripBytes(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for _, p := range ValidPrimes() {
		for n := 0; n < 40; n++ {
			entries := randEntries(rng, p, n)
			u := FromEntries(p, entries)
			bytes := u.ToBytes()
			back := FromBytes(p, n, bytes)
			require.Equal(t, u.Entries(), back.Entries())
		}
	}
}

func TestShiftedAddAllOffsetCombinations(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	for _, p := range ValidPrimes() {
		n := 40
		for startA := 0; startA < 6; startA++ {
			for startB := 0; startB < 6; startB++ {
				ue := randEntries(rng, p, startA+n)
				ve := randEntries(rng, p, startB+n)
				u := FromEntries(p, ue)
				v := FromEntries(p, ve)
				c := uint8(rng.IntN(int(p)))

				su := u.Slice(startA, startA+n)
				sv := v.Slice(startB, startB+n)

				result := su.ToOwned()
				result.AsSliceMut().Add(sv, c)

				want := addEntriesRef(p, ue[startA:startA+n], ve[startB:startB+n], c)
				require.Equal(t, want, result.Entries(), "p=%d startA=%d startB=%d", p, startA, startB)
			}
		}
	}
}

func TestIterNonzero(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for _, p := range ValidPrimes() {
		entries := randEntries(rng, p, 130)
		u := FromEntries(p, entries)
		got := u.IterNonzero()
		var want []NonzeroEntry
		for i, e := range entries {
			if e != 0 {
				want = append(want, NonzeroEntry{Index: i, Value: e})
			}
		}
		require.Equal(t, want, got)
	}
}

func TestSignRuleGradedCommutativity(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	for n := 1; n < 16; n++ {
		ue := randEntries(rng, 2, n)
		ve := randEntries(rng, 2, n)
		u := FromEntries(2, ue)
		v := FromEntries(2, ve)

		uv := u.AsSlice().SignRule(v.AsSlice())
		vu := v.AsSlice().SignRule(u.AsSlice())

		// sign_rule(u,v) + sign_rule(v,u) + popcount(u)popcount(v) is
		// congruent to popcount(u)popcount(v) mod 2, i.e. the two
		// sign_rule calls agree.
		require.Equal(t, uv, vu, "graded commutativity must hold for n=%d", n)
	}
}
