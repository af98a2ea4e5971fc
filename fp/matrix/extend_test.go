package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SpectralSequences/sseq-sub002/fp"
)

func TestExtendToSurjection(t *testing.T) {
	p := fp.Prime(2)
	m := FromVec(p, [][]uint8{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	m.RowReduce()

	added := m.ExtendToSurjection(1, 0, 3)
	require.Equal(t, []int{1, 2}, added)
	require.Equal(t, []int{0, 1, 2}, m.Pivots())
	require.Equal(t, []uint8{0, 1, 0}, m.Row(1).Entries())
	require.Equal(t, []uint8{0, 0, 1}, m.Row(2).Entries())
}

func TestExtendToSurjectionPanicsWithoutEnoughRows(t *testing.T) {
	p := fp.Prime(2)
	m := FromVec(p, [][]uint8{{1, 0, 0}})
	m.RowReduce()
	require.Panics(t, func() { m.ExtendToSurjection(1, 0, 3) })
}

func TestExtendImageToDesiredImage(t *testing.T) {
	p := fp.Prime(2)
	m := FromVec(p, [][]uint8{{1, 0}, {0, 0}})
	m.RowReduce()

	desired := NewEmptySubspace(p, 2)
	desired.SetToEntire()

	added := m.ExtendImageToDesiredImage(1, 0, 2, desired)
	require.Equal(t, []int{1}, added)
	require.Equal(t, []uint8{0, 1}, m.Row(1).Entries())
	require.Equal(t, []int{0, 1}, m.Pivots())
}

func TestExtendImageDispatchesOnNilDesiredImage(t *testing.T) {
	p := fp.Prime(2)
	m := FromVec(p, [][]uint8{{1, 0}, {0, 0}})
	m.RowReduce()
	added := m.ExtendImage(1, 0, 2, nil)
	require.Equal(t, []int{1}, added)
	require.Equal(t, []uint8{0, 1}, m.Row(1).Entries())
}
