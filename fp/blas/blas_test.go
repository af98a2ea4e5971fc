package blas

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SpectralSequences/sseq-sub002/fp/blas/tile"
	"github.com/SpectralSequences/sseq-sub002/fp/matrix"
)

func randMatrixF2(rng *rand.Rand, rows, cols int) *matrix.Matrix {
	entries := make([][]uint8, rows)
	for i := range entries {
		row := make([]uint8, cols)
		for j := range row {
			row[j] = uint8(rng.IntN(2))
		}
		entries[i] = row
	}
	return matrix.FromVec(2, entries)
}

func entriesEqual(t *testing.T, a, b *matrix.Matrix) {
	t.Helper()
	require.Equal(t, a.NumRows(), b.NumRows())
	require.Equal(t, a.NumCols(), b.NumCols())
	for i := 0; i < a.NumRows(); i++ {
		require.Equal(t, a.Row(i).Entries(), b.Row(i).Entries(), "row %d", i)
	}
}

func TestFastMulEqualsNaive(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	shapes := [][3]int{{64, 64, 64}, {128, 64, 192}, {64, 128, 64}}
	for _, shape := range shapes {
		m, k, n := shape[0], shape[1], shape[2]
		a := randMatrixF2(rng, m, k)
		b := randMatrixF2(rng, k, n)

		naive := NaiveMul(a, b)
		fast := FastMulConcurrentDefault(a, b)
		entriesEqual(t, naive, fast)
	}
}

func TestAllLoopOrdersAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(23, 24))
	a := randMatrixF2(rng, 128, 64)
	b := randMatrixF2(rng, 64, 192)

	orders := []tile.LoopOrder{tile.RIC, tile.RCI, tile.IRC, tile.ICR, tile.CRI, tile.CIR}
	var reference *matrix.Matrix
	for _, order := range orders {
		got := FastMulSequential(a, b, order)
		if reference == nil {
			reference = got
			continue
		}
		entriesEqual(t, reference, got)
	}
}

func TestGemmConcurrentMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(25, 26))
	a := randMatrixF2(rng, 256, 128)
	b := randMatrixF2(rng, 128, 256)

	seq := FastMulSequentialDefaultOrder(a, b)
	conc := FastMulConcurrentDefault(a, b)
	entriesEqual(t, seq, conc)
}

func TestScenarioS3IdentityDiagonal(t *testing.T) {
	entries := make([][]uint8, 64)
	for i := range entries {
		row := make([]uint8, 64)
		row[i] = 1
		entries[i] = row
	}
	identity := matrix.FromVec(2, entries)

	rng := rand.New(rand.NewPCG(27, 28))
	b := randMatrixF2(rng, 64, 64)
	result := FastMulConcurrentDefault(identity, b)
	entriesEqual(t, b, result)
}

func TestScenarioS4BlockDiagonal(t *testing.T) {
	entries := make([][]uint8, 128)
	for i := range entries {
		row := make([]uint8, 128)
		row[i] = 1
		entries[i] = row
	}
	blockDiag := matrix.FromVec(2, entries)

	rng := rand.New(rand.NewPCG(29, 30))
	b := randMatrixF2(rng, 128, 128)
	result := FastMulConcurrentDefault(blockDiag, b)
	naiveResult := NaiveMul(blockDiag, b)
	entriesEqual(t, naiveResult, result)
}
