package tile

import (
	"fmt"

	"github.com/SpectralSequences/sseq-sub002/fp/blas/block"
)

// Storage is the flat physical backing for an F_2 tile matrix:
// blockRows*64 physical rows, each blockCols limbs wide (one limb per
// 64-column block), row-major.
type Storage struct {
	BlockRows, BlockCols int
	Limbs                []uint64
}

// NewStorage returns a zeroed Storage of the given block-grid shape.
func NewStorage(blockRows, blockCols int) *Storage {
	return &Storage{
		BlockRows: blockRows,
		BlockCols: blockCols,
		Limbs:     make([]uint64, blockRows*64*blockCols),
	}
}

func (s *Storage) limbIndex(physRow, blockCol int) int {
	return physRow*s.BlockCols + blockCol
}

// Full returns a Slice over the entire storage.
func (s *Storage) Full() Slice {
	return Slice{storage: s, rowOff: 0, colOff: 0, blockRows: s.BlockRows, blockCols: s.BlockCols}
}

// Slice is a view (block_rows, block_cols) into a Storage, offset by
// (rowOff, colOff) blocks. Slices never own storage.
type Slice struct {
	storage              *Storage
	rowOff, colOff       int
	blockRows, blockCols int
}

// BlockRows returns the number of row-blocks visible through this slice.
func (s Slice) BlockRows() int { return s.blockRows }

// BlockCols returns the number of col-blocks visible through this slice.
func (s Slice) BlockCols() int { return s.blockCols }

func (s Slice) checkBlock(i, j int) {
	if i < 0 || i >= s.blockRows || j < 0 || j >= s.blockCols {
		panic(fmt.Sprintf("tile: block index (%d,%d) out of range for (%d,%d)", i, j, s.blockRows, s.blockCols))
	}
}

// BlockAt gathers the 64x64 block at block-position (i, j).
func (s Slice) BlockAt(i, j int) block.Block {
	s.checkBlock(i, j)
	var b block.Block
	baseRow := (s.rowOff + i) * 64
	col := s.colOff + j
	for r := 0; r < 64; r++ {
		b[r] = s.storage.Limbs[s.storage.limbIndex(baseRow+r, col)]
	}
	return b
}

// SetBlockAt scatters b into block-position (i, j).
func (s Slice) SetBlockAt(i, j int, b block.Block) {
	s.checkBlock(i, j)
	baseRow := (s.rowOff + i) * 64
	col := s.colOff + j
	for r := 0; r < 64; r++ {
		s.storage.Limbs[s.storage.limbIndex(baseRow+r, col)] = b[r]
	}
}

// SplitRows splits this slice at row-block index at into (top, bottom),
// an O(1) operation since both halves alias the same Storage.
func (s Slice) SplitRows(at int) (top, bottom Slice) {
	if at < 0 || at > s.blockRows {
		panic("tile: SplitRows: index out of range")
	}
	top = Slice{storage: s.storage, rowOff: s.rowOff, colOff: s.colOff, blockRows: at, blockCols: s.blockCols}
	bottom = Slice{storage: s.storage, rowOff: s.rowOff + at, colOff: s.colOff, blockRows: s.blockRows - at, blockCols: s.blockCols}
	return
}

// SplitCols splits this slice at col-block index at into (left, right).
func (s Slice) SplitCols(at int) (left, right Slice) {
	if at < 0 || at > s.blockCols {
		panic("tile: SplitCols: index out of range")
	}
	left = Slice{storage: s.storage, rowOff: s.rowOff, colOff: s.colOff, blockRows: s.blockRows, blockCols: at}
	right = Slice{storage: s.storage, rowOff: s.rowOff, colOff: s.colOff + at, blockRows: s.blockRows, blockCols: s.blockCols - at}
	return
}
