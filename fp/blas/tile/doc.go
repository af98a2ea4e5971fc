// Package tile implements the tile-level view over F_2 matrix storage
// (spec.md §4.E.ii/§3.8): a Slice exposes (block_rows, block_cols)
// and per-block gather/scatter, can be split at a block boundary in
// O(1), and is iterated by one of six loop orders over (row-block,
// inner-block, col-block) triples.
package tile
