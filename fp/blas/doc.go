// Package blas implements spec.md §4.E's F_2 BLAS tile engine entry
// points: Matrix * Matrix dispatches to the concurrent tiled engine when
// both operands are F_2 with physical row counts divisible by 64,
// otherwise falls back to the naive triple-loop multiply (used for
// small/thin matrices and for p != 2, where the tiled engine does not
// apply). Grounded on original_source/ext/crates/fp/src/blas/mod.rs.
package blas
