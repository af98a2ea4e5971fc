// Package block implements the 64x64 F_2 block-GEMM kernel: one block
// is 64 rows x 64 columns of F_2, stored as 64 uint64 limbs (one limb
// per row, bit j of the limb is column j). F_2 addition is XOR and
// multiplication is AND, so gemm_block(alpha, A, B, beta, C) reduces to,
// for each row i of A, XORing in row j of B for every set bit j of A's
// row i.
//
// Two implementations are provided — Scalar and Wide — that must
// produce byte-for-byte identical output (spec.md §9: "SIMD is an
// optimization, not a semantic choice"); dispatch.go in this package picks
// between them once per process based on CPU feature detection.
package block
