// Package sseq implements the bigraded spectral-sequence kernel: page
// data, differentials, permanent classes, and the Leibniz-rule product
// composition that propagates a differential across a module action.
// Topology-specific semantics (a concrete Steenrod module, a chain
// complex) are out of scope; this package only tracks the bookkeeping
// a spectral sequence needs regardless of what it is the spectral
// sequence of. Grounded on original_source/ext/crates/sseq/src/sseq.rs.
package sseq
