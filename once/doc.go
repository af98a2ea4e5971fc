// Package once provides wait-free, insert-only concurrent containers
// used to build up spectral-sequence state one bidegree at a time
// without ever taking a write lock on the whole structure: Grove (a
// sparse vector with pinned, geometrically-growing blocks),
// TwoEndedGrove (two Groves back to back, indexed by signed int),
// OnceVec/OnceBiVec (push-only sequences layered on Grove), and
// MultiIndexed (a fixed-dimension trie of TwoEndedGroves, one level per
// coordinate). Grounded on original_source/ext/crates/once.
package once
