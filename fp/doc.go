// Package fp implements bit-packed vectors over the small finite fields
// F_2, F_3, F_5, and F_7. Entries are packed low-to-high into 64-bit
// limbs; arithmetic is deferred-reduction where the prime allows it, and
// reduced eagerly where it doesn't.
//
// The prime is a runtime value carried alongside each Vector rather than
// a compile-time constant: Go has no const-generic integers, so
// specialization happens once per call (via fieldOps, computed at the
// top of each exported method) rather than per entry, which keeps the
// inner loops free of per-entry branching on p.
package fp
