// Package matrix implements row-major collections of packed F_p vectors:
// reduced row echelon form, augmented-matrix kernel and quasi-inverse
// extraction, and the Subspace/Subquotient algebra built on top of RREF.
package matrix
