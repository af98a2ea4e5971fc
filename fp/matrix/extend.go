package matrix

// ExtendToSurjection takes an already row-reduced m and, for every
// column in [startColumn, endColumn) that has no pivot, writes a unit
// basis vector into the next unused row starting at firstEmptyRow,
// making m's restriction to those columns surjective without growing
// the matrix. Panics if there aren't enough unused rows. Returns the
// newly pivoted columns, in increasing order.
//
// Grounded on matrix_inner.rs's extend_to_surjection; used to extend a
// partial spanning set to cover a whole target space when rebuilding
// generators from a restricted action matrix.
func (m *Matrix) ExtendToSurjection(firstEmptyRow, startColumn, endColumn int) []int {
	var added []int
	row := firstEmptyRow
	for i := startColumn; i < endColumn; i++ {
		if m.pivots[i] >= 0 {
			continue
		}
		if row >= len(m.rows) {
			panic("matrix: ExtendToSurjection: not enough empty rows")
		}
		m.rows[row].SetToZero()
		m.rows[row].SetEntry(i, 1)
		m.pivots[i] = row
		added = append(added, i)
		row++
	}
	return added
}

// ExtendImageToDesiredImage takes an already row-reduced m whose
// restriction to [startColumn, endColumn) has image contained in
// desiredImage, and writes rows of desiredImage's basis into m's
// unused rows (starting at firstEmptyRow) until that restriction's
// image is exactly desiredImage. Panics if there aren't enough unused
// rows. Returns the newly pivoted columns, in increasing order.
//
// Grounded on matrix_inner.rs's extend_image_to_desired_image.
func (m *Matrix) ExtendImageToDesiredImage(firstEmptyRow, startColumn, endColumn int, desiredImage *Subspace) []int {
	var added []int
	row := firstEmptyRow
	desiredPivots := desiredImage.Basis().Pivots()
	early := endColumn
	if startColumn+len(desiredPivots) < early {
		early = startColumn + len(desiredPivots)
	}
	width := desiredImage.Basis().NumCols()
	for i := startColumn; i < early; i++ {
		dp := desiredPivots[i-startColumn]
		if m.pivots[i] >= 0 || dp < 0 {
			continue
		}
		if row >= len(m.rows) {
			panic("matrix: ExtendImageToDesiredImage: not enough empty rows")
		}
		basisRow := desiredImage.Basis().Row(dp)
		m.rows[row].SetToZero()
		m.rows[row].SliceMut(startColumn, startColumn+width).Assign(basisRow.AsSlice())
		m.pivots[i] = row
		added = append(added, i)
		row++
	}
	return added
}

// ExtendImage extends m's restriction to [startColumn, endColumn) to
// have image equal to desiredImage, or — if desiredImage is nil — to
// be fully surjective on those columns. Dispatches to
// ExtendImageToDesiredImage or ExtendToSurjection accordingly.
func (m *Matrix) ExtendImage(firstEmptyRow, startColumn, endColumn int, desiredImage *Subspace) []int {
	if desiredImage != nil {
		return m.ExtendImageToDesiredImage(firstEmptyRow, startColumn, endColumn, desiredImage)
	}
	return m.ExtendToSurjection(firstEmptyRow, startColumn, endColumn)
}
