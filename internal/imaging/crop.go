package imaging

// Crop removes top rows from the start, bottom rows from the end, then left
// and right columns from each remaining row, and returns the result as a new image.
//
// Each axis is clamped independently: when top+bottom >= Height() the rows are
// kept as they are, and when left+right >= Width() the columns are kept. No
// error is reported for such requests; callers that need a strictly smaller
// image must bound the amounts themselves. Negative amounts count as zero.
func (m *Image) Crop(left, right, top, bottom int) *Image {
	left, right = clampDim(left), clampDim(right)
	top, bottom = clampDim(top), clampDim(bottom)

	height, width := m.height, m.width
	rowSize := m.RowSize()

	firstRow, lastRow := 0, height
	if fits(top, bottom, height) {
		firstRow, lastRow = top, height-bottom
		height = lastRow - firstRow
	}
	rows := m.pix[firstRow*rowSize : lastRow*rowSize]

	if !fits(left, right, width) || (left == 0 && right == 0) {
		return normalize(height, width, m.format, append([]byte(nil), rows...))
	}

	channels := m.format.Channels()
	newWidth := width - left - right
	pix := make([]byte, 0, height*newWidth*channels)
	for y := 0; y < height; y++ {
		row := rows[y*rowSize : (y+1)*rowSize]
		pix = append(pix, row[left*channels:(width-right)*channels]...)
	}
	return normalize(height, newWidth, m.format, pix)
}

// fits reports whether removing a and b (both non-negative) from n leaves at
// least one element. The sum is never formed, so huge amounts cannot wrap.
func fits(a, b, n int) bool {
	return a < n && b < n-a
}
