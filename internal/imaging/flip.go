package imaging

// FlipVertical returns a copy of the image with its rows in reverse order.
func (m *Image) FlipVertical() *Image {
	rowSize := m.RowSize()
	pix := make([]byte, 0, len(m.pix))
	for y := m.height - 1; y >= 0; y-- {
		pix = append(pix, m.pix[y*rowSize:(y+1)*rowSize]...)
	}
	return normalize(m.height, m.width, m.format, pix)
}

// FlipHorizontal returns a copy of the image mirrored left to right.
// Channel order inside each pixel is preserved.
func (m *Image) FlipHorizontal() *Image {
	channels := m.format.Channels()
	pix := make([]byte, len(m.pix))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			src := m.offset(x, y)
			dst := m.offset(m.width-1-x, y)
			copy(pix[dst:dst+channels], m.pix[src:src+channels])
		}
	}
	return normalize(m.height, m.width, m.format, pix)
}
