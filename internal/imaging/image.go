package imaging

import (
	"bytes"

	"github.com/ironsheep/png-crop/internal/pixel"
)

// Image is an immutable, fully materialized grid of pixels in a single format.
//
// Pixels are stored row-major in one byte slice of exactly
// Height()*Width()*Format().Channels() bytes, rows top-to-bottom. Every method that
// produces an image allocates new storage; no two Image values share bytes.
type Image struct {
	height int
	width  int
	format pixel.Format
	pix    []byte
}

// New creates an image from a packed byte run.
//
// The data is copied. If it is shorter than height*width*channels it is padded
// with zero bytes; if longer, the excess is dropped. Negative dimensions are
// treated as zero. New never fails.
func New(height, width int, format pixel.Format, data []byte) *Image {
	height, width = clampDim(height), clampDim(width)
	size := height * width * format.Channels()

	pix := make([]byte, size)
	copy(pix, data)

	return &Image{
		height: height,
		width:  width,
		format: format,
		pix:    pix,
	}
}

// FromRows assembles an image from one byte run per scanline.
//
// Each row is padded or truncated to width*channels bytes. Rows beyond height
// are ignored and missing rows are left zero.
func FromRows(height, width int, format pixel.Format, rows [][]byte) *Image {
	img := New(height, width, format, nil)
	rowSize := img.RowSize()
	for y := 0; y < img.height && y < len(rows); y++ {
		copy(img.pix[y*rowSize:(y+1)*rowSize], rows[y])
	}
	return img
}

// FromGrid builds an image from a row-major grid of pixel values.
//
// The width is taken from the first row. Pixels are converted to format when
// they carry a different one; short rows are padded with zero pixels and long
// rows are truncated. An empty grid, or one whose first row is empty, yields a
// zero-by-zero image.
func FromGrid(format pixel.Format, grid [][]pixel.Pixel) *Image {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return New(0, 0, format, nil)
	}

	height, width := len(grid), len(grid[0])
	img := New(height, width, format, nil)
	rowSize := img.RowSize()
	for y, row := range grid {
		dst := img.pix[y*rowSize : y*rowSize : (y+1)*rowSize]
		for x := 0; x < width && x < len(row); x++ {
			dst = row[x].Convert(format).AppendTo(dst)
		}
	}
	return img
}

// Height returns the number of rows.
func (m *Image) Height() int { return m.height }

// Width returns the number of pixels per row.
func (m *Image) Width() int { return m.width }

// Format returns the pixel format of every pixel in the image.
func (m *Image) Format() pixel.Format { return m.format }

// RowSize returns the number of bytes in one row.
func (m *Image) RowSize() int {
	return m.width * m.format.Channels()
}

// Len returns the number of stored bytes.
func (m *Image) Len() int {
	return len(m.pix)
}

// Empty reports whether the image has no pixels.
func (m *Image) Empty() bool {
	return m.height == 0 || m.width == 0
}

// Pix returns a copy of the packed pixel bytes.
func (m *Image) Pix() []byte {
	return bytes.Clone(m.pix)
}

// Row returns a copy of row y. The caller guarantees 0 <= y < Height().
func (m *Image) Row(y int) []byte {
	rowSize := m.RowSize()
	return bytes.Clone(m.pix[y*rowSize : (y+1)*rowSize])
}

// Rows returns a copy of every scanline, top to bottom.
func (m *Image) Rows() [][]byte {
	rows := make([][]byte, m.height)
	for y := range rows {
		rows[y] = m.Row(y)
	}
	return rows
}

// offset returns the byte offset of pixel (x, y).
func (m *Image) offset(x, y int) int {
	return y*m.RowSize() + x*m.format.Channels()
}

// At returns the pixel at column x, row y.
//
// The caller guarantees 0 <= x < Width() and 0 <= y < Height().
func (m *Image) At(x, y int) pixel.Pixel {
	return pixel.Decode(m.pix, m.offset(x, y), m.format)
}

// InBounds reports whether (x, y) addresses a pixel of the image.
func (m *Image) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// Grid returns every pixel as a row-major grid. It is the inverse of FromGrid.
func (m *Image) Grid() [][]pixel.Pixel {
	grid := make([][]pixel.Pixel, m.height)
	for y := range grid {
		row := make([]pixel.Pixel, m.width)
		for x := range row {
			row[x] = m.At(x, y)
		}
		grid[y] = row
	}
	return grid
}

// Equal reports whether both images have the same dimensions, format and bytes.
func (m *Image) Equal(other *Image) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.height == other.height &&
		m.width == other.width &&
		m.format == other.format &&
		bytes.Equal(m.pix, other.pix)
}

// normalize returns an image whose storage is exactly the size its dimensions
// require. It takes ownership of pix.
func normalize(height, width int, format pixel.Format, pix []byte) *Image {
	size := height * width * format.Channels()
	switch {
	case len(pix) > size:
		pix = pix[:size:size]
	case len(pix) < size:
		grown := make([]byte, size)
		copy(grown, pix)
		pix = grown
	}
	return &Image{height: height, width: width, format: format, pix: pix}
}

func clampDim(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
