package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/png-crop/internal/pixel"
)

var (
	red   = pixel.NewRGBA(255, 0, 0, 255)
	green = pixel.NewRGBA(0, 255, 0, 255)
	blue  = pixel.NewRGBA(0, 0, 255, 255)
	white = pixel.NewRGBA(255, 255, 255, 255)
)

// quadImage returns the 2x2 RGBA image red, green / blue, white.
func quadImage(t *testing.T) *Image {
	t.Helper()
	img := FromGrid(pixel.RGBA, [][]pixel.Pixel{
		{red, green},
		{blue, white},
	})
	require.Equal(t, 2, img.Height())
	require.Equal(t, 2, img.Width())
	return img
}

// sequentialImage returns a Gray image whose bytes count up from zero.
func sequentialImage(height, width int) *Image {
	data := make([]byte, height*width)
	for i := range data {
		data[i] = byte(i)
	}
	return New(height, width, pixel.Gray, data)
}

// assertSized checks the storage length invariant.
func assertSized(t *testing.T, img *Image) {
	t.Helper()
	assert.Equal(t, img.Height()*img.Width()*img.Format().Channels(), img.Len(),
		"storage length for %dx%d %s", img.Width(), img.Height(), img.Format())
}

func TestNew_ExactLength(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	img := New(1, 2, pixel.RGB, data)

	assert.Equal(t, 1, img.Height())
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, pixel.RGB, img.Format())
	assert.Equal(t, 6, img.RowSize())
	assert.Equal(t, data, img.Pix())
}

func TestNew_PadsShortData(t *testing.T) {
	img := New(1, 2, pixel.RGB, []byte{1, 2, 3, 4})

	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0}, img.Pix())
	assertSized(t, img)
}

func TestNew_TruncatesLongData(t *testing.T) {
	img := New(1, 1, pixel.GrayAlpha, []byte{7, 8, 9, 10})

	assert.Equal(t, []byte{7, 8}, img.Pix())
	assertSized(t, img)
}

func TestNew_NegativeDimensions(t *testing.T) {
	img := New(-3, 4, pixel.RGBA, []byte{1, 2, 3})

	assert.Equal(t, 0, img.Height())
	assert.Equal(t, 4, img.Width())
	assert.True(t, img.Empty())
	assertSized(t, img)
}

func TestNew_CopiesInput(t *testing.T) {
	data := []byte{10, 20}
	img := New(1, 2, pixel.Gray, data)
	data[0] = 99

	assert.Equal(t, uint8(10), img.At(0, 0).Gray(), "image must own its storage")

	out := img.Pix()
	out[1] = 99
	assert.Equal(t, uint8(20), img.At(1, 0).Gray(), "Pix must return a copy")
}

func TestAt(t *testing.T) {
	img := quadImage(t)

	assert.Equal(t, red, img.At(0, 0))
	assert.Equal(t, green, img.At(1, 0))
	assert.Equal(t, blue, img.At(0, 1))
	assert.Equal(t, white, img.At(1, 1))
}

func TestInBounds(t *testing.T) {
	img := sequentialImage(3, 4)

	assert.True(t, img.InBounds(0, 0))
	assert.True(t, img.InBounds(3, 2))
	assert.False(t, img.InBounds(4, 0))
	assert.False(t, img.InBounds(0, 3))
	assert.False(t, img.InBounds(-1, 0))
}

func TestFromRows(t *testing.T) {
	rows := [][]byte{
		{1, 2, 3, 4},
		{5, 6},            // short: padded
		{7, 8, 9, 10, 11}, // long: truncated
	}
	img := FromRows(4, 2, pixel.GrayAlpha, rows)

	assert.Equal(t, []byte{
		1, 2, 3, 4,
		5, 6, 0, 0,
		7, 8, 9, 10,
		0, 0, 0, 0,
	}, img.Pix())
	assertSized(t, img)
}

func TestRows_RoundTrip(t *testing.T) {
	img := sequentialImage(3, 2)
	rows := img.Rows()

	require.Len(t, rows, 3)
	assert.Equal(t, []byte{2, 3}, rows[1])
	assert.True(t, img.Equal(FromRows(3, 2, pixel.Gray, rows)))
}

func TestGrid_RoundTrip(t *testing.T) {
	img := quadImage(t)
	grid := img.Grid()

	require.Len(t, grid, 2)
	assert.Equal(t, []pixel.Pixel{red, green}, grid[0])
	assert.Equal(t, []pixel.Pixel{blue, white}, grid[1])
	assert.True(t, img.Equal(FromGrid(pixel.RGBA, grid)))
}

func TestFromGrid_Empty(t *testing.T) {
	tests := []struct {
		name string
		grid [][]pixel.Pixel
	}{
		{"nil", nil},
		{"no rows", [][]pixel.Pixel{}},
		{"zero-width rows", [][]pixel.Pixel{{}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := FromGrid(pixel.RGB, tt.grid)
			assert.Equal(t, 0, img.Height())
			assert.Equal(t, 0, img.Width())
			assert.Equal(t, 0, img.Len())
		})
	}
}

func TestFromGrid_RaggedAndMixedRows(t *testing.T) {
	img := FromGrid(pixel.Gray, [][]pixel.Pixel{
		{pixel.NewGray(1), pixel.NewGray(2)},
		{pixel.NewRGB(255, 0, 0)},
		{pixel.NewGray(3), pixel.NewGray(4), pixel.NewGray(5)},
	})

	assert.Equal(t, 3, img.Height())
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, []byte{1, 2, 76, 0, 3, 4}, img.Pix())
}

func TestEqual(t *testing.T) {
	a := sequentialImage(2, 2)
	b := sequentialImage(2, 2)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(sequentialImage(1, 4)), "same bytes, different shape")
	assert.False(t, a.Equal(New(2, 2, pixel.Gray, nil)))
	assert.False(t, a.Equal(nil))

	var none *Image
	assert.True(t, none.Equal(nil))
}
