package detection

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/png-crop/internal/imaging"
	"github.com/ironsheep/png-crop/internal/pixel"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Margins is the width of the background border on each side of an image.
type Margins struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// MarginsResult describes the background border found around an image's content.
type MarginsResult struct {
	// Margins are the crop amounts that remove the border.
	Margins Margins `json:"margins"`

	// Content is the bounding box of everything that is not background.
	Content Bounds `json:"content"`

	// Background is the hex color (#RRGGBB) of the top-left pixel, which is
	// taken to be the background.
	Background string `json:"background"`

	// Uniform is true when every pixel matches the background. Margins are all
	// zero in that case, since there is no content to keep.
	Uniform bool `json:"uniform"`
}

// DetectMargins finds the rows and columns along each edge whose pixels all
// match the top-left pixel.
//
// Parameters:
//   - img: Source buffer. Pixels are compared in its own format, channel by
//     channel, so alpha differences count.
//   - tolerance: Largest per-channel difference (0-255) still treated as
//     background. 0 requires an exact match.
//
// # Algorithm
//
//  1. Background: sample the top-left pixel
//  2. Rows: walk inward from the top and bottom while whole rows match
//  3. Columns: walk inward from the left and right, looking only at the rows
//     that remain
//
// An empty image yields zero margins and Uniform set.
func DetectMargins(img *imaging.Image, tolerance int) *MarginsResult {
	height, width := img.Height(), img.Width()
	if img.Empty() {
		return &MarginsResult{Uniform: true}
	}

	bg := img.At(0, 0)
	m := &matcher{img: img, bg: bg.Channels(), tolerance: tolerance}

	top := 0
	for top < height && m.row(top, 0, width) {
		top++
	}
	result := &MarginsResult{Background: hexOf(bg)}
	if top == height {
		result.Uniform = true
		result.Content = Bounds{X2: width, Y2: height}
		return result
	}

	bottom := 0
	for m.row(height-1-bottom, 0, width) {
		bottom++
	}

	y1, y2 := top, height-bottom
	left := 0
	for m.column(left, y1, y2) {
		left++
	}
	right := 0
	for m.column(width-1-right, y1, y2) {
		right++
	}

	result.Margins = Margins{Left: left, Right: right, Top: top, Bottom: bottom}
	result.Content = Bounds{X1: left, Y1: top, X2: width - right, Y2: height - bottom}
	return result
}

// matcher compares pixels against the background.
type matcher struct {
	img       *imaging.Image
	bg        []uint8
	tolerance int
}

func (m *matcher) pixel(x, y int) bool {
	for i, v := range m.img.At(x, y).Channels() {
		d := int(v) - int(m.bg[i])
		if d < -m.tolerance || d > m.tolerance {
			return false
		}
	}
	return true
}

// row reports whether columns [x1, x2) of row y are background.
func (m *matcher) row(y, x1, x2 int) bool {
	for x := x1; x < x2; x++ {
		if !m.pixel(x, y) {
			return false
		}
	}
	return true
}

// column reports whether rows [y1, y2) of column x are background.
func (m *matcher) column(x, y1, y2 int) bool {
	for y := y1; y < y2; y++ {
		if !m.pixel(x, y) {
			return false
		}
	}
	return true
}

// hexOf returns the #RRGGBB color of p, ignoring alpha.
func hexOf(p pixel.Pixel) string {
	r, g, b, _ := p.NRGBA()
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return strings.ToUpper(c.Hex())
}
