package imaging

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/png-crop/internal/pixel"
)

// RGBAColor represents a non-premultiplied RGBA color with 8-bit components.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult describes one pixel of a buffer.
//
// Channels holds the stored bytes in the buffer's own format. The remaining
// fields are derived views: RGBA is the pixel expanded through the conversion
// matrix, Gray its luminance, and Hex/HSL are computed from RGBA with alpha ignored.
type ColorResult struct {
	X        int          `json:"x"`
	Y        int          `json:"y"`
	Format   pixel.Format `json:"format"`
	Channels []int        `json:"channels"`
	Gray     uint8        `json:"gray"`
	Hex      string       `json:"hex"`
	RGBA     RGBAColor    `json:"rgba"`
	HSL      HSLColor     `json:"hsl"`
}

// SampleColor returns the pixel at (x, y) in several representations.
//
// Coordinates are 0-based with the origin at the top-left. Unlike Image.At,
// out-of-range coordinates are reported as an error because they usually come
// from user input.
func SampleColor(img *Image, x, y int) (*ColorResult, error) {
	if !img.InBounds(x, y) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, img.Width(), img.Height())
	}

	p := img.At(x, y)
	r, g, b, a := p.NRGBA()

	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return &ColorResult{
		X:        x,
		Y:        y,
		Format:   p.Format(),
		Channels: channelValues(p),
		Gray:     p.Gray(),
		Hex:      strings.ToUpper(c.Hex()),
		RGBA:     RGBAColor{R: r, G: g, B: b, A: a},
		HSL: HSLColor{
			H: int(h),
			S: int(s * 100),
			L: int(l * 100),
		},
	}, nil
}

// channelValues widens the stored bytes so they marshal as JSON numbers.
func channelValues(p pixel.Pixel) []int {
	stored := p.Channels()
	values := make([]int, len(stored))
	for i, v := range stored {
		values[i] = int(v)
	}
	return values
}
