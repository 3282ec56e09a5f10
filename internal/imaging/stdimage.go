package imaging

import (
	"image"
	"image/color"

	"github.com/ironsheep/png-crop/internal/pixel"
)

// RGBA returns the image as packed non-premultiplied RGBA bytes together with
// its dimensions. This is the view handed to renderers, which always upload RGBA.
func (m *Image) RGBA() (pix []byte, width, height int) {
	view := m.Convert(pixel.RGBA)
	return view.pix, view.width, view.height
}

// ToImage returns a standard library image backed by a copy of the pixels.
//
// Gray images become *image.Gray. Every other format is expanded to
// *image.NRGBA, with missing alpha set to 0xFF.
func (m *Image) ToImage() image.Image {
	rect := image.Rect(0, 0, m.width, m.height)
	if m.format == pixel.Gray {
		return &image.Gray{Pix: m.Pix(), Stride: m.RowSize(), Rect: rect}
	}
	pix, _, _ := m.RGBA()
	return &image.NRGBA{Pix: pix, Stride: m.width * pixel.RGBA.Channels(), Rect: rect}
}

// FromImage samples a standard library image into a buffer of the given format.
//
// Colors pass through color.NRGBAModel, so 16-bit channels keep their high
// byte. *image.Gray and *image.NRGBA sources are copied row by row without
// per-pixel conversion when the target format allows it.
func FromImage(src image.Image, format pixel.Format) *Image {
	b := src.Bounds()
	height, width := b.Dy(), b.Dx()
	if height == 0 || width == 0 {
		return New(height, width, format, nil)
	}

	switch s := src.(type) {
	case *image.Gray:
		if format == pixel.Gray {
			return fromStrided(height, width, format, s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride)
		}
	case *image.NRGBA:
		if format == pixel.RGBA {
			return fromStrided(height, width, format, s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride)
		}
	}

	pix := make([]byte, 0, height*width*format.Channels())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			p := pixel.NewRGBA(c.R, c.G, c.B, c.A)
			if c.R == c.G && c.G == c.B {
				// Neutral colors keep their exact gray value.
				p = pixel.NewGrayAlpha(c.R, c.A)
			}
			pix = p.Convert(format).AppendTo(pix)
		}
	}
	return normalize(height, width, format, pix)
}

// fromStrided copies height rows of width pixels out of a buffer whose rows are
// stride bytes apart.
func fromStrided(height, width int, format pixel.Format, src []byte, stride int) *Image {
	rowSize := width * format.Channels()
	pix := make([]byte, 0, height*rowSize)
	for y := 0; y < height; y++ {
		start := y * stride
		pix = append(pix, src[start:start+rowSize]...)
	}
	return normalize(height, width, format, pix)
}
