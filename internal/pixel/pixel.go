package pixel

// Pixel is a single pixel value in one of the supported formats.
//
// Pixel is comparable: two pixels are == when they have the same format and the
// same channel bytes. Channels beyond Format.Channels() are always zero.
type Pixel struct {
	format Format
	c      [MaxChannels]uint8
}

// NewGray returns a Gray pixel.
func NewGray(y uint8) Pixel {
	return Pixel{format: Gray, c: [MaxChannels]uint8{y}}
}

// NewGrayAlpha returns a GrayAlpha pixel.
func NewGrayAlpha(y, a uint8) Pixel {
	return Pixel{format: GrayAlpha, c: [MaxChannels]uint8{y, a}}
}

// NewRGB returns an RGB pixel.
func NewRGB(r, g, b uint8) Pixel {
	return Pixel{format: RGB, c: [MaxChannels]uint8{r, g, b}}
}

// NewRGBA returns an RGBA pixel with non-premultiplied alpha.
func NewRGBA(r, g, b, a uint8) Pixel {
	return Pixel{format: RGBA, c: [MaxChannels]uint8{r, g, b, a}}
}

// Format returns the pixel's format.
func (p Pixel) Format() Format {
	return p.format
}

// Channels returns a copy of the channel bytes in format order.
func (p Pixel) Channels() []uint8 {
	n := p.format.Channels()
	out := make([]uint8, n)
	copy(out, p.c[:n])
	return out
}

// Gray returns the luminance channel. Color pixels report their luminance.
func (p Pixel) Gray() uint8 {
	if p.format.HasColor() {
		return Luminance(p.c[0], p.c[1], p.c[2])
	}
	return p.c[0]
}

// Alpha returns the alpha channel, or 0xFF for formats without one.
func (p Pixel) Alpha() uint8 {
	switch p.format {
	case GrayAlpha:
		return p.c[1]
	case RGBA:
		return p.c[3]
	default:
		return 0xFF
	}
}

// NRGBA returns the pixel expanded to non-premultiplied red, green, blue and alpha.
func (p Pixel) NRGBA() (r, g, b, a uint8) {
	q := p.Convert(RGBA)
	return q.c[0], q.c[1], q.c[2], q.c[3]
}

// RGBA implements color.Color. The returned values are alpha-premultiplied and
// scaled to 16 bits like the standard library color types.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r8, g8, b8, a8 := p.NRGBA()
	r = uint32(r8)
	r |= r << 8
	r *= uint32(a8)
	r /= 0xff
	g = uint32(g8)
	g |= g << 8
	g *= uint32(a8)
	g /= 0xff
	b = uint32(b8)
	b |= b << 8
	b *= uint32(a8)
	b /= 0xff
	a = uint32(a8)
	a |= a << 8
	return r, g, b, a
}

// Decode reads one pixel of format f starting at b[off].
//
// The caller guarantees off+f.Channels() <= len(b); an out-of-range offset
// panics the same way slice indexing does.
func Decode(b []byte, off int, f Format) Pixel {
	p := Pixel{format: f}
	copy(p.c[:], b[off:off+f.Channels()])
	return p
}

// Encode returns the pixel's channel bytes, exactly Format().Channels() long.
func (p Pixel) Encode() []byte {
	return p.AppendTo(make([]byte, 0, p.format.Channels()))
}

// AppendTo appends the pixel's channel bytes to dst and returns the extended slice.
func (p Pixel) AppendTo(dst []byte) []byte {
	return append(dst, p.c[:p.format.Channels()]...)
}
