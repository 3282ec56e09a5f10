package pixel

// Luminance weights applied when color is collapsed to a single gray channel.
const (
	redWeight   float32 = 0.3
	greenWeight float32 = 0.59
	blueWeight  float32 = 0.11
)

// opaque is the alpha value given to pixels whose source had no alpha channel.
const opaque = 0xFF

// Luminance returns 0.3*R + 0.59*G + 0.11*B truncated to an 8-bit value.
//
// The sum is evaluated in float32 and each product is rounded before it is
// added, so results do not depend on whether the target fuses multiply-add.
func Luminance(r, g, b uint8) uint8 {
	rs := float32(redWeight * float32(r))
	gs := float32(greenWeight * float32(g))
	bs := float32(blueWeight * float32(b))
	return uint8(float32(float32(rs+gs) + bs))
}

// Convert maps p into the target format.
//
// Collapsing color to gray uses Luminance. Alpha is copied when both formats
// carry it, dropped when the target has none, and set to 0xFF when the source
// has none. Converting to the pixel's own format returns p unchanged.
func (p Pixel) Convert(to Format) Pixel {
	if p.format == to {
		return p
	}

	var gray uint8
	if p.format.HasColor() {
		gray = Luminance(p.c[0], p.c[1], p.c[2])
	} else {
		gray = p.c[0]
	}

	alpha := uint8(opaque)
	switch p.format {
	case GrayAlpha:
		alpha = p.c[1]
	case RGBA:
		alpha = p.c[3]
	}

	r, g, b := gray, gray, gray
	if p.format.HasColor() {
		r, g, b = p.c[0], p.c[1], p.c[2]
	}

	switch to {
	case Gray:
		return NewGray(gray)
	case GrayAlpha:
		return NewGrayAlpha(gray, alpha)
	case RGB:
		return NewRGB(r, g, b)
	case RGBA:
		return NewRGBA(r, g, b, alpha)
	default:
		return p
	}
}

// ConvertBytes converts a packed run of pixels from one format to another and
// appends the result to dst. A trailing partial pixel in src is ignored.
func ConvertBytes(dst, src []byte, from, to Format) []byte {
	step := from.Channels()
	if from == to {
		return append(dst, src[:len(src)/step*step]...)
	}
	for off := 0; off+step <= len(src); off += step {
		dst = Decode(src, off, from).Convert(to).AppendTo(dst)
	}
	return dst
}
