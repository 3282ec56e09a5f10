package codec

import "github.com/pkg/errors"

var (
	// ErrNotPNG indicates the data does not start with the PNG signature.
	ErrNotPNG = errors.New("not a PNG file")

	// ErrUnsupportedFormat indicates a pixel layout outside gray, gray+alpha,
	// RGB and RGBA, such as palette images.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrUnsupportedBitDepth indicates an IHDR bit depth PNG does not define
	// for the color type.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

	// ErrEmptyImage indicates an attempt to encode an image with no pixels.
	ErrEmptyImage = errors.New("image has zero width or height")
)
