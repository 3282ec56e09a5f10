// Package codec moves image buffers between files and memory.
//
// PNG is the primary format. DecodePNG reads the IHDR color type first and maps
// it 1:1 onto a pixel.Format (0 gray, 2 RGB, 4 gray+alpha, 6 RGBA); palette
// images (type 3) are rejected before any pixel data is decoded. EncodePNG
// writes the inverse mapping, so a buffer saved and loaded again keeps its
// format.
//
// Load and Save additionally understand JPEG, GIF, BMP and TIFF input and JPEG
// and BMP output for convenience. Those formats cannot express every pixel
// format exactly; only PNG round-trips.
//
// # Error Handling
//
// This package is where fallibility lives. Errors are wrapped with
// github.com/pkg/errors and name the file and the operation, for example
// "cannot read in.png: not a PNG file". Sentinels (ErrNotPNG,
// ErrUnsupportedFormat, ErrUnsupportedBitDepth, ErrEmptyImage) can be matched
// with errors.Is.
package codec
