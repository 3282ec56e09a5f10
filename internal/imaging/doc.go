// Package imaging provides the in-memory image buffer used by the cropper.
//
// An Image is a rectangular grid of pixels in one pixel.Format, stored as a
// single row-major byte slice. Images are immutable: Convert, Crop and the flip
// operations all return new images with their own storage, so a value can be
// shared between goroutines without locking.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Rows are stored in the order they were supplied; nothing is flipped implicitly.
//
// # Storage Length
//
// Every constructor and transformation leaves exactly
// Height()*Width()*Format().Channels() bytes behind. Byte runs handed to New or
// FromRows that are too short are zero-padded and runs that are too long are
// truncated. This repair is silent; no error is reported.
//
// # Cropping
//
// Crop takes amounts per edge rather than a rectangle. An axis whose two
// amounts add up to the full dimension or more is left untouched, which keeps
// every result at least as large as one pixel on an axis that had pixels.
//
// # Interop
//
// ToImage and FromImage bridge to image.Image for resizing, previews and the
// non-PNG file formats. Preview and SampleColor produce the JSON results
// returned by the tool server.
package imaging
