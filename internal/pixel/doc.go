// Package pixel defines the closed set of 8-bit pixel formats and the
// conversion matrix between them.
//
// # Formats
//
// Four layouts are supported, one byte per channel:
//   - Gray: luminance
//   - GrayAlpha: luminance, alpha
//   - RGB: red, green, blue
//   - RGBA: red, green, blue, alpha (non-premultiplied)
//
// Palette and higher bit depths are not modeled; decoders reject or strip them
// before a Pixel is ever produced.
//
// # Conversion
//
// Pixel.Convert is total over every ordered pair of formats. Color collapses to
// gray with the weights 0.3, 0.59 and 0.11, truncated rather than rounded. Alpha
// that the source lacks is filled with 0xFF; alpha the target lacks is dropped.
//
// # Byte Layout
//
// Decode and Encode are inverses: a pixel of format F always occupies exactly
// F.Channels() bytes and every run of that many bytes is a valid pixel.
package pixel
