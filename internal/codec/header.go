package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/ironsheep/png-crop/internal/pixel"
)

// pngSignature is the eight-byte magic number every PNG file starts with.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ihdrLength is the fixed size of the IHDR chunk payload.
const ihdrLength = 13

// ColorType is the PNG IHDR color type field.
type ColorType uint8

const (
	ColorTypeGray      ColorType = 0
	ColorTypeRGB       ColorType = 2
	ColorTypePalette   ColorType = 3
	ColorTypeGrayAlpha ColorType = 4
	ColorTypeRGBA      ColorType = 6
)

func (c ColorType) String() string {
	switch c {
	case ColorTypeGray:
		return "gray"
	case ColorTypeRGB:
		return "rgb"
	case ColorTypePalette:
		return "palette"
	case ColorTypeGrayAlpha:
		return "gray_alpha"
	case ColorTypeRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("ColorType(%d)", uint8(c))
	}
}

// FormatFor maps a PNG color type onto the pixel format used in memory.
// Palette images have no pixel format and yield ErrUnsupportedFormat.
func FormatFor(c ColorType) (pixel.Format, error) {
	switch c {
	case ColorTypeGray:
		return pixel.Gray, nil
	case ColorTypeRGB:
		return pixel.RGB, nil
	case ColorTypeGrayAlpha:
		return pixel.GrayAlpha, nil
	case ColorTypeRGBA:
		return pixel.RGBA, nil
	default:
		return pixel.Gray, errors.Wrapf(ErrUnsupportedFormat, "color type %s", c)
	}
}

// ColorTypeFor is the inverse of FormatFor.
func ColorTypeFor(f pixel.Format) ColorType {
	switch f {
	case pixel.GrayAlpha:
		return ColorTypeGrayAlpha
	case pixel.RGB:
		return ColorTypeRGB
	case pixel.RGBA:
		return ColorTypeRGBA
	default:
		return ColorTypeGray
	}
}

// Header holds the IHDR fields of a PNG stream.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// ReadHeader reads the PNG signature and the IHDR chunk from r.
//
// Only the first 33 bytes are consumed. A stream that does not start with the
// PNG signature yields ErrNotPNG.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [8 + 8 + ihdrLength]byte
	if _, err := io.ReadFull(r, buf[:len(pngSignature)]); err != nil {
		return Header{}, errors.Wrapf(ErrNotPNG, "read signature: %v", err)
	}
	if !bytes.Equal(buf[:len(pngSignature)], pngSignature) {
		return Header{}, ErrNotPNG
	}
	if _, err := io.ReadFull(r, buf[len(pngSignature):]); err != nil {
		return Header{}, errors.Wrap(err, "truncated IHDR")
	}

	chunk := buf[len(pngSignature):]
	length := binary.BigEndian.Uint32(chunk[0:4])
	if string(chunk[4:8]) != "IHDR" || length != ihdrLength {
		return Header{}, errors.Errorf("first chunk is %q (%d bytes), want IHDR", chunk[4:8], length)
	}

	data := chunk[8:]
	return Header{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         ColorType(data[9]),
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		InterlaceMethod:   data[12],
	}, nil
}

// ihdr serializes the header for the encoder.
func (h Header) ihdr() []byte {
	data := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(data[0:4], h.Width)
	binary.BigEndian.PutUint32(data[4:8], h.Height)
	data[8] = h.BitDepth
	data[9] = uint8(h.ColorType)
	data[10] = h.CompressionMethod
	data[11] = h.FilterMethod
	data[12] = h.InterlaceMethod
	return data
}
