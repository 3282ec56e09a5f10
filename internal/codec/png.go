package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/ironsheep/png-crop/internal/imaging"
	"github.com/ironsheep/png-crop/internal/pixel"
)

// DecodePNG reads a PNG stream into a buffer whose format matches the file's
// color type.
//
// The header is checked before any pixel data is decoded, so palette images
// are rejected with ErrUnsupportedFormat without allocating a buffer. 16-bit
// channels are reduced to their high byte and sub-byte gray depths are scaled
// to the full 8-bit range.
func DecodePNG(r io.Reader) (*imaging.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read stream")
	}

	header, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	format, err := FormatFor(header.ColorType)
	if err != nil {
		return nil, err
	}
	if !validBitDepth(header) {
		return nil, errors.Wrapf(ErrUnsupportedBitDepth, "%d-bit %s", header.BitDepth, header.ColorType)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode pixel data")
	}

	bounds := img.Bounds()
	rows := make([][]byte, bounds.Dy())
	for y := range rows {
		rows[y] = scanline(img, bounds.Min.Y+y, format)
	}
	return imaging.FromRows(bounds.Dy(), bounds.Dx(), format, rows), nil
}

// validBitDepth reports whether the IHDR combination is one PNG defines.
func validBitDepth(h Header) bool {
	switch h.BitDepth {
	case 8, 16:
		return true
	case 1, 2, 4:
		return h.ColorType == ColorTypeGray
	default:
		return false
	}
}

// scanline extracts row y of a decoded image as packed bytes of the given format.
//
// The decoder picks its own image type (gray with transparency comes back as
// NRGBA, for example), so channels are selected from the NRGBA view rather
// than converted: the format already describes what the file stored.
func scanline(img image.Image, y int, format pixel.Format) []byte {
	bounds := img.Bounds()
	row := make([]byte, 0, bounds.Dx()*format.Channels())
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		c := nrgbaAt(img, x, y)
		switch format {
		case pixel.Gray:
			row = append(row, c.R)
		case pixel.GrayAlpha:
			row = append(row, c.R, c.A)
		case pixel.RGB:
			row = append(row, c.R, c.G, c.B)
		case pixel.RGBA:
			row = append(row, c.R, c.G, c.B, c.A)
		}
	}
	return row
}

// nrgbaAt returns the non-premultiplied 8-bit color at (x, y).
func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	switch m := img.(type) {
	case *image.Gray:
		v := m.GrayAt(x, y).Y
		return color.NRGBA{R: v, G: v, B: v, A: 0xFF}
	case *image.NRGBA:
		return m.NRGBAAt(x, y)
	case *image.NRGBA64:
		// Going through RGBA() would premultiply and lose precision at low alpha.
		c := m.NRGBA64At(x, y)
		return color.NRGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: uint8(c.A >> 8)}
	default:
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	}
}

// EncodePNG writes img as an 8-bit, non-interlaced PNG.
//
// The IHDR color type always matches the buffer's format, so a GrayAlpha
// buffer is written as color type 4 and an opaque RGBA buffer keeps its alpha
// channel. Scanlines are stored unfiltered.
func EncodePNG(w io.Writer, img *imaging.Image) error {
	return encodePNG(w, img, zlib.DefaultCompression)
}

func encodePNG(w io.Writer, img *imaging.Image, level int) error {
	if img.Empty() {
		return errors.Wrapf(ErrEmptyImage, "%dx%d", img.Width(), img.Height())
	}

	header := Header{
		Width:     uint32(img.Width()),
		Height:    uint32(img.Height()),
		BitDepth:  8,
		ColorType: ColorTypeFor(img.Format()),
	}

	var idat bytes.Buffer
	zw, err := zlib.NewWriterLevel(&idat, level)
	if err != nil {
		return errors.Wrap(err, "create zlib writer")
	}
	filter := []byte{0}
	for _, row := range img.Rows() {
		if _, err := zw.Write(filter); err != nil {
			return errors.Wrap(err, "compress scanline")
		}
		if _, err := zw.Write(row); err != nil {
			return errors.Wrap(err, "compress scanline")
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "flush zlib stream")
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(pngSignature); err != nil {
		return errors.Wrap(err, "write signature")
	}
	for _, c := range []struct {
		name string
		data []byte
	}{
		{"IHDR", header.ihdr()},
		{"IDAT", idat.Bytes()},
		{"IEND", nil},
	} {
		if err := writeChunk(bw, c.name, c.data); err != nil {
			return errors.Wrapf(err, "write %s chunk", c.name)
		}
	}
	return errors.Wrap(bw.Flush(), "flush output")
}

// writeChunk writes one length-prefixed, CRC-terminated PNG chunk.
func writeChunk(w io.Writer, name string, data []byte) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[:4], uint32(len(data)))
	copy(head[4:], name)

	crc := crc32.NewIEEE()
	crc.Write(head[4:])
	crc.Write(data)

	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], crc.Sum32())

	for _, b := range [][]byte{head[:], data, tail[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}
