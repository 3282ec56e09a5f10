package codec

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder

	"github.com/ironsheep/png-crop/internal/imaging"
	"github.com/ironsheep/png-crop/internal/pixel"
)

// jpegQuality is used for every JPEG export.
const jpegQuality = 95

// Load reads and decodes the image file at path.
//
// PNG files are recognized by their signature and decoded with DecodePNG.
// Anything else goes through image.Decode (JPEG, GIF, BMP and TIFF are
// registered) and the pixel format is inferred from the decoded color model.
// Paletted images, which includes every GIF, yield ErrUnsupportedFormat.
//
// Errors name the file and the operation: "cannot read <path>: ...".
func Load(path string) (*imaging.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}

	var img *imaging.Image
	if bytes.HasPrefix(data, pngSignature) {
		img, err = DecodePNG(bytes.NewReader(data))
	} else {
		img, err = decodeOther(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return img, nil
}

// decodeOther decodes any registered non-PNG format.
func decodeOther(data []byte) (*imaging.Image, error) {
	src, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	format, err := FormatOf(src)
	if err != nil {
		return nil, errors.Wrapf(err, "%s image", name)
	}
	return imaging.FromImage(src, format), nil
}

// FormatOf infers the pixel format that preserves a decoded image's channels.
//
// Gray images map to Gray. Images that report themselves opaque map to RGB and
// the rest to RGBA. Paletted images are rejected.
func FormatOf(src image.Image) (pixel.Format, error) {
	switch m := src.(type) {
	case *image.Paletted:
		return pixel.Gray, errors.Wrap(ErrUnsupportedFormat, "paletted image")
	case *image.Gray, *image.Gray16:
		return pixel.Gray, nil
	case *image.YCbCr, *image.CMYK:
		return pixel.RGB, nil
	case interface{ Opaque() bool }:
		if m.Opaque() {
			return pixel.RGB, nil
		}
		return pixel.RGBA, nil
	default:
		return pixel.RGBA, nil
	}
}

// Save encodes img into the file at path, choosing the encoding by extension.
//
//   - ".png" or any unknown extension: EncodePNG (exact color type)
//   - ".jpg", ".jpeg": JPEG at quality 95, alpha flattened by the encoder
//   - ".bmp": BMP
//
// Errors name the file and the operation: "cannot write <path>: ...". An
// empty image is rejected before the file is created, and a file whose
// encoding fails is removed.
func Save(path string, img *imaging.Image) error {
	if img.Empty() {
		return errors.Wrapf(errors.Wrapf(ErrEmptyImage, "%dx%d", img.Width(), img.Height()),
			"cannot write %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot write %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = export(img, imgio.JPEGEncoder(jpegQuality), f)
	case ".bmp":
		err = export(img, imgio.BMPEncoder(), f)
	default:
		err = EncodePNG(f, img)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return errors.Wrapf(err, "cannot write %s", path)
	}
	return nil
}

// export runs a bild encoder on the standard library view of img.
func export(img *imaging.Image, encode imgio.Encoder, f *os.File) error {
	return encode(f, img.ToImage())
}
