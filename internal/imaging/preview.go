package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/png-crop/internal/pixel"
)

// PreviewResult contains a rendered view of a buffer.
type PreviewResult struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	Format       string `json:"format"`
	ImageBase64  string `json:"image_base64"`
	MimeType     string `json:"mime_type"`
}

// Preview renders the image as an RGBA PNG, optionally scaled.
//
// A scale other than 1 (and greater than 0) resizes the view with a Lanczos
// filter; the buffer itself is not modified. When raw is true the RGBA bytes are
// returned unencoded and the MIME type is "application/octet-stream".
func Preview(img *Image, scale float64, raw bool) (*PreviewResult, error) {
	if img.Empty() {
		return nil, fmt.Errorf("cannot render empty image (%dx%d)", img.Width(), img.Height())
	}

	view := img.ToImage()
	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(img.Width()) * scale)
		newHeight := int(float64(img.Height()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		view = imaging.Resize(view, newWidth, newHeight, imaging.Lanczos)
	}

	result := &PreviewResult{
		Width:        view.Bounds().Dx(),
		Height:       view.Bounds().Dy(),
		SourceWidth:  img.Width(),
		SourceHeight: img.Height(),
		Format:       img.Format().String(),
	}

	if raw {
		pix, _, _ := FromImage(view, pixel.RGBA).RGBA()
		result.ImageBase64 = base64.StdEncoding.EncodeToString(pix)
		result.MimeType = "application/octet-stream"
		return result, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	result.MimeType = "image/png"
	return result, nil
}
