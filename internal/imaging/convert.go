package imaging

import "github.com/ironsheep/png-crop/internal/pixel"

// Convert returns a new image of the same dimensions with every pixel mapped
// into the target format. Converting to the current format returns a copy.
func (m *Image) Convert(to pixel.Format) *Image {
	size := m.height * m.width * to.Channels()
	pix := pixel.ConvertBytes(make([]byte, 0, size), m.pix, m.format, to)
	return normalize(m.height, m.width, to, pix)
}
