package pixel

import (
	"fmt"
	"strings"
)

// Format identifies the channel layout of a pixel.
//
// Every format stores one byte per channel, in the order given by its name.
type Format uint8

const (
	// Gray is a single luminance channel.
	Gray Format = iota

	// GrayAlpha is luminance followed by alpha.
	GrayAlpha

	// RGB is red, green, blue.
	RGB

	// RGBA is red, green, blue, alpha.
	RGBA

	formatCount
)

// formatInfo describes the fixed properties of a format.
type formatInfo struct {
	name     string
	channels int
	alpha    bool
	color    bool
}

var formatInfoTable = [formatCount]formatInfo{
	Gray:      {name: "gray", channels: 1},
	GrayAlpha: {name: "gray_alpha", channels: 2, alpha: true},
	RGB:       {name: "rgb", channels: 3, color: true},
	RGBA:      {name: "rgba", channels: 4, alpha: true, color: true},
}

// Formats lists every supported format in declaration order.
var Formats = []Format{Gray, GrayAlpha, RGB, RGBA}

// MaxChannels is the widest pixel any format produces.
const MaxChannels = 4

// Valid reports whether f is one of the declared formats.
func (f Format) Valid() bool {
	return f < formatCount
}

// Channels returns the number of bytes one pixel of this format occupies.
func (f Format) Channels() int {
	return f.info().channels
}

// HasAlpha reports whether the format carries an alpha channel.
func (f Format) HasAlpha() bool {
	return f.info().alpha
}

// HasColor reports whether the format carries red, green and blue channels.
func (f Format) HasColor() bool {
	return f.info().color
}

// String returns the lower-case name used on the command line and in tool arguments.
func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return f.info().name
}

// MarshalText encodes the format by name.
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid pixel format %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText accepts any spelling ParseFormat accepts.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Format) info() formatInfo {
	if !f.Valid() {
		// Out-of-range values come from unchecked conversions; treat as Gray
		// so size arithmetic stays non-zero.
		return formatInfoTable[Gray]
	}
	return formatInfoTable[f]
}

// ParseFormat converts a format name into a Format.
//
// Names are case-insensitive. Accepted spellings:
//   - "gray", "grey", "l"
//   - "gray_alpha", "grayalpha", "gray-alpha", "ga", "la"
//   - "rgb"
//   - "rgba", "rgb_alpha"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gray", "grey", "l":
		return Gray, nil
	case "gray_alpha", "grayalpha", "gray-alpha", "grey_alpha", "ga", "la":
		return GrayAlpha, nil
	case "rgb":
		return RGB, nil
	case "rgba", "rgb_alpha", "rgb-alpha":
		return RGBA, nil
	default:
		return Gray, fmt.Errorf("unknown pixel format: %q", name)
	}
}
