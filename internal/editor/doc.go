// Package editor holds the interactive crop state that sits between a user and
// an immutable imaging.Image.
//
// A Session accumulates per-edge crop amounts from absolute requests, nudges
// and key presses, and produces the cropped view on demand. Unlike
// imaging.Image.Crop, which leaves an over-cropped axis untouched, a Session
// never lets an axis shrink below one pixel: requests are clamped as they are
// applied.
package editor
