// Package detection finds structure in image buffers that a crop can act on.
//
// DetectMargins locates the uniform border around an image's content and
// reports it as per-edge crop amounts. It backs the auto-trim in both the tool
// server and the command line.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Limitations
//
// The background is whatever the top-left pixel holds. Images whose border is
// a gradient, or whose corner belongs to the content, need a tolerance or are
// not trimmed at all. Scanning is O(width*height) in the worst case.
package detection
