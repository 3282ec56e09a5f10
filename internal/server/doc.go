// Package server implements the MCP (Model Context Protocol) server for interactive cropping.
//
// This package provides a JSON-RPC 2.0 server that exposes the crop session,
// format conversion and rendering through the MCP protocol. It is the
// interactive presentation of the cropper: a client loads an image, adjusts
// the crop with absolute amounts, nudges or key presses, looks at previews and
// finally saves the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image, get metadata and start a new crop session
//   - image_dimensions: Source size, crop amounts and view size
//
// Crop Session:
//   - image_crop: Set absolute crop amounts and preview the view
//   - image_crop_nudge: Crop or release one edge
//   - image_crop_key: Apply an arrow/R/Escape key press
//   - image_crop_reset: Clear the crop
//   - image_crop_auto: Crop away the uniform border
//
// Rendering:
//   - image_render: Cropped view as PNG or raw RGBA
//   - image_convert: Cropped view converted to another pixel format
//   - image_flip: Cropped view mirrored
//
// Color Operations:
//   - image_sample_color: Pixel of the cropped view
//
// Output:
//   - image_save: Write the cropped view to disk
//
// # Sessions
//
// Every tool takes a path. The first call for a path decodes the file through
// the codec cache and starts an editor.Session for it; later calls reuse the
// session, so crop amounts accumulate across calls. image_load re-reads the
// file and starts over. Sessions live for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
