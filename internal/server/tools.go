package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the path argument every tool takes.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file from disk and return its dimensions, pixel format and PNG color type. Starts a fresh crop session for the file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the source width and height of an image and the size of the current cropped view.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Crop Session
		{
			Name:        "image_crop",
			Description: "Set how many pixels to crop from each edge and return a preview of the cropped view. At least one row and one column always remain; oversized amounts are reduced, left first, then right, top and bottom.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"left": map[string]interface{}{
						"type":        "integer",
						"description": "Columns to remove from the left edge",
						"default":     0,
					},
					"right": map[string]interface{}{
						"type":        "integer",
						"description": "Columns to remove from the right edge",
						"default":     0,
					},
					"top": map[string]interface{}{
						"type":        "integer",
						"description": "Rows to remove from the top edge",
						"default":     0,
					},
					"bottom": map[string]interface{}{
						"type":        "integer",
						"description": "Rows to remove from the bottom edge",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional preview scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop_nudge",
			Description: "Crop more from one edge, or give pixels back to it with release=true. Returns the new crop amounts and view size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"edge": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"left", "right", "top", "bottom"},
						"description": "Edge to adjust",
					},
					"delta": map[string]interface{}{
						"type":        "integer",
						"description": "Number of pixels to move the edge. Default 1",
						"default":     1,
					},
					"release": map[string]interface{}{
						"type":        "boolean",
						"description": "Uncrop instead of crop",
						"default":     false,
					},
				},
				"required": []string{"path", "edge"},
			},
		},
		{
			Name:        "image_crop_key",
			Description: "Apply a key press to the crop session. Arrow keys move the visible edge in the arrow's direction (Up crops from the bottom, Right crops from the left); with shift they release the opposite edge. Ctrl moves ten pixels. R resets.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"key": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"up", "down", "left", "right", "r", "escape"},
						"description": "Key that was pressed",
					},
					"shift": map[string]interface{}{
						"type":        "boolean",
						"description": "Shift held",
						"default":     false,
					},
					"ctrl": map[string]interface{}{
						"type":        "boolean",
						"description": "Ctrl held",
						"default":     false,
					},
				},
				"required": []string{"path", "key"},
			},
		},
		{
			Name:        "image_crop_reset",
			Description: "Clear all crop amounts for an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop_auto",
			Description: "Detect the uniform border around the image content (background taken from the top-left pixel) and set the crop to remove it. A solid image is left uncropped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"tolerance": map[string]interface{}{
						"type":        "integer",
						"description": "Largest per-channel difference (0-255) still treated as background. Default 0",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Rendering
		{
			Name:        "image_render",
			Description: "Render the current cropped view as RGBA and return it as base64-encoded PNG, or as raw RGBA bytes with raw=true.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
					"raw": map[string]interface{}{
						"type":        "boolean",
						"description": "Return unencoded RGBA bytes instead of PNG",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_convert",
			Description: "Convert the current cropped view to another pixel format and return a preview. Color to gray uses 0.3R + 0.59G + 0.11B.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"gray", "gray_alpha", "rgb", "rgba"},
						"description": "Target pixel format",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "format"},
			},
		},
		{
			Name:        "image_flip",
			Description: "Mirror the current cropped view and return a preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"horizontal", "vertical"},
						"description": "horizontal swaps left and right, vertical swaps top and bottom",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "direction"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the stored channels and color of a pixel in the current cropped view, with hex and HSL representations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate in the cropped view (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate in the cropped view (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Output
		{
			Name:        "image_save",
			Description: "Write the current cropped view to a file. The encoding follows the output extension (.png, .jpg, .bmp); PNG keeps the exact pixel format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the file to write",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"gray", "gray_alpha", "rgb", "rgba"},
						"description": "Optional pixel format to convert to before writing",
					},
					"flip": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"horizontal", "vertical"},
						"description": "Optional mirror applied before writing",
					},
				},
				"required": []string{"path", "output"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
