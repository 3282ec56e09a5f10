package server

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ironsheep/png-crop/internal/codec"
	"github.com/ironsheep/png-crop/internal/detection"
	"github.com/ironsheep/png-crop/internal/editor"
	"github.com/ironsheep/png-crop/internal/imaging"
	"github.com/ironsheep/png-crop/internal/pixel"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Looks up the crop session for the path, loading the image on first use
//  4. Works on the session's cropped view
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Crop Session
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_nudge":
		return s.handleImageCropNudge(args)
	case "image_crop_key":
		return s.handleImageCropKey(args)
	case "image_crop_reset":
		return s.handleImageCropReset(args)
	case "image_crop_auto":
		return s.handleImageCropAuto(args)

	// Rendering
	case "image_render":
		return s.handleImageRender(args)
	case "image_convert":
		return s.handleImageConvert(args)
	case "image_flip":
		return s.handleImageFlip(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Output
	case "image_save":
		return s.handleImageSave(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// flip mirrors img. An empty direction returns img unchanged.
func flip(img *imaging.Image, direction string) (*imaging.Image, error) {
	switch direction {
	case "":
		return img, nil
	case "horizontal":
		return img.FlipHorizontal(), nil
	case "vertical":
		return img.FlipVertical(), nil
	default:
		return nil, fmt.Errorf("unknown flip direction %q (want horizontal or vertical)", direction)
	}
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if _, err := s.restart(a.Path); err != nil {
		return nil, err
	}
	return codec.LoadImageInfo(s.cache, a.Path)
}

// ViewInfo describes a session: the source size, the crop amounts and the
// size of the resulting view.
type ViewInfo struct {
	SourceWidth  int            `json:"source_width"`
	SourceHeight int            `json:"source_height"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Format       string         `json:"format"`
	Crop         editor.Amounts `json:"crop"`
	Done         bool           `json:"done,omitempty"`
}

func viewInfo(sess *editor.Session) *ViewInfo {
	src := sess.Source()
	a := sess.Amounts()
	view := sess.View()
	return &ViewInfo{
		SourceWidth:  src.Width(),
		SourceHeight: src.Height(),
		Width:        view.Width(),
		Height:       view.Height(),
		Format:       src.Format().String(),
		Crop:         a,
	}
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	return viewInfo(sess), nil
}

// === Crop Session Handlers ===

type imageCropArgs struct {
	Path   string  `json:"path"`
	Left   int     `json:"left"`
	Right  int     `json:"right"`
	Top    int     `json:"top"`
	Bottom int     `json:"bottom"`
	Scale  float64 `json:"scale"`
}

// CropResult is the session state after a crop request plus a preview.
type CropResult struct {
	ViewInfo
	Preview *imaging.PreviewResult `json:"preview"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	sess.Set(editor.Amounts{Left: a.Left, Right: a.Right, Top: a.Top, Bottom: a.Bottom})
	preview, err := imaging.Preview(sess.View(), a.Scale, false)
	if err != nil {
		return nil, fmt.Errorf("failed to render crop: %w", err)
	}
	return &CropResult{ViewInfo: *viewInfo(sess), Preview: preview}, nil
}

type imageCropNudgeArgs struct {
	Path    string `json:"path"`
	Edge    string `json:"edge"`
	Delta   int    `json:"delta"`
	Release bool   `json:"release"`
}

func (s *Server) handleImageCropNudge(args json.RawMessage) (interface{}, error) {
	var a imageCropNudgeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Delta == 0 {
		a.Delta = 1
	}
	edge, err := editor.ParseEdge(a.Edge)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	if a.Release {
		sess.Release(edge, a.Delta)
	} else {
		sess.Grow(edge, a.Delta)
	}
	return viewInfo(sess), nil
}

type imageCropKeyArgs struct {
	Path  string `json:"path"`
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
	Ctrl  bool   `json:"ctrl"`
}

func (s *Server) handleImageCropKey(args json.RawMessage) (interface{}, error) {
	var a imageCropKeyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	key, err := editor.ParseKey(a.Key)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	done := sess.HandleKey(key, editor.Modifiers{Shift: a.Shift, Ctrl: a.Ctrl})
	info := viewInfo(sess)
	info.Done = done
	return info, nil
}

func (s *Server) handleImageCropReset(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	return viewInfo(sess), nil
}

type imageCropAutoArgs struct {
	Path      string `json:"path"`
	Tolerance int    `json:"tolerance"`
}

// AutoCropResult is the session state after trimming plus what was detected.
type AutoCropResult struct {
	ViewInfo
	Detected *detection.MarginsResult `json:"detected"`
}

func (s *Server) handleImageCropAuto(args json.RawMessage) (interface{}, error) {
	var a imageCropAutoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Tolerance < 0 || a.Tolerance > 255 {
		return nil, fmt.Errorf("tolerance must be between 0 and 255, got %d", a.Tolerance)
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	detected := detection.DetectMargins(sess.Source(), a.Tolerance)
	m := detected.Margins
	sess.Set(editor.Amounts{Left: m.Left, Right: m.Right, Top: m.Top, Bottom: m.Bottom})
	return &AutoCropResult{ViewInfo: *viewInfo(sess), Detected: detected}, nil
}

// === Rendering Handlers ===

type imageRenderArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
	Raw   bool    `json:"raw"`
}

func (s *Server) handleImageRender(args json.RawMessage) (interface{}, error) {
	var a imageRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(sess.View(), a.Scale, a.Raw)
}

type imageConvertArgs struct {
	Path   string  `json:"path"`
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageConvert(args json.RawMessage) (interface{}, error) {
	var a imageConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	format, err := pixel.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(sess.View().Convert(format), a.Scale, false)
}

type imageFlipArgs struct {
	Path      string  `json:"path"`
	Direction string  `json:"direction"`
	Scale     float64 `json:"scale"`
}

func (s *Server) handleImageFlip(args json.RawMessage) (interface{}, error) {
	var a imageFlipArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.Direction == "" {
		return nil, fmt.Errorf("direction is required")
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	flipped, err := flip(sess.View(), a.Direction)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(flipped, a.Scale, false)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(sess.View(), a.X, a.Y)
}

// === Output Handlers ===

type imageSaveArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Format string `json:"format"`
	Flip   string `json:"flip"`
}

// SaveResult describes a written file.
type SaveResult struct {
	Output string `json:"output"`
	codec.ImageInfo
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output is required")
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	out := sess.View()
	if a.Format != "" {
		format, err := pixel.ParseFormat(a.Format)
		if err != nil {
			return nil, err
		}
		out = out.Convert(format)
	}
	if out, err = flip(out, a.Flip); err != nil {
		return nil, err
	}

	if err := codec.Save(a.Output, out); err != nil {
		return nil, err
	}
	// A written file replaces whatever was loaded from that path.
	s.cache.Evict(a.Output)
	s.mu.Lock()
	delete(s.sessions, a.Output)
	s.mu.Unlock()

	stat, err := os.Stat(a.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output: %w", err)
	}
	return &SaveResult{Output: a.Output, ImageInfo: *codec.Describe(out, stat.Size())}, nil
}
