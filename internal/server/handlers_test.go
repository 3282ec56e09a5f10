package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/png-crop/internal/codec"
	"github.com/ironsheep/png-crop/internal/editor"
	"github.com/ironsheep/png-crop/internal/imaging"
	"github.com/ironsheep/png-crop/internal/pixel"
)

// createTestImageFile creates a test image file and returns its path.
// The left half is c, the right half is white.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, c)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return path
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// callToolInto runs a tool that must succeed and decodes its text content into v.
func callToolInto(t *testing.T, s *Server, name string, args map[string]interface{}, v interface{}) {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %+v", name, resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("%s: result should be a map", name)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("%s: expected one content item, got %v", name, result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("%s: content type: got %v, want text", name, content[0]["type"])
	}

	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("%s: failed to decode result %q: %v", name, text, err)
	}
}

// expectToolError runs a tool that must fail and returns the error detail.
func expectToolError(t *testing.T, s *Server, name string, args map[string]interface{}) string {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error == nil {
		t.Fatalf("%s: expected an error, got result %v", name, resp.Result)
	}
	if resp.Error.Code != -32000 {
		t.Errorf("%s: error code: got %d, want -32000", name, resp.Error.Code)
	}
	detail, _ := resp.Error.Data.(string)
	return detail
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 80, color.NRGBA{255, 0, 0, 255})

	var info codec.ImageInfo
	callToolInto(t, s, "image_load", map[string]interface{}{"path": imgPath}, &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "rgb" || info.Channels != 3 {
		t.Errorf("format: got %s/%d, want rgb/3", info.Format, info.Channels)
	}
}

func TestHandleToolsCall_ImageLoadResetsSession(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 20, 20, color.Black)

	var view ViewInfo
	callToolInto(t, s, "image_crop_nudge", map[string]interface{}{"path": imgPath, "edge": "left", "delta": 5}, &view)
	if view.Crop.Left != 5 {
		t.Fatalf("nudge: got left %d, want 5", view.Crop.Left)
	}

	var info codec.ImageInfo
	callToolInto(t, s, "image_load", map[string]interface{}{"path": imgPath}, &info)

	callToolInto(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}, &view)
	if view.Crop != (editor.Amounts{}) {
		t.Errorf("image_load should reset the crop, got %+v", view.Crop)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	detail := expectToolError(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})

	if !strings.Contains(detail, "cannot read /nonexistent/image.png") {
		t.Errorf("error detail should name the file and operation, got %q", detail)
	}
}

func TestHandleToolsCall_MissingPath(t *testing.T) {
	s := New()

	detail := expectToolError(t, s, "image_dimensions", map[string]interface{}{})

	if !strings.Contains(detail, "path is required") {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New()

	detail := expectToolError(t, s, "image_ocr_full", map[string]interface{}{"path": "/x.png"})

	if !strings.Contains(detail, "unknown tool") {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`[1,2]`)})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602 for malformed params, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_ImageCrop(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 8, color.NRGBA{0, 0, 255, 255})

	var result CropResult
	callToolInto(t, s, "image_crop", map[string]interface{}{
		"path": imgPath, "left": 1, "right": 2, "top": 3, "bottom": 100,
	}, &result)

	// bottom is reduced so one row remains below the top crop.
	wantCrop := editor.Amounts{Left: 1, Right: 2, Top: 3, Bottom: 4}
	if result.Crop != wantCrop {
		t.Errorf("crop: got %+v, want %+v", result.Crop, wantCrop)
	}
	if result.Width != 7 || result.Height != 1 {
		t.Errorf("view: got %dx%d, want 7x1", result.Width, result.Height)
	}
	if result.SourceWidth != 10 || result.SourceHeight != 8 {
		t.Errorf("source: got %dx%d, want 10x8", result.SourceWidth, result.SourceHeight)
	}
	if result.Preview == nil || result.Preview.MimeType != "image/png" {
		t.Fatalf("missing PNG preview: %+v", result.Preview)
	}

	data, err := base64.StdEncoding.DecodeString(result.Preview.ImageBase64)
	if err != nil {
		t.Fatalf("preview is not base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 7 || b.Dy() != 1 {
		t.Errorf("preview size: got %dx%d, want 7x1", b.Dx(), b.Dy())
	}
}

func TestHandleToolsCall_ImageCropScaled(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.Black)

	var result CropResult
	callToolInto(t, s, "image_crop", map[string]interface{}{"path": imgPath, "left": 5, "scale": 2.0}, &result)

	if result.Preview.Width != 10 || result.Preview.Height != 20 {
		t.Errorf("scaled preview: got %dx%d, want 10x20", result.Preview.Width, result.Preview.Height)
	}
}

func TestHandleToolsCall_ImageCropNudge(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.Black)

	var view ViewInfo
	callToolInto(t, s, "image_crop_nudge", map[string]interface{}{"path": imgPath, "edge": "top"}, &view)
	if view.Crop.Top != 1 {
		t.Errorf("default delta: got top %d, want 1", view.Crop.Top)
	}

	callToolInto(t, s, "image_crop_nudge", map[string]interface{}{"path": imgPath, "edge": "top", "delta": 50}, &view)
	if view.Crop.Top != 9 || view.Height != 1 {
		t.Errorf("clamped nudge: got top %d height %d, want 9 and 1", view.Crop.Top, view.Height)
	}

	callToolInto(t, s, "image_crop_nudge", map[string]interface{}{
		"path": imgPath, "edge": "top", "delta": 4, "release": true,
	}, &view)
	if view.Crop.Top != 5 || view.Height != 5 {
		t.Errorf("release: got top %d height %d, want 5 and 5", view.Crop.Top, view.Height)
	}

	detail := expectToolError(t, s, "image_crop_nudge", map[string]interface{}{"path": imgPath, "edge": "middle"})
	if !strings.Contains(detail, "unknown edge") {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestHandleToolsCall_ImageCropKey(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 30, 30, color.Black)

	steps := []struct {
		args map[string]interface{}
		want editor.Amounts
		done bool
	}{
		{map[string]interface{}{"key": "up"}, editor.Amounts{Bottom: 1}, false},
		{map[string]interface{}{"key": "right", "ctrl": true}, editor.Amounts{Left: 10, Bottom: 1}, false},
		{map[string]interface{}{"key": "left", "shift": true}, editor.Amounts{Left: 9, Bottom: 1}, false},
		{map[string]interface{}{"key": "escape"}, editor.Amounts{Left: 9, Bottom: 1}, true},
		{map[string]interface{}{"key": "r"}, editor.Amounts{}, false},
	}

	for _, step := range steps {
		step.args["path"] = imgPath

		var view ViewInfo
		callToolInto(t, s, "image_crop_key", step.args, &view)

		if view.Crop != step.want {
			t.Errorf("key %v: got %+v, want %+v", step.args["key"], view.Crop, step.want)
		}
		if view.Done != step.done {
			t.Errorf("key %v: done got %v, want %v", step.args["key"], view.Done, step.done)
		}
	}

	detail := expectToolError(t, s, "image_crop_key", map[string]interface{}{"path": imgPath, "key": "space"})
	if !strings.Contains(detail, "unknown key") {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestHandleToolsCall_ImageCropReset(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.Black)

	var view ViewInfo
	callToolInto(t, s, "image_crop", map[string]interface{}{"path": imgPath, "left": 2, "top": 2}, &CropResult{})
	callToolInto(t, s, "image_crop_reset", map[string]interface{}{"path": imgPath}, &view)

	if view.Width != 10 || view.Height != 10 {
		t.Errorf("reset view: got %dx%d, want 10x10", view.Width, view.Height)
	}
}

func TestHandleToolsCall_ImageCropAuto(t *testing.T) {
	s := New()

	// A 9x5 white image with a black block at columns 2-4, rows 1-2.
	img := image.NewNRGBA(image.Rect(0, 0, 9, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 9; x++ {
			if x >= 2 && x < 5 && y >= 1 && y < 3 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	imgPath := filepath.Join(t.TempDir(), "framed.png")
	f, err := os.Create(imgPath)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	f.Close()

	var result AutoCropResult
	callToolInto(t, s, "image_crop_auto", map[string]interface{}{"path": imgPath}, &result)

	want := editor.Amounts{Left: 2, Right: 4, Top: 1, Bottom: 2}
	if result.Crop != want {
		t.Errorf("crop: got %+v, want %+v", result.Crop, want)
	}
	if result.Width != 3 || result.Height != 2 {
		t.Errorf("view: got %dx%d, want 3x2", result.Width, result.Height)
	}
	if result.Detected == nil || result.Detected.Background != "#FFFFFF" {
		t.Errorf("detected: got %+v", result.Detected)
	}

	expectToolError(t, s, "image_crop_auto", map[string]interface{}{"path": imgPath, "tolerance": 300})
}

func TestHandleToolsCall_ImageRenderRaw(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 4, 2, color.NRGBA{10, 20, 30, 255})

	callToolInto(t, s, "image_crop", map[string]interface{}{"path": imgPath, "right": 2}, &CropResult{})

	var preview imaging.PreviewResult
	callToolInto(t, s, "image_render", map[string]interface{}{"path": imgPath, "raw": true}, &preview)

	if preview.MimeType != "application/octet-stream" {
		t.Errorf("mime type: got %s", preview.MimeType)
	}
	raw, err := base64.StdEncoding.DecodeString(preview.ImageBase64)
	if err != nil {
		t.Fatalf("raw preview is not base64: %v", err)
	}
	if len(raw) != 2*2*4 {
		t.Fatalf("raw length: got %d, want 16", len(raw))
	}
	for i := 0; i < len(raw); i += 4 {
		if raw[i] != 10 || raw[i+1] != 20 || raw[i+2] != 30 || raw[i+3] != 255 {
			t.Errorf("pixel %d: got %v, want [10 20 30 255]", i/4, raw[i:i+4])
		}
	}
}

func TestHandleToolsCall_ImageConvert(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 4, 4, color.NRGBA{255, 0, 0, 255})

	var preview imaging.PreviewResult
	callToolInto(t, s, "image_convert", map[string]interface{}{"path": imgPath, "format": "gray"}, &preview)

	if preview.Format != "gray" {
		t.Errorf("format: got %s, want gray", preview.Format)
	}

	data, _ := base64.StdEncoding.DecodeString(preview.ImageBase64)
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if got := color.GrayModel.Convert(decoded.At(0, 0)).(color.Gray).Y; got != 76 {
		t.Errorf("red converted to gray: got %d, want 76", got)
	}

	detail := expectToolError(t, s, "image_convert", map[string]interface{}{"path": imgPath, "format": "cmyk"})
	if detail == "" {
		t.Error("expected an error detail for an unknown format")
	}
}

func TestHandleToolsCall_ImageFlip(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 4, 1, color.Black)

	var preview imaging.PreviewResult
	callToolInto(t, s, "image_flip", map[string]interface{}{"path": imgPath, "direction": "horizontal"}, &preview)

	data, _ := base64.StdEncoding.DecodeString(preview.ImageBase64)
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if r, _, _, _ := decoded.At(0, 0).RGBA(); r != 0xFFFF {
		t.Error("left pixel should be white after a horizontal flip")
	}
	if r, _, _, _ := decoded.At(3, 0).RGBA(); r != 0 {
		t.Error("right pixel should be black after a horizontal flip")
	}

	expectToolError(t, s, "image_flip", map[string]interface{}{"path": imgPath})
	expectToolError(t, s, "image_flip", map[string]interface{}{"path": imgPath, "direction": "diagonal"})
}

func TestHandleToolsCall_ImageSampleColor(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.NRGBA{255, 0, 0, 255})

	var result imaging.ColorResult
	callToolInto(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 0, "y": 0}, &result)
	if result.Hex != "#FF0000" {
		t.Errorf("hex: got %s, want #FF0000", result.Hex)
	}
	if result.Format != pixel.RGB || len(result.Channels) != 3 {
		t.Errorf("stored pixel: got %v %v", result.Format, result.Channels)
	}

	// Coordinates are relative to the cropped view.
	callToolInto(t, s, "image_crop", map[string]interface{}{"path": imgPath, "left": 5}, &CropResult{})
	callToolInto(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 0, "y": 0}, &result)
	if result.Hex != "#FFFFFF" {
		t.Errorf("hex after crop: got %s, want #FFFFFF", result.Hex)
	}

	detail := expectToolError(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 5, "y": 0})
	if !strings.Contains(detail, "outside image bounds") {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestHandleToolsCall_ImageSave(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 6, color.NRGBA{0, 255, 0, 255})
	output := filepath.Join(t.TempDir(), "out.png")

	callToolInto(t, s, "image_crop", map[string]interface{}{"path": imgPath, "right": 5, "top": 1}, &CropResult{})

	var result SaveResult
	callToolInto(t, s, "image_save", map[string]interface{}{
		"path": imgPath, "output": output, "format": "gray_alpha", "flip": "vertical",
	}, &result)

	if result.Output != output {
		t.Errorf("output: got %s, want %s", result.Output, output)
	}
	if result.Format != "gray_alpha" || result.ColorType != 4 {
		t.Errorf("saved format: got %s/%d, want gray_alpha/4", result.Format, result.ColorType)
	}
	if result.Width != 5 || result.Height != 5 {
		t.Errorf("saved size: got %dx%d, want 5x5", result.Width, result.Height)
	}

	saved, err := codec.Load(output)
	if err != nil {
		t.Fatalf("failed to load saved file: %v", err)
	}
	if saved.Format() != pixel.GrayAlpha {
		t.Errorf("saved file format: got %v, want gray_alpha", saved.Format())
	}
	if got := saved.At(0, 0); got != pixel.NewGrayAlpha(150, 255) {
		t.Errorf("saved pixel: got %v, want gray 150", got)
	}
}

func TestHandleToolsCall_ImageSaveErrors(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 4, 4, color.Black)

	detail := expectToolError(t, s, "image_save", map[string]interface{}{"path": imgPath})
	if !strings.Contains(detail, "output is required") {
		t.Errorf("unexpected detail %q", detail)
	}

	badOutput := filepath.Join(t.TempDir(), "missing-dir", "out.png")
	detail = expectToolError(t, s, "image_save", map[string]interface{}{"path": imgPath, "output": badOutput})
	if !strings.Contains(detail, "cannot write "+badOutput) {
		t.Errorf("error detail should name the file and operation, got %q", detail)
	}
}
