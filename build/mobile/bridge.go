package mobile

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gosuda/prism"
	"github.com/gosuda/prism/render"
)

const maxSide = 4096

type boxPayload struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	W       int    `json:"w"`
	H       int    `json:"h"`
	Action  string `json:"action,omitempty"`
	Binding string `json:"binding,omitempty"`
	Href    string `json:"href,omitempty"`
}

type renderResult struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Pixels string       `json:"pixels,omitempty"`
	Boxes  []boxPayload `json:"boxes,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Render compiles a document, paints one frame of width x height and returns
// JSON with base64 RGB pixels and the interactive regions.
func Render(src string, width, height int) string {
	result := renderResult{Width: width, Height: height}
	if width <= 0 || height <= 0 || width > maxSide || height > maxSide {
		result.Error = fmt.Sprintf("invalid size %dx%d", width, height)
		b, _ := json.Marshal(result)
		return string(b)
	}

	inst, err := prism.Compile(src, prism.Options{})
	if err != nil {
		result.Error = fmt.Sprintf("compile: %v", err)
		b, _ := json.Marshal(result)
		return string(b)
	}

	fb := render.NewFramebuffer(width, height)
	inst.Render(fb, 0)
	result.Pixels = base64.StdEncoding.EncodeToString(fb.RGB())
	for _, box := range inst.Boxes() {
		result.Boxes = append(result.Boxes, boxPayload{
			X: box.Rect.X, Y: box.Rect.Y, W: box.Rect.W, H: box.Rect.H,
			Action: box.Action, Binding: box.Binding, Href: box.Href,
		})
	}

	b, _ := json.Marshal(result)
	return string(b)
}
