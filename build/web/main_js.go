//go:build js && wasm

package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/gosuda/prism"
	"github.com/gosuda/prism/render"
)

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
	Route  string       `json:"route,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// page is the document loaded by prismLoad; the event functions act on it.
var page struct {
	inst   *prism.Instance
	fb     *render.Framebuffer
	scroll int
}

func encode(result renderResult) string {
	b, _ := json.Marshal(result)
	return string(b)
}

func frame() renderResult {
	result := renderResult{Width: page.fb.Width, Height: page.fb.Height}
	page.scroll = page.inst.ClampScroll(page.scroll, page.fb.Width, page.fb.Height)
	page.inst.Render(page.fb, page.scroll)
	result.Pixels = base64.StdEncoding.EncodeToString(page.fb.RGB())
	for _, box := range page.inst.Boxes() {
		result.Boxes = append(result.Boxes, boxPayload{
			X: box.Rect.X, Y: box.Rect.Y, W: box.Rect.W, H: box.Rect.H,
			Action: box.Action, Binding: box.Binding, Href: box.Href,
		})
	}
	if route, ok := page.inst.TakeNavigation(); ok {
		result.Route = route
	}
	return result
}

func size(args []js.Value) (int, int, error) {
	if len(args) < 3 {
		return 0, 0, fmt.Errorf("expected source, width and height")
	}
	w, h := args[1].Int(), args[2].Int()
	if w <= 0 || h <= 0 || w > 4096 || h > 4096 {
		return 0, 0, fmt.Errorf("invalid size %dx%d", w, h)
	}
	return w, h, nil
}

// prismRender(src, w, h) paints one frame of a document without keeping it.
func prismRender(this js.Value, args []js.Value) any {
	w, h, err := size(args)
	if err != nil {
		return encode(renderResult{Error: err.Error()})
	}
	inst, err := prism.Compile(args[0].String(), prism.Options{})
	if err != nil {
		return encode(renderResult{Width: w, Height: h, Error: fmt.Sprintf("compile: %v", err)})
	}
	fb := render.NewFramebuffer(w, h)
	inst.Render(fb, 0)
	result := renderResult{Width: w, Height: h, Pixels: base64.StdEncoding.EncodeToString(fb.RGB())}
	for _, box := range inst.Boxes() {
		result.Boxes = append(result.Boxes, boxPayload{
			X: box.Rect.X, Y: box.Rect.Y, W: box.Rect.W, H: box.Rect.H,
			Action: box.Action, Binding: box.Binding, Href: box.Href,
		})
	}
	return encode(result)
}

// prismLoad(src, w, h) keeps the document for the event functions below.
func prismLoad(this js.Value, args []js.Value) any {
	w, h, err := size(args)
	if err != nil {
		return encode(renderResult{Error: err.Error()})
	}
	inst, err := prism.Compile(args[0].String(), prism.Options{})
	if err != nil {
		return encode(renderResult{Width: w, Height: h, Error: fmt.Sprintf("compile: %v", err)})
	}
	page.inst, page.fb, page.scroll = inst, render.NewFramebuffer(w, h), 0
	return encode(frame())
}

func loaded() (renderResult, bool) {
	if page.inst == nil {
		return renderResult{Error: "no document loaded"}, false
	}
	return renderResult{}, true
}

func prismClick(this js.Value, args []js.Value) any {
	if res, ok := loaded(); !ok {
		return encode(res)
	}
	if len(args) >= 2 {
		page.inst.HandleClick(args[0].Int(), args[1].Int())
	}
	return encode(frame())
}

func prismKey(this js.Value, args []js.Value) any {
	if res, ok := loaded(); !ok {
		return encode(res)
	}
	if len(args) >= 1 {
		if s := args[0].String(); s == "Backspace" {
			page.inst.HandleBackspace()
		} else {
			for _, r := range s {
				page.inst.HandleKey(r)
			}
		}
	}
	return encode(frame())
}

func prismScroll(this js.Value, args []js.Value) any {
	if res, ok := loaded(); !ok {
		return encode(res)
	}
	if len(args) >= 1 {
		page.scroll += args[0].Int()
	}
	return encode(frame())
}

func main() {
	js.Global().Set("prismRender", js.FuncOf(prismRender))
	js.Global().Set("prismLoad", js.FuncOf(prismLoad))
	js.Global().Set("prismClick", js.FuncOf(prismClick))
	js.Global().Set("prismKey", js.FuncOf(prismKey))
	js.Global().Set("prismScroll", js.FuncOf(prismScroll))
	select {}
}
