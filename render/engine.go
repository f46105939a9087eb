// Package render lays out and paints a view tree into a Framebuffer.
//
// Every render runs two passes over the whole tree. Measure derives an
// intrinsic size for a node against a width limit; paint positions and draws
// each visible child, re-measuring as it goes, and records interactive
// regions. Nothing is cached between passes or frames.
package render

import (
	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) inset(p int) Rect {
	return Rect{X: r.X + p, Y: r.Y + p, W: max(r.W-2*p, 0), H: max(r.H-2*p, 0)}
}

// Box is an interactive region recorded during paint. Exactly one of Action,
// Binding and Href is set.
type Box struct {
	Rect    Rect
	Action  string
	Args    []pruntime.Value
	Binding string
	Href    string
}

const maxComponentDepth = 64

type Engine struct {
	font       Font
	components map[string]*ast.ViewNode

	boxes    []Box
	focus    string
	cursorOn bool

	slots    [][]*ast.ViewNode
	depth    int
	overlays []overlay
}

type overlay struct {
	node *ast.ViewNode
	env  pruntime.Env
}

// New creates an engine. A nil font selects DefaultFont.
func New(f Font, components map[string]*ast.ViewNode) *Engine {
	if f == nil {
		f = DefaultFont()
	}
	return &Engine{font: f, components: components, cursorOn: true}
}

func (e *Engine) Font() Font {
	return e.font
}

// Render clears fb, paints root with its origin shifted up by scroll and
// rebuilds the interactive region registry.
func (e *Engine) Render(fb *Framebuffer, root *ast.ViewNode, env pruntime.Env, scroll int) {
	e.boxes = e.boxes[:0]
	e.overlays = e.overlays[:0]
	e.slots = e.slots[:0]
	e.depth = 0

	fb.Clear(0xFFFFFF)
	if root == nil {
		return
	}
	if bg := e.colorProp(root, "background", env, ast.White); bg != ast.White {
		fb.BlendRect(0, 0, fb.Width, fb.Height, bg)
	}
	e.paint(fb, root, env, Rect{X: 0, Y: -scroll, W: fb.Width, H: fb.Height}, true)
	for i := 0; i < len(e.overlays); i++ {
		o := e.overlays[i]
		e.paintOverlay(fb, o.node, o.env)
	}
}

// ContentHeight measures root against width.
func (e *Engine) ContentHeight(root *ast.ViewNode, env pruntime.Env, width int) int {
	if root == nil {
		return 0
	}
	_, h := e.Measure(root, env, width)
	return h
}

// Measure returns the intrinsic size of node against a width limit.
func (e *Engine) Measure(node *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	e.depth = 0
	e.slots = e.slots[:0]
	return e.measure(node, env, max(limit, 0))
}

// HitTest returns the earliest registered region containing the point.
func (e *Engine) HitTest(x, y int) (Box, bool) {
	for _, b := range e.boxes {
		if b.Rect.Contains(x, y) {
			return b, true
		}
	}
	return Box{}, false
}

func (e *Engine) Boxes() []Box {
	out := make([]Box, len(e.boxes))
	copy(out, e.boxes)
	return out
}

func (e *Engine) Focus() string {
	return e.focus
}

// SetFocus moves input focus and restarts the cursor blink. It reports
// whether focus changed.
func (e *Engine) SetFocus(binding string) bool {
	if e.focus == binding {
		return false
	}
	e.focus = binding
	e.cursorOn = true
	return true
}

func (e *Engine) CursorVisible() bool {
	return e.cursorOn
}

func (e *Engine) SetCursorVisible(on bool) {
	e.cursorOn = on
}

func (e *Engine) register(b Box) {
	e.boxes = append(e.boxes, b)
}
