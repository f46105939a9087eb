package prism

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gosuda/prism/ast"
	"github.com/gosuda/prism/render"
	pruntime "github.com/gosuda/prism/runtime"
)

const defaultBlink = 500 * time.Millisecond

type Options struct {
	ScopeMode     pruntime.ScopeMode
	Logger        *log.Logger
	BlinkInterval time.Duration
	// Font defaults to the embedded Go Regular face.
	Font render.Font
	// OutputHook receives every effect as soon as a statement produces it.
	OutputHook func(pruntime.Output)
}

// Instance is one running application: its state, the interpreter that
// mutates it and the engine that draws it. Events are processed one at a
// time; nothing here is safe for concurrent use.
type Instance struct {
	app       *ast.App
	state     *pruntime.State
	interp    *pruntime.Interpreter
	engine    *render.Engine
	logger    *log.Logger
	blink     time.Duration
	lastBlink time.Time
}

func New(app *ast.App, opts Options) *Instance {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	blink := opts.BlinkInterval
	if blink <= 0 {
		blink = defaultBlink
	}
	st := NewState(app, opts.ScopeMode)
	interp := pruntime.NewInterpreter(app.Actions, st)
	interp.SetLogger(logger)
	interp.SetOutputHook(opts.OutputHook)
	return &Instance{
		app:    app,
		state:  st,
		interp: interp,
		engine: render.New(opts.Font, app.Components),
		logger: logger,
		blink:  blink,
	}
}

func (in *Instance) App() *ast.App {
	return in.app
}

func (in *Instance) State() *pruntime.State {
	return in.state
}

func (in *Instance) Engine() *render.Engine {
	return in.engine
}

// Render lays out and paints the view into fb and clears the dirty flag.
func (in *Instance) Render(fb *render.Framebuffer, scroll int) {
	in.engine.Render(fb, in.app.View, in.state, scroll)
	in.state.MarkClean()
}

func (in *Instance) ContentHeight(width int) int {
	return in.engine.ContentHeight(in.app.View, in.state, width)
}

// ClampScroll bounds a scroll offset to [0, contentHeight-viewportH].
func (in *Instance) ClampScroll(scroll, viewportW, viewportH int) int {
	limit := max(in.ContentHeight(viewportW)-viewportH, 0)
	return min(max(scroll, 0), limit)
}

// Report writes the layout report of the view at the given width.
func (in *Instance) Report(w io.Writer, width int) error {
	return in.engine.Report(w, in.app.View, in.state, width)
}

func (in *Instance) Dirty() bool {
	return in.state.IsDirty()
}

func (in *Instance) Invalidate() {
	in.state.Invalidate()
}

// HandleClick dispatches a click against the regions of the last render.
// Link regions are reported as unhandled; the host follows their Href.
func (in *Instance) HandleClick(x, y int) bool {
	box, ok := in.engine.HitTest(x, y)
	if !ok {
		if in.engine.SetFocus("") {
			in.state.Invalidate()
		}
		return false
	}
	if box.Action != "" && in.interp.RunAction(box.Action, box.Args) {
		in.logger.Debug("action", "name", box.Action, "args", len(box.Args))
		return true
	}
	if box.Binding != "" {
		in.engine.SetFocus(box.Binding)
		in.state.Invalidate()
		return true
	}
	return false
}

// Href reports the link target under the point, if any.
func (in *Instance) Href(x, y int) (string, bool) {
	box, ok := in.engine.HitTest(x, y)
	if !ok || box.Href == "" {
		return "", false
	}
	return box.Href, true
}

func (in *Instance) Focused() string {
	return in.engine.Focus()
}

// Blur drops input focus, invalidating when something was focused.
func (in *Instance) Blur() bool {
	if !in.engine.SetFocus("") {
		return false
	}
	in.state.Invalidate()
	return true
}

// HandleKey appends r to the focused binding.
func (in *Instance) HandleKey(r rune) bool {
	name := in.engine.Focus()
	if name == "" {
		return false
	}
	in.state.Set(name, pruntime.Str(in.focusedText()+string(r)))
	in.showCursor()
	return true
}

// HandleBackspace drops the last rune of the focused binding.
func (in *Instance) HandleBackspace() bool {
	name := in.engine.Focus()
	if name == "" {
		return false
	}
	runes := []rune(in.focusedText())
	if len(runes) == 0 {
		return false
	}
	in.state.Set(name, pruntime.Str(string(runes[:len(runes)-1])))
	in.showCursor()
	return true
}

func (in *Instance) focusedText() string {
	v, _ := in.state.Value(in.engine.Focus())
	return v.String()
}

func (in *Instance) showCursor() {
	in.engine.SetCursorVisible(true)
	in.lastBlink = time.Time{}
}

// Tick advances the cursor blink and reports whether a redraw is needed.
func (in *Instance) Tick(now time.Time) bool {
	if in.lastBlink.IsZero() {
		in.lastBlink = now
		return false
	}
	if now.Sub(in.lastBlink) < in.blink {
		return false
	}
	in.lastBlink = now
	in.engine.SetCursorVisible(!in.engine.CursorVisible())
	if in.engine.Focus() == "" {
		return false
	}
	in.state.Invalidate()
	return true
}

// RunAction runs a named action directly, as a click on its button would.
func (in *Instance) RunAction(name string, args ...pruntime.Value) bool {
	return in.interp.RunAction(name, args)
}

// Outputs drains the effects buffered since the previous call. Effects
// handed to an OutputHook are not buffered.
func (in *Instance) Outputs() []pruntime.Output {
	return in.interp.Outputs()
}

// LastNavigation returns the most recent route requested by navigate.
func (in *Instance) LastNavigation() string {
	return in.interp.Route()
}

func (in *Instance) TakeNavigation() (string, bool) {
	return in.interp.TakeNavigation()
}

func (in *Instance) Boxes() []render.Box {
	return in.engine.Boxes()
}
