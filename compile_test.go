package prism_test

import (
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/gosuda/prism"
	"github.com/gosuda/prism/parser"
	"github.com/gosuda/prism/render"
	pruntime "github.com/gosuda/prism/runtime"
)

type fixedFont struct{}

func (fixedFont) Measure(text string, size float64) int {
	return utf8.RuneCountInString(text) * int(size/2)
}

func (fixedFont) LineMetrics(size float64) render.LineMetrics {
	return render.LineMetrics{Ascent: int(size), Descent: int(size / 4)}
}

func (fixedFont) Rasterize(rune, float64) (render.Glyph, bool) {
	return render.Glyph{}, false
}

func compile(t *testing.T, src string, opts prism.Options) *prism.Instance {
	t.Helper()
	opts.Font = fixedFont{}
	inst, err := prism.Compile(src, opts)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return inst
}

func TestCompileAndClickCounter(t *testing.T) {
	inst := compile(t, `
@app "Counter"
state { count: 0 }
view { column {
  button "+" { on_click: increment }
  text "Count: {count}"
} }
actions { increment { count = count + 1 } }
`, prism.Options{})

	fb := render.NewFramebuffer(200, 100)
	inst.Render(fb, 0)
	if inst.Dirty() {
		t.Fatalf("render should clear the dirty flag")
	}
	if !inst.HandleClick(10, 10) {
		t.Fatalf("click on the button was not handled")
	}
	if got := inst.State().Get("count").AsInt(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if !inst.Dirty() {
		t.Fatalf("action should mark the state dirty")
	}
	if inst.App().Name != "Counter" {
		t.Fatalf("app name = %q", inst.App().Name)
	}
}

func TestClickPassesHandlerArgs(t *testing.T) {
	inst := compile(t, `
state { items: ["a", "b", "c"] }
view { column {
  button "x" { on_click: remove_at(1) }
} }
actions { remove_at(i) { remove items i } }
`, prism.Options{})
	inst.Render(render.NewFramebuffer(200, 100), 0)
	inst.HandleClick(5, 5)

	want := []string{"a", "c"}
	var got []string
	for _, v := range inst.State().Get("items").Items() {
		got = append(got, v.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}
}

func TestInputEditing(t *testing.T) {
	inst := compile(t, `
state { name: "" }
view { column { input { bind: name } } }
`, prism.Options{})
	fb := render.NewFramebuffer(400, 100)
	inst.Render(fb, 0)

	if inst.HandleKey('x') {
		t.Fatalf("keys without focus should be ignored")
	}
	if !inst.HandleClick(10, 10) {
		t.Fatalf("click on the input should focus it")
	}
	if inst.Engine().Focus() != "name" {
		t.Fatalf("focus = %q", inst.Engine().Focus())
	}
	for _, r := range "hé!" {
		inst.HandleKey(r)
	}
	if !inst.HandleBackspace() {
		t.Fatalf("backspace should remove a rune")
	}
	if got := inst.State().Get("name").String(); got != "hé" {
		t.Fatalf("name = %q, want %q", got, "hé")
	}
	inst.HandleBackspace()
	inst.HandleBackspace()
	if inst.HandleBackspace() {
		t.Fatalf("backspace on empty text should report false")
	}

	inst.Render(fb, 0)
	if inst.HandleClick(390, 90) {
		t.Fatalf("click on empty space should not be handled")
	}
	if inst.Engine().Focus() != "" || !inst.Dirty() {
		t.Fatalf("missing the input should clear focus and invalidate")
	}
}

func TestLinkClickIsLeftToHost(t *testing.T) {
	inst := compile(t, `view { column { link "About" { href: "about.prism" } } }`, prism.Options{})
	inst.Render(render.NewFramebuffer(200, 100), 0)
	if inst.HandleClick(5, 5) {
		t.Fatalf("link clicks are handled by the host")
	}
	if href, ok := inst.Href(5, 5); !ok || href != "about.prism" {
		t.Fatalf("href = %q, %v", href, ok)
	}
}

func TestClampScroll(t *testing.T) {
	inst := compile(t, `view { column { box { height: 500 } } }`, prism.Options{})
	cases := []struct{ in, want int }{
		{-50, 0},
		{120, 120},
		{1000, 300},
	}
	for _, tc := range cases {
		if got := inst.ClampScroll(tc.in, 100, 200); got != tc.want {
			t.Fatalf("ClampScroll(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := inst.ClampScroll(50, 100, 900); got != 0 {
		t.Fatalf("short content should not scroll, got %d", got)
	}
}

func TestTickBlinksOnlyWhenFocused(t *testing.T) {
	inst := compile(t, `
state { q: "" }
view { column { input { bind: q } } }
`, prism.Options{BlinkInterval: 100 * time.Millisecond})
	inst.Render(render.NewFramebuffer(400, 100), 0)

	start := time.Unix(1000, 0)
	if inst.Tick(start) || inst.Tick(start.Add(150*time.Millisecond)) {
		t.Fatalf("blink without focus should not redraw")
	}

	inst.HandleClick(10, 10)
	inst.Render(render.NewFramebuffer(400, 100), 0)
	visible := inst.Engine().CursorVisible()
	if inst.Tick(start.Add(200 * time.Millisecond)) {
		t.Fatalf("interval has not elapsed yet")
	}
	if !inst.Tick(start.Add(300*time.Millisecond)) || !inst.Dirty() {
		t.Fatalf("focused blink should invalidate")
	}
	if inst.Engine().CursorVisible() == visible {
		t.Fatalf("cursor visibility should toggle")
	}
}

func TestStateInitAndComputed(t *testing.T) {
	inst := compile(t, `
state { a: 2  b: a * 3 }
computed { c: b + 1 }
view { text "{c}" }
actions { bump { a = 10 } }
`, prism.Options{})
	if got := inst.State().Get("c").AsInt(); got != 7 {
		t.Fatalf("c = %d, want 7", got)
	}
	inst.RunAction("bump")
	if got := inst.State().Get("c").AsInt(); got != 7 {
		t.Fatalf("b is a stored value, so c should stay 7; got %d", got)
	}
}

func TestNavigationAndOutputs(t *testing.T) {
	var hooked []pruntime.Output
	inst := compile(t, `
view { text "x" }
actions { go {
  log "leaving"
  navigate "/about"
} }
`, prism.Options{OutputHook: func(o pruntime.Output) { hooked = append(hooked, o) }})

	if _, ok := inst.TakeNavigation(); ok {
		t.Fatalf("no navigation requested yet")
	}
	inst.RunAction("go")
	if route, ok := inst.TakeNavigation(); !ok || route != "/about" {
		t.Fatalf("navigation = %q, %v", route, ok)
	}
	if _, ok := inst.TakeNavigation(); ok {
		t.Fatalf("navigation should be consumed")
	}
	if inst.LastNavigation() != "/about" {
		t.Fatalf("last navigation = %q", inst.LastNavigation())
	}
	if len(hooked) != 2 || hooked[0].Kind != pruntime.OutputLog || hooked[1].Kind != pruntime.OutputNavigate {
		t.Fatalf("hooked outputs = %+v", hooked)
	}
	if outs := inst.Outputs(); len(outs) != 0 {
		t.Fatalf("hooked outputs should not be buffered, got %+v", outs)
	}
}

func TestCompileReportsParseErrors(t *testing.T) {
	_, err := prism.Compile(`view { bogus }`, prism.Options{})
	var perr *parser.Error
	if !errors.As(err, &perr) || perr.Line != 1 {
		t.Fatalf("err = %v, want a positioned parse error", err)
	}
	if _, err := prism.Parse(`view { text "ok" }`); err != nil {
		t.Fatalf("parse: %v", err)
	}
}
