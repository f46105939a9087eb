package render_test

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/gosuda/prism/ast"
	"github.com/gosuda/prism/parser"
	"github.com/gosuda/prism/render"
	pruntime "github.com/gosuda/prism/runtime"
)

// fakeFont advances size/2 per rune and rasterizes every rune as a solid box.
type fakeFont struct{}

func (fakeFont) Measure(text string, size float64) int {
	return utf8.RuneCountInString(text) * int(size/2)
}

func (fakeFont) LineMetrics(size float64) render.LineMetrics {
	return render.LineMetrics{Ascent: int(size), Descent: int(size / 4)}
}

func (fakeFont) Rasterize(r rune, size float64) (render.Glyph, bool) {
	w, h := int(size/2), int(size)
	mask := make([]uint8, w*h)
	for i := range mask {
		mask[i] = 255
	}
	return render.Glyph{Mask: mask, W: w, H: h, OffY: -h, Advance: w}, true
}

func load(t *testing.T, src string) (*ast.App, *pruntime.State, *render.Engine) {
	t.Helper()
	app, err := parser.ParseApp(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	st := pruntime.NewState(pruntime.ScopeShared)
	for _, name := range app.StateOrder {
		st.Set(name, pruntime.Eval(app.State[name], st))
	}
	return app, st, render.New(fakeFont{}, app.Components)
}

func measure(t *testing.T, src string, width int) (int, int) {
	t.Helper()
	app, st, eng := load(t, src)
	return eng.Measure(app.View, st, width)
}

func TestColumnStacksChildrenWithGaps(t *testing.T) {
	_, h := measure(t, `view { column { gap: 5
  spacer { height: 10 }
  spacer { height: 20 }
  spacer { height: 30 }
} }`, 800)
	if h != 75 {
		t.Fatalf("column height = %d, want 75", h)
	}

	w, h := measure(t, `view { column { padding: 4  gap: 2
  box { width: 50 height: 10 }
  box { width: 30 height: 10 }
} }`, 800)
	if w != 58 || h != 30 {
		t.Fatalf("padded column = %dx%d, want 58x30", w, h)
	}
}

func TestRowCentersContent(t *testing.T) {
	app, st, eng := load(t, `view { row { gap: 10
  box { width: 20 height: 10 background: #ff0000 }
  box { width: 20 height: 10 background: #0000ff }
} }`)
	fb := render.NewFramebuffer(100, 20)
	eng.Render(fb, app.View, st, 0)

	cases := []struct {
		x    int
		want uint32
	}{
		{24, 0xFFFFFF},
		{25, 0xFF0000},
		{44, 0xFF0000},
		{45, 0xFFFFFF},
		{55, 0x0000FF},
		{74, 0x0000FF},
		{75, 0xFFFFFF},
	}
	for _, tc := range cases {
		if got := fb.At(tc.x, 5); got != tc.want {
			t.Fatalf("pixel at x=%d is %06x, want %06x", tc.x, got, tc.want)
		}
	}
}

func TestRowRegistersButtonsInOrder(t *testing.T) {
	app, st, eng := load(t, `view { row { gap: 10
  button "OK" { on_click: ok }
  button "No" { on_click: cancel }
} }`)
	eng.Render(render.NewFramebuffer(100, 40), app.View, st, 0)

	want := []render.Box{
		{Rect: render.Rect{X: 9, Y: 0, W: 36, H: 36}, Action: "ok"},
		{Rect: render.Rect{X: 55, Y: 0, W: 36, H: 36}, Action: "cancel"},
	}
	if diff := cmp.Diff(want, eng.Boxes()); diff != "" {
		t.Fatalf("boxes (-want +got):\n%s", diff)
	}
}

func TestGridPlacesCellsRowMajor(t *testing.T) {
	src := `view { column {
  grid { columns: 2  gap: 10
    box { width: 20 height: 10 background: #ff0000 }
    box { width: 20 height: 10 background: #00ff00 }
    box { width: 20 height: 10 background: #0000ff }
    box { width: 20 height: 10 background: #000000 }
  }
} }`
	w, h := measure(t, src, 100)
	if w != 50 || h != 30 {
		t.Fatalf("grid measured %dx%d, want 50x30", w, h)
	}

	app, st, eng := load(t, src)
	fb := render.NewFramebuffer(100, 40)
	eng.Render(fb, app.View, st, 0)
	for _, p := range []struct {
		x, y int
		want uint32
	}{
		{0, 0, 0xFF0000},
		{44, 9, 0xFF0000},
		{50, 5, 0xFFFFFF},
		{55, 0, 0x00FF00},
		{0, 15, 0xFFFFFF},
		{0, 20, 0x0000FF},
		{99, 29, 0x000000},
	} {
		if got := fb.At(p.x, p.y); got != p.want {
			t.Fatalf("pixel (%d,%d) = %06x, want %06x", p.x, p.y, got, p.want)
		}
	}
}

func TestHitTestFirstRegisteredWins(t *testing.T) {
	app, st, eng := load(t, `view { column {
  box { height: 0
    button "AAA" { on_click: first }
  }
  button "BBB" { on_click: second }
} }`)
	eng.Render(render.NewFramebuffer(200, 100), app.View, st, 0)

	boxes := eng.Boxes()
	if len(boxes) != 2 || boxes[0].Rect != boxes[1].Rect {
		t.Fatalf("expected two overlapping boxes, got %+v", boxes)
	}
	got, ok := eng.HitTest(5, 5)
	if !ok || got.Action != "first" {
		t.Fatalf("hit = %+v, %v; want the earlier region", got, ok)
	}
	if _, ok := eng.HitTest(199, 99); ok {
		t.Fatalf("empty area should not hit")
	}
}

func TestVisibilityAndSwitch(t *testing.T) {
	_, h := measure(t, `state { show: false }
view { column {
  text "hidden" { visible: show }
  spacer { height: 10 }
  spacer { height: 10 visible: false }
} }`, 400)
	if h != 10 {
		t.Fatalf("invisible children should not take space, height = %d", h)
	}

	_, h = measure(t, `view { switch {
  spacer { height: 10 visible: false }
  spacer { height: 20 }
  spacer { height: 30 }
} }`, 400)
	if h != 20 {
		t.Fatalf("switch should show its first visible child, height = %d", h)
	}
}

func TestEachBindsItemAndIndex(t *testing.T) {
	src := `state { names: ["a", "b", "c"] }
actions { remove_at(i) { remove names i } }
view { column {
  each { items: names  as: name
    button "del {name}" { on_click: remove_at(index) }
  }
} }`
	app, st, eng := load(t, src)
	if _, h := eng.Measure(app.View, st, 400); h != 3*36+2*4 {
		t.Fatalf("each height = %d, want %d", h, 3*36+2*4)
	}
	eng.Render(render.NewFramebuffer(400, 200), app.View, st, 0)
	boxes := eng.Boxes()
	if len(boxes) != 3 {
		t.Fatalf("expected a box per item, got %d", len(boxes))
	}
	for i, b := range boxes {
		if b.Action != "remove_at" || len(b.Args) != 1 || b.Args[0].AsInt() != int64(i) {
			t.Fatalf("box %d = %+v", i, b)
		}
		if b.Rect.Y != i*(36+4) {
			t.Fatalf("box %d at y=%d, want %d", i, b.Rect.Y, i*40)
		}
	}
}

func TestComponentsExpandAndForward(t *testing.T) {
	_, h := measure(t, `components {
  Pair { spacer { height: 7 } spacer { height: 8 } }
  Frame { column { padding: 2  slot } }
}
view { column {
  Pair
  Frame { spacer { height: 10 } }
  Missing { spacer { height: 5 } }
} }`, 400)
	if want := 15 + 14 + 5; h != want {
		t.Fatalf("component column height = %d, want %d", h, want)
	}

	w, _ := measure(t, `components { Title { text "{label}" } }
view { Title { label: "hi" } }`, 400)
	if want := 21; w != want {
		t.Fatalf("component props should bind as variables, width = %d, want %d", w, want)
	}
}

func TestTextWrapsGreedily(t *testing.T) {
	w, h := measure(t, `view { text "aaa bbb ccc" { size: 10 } }`, 50)
	if w != 42 || h != 24 {
		t.Fatalf("wrapped text = %dx%d, want 42x24", w, h)
	}
}

func TestScrollShiftsContent(t *testing.T) {
	app, st, eng := load(t, `view { column {
  box { height: 40 background: #ff0000 }
} }`)
	fb := render.NewFramebuffer(50, 50)
	eng.Render(fb, app.View, st, 20)
	if got := fb.At(0, 19); got != 0xFF0000 {
		t.Fatalf("pixel above the scrolled edge = %06x", got)
	}
	if got := fb.At(0, 20); got != 0xFFFFFF {
		t.Fatalf("pixel past the content = %06x", got)
	}
	if got := eng.ContentHeight(app.View, st, 50); got != 40 {
		t.Fatalf("content height = %d", got)
	}
}

func TestInputFocusAndCursor(t *testing.T) {
	app, st, eng := load(t, `state { name: "" }
view { column { input { bind: name  placeholder: "Your name" } } }`)
	fb := render.NewFramebuffer(300, 60)
	eng.Render(fb, app.View, st, 0)
	if got := fb.At(0, 0); got != 0xCCCCCC {
		t.Fatalf("unfocused border = %06x", got)
	}
	b, ok := eng.HitTest(10, 10)
	if !ok || b.Binding != "name" || b.Rect.W != 280 {
		t.Fatalf("input region = %+v, %v", b, ok)
	}

	if !eng.SetFocus("name") || eng.SetFocus("name") {
		t.Fatalf("SetFocus should report a change only once")
	}
	eng.Render(fb, app.View, st, 0)
	if got := fb.At(1, 1); got != 0x4285F4 {
		t.Fatalf("focused border = %06x", got)
	}
}

func TestOpenModalDimsAndOwnsInput(t *testing.T) {
	app, st, eng := load(t, `view { column {
  button "AAA" { on_click: behind }
  modal { open: true
    button "BBB" { on_click: inside }
  }
} }`)
	fb := render.NewFramebuffer(600, 400)
	eng.Render(fb, app.View, st, 0)
	if got := fb.At(599, 399); got != 0x7F7F7F {
		t.Fatalf("backdrop = %06x, want dimmed white", got)
	}
	if got := fb.At(300, 200); got != 0xFFFFFF {
		t.Fatalf("dialog = %06x, want white", got)
	}
	boxes := eng.Boxes()
	if len(boxes) != 1 || boxes[0].Action != "inside" {
		t.Fatalf("boxes = %+v", boxes)
	}
	if boxes[0].Rect.X != 120 || boxes[0].Rect.Y != 70 {
		t.Fatalf("dialog content at (%d,%d)", boxes[0].Rect.X, boxes[0].Rect.Y)
	}
}

func TestReport(t *testing.T) {
	app, st, eng := load(t, `view { column { padding: 10
  text "hi"
  button "Go" { on_click: go }
} }`)
	var buf bytes.Buffer
	if err := eng.Report(&buf, app.View, st, 200); err != nil {
		t.Fatalf("report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("report lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "column width_limit=200") {
		t.Fatalf("root line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  text width_limit=180") || !strings.Contains(lines[1], `content="hi"`) {
		t.Fatalf("child line = %q", lines[1])
	}
}

func TestMarkdownMeasureAndPaint(t *testing.T) {
	src := `view { markdown "# Title\n\n    x\n    y\n\n---\n\n- one\n- two\n\n3. a\n4. b\n\nend" }`
	// heading 28+7, code 2*(14+3), rule 9, four list lines and a
	// paragraph at 16+4, with 6 between each of the 8 blocks.
	want := 35 + 34 + 9 + 5*20 + 7*6
	if _, h := measure(t, src, 400); h != want {
		t.Fatalf("markdown height = %d, want %d", h, want)
	}

	app, st, eng := load(t, src)
	fb := render.NewFramebuffer(400, 300)
	eng.Render(fb, app.View, st, 0)
	if got := fb.At(300, 45); got != 0xF5F5F5 {
		t.Fatalf("code block background = %06x", got)
	}
	if got := fb.At(300, 35+6+34+6-1); got != 0xFFFFFF {
		t.Fatalf("gap before the rule = %06x", got)
	}
}

func TestButtonShading(t *testing.T) {
	app, st, eng := load(t, `view { column { button "OK" { background: #000000 on_click: ok } } }`)
	fb := render.NewFramebuffer(100, 40)
	eng.Render(fb, app.View, st, 0)
	for _, p := range []struct {
		y    int
		want uint32
	}{
		{0, 0x141414},
		{1, 0x383838},
		{34, 0x000000},
	} {
		if got := fb.At(18, p.y); got != p.want {
			t.Fatalf("button row %d = %06x, want %06x", p.y, got, p.want)
		}
	}
}
