package browser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/gosuda/prism/browser"
	"github.com/gosuda/prism/history"
	"github.com/gosuda/prism/render"
	"github.com/gosuda/prism/sandbox"
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

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newSession(opts browser.Options) *browser.Session {
	opts.Font = fixedFont{}
	if opts.Width == 0 {
		opts.Width, opts.Height = 400, 300
	}
	return browser.New(opts)
}

func TestBackAndForward(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"a.prism": `@app "A"
view { text "a" }`,
		"b.prism": `@app "B"
view { text "b" }`,
	})
	s := newSession(browser.Options{})
	if err := s.Load(filepath.Join(dir, "a.prism")); err != nil {
		t.Fatalf("load a: %v", err)
	}
	if err := s.Load("b.prism"); err != nil {
		t.Fatalf("relative load: %v", err)
	}
	if s.Title() != "B" || !s.CanGoBack() || s.CanGoForward() {
		t.Fatalf("after two loads: title %q back %v forward %v", s.Title(), s.CanGoBack(), s.CanGoForward())
	}
	if err := s.Back(); err != nil || s.Title() != "A" {
		t.Fatalf("back: %v, title %q", err, s.Title())
	}
	if err := s.Forward(); err != nil || s.Location() != filepath.Join(dir, "b.prism") {
		t.Fatalf("forward: %v, location %q", err, s.Location())
	}
}

func TestLoadFailuresShowErrorPage(t *testing.T) {
	s := newSession(browser.Options{})
	err := s.Load("https://example.com/app.prism")
	if !errors.Is(err, browser.ErrNetworkDisabled) || !errors.Is(s.Err(), browser.ErrNetworkDisabled) {
		t.Fatalf("remote load = %v", err)
	}
	if s.Title() != "Error" || s.Frame() == nil {
		t.Fatalf("error page not shown, title %q", s.Title())
	}
	if err := s.Load("../escape.prism"); !errors.Is(err, sandbox.ErrPathTraversal) {
		t.Fatalf("traversal = %v", err)
	}
	if err := s.Load("notes.txt"); !errors.Is(err, sandbox.ErrInvalidExtension) {
		t.Fatalf("extension = %v", err)
	}

	dir := writeDocs(t, map[string]string{"bad.prism": `view { nope }`})
	if err := s.Load(filepath.Join(dir, "bad.prism")); err == nil {
		t.Fatalf("parse errors should fail the load")
	}
	if used, limit := s.MemoryUsage(); used != 0 || limit != sandbox.MemoryLimit {
		t.Fatalf("failed loads should release memory, usage = %d of %d", used, limit)
	}
}

func TestLinksAndRoutes(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"home.prism": `view { column {
  link "Next" { href: "next.prism" }
} }`,
		"next.prism": `view { column {
  button "Go" { on_click: go }
} }
actions { go { navigate "/end" } }
routes { "/end": "end.prism" }`,
		"end.prism": `@app "End"
view { text "done" }`,
	})
	s := newSession(browser.Options{})
	if err := s.Load(filepath.Join(dir, "home.prism")); err != nil {
		t.Fatal(err)
	}
	s.Frame()
	if ok, err := s.Click(5, 5); !ok || err != nil {
		t.Fatalf("link click = %v, %v", ok, err)
	}
	if s.Location() != filepath.Join(dir, "next.prism") {
		t.Fatalf("location = %q", s.Location())
	}
	s.Frame()
	if ok, err := s.Click(10, 10); !ok || err != nil {
		t.Fatalf("route click = %v, %v", ok, err)
	}
	if s.Title() != "End" {
		t.Fatalf("route should load end.prism, title %q", s.Title())
	}
}

func TestScrollAndResize(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"tall.prism": `view { column { box { height: 1000  background: #ff0000 } } }`,
	})
	s := newSession(browser.Options{Width: 100, Height: 200})
	if err := s.Load(filepath.Join(dir, "tall.prism")); err != nil {
		t.Fatal(err)
	}
	s.Scroll(3)
	if s.ScrollOffset() != 120 {
		t.Fatalf("scroll = %d, want 120", s.ScrollOffset())
	}
	s.Scroll(100)
	if s.ScrollOffset() != 800 {
		t.Fatalf("scroll = %d, want 800", s.ScrollOffset())
	}
	s.Resize(100, 500)
	if s.ScrollOffset() != 500 {
		t.Fatalf("resize should clamp scroll, got %d", s.ScrollOffset())
	}
	fb := s.Frame()
	if fb.Width != 100 || fb.Height != 500 || fb.At(0, 499) != 0xFF0000 {
		t.Fatalf("frame %dx%d bottom pixel %06x", fb.Width, fb.Height, fb.At(0, 499))
	}
	if s.NeedsFrame() {
		t.Fatalf("frame should be clean after painting")
	}
	s.Scroll(-100)
	if s.ScrollOffset() != 0 || !s.NeedsFrame() {
		t.Fatalf("scroll up = %d", s.ScrollOffset())
	}
}

func TestVisitsAreRecorded(t *testing.T) {
	dir := writeDocs(t, map[string]string{"a.prism": `view { text "a" }`})
	store, err := history.Open(filepath.Join(t.TempDir(), "h.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	s := newSession(browser.Options{History: store})
	s.Load(filepath.Join(dir, "a.prism"))
	s.Load("https://example.com/x.prism")
	visits, err := store.Recent(10)
	if err != nil || len(visits) != 1 || visits[0].Location != filepath.Join(dir, "a.prism") {
		t.Fatalf("visits = %+v, %v", visits, err)
	}
}
