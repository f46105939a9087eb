package render_test

import (
	"testing"

	"github.com/gosuda/prism/ast"
	"github.com/gosuda/prism/render"
)

func TestFillRectClips(t *testing.T) {
	fb := render.NewFramebuffer(10, 10)
	fb.FillRect(-5, -5, 10, 10, 0x112233)
	if fb.At(4, 4) != 0x112233 || fb.At(5, 5) != 0xFFFFFF {
		t.Fatalf("clipped fill wrong: (4,4)=%06x (5,5)=%06x", fb.At(4, 4), fb.At(5, 5))
	}
	fb.FillRect(20, 20, 5, 5, 0)
	fb.FillRect(0, 0, 0, 5, 0)
	if fb.At(0, 0) != 0x112233 {
		t.Fatalf("out-of-bounds or empty fills must not draw")
	}
}

func TestOutlineThickness(t *testing.T) {
	fb := render.NewFramebuffer(10, 10)
	fb.Outline(0, 0, 10, 10, 0, 2)
	for _, p := range [][2]int{{1, 1}, {8, 8}, {0, 5}, {9, 5}} {
		if got := fb.At(p[0], p[1]); got != 0 {
			t.Fatalf("edge pixel %v = %06x", p, got)
		}
	}
	if got := fb.At(2, 2); got != 0xFFFFFF {
		t.Fatalf("interior pixel = %06x", got)
	}
}

func TestBlending(t *testing.T) {
	fb := render.NewFramebuffer(2, 1)
	fb.BlendPixel(0, 0, 0x000000, 128)
	if got := fb.At(0, 0); got != 0x7F7F7F {
		t.Fatalf("coverage blend = %06x", got)
	}
	fb.BlendRect(1, 0, 1, 1, ast.RGBA(255, 0, 0, 0))
	if got := fb.At(1, 0); got != 0xFFFFFF {
		t.Fatalf("transparent blend should not draw, got %06x", got)
	}
	fb.BlendRect(1, 0, 1, 1, ast.RGBA(0, 0, 255, 51))
	if got := fb.At(1, 0); got != 0xCCCCFF {
		t.Fatalf("alpha blend = %06x", got)
	}
}

func TestRoundedGradient(t *testing.T) {
	fb := render.NewFramebuffer(10, 10)
	fb.FillRoundedGradient(0, 0, 10, 10, 5, 0xFF0000, 0xFF0000)
	if got := fb.At(0, 0); got != 0xFFFFFF {
		t.Fatalf("corner should stay clear, got %06x", got)
	}
	for _, p := range [][2]int{{5, 5}, {1, 5}, {5, 0}} {
		if got := fb.At(p[0], p[1]); got != 0xFF0000 {
			t.Fatalf("pixel %v = %06x", p, got)
		}
	}

	fb = render.NewFramebuffer(1, 3)
	fb.FillRoundedGradient(0, 0, 1, 3, 0, 0x000000, 0xFFFFFF)
	want := []uint32{0x000000, 0x808080, 0xFFFFFF}
	for y, w := range want {
		if got := fb.At(0, y); got != w {
			t.Fatalf("row %d = %06x, want %06x", y, got, w)
		}
	}
}

func TestDimHalvesChannels(t *testing.T) {
	fb := render.NewFramebuffer(1, 1)
	fb.SetPixel(0, 0, 0xFF8001)
	fb.Dim()
	if got := fb.At(0, 0); got != 0x7F4000 {
		t.Fatalf("dim = %06x", got)
	}
	if rgb := fb.RGB(); len(rgb) != 3 || rgb[0] != 0x7F || rgb[1] != 0x40 {
		t.Fatalf("rgb bytes = %v", rgb)
	}
}

func TestGoFont(t *testing.T) {
	f := render.DefaultFont()
	if w := f.Measure("Prism", 16); w <= 0 {
		t.Fatalf("measure = %d", w)
	}
	if f.Measure("", 16) != 0 {
		t.Fatalf("empty text should be zero wide")
	}
	m := f.LineMetrics(16)
	if m.Ascent <= 0 || m.Descent <= 0 || m.Height() < 16 {
		t.Fatalf("metrics = %+v", m)
	}
	g, ok := f.Rasterize('A', 16)
	if !ok || g.W == 0 || g.H == 0 || len(g.Mask) != g.W*g.H || g.OffY >= 0 {
		t.Fatalf("glyph = %+v, %v", g, ok)
	}
	covered := false
	for _, a := range g.Mask {
		if a > 0 {
			covered = true
			break
		}
	}
	if !covered {
		t.Fatalf("glyph mask is empty")
	}
}
