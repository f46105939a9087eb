package main

import (
	"strings"
	"testing"

	"github.com/gosuda/prism/render"
)

func TestAverageMixesBlock(t *testing.T) {
	fb := render.NewFramebuffer(2, 1)
	fb.SetPixel(0, 0, 0xFF0000)
	fb.SetPixel(1, 0, 0xFF0000)
	if got := average(fb, 0, 0, 2, 1); got != 0xFF0000 {
		t.Fatalf("uniform block = %06x", got)
	}
	if got := average(fb, 4, 4, 2, 2); got != 0xFFFFFF {
		t.Fatalf("out-of-buffer block = %06x", got)
	}
	fb.SetPixel(1, 0, 0x000000)
	got := average(fb, 0, 0, 2, 1)
	if r := got >> 16; r <= 0x80 || got&0xFFFF != 0 {
		t.Fatalf("linear mix of red and black = %06x", got)
	}
}

func TestPresenterGeometry(t *testing.T) {
	p := newPresenter(6, 12)
	if w, h := p.pixelSize(10, 5); w != 60 || h != 60 {
		t.Fatalf("pixel size = %dx%d", w, h)
	}
	if x, y := p.cellCenter(2, 3); x != 15 || y != 42 {
		t.Fatalf("cell centre = (%d,%d)", x, y)
	}

	fb := render.NewFramebuffer(12, 24)
	out := p.Render(fb, 2, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 || strings.Count(out, halfBlock) != 4 {
		t.Fatalf("render = %q", out)
	}
}
