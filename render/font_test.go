package render

import "testing"

func TestFontSizeIsClamped(t *testing.T) {
	f, err := NewGoFont()
	if err != nil {
		t.Fatalf("font: %v", err)
	}
	if got, want := f.Measure("M", 1e9), f.Measure("M", maxFontSize); got != want {
		t.Fatalf("huge size measured %d, want the %d of the largest size", got, want)
	}
	if got, want := f.Measure("M", -4), f.Measure("M", minFontSize); got != want {
		t.Fatalf("negative size measured %d, want %d", got, want)
	}
	g, ok := f.Rasterize('M', 1e12)
	if !ok || g.H > 2*maxFontSize {
		t.Fatalf("glyph at huge size = %dx%d, %v", g.W, g.H, ok)
	}
}

func TestFontCachesAreBounded(t *testing.T) {
	f, err := NewGoFont()
	if err != nil {
		t.Fatalf("font: %v", err)
	}
	for i := 0; i < 3*maxFaces; i++ {
		size := 8 + float64(i)/2
		f.Rasterize('a', size)
		f.LineMetrics(size)
	}
	if len(f.faces) > maxFaces {
		t.Fatalf("faces cache holds %d entries", len(f.faces))
	}
	for size := 8.0; size < 28; size++ {
		for r := rune(0x21); r < 0x180; r++ {
			f.Rasterize(r, size)
		}
	}
	if len(f.glyphs) > maxGlyphs {
		t.Fatalf("glyph cache holds %d entries", len(f.glyphs))
	}
	if clampSize(12.1) != 12 || clampSize(12.2) != 12.25 {
		t.Fatalf("sizes should snap to quarter points")
	}
}
