package render

import (
	"strings"
	"unicode/utf8"
)

// approxWidth is the per-character estimate used while measuring.
func approxWidth(s string, size float64) int {
	return int(float64(utf8.RuneCountInString(s))*size*0.55) + 4
}

// wrap fills lines greedily, word by word, against limit.
func wrap(content string, size float64, limit int) []string {
	if content == "" || limit <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curW := 0
	space := approxWidth(" ", size)
	for _, word := range strings.Fields(content) {
		ww := approxWidth(word, size)
		switch {
		case cur.Len() == 0:
			cur.WriteString(word)
			curW = ww
		case curW+space+ww <= limit:
			cur.WriteByte(' ')
			cur.WriteString(word)
			curW += space + ww
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
			curW = ww
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func (e *Engine) lineHeight(size float64) int {
	return e.font.LineMetrics(size).Height()
}

// baseline centers one line vertically in a box starting at top.
func (e *Engine) baseline(top, height int, size float64) int {
	m := e.font.LineMetrics(size)
	return top + max(height-m.Height(), 0)/2 + m.Ascent
}

// textWidth is the wider of the glyph advance sum and the estimate.
func (e *Engine) textWidth(s string, size float64) int {
	if s == "" {
		return 0
	}
	return max(e.font.Measure(s, size), approxWidth(s, size))
}

func (e *Engine) drawText(fb *Framebuffer, s string, x, baseline int, size float64, c uint32) {
	pen := x
	for _, r := range s {
		g, ok := e.font.Rasterize(r, size)
		if !ok {
			continue
		}
		gx, gy := pen+g.OffX, baseline+g.OffY
		for row := 0; row < g.H; row++ {
			for col := 0; col < g.W; col++ {
				fb.BlendPixel(gx+col, gy+row, c, g.Mask[row*g.W+col])
			}
		}
		pen += g.Advance
	}
}

// glyphBounds returns the ink box of s relative to the pen origin.
func (e *Engine) glyphBounds(s string, size float64) (x0, y0, x1, y1 int, ok bool) {
	pen := 0
	for _, r := range s {
		g, has := e.font.Rasterize(r, size)
		if !has {
			continue
		}
		if g.W > 0 && g.H > 0 {
			gx0, gy0 := pen+g.OffX, g.OffY
			if !ok {
				x0, y0, x1, y1, ok = gx0, gy0, gx0+g.W, gy0+g.H, true
			} else {
				x0, y0 = min(x0, gx0), min(y0, gy0)
				x1, y1 = max(x1, gx0+g.W), max(y1, gy0+g.H)
			}
		}
		pen += g.Advance
	}
	return x0, y0, x1, y1, ok
}

// fitTail keeps the end of s that fits in limit pixels.
func (e *Engine) fitTail(s string, size float64, limit int) string {
	for s != "" && e.font.Measure(s, size) > limit {
		_, n := utf8.DecodeRuneInString(s)
		s = s[n:]
	}
	return s
}

// fitHead keeps the start of s that fits in limit pixels.
func (e *Engine) fitHead(s string, size float64, limit int) string {
	for s != "" && e.font.Measure(s, size) > limit {
		_, n := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-n]
	}
	return s
}
