package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gosuda/prism/render"
)

const halfBlock = "▀"

// presenter turns a framebuffer into terminal rows. Each cell covers
// cellW x cellH pixels: the upper half colours the glyph, the lower half
// its background.
type presenter struct {
	cellW, cellH int
	styles       map[[2]uint32]lipgloss.Style
}

func newPresenter(cellW, cellH int) *presenter {
	return &presenter{
		cellW:  max(cellW, 1),
		cellH:  max(cellH, 2),
		styles: map[[2]uint32]lipgloss.Style{},
	}
}

// pixelSize is the framebuffer size that fills cols x rows cells.
func (p *presenter) pixelSize(cols, rows int) (int, int) {
	return max(cols, 1) * p.cellW, max(rows, 1) * p.cellH
}

// cellCenter maps a terminal cell to the pixel at its centre.
func (p *presenter) cellCenter(col, row int) (int, int) {
	return col*p.cellW + p.cellW/2, row*p.cellH + p.cellH/2
}

func (p *presenter) Render(fb *render.Framebuffer, cols, rows int) string {
	half := p.cellH / 2
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		y := r * p.cellH
		run, count := [2]uint32{}, 0
		for c := 0; c < cols; c++ {
			x := c * p.cellW
			pair := [2]uint32{
				average(fb, x, y, p.cellW, half),
				average(fb, x, y+half, p.cellW, p.cellH-half),
			}
			if count > 0 && pair != run {
				sb.WriteString(p.style(run).Render(strings.Repeat(halfBlock, count)))
				count = 0
			}
			run = pair
			count++
		}
		if count > 0 {
			sb.WriteString(p.style(run).Render(strings.Repeat(halfBlock, count)))
		}
	}
	return sb.String()
}

func (p *presenter) style(pair [2]uint32) lipgloss.Style {
	if s, ok := p.styles[pair]; ok {
		return s
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(toColor(pair[0]).Hex())).
		Background(lipgloss.Color(toColor(pair[1]).Hex()))
	p.styles[pair] = s
	return s
}

func toColor(px uint32) colorful.Color {
	return colorful.Color{
		R: float64(px>>16&0xFF) / 255,
		G: float64(px>>8&0xFF) / 255,
		B: float64(px&0xFF) / 255,
	}
}

func fromColor(c colorful.Color) uint32 {
	r, g, b := c.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// average mixes the pixels of a block in linear RGB. Pixels outside the
// buffer count as white.
func average(fb *render.Framebuffer, x, y, w, h int) uint32 {
	if w <= 0 || h <= 0 {
		return 0xFFFFFF
	}
	var r, g, b float64
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			px := uint32(0xFFFFFF)
			if xx < fb.Width && yy < fb.Height {
				px = fb.At(xx, yy)
			}
			lr, lg, lb := toColor(px).LinearRgb()
			r += lr
			g += lg
			b += lb
		}
	}
	n := float64(w * h)
	return fromColor(colorful.LinearRgb(r/n, g/n, b/n))
}
