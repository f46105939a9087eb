package render

import (
	"image"
	"image/color"
	"math"

	"github.com/gosuda/prism/ast"
)

// Framebuffer is a row-major pixel surface holding one packed 0xRRGGBB value
// per pixel. Alpha is never stored.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []uint32
}

func NewFramebuffer(width, height int) *Framebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	fb := &Framebuffer{Width: width, Height: height, Pix: make([]uint32, width*height)}
	fb.Clear(0xFFFFFF)
	return fb
}

func (fb *Framebuffer) Clear(c uint32) {
	for i := range fb.Pix {
		fb.Pix[i] = c
	}
}

func (fb *Framebuffer) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return 0
	}
	return fb.Pix[y*fb.Width+x]
}

func (fb *Framebuffer) SetPixel(x, y int, c uint32) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	fb.Pix[y*fb.Width+x] = c
}

// FillRect clips to the buffer; empty or fully outside rectangles are no-ops.
func (fb *Framebuffer) FillRect(x, y, w, h int, c uint32) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for py := y0; py < y1; py++ {
		row := fb.Pix[py*fb.Width : (py+1)*fb.Width]
		for px := x0; px < x1; px++ {
			row[px] = c
		}
	}
}

func (fb *Framebuffer) Outline(x, y, w, h int, c uint32, thickness int) {
	fb.FillRect(x, y, w, thickness, c)
	fb.FillRect(x, y+h-thickness, w, thickness, c)
	fb.FillRect(x, y, thickness, h, c)
	fb.FillRect(x+w-thickness, y, thickness, h, c)
}

// BlendPixel composites c over the destination using coverage as the weight.
func (fb *Framebuffer) BlendPixel(x, y int, c uint32, coverage uint8) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height || coverage == 0 {
		return
	}
	i := y*fb.Width + x
	fb.Pix[i] = blend(fb.Pix[i], c, uint32(coverage))
}

// BlendRect draws a translucent color using its own alpha as the weight.
func (fb *Framebuffer) BlendRect(x, y, w, h int, c ast.Color) {
	if c.A == 255 {
		fb.FillRect(x, y, w, h, c.U32())
		return
	}
	if c.A == 0 || w <= 0 || h <= 0 {
		return
	}
	src := c.U32()
	for py := max(y, 0); py < min(y+h, fb.Height); py++ {
		for px := max(x, 0); px < min(x+w, fb.Width); px++ {
			i := py*fb.Width + px
			fb.Pix[i] = blend(fb.Pix[i], src, uint32(c.A))
		}
	}
}

func blend(dst, src, a uint32) uint32 {
	inv := 255 - a
	r := ((src>>16&0xFF)*a + (dst>>16&0xFF)*inv) / 255
	g := ((src>>8&0xFF)*a + (dst>>8&0xFF)*inv) / 255
	b := ((src&0xFF)*a + (dst&0xFF)*inv) / 255
	return r<<16 | g<<8 | b
}

// FillRoundedGradient fills a rounded rectangle whose color runs from top to
// bottom, one interpolated color per scanline. Only the top and bottom corner
// bands are narrowed.
func (fb *Framebuffer) FillRoundedGradient(x, y, w, h, radius int, top, bottom uint32) {
	if w <= 0 || h <= 0 {
		return
	}
	x1, y1 := x+w-1, y+h-1
	r := max(min(radius, w/2, h/2), 0)
	for py := max(y, 0); py <= min(y1, fb.Height-1); py++ {
		t := 0.0
		if h > 1 {
			t = float64(py-y) / float64(h-1)
		}
		c := lerpColor(top, bottom, t)

		left, right := x, x1
		dy := 0
		switch {
		case r > 0 && py < y+r:
			dy = y + r - py
		case r > 0 && py > y1-r:
			dy = py - (y1 - r)
		}
		if dy > 0 {
			dx := int(math.Floor(math.Sqrt(max(float64(r*r-dy*dy), 0))))
			left = x + r - dx
			right = x1 - r + dx
		}
		xs, xe := max(left, 0), min(right, fb.Width-1)
		for px := xs; px <= xe; px++ {
			fb.Pix[py*fb.Width+px] = c
		}
	}
}

// Dim halves every channel of every pixel.
func (fb *Framebuffer) Dim() {
	for i, p := range fb.Pix {
		fb.Pix[i] = (p >> 1) & 0x7F7F7F
	}
}

// RGBA copies the buffer into an opaque image.
func (fb *Framebuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.Pix[y*fb.Width+x]
			img.SetRGBA(x, y, color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 255})
		}
	}
	return img
}

// RGB returns the pixels as packed 3-byte triples.
func (fb *Framebuffer) RGB() []byte {
	out := make([]byte, 0, len(fb.Pix)*3)
	for _, p := range fb.Pix {
		out = append(out, byte(p>>16), byte(p>>8), byte(p))
	}
	return out
}

func lerpColor(a, b uint32, t float64) uint32 {
	t = math.Max(0, math.Min(1, t))
	ch := func(shift uint) uint32 {
		ca := float64(a >> shift & 0xFF)
		cb := float64(b >> shift & 0xFF)
		v := math.Round(ca + (cb-ca)*t)
		return uint32(math.Max(0, math.Min(255, v)))
	}
	return ch(16)<<16 | ch(8)<<8 | ch(0)
}
