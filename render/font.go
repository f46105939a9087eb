package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// LineMetrics are whole-pixel vertical metrics for one font size.
type LineMetrics struct {
	Ascent  int
	Descent int
	Gap     int
}

func (m LineMetrics) Height() int {
	return m.Ascent + m.Descent + m.Gap
}

// Glyph is a coverage mask positioned relative to the pen on the baseline.
type Glyph struct {
	Mask    []uint8
	W, H    int
	OffX    int
	OffY    int
	Advance int
}

// Font is the text capability the layout engine depends on.
type Font interface {
	Measure(text string, size float64) int
	LineMetrics(size float64) LineMetrics
	Rasterize(r rune, size float64) (Glyph, bool)
}

const (
	minFontSize = 1
	maxFontSize = 512
	maxFaces    = 32
	maxGlyphs   = 4096
)

// clampSize bounds a script-provided size and snaps it to quarter points so
// nearby sizes share a face.
func clampSize(size float64) float64 {
	if math.IsNaN(size) {
		return minFontSize
	}
	size = math.Max(minFontSize, math.Min(maxFontSize, size))
	return math.Round(size*4) / 4
}

type glyphKey struct {
	r    rune
	size float64
}

// GoFont renders with the embedded Go Regular typeface.
type GoFont struct {
	mu     sync.Mutex
	font   *opentype.Font
	faces  map[float64]font.Face
	glyphs map[glyphKey]Glyph
}

func NewGoFont() (*GoFont, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &GoFont{font: f, faces: map[float64]font.Face{}, glyphs: map[glyphKey]Glyph{}}, nil
}

var (
	defaultFontOnce sync.Once
	defaultFont     *GoFont
)

// DefaultFont returns a shared GoFont. The typeface is compiled in, so a
// parse failure is a build defect.
func DefaultFont() *GoFont {
	defaultFontOnce.Do(func() {
		f, err := NewGoFont()
		if err != nil {
			panic("render: embedded font: " + err.Error())
		}
		defaultFont = f
	})
	return defaultFont
}

// face returns the cached face for an already clamped size. Both caches
// start over once full.
func (g *GoFont) face(size float64) font.Face {
	if f, ok := g.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(g.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil
	}
	if len(g.faces) >= maxFaces {
		clear(g.faces)
		clear(g.glyphs)
	}
	g.faces[size] = f
	return f
}

func (g *GoFont) Measure(text string, size float64) int {
	if text == "" {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	f := g.face(clampSize(size))
	if f == nil {
		return 0
	}
	return font.MeasureString(f, text).Ceil()
}

func (g *GoFont) LineMetrics(size float64) LineMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	size = clampSize(size)
	f := g.face(size)
	if f == nil {
		s := int(math.Ceil(size))
		return LineMetrics{Ascent: s, Descent: int(math.Ceil(size * 0.25))}
	}
	m := f.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	return LineMetrics{Ascent: asc, Descent: desc, Gap: max(m.Height.Ceil()-asc-desc, 0)}
}

func (g *GoFont) Rasterize(r rune, size float64) (Glyph, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	size = clampSize(size)
	key := glyphKey{r: r, size: size}
	if gl, ok := g.glyphs[key]; ok {
		return gl, true
	}
	f := g.face(size)
	if f == nil {
		return Glyph{}, false
	}
	dr, mask, maskp, adv, ok := f.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return Glyph{}, false
	}
	gl := Glyph{
		W:       dr.Dx(),
		H:       dr.Dy(),
		OffX:    dr.Min.X,
		OffY:    dr.Min.Y,
		Advance: adv.Round(),
	}
	gl.Mask = coverage(mask, maskp, gl.W, gl.H)
	if len(g.glyphs) >= maxGlyphs {
		clear(g.glyphs)
	}
	g.glyphs[key] = gl
	return gl, true
}

// coverage copies the mask out of the face's shared scratch buffer.
func coverage(mask image.Image, at image.Point, w, h int) []uint8 {
	out := make([]uint8, w*h)
	if a, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			off := a.PixOffset(at.X, at.Y+y)
			copy(out[y*w:(y+1)*w], a.Pix[off:off+w])
		}
		return out
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = color.AlphaModel.Convert(mask.At(at.X+x, at.Y+y)).(color.Alpha).A
		}
	}
	return out
}
