package ast

import "strings"

type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func FromU32(v uint32) Color {
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

// U32 packs the color as 0xRRGGBB; alpha is dropped.
func (c Color) U32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

var (
	White     = RGB(255, 255, 255)
	Black     = RGB(0, 0, 0)
	Red       = RGB(244, 67, 54)
	Green     = RGB(76, 175, 80)
	Blue      = RGB(33, 150, 243)
	Yellow    = RGB(255, 235, 59)
	Orange    = RGB(255, 152, 0)
	Purple    = RGB(156, 39, 176)
	Gray      = RGB(158, 158, 158)
	LightGray = RGB(200, 200, 200)
	DarkGray  = RGB(66, 66, 66)
)

var namedColors = map[string]Color{
	"white":      White,
	"black":      Black,
	"red":        Red,
	"green":      Green,
	"blue":       Blue,
	"yellow":     Yellow,
	"orange":     Orange,
	"purple":     Purple,
	"gray":       Gray,
	"grey":       Gray,
	"light_gray": LightGray,
	"dark_gray":  DarkGray,
}

// ParseColor accepts #rgb, #rgba, #rrggbb, #rrggbbaa (with or without '#')
// and a handful of color names.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, true
	}
	hex := strings.TrimPrefix(s, "#")
	nib := make([]uint8, 0, len(hex))
	for _, r := range hex {
		v, ok := hexNibble(r)
		if !ok {
			return Color{}, false
		}
		nib = append(nib, v)
	}
	switch len(nib) {
	case 3:
		return RGB(nib[0]*17, nib[1]*17, nib[2]*17), true
	case 4:
		return RGBA(nib[0]*17, nib[1]*17, nib[2]*17, nib[3]*17), true
	case 6:
		return RGB(nib[0]<<4|nib[1], nib[2]<<4|nib[3], nib[4]<<4|nib[5]), true
	case 8:
		return RGBA(nib[0]<<4|nib[1], nib[2]<<4|nib[3], nib[4]<<4|nib[5], nib[6]<<4|nib[7]), true
	default:
		return Color{}, false
	}
}

func hexNibble(r rune) (uint8, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint8(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint8(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint8(r-'A') + 10, true
	default:
		return 0, false
	}
}

// Lighten moves each channel toward white by amount/255.
func (c Color) Lighten(amount uint8) Color {
	up := func(v uint8) uint8 {
		n := int(v) + int(amount)
		if n > 255 {
			n = 255
		}
		return uint8(n)
	}
	return Color{R: up(c.R), G: up(c.G), B: up(c.B), A: c.A}
}

func (c Color) Darken(amount uint8) Color {
	down := func(v uint8) uint8 {
		n := int(v) - int(amount)
		if n < 0 {
			n = 0
		}
		return uint8(n)
	}
	return Color{R: down(c.R), G: down(c.G), B: down(c.B), A: c.A}
}
