package model

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ColorScheme holds the three colours an element is drawn with.
type ColorScheme struct {
	Fill   string
	Stroke string
	Text   string
}

var defaultSchemes = map[int]ColorScheme{
	1: {Fill: "#FED7D7", Stroke: "#FC8181", Text: "#742A2A"},
	2: {Fill: "#C6F6D5", Stroke: "#68D391", Text: "#22543D"},
	3: {Fill: "#FEEBC8", Stroke: "#F6AD55", Text: "#7C2D12"},
	4: {Fill: "#BEE3F8", Stroke: "#63B3ED", Text: "#2C5282"},
}

// ShelfScheme is used for every shelf body.
var ShelfScheme = ColorScheme{Fill: "#E8E8E8", Stroke: "#A0AEC0", Text: "#2D3748"}

// DefaultScheme returns the palette colours of a display size class.
func DefaultScheme(displayUnits int) ColorScheme {
	if s, ok := defaultSchemes[displayUnits]; ok {
		return s
	}
	return defaultSchemes[1]
}

// SchemeFor derives the colours of an element. A custom fill darkens to 70%
// for the stroke and 30% for the text unless a font colour is set.
func SchemeFor(e *Element) ColorScheme {
	if e.IsShelf() {
		return ShelfScheme
	}
	return GenerateScheme(e.DisplayUnits, e.Color, e.FontColor)
}

// GenerateScheme builds a scheme from optional custom colours.
func GenerateScheme(displayUnits int, fill, fontColor string) ColorScheme {
	base := DefaultScheme(displayUnits)
	if fill == "" {
		if fontColor != "" {
			base.Text = fontColor
		}
		return base
	}
	c, err := ParseHexColor(fill)
	if err != nil {
		return base
	}
	s := ColorScheme{
		Fill:   fill,
		Stroke: HexColor(darken(c, 0.7)),
		Text:   HexColor(darken(c, 0.3)),
	}
	if fontColor != "" {
		s.Text = fontColor
	}
	return s
}

func darken(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
		A: c.A,
	}
}

// ParseHexColor parses "#RRGGBB" or "#RGB".
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustColor parses s and falls back to black.
func MustColor(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}

// HexColor formats c as "#RRGGBB".
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
