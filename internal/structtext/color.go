package structtext

import "sort"

// Color is a named color token. The full palette has 30 entries: ten base
// hues, each with a light and dark variant.
type Color string

var baseHues = []string{
	"red", "orange", "yellow", "green", "teal",
	"blue", "purple", "pink", "gray", "brown",
}

var palette = func() map[Color]bool {
	m := make(map[Color]bool, len(baseHues)*3)
	for _, h := range baseHues {
		m[Color(h)] = true
		m[Color("light_"+h)] = true
		m[Color("dark_"+h)] = true
	}
	return m
}()

// Highlight colors are a fixed subset checked separately from the palette.
var highlightColors = map[Color]bool{
	"yellow": true, "green": true, "blue": true, "pink": true, "purple": true,
	"orange": true, "red": true, "teal": true, "gray": true, "brown": true,
}

// ParseColor returns s as a Color if it belongs to the 30-token palette.
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !palette[c] {
		return "", &InvalidColorError{Value: s}
	}
	return c, nil
}

// ParseHighlightColor returns s as a Color if it is one of the highlight
// colors. The empty string means no color.
func ParseHighlightColor(s string) (Color, error) {
	c := Color(s)
	if s != "" && !highlightColors[c] {
		return "", &InvalidColorError{Value: s}
	}
	return c, nil
}

// Palette returns every palette color, sorted.
func Palette() []Color {
	return sortedColors(palette)
}

// HighlightPalette returns the highlight colors, sorted.
func HighlightPalette() []Color {
	return sortedColors(highlightColors)
}

func sortedColors(m map[Color]bool) []Color {
	out := make([]Color, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
