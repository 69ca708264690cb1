package sim

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette spreads n hues evenly around the wheel.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = colorful.Hsv(360*float64(i)/float64(n), 0.75, 1).Clamped()
	}
	return out
}

// Highlight lightens c toward white for selected particles.
func Highlight(c color.Color) color.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return color.White
	}
	return cf.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.6).Clamped()
}
