package term

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// --- Color math ---

// HSL is a color in hue/saturation/lightness, all in [0,1].
type HSL struct {
	H, S, L float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func split(rgb uint32) (uint8, uint8, uint8) {
	return uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb)
}

func join(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Hex formats a 24-bit color as #rrggbb.
func Hex(rgb uint32) string {
	r, g, b := split(rgb)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Color converts a 24-bit color to a lipgloss color.
func Color(rgb uint32) lipgloss.Color {
	return lipgloss.Color(Hex(rgb))
}

// ToHSL converts a 24-bit color.
func ToHSL(rgb uint32) HSL {
	r8, g8, b8 := split(rgb)
	r, g, b := float64(r8)/255, float64(g8)/255, float64(b8)/255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	chroma := hi - lo
	l := (hi + lo) / 2
	if chroma == 0 {
		return HSL{L: l}
	}

	var sector float64
	switch hi {
	case r:
		sector = math.Mod((g-b)/chroma+6, 6)
	case g:
		sector = (b-r)/chroma + 2
	default:
		sector = (r-g)/chroma + 4
	}
	return HSL{
		H: sector / 6,
		S: chroma / (1 - math.Abs(2*l-1)),
		L: l,
	}
}

// RGB converts back to a 24-bit color.
func (c HSL) RGB() uint32 {
	a := c.S * math.Min(c.L, 1-c.L)
	channel := func(n float64) uint8 {
		k := math.Mod(n+c.H*12, 12)
		v := c.L - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
		return uint8(math.Round(clamp01(v) * 255))
	}
	return join(channel(0), channel(8), channel(4))
}

// Modify round-trips rgb through HSL, applying fn on the way.
func Modify(rgb uint32, fn func(HSL) HSL) uint32 {
	c := fn(ToHSL(rgb))
	c.L = clamp01(c.L)
	c.S = clamp01(c.S)
	return c.RGB()
}

// Gradient is the top-lit face shader: row 0 of a face is brightest and the
// bottom row darkest.
func Gradient(rgb uint32, row, height int) uint32 {
	if height <= 1 {
		return rgb
	}
	frac := float64(row) / float64(height-1)
	return Modify(rgb, func(c HSL) HSL {
		c.L = clamp01(c.L * (1.15 - frac*0.65))
		return c
	})
}

// Shadow darkens rgb for a cube's side edge.
func Shadow(rgb uint32) uint32 {
	return Modify(rgb, func(c HSL) HSL {
		c.L *= 0.55
		return c
	})
}
