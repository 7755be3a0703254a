package pyramid

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an RGB triple with float channels in [0, 255].
// Averaged colors keep their fractional part so means stay exact.
type Color struct {
	R, G, B float64
}

// Mean returns the per-channel arithmetic mean of cs.
// Channels are summed in argument order. Mean of nothing is black.
func Mean(cs ...Color) Color {
	if len(cs) == 0 {
		return Color{}
	}
	var sum Color
	for _, c := range cs {
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
	}
	n := float64(len(cs))
	return Color{R: sum.R / n, G: sum.G / n, B: sum.B / n}
}

// ToRGBA converts c to an opaque 8-bit color, rounding each channel.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 0xff}
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	rgba := c.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
