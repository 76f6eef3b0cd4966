package core

import "github.com/chewxy/math32"

// Color is an RGB triple with channels nominally in [0, 1]
type Color = Vec3

// MaxChannel is the largest quantized channel value
const MaxChannel = 255

// quantizeScale maps 1.0 to just under 256 so that flooring lands on 255
const quantizeScale = 255.999

// Quantize converts a color to 8-bit channels by flooring channel*255.999.
// Values outside [0, 1] are clamped to [0, 255].
func Quantize(c Color) (r, g, b int) {
	return quantizeChannel(c.X), quantizeChannel(c.Y), quantizeChannel(c.Z)
}

func quantizeChannel(v float32) int {
	if math32.IsNaN(v) {
		return 0
	}
	q := math32.Floor(v * quantizeScale)
	return int(max(0, min(MaxChannel, q)))
}

// Luminance returns the perceptual luminance of an RGB color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (v Vec3) Luminance() float32 {
	return 0.299*v.X + 0.587*v.Y + 0.114*v.Z
}
