package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	TotalPixels     int           // Total number of pixels rendered
	Workers         int           // Number of parallel workers used
	Elapsed         time.Duration // Wall time spent rendering
	MeanLuminance   float64       // Mean perceptual luminance over all pixels
	StdDevLuminance float64       // Standard deviation of luminance
}

// PixelsPerSecond returns the render throughput, 0 when no time elapsed
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalPixels) / s.Elapsed.Seconds()
}

// CalculateStats computes the image statistics of a rendered frame
func CalculateStats(frame *core.Frame) RenderStats {
	stats := RenderStats{
		Width:       frame.Width,
		Height:      frame.Height,
		TotalPixels: len(frame.Pixels),
	}

	luminances := luminanceSamples(frame)
	switch len(luminances) {
	case 0:
	case 1:
		stats.MeanLuminance = luminances[0]
	default:
		stats.MeanLuminance, stats.StdDevLuminance = stat.MeanStdDev(luminances, nil)
	}
	return stats
}

// CalculateAverageLuminance returns the mean luminance of a frame
func CalculateAverageLuminance(frame *core.Frame) float64 {
	luminances := luminanceSamples(frame)
	if len(luminances) == 0 {
		return 0
	}
	return stat.Mean(luminances, nil)
}

func luminanceSamples(frame *core.Frame) []float64 {
	luminances := make([]float64, len(frame.Pixels))
	for i, c := range frame.Pixels {
		luminances[i] = float64(c.Luminance())
	}
	return luminances
}
