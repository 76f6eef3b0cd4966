package scene

import (
	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

// gradientBlue is the constant blue channel of the test pattern
const gradientBlue = 0.25

// GradientPattern is a flat test image: red ramps left to right, green
// ramps bottom to top, blue is constant. No rays are cast.
type GradientPattern struct {
	width, height int
}

// NewGradientPattern creates a width x height test pattern
func NewGradientPattern(width, height int) *GradientPattern {
	return &GradientPattern{width: width, height: height}
}

// Dimensions implements renderer.PixelSource
func (g *GradientPattern) Dimensions() (int, int) {
	return g.width, g.height
}

// PixelColor implements renderer.PixelSource
func (g *GradientPattern) PixelColor(i, j int) (core.Color, error) {
	return core.NewVec3(
		renderer.NormalizedCoordinate(i, g.width),
		renderer.NormalizedCoordinate(j, g.height),
		gradientBlue,
	), nil
}

// NewGradientScene creates the test pattern at the camera's image size
func NewGradientScene(config renderer.CameraConfig) (*Scene, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scene{
		Name:         "gradient",
		Source:       NewGradientPattern(config.ImageWidth, config.ImageHeight()),
		CameraConfig: config,
	}, nil
}
