package renderer

import (
	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// PixelSource produces the color of every pixel of an image.
// Scanline j=0 is the bottom row; PixelColor must be safe for concurrent use.
type PixelSource interface {
	Dimensions() (width, height int)
	PixelColor(i, j int) (core.Color, error)
}

// CameraSource casts one ray per pixel through a camera and shades it
type CameraSource struct {
	camera *Camera
	shader RayShader
}

// NewCameraSource creates a pixel source for the given camera and shader
func NewCameraSource(camera *Camera, shader RayShader) *CameraSource {
	return &CameraSource{camera: camera, shader: shader}
}

// Dimensions implements PixelSource
func (s *CameraSource) Dimensions() (int, int) {
	config := s.camera.Config()
	return config.ImageWidth, config.ImageHeight()
}

// PixelColor implements PixelSource. The first and last pixel of a row or
// column land exactly on the viewport edges.
func (s *CameraSource) PixelColor(i, j int) (core.Color, error) {
	width, height := s.Dimensions()
	u := NormalizedCoordinate(i, width)
	v := NormalizedCoordinate(j, height)
	return s.shader.RayColor(s.camera.GetRay(u, v))
}

// NormalizedCoordinate maps a pixel index in [0, n) to [0, 1] as i/(n-1).
// A single pixel maps to 0.
func NormalizedCoordinate(i, n int) float32 {
	if n <= 1 {
		return 0
	}
	return float32(i) / (float32(n) - 1)
}
