package renderer

import (
	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// CameraConfig describes the fixed pinhole camera and its image plane
type CameraConfig struct {
	AspectRatio    float32 // Image width divided by image height
	ImageWidth     int     // Image width in pixels
	ViewportHeight float32 // Viewport height in world units
	FocalLength    float32 // Distance from the origin to the image plane
}

// DefaultCameraConfig returns the 16:9, 400 pixel wide camera
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:    16.0 / 9.0,
		ImageWidth:     400,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// ImageHeight returns ImageWidth / AspectRatio truncated, at least 1
func (c CameraConfig) ImageHeight() int {
	return max(1, int(float32(c.ImageWidth)/c.AspectRatio))
}

// ViewportWidth returns AspectRatio * ViewportHeight
func (c CameraConfig) ViewportWidth() float32 {
	return c.AspectRatio * c.ViewportHeight
}

// Validate checks that every parameter is positive
func (c CameraConfig) Validate() error {
	switch {
	case c.AspectRatio <= 0:
		return core.ErrInvalidConfig.Wrapf("aspect ratio must be positive, got %g", c.AspectRatio)
	case c.ImageWidth <= 0:
		return core.ErrInvalidConfig.Wrapf("image width must be positive, got %d", c.ImageWidth)
	case c.ViewportHeight <= 0:
		return core.ErrInvalidConfig.Wrapf("viewport height must be positive, got %g", c.ViewportHeight)
	case c.FocalLength <= 0:
		return core.ErrInvalidConfig.Wrapf("focal length must be positive, got %g", c.FocalLength)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera at the origin looking down -Z
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	origin := core.NewVec3(0, 0, 0)
	horizontal := core.NewVec3(config.ViewportWidth(), 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		config:          config,
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// LowerLeftCorner returns the world-space corner hit by GetRay(0, 0)
func (c *Camera) LowerLeftCorner() core.Vec3 {
	return c.lowerLeftCorner
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1
// and (0, 0) is the lower left corner of the viewport
func (c *Camera) GetRay(u, v float32) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
