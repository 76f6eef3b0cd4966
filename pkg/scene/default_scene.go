package scene

import (
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

// NewSphereScene creates the single-sphere scene seen through the given camera
func NewSphereScene(config renderer.CameraConfig) (*Scene, error) {
	camera, err := renderer.NewCamera(config)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Name:         "sphere",
		Source:       renderer.NewCameraSource(camera, renderer.DefaultShader()),
		CameraConfig: config,
	}, nil
}
