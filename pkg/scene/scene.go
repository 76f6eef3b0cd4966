package scene

import (
	"sort"

	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

// Scene pairs a pixel source with the camera settings it was built from
type Scene struct {
	Name         string
	Source       renderer.PixelSource
	CameraConfig renderer.CameraConfig
}

// Dimensions returns the image size of the scene
func (s *Scene) Dimensions() (int, int) {
	return s.Source.Dimensions()
}

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Short description
}

type sceneFactory struct {
	info   SceneInfo
	create func(config renderer.CameraConfig) (*Scene, error)
}

var builtinScenes = map[string]sceneFactory{
	"sphere": {
		info: SceneInfo{
			ID:          "sphere",
			DisplayName: "Normal-shaded sphere",
			Description: "A 0.5 radius sphere at (0,0,-1) shaded by its surface normal under a gradient sky",
		},
		create: NewSphereScene,
	},
	"gradient": {
		info: SceneInfo{
			ID:          "gradient",
			DisplayName: "Gradient test pattern",
			Description: "Flat red/green ramp with constant blue, used for golden image checks",
		},
		create: NewGradientScene,
	},
}

// Create builds the named built-in scene
func Create(name string, config renderer.CameraConfig) (*Scene, error) {
	factory, ok := builtinScenes[name]
	if !ok {
		return nil, core.ErrUnknownScene.Wrapf("%q", name)
	}
	return factory.create(config)
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, factory := range builtinScenes {
		scenes = append(scenes, factory.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}
