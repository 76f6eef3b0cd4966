package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/geometry"
)

// RayShader maps a ray to a color
type RayShader interface {
	RayColor(ray core.Ray) (core.Color, error)
}

// Shader shades a single sphere against a vertical gradient sky
type Shader struct {
	Center      core.Vec3  // Sphere center
	Radius      float32    // Sphere radius
	TopColor    core.Color // Sky color straight up
	BottomColor core.Color // Sky color straight down
}

// DefaultShader returns the unit scene: a 0.5 radius sphere at (0,0,-1)
// under a white to sky blue gradient
func DefaultShader() Shader {
	return Shader{
		Center:      core.NewVec3(0, 0, -1),
		Radius:      0.5,
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// RayColor shades ray with the default scene
func RayColor(ray core.Ray) (core.Color, error) {
	return DefaultShader().RayColor(ray)
}

// RayColor returns the normal-mapped sphere color when the ray hits the
// sphere in front of its origin, and the background gradient otherwise
func (s Shader) RayColor(ray core.Ray) (core.Color, error) {
	t, err := geometry.HitSphere(s.Center, s.Radius, ray)
	if err != nil {
		return core.Color{}, err
	}
	if t > 0 {
		normal, err := ray.At(t).Subtract(s.Center).UnitVector()
		if err != nil {
			return core.Color{}, fmt.Errorf("sphere normal at t=%g: %w", t, err)
		}
		return normalColor(normal), nil
	}
	return s.Background(ray)
}

// Background returns the sky gradient for the ray direction
func (s Shader) Background(ray core.Ray) (core.Color, error) {
	return backgroundGradient(ray, s.TopColor, s.BottomColor)
}

// backgroundGradient returns a gradient color based on ray direction
func backgroundGradient(r core.Ray, topColor, bottomColor core.Color) (core.Color, error) {
	unitDirection, err := r.Direction.UnitVector()
	if err != nil {
		return core.Color{}, core.ErrDegenerateRay.Wrap(err.Error())
	}

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Lerp(topColor, t), nil
}

// normalColor maps each unit normal component from [-1,1] to [0,1]
func normalColor(n core.Vec3) core.Color {
	return n.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}

// ListShader shades the closest hit across a list of shapes, falling back to
// the gradient sky. A one-sphere list reproduces Shader.
type ListShader struct {
	World       *geometry.HittableList
	TopColor    core.Color
	BottomColor core.Color
}

// NewListShader creates a list shader with the default sky colors
func NewListShader(world *geometry.HittableList) ListShader {
	sky := DefaultShader()
	return ListShader{
		World:       world,
		TopColor:    sky.TopColor,
		BottomColor: sky.BottomColor,
	}
}

// RayColor implements RayShader
func (s ListShader) RayColor(ray core.Ray) (core.Color, error) {
	if ray.Direction.LengthSquared() == 0 {
		return core.Color{}, core.ErrDegenerateRay.Wrapf("direction %v", ray.Direction)
	}
	if hit, isHit := s.World.ClosestHit(ray, 0, math.MaxFloat32); isHit && hit.T > 0 {
		return normalColor(hit.OutwardNormal()), nil
	}
	return backgroundGradient(ray, s.TopColor, s.BottomColor)
}
