package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// NoHit is returned by HitSphere when the ray misses the sphere
const NoHit float32 = -1.0

// HitSphere returns the near root t of |ray.At(t) - center|² = radius², or
// NoHit when there is no real root. Only the near root is computed, so a ray
// starting inside the sphere, or past it, gets a negative t; callers decide
// a hit with t > 0.
func HitSphere(center core.Vec3, radius float32, ray core.Ray) (float32, error) {
	oc := ray.Origin.Subtract(center)
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return NoHit, core.ErrDegenerateRay.Wrapf("direction %v", ray.Direction)
	}
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	discriminant := b*b - 4*a*c

	if discriminant < 0 {
		return NoHit, nil
	}
	return (-b - math32.Sqrt(discriminant)) / (2 * a), nil
}

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float32
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Hit tests if a ray intersects with the sphere within [tMin, tMax]
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float32) (*HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2ht + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return nil, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math32.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hitRecord := &HitRecord{
		T:     root,
		Point: ray.At(root),
	}

	// Outward normal runs from center to hit point
	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
