package geometry

import "github.com/df07/go-ppm-raytracer/pkg/core"

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, facing against the ray
	T         float32   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// OutwardNormal returns the normal pointing out of the surface regardless of
// which side the ray arrived from
func (h *HitRecord) OutwardNormal() core.Vec3 {
	if h.FrontFace {
		return h.Normal
	}
	return h.Normal.Negate()
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float32) (*HitRecord, bool)
}

// HittableList is a scene made of any number of shapes
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// ClosestHit returns the nearest intersection in (tMin, tMax) across all shapes
func (l *HittableList) ClosestHit(ray core.Ray, tMin, tMax float32) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// Hit makes HittableList a Shape itself
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float32) (*HitRecord, bool) {
	return l.ClosestHit(ray, tMin, tMax)
}
