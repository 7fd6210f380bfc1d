package scene

import (
	"github.com/df07/go-normals-raytracer/pkg/core"
)

// Scene is an ordered collection of shapes that can be hit-tested as one
type Scene struct {
	Shapes []core.Shape // Objects in the scene
}

// New creates a scene holding the given shapes
func New(shapes ...core.Shape) *Scene {
	s := &Scene{Shapes: make([]core.Shape, 0, len(shapes))}
	s.Shapes = append(s.Shapes, shapes...)
	return s
}

// Add appends a shape to the scene
func (s *Scene) Add(shape core.Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// Len returns the number of shapes in the scene
func (s *Scene) Len() int {
	return len(s.Shapes)
}

// Hit returns the nearest intersection across all shapes.
// Each shape is queried with the shrinking upper bound of the closest hit so far,
// so on equal t the first shape wins. Hits whose t falls outside that bound, NaN included, are ignored.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		hit, isHit := shape.Hit(ray, tMin, closestSoFar)
		if !isHit || !(hit.T >= tMin && hit.T <= closestSoFar) {
			continue
		}
		if closestHit != nil && hit.T == closestSoFar {
			continue
		}
		closestSoFar = hit.T
		closestHit = hit
	}

	return closestHit, closestHit != nil
}
