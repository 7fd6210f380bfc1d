package scene

import (
	"github.com/df07/go-normals-raytracer/pkg/core"
	"github.com/df07/go-normals-raytracer/pkg/geometry"
)

// NewSphereGridScene creates a ground sphere with a grid of small spheres
// spread across the view, receding in depth row by row.
func NewSphereGridScene() *Scene {
	const (
		columns = 5
		rows    = 3
		radius  = 0.2
		spacing = 0.55
	)

	s := New(geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100))

	for row := 0; row < rows; row++ {
		z := -1.0 - float64(row)*0.6
		for col := 0; col < columns; col++ {
			x := (float64(col) - float64(columns-1)/2) * spacing
			// The ground sphere peaks at y = -0.5 directly below the camera
			center := core.NewVec3(x, -0.5+radius, z)
			s.Add(geometry.MustSphere(center, radius))
		}
	}

	return s
}
