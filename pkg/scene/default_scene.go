package scene

import (
	"github.com/df07/go-normals-raytracer/pkg/core"
	"github.com/df07/go-normals-raytracer/pkg/geometry"
)

// NewDefaultScene creates the classic two-sphere scene: a small sphere resting on a huge "ground" sphere
func NewDefaultScene() *Scene {
	return New(
		geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5),
		geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100),
	)
}

// NewSingleSphereScene creates a scene with only the small centered sphere
func NewSingleSphereScene() *Scene {
	return New(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5))
}
