package renderer

import (
	"github.com/df07/go-normals-raytracer/pkg/core"
)

const (
	// DefaultAspectRatio is the viewport aspect ratio (16:9)
	DefaultAspectRatio = 16.0 / 9.0
	// DefaultViewportHeight is the viewport height in world units
	DefaultViewportHeight = 2.0
	// DefaultFocalLength is the distance from the eye to the viewport
	DefaultFocalLength = 1.0
)

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a pinhole camera at the origin looking down -Z
func NewCamera() *Camera {
	aspectRatio := DefaultAspectRatio
	viewportHeight := DefaultViewportHeight
	viewportWidth := aspectRatio * viewportHeight
	focalLength := DefaultFocalLength

	origin := core.NewVec3(0, 0, 0)
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(core.NewVec3(0, 0, focalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray through viewport coordinates (u, v), nominally 0 <= u,v <= 1
// with (0,0) at the lower left. Values outside [0,1] extrapolate past the viewport edge.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 { return c.origin }

// LowerLeftCorner returns the lower left corner of the viewport
func (c *Camera) LowerLeftCorner() core.Vec3 { return c.lowerLeftCorner }

// Horizontal returns the viewport's horizontal span
func (c *Camera) Horizontal() core.Vec3 { return c.horizontal }

// Vertical returns the viewport's vertical span
func (c *Camera) Vertical() core.Vec3 { return c.vertical }
