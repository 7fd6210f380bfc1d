package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-normals-raytracer/pkg/core"
)

// ErrInvalidRadius is returned when a sphere is constructed with a radius that is not a positive finite number
var ErrInvalidRadius = errors.New("sphere radius must be positive and finite")

// RadiusError reports the offending radius.
// It satisfies errors.Is(err, ErrInvalidRadius).
type RadiusError struct {
	Radius float64
}

func (e *RadiusError) Error() string {
	return fmt.Sprintf("invalid sphere radius %g", e.Radius)
}

func (e *RadiusError) Unwrap() error { return ErrInvalidRadius }

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, &RadiusError{Radius: radius}
	}
	return &Sphere{
		Center: center,
		Radius: radius,
	}, nil
}

// MustSphere is like NewSphere but panics on an invalid radius.
// Intended for scenes built from constants.
func MustSphere(center core.Vec3, radius float64) *Sphere {
	s, err := NewSphere(center, radius)
	if err != nil {
		panic(err)
	}
	return s
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first.
	// Written as a negated range check so a NaN root (zero-length direction) is rejected.
	root := (-halfB - sqrtD) / a
	if !(root >= tMin && root <= tMax) {
		root = (-halfB + sqrtD) / a
		if !(root >= tMin && root <= tMax) {
			return nil, false
		}
	}

	hitRecord := &core.HitRecord{
		T:     root,
		Point: ray.At(root),
	}

	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
