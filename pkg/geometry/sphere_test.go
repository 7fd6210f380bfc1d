package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-normals-raytracer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSphere(t *testing.T) *Sphere {
	t.Helper()
	sphere, err := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	require.NoError(t, err)
	return sphere
}

func TestNewSphere_InvalidRadius(t *testing.T) {
	for _, radius := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		sphere, err := NewSphere(core.NewVec3(0, 0, 0), radius)
		assert.Nil(t, sphere)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRadius), "radius %g", radius)

		var radiusErr *RadiusError
		require.True(t, errors.As(err, &radiusErr))
	}

	assert.Panics(t, func() { MustSphere(core.NewVec3(0, 0, 0), -0.5) })
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := unitSphere(t)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	assert.False(t, isHit)
	assert.Nil(t, hit)
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := unitSphere(t)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "non-normalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -4),
			expectedT:      0.5,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
			require.True(t, isHit)

			assert.InDelta(t, tt.expectedT, hit.T, 1e-9)
			assert.Equal(t, tt.expectedFront, hit.FrontFace)
			assert.InDelta(t, tt.expectedNormal.X, hit.Normal.X, 1e-9)
			assert.InDelta(t, tt.expectedNormal.Y, hit.Normal.Y, 1e-9)
			assert.InDelta(t, tt.expectedNormal.Z, hit.Normal.Z, 1e-9)
			assert.Less(t, hit.Normal.Dot(ray.Direction), 0.0, "normal must oppose the ray")
		})
	}
}

func TestSphere_Hit_AimedAtCenter(t *testing.T) {
	sphere := MustSphere(core.NewVec3(0, 0, -1), 0.5)
	origin := core.NewVec3(0, 0, 0)
	ray := core.NewRay(origin, sphere.Center.Subtract(origin))

	hit, isHit := sphere.Hit(ray, 0, math.Inf(1))
	require.True(t, isHit)

	assert.Greater(t, hit.T, 0.0)
	assert.True(t, hit.FrontFace)
	assert.InDelta(t, 0.5, hit.T, 1e-9)
	assert.InDelta(t, 1.0, hit.Normal.Length(), 1e-9)

	// The normal points back toward the ray origin
	toOrigin := origin.Subtract(hit.Point).Normalize()
	assert.InDelta(t, 1.0, hit.Normal.Dot(toOrigin), 1e-9)
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := unitSphere(t)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	require.True(t, isHit)

	assert.InDelta(t, 1.0, hit.Point.X, 1e-9)
	assert.InDelta(t, 0.0, hit.Point.Y, 1e-9)
	assert.InDelta(t, 0.0, hit.Point.Z, 1e-9)
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := unitSphere(t)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	_, isHit := sphere.Hit(ray, 0.001, 0.5)
	assert.False(t, isHit, "both roots beyond tMax")

	_, isHit = sphere.Hit(ray, 3.5, 1000.0)
	assert.False(t, isHit, "both roots before tMin")

	// Near root excluded by tMin, far root accepted
	hit, isHit := sphere.Hit(ray, 1.5, 1000.0)
	require.True(t, isHit)
	assert.InDelta(t, 3.0, hit.T, 1e-9)
	assert.False(t, hit.FrontFace)
	assert.InDelta(t, 1.0, hit.Normal.Z, 1e-9)
}

func TestSphere_Hit_ZeroDirection(t *testing.T) {
	sphere := MustSphere(core.NewVec3(0, 0, -1), 0.5)

	// A zero direction makes both roots 0/0; they must be rejected, not reported as hits
	for _, origin := range []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, -1), // inside the sphere
		core.NewVec3(0, 0, -0.5),
	} {
		hit, isHit := sphere.Hit(core.NewRay(origin, core.Vec3{}), 0, math.Inf(1))
		assert.False(t, isHit, "origin %v", origin)
		assert.Nil(t, hit)
	}
}

func TestSphere_Hit_BehindRay(t *testing.T) {
	sphere := unitSphere(t)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))

	_, isHit := sphere.Hit(ray, 0, math.Inf(1))
	assert.False(t, isHit)
}
