package core

import "math/rand"

// RandomVec3 draws each component uniformly from [minVal, maxVal)
func RandomVec3(random *rand.Rand, minVal, maxVal float64) Vec3 {
	span := maxVal - minVal
	return Vec3{
		X: minVal + span*random.Float64(),
		Y: minVal + span*random.Float64(),
		Z: minVal + span*random.Float64(),
	}
}

// RandomInUnitSphere returns a point uniformly distributed inside the unit ball
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		// Generate random point in [-1,1]^3 cube
		p := RandomVec3(random, -1, 1)
		// Accept if strictly inside the unit ball
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
