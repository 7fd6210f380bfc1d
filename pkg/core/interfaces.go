package core

// HitRecord describes a ray-surface intersection
type HitRecord struct {
	Point     Vec3    // Point of intersection
	Normal    Vec3    // Surface normal, always opposing the incoming ray
	T         float64 // Parameter t along the ray
	FrontFace bool    // Whether the outward normal already opposed the ray
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape is anything a ray can be tested against.
// Hit returns the nearest intersection with t in [tMin, tMax], or (nil, false).
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}
