package renderer

import (
	"time"

	"github.com/df07/go-normals-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of samples taken
	Hits         int64         // Samples whose ray hit scene geometry
	Misses       int64         // Samples resolved to the sky gradient
	Elapsed      time.Duration // Wall time of the render
}

// HitRatio returns the fraction of samples that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalSamples)
}

func (s *RenderStats) addPixel(ps PixelStats) {
	s.TotalSamples += ps.SampleCount
	s.Hits += int64(ps.Hits)
	s.Misses += int64(ps.SampleCount - ps.Hits)
}

func mergeStats(rows []RenderStats) RenderStats {
	var total RenderStats
	for _, r := range rows {
		total.TotalPixels += r.TotalPixels
		total.TotalSamples += r.TotalSamples
		total.Hits += r.Hits
		total.Misses += r.Misses
	}
	return total
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
	Hits        int       // Samples that hit geometry
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3, hit bool) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
	if hit {
		ps.Hits++
	}
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}
