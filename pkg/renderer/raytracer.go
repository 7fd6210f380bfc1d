package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/df07/go-normals-raytracer/pkg/canvas"
	"github.com/df07/go-normals-raytracer/pkg/core"
	"github.com/df07/go-normals-raytracer/pkg/logging"
)

var (
	// ErrInvalidSamples is returned when SamplesPerPixel is not positive
	ErrInvalidSamples = errors.New("samples per pixel must be positive")
	// ErrImageTooSmall is returned for buffers narrower or shorter than two pixels
	ErrImageTooSmall = errors.New("image must be at least 2x2 pixels")
)

var (
	white   = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// Config contains rendering configuration
type Config struct {
	SamplesPerPixel int   // Number of jittered rays per pixel
	Seed            int64 // Base seed for the per-row random streams
	Workers         int   // Rows rendered concurrently; 0 means runtime.NumCPU()
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		SamplesPerPixel: 10,
		Seed:            42,
		Workers:         1,
	}
}

// Raytracer handles the rendering process
type Raytracer struct {
	world  core.Shape
	camera *Camera
	config Config
	logger *slog.Logger
}

// Option configures a Raytracer
type Option func(*Raytracer)

// WithLogger sets the logger used for progress records
func WithLogger(l *slog.Logger) Option {
	return func(rt *Raytracer) {
		rt.logger = logging.OrNop(l)
	}
}

// WithCamera replaces the default camera
func WithCamera(c *Camera) Option {
	return func(rt *Raytracer) {
		rt.camera = c
	}
}

// NewRaytracer creates a new raytracer for the given world
func NewRaytracer(world core.Shape, config Config, opts ...Option) *Raytracer {
	rt := &Raytracer{
		world:  world,
		camera: NewCamera(),
		config: config,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Config returns the raytracer's configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// BackgroundGradient blends white (looking down) into sky blue (looking up)
func BackgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return white.Lerp(skyBlue, t)
}

// RayColor returns the color seen along a ray and whether it hit the world.
// Hits are shaded as 0.5*normal + (1,1,1); channels above 1 saturate when quantized.
func (rt *Raytracer) RayColor(r core.Ray) (core.Vec3, bool) {
	if hit, isHit := rt.world.Hit(r, 0, math.Inf(1)); isHit {
		return hit.Normal.Multiply(0.5).Add(white), true
	}
	return BackgroundGradient(r), false
}

// FormatColor averages an accumulated color over samples and packs it as 0xRRGGBB.
// Channels are clamped to [0, 0.999] before scaling by 256, so they never exceed 255.
func FormatColor(sum core.Vec3, samples int) uint32 {
	avg := sum.Divide(float64(samples))
	return canvas.Pack(quantize(avg.X), quantize(avg.Y), quantize(avg.Z))
}

func quantize(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	return uint8(256 * max(0.0, min(0.999, c)))
}

// Render fills buf with the image. Buffer row 0 is the top of the image.
// The result depends only on the scene, camera, buffer size and Config.Seed;
// it is identical for any worker count.
func (rt *Raytracer) Render(ctx context.Context, buf *canvas.PixelBuffer) (RenderStats, error) {
	if rt.config.SamplesPerPixel <= 0 {
		return RenderStats{}, fmt.Errorf("%w: %d", ErrInvalidSamples, rt.config.SamplesPerPixel)
	}
	if buf.Width < 2 || buf.Height < 2 {
		return RenderStats{}, fmt.Errorf("%w: got %dx%d", ErrImageTooSmall, buf.Width, buf.Height)
	}
	if len(buf.Pixels) != buf.Width*buf.Height {
		return RenderStats{}, fmt.Errorf("%w: %d pixels for %dx%d", canvas.ErrSizeMismatch, len(buf.Pixels), buf.Width, buf.Height)
	}

	workers := resolveWorkers(rt.config.Workers, buf.Height)
	logging.LogRenderStart(ctx, rt.logger, buf.Width, buf.Height, rt.config.SamplesPerPixel, workers)

	startTime := time.Now()
	rows := make([]RenderStats, buf.Height)
	err := renderRows(ctx, buf.Height, workers, func(row int) {
		random := rand.New(rand.NewSource(rowSeed(rt.config.Seed, row)))
		rows[row] = rt.renderRow(buf, row, random)
	})

	stats := mergeStats(rows)
	stats.Elapsed = time.Since(startTime)
	logging.LogRenderDone(ctx, rt.logger, stats.Elapsed, stats.Hits, stats.Misses, err)
	return stats, err
}

// renderRow renders buffer row `row`, which samples image-plane row height-1-row
func (rt *Raytracer) renderRow(buf *canvas.PixelBuffer, row int, random *rand.Rand) RenderStats {
	j := buf.Height - 1 - row
	stats := RenderStats{TotalPixels: buf.Width}

	for i := 0; i < buf.Width; i++ {
		var ps PixelStats

		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			offsetU := random.Float64()
			offsetV := random.Float64()

			u := (float64(i) + offsetU) / float64(buf.Width-1)
			v := (float64(j) + offsetV) / float64(buf.Height-1)

			color, hit := rt.RayColor(rt.camera.GetRay(u, v))
			ps.AddSample(color, hit)
		}

		buf.Set(i, row, FormatColor(ps.ColorAccum, ps.SampleCount))
		stats.addPixel(ps)
	}

	return stats
}

// rowSeed derives an independent seed per row (splitmix64 finalizer)
func rowSeed(seed int64, row int) int64 {
	z := uint64(seed) + uint64(row+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}
