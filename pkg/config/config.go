// Package config holds the render settings, their defaults, and .env/environment overrides.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config contains everything needed to produce one image
type Config struct {
	Width           int     // Image width in pixels
	AspectRatio     float64 // Width / height; height is derived by truncation
	SamplesPerPixel int     // Jittered rays per pixel
	OutputPath      string  // Local path or s3://bucket/key
	Seed            int64   // Seed for the per-row sample streams
	Workers         int     // Concurrent rows; 0 means one per CPU
	Scene           string  // Built-in scene name
	ThumbnailWidth  int     // Width of the preview image; 0 disables it
	LogLevel        string  // debug, info, warn or error
	LogFormat       string  // text or json
	S3Region        string  // Region for s3:// outputs (SDK default chain if empty)
	S3Endpoint      string  // Custom endpoint for S3-compatible stores
}

// Default returns the documented defaults
func Default() Config {
	return Config{
		Width:           400,
		AspectRatio:     16.0 / 9.0,
		SamplesPerPixel: 10,
		OutputPath:      "image.ppm",
		Seed:            42,
		Workers:         1,
		Scene:           "default",
		ThumbnailWidth:  0,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Height returns the image height derived from Width and AspectRatio
func (c Config) Height() int {
	return int(float64(c.Width) / c.AspectRatio)
}

// Validate checks every field and reports all problems at once
func (c Config) Validate() error {
	var errs []error
	if c.Width < 2 {
		errs = append(errs, fmt.Errorf("width must be at least 2, got %d", c.Width))
	}
	if !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0) {
		errs = append(errs, fmt.Errorf("aspect ratio must be positive, got %g", c.AspectRatio))
	} else if c.Width >= 2 && c.Height() < 2 {
		errs = append(errs, fmt.Errorf("derived height %d is less than 2", c.Height()))
	}
	if c.SamplesPerPixel <= 0 {
		errs = append(errs, fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.ThumbnailWidth < 0 {
		errs = append(errs, fmt.Errorf("thumbnail width must not be negative, got %d", c.ThumbnailWidth))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Load returns Default() overridden by the given .env files and then by RT_* environment variables.
// Missing .env files are ignored; variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	intVar := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	stringVar := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	intVar("RT_WIDTH", &c.Width)
	intVar("RT_SAMPLES", &c.SamplesPerPixel)
	intVar("RT_WORKERS", &c.Workers)
	intVar("RT_THUMBNAIL_WIDTH", &c.ThumbnailWidth)
	stringVar("RT_OUTPUT", &c.OutputPath)
	stringVar("RT_SCENE", &c.Scene)
	stringVar("RT_LOG_LEVEL", &c.LogLevel)
	stringVar("RT_LOG_FORMAT", &c.LogFormat)
	stringVar("RT_S3_REGION", &c.S3Region)
	stringVar("RT_S3_ENDPOINT", &c.S3Endpoint)

	if v, ok := lookup("RT_SEED"); ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RT_SEED: %w", err))
		} else {
			c.Seed = seed
		}
	}
	if v, ok := lookup("RT_ASPECT_RATIO"); ok {
		ratio, err := ParseAspectRatio(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RT_ASPECT_RATIO: %w", err))
		} else {
			c.AspectRatio = ratio
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// ParseAspectRatio accepts "16:9", "16/9" or a plain number such as "1.7778"
func ParseAspectRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{":", "/"} {
		if w, h, found := strings.Cut(s, sep); found {
			num, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
			if err != nil {
				return 0, err
			}
			den, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
			if err != nil {
				return 0, err
			}
			if den == 0 {
				return 0, fmt.Errorf("zero denominator in %q", s)
			}
			return num / den, nil
		}
	}
	return strconv.ParseFloat(s, 64)
}
