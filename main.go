package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/go-normals-raytracer/pkg/canvas"
	"github.com/df07/go-normals-raytracer/pkg/config"
	"github.com/df07/go-normals-raytracer/pkg/logging"
	"github.com/df07/go-normals-raytracer/pkg/output"
	"github.com/df07/go-normals-raytracer/pkg/renderer"
	"github.com/df07/go-normals-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	envFile := fs.String("config", ".env", "Optional .env file with RT_* settings")
	sceneName := fs.String("scene", "", "Scene to render (see -list)")
	outPath := fs.String("out", "", "Output path: .ppm, .png or .jpg, optionally .gz/.zst/.lz4, or s3://bucket/key")
	width := fs.Int("width", 0, "Image width in pixels")
	samples := fs.Int("samples", 0, "Samples per pixel")
	seed := fs.Int64("seed", 0, "Random seed")
	workers := fs.Int("workers", 0, "Parallel row workers (0 = all CPUs)")
	thumbnail := fs.Int("thumbnail", 0, "Also write a PNG preview of this width")
	list := fs.Bool("list", false, "List available scenes and exit")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *help {
		fmt.Fprintln(stdout, "Normals Raytracer")
		fmt.Fprintln(stdout, "Usage: raytracer [options]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Settings are read from the -config file and RT_* environment variables; flags win.")
		return 0
	}

	if *list {
		for _, info := range scene.List() {
			fmt.Fprintf(stdout, "  %-12s %s (%d shapes)\n", info.ID, info.Description, info.Shapes)
		}
		return 0
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	// Explicitly set flags override file and environment settings
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "out":
			cfg.OutputPath = *outPath
		case "width":
			cfg.Width = *width
		case "samples":
			cfg.SamplesPerPixel = *samples
		case "seed":
			cfg.Seed = *seed
		case "workers":
			cfg.Workers = *workers
		case "thumbnail":
			cfg.ThumbnailWidth = *thumbnail
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}

	if err := render(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "raytracer failed", "error", err)
		return 1
	}
	return 0
}

func render(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// Reject an unusable destination before spending time on the render
	if _, _, err := output.DetectFormat(cfg.OutputPath); err != nil {
		return err
	}

	world, err := scene.Create(cfg.Scene)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "scene loaded", "scene", cfg.Scene, "shapes", world.Len())

	rt := renderer.NewRaytracer(world, renderer.Config{
		SamplesPerPixel: cfg.SamplesPerPixel,
		Seed:            cfg.Seed,
		Workers:         cfg.Workers,
	}, renderer.WithLogger(logger))

	buf := canvas.New(cfg.Width, cfg.Height())
	if _, err := rt.Render(ctx, buf); err != nil {
		return err
	}

	saveOpts := []output.Option{output.WithS3(cfg.S3Region, cfg.S3Endpoint)}

	n, err := output.Save(ctx, buf, cfg.OutputPath, saveOpts...)
	logging.LogSaved(ctx, logger, cfg.OutputPath, n, err)
	if err != nil {
		return err
	}

	if cfg.ThumbnailWidth > 0 {
		thumbPath := output.ThumbnailPath(cfg.OutputPath)
		n, err := output.SaveImage(ctx, output.Thumbnail(buf.ToImage(), cfg.ThumbnailWidth), thumbPath, saveOpts...)
		logging.LogSaved(ctx, logger, thumbPath, n, err)
		if err != nil {
			return err
		}
	}
	return nil
}
