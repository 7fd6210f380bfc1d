package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/df07/go-normals-raytracer/pkg/config"
	"github.com/df07/go-normals-raytracer/pkg/logging"
	"github.com/df07/go-normals-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	envFile := flag.String("config", ".env", "Optional .env file with RT_* settings")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	webServer := server.NewServer(*port, cfg, logger)
	logger.Info("normals raytracer web server", "render", fmt.Sprintf("http://localhost:%d/api/render?scene=default", *port))

	if err := webServer.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
