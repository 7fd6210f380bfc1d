package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-normals-raytracer/pkg/canvas"
	"github.com/df07/go-normals-raytracer/pkg/config"
	"github.com/df07/go-normals-raytracer/pkg/logging"
	"github.com/df07/go-normals-raytracer/pkg/output"
	"github.com/df07/go-normals-raytracer/pkg/renderer"
	"github.com/df07/go-normals-raytracer/pkg/scene"
)

// Request limits
const (
	MaxWidth   = 1920
	MaxSamples = 1000
	MinWidth   = 2
)

// Server handles web requests for the raytracer
type Server struct {
	port     int
	defaults config.Config
	logger   *slog.Logger
}

// NewServer creates a new web server. Query parameters missing from a request fall back to defaults.
func NewServer(port int, defaults config.Config, logger *slog.Logger) *Server {
	return &Server{
		port:     port,
		defaults: defaults,
		logger:   logging.OrNop(logger),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Samples int    `json:"samples"`
	Seed    int64  `json:"seed"`
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/render", s.handleRender)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", "addr", "http://localhost"+addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.List())
}

// handleRender renders a complete image and returns it as PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	world, err := scene.Create(req.Scene)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	rt := renderer.NewRaytracer(world, renderer.Config{
		SamplesPerPixel: req.Samples,
		Seed:            req.Seed,
		Workers:         0, // All CPUs
	}, renderer.WithLogger(s.logger))

	buf := canvas.New(req.Width, req.Height)
	stats, err := rt.Render(r.Context(), buf)
	if err != nil {
		// Client went away or parameters slipped past validation
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var body bytes.Buffer
	if err := output.Encode(&body, buf, output.FormatPNG); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", output.FormatPNG.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body.Bytes()); err != nil {
		s.logger.WarnContext(r.Context(), "writing response failed", "error", err)
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: s.defaults.Scene}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", min(s.defaults.Width, MaxWidth), MinWidth, MaxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", min(s.defaults.SamplesPerPixel, MaxSamples), 1, MaxSamples); err != nil {
		return nil, err
	}
	req.Seed = s.defaults.Seed
	if v := values.Get("seed"); v != "" {
		if req.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", v)
		}
	}

	cfg := s.defaults
	cfg.Width = req.Width
	req.Height = cfg.Height()
	if req.Height < MinWidth {
		return nil, fmt.Errorf("width %d gives an image height below %d", req.Width, MinWidth)
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	if errors.Is(err, scene.ErrUnknownScene) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
