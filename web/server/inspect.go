package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-normals-raytracer/pkg/core"
	"github.com/df07/go-normals-raytracer/pkg/renderer"
	"github.com/df07/go-normals-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit       bool       `json:"hit"`
	Point     [3]float64 `json:"point"`
	Normal    [3]float64 `json:"normal"`
	Distance  float64    `json:"distance,omitempty"`
	FrontFace bool       `json:"frontFace"`
	Color     string     `json:"color"` // Unjittered shade of the pixel, #rrggbb
}

// inspectPixel casts a ray through the center of pixel (x, y), y counted from the top,
// and reports the closest hit.
func inspectPixel(world *scene.Scene, width, height, x, y int) InspectResponse {
	camera := renderer.NewCamera()
	u := (float64(x) + 0.5) / float64(width-1)
	v := (float64(height-1-y) + 0.5) / float64(height-1)
	ray := camera.GetRay(u, v)

	rt := renderer.NewRaytracer(world, renderer.DefaultConfig(), renderer.WithCamera(camera))
	color, _ := rt.RayColor(ray)
	resp := InspectResponse{Color: fmt.Sprintf("#%06x", renderer.FormatColor(color, 1))}

	hit, ok := world.Hit(ray, 0, math.Inf(1))
	if !ok {
		return resp
	}
	resp.Hit = true
	resp.Point = vecArray(hit.Point)
	resp.Normal = vecArray(hit.Normal)
	resp.Distance = hit.T
	resp.FrontFace = hit.FrontFace
	return resp
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect reports what the primary ray through a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
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

	values := r.URL.Query()
	x, err := parseIntParam(values, "x", req.Width/2, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := parseIntParam(values, "y", req.Height/2, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(world, req.Width, req.Height, x, y))
}
