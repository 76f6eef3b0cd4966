package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/df07/go-ppm-raytracer/pkg/config"
	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/ppm"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
	"github.com/df07/go-ppm-raytracer/pkg/scene"
)

// minWidth and minHeight are the smallest image size accepted by the render endpoint
const (
	minWidth  = 1
	minHeight = 1
)

// Server handles web requests for the raytracer
type Server struct {
	config *config.Config
	log    zerolog.Logger
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, log zerolog.Logger) *Server {
	return &Server{config: cfg, log: log}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene       string  `json:"scene"`       // Scene name (e.g., "sphere")
	Width       int     `json:"width"`       // Image width
	AspectRatio float32 `json:"aspectRatio"` // Width divided by height
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/scenes", s.handleScenes).Methods(http.MethodGet)
	api.HandleFunc("/scene-config", s.handleSceneConfig).Methods(http.MethodGet)
	api.HandleFunc("/render", s.handleRender).Methods(http.MethodGet)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msgf("Starting web server on http://localhost%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("Shutting down web server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, scene.ListScenes())
}

// handleSceneConfig returns the default camera configuration and limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	camera := s.config.CameraConfig()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": s.config.Render.Scene,
		"defaults": map[string]interface{}{
			"width":          camera.ImageWidth,
			"height":         camera.ImageHeight(),
			"aspectRatio":    camera.AspectRatio,
			"viewportHeight": camera.ViewportHeight,
			"focalLength":    camera.FocalLength,
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": minWidth,
				"max": s.config.Server.MaxWidth,
			},
			"height": map[string]int{
				"min": minHeight,
				"max": s.config.Server.MaxHeight,
			},
		},
	})
}

// handleRender renders the requested scene and returns it as a P3 image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	camera := s.config.CameraConfig()
	camera.ImageWidth = req.Width
	camera.AspectRatio = req.AspectRatio

	sceneObj, err := scene.Create(req.Scene, camera)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, core.ErrUnknownScene) && !errors.Is(err, core.ErrInvalidConfig) {
			status = http.StatusInternalServerError
		}
		s.writeError(w, status, err.Error())
		return
	}

	raytracer := renderer.NewRaytracer(sceneObj.Source, renderer.RenderConfig{
		NumWorkers: s.config.Render.Workers,
	}, nil)

	// Use request context to stop rendering when the client disconnects
	frame, stats, err := raytracer.Render(r.Context())
	if err != nil {
		s.log.Error().Err(err).Str("scene", req.Scene).Msg("Render failed")
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := ppm.Encode(&buf, frame); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Encode error: %v", err))
		return
	}

	s.log.Info().
		Str("scene", req.Scene).
		Int("width", stats.Width).
		Int("height", stats.Height).
		Dur("elapsed", stats.Elapsed).
		Msg("Rendered image")

	w.Header().Set("Content-Type", ppm.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn().Err(err).Msg("Failed to write response")
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: s.config.Render.Scene}

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", s.config.Render.Width, minWidth, s.config.Server.MaxWidth); err != nil {
		return nil, err
	}
	aspect, err := parseFloatParam(query, "aspectRatio", float64(s.config.Render.AspectRatio), 0.1, 10)
	if err != nil {
		return nil, err
	}
	req.AspectRatio = float32(aspect)

	// Height follows from width and aspect ratio, so it is checked after both
	camera := s.config.CameraConfig()
	camera.ImageWidth = req.Width
	camera.AspectRatio = req.AspectRatio
	if height := camera.ImageHeight(); height > s.config.Server.MaxHeight {
		return nil, fmt.Errorf("height must be between %d and %d, got: %d (width %d / aspectRatio %g)",
			minHeight, s.config.Server.MaxHeight, height, req.Width, aspect)
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

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
