package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/df07/go-ppm-raytracer/pkg/config"
	"github.com/df07/go-ppm-raytracer/pkg/ppm"
	"github.com/df07/go-ppm-raytracer/pkg/scene"
)

func newTestServer() *Server {
	cfg := config.DefaultConfig()
	cfg.Render.Width = 16
	cfg.Render.AspectRatio = 2
	cfg.Server.MaxWidth = 64
	cfg.Server.MaxHeight = 32
	return NewServer(cfg, zerolog.Nop())
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scenes")

	var scenes []scene.SceneInfo
	if err := json.NewDecoder(rec.Body).Decode(&scenes); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(scenes) != len(scene.ListScenes()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.ListScenes()), len(scenes))
	}
}

func TestHandleSceneConfig(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scene-config")

	var body struct {
		Scene    string                    `json:"scene"`
		Defaults map[string]any            `json:"defaults"`
		Limits   map[string]map[string]int `json:"limits"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Scene != "sphere" {
		t.Errorf("Expected default scene sphere, got %q", body.Scene)
	}
	if body.Defaults["width"] != float64(16) {
		t.Errorf("Expected default width 16, got %v", body.Defaults["width"])
	}
	if body.Limits["width"]["max"] != 64 || body.Limits["height"]["max"] != 32 {
		t.Errorf("Expected limits 64x32, got %v", body.Limits)
	}
}

func TestHandleRender_HeightAtLimit(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=gradient&width=32&aspectRatio=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "P3\n32 32\n255\n") {
		t.Errorf("Unexpected header: %q", strings.SplitN(rec.Body.String(), "\n", 4)[:3])
	}
}

func TestHandleRender(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=gradient&width=8&aspectRatio=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != ppm.ContentType {
		t.Errorf("Expected content type %q, got %q", ppm.ContentType, ct)
	}

	img, err := ppm.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Response is not a valid PPM: %v", err)
	}
	if img.Width != 8 || img.Height != 4 {
		t.Errorf("Expected 8x4 image, got %dx%d", img.Width, img.Height)
	}
	if img.At(0, 0) != [3]int{0, 255, 63} {
		t.Errorf("Expected top-left (0, 255, 63), got %v", img.At(0, 0))
	}
}

func TestHandleRender_DefaultScene(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "P3\n16 8\n255\n") {
		t.Errorf("Unexpected header: %q", strings.SplitN(rec.Body.String(), "\n", 4)[:3])
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unknown scene", "/api/render?scene=cornell"},
		{"width too large", "/api/render?width=65"},
		{"width not a number", "/api/render?width=abc"},
		{"aspect ratio out of range", "/api/render?aspectRatio=0"},
		{"derived height too large", "/api/render?scene=gradient&width=64&aspectRatio=0.1"},
		{"derived height just over limit", "/api/render?scene=gradient&width=33&aspectRatio=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(), tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandleRender_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
