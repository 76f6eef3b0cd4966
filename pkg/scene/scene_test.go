package scene

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/ppm"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

func renderPPM(t *testing.T, s *Scene) string {
	t.Helper()
	frame, _, err := renderer.NewRaytracer(s.Source, renderer.RenderConfig{NumWorkers: 4}, nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var buf bytes.Buffer
	if err := ppm.Encode(&buf, frame); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.String()
}

func TestGradientScene_Golden256(t *testing.T) {
	s, err := Create("gradient", renderer.CameraConfig{AspectRatio: 1, ImageWidth: 256, ViewportHeight: 2, FocalLength: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(renderPPM(t, s), "\n"), "\n")
	if len(lines) != 3+256*256 {
		t.Fatalf("Expected %d lines, got %d", 3+256*256, len(lines))
	}

	expected := map[int]string{
		0:                 "P3",
		1:                 "256 256",
		2:                 "255",
		3:                 "0 255 63",   // top-left, first emitted
		3 + 255:           "255 255 63", // top-right
		3 + 255*256:       "0 0 63",     // bottom-left
		3 + 256*256 - 1:   "255 0 63",   // bottom-right, last emitted
		3 + 128*256 + 128: "128 127 63",
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("Line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}

func TestSphereScene_Golden3x3(t *testing.T) {
	s, err := Create("sphere", renderer.CameraConfig{AspectRatio: 1, ImageWidth: 3, ViewportHeight: 2, FocalLength: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	expected := "P3\n3 3\n255\n" +
		"155 195 255\n146 190 255\n155 195 255\n" +
		"191 217 255\n127 127 255\n191 217 255\n" +
		"228 239 255\n237 244 255\n228 239 255\n"
	if got := renderPPM(t, s); got != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, got)
	}
}

func TestSphereScene_DefaultCamera(t *testing.T) {
	s, err := NewSphereScene(renderer.DefaultCameraConfig())
	if err != nil {
		t.Fatalf("NewSphereScene failed: %v", err)
	}
	if w, h := s.Dimensions(); w != 400 || h != 225 {
		t.Errorf("Expected 400x225, got %dx%d", w, h)
	}

	// Image center looks straight at the sphere
	c, err := s.Source.PixelColor(200, 112)
	if err != nil {
		t.Fatalf("PixelColor failed: %v", err)
	}
	if c.Z < 0.99 || c.X < 0.45 || c.X > 0.55 {
		t.Errorf("Expected a front-facing normal color near (0.5, 0.5, 1), got %v", c)
	}
}

func TestCreate_Errors(t *testing.T) {
	if _, err := Create("cornell", renderer.DefaultCameraConfig()); !errors.Is(err, core.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}

	bad := renderer.DefaultCameraConfig()
	bad.ImageWidth = 0
	for _, name := range []string{"sphere", "gradient"} {
		if _, err := Create(name, bad); !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestListScenes(t *testing.T) {
	scenes := ListScenes()
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].ID != "gradient" || scenes[1].ID != "sphere" {
		t.Errorf("Expected sorted IDs [gradient sphere], got %v", scenes)
	}
	for _, info := range scenes {
		if _, err := Create(info.ID, renderer.DefaultCameraConfig()); err != nil {
			t.Errorf("Listed scene %q cannot be created: %v", info.ID, err)
		}
	}
}
