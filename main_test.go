package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-ppm-raytracer/pkg/config"
	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/ppm"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

// execute runs the CLI in an empty working directory and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"sphere scene", "sphere", false},
		{"gradient scene", "gradient", false},
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType, renderer.DefaultCameraConfig())

			if tt.expectError {
				if !errors.Is(err, core.ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene for %q, got %v", tt.sceneType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tt.sceneType, err)
			}
			if w, h := scene.Dimensions(); w != 400 || h != 225 {
				t.Errorf("Expected 400x225, got %dx%d", w, h)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "render", "--width", "3", "--aspect-ratio", "1", "--workers", "2", "--log-level", "error")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	expected := "P3\n3 3\n255\n" +
		"155 195 255\n146 190 255\n155 195 255\n" +
		"191 217 255\n127 127 255\n191 217 255\n" +
		"228 239 255\n237 244 255\n228 239 255\n"
	if out != expected {
		t.Errorf("Unexpected image:\n%s\nexpected:\n%s", out, expected)
	}
}

func TestRenderCommand_DefaultSize(t *testing.T) {
	out, err := execute(t, "render", "--progress=false", "--log-level", "error")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.HasPrefix(out, "P3\n400 225\n255\n") {
		t.Errorf("Unexpected header: %q", out[:min(len(out), 20)])
	}
	if lines := strings.Count(out, "\n"); lines != 3+400*225 {
		t.Errorf("Expected %d lines, got %d", 3+400*225, lines)
	}
}

func TestRenderCommand_UnknownScene(t *testing.T) {
	_, err := execute(t, "render", "--scene", "cornell", "--log-level", "error")
	if !errors.Is(err, core.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestRenderCommand_InvalidWidth(t *testing.T) {
	_, err := execute(t, "render", "--width", "0", "--log-level", "error")
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestPatternCommand(t *testing.T) {
	out, err := execute(t, "pattern", "--log-level", "error")
	if err != nil {
		t.Fatalf("pattern failed: %v", err)
	}

	img, err := ppm.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Invalid PPM output: %v", err)
	}
	if img.Width != 256 || img.Height != 256 {
		t.Fatalf("Expected 256x256, got %dx%d", img.Width, img.Height)
	}

	corners := []struct {
		x, y     int
		expected [3]int
	}{
		{0, 0, [3]int{0, 255, 63}},
		{255, 0, [3]int{255, 255, 63}},
		{0, 255, [3]int{0, 0, 63}},
		{255, 255, [3]int{255, 0, 63}},
	}
	for _, c := range corners {
		if got := img.At(c.x, c.y); got != c.expected {
			t.Errorf("Pixel (%d, %d): expected %v, got %v", c.x, c.y, c.expected, got)
		}
	}
}

func TestPatternCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.ppm")

	out, err := execute(t, "pattern", "--width", "2", "--height", "2", "-o", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("pattern failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Output file not written: %v", err)
	}
	expected := "P3\n2 2\n255\n0 255 63\n255 255 63\n0 0 63\n255 0 63\n"
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, string(data))
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raytracer.yaml")

	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("Expected output to mention %s, got %q", path, out)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("Expected error when config file already exists")
	}
	if _, err := execute(t, "config", "init", "--force", path); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err = execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	expected, err := config.DefaultConfig().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if out != string(expected) {
		t.Errorf("Expected default config:\n%s\ngot:\n%s", expected, out)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("RAYTRACER_RENDER_SCENE", "gradient")
	t.Setenv("RAYTRACER_RENDER_WIDTH", "4")
	t.Setenv("RAYTRACER_RENDER_ASPECT_RATIO", "2")

	out, err := execute(t, "render", "--log-level", "error")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.HasPrefix(out, "P3\n4 2\n255\n0 255 63\n") {
		t.Errorf("Expected 4x2 gradient, got %q", out)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
