// Package config loads raytracer settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

const (
	// FileName is the config file name searched for, without extension
	FileName = "raytracer"
	// EnvPrefix prefixes environment overrides, e.g. RAYTRACER_RENDER_WIDTH
	EnvPrefix = "RAYTRACER"
	// StdoutPath as the output path writes the image to standard output
	StdoutPath = "-"
)

// Config represents the raytracer configuration
type Config struct {
	Render   RenderConfig `yaml:"render" mapstructure:"render"`
	Server   ServerConfig `yaml:"server" mapstructure:"server"`
	LogLevel string       `yaml:"log_level" mapstructure:"log_level"`
}

// RenderConfig contains image and camera settings
type RenderConfig struct {
	Scene          string  `yaml:"scene" mapstructure:"scene"`
	Width          int     `yaml:"width" mapstructure:"width"`
	AspectRatio    float32 `yaml:"aspect_ratio" mapstructure:"aspect_ratio"`
	ViewportHeight float32 `yaml:"viewport_height" mapstructure:"viewport_height"`
	FocalLength    float32 `yaml:"focal_length" mapstructure:"focal_length"`
	Workers        int     `yaml:"workers" mapstructure:"workers"`
	Output         string  `yaml:"output" mapstructure:"output"`
	Progress       bool    `yaml:"progress" mapstructure:"progress"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port      int `yaml:"port" mapstructure:"port"`
	MaxWidth  int `yaml:"max_width" mapstructure:"max_width"`
	MaxHeight int `yaml:"max_height" mapstructure:"max_height"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	camera := renderer.DefaultCameraConfig()
	return &Config{
		Render: RenderConfig{
			Scene:          "sphere",
			Width:          camera.ImageWidth,
			AspectRatio:    camera.AspectRatio,
			ViewportHeight: camera.ViewportHeight,
			FocalLength:    camera.FocalLength,
			Workers:        0,
			Output:         StdoutPath,
			Progress:       true,
		},
		Server: ServerConfig{
			Port:      8080,
			MaxWidth:  1920,
			MaxHeight: 1080,
		},
		LogLevel: "info",
	}
}

// SetDefaults registers every key with its default value so that
// environment variables are picked up by Unmarshal
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("render.scene", d.Render.Scene)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.aspect_ratio", d.Render.AspectRatio)
	v.SetDefault("render.viewport_height", d.Render.ViewportHeight)
	v.SetDefault("render.focal_length", d.Render.FocalLength)
	v.SetDefault("render.workers", d.Render.Workers)
	v.SetDefault("render.output", d.Render.Output)
	v.SetDefault("render.progress", d.Render.Progress)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.max_width", d.Server.MaxWidth)
	v.SetDefault("server.max_height", d.Server.MaxHeight)
	v.SetDefault("log_level", d.LogLevel)
}

// Load reads configuration into v. With an empty path it searches the
// working directory and ~/.raytracer for raytracer.yaml and falls back to
// defaults when none exists; an explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, "."+FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Render.Scene == "" {
		return core.ErrInvalidConfig.Wrap("scene cannot be empty")
	}
	if c.Render.Workers < 0 {
		return core.ErrInvalidConfig.Wrapf("workers cannot be negative, got %d", c.Render.Workers)
	}
	if err := c.CameraConfig().Validate(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return core.ErrInvalidConfig.Wrapf("invalid port %d", c.Server.Port)
	}
	if c.Server.MaxWidth <= 0 {
		return core.ErrInvalidConfig.Wrapf("max width must be positive, got %d", c.Server.MaxWidth)
	}
	if c.Server.MaxHeight <= 0 {
		return core.ErrInvalidConfig.Wrapf("max height must be positive, got %d", c.Server.MaxHeight)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return core.ErrInvalidConfig.Wrapf("log level %q", c.LogLevel)
	}
	return nil
}

// CameraConfig returns the camera described by the render settings
func (c *Config) CameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		AspectRatio:    c.Render.AspectRatio,
		ImageWidth:     c.Render.Width,
		ViewportHeight: c.Render.ViewportHeight,
		FocalLength:    c.Render.FocalLength,
	}
}

// RendererConfig returns the raytracer settings
func (c *Config) RendererConfig() renderer.RenderConfig {
	return renderer.RenderConfig{
		NumWorkers:     c.Render.Workers,
		ReportProgress: c.Render.Progress,
	}
}

// Marshal encodes the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration as YAML, creating parent directories
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
