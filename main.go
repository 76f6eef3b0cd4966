package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/df07/go-ppm-raytracer/pkg/config"
	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/ppm"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
	"github.com/df07/go-ppm-raytracer/pkg/scene"
	"github.com/df07/go-ppm-raytracer/web/server"
)

const appName = "raytracer"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands
type app struct {
	v       *viper.Viper
	cfgFile string
	config  *config.Config
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   appName,
		Short: "Ray trace a sphere into a plain-text PPM image",
		Long: `Casts one ray per pixel through a fixed camera at a sphere under a
white-to-blue sky and writes the result as a P3 PPM image.

Settings come from raytracer.yaml (working directory or ~/.raytracer),
RAYTRACER_* environment variables and command line flags, in increasing
priority.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.config = cfg

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./raytracer.yaml or ~/.raytracer/raytracer.yaml)")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error")
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(a.renderCmd(), a.patternCmd(), a.serveCmd(), a.configCmd())
	return root
}

func (a *app) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PPM image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := createScene(a.config.Render.Scene, a.config.CameraConfig())
			if err != nil {
				return err
			}
			return a.renderAndWrite(cmd, s.Name, s.Source)
		},
	}

	f := cmd.Flags()
	f.String("scene", "sphere", "scene to render: sphere or gradient")
	f.Int("width", 400, "image width in pixels")
	f.Float32("aspect-ratio", 16.0/9.0, "image width divided by height")
	f.Float32("viewport-height", 2, "viewport height in world units")
	f.Float32("focal-length", 1, "distance from the camera to the viewport")
	a.bindRenderOutputFlags(cmd)
	a.bind(cmd, map[string]string{
		"render.scene":           "scene",
		"render.width":           "width",
		"render.aspect_ratio":    "aspect-ratio",
		"render.viewport_height": "viewport-height",
		"render.focal_length":    "focal-length",
	})
	return cmd
}

func (a *app) patternCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Write the gradient test pattern as a PPM image",
		Long: `Writes a flat test image without casting rays: red ramps from left to
right, green from bottom to top and blue is 0.25 everywhere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return core.ErrInvalidConfig.Wrapf("pattern size %dx%d", width, height)
			}
			return a.renderAndWrite(cmd, "pattern", scene.NewGradientPattern(width, height))
		},
	}

	cmd.Flags().IntVar(&width, "width", 256, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 256, "image height in pixels")
	a.bindRenderOutputFlags(cmd)
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered images over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.NewServer(a.config, a.log).Start(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 8080, "port to serve on")
	cmd.Flags().Int("max-width", 1920, "largest image width the render endpoint accepts")
	cmd.Flags().Int("max-height", 1080, "largest image height the render endpoint accepts")
	a.bind(cmd, map[string]string{
		"server.port":       "port",
		"server.max_width":  "max-width",
		"server.max_height": "max-height",
	})
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at: %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.config.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

// bindRenderOutputFlags adds the flags shared by every command that writes an image
func (a *app) bindRenderOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", config.StdoutPath, "output file, - for stdout")
	f.Int("workers", 0, "parallel workers (0 = CPU count)")
	f.Bool("progress", true, "log scanlines remaining while rendering")
	a.bind(cmd, map[string]string{
		"render.output":   "output",
		"render.workers":  "workers",
		"render.progress": "progress",
	})
}

// bind ties config keys to the command's flags once the command is selected,
// so flags with the same name on sibling commands do not overwrite each other
func (a *app) bind(cmd *cobra.Command, keys map[string]string) {
	prev := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for key, name := range keys {
			if err := a.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return err
			}
		}
		cfg, err := config.Load(a.v, a.cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.config = cfg
		if prev != nil {
			return prev(cmd, args)
		}
		return nil
	}
}

// createScene builds a built-in scene by name
func createScene(name string, camera renderer.CameraConfig) (*scene.Scene, error) {
	if name == "" {
		return nil, core.ErrUnknownScene.Wrap("scene name is empty")
	}
	return scene.Create(name, camera)
}

// renderAndWrite renders source and writes the PPM image to the configured output
func (a *app) renderAndWrite(cmd *cobra.Command, name string, source renderer.PixelSource) error {
	var logger core.Logger
	if a.config.Render.Progress {
		logger = renderer.NewZerologLogger(a.log, zerolog.InfoLevel)
	}

	raytracer := renderer.NewRaytracer(source, a.config.RendererConfig(), logger)
	frame, stats, err := raytracer.Render(cmd.Context())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	var buf bytes.Buffer
	if err := ppm.Encode(&buf, frame); err != nil {
		return err
	}
	size := buf.Len()

	if err := writeOutput(cmd.OutOrStdout(), a.config.Render.Output, &buf); err != nil {
		return err
	}

	a.log.Info().
		Str("scene", name).
		Str("size", fmt.Sprintf("%dx%d", stats.Width, stats.Height)).
		Str("pixels", humanize.Comma(int64(stats.TotalPixels))).
		Str("rate", humanize.SIWithDigits(stats.PixelsPerSecond(), 2, "px/s")).
		Str("bytes", humanize.Bytes(uint64(size))).
		Int("workers", stats.Workers).
		Float64("mean_luminance", stats.MeanLuminance).
		Dur("elapsed", stats.Elapsed).
		Msg("Render complete")
	return nil
}

// writeOutput copies the image to stdout or to the named file
func writeOutput(stdout io.Writer, path string, image io.Reader) error {
	if path == "" || path == config.StdoutPath {
		_, err := io.Copy(stdout, image)
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, image); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return file.Close()
}
