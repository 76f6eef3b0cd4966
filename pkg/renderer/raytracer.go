package renderer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	NumWorkers     int  // Number of parallel workers (0 = use CPU count)
	ReportProgress bool // Log "Scanlines remaining" after each scanline
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers:     0,
		ReportProgress: true,
	}
}

// Raytracer evaluates a pixel source into a frame
type Raytracer struct {
	source PixelSource
	config RenderConfig
	pool   *WorkerPool
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards progress output.
func NewRaytracer(source PixelSource, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		source: source,
		config: config,
		pool:   NewWorkerPool(config.NumWorkers),
		logger: logger,
	}
}

// Render computes every pixel. Pixels are independent, so scanlines run in
// parallel; the returned frame is already in emission order.
func (rt *Raytracer) Render(ctx context.Context) (*core.Frame, RenderStats, error) {
	width, height := rt.source.Dimensions()
	if width <= 0 || height <= 0 {
		return nil, RenderStats{}, core.ErrInvalidConfig.Wrapf("image size %dx%d", width, height)
	}

	frame := core.NewFrame(width, height)
	startTime := time.Now()
	var remaining atomic.Int64
	remaining.Store(int64(height))

	err := rt.pool.Run(ctx, height, func(ctx context.Context, j int) error {
		if err := rt.renderScanline(frame, j); err != nil {
			return err
		}
		left := remaining.Add(-1)
		if rt.config.ReportProgress {
			rt.logger.Printf("Scanlines remaining: %d\n", left)
		}
		return nil
	})
	if err != nil {
		return nil, RenderStats{}, err
	}

	stats := CalculateStats(frame)
	stats.Elapsed = time.Since(startTime)
	stats.Workers = rt.pool.GetNumWorkers()
	return frame, stats, nil
}

// renderScanline fills the frame row holding scanline j
func (rt *Raytracer) renderScanline(frame *core.Frame, j int) error {
	row := frame.RowForScanline(j)
	for i := 0; i < frame.Width; i++ {
		color, err := rt.source.PixelColor(i, j)
		if err != nil {
			return fmt.Errorf("pixel (%d, %d): %w", i, j, err)
		}
		frame.Set(i, row, color)
	}
	return nil
}
