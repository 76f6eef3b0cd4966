package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ScanlineFunc renders one scanline
type ScanlineFunc func(ctx context.Context, scanline int) error

// WorkerPool renders scanlines in parallel with a bounded number of workers
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run calls fn for every scanline from height-1 down to 0. Scanlines are
// submitted top first but may complete in any order. The first error
// cancels the remaining work and is returned.
func (wp *WorkerPool) Run(ctx context.Context, height int, fn ScanlineFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	for j := height - 1; j >= 0; j-- {
		if gctx.Err() != nil {
			break
		}
		scanline := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, scanline)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
