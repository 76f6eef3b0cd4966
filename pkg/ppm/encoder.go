// Package ppm reads and writes plain-text PPM (P3) images.
package ppm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// Magic is the plain-text PPM format identifier
const Magic = "P3"

// ContentType is the MIME type of a PPM image
const ContentType = "image/x-portable-pixmap"

// Encoder streams pixels as a P3 image. Pixels must be written in raster
// order, top row first, left to right.
type Encoder struct {
	w       *bufio.Writer
	width   int
	height  int
	written int
}

// NewEncoder creates an encoder for a width x height image
func NewEncoder(w io.Writer, width, height int) *Encoder {
	return &Encoder{
		w:      bufio.NewWriter(w),
		width:  width,
		height: height,
	}
}

// WriteHeader writes "P3\n<width> <height>\n255\n"
func (e *Encoder) WriteHeader() error {
	_, err := fmt.Fprintf(e.w, "%s\n%d %d\n%d\n", Magic, e.width, e.height, core.MaxChannel)
	return err
}

// WritePixel quantizes a color and writes it as one "r g b" line
func (e *Encoder) WritePixel(c core.Color) error {
	if e.written >= e.width*e.height {
		return fmt.Errorf("image already holds %d pixels", e.written)
	}
	r, g, b := core.Quantize(c)
	if _, err := fmt.Fprintf(e.w, "%d %d %d\n", r, g, b); err != nil {
		return err
	}
	e.written++
	return nil
}

// Flush writes any buffered data and checks that every pixel was written
func (e *Encoder) Flush() error {
	if err := e.w.Flush(); err != nil {
		return err
	}
	if e.written != e.width*e.height {
		return fmt.Errorf("wrote %d of %d pixels", e.written, e.width*e.height)
	}
	return nil
}

// Encode writes a whole frame
func Encode(w io.Writer, frame *core.Frame) error {
	enc := NewEncoder(w, frame.Width, frame.Height)
	if err := enc.WriteHeader(); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}
	for _, c := range frame.Pixels {
		if err := enc.WritePixel(c); err != nil {
			return fmt.Errorf("failed to write pixel: %w", err)
		}
	}
	return enc.Flush()
}
