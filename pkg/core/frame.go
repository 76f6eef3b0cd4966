package core

// Frame is a rendered image held in emission order: row-major with the
// top row first
type Frame struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// At returns the pixel in column x of row y, with y=0 the top row
func (f *Frame) At(x, y int) Color {
	return f.Pixels[y*f.Width+x]
}

// Set stores the pixel in column x of row y, with y=0 the top row.
// Distinct pixels may be set from different goroutines.
func (f *Frame) Set(x, y int, c Color) {
	f.Pixels[y*f.Width+x] = c
}

// RowForScanline converts a scanline index (0 = bottom of the image) into
// the frame row it is stored in
func (f *Frame) RowForScanline(j int) int {
	return f.Height - 1 - j
}
