package ppm

import (
	"bufio"
	"io"
	"strconv"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// Image is a decoded P3 image with 8-bit channels in raster order
type Image struct {
	Width    int
	Height   int
	MaxValue int
	Pixels   [][3]int
}

// At returns the pixel in column x of row y, with y=0 the top row
func (img *Image) At(x, y int) [3]int {
	return img.Pixels[y*img.Width+x]
}

// Decode parses a P3 image. Tokens may be separated by any whitespace and
// '#' starts a comment running to the end of the line.
func Decode(r io.Reader) (*Image, error) {
	s := &scanner{r: bufio.NewReader(r)}

	magic, err := s.token()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, core.ErrMalformedImage.Wrapf("unsupported magic %q", magic)
	}

	width, err := s.int("width")
	if err != nil {
		return nil, err
	}
	height, err := s.int("height")
	if err != nil {
		return nil, err
	}
	maxValue, err := s.int("max value")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || maxValue <= 0 || maxValue > 65535 {
		return nil, core.ErrMalformedImage.Wrapf("invalid header %dx%d max %d", width, height, maxValue)
	}

	img := &Image{
		Width:    width,
		Height:   height,
		MaxValue: maxValue,
		Pixels:   make([][3]int, width*height),
	}
	for i := range img.Pixels {
		for c := 0; c < 3; c++ {
			v, err := s.int("sample")
			if err != nil {
				return nil, err
			}
			if v < 0 || v > maxValue {
				return nil, core.ErrMalformedImage.Wrapf("sample %d out of range at pixel %d", v, i)
			}
			img.Pixels[i][c] = v
		}
	}
	return img, nil
}

type scanner struct {
	r *bufio.Reader
}

// token returns the next whitespace separated token, skipping comments
func (s *scanner) token() (string, error) {
	var buf []byte
	for {
		b, err := s.r.ReadByte()
		if err == io.EOF {
			if len(buf) > 0 {
				return string(buf), nil
			}
			return "", core.ErrMalformedImage.Wrap("unexpected end of image")
		}
		if err != nil {
			return "", err
		}
		switch {
		case b == '#':
			if _, err := s.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
			if len(buf) > 0 {
				return string(buf), nil
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f':
			if len(buf) > 0 {
				return string(buf), nil
			}
		default:
			buf = append(buf, b)
		}
	}
}

func (s *scanner) int(what string) (int, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, core.ErrMalformedImage.Wrapf("invalid %s %q", what, tok)
	}
	return v, nil
}
