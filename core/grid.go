package asciify

import (
	"fmt"
	"strings"
)

// PixelGrid holds the raw pixel samples of an image in row-major order.
// Every pixel occupies Channels consecutive bytes.
type PixelGrid struct {
	Pixels   []uint8
	Rows     int
	Cols     int
	Channels int
}

// NewPixelGrid builds a grid from a slice of rows, each row holding
// cols*channels samples. Rows of unequal length are rejected.
func NewPixelGrid(rows [][]uint8, channels int) (*PixelGrid, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrMalformedGrid, channels)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: grid is empty", ErrMalformedGrid)
	}
	width := len(rows[0])
	if width%channels != 0 {
		return nil, fmt.Errorf("%w: row length %d is not a multiple of %d channels",
			ErrMalformedGrid, width, channels)
	}
	pixels := make([]uint8, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d samples, expected %d",
				ErrMalformedGrid, i, len(row), width)
		}
		pixels = append(pixels, row...)
	}
	return &PixelGrid{
		Pixels:   pixels,
		Rows:     len(rows),
		Cols:     width / channels,
		Channels: channels,
	}, nil
}

// Validate checks the grid invariants.
func (g *PixelGrid) Validate() error {
	if g == nil || g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("%w: grid is empty", ErrMalformedGrid)
	}
	if g.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrMalformedGrid, g.Channels)
	}
	if len(g.Pixels) != g.Rows*g.Cols*g.Channels {
		return fmt.Errorf("%w: %d samples for a %dx%dx%d grid",
			ErrMalformedGrid, len(g.Pixels), g.Cols, g.Rows, g.Channels)
	}
	return nil
}

// pixel returns the samples of the pixel at column x, row y.
func (g *PixelGrid) pixel(x, y int) []uint8 {
	i := (y*g.Cols + x) * g.Channels
	return g.Pixels[i : i+g.Channels]
}

// LuminanceGrid holds one mean luminance value per cell, row-major.
type LuminanceGrid struct {
	Values []float64
	Rows   int
	Cols   int
}

// NewLuminanceGrid allocates a zeroed grid.
func NewLuminanceGrid(cols, rows int) *LuminanceGrid {
	return &LuminanceGrid{
		Values: make([]float64, cols*rows),
		Rows:   rows,
		Cols:   cols,
	}
}

// Validate checks that the grid is non-empty and that Values holds exactly
// Rows*Cols entries.
func (l *LuminanceGrid) Validate() error {
	if l == nil || l.Rows <= 0 || l.Cols <= 0 || len(l.Values) != l.Rows*l.Cols {
		return fmt.Errorf("%w: luminance grid is empty or inconsistent", ErrMalformedGrid)
	}
	return nil
}

// At returns the value at column x, row y.
func (l *LuminanceGrid) At(x, y int) float64 {
	return l.Values[y*l.Cols+x]
}

// Set stores v at column x, row y.
func (l *LuminanceGrid) Set(x, y int, v float64) {
	l.Values[y*l.Cols+x] = v
}

// CharGrid is the rendered character approximation, one string per row.
// Row 0 corresponds to the top of the source grid.
type CharGrid []string

// String joins the rows with newlines.
func (c CharGrid) String() string {
	return strings.Join(c, "\n")
}

// FlipV returns a copy of the grid with the row order reversed.
func (c CharGrid) FlipV() CharGrid {
	out := make(CharGrid, len(c))
	for i, row := range c {
		out[len(c)-1-i] = row
	}
	return out
}

// Size returns the number of columns and rows of the grid.
func (c CharGrid) Size() (cols, rows int) {
	if len(c) == 0 {
		return 0, 0
	}
	return len([]rune(c[0])), len(c)
}
