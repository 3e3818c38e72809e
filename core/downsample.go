package asciify

import "fmt"

// cellSize computes the floor divided cell size for partitioning a
// srcCols x srcRows grid into cols x rows cells.
func cellSize(srcCols, srcRows, cols, rows int) (cw, ch int, err error) {
	if cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("%w: requested %dx%d", ErrInvalidDimensions, cols, rows)
	}
	cw, ch = srcCols/cols, srcRows/rows
	if cw < 1 || ch < 1 {
		return 0, 0, fmt.Errorf("%w: requested %dx%d from a %dx%d grid",
			ErrInvalidDimensions, cols, rows, srcCols, srcRows)
	}
	return cw, ch, nil
}

// accumulator is the numeric type used for summing cell contributions.
type accumulator interface {
	~uint64 | ~float64
}

// pool averages every cw x ch cell of the source into dst. Source pixels
// past the last full cell are ignored.
func pool[T accumulator](dst *LuminanceGrid, cw, ch int, at func(x, y int) T) {
	area := float64(cw * ch)

	for r := 0; r < dst.Rows; r++ {
		y0 := r * ch
		for c := 0; c < dst.Cols; c++ {
			x0 := c * cw

			var sum T
			for y := y0; y < y0+ch; y++ {
				for x := x0; x < x0+cw; x++ {
					sum += at(x, y)
				}
			}
			dst.Set(c, r, float64(sum)/area)
		}
	}
}

// Downsample partitions the grid into cols x rows equally sized cells and
// returns the mean luminance of every cell. Remainder pixels on the right
// and bottom edges, left over by the floor division, are excluded.
func Downsample(g *PixelGrid, scale Scale, cols, rows int) (*LuminanceGrid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := scale.check(g.Channels); err != nil {
		return nil, err
	}
	cw, ch, err := cellSize(g.Cols, g.Rows, cols, rows)
	if err != nil {
		return nil, err
	}

	lum := NewLuminanceGrid(cols, rows)
	pool(lum, cw, ch, func(x, y int) uint64 {
		return scale.contribution(g.pixel(x, y))
	})
	return lum, nil
}

// Downsample pools an existing luminance grid into a coarser one using the
// same cell partitioning as the pixel grid downsampler.
func (l *LuminanceGrid) Downsample(cols, rows int) (*LuminanceGrid, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	cw, ch, err := cellSize(l.Cols, l.Rows, cols, rows)
	if err != nil {
		return nil, err
	}

	out := NewLuminanceGrid(cols, rows)
	pool(out, cw, ch, l.At)
	return out, nil
}
