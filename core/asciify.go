package asciify

import "strings"

// Converter turns pixel grids into character grids. It holds no mutable
// state, so a single instance can be shared between goroutines as long as
// the grids passed in are not modified concurrently.
type Converter struct {
	q *Quantizer
}

// NewConverter creates a converter using the given glyph ramp and
// luminance scale.
func NewConverter(ramp *Ramp, scale Scale) (*Converter, error) {
	q, err := NewQuantizer(ramp, scale)
	if err != nil {
		return nil, err
	}
	return &Converter{q: q}, nil
}

// Convert downsamples the grid into cols x rows cells and replaces every
// cell with the glyph matching its mean luminance.
func (c *Converter) Convert(g *PixelGrid, cols, rows int) (CharGrid, error) {
	lum, err := Downsample(g, c.q.scale, cols, rows)
	if err != nil {
		return nil, err
	}
	return c.Quantize(lum)
}

// Quantize maps every value of an already downsampled luminance grid to
// a glyph.
func (c *Converter) Quantize(lum *LuminanceGrid) (CharGrid, error) {
	if err := lum.Validate(); err != nil {
		return nil, err
	}
	out := make(CharGrid, lum.Rows)

	var b strings.Builder
	for r := 0; r < lum.Rows; r++ {
		b.Reset()
		for col := 0; col < lum.Cols; col++ {
			b.WriteRune(c.q.Glyph(lum.At(col, r)))
		}
		out[r] = b.String()
	}
	return out, nil
}

// Quantizer returns the quantizer used by the converter.
func (c *Converter) Quantizer() *Quantizer { return c.q }

// Scale returns the luminance scale used by the converter.
func (c *Converter) Scale() Scale { return c.q.scale }
