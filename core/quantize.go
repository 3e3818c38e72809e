package asciify

import "math"

// Quantizer maps mean luminance values onto the glyphs of a ramp.
type Quantizer struct {
	ramp   *Ramp
	scale  Scale
	bucket float64
}

// NewQuantizer creates a quantizer splitting the luminance range of the
// scale into len(ramp) buckets of equal width.
func NewQuantizer(ramp *Ramp, scale Scale) (*Quantizer, error) {
	if ramp == nil || ramp.Len() == 0 {
		return nil, ErrEmptyGlyphRamp
	}
	return &Quantizer{
		ramp:   ramp,
		scale:  scale,
		bucket: scale.Max() / float64(ramp.Len()),
	}, nil
}

// Index returns the ramp index of the luminance value v.
func (q *Quantizer) Index(v float64) int {
	last := q.ramp.Len() - 1

	// NaN fails every comparison and lands on the first glyph.
	if !(v > 0) {
		return 0
	}
	// v == Max would otherwise index one past the end of the ramp.
	if v >= q.scale.Max() {
		return last
	}
	idx := int(math.Floor(v / q.bucket))
	if idx > last {
		idx = last
	}
	return idx
}

// Glyph returns the glyph used for the luminance value v.
func (q *Quantizer) Glyph(v float64) rune {
	return q.ramp.Glyph(q.Index(v))
}

// Ramp returns the glyph ramp of the quantizer.
func (q *Quantizer) Ramp() *Ramp { return q.ramp }

// Scale returns the luminance scale of the quantizer.
func (q *Quantizer) Scale() Scale { return q.scale }
