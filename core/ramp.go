package asciify

import (
	"fmt"
	"unicode/utf8"
)

// DefaultGlyphs is the 70 character ramp, ordered from the least to the
// most visually dense glyph.
const DefaultGlyphs = " .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"

// ShortGlyphs is a compact ten step ramp.
const ShortGlyphs = " .:-=+*#%@"

// Ramp is an immutable, density ordered sequence of glyphs.
type Ramp struct {
	glyphs []rune
}

// NewRamp builds a glyph ramp from s. The first rune is used for the
// darkest cells and the last rune for the brightest ones.
func NewRamp(s string) (*Ramp, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("glyph ramp %q is not valid utf-8", s)
	}
	glyphs := []rune(s)
	if len(glyphs) == 0 {
		return nil, ErrEmptyGlyphRamp
	}
	return &Ramp{glyphs: glyphs}, nil
}

// MustRamp is like NewRamp but panics on error.
// It should only be used with constant ramps.
func MustRamp(s string) *Ramp {
	r, err := NewRamp(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of glyphs in the ramp.
func (r *Ramp) Len() int { return len(r.glyphs) }

// Glyph returns the glyph at index i.
func (r *Ramp) Glyph(i int) rune { return r.glyphs[i] }

// Contains reports whether c is one of the ramp glyphs.
func (r *Ramp) Contains(c rune) bool {
	for _, g := range r.glyphs {
		if g == c {
			return true
		}
	}
	return false
}

// Invert returns a new ramp with the glyph order reversed. Useful for
// terminals with a light background.
func (r *Ramp) Invert() *Ramp {
	n := len(r.glyphs)
	glyphs := make([]rune, n)
	for i, g := range r.glyphs {
		glyphs[n-1-i] = g
	}
	return &Ramp{glyphs: glyphs}
}

func (r *Ramp) String() string { return string(r.glyphs) }
