package asciify_test

import (
	"errors"
	"math"
	"testing"

	asciify "github.com/esimov/asciify/core"
)

func newQuantizer(t *testing.T, glyphs string, scale asciify.Scale) *asciify.Quantizer {
	t.Helper()

	ramp, err := asciify.NewRamp(glyphs)
	if err != nil {
		t.Fatalf("failed creating the ramp: %v", err)
	}
	q, err := asciify.NewQuantizer(ramp, scale)
	if err != nil {
		t.Fatalf("failed creating the quantizer: %v", err)
	}
	return q
}

func TestQuantizer_FourGlyphRamp(t *testing.T) {
	q := newQuantizer(t, " .:#", asciify.SingleChannel())

	tests := []struct {
		lum   float64
		index int
		glyph rune
	}{
		{0, 0, ' '},
		{63.74, 0, ' '},
		{63.75, 1, '.'},
		{127.5, 2, ':'},
		{200, 3, '#'},
		{255, 3, '#'},
	}
	for _, tt := range tests {
		if got := q.Index(tt.lum); got != tt.index {
			t.Errorf("Index(%v): expected %d, got %d", tt.lum, tt.index, got)
		}
		if got := q.Glyph(tt.lum); got != tt.glyph {
			t.Errorf("Glyph(%v): expected %q, got %q", tt.lum, tt.glyph, got)
		}
	}
}

func TestQuantizer_OutOfRangeValuesAreClamped(t *testing.T) {
	q := newQuantizer(t, " .:#", asciify.SingleChannel())

	for _, v := range []float64{-1, -1e9, math.Inf(-1), math.NaN()} {
		if idx := q.Index(v); idx != 0 {
			t.Errorf("Index(%v): expected 0, got %d", v, idx)
		}
	}
	for _, v := range []float64{255.0001, 1e12, math.Inf(1)} {
		if idx := q.Index(v); idx != 3 {
			t.Errorf("Index(%v): expected 3, got %d", v, idx)
		}
	}
}

func TestQuantizer_IsMonotonic(t *testing.T) {
	q := newQuantizer(t, asciify.DefaultGlyphs, asciify.SingleChannel())

	prev := 0
	for v := 0.0; v <= 255; v += 0.25 {
		idx := q.Index(v)
		if idx < prev {
			t.Fatalf("quantizer is not monotonic at %v: %d < %d", v, idx, prev)
		}
		prev = idx
	}
	if prev != len([]rune(asciify.DefaultGlyphs))-1 {
		t.Fatalf("max luminance should map to the last glyph, got index %d", prev)
	}
}

func TestQuantizer_SummedScaleSaturation(t *testing.T) {
	scale, err := asciify.SummedChannels(3)
	if err != nil {
		t.Fatal(err)
	}
	q := newQuantizer(t, " .:#", scale)

	if got := q.Glyph(765); got != '#' {
		t.Errorf("full white should map to the last glyph, got %q", got)
	}
	// 255 is a third of the summed range and must not saturate.
	if got := q.Index(255); got != 1 {
		t.Errorf("expected index 1 for a third of the summed range, got %d", got)
	}
}

func TestQuantizer_NilRamp(t *testing.T) {
	if _, err := asciify.NewQuantizer(nil, asciify.SingleChannel()); !errors.Is(err, asciify.ErrEmptyGlyphRamp) {
		t.Fatalf("expected ErrEmptyGlyphRamp, got %v", err)
	}
}
