package asciify

import "errors"

var (
	// ErrInvalidDimensions is returned when the requested character grid is
	// empty or larger than the source grid.
	ErrInvalidDimensions = errors.New("invalid output dimensions")
	// ErrEmptyGlyphRamp is returned when a ramp is built from an empty string.
	ErrEmptyGlyphRamp = errors.New("empty glyph ramp")
	// ErrMalformedGrid is returned for empty or ragged pixel grids.
	ErrMalformedGrid = errors.New("malformed pixel grid")
	// ErrScaleMismatch is returned when a summed-channel scale is applied
	// to a grid with a different number of channels.
	ErrScaleMismatch = errors.New("luminance scale does not match grid channels")
)
