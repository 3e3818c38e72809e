package asciify

import "fmt"

// maxChannelValue is the largest value a single 8-bit channel can hold.
const maxChannelValue = 255

// Mode selects how the channels of a pixel contribute to its luminance.
type Mode int

const (
	// Single uses the first channel of every pixel.
	Single Mode = iota
	// Summed adds up all the channels of every pixel.
	Summed
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "single"
	case Summed:
		return "summed"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts the textual name of a luminance mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single", "":
		return Single, nil
	case "summed":
		return Summed, nil
	}
	return Single, fmt.Errorf("unknown luminance mode %q", s)
}

// Scale couples the luminance contribution mode with the maximum luminance
// a pixel can reach under that mode. The two are never set independently,
// so the quantizer bucket width always matches the downsampler output.
type Scale struct {
	mode     Mode
	channels int
}

// SingleChannel returns the scale used for one channel (grayscale) grids.
// The maximum luminance is 255.
func SingleChannel() Scale {
	return Scale{mode: Single, channels: 1}
}

// SummedChannels returns a scale adding up n channels per pixel.
// The maximum luminance is 255*n.
func SummedChannels(n int) (Scale, error) {
	if n < 1 {
		return Scale{}, fmt.Errorf("summed scale needs at least one channel, got %d", n)
	}
	return Scale{mode: Summed, channels: n}, nil
}

// NewScale builds the scale for the given mode. The channel count is
// ignored in single channel mode.
func NewScale(mode Mode, channels int) (Scale, error) {
	switch mode {
	case Single:
		return SingleChannel(), nil
	case Summed:
		return SummedChannels(channels)
	}
	return Scale{}, fmt.Errorf("unknown luminance mode %v", mode)
}

// Mode returns the contribution mode.
func (s Scale) Mode() Mode { return s.mode }

// Channels returns the number of channels contributing to the luminance.
func (s Scale) Channels() int {
	if s.channels == 0 {
		return 1
	}
	return s.channels
}

// Max returns the largest luminance a pixel can contribute.
func (s Scale) Max() float64 {
	return float64(maxChannelValue * s.Channels())
}

// check verifies that a grid with the given channel count can be read
// with this scale.
func (s Scale) check(channels int) error {
	if s.mode == Summed && channels != s.Channels() {
		return fmt.Errorf("%w: scale sums %d channels, grid has %d",
			ErrScaleMismatch, s.Channels(), channels)
	}
	return nil
}

// contribution returns the luminance contribution of the pixel px.
func (s Scale) contribution(px []uint8) uint64 {
	if s.mode == Single {
		return uint64(px[0])
	}
	var sum uint64
	for _, c := range px {
		sum += uint64(c)
	}
	return sum
}
