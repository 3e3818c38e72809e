package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	asciify "github.com/esimov/asciify/core"
)

// Config holds the conversion settings read from the TOML file.
// Command line flags are applied on top of it.
type Config struct {
	Ramp       string  `toml:"ramp"`
	Mode       string  `toml:"mode"`
	Channels   int     `toml:"channels"`
	Invert     bool    `toml:"invert"`
	CharAspect float64 `toml:"char_aspect"`
	Background string  `toml:"background"`
	FPS        float64 `toml:"fps"`
}

// Default returns the settings used when no configuration file exists.
func Default() *Config {
	return &Config{
		Ramp:       asciify.DefaultGlyphs,
		Mode:       asciify.Single.String(),
		Channels:   3,
		CharAspect: asciify.DefaultCharAspect,
		Background: "#000000",
		FPS:        10,
	}
}

// Load reads the configuration file on top of the defaults. A missing file
// is not an error. Keys not known to Config are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks the values which can be verified without building
// the converter.
func (c *Config) Validate() error {
	if c.CharAspect <= 0 {
		return fmt.Errorf("char_aspect must be positive, got %v", c.CharAspect)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	mode, err := asciify.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	if mode == asciify.Summed && !slices.Contains(asciify.ImageChannels, c.Channels) {
		return fmt.Errorf("%w: summed mode needs %v channels, got %d",
			asciify.ErrScaleMismatch, asciify.ImageChannels, c.Channels)
	}
	return nil
}

// Scale returns the luminance scale selected by the mode and channels.
func (c *Config) Scale() (asciify.Scale, error) {
	mode, err := asciify.ParseMode(c.Mode)
	if err != nil {
		return asciify.Scale{}, err
	}
	return asciify.NewScale(mode, c.Channels)
}

// Converter builds the glyph ramp and the luminance scale together and
// returns the converter using them.
func (c *Config) Converter() (*asciify.Converter, error) {
	ramp, err := asciify.NewRamp(c.Ramp)
	if err != nil {
		return nil, err
	}
	if c.Invert {
		ramp = ramp.Invert()
	}
	scale, err := c.Scale()
	if err != nil {
		return nil, err
	}
	return asciify.NewConverter(ramp, scale)
}

var errColorFormat = errors.New("unknown color format")

// BackgroundColor decodes the #rgb or #rrggbb background color.
func (c *Config) BackgroundColor() (color.NRGBA, error) {
	s := c.Background
	if (len(s) != 4 && len(s) != 7) || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("%w: %q", errColorFormat, s)
	}

	i, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", errColorFormat, s)
	}

	if len(s) == 7 {
		return color.NRGBA{
			R: uint8(i >> 16),
			G: uint8(i >> 8),
			B: uint8(i),
			A: 0xFF,
		}, nil
	}
	convol := func(x uint8) uint8 { return 0x11 * (0x0F & x) }
	return color.NRGBA{
		R: convol(uint8(i >> 8)),
		G: convol(uint8(i >> 4)),
		B: convol(uint8(i)),
		A: 0xFF,
	}, nil
}
