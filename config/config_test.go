package config_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/asciify/config"
	asciify "github.com/esimov/asciify/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "asciify.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("could not write the config file: %v", err)
	}
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ramp != asciify.DefaultGlyphs || cfg.Mode != "single" {
		t.Fatalf("expected the default config, got %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
ramp = " .:#"
mode = "summed"
channels = 3
invert = true
background = "#fff"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ramp != " .:#" || !cfg.Invert {
		t.Fatalf("config values were not decoded: %+v", cfg)
	}
	if cfg.CharAspect != asciify.DefaultCharAspect {
		t.Fatalf("unset keys should keep their default, got %v", cfg.CharAspect)
	}

	bg, err := cfg.BackgroundColor()
	if err != nil {
		t.Fatal(err)
	}
	if bg != (color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Fatalf("unexpected background %v", bg)
	}

	conv, err := cfg.Converter()
	if err != nil {
		t.Fatal(err)
	}
	if conv.Scale().Max() != 765 {
		t.Fatalf("expected the summed rgb scale, got max %v", conv.Scale().Max())
	}
	if conv.Quantizer().Ramp().String() != "#:. " {
		t.Fatalf("expected the inverted ramp, got %q", conv.Quantizer().Ramp().String())
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `max_luminance = 765`)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	for _, content := range []string{
		`mode = "average"`,
		`char_aspect = 0.0`,
		`background = "black"`,
		`fps = -1.0`,
		"mode = \"summed\"\nchannels = 4",
		"mode = \"summed\"\nchannels = 2",
	} {
		if _, err := config.Load(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected a validation error", content)
		}
	}
}

func TestConverter_EmptyRamp(t *testing.T) {
	cfg := config.Default()
	cfg.Ramp = ""
	if _, err := cfg.Converter(); err == nil {
		t.Fatal("expected an error for an empty ramp")
	}
}
