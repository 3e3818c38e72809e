package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/esimov/asciify/config"
	asciify "github.com/esimov/asciify/core"
)

const banner = `
┌─┐┌─┐┌─┐┬┬┌─┐┬ ┬
├─┤└─┐│  ││├┤ └┬┘
┴ ┴└─┘└─┘┴┴└   ┴

Image and 3-D model to ASCII art converter.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// message colors
const (
	successColor = "\x1b[92m"
	errorColor   = "\x1b[31m"
	defaultColor = "\x1b[0m"
)

// Exit codes reported to the shell.
const (
	exitFailure    = 1
	exitInvalidArg = 2
)

// Version indicates the current build version.
var Version string

// options holds the command line settings not covered by the config file.
type options struct {
	source      string
	destination string
	cols        int
	rows        int
	model       bool
	video       bool
	flip        bool
	loop        bool
	match       string
	format      string
	logFile     string
	colored     bool
}

func main() {
	var (
		// Flags
		source      = flag.String("in", pipeName, "Source image, GIF, video, STL model or directory")
		destination = flag.String("out", "", "Destination: empty for the terminal viewer, - for stdout, .txt, .png or a directory")
		cols        = flag.Int("x", 0, "Output columns (0 fits the terminal)")
		rows        = flag.Int("y", 0, "Output rows (0 keeps the aspect ratio)")
		model       = flag.Bool("model", false, "Treat the input as an STL model")
		video       = flag.Bool("video", false, "Decode the input with ffmpeg")
		rampStr     = flag.String("ramp", "", "Glyph ramp, from the darkest to the brightest glyph")
		mode        = flag.String("mode", "", "Luminance mode: single|summed")
		channels    = flag.Int("channels", 0, "Channels summed in summed mode: 1|3")
		invert      = flag.Bool("invert", false, "Reverse the glyph ramp (light backgrounds)")
		flip        = flag.Bool("flip", false, "Flip the output vertically")
		loop        = flag.Bool("loop", false, "Loop animations")
		fps         = flag.Float64("fps", 0, "Video frame rate")
		configFile  = flag.String("config", "", "TOML configuration file")
		match       = flag.String("match", "**.{png,jpg,jpeg,gif,bmp,webp}", "File pattern used when the input is a directory")
		format      = flag.String("format", "txt", "Output format of directory conversions: txt|png")
		logFile     = flag.String("log", "", "Write the log to this file (the viewer hides stderr)")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, banner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	colored := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log := newLogger(*verbose, colored)

	cfg, err := config.Load(*configFile)
	if err != nil {
		fatal(log, colored, exitInvalidArg, "Invalid configuration: %v", err)
	}

	// Flags explicitly set on the command line override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ramp":
			cfg.Ramp = *rampStr
		case "mode":
			cfg.Mode = *mode
		case "channels":
			cfg.Channels = *channels
		case "invert":
			cfg.Invert = *invert
		case "fps":
			cfg.FPS = *fps
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(log, colored, exitInvalidArg, "Invalid settings: %v", err)
	}
	log.Debugf("effective configuration: %s", spew.Sdump(cfg))

	conv, err := cfg.Converter()
	if err != nil {
		fatal(log, colored, exitCode(err), "Cannot build the converter: %v", err)
	}

	opts := options{
		source:      *source,
		destination: *destination,
		cols:        *cols,
		rows:        *rows,
		model:       *model,
		video:       *video,
		flip:        *flip,
		loop:        *loop,
		match:       *match,
		format:      *format,
		logFile:     *logFile,
		colored:     colored,
	}
	if opts.cols < 0 || opts.rows < 0 {
		fatal(log, colored, exitInvalidArg, "Output size cannot be negative: %dx%d", opts.cols, opts.rows)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	app := &app{cfg: cfg, conv: conv, opts: opts, log: log}
	if err := app.run(ctx); err != nil {
		stop()
		fatal(log, colored, exitCode(err), "Conversion failed: %v", err)
	}
	log.Debugf("execution time: %.2fs", time.Since(start).Seconds())
}

// newLogger creates the logger writing to stderr. Colors are only used
// when stderr is a terminal.
func newLogger(verbose, colored bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(colorable.NewColorableStderr())
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      colored,
		DisableColors:    !colored,
		DisableTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// redirectLog sends the log to the file given with -log, or discards it.
// The terminal viewer owns the screen, anything written to stderr would
// corrupt it.
func redirectLog(log *logrus.Logger, path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	log.SetOutput(f)
	return f, nil
}

// exitCode maps conversion errors caused by invalid input to a dedicated
// exit status.
func exitCode(err error) int {
	for _, target := range []error{
		asciify.ErrInvalidDimensions,
		asciify.ErrEmptyGlyphRamp,
		asciify.ErrMalformedGrid,
		asciify.ErrScaleMismatch,
	} {
		if errors.Is(err, target) {
			return exitInvalidArg
		}
	}
	return exitFailure
}

func fatal(log logrus.FieldLogger, colored bool, code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if colored {
		msg = errorColor + msg + defaultColor
	}
	log.Error(msg)
	os.Exit(code)
}

// status prints a user facing message to stderr.
func status(colored bool, color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if colored {
		msg = color + msg + defaultColor
	}
	fmt.Fprintln(colorable.NewColorableStderr(), strings.TrimRight(msg, "\n"))
}
