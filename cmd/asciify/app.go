package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/esimov/asciify/config"
	asciify "github.com/esimov/asciify/core"
	"github.com/esimov/asciify/display"
	"github.com/esimov/asciify/frame"
	"github.com/esimov/asciify/utils"
)

// defaultCols is the output width used when stdout is not a terminal.
const defaultCols = 100

// cursorHome moves the terminal cursor to the top left corner.
const cursorHome = "\x1b[H"

// Pixels per character cell used when rendering a model or decoding a
// video for a fixed size character grid.
const (
	renderCellWidth  = 2
	renderCellHeight = 4
)

// Nominal source sizes used to fit videos and models, whose frames are
// produced at the size of the character grid.
const (
	videoAspectW, videoAspectH = 1600, 900
	modelAspectW, modelAspectH = 1000, 1000
)

type app struct {
	cfg  *config.Config
	conv *asciify.Converter
	opts options
	log  *logrus.Logger
}

func (a *app) run(ctx context.Context) error {
	switch {
	case a.opts.model:
		return a.runModel(ctx)
	case a.opts.video:
		return a.runVideo(ctx)
	}

	if a.opts.source != pipeName {
		fi, err := os.Stat(a.opts.source)
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return a.runBatch(a.opts.source)
		}
		ct, err := utils.DetectFileContentType(a.opts.source)
		if err != nil {
			return err
		}
		a.log.WithField("content-type", ct).Debug("detected input type")
		if ct == "image/gif" && a.opts.destination == "" {
			return a.runGIF(ctx)
		}
	}
	return a.runImage(ctx)
}

func (a *app) background() color.Color {
	bg, err := a.cfg.BackgroundColor()
	if err != nil {
		return color.Black
	}
	return bg
}

// openSource returns the reader of the input, enforcing the pipe usage of "-".
func (a *app) openSource() (io.ReadCloser, error) {
	if a.opts.source == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(a.opts.source)
}

// outputSize returns the character grid size for a srcW x srcH image.
// Explicit -x and -y values are used as given; otherwise the grid is fitted
// into the terminal, or into defaultCols when stdout is redirected.
func (a *app) outputSize(srcW, srcH int) (cols, rows int) {
	if a.opts.cols > 0 && a.opts.rows > 0 {
		return a.opts.cols, a.opts.rows
	}
	maxCols, maxRows := a.opts.cols, a.opts.rows
	if maxCols == 0 && maxRows == 0 {
		maxCols = defaultCols
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			maxCols, maxRows = w-1, h-1
		}
	}
	return asciify.FitSize(srcW, srcH, maxCols, maxRows, a.cfg.CharAspect)
}

func (a *app) convertImage(img image.Image) (asciify.CharGrid, error) {
	grid, err := asciify.GridFromImage(img, a.conv.Scale(), a.background())
	if err != nil {
		return nil, err
	}
	cols, rows := a.outputSize(grid.Cols, grid.Rows)
	a.log.WithFields(logrus.Fields{
		"source": fmt.Sprintf("%dx%d", grid.Cols, grid.Rows),
		"output": fmt.Sprintf("%dx%d", cols, rows),
	}).Debug("converting image")
	return a.conv.Convert(grid, cols, rows)
}

// write stores the grid at the destination selected by -out.
func (a *app) write(g asciify.CharGrid, dest string) error {
	if dest == pipeName {
		return display.WriteGrid(os.Stdout, g, a.opts.flip)
	}
	if a.opts.flip {
		g = g.FlipV()
	}
	switch ext := strings.ToLower(filepath.Ext(dest)); ext {
	case ".png":
		return display.SavePNG(dest, g, color.White, a.background())
	case ".txt", "":
		return display.SaveText(dest, g, false)
	default:
		return fmt.Errorf("output file type not supported: %v", ext)
	}
}

// viewer starts the interactive terminal viewer.
func (a *app) viewer() (*display.Viewer, func(), error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, nil, errors.New("the viewer needs a terminal, use -out to write to a file or pipe")
	}
	logCloser, err := redirectLog(a.log, a.opts.logFile)
	if err != nil {
		return nil, nil, err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}
	v, err := display.NewViewer(screen, a.conv, display.Options{
		Background: a.background(),
		CharAspect: a.cfg.CharAspect,
		Flip:       a.opts.flip,
		Logger:     a.log,
	})
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}
	return v, func() {
		v.Close()
		logCloser.Close()
	}, nil
}

func (a *app) runImage(ctx context.Context) error {
	r, err := a.openSource()
	if err != nil {
		return err
	}
	img, err := asciify.DecodeImage(r)
	r.Close()
	if err != nil {
		return err
	}

	if a.opts.destination == "" {
		v, done, err := a.viewer()
		if err != nil {
			return err
		}
		defer done()
		return v.ShowImage(ctx, img)
	}

	g, err := a.convertImage(img)
	if err != nil {
		return err
	}
	return a.write(g, a.opts.destination)
}

func (a *app) runGIF(ctx context.Context) error {
	r, err := a.openSource()
	if err != nil {
		return err
	}
	src, err := frame.NewGIFSource(r, a.opts.loop)
	r.Close()
	if err != nil {
		return err
	}
	defer src.Close()
	a.log.WithFields(logrus.Fields{
		"frames": src.Len(),
		"loop":   a.opts.loop,
	}).Debug("playing animation")

	v, done, err := a.viewer()
	if err != nil {
		return err
	}
	defer done()
	return v.Play(ctx, src)
}

func (a *app) runVideo(ctx context.Context) error {
	if a.opts.source == pipeName {
		return errors.New("video input must be a file")
	}
	if a.opts.destination != "" && a.opts.destination != pipeName {
		return errors.New("video output is only supported to the terminal viewer or stdout")
	}

	var (
		cols, rows = a.opts.cols, a.opts.rows
		v          *display.Viewer
	)
	if a.opts.destination == "" {
		var done func()
		var err error
		v, done, err = a.viewer()
		if err != nil {
			return err
		}
		defer done()
		if cols == 0 || rows == 0 {
			cols, rows = v.Size()
		}
	} else if cols == 0 || rows == 0 {
		cols, rows = a.outputSize(videoAspectW, videoAspectH)
	}

	src, err := frame.NewVideoSource(ctx, a.opts.source, frame.VideoOptions{
		Width:  cols * renderCellWidth,
		Height: rows * renderCellHeight,
		FPS:    a.cfg.FPS,
		Logger: a.log,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	if v != nil {
		return v.Play(ctx, src)
	}
	return a.streamFrames(ctx, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())), src, cols, rows)
}

// streamFrames prints every frame to stdout. On a terminal the cursor is
// moved home between frames; redirected output gets the frames one after
// the other.
func (a *app) streamFrames(ctx context.Context, w io.Writer, tty bool, src frame.Source, cols, rows int) error {
	for {
		img, delay, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		grid, err := asciify.GridFromImage(img, a.conv.Scale(), a.background())
		if err != nil {
			return err
		}
		g, err := a.conv.Convert(grid, cols, rows)
		if err != nil {
			return err
		}
		if tty {
			fmt.Fprint(w, cursorHome)
		}
		if err := display.WriteGrid(w, g, a.opts.flip); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (a *app) runModel(ctx context.Context) error {
	if a.opts.source == pipeName {
		return errors.New("the model must be read from a file")
	}
	scene, err := frame.LoadModel(a.opts.source)
	if err != nil {
		return err
	}

	if a.opts.destination == "" {
		v, done, err := a.viewer()
		if err != nil {
			return err
		}
		defer done()
		return v.RunScene(ctx, scene)
	}

	cols, rows := a.opts.cols, a.opts.rows
	if cols == 0 || rows == 0 {
		cols, rows = a.outputSize(modelAspectW, modelAspectH)
	}
	img := scene.Render(cols*renderCellWidth, rows*renderCellHeight)
	grid, err := asciify.GridFromImage(img, a.conv.Scale(), a.background())
	if err != nil {
		return err
	}
	g, err := a.conv.Convert(grid, cols, rows)
	if err != nil {
		return err
	}
	return a.write(g, a.opts.destination)
}

// runBatch converts every file of dir matching -match into the -out
// directory, keeping the base name and using the -format extension.
func (a *app) runBatch(dir string) error {
	dest := a.opts.destination
	if dest == "" || dest == pipeName {
		return errors.New("a directory input needs an output directory set with -out")
	}
	var ext string
	switch a.opts.format {
	case "txt", "png":
		ext = "." + a.opts.format
	default:
		return fmt.Errorf("unsupported batch output format: %v", a.opts.format)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	files, err := utils.FindFiles(dir, a.opts.match)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		status(a.opts.colored, errorColor, "no files matching %q in %s", a.opts.match, dir)
		return nil
	}

	ind := utils.NewProgressIndicator(os.Stderr, "Converting...", 100*time.Millisecond)
	ind.Start()

	var failed int
	for i, file := range files {
		ind.Update(fmt.Sprintf("Converting %d/%d...", i+1, len(files)))

		out := filepath.Join(dest, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))+ext)
		if err := a.convertFile(file, out); err != nil {
			failed++
			a.log.WithField("file", file).WithError(err).Warn("conversion failed")
		}
	}

	if failed > 0 {
		ind.StopMsg = fmt.Sprintf("Converting... %sfailed ✗%s\n", errorColor, defaultColor)
		ind.Stop()
		return fmt.Errorf("%d of %d files could not be converted", failed, len(files))
	}
	ind.StopMsg = fmt.Sprintf("Converting... %sfinished ✔%s\n", successColor, defaultColor)
	ind.Stop()
	status(a.opts.colored, successColor, "%d file(s) converted into %s", len(files), dest)
	return nil
}

func (a *app) convertFile(src, dest string) error {
	img, err := asciify.GetImage(src)
	if err != nil {
		return err
	}
	g, err := a.convertImage(img)
	if err != nil {
		return err
	}
	return a.write(g, dest)
}
