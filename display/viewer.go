package display

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	asciify "github.com/esimov/asciify/core"
	"github.com/esimov/asciify/frame"
)

const (
	// Pixels rendered per character column when drawing a 3-D scene.
	sceneCellWidth = 2
	// Interval between redraws of an auto rotating scene.
	sceneTick = 33 * time.Millisecond
)

// Options configures a Viewer.
type Options struct {
	Background color.Color
	CharAspect float64
	Flip       bool
	Logger     logrus.FieldLogger
}

// Viewer displays converted images in an interactive terminal screen.
type Viewer struct {
	screen tcell.Screen
	conv   *asciify.Converter
	opts   Options
	log    logrus.FieldLogger
	events chan tcell.Event

	done      chan struct{} // closed by Close
	polled    chan struct{} // closed when pollEvents returns
	closeOnce sync.Once
}

// NewViewer initializes the screen and starts reading its events.
// The caller must call Close to restore the terminal.
func NewViewer(screen tcell.Screen, conv *asciify.Converter, opts Options) (*Viewer, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	if opts.Background == nil {
		opts.Background = color.Black
	}
	if opts.CharAspect <= 0 {
		opts.CharAspect = asciify.DefaultCharAspect
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	v := &Viewer{
		screen: screen,
		conv:   conv,
		opts:   opts,
		log:    opts.Logger,
		events: make(chan tcell.Event, 16),
		done:   make(chan struct{}),
		polled: make(chan struct{}),
	}
	go v.pollEvents()
	return v, nil
}

// pollEvents forwards screen events until the screen is finalized or the
// viewer is closed.
func (v *Viewer) pollEvents() {
	defer close(v.polled)
	defer close(v.events)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case v.events <- ev:
		case <-v.done:
			return
		}
	}
}

// Close restores the terminal. It is safe to call more than once.
func (v *Viewer) Close() {
	v.closeOnce.Do(func() {
		close(v.done)
		v.screen.Fini()
	})
}

// Size returns the character grid size available on screen. One column
// and one row are kept free so the last line never scrolls the terminal.
func (v *Viewer) Size() (cols, rows int) {
	w, h := v.screen.Size()
	return max(w-1, 1), max(h-1, 1)
}

// Draw replaces the screen content with the grid.
func (v *Viewer) Draw(g asciify.CharGrid) {
	if v.opts.Flip {
		g = g.FlipV()
	}
	v.screen.Clear()
	for y, row := range g {
		x := 0
		for _, c := range row {
			v.screen.SetContent(x, y, c, nil, tcell.StyleDefault)
			x++
		}
	}
	v.screen.Show()
}

// convert fits the image into the screen and converts it.
func (v *Viewer) convert(img image.Image) (asciify.CharGrid, error) {
	grid, err := asciify.GridFromImage(img, v.conv.Scale(), v.opts.Background)
	if err != nil {
		return nil, err
	}
	maxCols, maxRows := v.Size()
	cols, rows := asciify.FitSize(grid.Cols, grid.Rows, maxCols, maxRows, v.opts.CharAspect)
	return v.conv.Convert(grid, cols, rows)
}

func (v *Viewer) show(img image.Image) error {
	g, err := v.convert(img)
	if err != nil {
		return err
	}
	v.Draw(g)
	return nil
}

// ShowImage displays a still image until a quit key is pressed. The image
// is converted again whenever the terminal is resized.
func (v *Viewer) ShowImage(ctx context.Context, img image.Image) error {
	if err := v.show(img); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-v.events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
				if err := v.show(img); err != nil {
					return err
				}
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return nil
				}
			}
		}
	}
}

// Play displays the frames of src, each for the delay it carries, until
// the source is exhausted or a quit key is pressed. Space pauses playback.
func (v *Viewer) Play(ctx context.Context, src frame.Source) error {
	var (
		paused  bool
		last    image.Image
		frames  int
		started = time.Now()
	)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-v.events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
				if last != nil {
					if err := v.show(last); err != nil {
						return err
					}
				}
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return nil
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
					paused = !paused
					if !paused {
						timer.Reset(0)
					}
				}
			}
		case <-timer.C:
			if paused {
				continue
			}
			img, delay, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				v.log.WithFields(logrus.Fields{
					"frames": frames,
					"fps":    float64(frames) / time.Since(started).Seconds(),
				}).Debug("playback finished")
				return nil
			}
			if err != nil {
				return err
			}
			if err := v.show(img); err != nil {
				return err
			}
			last = img
			frames++
			timer.Reset(delay)
		}
	}
}

// RunScene renders the 3-D scene to the screen and lets the keyboard drive
// the camera:
//
//	k, q, Esc   quit
//	r           toggle rotation
//	t           reset the camera
//	g           fit the model to the view
//	w, a, s, d  pan
//	Up, Down    zoom in, zoom out
//	Left, Right rotate by 10 degrees
func (v *Viewer) RunScene(ctx context.Context, scene *frame.Scene) error {
	ticker := time.NewTicker(sceneTick)
	defer ticker.Stop()

	dirty := true
	prev := time.Now()
	for {
		if dirty {
			if err := v.drawScene(scene); err != nil {
				return err
			}
			dirty = false
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-v.events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
				dirty = true
			case *tcell.EventKey:
				quit, changed := handleSceneKey(ev, scene)
				if quit {
					return nil
				}
				dirty = dirty || changed
			}
		case now := <-ticker.C:
			if scene.Rotating {
				scene.Advance(now.Sub(prev))
				dirty = true
			}
			prev = now
		}
	}
}

func (v *Viewer) drawScene(scene *frame.Scene) error {
	cols, rows := v.Size()
	cellHeight := int(float64(sceneCellWidth)/v.opts.CharAspect + 0.5)

	start := time.Now()
	img := scene.Render(cols*sceneCellWidth, rows*cellHeight)
	grid, err := asciify.GridFromImage(img, v.conv.Scale(), v.opts.Background)
	if err != nil {
		return err
	}
	g, err := v.conv.Convert(grid, cols, rows)
	if err != nil {
		return err
	}
	v.Draw(g)
	v.log.WithField("elapsed", time.Since(start)).Debug("scene frame rendered")
	return nil
}

// handleSceneKey applies the camera action bound to the key. It reports
// whether the viewer should quit and whether the scene changed.
func handleSceneKey(ev *tcell.EventKey, scene *frame.Scene) (quit, changed bool) {
	if isQuitKey(ev) {
		return true, false
	}
	switch ev.Key() {
	case tcell.KeyUp:
		scene.Zoom(1.1)
	case tcell.KeyDown:
		scene.Zoom(0.9)
	case tcell.KeyLeft:
		scene.Rotate(-10)
	case tcell.KeyRight:
		scene.Rotate(10)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'r':
			scene.Rotating = !scene.Rotating
		case 't':
			scene.Reset()
		case 'g':
			scene.Fit()
		case 'w':
			scene.Pan(0, 1)
		case 's':
			scene.Pan(0, -1)
		case 'a':
			scene.Pan(-1, 0)
		case 'd':
			scene.Pan(1, 0)
		default:
			return false, false
		}
	default:
		return false, false
	}
	return false, true
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'k' || ev.Rune() == 'q'
	}
	return false
}
