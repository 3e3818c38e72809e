package frame

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// VideoOptions configures the ffmpeg decoding of a video stream.
type VideoOptions struct {
	Width  int
	Height int
	FPS    float64
	// Binary is the ffmpeg executable, "ffmpeg" when empty.
	Binary string
	Logger logrus.FieldLogger
}

// VideoSource reads raw grayscale frames decoded by ffmpeg. Every frame is
// scaled and letterboxed to exactly Width x Height pixels.
type VideoSource struct {
	cmd   *exec.Cmd
	out   *bufio.Reader
	opts  VideoOptions
	buf   []byte
	delay time.Duration

	// stderrDone is closed once the last line of ffmpeg's stderr has been
	// read. stderrTail may only be read after that.
	stderrDone chan struct{}
	stderrTail []string

	killed  bool
	waited  bool
	waitErr error
}

// stderrTailLines is the number of trailing ffmpeg log lines attached to
// the error of a failed decode.
const stderrTailLines = 5

// NewVideoSource starts ffmpeg on the input file. The process is killed
// when ctx is cancelled or Close is called.
func NewVideoSource(ctx context.Context, input string, opts VideoOptions) (*VideoSource, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid video frame size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		opts.FPS = 10
	}
	if opts.Binary == "" {
		opts.Binary = "ffmpeg"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	cmd := exec.CommandContext(ctx, opts.Binary, ffmpegArgs(input, opts)...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", opts.Binary, err)
	}

	v := &VideoSource{
		cmd:        cmd,
		out:        bufio.NewReaderSize(out, opts.Width*opts.Height),
		opts:       opts,
		buf:        make([]byte, opts.Width*opts.Height),
		delay:      time.Duration(float64(time.Second) / opts.FPS),
		stderrDone: make(chan struct{}),
	}

	log := opts.Logger.WithField("input", input)
	go func() {
		defer close(v.stderrDone)
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			line := sc.Text()
			log.Debugf("ffmpeg: %s", line)
			if len(v.stderrTail) == stderrTailLines {
				v.stderrTail = v.stderrTail[1:]
			}
			v.stderrTail = append(v.stderrTail, line)
		}
	}()
	return v, nil
}

func ffmpegArgs(input string, opts VideoOptions) []string {
	filter := fmt.Sprintf(
		"fps=%g,"+
			"scale=%d:%d:flags=lanczos:force_original_aspect_ratio=decrease,"+
			"pad=%d:%d:-1:-1:color=black,"+
			"format=gray",
		opts.FPS, opts.Width, opts.Height, opts.Width, opts.Height,
	)
	return []string{
		"-v", "error",
		"-i", input,
		"-vf", filter,
		"-f", "rawvideo",
		"pipe:1",
	}
}

// Next reads the next frame from the ffmpeg pipe. It returns io.EOF once
// ffmpeg has exited cleanly and the error of the process otherwise.
func (v *VideoSource) Next(ctx context.Context) (image.Image, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if _, err := io.ReadFull(v.out, v.buf); err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, 0, err
		}
		if err := v.wait(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, 0, ctxErr
			}
			return nil, 0, err
		}
		return nil, 0, io.EOF
	}

	img := image.NewGray(image.Rect(0, 0, v.opts.Width, v.opts.Height))
	copy(img.Pix, v.buf)
	return img, v.delay, nil
}

// wait reaps ffmpeg once its output has been drained. The stderr reader
// has to finish before cmd.Wait closes the pipe.
func (v *VideoSource) wait() error {
	if v.waited {
		return v.waitErr
	}
	<-v.stderrDone
	err := v.cmd.Wait()
	v.waited = true

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case v.killed && errors.As(err, &exitErr):
		// Stopped by Close.
	case len(v.stderrTail) > 0:
		v.waitErr = fmt.Errorf("%s: %w: %s", v.opts.Binary, err, strings.Join(v.stderrTail, "; "))
	default:
		v.waitErr = fmt.Errorf("%s: %w", v.opts.Binary, err)
	}
	return v.waitErr
}

// Close stops ffmpeg and waits for it to exit. It returns the failure
// already reported by Next, if any; the termination caused by Close itself
// is not an error.
func (v *VideoSource) Close() error {
	if !v.waited && v.cmd.Process != nil {
		v.killed = true
		v.cmd.Process.Kill()
	}
	return v.wait()
}
