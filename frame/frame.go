// Package frame provides the image producers feeding the ASCII converter:
// animated GIFs, video streams decoded by ffmpeg and rendered 3-D models.
package frame

import (
	"context"
	"image"
	"time"
)

// Source yields a sequence of frames. Next returns io.EOF once the
// sequence is exhausted. The returned delay is how long the frame should
// stay on screen.
type Source interface {
	Next(ctx context.Context) (image.Image, time.Duration, error)
	Close() error
}
