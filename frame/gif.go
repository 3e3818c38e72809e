package frame

import (
	"context"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"time"
)

// GIFSource plays back the frames of an animated GIF.
type GIFSource struct {
	g      *gif.GIF
	canvas *image.NRGBA
	idx    int
	loop   bool
}

// NewGIFSource decodes every frame of the GIF read from r. When loop is
// set the animation restarts after the last frame instead of ending.
func NewGIFSource(r io.Reader, loop bool) (*GIFSource, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	return &GIFSource{
		g:      g,
		canvas: image.NewNRGBA(image.Rect(0, 0, w, h)),
		loop:   loop,
	}, nil
}

// Len returns the number of frames in the animation.
func (s *GIFSource) Len() int { return len(s.g.Image) }

// Next composites the next frame onto the canvas and returns a copy of it.
func (s *GIFSource) Next(ctx context.Context) (image.Image, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if s.idx >= len(s.g.Image) {
		if !s.loop {
			return nil, 0, io.EOF
		}
		s.idx = 0
		draw.Draw(s.canvas, s.canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}

	i := s.idx
	s.idx++

	pal := s.g.Image[i]
	var prev *image.NRGBA
	if disposal(s.g, i) == gif.DisposalPrevious {
		prev = cloneNRGBA(s.canvas)
	}
	draw.Draw(s.canvas, pal.Bounds(), pal, pal.Bounds().Min, draw.Over)
	out := cloneNRGBA(s.canvas)

	switch disposal(s.g, i) {
	case gif.DisposalBackground:
		draw.Draw(s.canvas, pal.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		s.canvas = prev
	}

	// Delays are stored in hundredths of a second.
	delay := time.Duration(s.g.Delay[i]) * 10 * time.Millisecond
	return out, delay, nil
}

// Close implements Source.
func (s *GIFSource) Close() error { return nil }

func disposal(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
