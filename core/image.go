package asciify

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultCharAspect is the width to height ratio of a terminal cell.
const DefaultCharAspect = 0.5

// GetImage retrieves and decodes the image file to *image.NRGBA type.
// The EXIF orientation tag of JPEG files is honored.
func GetImage(input string) (*image.NRGBA, error) {
	src, err := imaging.Open(input, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return imaging.Clone(src), nil
}

// DecodeImage decodes the image stream to *image.NRGBA type.
func DecodeImage(r io.Reader) (*image.NRGBA, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return imaging.Clone(src), nil
}

// RgbToGrayscale converts the image to a single channel luma buffer using
// the Rec. 601 weights.
func RgbToGrayscale(src image.Image) []uint8 {
	img := imaging.Clone(src)
	cols, rows := img.Rect.Dx(), img.Rect.Dy()
	gray := make([]uint8, rows*cols)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*img.Stride + c*4
			gray[r*cols+c] = luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		}
	}
	return gray
}

func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// ImageChannels lists the channel counts GridFromImage can produce. Alpha
// is not among them: once flattened onto the background every pixel is
// opaque, and a constant alpha channel would lift black above the first
// glyph.
var ImageChannels = []int{1, 3}

// GridFromImage flattens the image onto the background color and converts
// it to a pixel grid readable with the given scale. A single channel scale
// produces a luma grid. A summed scale produces one channel per summed
// component: 1 (luma) or 3 (RGB).
func GridFromImage(src image.Image, scale Scale, bg color.Color) (*PixelGrid, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrMalformedGrid)
	}
	if bg == nil {
		bg = color.Black
	}
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), bg), src, image.Pt(0, 0), 1.0)
	cols, rows := flat.Rect.Dx(), flat.Rect.Dy()

	channels := scale.Channels()
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: images provide 1 or 3 channels, scale sums %d",
			ErrScaleMismatch, channels)
	}

	grid := &PixelGrid{
		Pixels:   make([]uint8, rows*cols*channels),
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			s := y*flat.Stride + x*4
			px := grid.pixel(x, y)
			if channels == 1 {
				px[0] = luma(flat.Pix[s], flat.Pix[s+1], flat.Pix[s+2])
				continue
			}
			copy(px, flat.Pix[s:s+channels])
		}
	}
	return grid, nil
}

// FitSize returns the largest character grid fitting into maxCols x maxRows
// which preserves the aspect ratio of a srcW x srcH image, given the
// width to height ratio of a character cell. A non-positive maximum leaves
// that dimension unconstrained. The result never exceeds the source size.
func FitSize(srcW, srcH, maxCols, maxRows int, charAspect float64) (cols, rows int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}
	if charAspect <= 0 {
		charAspect = DefaultCharAspect
	}
	ratio := float64(srcH) / float64(srcW) * charAspect

	switch {
	case maxCols <= 0 && maxRows <= 0:
		cols = srcW
		rows = int(math.Round(float64(cols) * ratio))
	case maxCols <= 0:
		rows = maxRows
		cols = int(math.Round(float64(rows) / ratio))
	default:
		cols = maxCols
		rows = int(math.Round(float64(cols) * ratio))
		if maxRows > 0 && rows > maxRows {
			rows = maxRows
			cols = int(math.Round(float64(rows) / ratio))
		}
	}

	if cols > srcW {
		cols = srcW
		rows = int(math.Round(float64(cols) * ratio))
	}
	cols = clamp(cols, 1, srcW)
	rows = clamp(rows, 1, srcH)
	return cols, rows
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
