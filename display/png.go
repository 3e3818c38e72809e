package display

import (
	"errors"
	"image/color"
	"io"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	asciify "github.com/esimov/asciify/core"
)

// Cell size of the basicfont.Face7x13 font.
const (
	glyphWidth  = 7
	glyphHeight = 13
	glyphAscent = 11
)

// EncodePNG draws the grid with a fixed 7x13 pixel font, using fg for the
// glyphs and bg for the background, and writes it as a PNG image.
func EncodePNG(w io.Writer, g asciify.CharGrid, fg, bg color.Color) error {
	dc, err := drawGrid(g, fg, bg)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG is like EncodePNG but writes the image to the file at path.
func SavePNG(path string, g asciify.CharGrid, fg, bg color.Color) error {
	dc, err := drawGrid(g, fg, bg)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

// SaveText writes the grid as plain text to the file at path.
func SaveText(path string, g asciify.CharGrid, flip bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGrid(f, g, flip); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func drawGrid(g asciify.CharGrid, fg, bg color.Color) (*gg.Context, error) {
	cols, rows := g.Size()
	if cols == 0 || rows == 0 {
		return nil, errors.New("cannot draw an empty character grid")
	}

	dc := gg.NewContext(cols*glyphWidth, rows*glyphHeight)
	dc.SetColor(bg)
	dc.Clear()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(fg)
	for r, row := range g {
		y := float64(r*glyphHeight + glyphAscent)
		for c, ch := range []rune(row) {
			if ch == ' ' {
				continue
			}
			dc.DrawString(string(ch), float64(c*glyphWidth), y)
		}
	}
	return dc, nil
}
