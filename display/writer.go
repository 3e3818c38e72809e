// Package display writes character grids to terminals, text streams and
// images.
package display

import (
	"bufio"
	"io"

	asciify "github.com/esimov/asciify/core"
)

// WriteGrid writes the grid to w, one row per line. When flip is set the
// rows are written bottom-up, which is needed for frames read from sources
// with the origin in the lower left corner.
func WriteGrid(w io.Writer, g asciify.CharGrid, flip bool) error {
	if flip {
		g = g.FlipV()
	}
	bw := bufio.NewWriter(w)
	for _, row := range g {
		if _, err := bw.WriteString(row); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
