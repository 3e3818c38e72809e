package asciify_test

import (
	"errors"
	"testing"

	asciify "github.com/esimov/asciify/core"
)

func uniformGrid(cols, rows, channels int, v uint8) *asciify.PixelGrid {
	pix := make([]uint8, cols*rows*channels)
	for i := range pix {
		pix[i] = v
	}
	return &asciify.PixelGrid{Pixels: pix, Rows: rows, Cols: cols, Channels: channels}
}

func TestDownsample_RemainderIsExcluded(t *testing.T) {
	g := uniformGrid(5, 5, 1, 100)
	// The 5th row and column hold a different value and must be ignored.
	for i := 0; i < 5; i++ {
		g.Pixels[4*5+i] = 255
		g.Pixels[i*5+4] = 255
	}

	lum, err := asciify.Downsample(g, asciify.SingleChannel(), 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lum.Cols != 2 || lum.Rows != 2 {
		t.Fatalf("expected a 2x2 grid, got %dx%d", lum.Cols, lum.Rows)
	}
	for i, v := range lum.Values {
		if v != 100.0 {
			t.Errorf("cell %d: expected 100.0, got %v", i, v)
		}
	}
}

func TestDownsample_CellMeans(t *testing.T) {
	rows := [][]uint8{
		{0, 10, 200, 200},
		{20, 30, 100, 100},
		{255, 255, 1, 2},
		{255, 255, 3, 4},
	}
	g, err := asciify.NewPixelGrid(rows, 1)
	if err != nil {
		t.Fatal(err)
	}

	lum, err := asciify.Downsample(g, asciify.SingleChannel(), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{15, 150, 255, 2.5}
	for i, v := range expected {
		if lum.Values[i] != v {
			t.Errorf("cell %d: expected %v, got %v", i, v, lum.Values[i])
		}
	}
}

func TestDownsample_SingleModeReadsFirstChannel(t *testing.T) {
	g, err := asciify.NewPixelGrid([][]uint8{{10, 200, 200, 30, 0, 0}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	lum, err := asciify.Downsample(g, asciify.SingleChannel(), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if lum.Values[0] != 20 {
		t.Fatalf("expected mean of first channels 20, got %v", lum.Values[0])
	}
}

func TestDownsample_SummedModeDoesNotOverflow(t *testing.T) {
	g := uniformGrid(512, 512, 3, 255)
	scale, _ := asciify.SummedChannels(3)

	lum, err := asciify.Downsample(g, scale, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if lum.Values[0] != 765 {
		t.Fatalf("expected 765, got %v", lum.Values[0])
	}
}

func TestDownsample_ScaleMismatch(t *testing.T) {
	g := uniformGrid(4, 4, 1, 255)
	scale, _ := asciify.SummedChannels(3)

	if _, err := asciify.Downsample(g, scale, 2, 2); !errors.Is(err, asciify.ErrScaleMismatch) {
		t.Fatalf("expected ErrScaleMismatch, got %v", err)
	}
}

func TestDownsample_InvalidDimensions(t *testing.T) {
	g := uniformGrid(5, 5, 1, 0)

	for _, dim := range [][2]int{{10, 5}, {5, 6}, {0, 1}, {1, 0}, {-1, 2}} {
		lum, err := asciify.Downsample(g, asciify.SingleChannel(), dim[0], dim[1])
		if !errors.Is(err, asciify.ErrInvalidDimensions) {
			t.Errorf("%v: expected ErrInvalidDimensions, got %v", dim, err)
		}
		if lum != nil {
			t.Errorf("%v: expected no output", dim)
		}
	}
}

func TestDownsample_MalformedGrid(t *testing.T) {
	grids := []*asciify.PixelGrid{
		nil,
		{Rows: 0, Cols: 3, Channels: 1},
		{Pixels: make([]uint8, 5), Rows: 2, Cols: 3, Channels: 1},
		{Pixels: make([]uint8, 6), Rows: 2, Cols: 3, Channels: 0},
	}
	for i, g := range grids {
		if _, err := asciify.Downsample(g, asciify.SingleChannel(), 1, 1); !errors.Is(err, asciify.ErrMalformedGrid) {
			t.Errorf("grid %d: expected ErrMalformedGrid, got %v", i, err)
		}
	}
}

func TestNewPixelGrid_RaggedRows(t *testing.T) {
	_, err := asciify.NewPixelGrid([][]uint8{{1, 2, 3}, {1, 2}}, 1)
	if !errors.Is(err, asciify.ErrMalformedGrid) {
		t.Fatalf("expected ErrMalformedGrid, got %v", err)
	}
	if _, err := asciify.NewPixelGrid(nil, 1); !errors.Is(err, asciify.ErrMalformedGrid) {
		t.Fatalf("expected ErrMalformedGrid for an empty grid, got %v", err)
	}
}

func TestLuminanceGrid_UnitCellsAreIdentity(t *testing.T) {
	lum := asciify.NewLuminanceGrid(3, 2)
	for i := range lum.Values {
		lum.Values[i] = float64(i) * 12.25
	}

	out, err := lum.Downsample(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range lum.Values {
		if out.Values[i] != v {
			t.Errorf("cell %d: expected %v, got %v", i, v, out.Values[i])
		}
	}
}

func TestLuminanceGrid_Downsample(t *testing.T) {
	lum := asciify.NewLuminanceGrid(4, 2)
	copy(lum.Values, []float64{1, 2, 10, 20, 3, 4, 30, 40})

	out, err := lum.Downsample(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Values[0] != 2.5 || out.Values[1] != 25 {
		t.Fatalf("unexpected pooled values: %v", out.Values)
	}
}

func BenchmarkDownsample(b *testing.B) {
	g := uniformGrid(1920, 1080, 1, 128)
	scale := asciify.SingleChannel()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := asciify.Downsample(g, scale, 160, 45); err != nil {
			b.Fatal(err)
		}
	}
}
