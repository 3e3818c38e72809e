package frame_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/esimov/asciify/frame"
	"github.com/unixpickle/model3d/model3d"
)

// frontQuad is a unit square in the XZ plane facing the -Y camera.
var frontQuad = [][3]model3d.Coord3D{
	{{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: 0.5}},
	{{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: 0.5}, {X: -0.5, Y: -0.5, Z: 0.5}},
}

// writeSTL stores the triangles as a binary STL file.
func writeSTL(t *testing.T, tris [][3]model3d.Coord3D) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quad.stl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	header := make([]byte, 80)
	f.Write(header)
	binary.Write(f, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		vals := []float32{0, -1, 0}
		for _, c := range tri {
			vals = append(vals, float32(c.X), float32(c.Y), float32(c.Z))
		}
		binary.Write(f, binary.LittleEndian, vals)
		binary.Write(f, binary.LittleEndian, uint16(0))
	}
	return path
}

func TestLoadModel_RenderFrontFace(t *testing.T) {
	scene, err := frame.LoadModel(writeSTL(t, frontQuad))
	if err != nil {
		t.Fatalf("failed loading the model: %v", err)
	}

	img := scene.Render(40, 30)
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatalf("unexpected frame size %v", img.Bounds())
	}
	if img.GrayAt(20, 15).Y == 0 {
		t.Fatal("the center of the frame should show the lit model")
	}
	if img.GrayAt(0, 0).Y != 0 {
		t.Fatal("the corner of the frame should show the background")
	}
}

func TestLoadModel_MissingFile(t *testing.T) {
	if _, err := frame.LoadModel(filepath.Join(t.TempDir(), "none.stl")); err == nil {
		t.Fatal("expected an error for a missing model")
	}
}

func TestScene_Controls(t *testing.T) {
	scene, err := frame.LoadModel(writeSTL(t, frontQuad))
	if err != nil {
		t.Fatal(err)
	}

	scene.Rotate(90)
	if math.Abs(scene.Angle()-math.Pi/2) > 1e-9 {
		t.Fatalf("expected a quarter turn, got %v", scene.Angle())
	}

	scene.Advance(time.Second)
	if math.Abs(scene.Angle()-math.Pi/2) > 1e-9 {
		t.Fatal("Advance should not rotate while rotation is disabled")
	}
	scene.Rotating = true
	scene.Advance(900 * time.Millisecond)
	if math.Abs(scene.Angle()-math.Pi) > 1e-9 {
		t.Fatalf("expected half a turn after 90 degrees of auto rotation, got %v", scene.Angle())
	}

	scene.Reset()
	if scene.Angle() != 0 {
		t.Fatalf("Reset should restore the angle, got %v", scene.Angle())
	}
}
