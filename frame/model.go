package frame

import (
	"errors"
	"image"
	"math"
	"os"
	"time"

	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
)

const (
	fieldOfView   = math.Pi / 3.6
	cameraDist    = 3.0
	rotationSpeed = 0.1 // degrees per millisecond of auto rotation
	panStep       = 0.1
)

// Scene is a 3-D mesh viewed by an orbiting camera. The model is rotated
// around the vertical Z axis and looked at from the -Y side.
type Scene struct {
	base *model3d.Mesh
	mesh *model3d.Mesh

	angle float64
	zoom  float64
	pan   model3d.Coord3D

	// Rotating enables the continuous rotation applied by Advance.
	Rotating bool
}

// LoadModel reads an STL file and returns a scene fitted to the view.
func LoadModel(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tris, err := model3d.ReadSTL(f)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, errors.New("the model contains no triangles")
	}
	return NewScene(model3d.NewMeshTriangles(tris)), nil
}

// NewScene creates a scene around the mesh, centered and scaled to fit the
// unit cube.
func NewScene(mesh *model3d.Mesh) *Scene {
	s := &Scene{base: mesh}
	s.Fit()
	s.Reset()
	return s
}

// Fit centers the model on the origin and scales its largest extent to 1.
func (s *Scene) Fit() {
	lo, hi := s.base.Min(), s.base.Max()
	center := lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo)
	extent := math.Max(size.X, math.Max(size.Y, size.Z))
	if extent == 0 {
		extent = 1
	}
	s.mesh = s.base.MapCoords(func(c model3d.Coord3D) model3d.Coord3D {
		return c.Sub(center).Scale(1 / extent)
	})
}

// Reset restores the default camera.
func (s *Scene) Reset() {
	s.angle = 0
	s.zoom = 1
	s.pan = model3d.Coord3D{}
}

// Rotate turns the model by deg degrees around the vertical axis.
func (s *Scene) Rotate(deg float64) {
	s.angle = math.Mod(s.angle+deg*math.Pi/180, 2*math.Pi)
}

// Zoom multiplies the model scale by f.
func (s *Scene) Zoom(f float64) {
	if f > 0 {
		s.zoom *= f
	}
}

// Pan moves the model by dx, dy steps in the view plane.
func (s *Scene) Pan(dx, dy float64) {
	s.pan.X += dx * panStep
	s.pan.Z += dy * panStep
}

// Angle returns the current rotation in radians.
func (s *Scene) Angle() float64 { return s.angle }

// Advance applies the auto rotation for the elapsed time.
func (s *Scene) Advance(elapsed time.Duration) {
	if s.Rotating {
		s.Rotate(float64(elapsed.Milliseconds()) * rotationSpeed)
	}
}

// Render ray casts the scene into a width x height grayscale image with a
// single light placed at the camera.
func (s *Scene) Render(width, height int) *image.Gray {
	sin, cos := math.Sincos(s.angle)
	mesh := s.mesh.MapCoords(func(c model3d.Coord3D) model3d.Coord3D {
		r := model3d.Coord3D{
			X: c.X*cos - c.Y*sin,
			Y: c.X*sin + c.Y*cos,
			Z: c.Z,
		}
		return r.Scale(s.zoom).Add(s.pan)
	})

	origin := model3d.Coord3D{Y: -cameraDist}
	caster := &render3d.RayCaster{
		Camera: render3d.NewCameraAt(origin, model3d.Coord3D{}, fieldOfView),
		Lights: []*render3d.PointLight{
			{
				Origin: origin,
				Color:  render3d.NewColor(1.0),
			},
		},
	}

	img := render3d.NewImage(width, height)
	caster.Render(img, render3d.Objectify(mesh, nil))
	return img.Gray()
}
