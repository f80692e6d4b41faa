package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ViewConfig positions the preview camera.
type ViewConfig struct {
	// what position (point) to look at
	Lookat r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye is located at (point)
	Eyepos r3.Vec
	Far    float64
	Near   float64
}

// DefaultView is the three quarter view previews and golden image tests
// render from.
func DefaultView() ViewConfig {
	return ViewConfig{
		Up:     r3.Vec{Z: 1},
		Eyepos: d3.Elem(3),
		Near:   1,
		Far:    10,
	}
}

const (
	previewFovy  = 30 // vertical field of view in degrees
	previewScale = 2  // supersampling factor, downsampled for antialiasing
)

// RenderImage rasterizes the triangles of r with a Phong shader after
// fitting them into a bi-unit cube centered at the origin.
func RenderImage(r Renderer, width, height int, view ViewConfig) (image.Image, error) {
	tris, err := RenderAll(r)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, errors.New("no triangles to render")
	}
	ftris := make([]*fauxgl.Triangle, len(tris))
	for i, tri := range tris {
		ftris[i] = fauxgl.NewTriangleForPoints(
			fauxgl.V(tri[0].X, tri[0].Y, tri[0].Z),
			fauxgl.V(tri[1].X, tri[1].Y, tri[1].Z),
			fauxgl.V(tri[2].X, tri[2].Y, tri[2].Z),
		)
	}
	mesh := fauxgl.NewTriangleMesh(ftris)
	mesh.BiUnitCube()
	var (
		eye    = fauxgl.V(view.Eyepos.X, view.Eyepos.Y, view.Eyepos.Z)
		center = fauxgl.V(view.Lookat.X, view.Lookat.Y, view.Lookat.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")           // object color
	)
	context := fauxgl.NewContext(width*previewScale, height*previewScale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(previewFovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	img := resize.Resize(uint(width), uint(height), context.Image(), resize.Bilinear)
	return img, nil
}

// SavePNG writes a preview render of m to a PNG file.
func SavePNG(path string, m *csg.Mesh, width, height int, view ViewConfig) error {
	img, err := RenderImage(NewMeshRenderer(m), width, height, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}
