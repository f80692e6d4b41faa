// Package form3 builds parametric solid meshes. It wraps the panicking
// constructors in must3 so invalid arguments come back as errors.
package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/golang/freetype/truetype"

	"github.com/soypat/csg"
	"github.com/soypat/csg/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeErr struct {
	panicObj any
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Box returns a box mesh of the given size centered at the origin.
func Box(size r3.Vec) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Box(size), err
}

// Sphere returns a sphere mesh centered at the origin.
func Sphere(radius float64) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Sphere(radius), err
}

// Cylinder returns a capped cylinder mesh with its axis along Z, centered
// at the origin.
func Cylinder(height, radius float64) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Cylinder(height, radius), err
}

// Cone returns a capped cone mesh with its apex up the Z axis, centered at
// the origin.
func Cone(height, radius float64) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Cone(height, radius), err
}

// Torus returns a torus mesh around the Z axis centered at the origin.
func Torus(major, minor float64) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Torus(major, minor), err
}

// ExtrudePolygon returns a prism mesh made by extruding the closed contour
// along Z by depth, centered at the origin.
func ExtrudePolygon(contour []r2.Vec, depth float64) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.ExtrudePolygon(contour, depth), err
}

// Text returns a mesh of text extruded along Z by depth, using the TTF font
// file at fontPath.
func Text(fontPath, text string, em, depth float64) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Text(fontPath, text, em, depth), err
}

// TextFont is Text with an already parsed font.
func TextFont(f *truetype.Font, text string, em, depth float64) (m *csg.Mesh, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.TextFont(f, text, em, depth), err
}
