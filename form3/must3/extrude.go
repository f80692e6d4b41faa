package must3

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/golang/freetype/truetype"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d2"
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// extrudeMeshCells controls marching cubes resolution for extruded shapes,
// counted along the longest bounding box axis.
const extrudeMeshCells = 200

const extrudeWeldTol = 1e-4

// ExtrudePolygon returns a prism mesh made by extruding the closed contour
// along Z by depth, centered at the origin.
func ExtrudePolygon(contour []r2.Vec, depth float64) *csg.Mesh {
	if len(contour) < 3 {
		panic("polygon needs at least 3 points")
	}
	if depth <= 0 {
		panic("depth <= 0")
	}
	poly := make([]v2.Vec, len(contour))
	bb := d2.Box{Min: contour[0], Max: contour[0]}
	for i, p := range contour {
		if !d2.Finite(p) {
			panic("polygon point not finite")
		}
		bb = bb.Include(p)
		poly[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	if sz := bb.Size(); sz.X == 0 || sz.Y == 0 {
		panic("zero area polygon")
	}
	s2, err := sdf.Polygon2D(poly)
	if err != nil {
		panic(fmt.Sprintf("polygon: %v", err))
	}
	return extrudeMesh(s2, depth)
}

// Text returns a mesh of text extruded along Z by depth. The font is loaded
// from the TTF file at fontPath and em sets the rendered glyph height.
func Text(fontPath, text string, em, depth float64) *csg.Mesh {
	if fontPath == "" {
		panic("empty font path")
	}
	f, err := sdf.LoadFont(fontPath)
	if err != nil {
		panic(fmt.Sprintf("font: %v", err))
	}
	return TextFont(f, text, em, depth)
}

// TextFont is Text with an already parsed font, for callers embedding TTF
// data rather than reading it from disk.
func TextFont(f *truetype.Font, text string, em, depth float64) *csg.Mesh {
	if f == nil {
		panic("nil font")
	}
	if text == "" {
		panic("empty text")
	}
	if em <= 0 {
		panic("em <= 0")
	}
	if depth <= 0 {
		panic("depth <= 0")
	}
	s2, err := sdf.Text2D(f, sdf.NewText(text), em)
	if err != nil {
		panic(fmt.Sprintf("text: %v", err))
	}
	return extrudeMesh(s2, depth)
}

// extrudeMesh meshes the Z extrusion of a 2D field with marching cubes and
// recenters the result on the origin.
func extrudeMesh(s2 sdf.SDF2, depth float64) *csg.Mesh {
	s3 := sdf.Extrude3D(s2, depth)
	tris := render.ToTriangles(s3, render.NewMarchingCubesUniform(extrudeMeshCells))
	if len(tris) == 0 {
		panic("extrusion produced no triangles")
	}
	out := make([]r3.Triangle, len(tris))
	min := r3.Vec{tris[0][0].X, tris[0][0].Y, tris[0][0].Z}
	max := min
	for i, t := range tris {
		for j := 0; j < 3; j++ {
			v := r3.Vec{t[j].X, t[j].Y, t[j].Z}
			out[i][j] = v
			min = d3.MinElem(min, v)
			max = d3.MaxElem(max, v)
		}
	}
	center := r3.Scale(0.5, r3.Add(min, max))
	for i := range out {
		for j := 0; j < 3; j++ {
			out[i][j] = r3.Sub(out[i][j], center)
		}
	}
	return csg.MeshFromTriangles(out, extrudeWeldTol)
}
