// Package render converts meshes to and from interchange formats and
// rasterizes quick preview images. Triangles move through the package as
// streams so large models never need a second in-memory copy.
package render

import (
	"io"

	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a triangle in 3D space.
type Triangle3 = r3.Triangle

// Renderer is a stream of triangles. ReadTriangles fills t and returns
// the number of triangles read, with io.EOF once the stream is
// exhausted, mirroring io.Reader semantics.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// meshRenderer streams the triangles of an indexed mesh.
type meshRenderer struct {
	m   *csg.Mesh
	pos int
}

// NewMeshRenderer returns a Renderer yielding m's triangles in order.
// Panics if m is nil.
func NewMeshRenderer(m *csg.Mesh) Renderer {
	if m == nil {
		panic("nil mesh argument to NewMeshRenderer")
	}
	return &meshRenderer{m: m}
}

func (mr *meshRenderer) ReadTriangles(dst []Triangle3) (int, error) {
	nt := mr.m.NumTriangles()
	if mr.pos >= nt {
		return 0, io.EOF
	}
	n := 0
	for n < len(dst) && mr.pos < nt {
		dst[n] = mr.m.Triangle(mr.pos)
		n++
		mr.pos++
	}
	return n, nil
}
