package csg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Weld merges vertices that fall within the same tol sized grid cell,
// remaps triangle indices, drops triangles collapsed by the merge and
// compacts vertices left unreferenced. The first vertex entering a cell
// keeps its exact position and attributes, so welding never moves
// geometry and repeated welds at the same tolerance are no-ops.
// Panics if tol is not positive.
func Weld(m *Mesh, tol float64) *Mesh {
	if tol <= 0 {
		panic("non-positive weld tolerance")
	}
	if m == nil || len(m.Positions) == 0 {
		return &Mesh{}
	}
	src := m
	if !src.indexed() {
		src = src.sequentialIndexed()
	}
	nv := src.NumVertices()
	hasN := src.hasNormals()
	hasUV := src.hasUVs()
	ri := 1 / tol
	cells := make(map[[3]int64]uint32, nv)
	remap := make([]uint32, nv)
	out := &Mesh{}
	for i := 0; i < nv; i++ {
		v := r3.Scale(ri, src.Vertex(i))
		// Floor keeps every cell tol wide; truncation would double the
		// cells straddling zero.
		cell := [3]int64{int64(math.Floor(v.X)), int64(math.Floor(v.Y)), int64(math.Floor(v.Z))}
		if j, ok := cells[cell]; ok {
			remap[i] = j
			continue
		}
		j := uint32(out.NumVertices())
		cells[cell] = j
		remap[i] = j
		out.Positions = append(out.Positions, src.Positions[3*i:3*i+3]...)
		if hasN {
			out.Normals = append(out.Normals, src.Normals[3*i:3*i+3]...)
		}
		if hasUV {
			out.UVs = append(out.UVs, src.UVs[2*i:2*i+2]...)
		}
	}
	for t := 0; t < src.NumTriangles(); t++ {
		a := remap[src.Indices[3*t]]
		b := remap[src.Indices[3*t+1]]
		c := remap[src.Indices[3*t+2]]
		if a == b || b == c || c == a {
			continue // collapsed by the merge
		}
		out.Indices = append(out.Indices, a, b, c)
	}
	return compact(out)
}

// compact drops vertices no triangle references and remaps indices.
func compact(m *Mesh) *Mesh {
	if !m.indexed() {
		return m
	}
	nv := m.NumVertices()
	referenced := make([]bool, nv)
	for _, ix := range m.Indices {
		referenced[ix] = true
	}
	hasN := m.hasNormals()
	hasUV := m.hasUVs()
	remap := make([]uint32, nv)
	out := &Mesh{Indices: make([]uint32, len(m.Indices))}
	for i := 0; i < nv; i++ {
		if !referenced[i] {
			continue
		}
		remap[i] = uint32(out.NumVertices())
		out.Positions = append(out.Positions, m.Positions[3*i:3*i+3]...)
		if hasN {
			out.Normals = append(out.Normals, m.Normals[3*i:3*i+3]...)
		}
		if hasUV {
			out.UVs = append(out.UVs, m.UVs[2*i:2*i+2]...)
		}
	}
	for j, ix := range m.Indices {
		out.Indices[j] = remap[ix]
	}
	return out
}
