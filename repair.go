package csg

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Repair returns a best effort clean copy of m. It never fails: steps
// that do not apply are skipped, a repair that would destroy the mesh is
// discarded in favor of the input, and an internal panic degrades to
// returning a clone of the input.
//
// The pipeline synthesizes missing indices, zeroes non finite
// components, runs the self-intersection repairer, drops degenerate
// triangles, applies a 50% vertex loss safety clamp, welds duplicate
// vertices at repairWeldTol and recomputes smooth normals.
func Repair(m *Mesh) (out *Mesh) {
	if m == nil || len(m.Positions) == 0 {
		return &Mesh{}
	}
	orig := m.Clone()
	defer func() {
		if a := recover(); a != nil {
			out = orig
		}
	}()
	r := m
	if !r.indexed() {
		r = r.sequentialIndexed()
	}
	r = scrubNonFinite(r)
	r = RepairSelfIntersections(r)
	r = removeDegenerates(r)
	if 2*r.NumVertices() < orig.NumVertices() {
		return orig
	}
	r = Weld(r, repairWeldTol)
	// Welding only merges near coincident vertices; losing half the mesh
	// to it means the input was duplicated geometry we must not destroy.
	if 2*r.NumVertices() < orig.NumVertices() {
		return orig
	}
	return r.RecomputeNormals()
}

// scrubNonFinite zeroes NaN and infinite buffer components. Callers
// recompute normals afterwards, so zeroed normals never survive.
func scrubNonFinite(m *Mesh) *Mesh {
	out := m.Clone()
	for i, p := range out.Positions {
		if math32.IsNaN(p) || math32.IsInf(p, 0) {
			out.Positions[i] = 0
		}
	}
	for i, n := range out.Normals {
		if math32.IsNaN(n) || math32.IsInf(n, 0) {
			out.Normals[i] = 0
		}
	}
	return out
}

// removeDegenerates drops triangles whose corners repeat or whose doubled
// area vanishes, then compacts orphaned vertices.
func removeDegenerates(m *Mesh) *Mesh {
	src := m
	if !src.indexed() {
		src = src.sequentialIndexed()
	}
	keep := make([]uint32, 0, len(src.Indices))
	for t := 0; t < src.NumTriangles(); t++ {
		i0 := src.Indices[3*t]
		i1 := src.Indices[3*t+1]
		i2 := src.Indices[3*t+2]
		if i0 == i1 || i1 == i2 || i2 == i0 {
			continue
		}
		a := src.Vertex(int(i0))
		b := src.Vertex(int(i1))
		c := src.Vertex(int(i2))
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		if r3.Norm2(n) < degenerateAreaEps {
			continue
		}
		keep = append(keep, i0, i1, i2)
	}
	out := src.Clone()
	out.Indices = keep
	return compact(out)
}
