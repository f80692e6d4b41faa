package csg

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// disjointTriangles builds n triangles with no shared vertices, spaced far
// enough apart that no weld tolerance in the pipeline can merge them.
func disjointTriangles(n int) *Mesh {
	m := &Mesh{}
	for i := 0; i < n; i++ {
		x := float32(10 * i)
		base := uint32(m.NumVertices())
		m.Positions = append(m.Positions,
			x, 0, 0,
			x+1, 0, 0,
			x, 1, 0,
		)
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	return m
}

func TestSelfIntersectionsNoSuspects(t *testing.T) {
	m := disjointTriangles(5)
	if got := RepairSelfIntersections(m); got != m {
		t.Error("mesh without shared edges was modified")
	}
}

func TestSelfIntersectionsWeldPreferred(t *testing.T) {
	// Two triangles overlap along an edge whose vertices are duplicated
	// within the coarse weld tolerance. The duplicated edge flags both
	// triangles, and welding resolves it without dropping either.
	m := &Mesh{
		Positions: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			1, 0, 0,
			0, 1, 0,
			1, 1, 0,
		},
		Indices: []uint32{0, 1, 2, 1, 2, 5, 3, 4, 5},
	}
	got := RepairSelfIntersections(m)
	if got == m {
		t.Fatal("mesh with duplicated edge came back unchanged")
	}
	if got.NumVertices() >= m.NumVertices() {
		t.Errorf("weld did not reduce vertices: %d -> %d", m.NumVertices(), got.NumVertices())
	}
	if !got.hasNormals() {
		t.Error("remediated mesh has no recomputed normals")
	}
}

func TestSelfIntersectionsRemovesFewSuspects(t *testing.T) {
	// Twelve healthy disjoint triangles plus two triangles stacked on the
	// same edge. The pair is under a sixth of the mesh, and since its
	// vertices are not mergeable the repairer drops both.
	m := disjointTriangles(12)
	base := uint32(m.NumVertices())
	m.Positions = append(m.Positions,
		500, 0, 0,
		501, 0, 0,
		500, 1, 0,
		500, -1, 0,
	)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+1, base+3,
	)
	got := RepairSelfIntersections(m)
	if n := got.NumTriangles(); n != 12 {
		t.Fatalf("NumTriangles = %d, want 12", n)
	}
	for t0 := 0; t0 < got.NumTriangles(); t0++ {
		tri := got.Triangle(t0)
		if tri[0].X >= 500 || tri[1].X >= 500 || tri[2].X >= 500 {
			t.Fatalf("suspect triangle %d survived: %v", t0, tri)
		}
	}
}

func TestSelfIntersectionsTooManySuspects(t *testing.T) {
	// A closed cube shares every edge between two triangles, so the whole
	// mesh is suspect. Welding cannot reduce it and removal would eat
	// everything, so the repairer must leave it alone.
	m := cuboid(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	if got := RepairSelfIntersections(m); got != m {
		t.Error("healthy closed mesh was modified")
	}
}
