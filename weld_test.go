package csg

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestWeldMergesNearVertices(t *testing.T) {
	// Two triangles meant to share an edge, with the shared vertices
	// offset by less than the tolerance.
	m := &Mesh{
		Positions: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			1, 1e-5, 0, // duplicate of vertex 1
			1, 1, 0,
			1e-5, 1, 0, // duplicate of vertex 2
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}
	w := Weld(m, 1e-3)
	if n := w.NumVertices(); n != 4 {
		t.Errorf("NumVertices = %d, want 4", n)
	}
	if n := w.NumTriangles(); n != 2 {
		t.Errorf("NumTriangles = %d, want 2", n)
	}
}

func TestWeldDropsCollapsedTriangles(t *testing.T) {
	// The second triangle collapses once its vertices merge.
	m := &Mesh{
		Positions: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			5, 5, 5,
			5, 5 + 1e-6, 5,
			5, 5, 5 + 1e-6,
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}
	w := Weld(m, 1e-3)
	if n := w.NumTriangles(); n != 1 {
		t.Errorf("NumTriangles = %d, want 1", n)
	}
	// The merged far vertex is unreferenced and must be compacted away.
	if n := w.NumVertices(); n != 3 {
		t.Errorf("NumVertices = %d, want 3", n)
	}
}

func TestWeldIdempotent(t *testing.T) {
	tris := []r3.Triangle{
		{r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}},
		{r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1}},
		{r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: 1}, r3.Vec{X: 1, Y: 2}},
	}
	m := MeshFromTriangles(tris, 1e-4)
	once := Weld(m, 1e-3)
	twice := Weld(once, 1e-3)
	if once.NumVertices() != twice.NumVertices() || once.NumTriangles() != twice.NumTriangles() {
		t.Errorf("weld not idempotent: %d/%d vertices, %d/%d triangles",
			once.NumVertices(), twice.NumVertices(), once.NumTriangles(), twice.NumTriangles())
	}
}

func TestWeldKeepsAttributes(t *testing.T) {
	m := cuboid(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}).RecomputeNormals()
	w := Weld(m, 1e-4)
	if !w.hasNormals() {
		t.Error("weld dropped normals")
	}
	if w.NumVertices() != m.NumVertices() {
		t.Errorf("weld of clean mesh changed vertex count %d -> %d", m.NumVertices(), w.NumVertices())
	}
}

func TestWeldPanicsOnBadTolerance(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Weld accepted a zero tolerance")
		}
	}()
	Weld(&Mesh{Positions: []float32{0, 0, 0}}, 0)
}
