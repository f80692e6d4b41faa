package csg

import "testing"

// gridMesh builds an n by n vertex plane tessellated into quads of unit
// spacing, split into two triangles each.
func gridMesh(n int) *Mesh {
	m := &Mesh{}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			m.Positions = append(m.Positions, float32(x), float32(y), 0)
		}
	}
	at := func(x, y int) uint32 { return uint32(y*n + x) }
	for y := 0; y < n-1; y++ {
		for x := 0; x < n-1; x++ {
			m.Indices = append(m.Indices,
				at(x, y), at(x+1, y), at(x, y+1),
				at(x+1, y), at(x+1, y+1), at(x, y+1),
			)
		}
	}
	return m
}

func TestSimplifyReduces(t *testing.T) {
	m := gridMesh(41) // 1681 vertices, unit spacing
	s := Simplify(m, SimplifyOptions{Tolerance: 1.6})
	if s.NumVertices() >= m.NumVertices() {
		t.Errorf("simplify did not reduce vertices: %d -> %d", m.NumVertices(), s.NumVertices())
	}
	if s.IsEmpty() {
		t.Error("simplify produced an empty mesh")
	}
	if !s.hasNormals() {
		t.Error("simplified mesh has no normals")
	}
}

func TestSimplifyHintScalesTolerance(t *testing.T) {
	// At this tolerance the unit grid only merges once the cube hint
	// doubles it; the sphere hint halves it and must merge nothing.
	m := gridMesh(41)
	none := Simplify(m, SimplifyOptions{Tolerance: 0.8})
	cube := Simplify(m, SimplifyOptions{Tolerance: 0.8, Hint: HintCube})
	sphere := Simplify(m, SimplifyOptions{Tolerance: 0.8, Hint: HintSphere})
	if none.NumVertices() != m.NumVertices() {
		t.Errorf("hintless simplify at sub-spacing tolerance merged %d vertices", m.NumVertices()-none.NumVertices())
	}
	if sphere.NumVertices() != m.NumVertices() {
		t.Errorf("sphere hint merged %d vertices", m.NumVertices()-sphere.NumVertices())
	}
	if cube.NumVertices() >= m.NumVertices() {
		t.Error("cube hint did not merge anything")
	}
}

func TestSimplifyDropsUVsOnLargeMeshes(t *testing.T) {
	big := gridMesh(110) // 12100 vertices
	big.UVs = make([]float32, 2*big.NumVertices())
	s := Simplify(big, SimplifyOptions{Tolerance: 0.1})
	if s.hasUVs() {
		t.Error("large mesh kept texture coordinates")
	}
	small := gridMesh(5)
	small.UVs = make([]float32, 2*small.NumVertices())
	s = Simplify(small, SimplifyOptions{Tolerance: 0.1})
	if !s.hasUVs() {
		t.Error("small mesh lost texture coordinates")
	}
}

func TestSimplifyNeverPanicsOrNils(t *testing.T) {
	for _, m := range []*Mesh{nil, {}, gridMesh(3)} {
		if got := Simplify(m, SimplifyOptions{}); got == nil {
			t.Fatal("Simplify returned nil")
		}
	}
	// An absurd tolerance collapses everything; the retry halves it once
	// and the result, however small, is still a mesh.
	if got := Simplify(gridMesh(41), SimplifyOptions{Tolerance: 1e6}); got == nil {
		t.Fatal("Simplify returned nil for huge tolerance")
	}
}

func BenchmarkSimplify(b *testing.B) {
	m := gridMesh(101)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Simplify(m, SimplifyOptions{Tolerance: 2.1})
	}
}
