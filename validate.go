package csg

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/csg/internal/d3"
)

// Validate inspects a mesh before it enters the boolean pipeline and
// returns a descriptive error when the mesh cannot be trusted. A nil
// error does not promise the mesh is manifold, only that buffers are
// consistently shaped, indices are in range and every coordinate is
// finite. Use Repair to fix what Validate complains about.
func Validate(m *Mesh) error {
	switch {
	case m == nil:
		return errors.New("nil mesh")
	case len(m.Positions) == 0:
		return errors.New("mesh has no vertices")
	case len(m.Positions)%3 != 0:
		return fmt.Errorf("position buffer length %d is not a multiple of 3", len(m.Positions))
	case len(m.Normals) != 0 && len(m.Normals) != len(m.Positions):
		return fmt.Errorf("normal buffer length %d does not match %d position floats", len(m.Normals), len(m.Positions))
	case len(m.UVs) != 0 && len(m.UVs)/2 != len(m.Positions)/3:
		return fmt.Errorf("uv buffer holds %d vertices, positions hold %d", len(m.UVs)/2, len(m.Positions)/3)
	case len(m.Indices)%3 != 0:
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	case m.NumTriangles() == 0:
		return errors.New("mesh has no triangles")
	}
	nv := uint32(m.NumVertices())
	for i, ix := range m.Indices {
		if ix >= nv {
			return fmt.Errorf("index %d at position %d out of range for %d vertices", ix, i, nv)
		}
	}
	for i, p := range m.Positions {
		if math32.IsNaN(p) || math32.IsInf(p, 0) {
			return fmt.Errorf("non-finite position component on vertex %d", i/3)
		}
	}
	if b := m.Bounds(); !d3.Finite(b.Min) || !d3.Finite(b.Max) {
		return errors.New("mesh bounding box is not finite")
	}
	return nil
}

// Usable is the acceptance gate applied to every boolean strategy result:
// geometry must be present, indexed meshes need at least one full
// triangle, all positions must be finite and the bounding box computable.
// Anything failing the gate is discarded and the next strategy runs.
func Usable(m *Mesh) bool {
	if m == nil || len(m.Positions) == 0 {
		return false
	}
	if m.indexed() && len(m.Indices) < 3 {
		return false
	}
	for _, p := range m.Positions {
		if math32.IsNaN(p) || math32.IsInf(p, 0) {
			return false
		}
	}
	b := m.Bounds()
	return d3.Finite(b.Min) && d3.Finite(b.Max)
}
