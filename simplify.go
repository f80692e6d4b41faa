package csg

// ShapeHint describes the shape family of a mesh so the simplifier can
// scale its tolerance. Flat sided shapes tolerate aggressive welding;
// curved shapes facet visibly when welded too hard.
type ShapeHint uint8

const (
	HintNone ShapeHint = iota
	HintCube
	HintSphere
	HintCylinder
	HintCone
	HintTorus
)

func (h ShapeHint) String() string {
	switch h {
	case HintNone:
		return "none"
	case HintCube:
		return "cube"
	case HintSphere:
		return "sphere"
	case HintCylinder:
		return "cylinder"
	case HintCone:
		return "cone"
	case HintTorus:
		return "torus"
	}
	return "unknown"
}

// tolFactor scales a base simplification tolerance for the shape family.
func (h ShapeHint) tolFactor() float64 {
	switch h {
	case HintCube:
		return 2
	case HintSphere, HintTorus:
		return 0.5
	}
	return 1
}

// SimplifyOptions tune Simplify.
type SimplifyOptions struct {
	// Tolerance is the base welding distance in scene units. Zero or
	// negative selects moderateSimplifyTol.
	Tolerance float64
	// Hint adapts the tolerance to the operand's shape family.
	Hint ShapeHint
	// Aggressiveness multiplies the final tolerance. Zero means 1.
	Aggressiveness float64
}

// Simplify reduces mesh complexity by vertex welding. The effective
// tolerance is Tolerance scaled by the shape hint, by the vertex count
// (large meshes tolerate coarser welds, small ones need finer ones) and
// by Aggressiveness. Meshes above largeMeshVertices additionally shed
// their texture coordinates. Like Repair it never fails: a result that
// lost over 90% of a non trivial mesh triggers one retry at half the
// tolerance and aggressiveness, and an internal panic degrades to
// returning the input unchanged.
func Simplify(m *Mesh, opts SimplifyOptions) *Mesh {
	return simplify(m, opts, false)
}

func simplify(m *Mesh, opts SimplifyOptions, retried bool) (out *Mesh) {
	if m == nil || len(m.Positions) == 0 {
		return &Mesh{}
	}
	defer func() {
		if a := recover(); a != nil {
			out = m.Clone()
		}
	}()
	agg := opts.Aggressiveness
	if agg == 0 {
		agg = 1
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = moderateSimplifyTol
	}
	nv := m.NumVertices()
	tol := opts.Tolerance * opts.Hint.tolFactor() * complexityFactor(nv) * agg
	work := m
	if nv > largeMeshVertices && work.hasUVs() {
		work = work.Clone()
		work.UVs = nil
	}
	welded := Weld(work, tol)
	if !retried && nv > 100 && 10*welded.NumVertices() < nv {
		// Over 90% loss on a non trivial mesh: back off and try once more.
		half := opts
		half.Tolerance = opts.Tolerance / 2
		half.Aggressiveness = agg / 2
		return simplify(m, half, true)
	}
	return welded.RecomputeNormals()
}

func complexityFactor(vertices int) float64 {
	switch {
	case vertices > largeMeshVertices:
		return 2
	case vertices < smallMeshVertices:
		return 0.5
	}
	return 1
}
