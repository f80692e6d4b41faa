package csg

// RepairSelfIntersections repairs meshes flagged by an edge sharing
// heuristic. Every undirected edge referenced by more than one triangle
// marks the triangles on it as suspect; edge sharing stands in for true
// triangle to triangle intersection tests, which keeps the pass linear in
// mesh size at the cost of flagging healthy closed surfaces too.
//
// Remediation is correspondingly conservative. A coarse weld at
// selfIntersectWeldTol is accepted when it merges anything; otherwise the
// suspects are removed only when they make up less than a sixth of the
// mesh; otherwise the mesh is returned unchanged. The returned mesh is m
// itself when nothing was modified.
func RepairSelfIntersections(m *Mesh) *Mesh {
	if m == nil || !m.indexed() || m.NumTriangles() == 0 {
		return m
	}
	nt := m.NumTriangles()
	edges := make(map[[2]uint32][]int, len(m.Indices))
	for t := 0; t < nt; t++ {
		for e := 0; e < 3; e++ {
			a := m.Indices[3*t+e]
			b := m.Indices[3*t+(e+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]uint32{a, b}] = append(edges[[2]uint32{a, b}], t)
		}
	}
	suspect := make(map[int]bool)
	for _, tris := range edges {
		if len(tris) > 1 {
			for _, t := range tris {
				suspect[t] = true
			}
		}
	}
	if len(suspect) == 0 {
		return m
	}
	if welded := Weld(m, selfIntersectWeldTol); welded.NumVertices() < m.NumVertices() {
		return welded.RecomputeNormals()
	}
	if 6*len(suspect) < nt {
		keep := make([]uint32, 0, 3*(nt-len(suspect)))
		for t := 0; t < nt; t++ {
			if suspect[t] {
				continue
			}
			keep = append(keep, m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2])
		}
		out := m.Clone()
		out.Indices = keep
		return compact(out).RecomputeNormals()
	}
	// Removal would eat too much of the mesh. Leave it alone.
	return m
}
