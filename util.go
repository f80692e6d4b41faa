package csg

import "math"

const pi = math.Pi

// Tolerances and limits used across the repair and boolean pipeline.
// Distances are in scene units and were tuned for models in the
// 0.1 to 100 unit range.
const (
	// repairWeldTol merges duplicated vertices during Repair without
	// visibly moving geometry.
	repairWeldTol = 1e-4
	// selfIntersectWeldTol is the coarser weld the self-intersection
	// repairer tries before it considers removing triangles.
	selfIntersectWeldTol = 1e-3
	// unionResultWeldTol and otherResultWeldTol normalize accepted
	// boolean results. Union keeps the tighter value so fine detail
	// from either operand survives the merge.
	unionResultWeldTol = 1e-4
	otherResultWeldTol = 1e-3
	// kernelWeldTol indexes BSP kernel output. It only merges vertices
	// that are duplicates up to roundoff.
	kernelWeldTol = 1e-9
	// moderateSimplifyTol feeds the second subtract and intersect
	// strategies; the aggressive values feed the third.
	moderateSimplifyTol    = 0.005
	aggressiveSubtractTol  = 0.01
	aggressiveIntersectTol = 0.02
	// degenerateAreaEps rejects triangles whose squared doubled area
	// (cross product norm squared) vanishes.
	degenerateAreaEps = 1e-10
	// emptyPlaceholderSide is the edge length of the cube standing in
	// for an empty boolean result.
	emptyPlaceholderSide = 1e-4
	// complexTriangleCount is the combined operand size beyond which an
	// exhausted cascade is blamed on mesh complexity.
	complexTriangleCount = 100_000
	// largeMeshVertices and smallMeshVertices bound the complexity
	// scaling of the simplifier.
	largeMeshVertices = 10_000
	smallMeshVertices = 1_000
)

// Clamp x between a and b, assumes a <= b.
func Clamp(x, a, b float64) float64 {
	switch {
	case x < a:
		return a
	case x > b:
		return b
	}
	return x
}

// DtoR converts degrees to radians.
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees.
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}
