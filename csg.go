// Package csg implements boolean operations on triangle meshes for
// interactive solid modeling. The three operations (union, subtraction,
// intersection) are backed by a BSP clipping kernel and wrapped in a
// cascade of increasingly conservative strategies so that dirty input
// meshes still produce a usable result instead of an exception.
//
// Meshes arriving from files or editors are rarely clean. They carry
// non-finite vertices, degenerate triangles and duplicated geometry.
// The package therefore ships the defensive tooling the operations rely
// on: Validate, Repair, RepairSelfIntersections, Simplify and the
// result gate Usable. All functions are pure: inputs are never mutated
// and results are freshly allocated.
package csg

import "strconv"

// Op selects a boolean operation kind.
type Op uint8

const (
	// OpUnion combines both solids.
	OpUnion Op = iota
	// OpSubtract removes the second solid from the first.
	OpSubtract
	// OpIntersect keeps the volume common to both solids.
	OpIntersect
)

func (op Op) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpSubtract:
		return "subtract"
	case OpIntersect:
		return "intersect"
	}
	return "csg.Op(" + strconv.Itoa(int(op)) + ")"
}

// ParseOp converts a user facing operation name to an Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "union":
		return OpUnion, nil
	case "subtract", "difference":
		return OpSubtract, nil
	case "intersect", "intersection":
		return OpIntersect, nil
	}
	return 0, &ParseOpError{Name: s}
}

// ParseOpError is returned by ParseOp for unknown operation names.
type ParseOpError struct {
	Name string
}

func (e *ParseOpError) Error() string {
	return "unknown boolean operation " + strconv.Quote(e.Name)
}
