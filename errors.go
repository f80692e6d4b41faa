package csg

import "errors"

// Classified reasons for a boolean operation giving up after every
// strategy and fallback was exhausted. The messages name the likely cause
// and the remedy so they can be surfaced to modeling users verbatim.
var (
	// ErrNonManifold blames mesh quality.
	ErrNonManifold = errors.New("the shapes have gaps or overlaps that prevent a clean result; repair or simplify them and retry")
	// ErrNoOverlap blames operand placement.
	ErrNoOverlap = errors.New("the shapes don't intersect properly; move them so their volumes overlap")
	// ErrTooComplex blames operand size.
	ErrTooComplex = errors.New("the shapes are too complex to combine reliably; simplify them and retry")
)

// OpError reports the terminal failure of a boolean operation. Reason is
// one of ErrNonManifold, ErrNoOverlap or ErrTooComplex and is reachable
// through errors.Is.
type OpError struct {
	Op     Op
	Reason error
}

func (e *OpError) Error() string {
	return e.Op.String() + " failed: " + e.Reason.Error()
}

func (e *OpError) Unwrap() error {
	return e.Reason
}

// classifyFailure maps exhausted cascade conditions onto a user
// actionable reason.
func classifyFailure(a, b *Mesh) error {
	switch {
	case disjointBounds(a, b):
		return ErrNoOverlap
	case a.NumTriangles()+b.NumTriangles() > complexTriangleCount:
		return ErrTooComplex
	}
	return ErrNonManifold
}
