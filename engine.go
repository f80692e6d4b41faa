package csg

import (
	"errors"
	"fmt"

	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// OpOptions tune a boolean operation.
type OpOptions struct {
	// HintA and HintB describe the operands' shape families to the
	// simplifier backing the fallback strategies.
	HintA, HintB ShapeHint
	// Logf, when non nil, receives warnings such as strategy failures
	// and conservative fallback notices. The engine writes nowhere else.
	Logf func(format string, args ...any)
}

func (o OpOptions) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Union combines a and b into one solid. For usable inputs it never
// fails: when every strategy is exhausted it degrades to the first
// operand, and past that to a unit cube placeholder.
func Union(a, b *Mesh) (*Mesh, error) { return Operate(a, b, OpUnion) }

// Subtract removes b's volume from a. Disjoint operands return a clone
// of a unchanged.
func Subtract(a, b *Mesh) (*Mesh, error) { return Operate(a, b, OpSubtract) }

// Intersect keeps the volume common to a and b. Disjoint operands return
// the empty placeholder.
func Intersect(a, b *Mesh) (*Mesh, error) { return Operate(a, b, OpIntersect) }

// Operate runs op on two world space meshes and returns a new mesh.
// Operands pass through Repair first, every strategy result is gated by
// Usable, and accepted results are welded and get fresh normals. A non
// nil error is an *OpError wrapping one of the classified reasons.
// Operate panics when a or b is nil; use an empty Mesh for no geometry.
func Operate(a, b *Mesh, op Op) (*Mesh, error) {
	return OperateOpts(a, b, op, OpOptions{})
}

// OperateOpts is Operate with options.
func OperateOpts(a, b *Mesh, op Op, opt OpOptions) (*Mesh, error) {
	if a == nil || b == nil {
		panic("nil mesh argument to Operate")
	}
	ra := Repair(a)
	rb := Repair(b)
	switch op {
	case OpUnion:
		return operateUnion(ra, rb, opt)
	case OpSubtract:
		return operateSubtract(ra, rb, opt)
	case OpIntersect:
		return operateIntersect(ra, rb, opt)
	}
	panic("unknown boolean operation passed to Operate")
}

// strategy is one attempt at producing a result. Strategies run in order
// and the first one returning a nil error and a Usable mesh wins.
type strategy struct {
	name string
	fn   func(a, b *Mesh) (*Mesh, error)
}

// errEmptySolid reports that the kernel produced a solid with no volume,
// such as a shape subtracted from itself. It is definitive: no other
// strategy can add volume back, so the cascade stops and the operation
// resolves to the empty placeholder.
var errEmptySolid = errors.New("boolean result is an empty solid")

// runStrategies tries each strategy in turn, containing panics and gating
// results through Usable. It reports every rejection through logf and
// returns the reason the first strategy was rejected when all fail.
func runStrategies(a, b *Mesh, strategies []strategy, logf func(string, ...any)) (*Mesh, error) {
	var firstErr error
	for _, s := range strategies {
		out, err := runStrategy(s, a, b)
		if errors.Is(err, errEmptySolid) {
			return nil, err
		}
		if err == nil && !Usable(out) {
			err = errors.New("result failed validation")
		}
		if err != nil {
			logf("csg: strategy %s rejected: %v", s.name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", s.name, err)
			}
			continue
		}
		return out, nil
	}
	if firstErr == nil {
		firstErr = errors.New("no strategies to run")
	}
	return nil, firstErr
}

func runStrategy(s strategy, a, b *Mesh) (out *Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.fn(a, b)
}

func operateUnion(a, b *Mesh, opt OpOptions) (*Mesh, error) {
	out, err := runStrategies(a, b, []strategy{
		{name: "union/concatenate", fn: unionConcat},
		{name: "union/guarded-merge", fn: unionGuardedMerge},
		{name: "union/bsp", fn: bspStrategy(OpUnion)},
	}, opt.logf)
	if err == nil {
		return finishResult(out, unionResultWeldTol), nil
	}
	// Union must not fail. Degrade to the first operand, then to a unit
	// cube so downstream consumers always receive displayable geometry.
	opt.logf("csg: union strategies exhausted (%v), returning first operand", err)
	if Usable(a) {
		return finishResult(a.Clone(), unionResultWeldTol), nil
	}
	opt.logf("csg: union first operand unusable, returning placeholder cube")
	return cuboid(r3.Vec{}, d3.Elem(1)).RecomputeNormals(), nil
}

func operateSubtract(a, b *Mesh, opt OpOptions) (*Mesh, error) {
	if disjointBounds(a, b) {
		// Nothing to carve away.
		return a.Clone(), nil
	}
	out, err := runStrategies(a, b, []strategy{
		{name: "subtract/bsp", fn: bspStrategy(OpSubtract)},
		{name: "subtract/bsp-simplified", fn: simplifiedBSP(OpSubtract, moderateSimplifyTol, opt)},
		{name: "subtract/bsp-aggressive", fn: simplifiedBSP(OpSubtract, aggressiveSubtractTol, opt)},
	}, opt.logf)
	if err == nil {
		return finishResult(out, otherResultWeldTol), nil
	}
	if errors.Is(err, errEmptySolid) {
		return emptyPlaceholder(a, b), nil
	}
	opt.logf("csg: subtract strategies exhausted (%v), returning first operand unchanged", err)
	if Usable(a) {
		return a.Clone(), nil
	}
	return nil, &OpError{Op: OpSubtract, Reason: classifyFailure(a, b)}
}

func operateIntersect(a, b *Mesh, opt OpOptions) (*Mesh, error) {
	if disjointBounds(a, b) {
		return emptyPlaceholder(a, b), nil
	}
	out, err := runStrategies(a, b, []strategy{
		{name: "intersect/bsp", fn: bspStrategy(OpIntersect)},
		{name: "intersect/bsp-simplified", fn: simplifiedBSP(OpIntersect, moderateSimplifyTol, opt)},
		{name: "intersect/bsp-aggressive", fn: simplifiedBSP(OpIntersect, aggressiveIntersectTol, opt)},
	}, opt.logf)
	if err == nil {
		return finishResult(out, otherResultWeldTol), nil
	}
	if errors.Is(err, errEmptySolid) {
		return emptyPlaceholder(a, b), nil
	}
	opt.logf("csg: intersect strategies exhausted (%v), returning empty placeholder", err)
	if ph := emptyPlaceholder(a, b); Usable(ph) {
		return ph, nil
	}
	return nil, &OpError{Op: OpIntersect, Reason: classifyFailure(a, b)}
}

// unionConcat appends b's buffers after a's, remapping b's indices past
// a's vertices. Interior faces are kept: concatenation can never lose
// detail from either operand and displays correctly for solid shading.
func unionConcat(a, b *Mesh) (*Mesh, error) {
	sa, sb := a, b
	if !sa.indexed() {
		sa = sa.sequentialIndexed()
	}
	if !sb.indexed() {
		sb = sb.sequentialIndexed()
	}
	out := &Mesh{
		Positions: make([]float32, 0, len(sa.Positions)+len(sb.Positions)),
		Indices:   make([]uint32, 0, len(sa.Indices)+len(sb.Indices)),
	}
	out.Positions = append(out.Positions, sa.Positions...)
	out.Positions = append(out.Positions, sb.Positions...)
	// Attribute buffers survive only when both operands carry them.
	if sa.hasNormals() && sb.hasNormals() {
		out.Normals = append(append(make([]float32, 0, len(sa.Normals)+len(sb.Normals)), sa.Normals...), sb.Normals...)
	}
	if sa.hasUVs() && sb.hasUVs() {
		out.UVs = append(append(make([]float32, 0, len(sa.UVs)+len(sb.UVs)), sa.UVs...), sb.UVs...)
	}
	out.Indices = append(out.Indices, sa.Indices...)
	offset := uint32(sa.NumVertices())
	for _, ix := range sb.Indices {
		out.Indices = append(out.Indices, ix+offset)
	}
	return out, nil
}

// unionGuardedMerge rebuilds the union triangle by triangle, dropping any
// triangle with out of range indices or non finite corners. Slower than
// plain concatenation but survives operands that defeated it.
func unionGuardedMerge(a, b *Mesh) (*Mesh, error) {
	var tris []r3.Triangle
	for _, m := range []*Mesh{a, b} {
		nv := uint32(m.NumVertices())
		for t := 0; t < m.NumTriangles(); t++ {
			if m.indexed() {
				i0, i1, i2 := m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]
				if i0 >= nv || i1 >= nv || i2 >= nv {
					continue
				}
			}
			tri := m.Triangle(t)
			if !d3.Finite(tri[0]) || !d3.Finite(tri[1]) || !d3.Finite(tri[2]) {
				continue
			}
			tris = append(tris, tri)
		}
	}
	if len(tris) == 0 {
		return nil, errors.New("no valid triangles in either operand")
	}
	return MeshFromTriangles(tris, kernelWeldTol), nil
}

// bspStrategy adapts the BSP kernel to the strategy signature.
func bspStrategy(op Op) func(a, b *Mesh) (*Mesh, error) {
	return func(a, b *Mesh) (*Mesh, error) {
		pa := meshToBSPPolygons(a)
		pb := meshToBSPPolygons(b)
		if len(pa) == 0 || len(pb) == 0 {
			return nil, errors.New("an operand has no usable polygons")
		}
		na, nb := newBSPNode(pa), newBSPNode(pb)
		var polys []bspPolygon
		switch op {
		case OpUnion:
			polys = bspUnion(na, nb)
		case OpSubtract:
			polys = bspSubtract(na, nb)
		case OpIntersect:
			polys = bspIntersect(na, nb)
		}
		if len(polys) == 0 {
			return nil, errEmptySolid
		}
		return bspPolygonsToMesh(polys, kernelWeldTol), nil
	}
}

// simplifiedBSP simplifies both operands at tol before running the BSP
// kernel. The coarser geometry dodges the near coplanar splits that sink
// the exact attempt.
func simplifiedBSP(op Op, tol float64, opt OpOptions) func(a, b *Mesh) (*Mesh, error) {
	bsp := bspStrategy(op)
	return func(a, b *Mesh) (*Mesh, error) {
		sa := Simplify(a, SimplifyOptions{Tolerance: tol, Hint: opt.HintA})
		sb := Simplify(b, SimplifyOptions{Tolerance: tol, Hint: opt.HintB})
		return bsp(sa, sb)
	}
}

// finishResult normalizes an accepted strategy output: weld away seam
// duplicates and recompute smooth normals.
func finishResult(m *Mesh, weldTol float64) *Mesh {
	return Weld(m, weldTol).RecomputeNormals()
}

// disjointBounds reports whether both bounding boxes are finite and do
// not intersect. Corrupt bounds never count as disjoint so the cascade
// still gets a chance to repair the operands.
func disjointBounds(a, b *Mesh) bool {
	ba, bb := d3.Box(a.Bounds()), d3.Box(b.Bounds())
	if !d3.Finite(ba.Min) || !d3.Finite(ba.Max) || !d3.Finite(bb.Min) || !d3.Finite(bb.Max) {
		return false
	}
	return !ba.Intersects(bb)
}

// emptyPlaceholder returns a cube of side emptyPlaceholderSide centered
// between the operand bounding box centers. It stands in for an empty
// boolean result; downstream consumers expect displayable geometry, not
// a zero length mesh.
func emptyPlaceholder(a, b *Mesh) *Mesh {
	ca := d3.Box(a.Bounds()).Center()
	cb := d3.Box(b.Bounds()).Center()
	mid := r3.Scale(0.5, r3.Add(ca, cb))
	return cuboid(mid, d3.Elem(emptyPlaceholderSide)).RecomputeNormals()
}

// cuboid builds an axis aligned box mesh with 8 vertices and 12 CCW
// outward facing triangles.
func cuboid(center, size r3.Vec) *Mesh {
	h := r3.Scale(0.5, size)
	min := r3.Sub(center, h)
	max := r3.Add(center, h)
	pos := []float32{
		float32(min.X), float32(min.Y), float32(min.Z),
		float32(max.X), float32(min.Y), float32(min.Z),
		float32(max.X), float32(max.Y), float32(min.Z),
		float32(min.X), float32(max.Y), float32(min.Z),
		float32(min.X), float32(min.Y), float32(max.Z),
		float32(max.X), float32(min.Y), float32(max.Z),
		float32(max.X), float32(max.Y), float32(max.Z),
		float32(min.X), float32(max.Y), float32(max.Z),
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // bottom
		4, 5, 6, 4, 6, 7, // top
		0, 1, 5, 0, 5, 4, // front
		2, 3, 7, 2, 7, 6, // back
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return &Mesh{Positions: pos, Indices: idx}
}
