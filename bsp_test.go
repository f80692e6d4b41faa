package csg

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestPlaneSplitSpanningTriangle(t *testing.T) {
	plane := bspPlane{n: r3.Vec{X: 1}, w: 0}
	poly := bspPolygon{
		vertices: []r3.Vec{{X: -1}, {X: 1}, {X: 1, Y: 1}},
	}
	poly.plane, _ = planeFromPoints(poly.vertices[0], poly.vertices[1], poly.vertices[2])
	var cf, cb, front, back []bspPolygon
	plane.split(poly, &cf, &cb, &front, &back)
	if len(cf) != 0 || len(cb) != 0 {
		t.Fatalf("spanning triangle classified coplanar: %d/%d", len(cf), len(cb))
	}
	if len(front) != 1 || len(back) != 1 {
		t.Fatalf("got %d front and %d back fragments, want 1 and 1", len(front), len(back))
	}
	if n := len(front[0].vertices); n != 4 {
		t.Errorf("front fragment has %d vertices, want 4", n)
	}
	if n := len(back[0].vertices); n != 3 {
		t.Errorf("back fragment has %d vertices, want 3", n)
	}
	for _, v := range front[0].vertices {
		if v.X < -bspEpsilon {
			t.Errorf("front fragment vertex %v behind the plane", v)
		}
	}
}

func TestPlaneSplitCoplanar(t *testing.T) {
	plane := bspPlane{n: r3.Vec{Z: 1}, w: 0}
	poly := bspPolygon{vertices: []r3.Vec{{}, {X: 1}, {Y: 1}}}
	poly.plane, _ = planeFromPoints(poly.vertices[0], poly.vertices[1], poly.vertices[2])
	var cf, cb, front, back []bspPolygon
	plane.split(poly, &cf, &cb, &front, &back)
	if len(cf) != 1 || len(cb) != 0 || len(front) != 0 || len(back) != 0 {
		t.Fatalf("same facing coplanar polygon routed wrong: cf=%d cb=%d f=%d b=%d", len(cf), len(cb), len(front), len(back))
	}
	flipped := poly.flipped()
	cf, cb, front, back = nil, nil, nil, nil
	plane.split(flipped, &cf, &cb, &front, &back)
	if len(cb) != 1 {
		t.Fatalf("opposite facing coplanar polygon not routed to coplanarBack")
	}
}

func TestPlaneFromPointsDegenerate(t *testing.T) {
	if _, ok := planeFromPoints(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2}); ok {
		t.Error("collinear points produced a plane")
	}
	if _, ok := planeFromPoints(r3.Vec{}, r3.Vec{}, r3.Vec{Y: 1}); ok {
		t.Error("repeated points produced a plane")
	}
	nan := math.NaN()
	if _, ok := planeFromPoints(r3.Vec{X: nan}, r3.Vec{X: 1}, r3.Vec{Y: 1}); ok {
		t.Error("non-finite points produced a plane")
	}
}

func TestBSPTreeRoundTrip(t *testing.T) {
	m := cuboid(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	polys := meshToBSPPolygons(m)
	if len(polys) != 12 {
		t.Fatalf("got %d polygons, want 12", len(polys))
	}
	node := newBSPNode(polys)
	all := node.allPolygons()
	// A convex solid never splits its own polygons.
	if len(all) != 12 {
		t.Errorf("tree holds %d polygons, want 12", len(all))
	}
	back := bspPolygonsToMesh(all, kernelWeldTol)
	if back.NumVertices() != 8 || back.NumTriangles() != 12 {
		t.Errorf("round trip gave %d vertices %d triangles, want 8 and 12", back.NumVertices(), back.NumTriangles())
	}
	bb := d3FiniteBounds(t, back)
	if !vecApproxEqual(bb.Min, r3.Vec{X: -0.5, Y: -0.5, Z: -0.5}, 1e-6) {
		t.Errorf("bounds min = %v", bb.Min)
	}
}

func TestBSPInvertTwiceIsIdentity(t *testing.T) {
	m := cuboid(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	node := newBSPNode(meshToBSPPolygons(m))
	node.invert()
	node.invert()
	if n := len(node.allPolygons()); n != 12 {
		t.Errorf("double inversion changed polygon count to %d", n)
	}
}

func TestBSPClipDisjoint(t *testing.T) {
	a := newBSPNode(meshToBSPPolygons(cuboid(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})))
	bPolys := meshToBSPPolygons(cuboid(r3.Vec{X: 10}, r3.Vec{X: 1, Y: 1, Z: 1}))
	kept := a.clipPolygons(bPolys)
	if len(kept) != len(bPolys) {
		t.Errorf("clipping against a disjoint solid removed polygons: %d -> %d", len(bPolys), len(kept))
	}
}

func d3FiniteBounds(t *testing.T, m *Mesh) r3.Box {
	t.Helper()
	bb := m.Bounds()
	if math.IsNaN(bb.Min.X) || math.IsNaN(bb.Max.X) {
		t.Fatal("mesh bounds not finite")
	}
	return bb
}
