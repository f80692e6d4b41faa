package csg

import (
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// BSP solid kernel. A solid is a set of convex polygons partitioned by a
// binary space tree whose splitting planes come from the polygons
// themselves. Booleans are expressed as sequences of clip and invert
// operations on two trees. Vertex normals and texture coordinates do not
// survive the kernel; callers recompute them on the welded result.

// bspEpsilon is the plane thickness below which a vertex is considered to
// lie on the plane.
const bspEpsilon = 1e-5

// Vertex classifications relative to a plane, combined with bitwise or to
// classify whole polygons.
const (
	relCoplanar = 0
	relFront    = 1
	relBack     = 2
	relSpanning = 3
)

type bspPlane struct {
	n r3.Vec  // unit normal
	w float64 // distance from origin along n
}

// planeFromPoints derives the plane through three points. Reports false
// for degenerate or non finite triangles.
func planeFromPoints(a, b, c r3.Vec) (bspPlane, bool) {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if !d3.Finite(n) || r3.Norm2(n) < degenerateAreaEps {
		return bspPlane{}, false
	}
	n = r3.Unit(n)
	return bspPlane{n: n, w: r3.Dot(n, a)}, true
}

func (p *bspPlane) flip() {
	p.n = r3.Scale(-1, p.n)
	p.w = -p.w
}

// bspPolygon is a convex planar polygon with at least three vertices.
// Clipped fragments inherit the plane of the polygon they came from.
type bspPolygon struct {
	vertices []r3.Vec
	plane    bspPlane
}

func (poly bspPolygon) flipped() bspPolygon {
	vs := make([]r3.Vec, len(poly.vertices))
	for i, v := range poly.vertices {
		vs[len(vs)-1-i] = v
	}
	pl := poly.plane
	pl.flip()
	return bspPolygon{vertices: vs, plane: pl}
}

// split classifies poly against p and appends it, or its fragments, to the
// matching buckets.
func (p bspPlane) split(poly bspPolygon, coplanarFront, coplanarBack, front, back *[]bspPolygon) {
	polyType := relCoplanar
	types := make([]int, len(poly.vertices))
	for i, v := range poly.vertices {
		t := r3.Dot(p.n, v) - p.w
		typ := relCoplanar
		switch {
		case t < -bspEpsilon:
			typ = relBack
		case t > bspEpsilon:
			typ = relFront
		}
		types[i] = typ
		polyType |= typ
	}
	switch polyType {
	case relCoplanar:
		if r3.Dot(p.n, poly.plane.n) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case relFront:
		*front = append(*front, poly)
	case relBack:
		*back = append(*back, poly)
	case relSpanning:
		var f, b []r3.Vec
		n := len(poly.vertices)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.vertices[i], poly.vertices[j]
			if ti != relBack {
				f = append(f, vi)
			}
			if ti != relFront {
				b = append(b, vi)
			}
			if ti|tj == relSpanning {
				t := (p.w - r3.Dot(p.n, vi)) / r3.Dot(p.n, r3.Sub(vj, vi))
				v := r3.Add(vi, r3.Scale(t, r3.Sub(vj, vi)))
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*front = append(*front, bspPolygon{vertices: f, plane: poly.plane})
		}
		if len(b) >= 3 {
			*back = append(*back, bspPolygon{vertices: b, plane: poly.plane})
		}
	}
}

// bspNode is one cell of the space partition. A nil plane marks a leaf
// that has not been built yet.
type bspNode struct {
	plane    *bspPlane
	front    *bspNode
	back     *bspNode
	polygons []bspPolygon
}

func newBSPNode(polygons []bspPolygon) *bspNode {
	n := &bspNode{}
	if len(polygons) > 0 {
		n.build(polygons)
	}
	return n
}

// build inserts polygons into the tree, splitting them across existing
// planes. The first polygon of a fresh node donates the node plane.
func (n *bspNode) build(polygons []bspPolygon) {
	if len(polygons) == 0 {
		return
	}
	if n.plane == nil {
		pl := polygons[0].plane
		n.plane = &pl
	}
	var front, back []bspPolygon
	for _, poly := range polygons {
		n.plane.split(poly, &n.polygons, &n.polygons, &front, &back)
	}
	if len(front) > 0 {
		if n.front == nil {
			n.front = &bspNode{}
		}
		n.front.build(front)
	}
	if len(back) > 0 {
		if n.back == nil {
			n.back = &bspNode{}
		}
		n.back.build(back)
	}
}

// invert swaps solid and empty space.
func (n *bspNode) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flipped()
	}
	if n.plane != nil {
		n.plane.flip()
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons returns the fragments of polygons that lie outside this
// node's solid.
func (n *bspNode) clipPolygons(polygons []bspPolygon) []bspPolygon {
	if n.plane == nil {
		return append([]bspPolygon(nil), polygons...)
	}
	var front, back []bspPolygon
	for _, poly := range polygons {
		n.plane.split(poly, &front, &back, &front, &back)
	}
	if n.front != nil {
		front = n.front.clipPolygons(front)
	}
	if n.back != nil {
		back = n.back.clipPolygons(back)
	} else {
		back = nil // inside the solid
	}
	return append(front, back...)
}

// clipTo removes every polygon fragment of this tree that lies inside
// other's solid.
func (n *bspNode) clipTo(other *bspNode) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

func (n *bspNode) allPolygons() []bspPolygon {
	out := append([]bspPolygon(nil), n.polygons...)
	if n.front != nil {
		out = append(out, n.front.allPolygons()...)
	}
	if n.back != nil {
		out = append(out, n.back.allPolygons()...)
	}
	return out
}

// The boolean combinations. Both argument trees are consumed.

func bspUnion(a, b *bspNode) []bspPolygon {
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	return a.allPolygons()
}

func bspSubtract(a, b *bspNode) []bspPolygon {
	a.invert()
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	a.invert()
	return a.allPolygons()
}

func bspIntersect(a, b *bspNode) []bspPolygon {
	a.invert()
	b.clipTo(a)
	b.invert()
	a.clipTo(b)
	b.clipTo(a)
	a.build(b.allPolygons())
	a.invert()
	return a.allPolygons()
}

// meshToBSPPolygons converts mesh triangles to kernel polygons, skipping
// triangles too degenerate to define a plane.
func meshToBSPPolygons(m *Mesh) []bspPolygon {
	nt := m.NumTriangles()
	out := make([]bspPolygon, 0, nt)
	for t := 0; t < nt; t++ {
		tri := m.Triangle(t)
		pl, ok := planeFromPoints(tri[0], tri[1], tri[2])
		if !ok {
			continue
		}
		out = append(out, bspPolygon{vertices: tri[:], plane: pl})
	}
	return out
}

// bspPolygonsToMesh fans each convex polygon into triangles and welds the
// soup into an indexed mesh.
func bspPolygonsToMesh(polys []bspPolygon, tol float64) *Mesh {
	var tris []r3.Triangle
	for _, p := range polys {
		for i := 2; i < len(p.vertices); i++ {
			tris = append(tris, r3.Triangle{p.vertices[0], p.vertices[i-1], p.vertices[i]})
		}
	}
	return MeshFromTriangles(tris, tol)
}
