// Package must3 builds parametric solid meshes. Constructors panic on
// invalid arguments; form3 wraps them with error returns.
package must3

import (
	"math"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	sphereSegments = 32
	sphereRings    = 16
	radialSegments = 32
	torusSegments  = 48
	torusSides     = 16
)

// meshBuilder accumulates the flat vertex attributes a tessellator emits.
type meshBuilder struct {
	positions []float32
	normals   []float32
	uvs       []float32
	indices   []uint32
}

func (b *meshBuilder) vertex(p, n r3.Vec, u, v float64) uint32 {
	i := uint32(len(b.positions) / 3)
	b.positions = append(b.positions, float32(p.X), float32(p.Y), float32(p.Z))
	b.normals = append(b.normals, float32(n.X), float32(n.Y), float32(n.Z))
	b.uvs = append(b.uvs, float32(u), float32(v))
	return i
}

func (b *meshBuilder) tri(i, j, k uint32) {
	b.indices = append(b.indices, i, j, k)
}

// cap appends a disc fan at height z, wound to face its normal.
func (b *meshBuilder) cap(radius, z float64, n r3.Vec) {
	center := b.vertex(r3.Vec{0, 0, z}, n, 0.5, 0.5)
	start := center + 1
	for seg := 0; seg <= radialSegments; seg++ {
		phi := 2 * math.Pi * float64(seg) / radialSegments
		c, s := math.Cos(phi), math.Sin(phi)
		b.vertex(r3.Vec{radius * c, radius * s, z}, n, 0.5+c/2, 0.5+s/2)
	}
	for seg := uint32(0); seg < radialSegments; seg++ {
		if n.Z > 0 {
			b.tri(center, start+seg, start+seg+1)
		} else {
			b.tri(center, start+seg+1, start+seg)
		}
	}
}

func (b *meshBuilder) mesh() *csg.Mesh {
	m, err := csg.NewMesh(b.positions, b.normals, b.uvs, b.indices)
	if err != nil {
		panic(err)
	}
	return m
}

// Box returns a box mesh of the given size centered at the origin. Faces
// share no vertices so each keeps a flat normal and its own UV square.
func Box(size r3.Vec) *csg.Mesh {
	if d3.LTEZero(size) {
		panic("size <= 0")
	}
	h := r3.Scale(0.5, size)
	faces := [6]struct {
		normal  r3.Vec
		corners [4]r3.Vec
	}{
		{r3.Vec{1, 0, 0}, [4]r3.Vec{{h.X, -h.Y, -h.Z}, {h.X, h.Y, -h.Z}, {h.X, h.Y, h.Z}, {h.X, -h.Y, h.Z}}},
		{r3.Vec{-1, 0, 0}, [4]r3.Vec{{-h.X, -h.Y, h.Z}, {-h.X, h.Y, h.Z}, {-h.X, h.Y, -h.Z}, {-h.X, -h.Y, -h.Z}}},
		{r3.Vec{0, 1, 0}, [4]r3.Vec{{-h.X, h.Y, -h.Z}, {-h.X, h.Y, h.Z}, {h.X, h.Y, h.Z}, {h.X, h.Y, -h.Z}}},
		{r3.Vec{0, -1, 0}, [4]r3.Vec{{-h.X, -h.Y, h.Z}, {-h.X, -h.Y, -h.Z}, {h.X, -h.Y, -h.Z}, {h.X, -h.Y, h.Z}}},
		{r3.Vec{0, 0, 1}, [4]r3.Vec{{-h.X, -h.Y, h.Z}, {h.X, -h.Y, h.Z}, {h.X, h.Y, h.Z}, {-h.X, h.Y, h.Z}}},
		{r3.Vec{0, 0, -1}, [4]r3.Vec{{h.X, -h.Y, -h.Z}, {-h.X, -h.Y, -h.Z}, {-h.X, h.Y, -h.Z}, {h.X, h.Y, -h.Z}}},
	}
	uv := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	var b meshBuilder
	for _, f := range faces {
		var idx [4]uint32
		for c, v := range f.corners {
			idx[c] = b.vertex(v, f.normal, uv[c][0], uv[c][1])
		}
		b.tri(idx[0], idx[1], idx[2])
		b.tri(idx[0], idx[2], idx[3])
	}
	return b.mesh()
}

// Sphere returns a lat/long tessellated sphere mesh centered at the origin.
func Sphere(radius float64) *csg.Mesh {
	if radius <= 0 {
		panic("radius <= 0")
	}
	var b meshBuilder
	for ring := 0; ring <= sphereRings; ring++ {
		theta := math.Pi * float64(ring) / sphereRings
		rr, z := radius*math.Sin(theta), radius*math.Cos(theta)
		for seg := 0; seg <= sphereSegments; seg++ {
			phi := 2 * math.Pi * float64(seg) / sphereSegments
			p := r3.Vec{rr * math.Cos(phi), rr * math.Sin(phi), z}
			b.vertex(p, r3.Scale(1/radius, p), float64(seg)/sphereSegments, 1-float64(ring)/sphereRings)
		}
	}
	for ring := 0; ring < sphereRings; ring++ {
		for seg := 0; seg < sphereSegments; seg++ {
			a := uint32(ring*(sphereSegments+1) + seg)
			c := a + sphereSegments + 1
			if ring != sphereRings-1 {
				b.tri(a, c, c+1)
			}
			if ring != 0 {
				b.tri(a, c+1, a+1)
			}
		}
	}
	return b.mesh()
}

// Cylinder returns a capped cylinder mesh with its axis along Z, centered
// at the origin.
func Cylinder(height, radius float64) *csg.Mesh {
	if height <= 0 {
		panic("height <= 0")
	}
	if radius <= 0 {
		panic("radius <= 0")
	}
	var b meshBuilder
	half := height / 2
	for _, z := range [2]float64{-half, half} {
		v := 0.0
		if z > 0 {
			v = 1
		}
		for seg := 0; seg <= radialSegments; seg++ {
			phi := 2 * math.Pi * float64(seg) / radialSegments
			c, s := math.Cos(phi), math.Sin(phi)
			b.vertex(r3.Vec{radius * c, radius * s, z}, r3.Vec{c, s, 0}, float64(seg)/radialSegments, v)
		}
	}
	for seg := uint32(0); seg < radialSegments; seg++ {
		hi := seg + radialSegments + 1
		b.tri(seg, seg+1, hi+1)
		b.tri(seg, hi+1, hi)
	}
	b.cap(radius, half, r3.Vec{0, 0, 1})
	b.cap(radius, -half, r3.Vec{0, 0, -1})
	return b.mesh()
}

// Cone returns a capped cone mesh with its apex up the Z axis, centered at
// the origin.
func Cone(height, radius float64) *csg.Mesh {
	if height <= 0 {
		panic("height <= 0")
	}
	if radius <= 0 {
		panic("radius <= 0")
	}
	var b meshBuilder
	half := height / 2
	slope := math.Hypot(height, radius)
	for seg := 0; seg <= radialSegments; seg++ {
		phi := 2 * math.Pi * float64(seg) / radialSegments
		c, s := math.Cos(phi), math.Sin(phi)
		n := r3.Vec{height * c / slope, height * s / slope, radius / slope}
		b.vertex(r3.Vec{radius * c, radius * s, -half}, n, float64(seg)/radialSegments, 0)
	}
	// One apex vertex per segment so each side triangle keeps a
	// mid-segment normal.
	for seg := 0; seg < radialSegments; seg++ {
		mid := (float64(seg) + 0.5) / radialSegments
		phi := 2 * math.Pi * mid
		c, s := math.Cos(phi), math.Sin(phi)
		n := r3.Vec{height * c / slope, height * s / slope, radius / slope}
		b.vertex(r3.Vec{0, 0, half}, n, mid, 1)
	}
	apex := uint32(radialSegments + 1)
	for seg := uint32(0); seg < radialSegments; seg++ {
		b.tri(seg, seg+1, apex+seg)
	}
	b.cap(radius, -half, r3.Vec{0, 0, -1})
	return b.mesh()
}

// Torus returns a torus mesh around the Z axis centered at the origin.
// major is the radius from the axis to the tube center, minor the tube
// radius.
func Torus(major, minor float64) *csg.Mesh {
	if major <= 0 {
		panic("major radius <= 0")
	}
	if minor <= 0 {
		panic("minor radius <= 0")
	}
	if minor >= major {
		panic("minor radius >= major radius")
	}
	var b meshBuilder
	for i := 0; i <= torusSegments; i++ {
		theta := 2 * math.Pi * float64(i) / torusSegments
		ct, st := math.Cos(theta), math.Sin(theta)
		for j := 0; j <= torusSides; j++ {
			phi := 2 * math.Pi * float64(j) / torusSides
			cp, sp := math.Cos(phi), math.Sin(phi)
			p := r3.Vec{(major + minor*cp) * ct, (major + minor*cp) * st, minor * sp}
			n := r3.Vec{cp * ct, cp * st, sp}
			b.vertex(p, n, float64(i)/torusSegments, float64(j)/torusSides)
		}
	}
	for i := 0; i < torusSegments; i++ {
		for j := 0; j < torusSides; j++ {
			a := uint32(i*(torusSides+1) + j)
			c := a + torusSides + 1
			b.tri(a, c, c+1)
			b.tri(a, c+1, a+1)
		}
	}
	return b.mesh()
}
