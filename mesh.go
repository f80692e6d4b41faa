package csg

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is indexed triangle geometry held in flat buffers: three position
// floats per vertex, optionally three normal floats and two texture
// coordinates per vertex, and three vertex indices per triangle.
//
// Mesh values are treated as immutable. Every operation in this package
// returns a new Mesh and leaves its arguments untouched, so meshes may be
// shared freely between scenes, history snapshots and worker goroutines.
// An empty Indices slice marks an unindexed soup in which consecutive
// position triples form triangles.
type Mesh struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// NewMesh validates buffer shapes and returns the mesh holding them. The
// buffers are referenced directly, not copied. normals, uvs and indices
// may be nil.
func NewMesh(positions, normals, uvs []float32, indices []uint32) (*Mesh, error) {
	switch {
	case len(positions) == 0:
		return nil, errors.New("empty position buffer")
	case len(positions)%3 != 0:
		return nil, fmt.Errorf("position buffer length %d is not a multiple of 3", len(positions))
	case len(normals) != 0 && len(normals) != len(positions):
		return nil, fmt.Errorf("normal buffer length %d does not match %d position floats", len(normals), len(positions))
	case len(uvs) != 0 && len(uvs)/2 != len(positions)/3:
		return nil, fmt.Errorf("uv buffer holds %d vertices, positions hold %d", len(uvs)/2, len(positions)/3)
	case len(indices)%3 != 0:
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	nv := uint32(len(positions) / 3)
	for i, ix := range indices {
		if ix >= nv {
			return nil, fmt.Errorf("index %d at position %d out of range for %d vertices", ix, i, nv)
		}
	}
	return &Mesh{Positions: positions, Normals: normals, UVs: uvs, Indices: indices}, nil
}

// MeshFromTriangles builds an indexed mesh from a float64 triangle soup,
// merging vertices that fall within the same tol sized grid cell. The
// result carries no normals; chain RecomputeNormals when they are needed.
// Panics if tol is not positive.
func MeshFromTriangles(tris []r3.Triangle, tol float64) *Mesh {
	pos := make([]float32, 0, 9*len(tris))
	idx := make([]uint32, 0, 3*len(tris))
	for _, tri := range tris {
		for _, v := range tri {
			idx = append(idx, uint32(len(pos)/3))
			pos = append(pos, float32(v.X), float32(v.Y), float32(v.Z))
		}
	}
	return Weld(&Mesh{Positions: pos, Indices: idx}, tol)
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int { return len(m.Positions) / 3 }

// NumTriangles returns the number of triangles.
func (m *Mesh) NumTriangles() int {
	if m.indexed() {
		return len(m.Indices) / 3
	}
	return m.NumVertices() / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool { return m == nil || m.NumTriangles() == 0 }

func (m *Mesh) indexed() bool { return len(m.Indices) > 0 }

func (m *Mesh) hasNormals() bool {
	return len(m.Normals) > 0 && len(m.Normals) == len(m.Positions)
}

func (m *Mesh) hasUVs() bool {
	return len(m.UVs) > 0 && len(m.UVs)/2 == len(m.Positions)/3
}

// Vertex returns position i widened to float64.
func (m *Mesh) Vertex(i int) r3.Vec {
	return r3.Vec{
		X: float64(m.Positions[3*i]),
		Y: float64(m.Positions[3*i+1]),
		Z: float64(m.Positions[3*i+2]),
	}
}

// Normal returns the normal of vertex i. The zero vector is returned when
// the mesh carries no normals.
func (m *Mesh) Normal(i int) r3.Vec {
	if !m.hasNormals() {
		return r3.Vec{}
	}
	return r3.Vec{
		X: float64(m.Normals[3*i]),
		Y: float64(m.Normals[3*i+1]),
		Z: float64(m.Normals[3*i+2]),
	}
}

// Triangle returns triangle t as float64 corner positions.
func (m *Mesh) Triangle(t int) r3.Triangle {
	i0, i1, i2 := m.triangleIndices(t)
	return r3.Triangle{m.Vertex(i0), m.Vertex(i1), m.Vertex(i2)}
}

func (m *Mesh) triangleIndices(t int) (i0, i1, i2 int) {
	if m.indexed() {
		return int(m.Indices[3*t]), int(m.Indices[3*t+1]), int(m.Indices[3*t+2])
	}
	return 3 * t, 3*t + 1, 3*t + 2
}

// Triangles expands the mesh into a float64 triangle soup.
func (m *Mesh) Triangles() []r3.Triangle {
	out := make([]r3.Triangle, m.NumTriangles())
	for t := range out {
		out[t] = m.Triangle(t)
	}
	return out
}

// Clone returns a deep copy of m. Cloning a nil mesh yields an empty mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return &Mesh{}
	}
	out := &Mesh{}
	if m.Positions != nil {
		out.Positions = append(make([]float32, 0, len(m.Positions)), m.Positions...)
	}
	if m.Normals != nil {
		out.Normals = append(make([]float32, 0, len(m.Normals)), m.Normals...)
	}
	if m.UVs != nil {
		out.UVs = append(make([]float32, 0, len(m.UVs)), m.UVs...)
	}
	if m.Indices != nil {
		out.Indices = append(make([]uint32, 0, len(m.Indices)), m.Indices...)
	}
	return out
}

// Bounds returns the axis aligned box enclosing all vertices. The zero box
// is returned for an empty mesh. Non finite positions poison the result;
// Validate rejects such meshes.
func (m *Mesh) Bounds() r3.Box {
	if m == nil || len(m.Positions) < 3 {
		return r3.Box{}
	}
	bb := d3.Box{Min: m.Vertex(0), Max: m.Vertex(0)}
	for i := 1; i < m.NumVertices(); i++ {
		bb = bb.Include(m.Vertex(i))
	}
	return r3.Box(bb)
}

// Area returns the total surface area of the mesh.
func (m *Mesh) Area() float64 {
	var area float64
	for t := 0; t < m.NumTriangles(); t++ {
		tri := m.Triangle(t)
		area += 0.5 * r3.Norm(r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0])))
	}
	return area
}

// Volume returns the volume enclosed by the mesh as the magnitude of the
// summed signed tetrahedron volumes against the origin. The result is only
// meaningful for closed, consistently wound meshes.
func (m *Mesh) Volume() float64 {
	var vol float64
	for t := 0; t < m.NumTriangles(); t++ {
		tri := m.Triangle(t)
		vol += r3.Dot(tri[0], r3.Cross(tri[1], tri[2]))
	}
	return math.Abs(vol) / 6
}

// MapPositions applies f to every vertex position and returns the result.
// Normals are dropped because f need not be rigid; chain RecomputeNormals
// to restore them.
func (m *Mesh) MapPositions(f func(r3.Vec) r3.Vec) *Mesh {
	out := m.Clone()
	for i := 0; i < out.NumVertices(); i++ {
		v := f(m.Vertex(i))
		out.Positions[3*i] = float32(v.X)
		out.Positions[3*i+1] = float32(v.Y)
		out.Positions[3*i+2] = float32(v.Z)
	}
	out.Normals = nil
	return out
}

// RecomputeNormals returns m with fresh smooth per vertex normals. Face
// normals weighted by area accumulate on each referenced vertex and are
// normalized at the end, so shared vertices shade smoothly.
func (m *Mesh) RecomputeNormals() *Mesh {
	out := m.Clone()
	acc := make([]r3.Vec, out.NumVertices())
	for t := 0; t < out.NumTriangles(); t++ {
		i0, i1, i2 := out.triangleIndices(t)
		a, b, c := out.Vertex(i0), out.Vertex(i1), out.Vertex(i2)
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		acc[i0] = r3.Add(acc[i0], n)
		acc[i1] = r3.Add(acc[i1], n)
		acc[i2] = r3.Add(acc[i2], n)
	}
	normals := make([]float32, len(out.Positions))
	for i, n := range acc {
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		normals[3*i] = float32(n.X)
		normals[3*i+1] = float32(n.Y)
		normals[3*i+2] = float32(n.Z)
	}
	out.Normals = normals
	return out
}

// sequentialIndexed synthesizes 0..n-1 indices for an unindexed soup.
// Trailing vertices that do not complete a triangle are left unreferenced.
func (m *Mesh) sequentialIndexed() *Mesh {
	out := m.Clone()
	n := out.NumVertices()
	n -= n % 3
	out.Indices = make([]uint32, n)
	for i := range out.Indices {
		out.Indices[i] = uint32(i)
	}
	return out
}
