package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// tetra returns the four outward wound faces of a right tetrahedron.
func tetra(scale float64) []Triangle3 {
	v0 := r3.Vec{0, 0, 0}
	v1 := r3.Vec{scale, 0, 0}
	v2 := r3.Vec{0, scale, 0}
	v3 := r3.Vec{0, 0, scale}
	return []Triangle3{
		{v0, v2, v1},
		{v0, v1, v3},
		{v0, v3, v2},
		{v1, v2, v3},
	}
}

func TestSTLTriangleReadback(t *testing.T) {
	const tol = 1e-6
	model := tetra(1.5)
	var b bytes.Buffer
	if err := WriteSTL(&b, model); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := readBinarySTL(&b)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(model) {
		t.Fatalf("got %d triangles, want %d", len(got), len(model))
	}
	for i, tri := range got {
		if tri.IsDegenerate(1e-12) {
			t.Errorf("triangle %d degenerate on readback", i)
		}
		for j := range tri {
			if !d3.EqualWithin(tri[j], model[i][j], tol) {
				t.Errorf("triangle %d vertex %d: got %v, want %v", i, j, tri[j], model[i][j])
			}
		}
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	if err := WriteSTL(io.Discard, nil); err == nil {
		t.Fatal("expected error for empty slice")
	}
}

func TestReadBinarySTLErrors(t *testing.T) {
	t.Run("empty stream", func(t *testing.T) {
		_, err := readBinarySTL(bytes.NewReader(nil))
		if err == nil || !strings.Contains(err.Error(), "header") {
			t.Fatalf("got %v, want header error", err)
		}
	})
	t.Run("zero triangle count", func(t *testing.T) {
		var b bytes.Buffer
		if err := binary.Write(&b, binary.LittleEndian, &stlHeader{}); err != nil {
			t.Fatal(err)
		}
		_, err := readBinarySTL(&b)
		if err == nil || !strings.Contains(err.Error(), "0 triangles") {
			t.Fatalf("got %v, want 0 triangle error", err)
		}
	})
	t.Run("truncated record", func(t *testing.T) {
		var b bytes.Buffer
		if err := binary.Write(&b, binary.LittleEndian, &stlHeader{Count: 2}); err != nil {
			t.Fatal(err)
		}
		var d stlTriangle
		var rec [50]byte
		d.fromTriangle3(tetra(1)[0])
		d.put(rec[:])
		b.Write(rec[:])
		_, err := readBinarySTL(&b)
		if err == nil || !strings.Contains(err.Error(), "STL triangles read") {
			t.Fatalf("got %v, want triangle progress in error", err)
		}
	})
	t.Run("nan vertex", func(t *testing.T) {
		var b bytes.Buffer
		if err := binary.Write(&b, binary.LittleEndian, &stlHeader{Count: 1}); err != nil {
			t.Fatal(err)
		}
		var d stlTriangle
		d.fromTriangle3(tetra(1)[0])
		d.Vertex1[0] = float32(math.NaN())
		var rec [50]byte
		d.put(rec[:])
		b.Write(rec[:])
		_, err := readBinarySTL(&b)
		if err == nil || !strings.Contains(err.Error(), "inf/NaN") {
			t.Fatalf("got %v, want inf/NaN error", err)
		}
	})
}

func TestReadBinarySTLNormalMismatch(t *testing.T) {
	var d stlTriangle
	d.fromTriangle3(tetra(1)[0])
	// Stored normal disagrees with the winding by 90 degrees.
	d.Normal = [3]float32{1, 0, 0}
	var b bytes.Buffer
	if err := binary.Write(&b, binary.LittleEndian, &stlHeader{Count: 1}); err != nil {
		t.Fatal(err)
	}
	var rec [50]byte
	d.put(rec[:])
	b.Write(rec[:])
	got, err := readBinarySTL(&b)
	if !errors.Is(err, errCalculatedNormalMismatch) {
		t.Fatalf("got %v, want normal mismatch", err)
	}
	if len(got) != 1 {
		t.Fatalf("mismatching triangle dropped, got %d", len(got))
	}
}

func TestIsTextSTL(t *testing.T) {
	for _, tc := range []struct {
		name string
		head string
		want bool
	}{
		{"ascii", "solid cube\n facet normal 0 0 1\n", true},
		{"ascii leading space", "  \n\tsolid cube\n facet normal 0 0 1\n", true},
		{"binary starting with solid", "solid\x00\x01\x02 binary header junk", false},
		{"binary", "\x84\x00\x00 arbitrary bytes", false},
		{"empty", "", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTextSTL([]byte(tc.head)); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

const asciiTetra = `solid tetra
facet normal 0 0 -1
 outer loop
  vertex 0 0 0
  vertex 0 1 0
  vertex 1 0 0
 endloop
endfacet
facet normal 0 -1 0
 outer loop
  vertex 0 0 0
  vertex 1 0 0
  vertex 0 0 1
 endloop
endfacet
facet normal -1 0 0
 outer loop
  vertex 0 0 0
  vertex 0 0 1
  vertex 0 1 0
 endloop
endfacet
facet normal 0.577 0.577 0.577
 outer loop
  vertex 1 0 0
  vertex 0 1 0
  vertex 0 0 1
 endloop
endfacet
endsolid tetra
`

func TestReadTextSTL(t *testing.T) {
	tris, err := readTextSTL(strings.NewReader(asciiTetra))
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 4 {
		t.Fatalf("got %d triangles, want 4", len(tris))
	}
	want := tetra(1)
	for i := range want {
		for j := 0; j < 3; j++ {
			if !d3.EqualWithin(tris[i][j], want[i][j], 0) {
				t.Errorf("triangle %d vertex %d: got %v, want %v", i, j, tris[i][j], want[i][j])
			}
		}
	}
}

func TestReadTextSTLErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{"vertex cut short at EOF", "solid s\nfacet\nouter loop\nvertex 1 2"},
		{"bad number", "solid s\nfacet\nouter loop\nvertex 1 2 x\nvertex 0 0 0\nvertex 1 0 0\nendloop\n"},
		{"trailing vertices", "solid s\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nvertex 0 0 1\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := readTextSTL(strings.NewReader(tc.src)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadSTLAutodetect(t *testing.T) {
	// The same solid through both encodings decodes to the same mesh.
	var bin bytes.Buffer
	if err := WriteSTL(&bin, tetra(1)); err != nil {
		t.Fatal(err)
	}
	fromBin, err := ReadSTL(&bin)
	if err != nil {
		t.Fatal(err)
	}
	fromText, err := ReadSTL(strings.NewReader(asciiTetra))
	if err != nil {
		t.Fatal(err)
	}
	if fromBin.NumTriangles() != 4 || fromText.NumTriangles() != 4 {
		t.Fatalf("triangles: binary %d, text %d, want 4", fromBin.NumTriangles(), fromText.NumTriangles())
	}
	if fromBin.NumVertices() != 4 || fromText.NumVertices() != 4 {
		t.Fatalf("welded vertices: binary %d, text %d, want 4", fromBin.NumVertices(), fromText.NumVertices())
	}
	if err := csg.Validate(fromBin); err != nil {
		t.Fatal(err)
	}
}

func TestStlReaderSmallBuffer(t *testing.T) {
	m := csg.MeshFromTriangles(tetra(1), stlWeldTolerance)
	rd := &stlReader{r: NewMeshRenderer(m)}
	if _, err := rd.Read(make([]byte, 49)); err == nil {
		t.Fatal("expected error for sub-record buffer")
	}
}
