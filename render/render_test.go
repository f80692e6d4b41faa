package render_test

import (
	"bytes"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/cmpimg"

	"github.com/soypat/csg"
	"github.com/soypat/csg/form3"
	"github.com/soypat/csg/render"
	"gonum.org/v1/gonum/spatial/r3"
)

var updateGoldens = flag.Bool("update", false, "regenerate golden preview images under testdata")

// imgDelta is the maximum per-channel difference tolerated against the
// golden images. Rasterization is deterministic so exact matches are
// expected.
const imgDelta = 0

func TestPreviewGolden(t *testing.T) {
	const width, height = 288, 288
	for _, tc := range []struct {
		name  string
		build func() (*csg.Mesh, error)
	}{
		{"box", func() (*csg.Mesh, error) { return form3.Box(r3.Vec{1, 1.5, 0.75}) }},
		{"sphere", func() (*csg.Mesh, error) { return form3.Sphere(1) }},
		{"torus", func() (*csg.Mesh, error) { return form3.Torus(1, 0.4) }},
		{"boolean", func() (*csg.Mesh, error) {
			box, err := form3.Box(r3.Vec{2, 2, 2})
			if err != nil {
				return nil, err
			}
			sphere, err := form3.Sphere(1.3)
			if err != nil {
				return nil, err
			}
			return csg.Subtract(box, sphere)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, err := tc.build()
			if err != nil {
				t.Fatal(err)
			}
			img, err := render.RenderImage(render.NewMeshRenderer(m), width, height, render.DefaultView())
			if err != nil {
				t.Fatal(err)
			}
			var got bytes.Buffer
			if err := png.Encode(&got, img); err != nil {
				t.Fatal(err)
			}
			golden := filepath.Join("testdata", "defacto_"+tc.name+".png")
			if *updateGoldens {
				if err := os.MkdirAll("testdata", 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(golden, got.Bytes(), 0o644); err != nil {
					t.Fatal(err)
				}
				t.Skipf("regenerated %s", golden)
			}
			want, err := os.ReadFile(golden)
			if os.IsNotExist(err) {
				t.Skipf("%s missing, regenerate with -update", golden)
			} else if err != nil {
				t.Fatal(err)
			}
			eq, err := cmpimg.EqualApprox("png", got.Bytes(), want, imgDelta)
			if err != nil {
				t.Fatal(err)
			}
			if !eq {
				t.Errorf("preview deviates from %s", golden)
			}
		})
	}
}

type emptyStream struct{}

func (emptyStream) ReadTriangles([]render.Triangle3) (int, error) {
	return 0, os.ErrDeadlineExceeded
}

func TestRenderImageStreamError(t *testing.T) {
	_, err := render.RenderImage(emptyStream{}, 64, 64, render.DefaultView())
	if err == nil {
		t.Fatal("expected stream error to propagate")
	}
}

func TestRenderImageEmptyMesh(t *testing.T) {
	m := csg.MeshFromTriangles(nil, 1e-9)
	_, err := render.RenderImage(render.NewMeshRenderer(m), 64, 64, render.DefaultView())
	if err == nil {
		t.Fatal("expected error for empty mesh")
	}
}

func TestSavePNG(t *testing.T) {
	sphere, err := form3.Sphere(1)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sphere.png")
	if err := render.SavePNG(path, sphere, 128, 96, render.DefaultView()); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 128 || cfg.Height != 96 {
		t.Errorf("got %dx%d, want 128x96", cfg.Width, cfg.Height)
	}
}
