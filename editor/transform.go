package editor

import (
	"errors"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform places a model in the scene. Positions are scaled first, then
// rotated about X, Y and Z in that order, then translated.
type Transform struct {
	Translation r3.Vec
	// Rotation holds Euler angles in radians.
	Rotation r3.Vec
	Scale    r3.Vec
}

// IdentityTransform returns the transform that leaves meshes unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: r3.Vec{1, 1, 1}}
}

func (t Transform) validate() error {
	if !d3.Finite(t.Translation) || !d3.Finite(t.Rotation) || !d3.Finite(t.Scale) {
		return errors.New("transform has non-finite components")
	}
	if t.Scale.X == 0 || t.Scale.Y == 0 || t.Scale.Z == 0 {
		return errors.New("transform scale component is zero")
	}
	return nil
}

func (t Transform) rotations() (rx, ry, rz r3.Rotation) {
	rx = r3.NewRotation(t.Rotation.X, r3.Vec{X: 1})
	ry = r3.NewRotation(t.Rotation.Y, r3.Vec{Y: 1})
	rz = r3.NewRotation(t.Rotation.Z, r3.Vec{Z: 1})
	return rx, ry, rz
}

// Apply transforms the point p.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	rx, ry, rz := t.rotations()
	p = d3.MulElem(t.Scale, p)
	p = rz.Rotate(ry.Rotate(rx.Rotate(p)))
	return r3.Add(p, t.Translation)
}

// TransformMesh returns m with the transform baked into its positions and
// normals recomputed to match.
func (t Transform) TransformMesh(m *csg.Mesh) *csg.Mesh {
	rx, ry, rz := t.rotations()
	out := m.MapPositions(func(p r3.Vec) r3.Vec {
		p = d3.MulElem(t.Scale, p)
		p = rz.Rotate(ry.Rotate(rx.Rotate(p)))
		return r3.Add(p, t.Translation)
	})
	return out.RecomputeNormals()
}
