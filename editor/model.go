package editor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/soypat/csg"
	"github.com/soypat/csg/form3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Origin records how a model entered the scene.
type Origin uint8

const (
	OriginPrimitive Origin = iota
	OriginImported
	OriginText
	OriginSVG
	OriginBoolean
)

func (o Origin) String() string {
	switch o {
	case OriginPrimitive:
		return "primitive"
	case OriginImported:
		return "imported"
	case OriginText:
		return "text"
	case OriginSVG:
		return "svg"
	case OriginBoolean:
		return "boolean"
	}
	return "unknown"
}

// Model is one user visible object in a scene: a mesh in local space plus
// the transform, material and identity the editor tracks for it. Meshes
// are immutable, so models may share them with history snapshots.
type Model struct {
	ID        uuid.UUID
	Name      string
	Origin    Origin
	Shape     csg.ShapeHint
	Mesh      *csg.Mesh
	Transform Transform
	Material  Material

	// transform at creation, restored by ResetTransform.
	original Transform
}

// NewModel wraps mesh as a scene model with an identity transform and the
// default material. Panics if mesh is nil.
func NewModel(name string, origin Origin, mesh *csg.Mesh) *Model {
	if mesh == nil {
		panic("nil mesh argument to NewModel")
	}
	return &Model{
		ID:        uuid.New(),
		Name:      name,
		Origin:    origin,
		Mesh:      mesh,
		Transform: IdentityTransform(),
		original:  IdentityTransform(),
		Material:  DefaultMaterial(),
	}
}

// WorldMesh returns the model mesh with its transform baked in.
func (m *Model) WorldMesh() *csg.Mesh {
	return m.Transform.TransformMesh(m.Mesh)
}

// PrimitiveKind selects the parametric solid AddPrimitive builds.
type PrimitiveKind uint8

const (
	KindBox PrimitiveKind = iota
	KindSphere
	KindCylinder
	KindCone
	KindTorus
)

// Primitive describes a parametric solid for AddPrimitive. Only the
// dimensions the kind uses are read.
type Primitive struct {
	Kind   PrimitiveKind
	Size   r3.Vec  // box edge lengths
	Radius float64 // sphere, cylinder, cone
	Height float64 // cylinder, cone
	Major  float64 // torus center circle radius
	Minor  float64 // torus tube radius
}

func (p Primitive) mesh() (*csg.Mesh, error) {
	switch p.Kind {
	case KindBox:
		return form3.Box(p.Size)
	case KindSphere:
		return form3.Sphere(p.Radius)
	case KindCylinder:
		return form3.Cylinder(p.Height, p.Radius)
	case KindCone:
		return form3.Cone(p.Height, p.Radius)
	case KindTorus:
		return form3.Torus(p.Major, p.Minor)
	}
	return nil, fmt.Errorf("unknown primitive kind %d", p.Kind)
}

// hint maps the kind to the simplifier shape family so boolean fallbacks
// weld primitives appropriately.
func (p Primitive) hint() csg.ShapeHint {
	switch p.Kind {
	case KindBox:
		return csg.HintCube
	case KindSphere:
		return csg.HintSphere
	case KindCylinder:
		return csg.HintCylinder
	case KindCone:
		return csg.HintCone
	case KindTorus:
		return csg.HintTorus
	}
	return csg.HintNone
}
