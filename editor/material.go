package editor

import "image/color"

// Material is the appearance attached to a model. Exactly three variants
// exist: Basic, Standard and Physical.
type Material interface {
	// BaseColor is the material's albedo.
	BaseColor() color.NRGBA
	material() // marker method restricting implementations to this package
}

// Basic is a flat unlit color.
type Basic struct {
	Color   color.NRGBA
	Opacity float64
}

func (m Basic) BaseColor() color.NRGBA { return m.Color }
func (Basic) material()                {}

// Standard is the lit default appearance.
type Standard struct {
	Color     color.NRGBA
	Opacity   float64
	Metalness float64
	Roughness float64
}

func (m Standard) BaseColor() color.NRGBA { return m.Color }
func (Standard) material()                {}

// Physical extends Standard with a clearcoat layer.
type Physical struct {
	Color     color.NRGBA
	Opacity   float64
	Metalness float64
	Roughness float64
	Clearcoat float64
}

func (m Physical) BaseColor() color.NRGBA { return m.Color }
func (Physical) material()                {}

// DefaultMaterial is the appearance of freshly created models. The color
// matches the preview renderer's object color.
func DefaultMaterial() Material {
	return Standard{
		Color:     color.NRGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff},
		Opacity:   1,
		Roughness: 0.7,
	}
}

func opacity(m Material) float64 {
	switch v := m.(type) {
	case Basic:
		return v.Opacity
	case Standard:
		return v.Opacity
	case Physical:
		return v.Opacity
	}
	return 1
}

func materialName(m Material) string {
	switch m.(type) {
	case Basic:
		return "basic"
	case Standard:
		return "standard"
	case Physical:
		return "physical"
	}
	return "material"
}

// resultMaterial derives a boolean result's material from operand A. The
// result is forced near opaque so it always renders visibly even when the
// operand was translucent.
func resultMaterial(a Material) Material {
	out := Standard{Color: a.BaseColor(), Opacity: opacity(a), Roughness: 0.7}
	switch v := a.(type) {
	case Standard:
		out.Metalness, out.Roughness = v.Metalness, v.Roughness
	case Physical:
		out.Metalness, out.Roughness = v.Metalness, v.Roughness
	}
	if out.Opacity < 0.95 {
		out.Opacity = 0.95
	}
	return out
}
