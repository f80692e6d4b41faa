// Package editor maintains the state a user edits: the scene's model
// list, selection and undo history, plus the transactional swap that
// replaces boolean operands with their result. The geometry engine in
// package csg stays pure; every state change lives here.
package editor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/soypat/csg"
	"github.com/soypat/csg/form3"
	"github.com/soypat/csg/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNotFound is returned when an id does not resolve to a scene model.
var ErrNotFound = errors.New("model not found in scene")

// exportWeldTol merges exactly duplicated vertices when models are merged
// for export.
const exportWeldTol = 1e-9

// Scene owns an ordered model list, the current selection and a bounded
// undo history. Scene is not safe for concurrent use; it expects the
// single event loop of an editor frontend.
type Scene struct {
	// Pool, when set, runs boolean operations on its workers instead of
	// inline on the calling goroutine.
	Pool *csg.Pool
	// Logf, when set, receives engine fallback notes and undo traces.
	Logf func(format string, args ...any)

	models    []*Model
	selection []uuid.UUID
	hist      *history
}

// NewScene returns an empty scene whose undo history keeps historyDepth
// snapshots. Non positive depths select the default of 50.
func NewScene(historyDepth int) *Scene {
	s := &Scene{hist: newHistory(historyDepth)}
	s.commit("empty scene")
	return s
}

func (s *Scene) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

// commit snapshots the scene after a mutation.
func (s *Scene) commit(action string) {
	models := make([]Model, len(s.models))
	for i, m := range s.models {
		models[i] = *m
	}
	s.hist.save(snapshot{
		action:    action,
		models:    models,
		selection: append([]uuid.UUID(nil), s.selection...),
	})
}

// restore swaps in a history snapshot.
func (s *Scene) restore(rec snapshot) {
	s.models = make([]*Model, len(rec.models))
	for i := range rec.models {
		m := rec.models[i]
		s.models[i] = &m
	}
	s.selection = append([]uuid.UUID(nil), rec.selection...)
}

// Len returns the number of models in the scene.
func (s *Scene) Len() int { return len(s.models) }

// Models returns the scene's models in insertion order.
func (s *Scene) Models() []*Model {
	return append([]*Model(nil), s.models...)
}

// Get resolves a model by id.
func (s *Scene) Get(id uuid.UUID) (*Model, error) {
	for _, m := range s.models {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%v: %w", id, ErrNotFound)
}

// Add inserts a model into the scene, selects it and commits history.
func (s *Scene) Add(m *Model) error {
	if m == nil {
		return errors.New("nil model")
	}
	if !csg.Usable(m.Mesh) {
		return errors.New("model mesh is not usable")
	}
	if _, err := s.Get(m.ID); err == nil {
		return fmt.Errorf("model %v already in scene", m.ID)
	}
	s.models = append(s.models, m)
	s.selection = []uuid.UUID{m.ID}
	s.commit("add " + m.Name)
	return nil
}

// Remove deletes a model and drops it from the selection.
func (s *Scene) Remove(id uuid.UUID) error {
	for i, m := range s.models {
		if m.ID != id {
			continue
		}
		s.models = append(s.models[:i], s.models[i+1:]...)
		s.dropSelection(id)
		s.commit("remove " + m.Name)
		return nil
	}
	return fmt.Errorf("%v: %w", id, ErrNotFound)
}

// Select replaces the selection. Every id must resolve. Selection changes
// are not undoable on their own; they ride along with the next commit.
func (s *Scene) Select(ids ...uuid.UUID) error {
	for _, id := range ids {
		if _, err := s.Get(id); err != nil {
			return err
		}
	}
	s.selection = append([]uuid.UUID(nil), ids...)
	return nil
}

// Selection returns the selected model ids.
func (s *Scene) Selection() []uuid.UUID {
	return append([]uuid.UUID(nil), s.selection...)
}

// ClearSelection empties the selection.
func (s *Scene) ClearSelection() { s.selection = nil }

func (s *Scene) dropSelection(id uuid.UUID) {
	kept := s.selection[:0]
	for _, sel := range s.selection {
		if sel != id {
			kept = append(kept, sel)
		}
	}
	s.selection = kept
}

// AddPrimitive builds a parametric solid and adds it to the scene.
func (s *Scene) AddPrimitive(name string, p Primitive) (*Model, error) {
	mesh, err := p.mesh()
	if err != nil {
		return nil, err
	}
	m := NewModel(name, OriginPrimitive, mesh)
	m.Shape = p.hint()
	if err := s.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddMesh wraps an existing mesh as a model and adds it to the scene.
func (s *Scene) AddMesh(name string, mesh *csg.Mesh) (*Model, error) {
	if mesh == nil {
		return nil, errors.New("nil mesh")
	}
	m := NewModel(name, OriginImported, mesh)
	if err := s.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ImportSTL loads an STL file, repairs it and adds it as a model named
// after the file.
func (s *Scene) ImportSTL(path string) (*Model, error) {
	mesh, err := render.LoadSTL(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := NewModel(name, OriginImported, csg.Repair(mesh))
	if err := s.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddText extrudes text with the TTF font at fontPath and adds it as a
// model named after the text.
func (s *Scene) AddText(fontPath, text string, em, depth float64) (*Model, error) {
	mesh, err := form3.Text(fontPath, text, em, depth)
	if err != nil {
		return nil, err
	}
	m := NewModel(text, OriginText, mesh)
	if err := s.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddSVG extrudes each closed contour by depth and merges the prisms into
// one model. Contours are combined additively; holes are not subtracted.
func (s *Scene) AddSVG(name string, contours [][]r2.Vec, depth float64) (*Model, error) {
	if len(contours) == 0 {
		return nil, errors.New("no contours")
	}
	var mesh *csg.Mesh
	for _, contour := range contours {
		prism, err := form3.ExtrudePolygon(contour, depth)
		if err != nil {
			return nil, err
		}
		if mesh == nil {
			mesh = prism
			continue
		}
		mesh, err = csg.Union(mesh, prism)
		if err != nil {
			return nil, err
		}
	}
	m := NewModel(name, OriginSVG, mesh)
	if err := s.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Duplicate copies a model in place. The copy shares the immutable mesh
// and gets a fresh id.
func (s *Scene) Duplicate(id uuid.UUID) (*Model, error) {
	src, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	cp := *src
	cp.ID = uuid.New()
	cp.Name = src.Name + " copy"
	s.models = append(s.models, &cp)
	s.selection = []uuid.UUID{cp.ID}
	s.commit("duplicate " + src.Name)
	return &cp, nil
}

// Rename sets a model's display name.
func (s *Scene) Rename(id uuid.UUID, name string) error {
	if name == "" {
		return errors.New("empty model name")
	}
	m, err := s.Get(id)
	if err != nil {
		return err
	}
	m.Name = name
	s.commit("rename to " + name)
	return nil
}

// SetMaterial replaces a model's material.
func (s *Scene) SetMaterial(id uuid.UUID, mat Material) error {
	if mat == nil {
		return errors.New("nil material")
	}
	if op := opacity(mat); math.IsNaN(op) || op < 0 || op > 1 {
		return fmt.Errorf("opacity %v outside [0, 1]", op)
	}
	m, err := s.Get(id)
	if err != nil {
		return err
	}
	m.Material = mat
	s.commit("material " + materialName(mat))
	return nil
}

// SetTransform replaces a model's transform. Callers debouncing slider
// input should call this once per settled value, since every call commits
// an undo snapshot.
func (s *Scene) SetTransform(id uuid.UUID, tf Transform) error {
	if err := tf.validate(); err != nil {
		return err
	}
	m, err := s.Get(id)
	if err != nil {
		return err
	}
	m.Transform = tf
	s.commit("transform " + m.Name)
	return nil
}

// ResetTransform restores the transform the model was created with.
func (s *Scene) ResetTransform(id uuid.UUID) error {
	m, err := s.Get(id)
	if err != nil {
		return err
	}
	m.Transform = m.original
	s.commit("reset transform " + m.Name)
	return nil
}

// ApplyBoolean runs op on two models' world space meshes and, on success,
// atomically replaces both with the single result model. The result takes
// operand A's color at near full opacity. On error the model list and
// selection are untouched, so the operands stay selected for another try.
func (s *Scene) ApplyBoolean(ctx context.Context, primaryID, secondaryID uuid.UUID, op csg.Op) (*Model, error) {
	if primaryID == secondaryID {
		return nil, errors.New("boolean operands must be distinct models")
	}
	a, err := s.Get(primaryID)
	if err != nil {
		return nil, err
	}
	b, err := s.Get(secondaryID)
	if err != nil {
		return nil, err
	}
	opt := csg.OpOptions{HintA: a.Shape, HintB: b.Shape, Logf: s.Logf}
	var result *csg.Mesh
	if s.Pool != nil {
		result, err = s.Pool.OperateOpts(ctx, a.WorldMesh(), b.WorldMesh(), op, opt)
	} else {
		if err = ctx.Err(); err == nil {
			result, err = csg.OperateOpts(a.WorldMesh(), b.WorldMesh(), op, opt)
		}
	}
	if err != nil {
		return nil, err
	}
	if !csg.Usable(result) {
		return nil, fmt.Errorf("%s produced an unusable mesh", op)
	}
	res := NewModel(fmt.Sprintf("%s(%s, %s)", op, a.Name, b.Name), OriginBoolean, result)
	res.Material = resultMaterial(a.Material)
	out := make([]*Model, 0, len(s.models)-1)
	for _, m := range s.models {
		switch m.ID {
		case a.ID:
			out = append(out, res)
		case b.ID:
		default:
			out = append(out, m)
		}
	}
	s.models = out
	s.selection = []uuid.UUID{res.ID}
	s.commit("boolean " + op.String())
	return res, nil
}

// Undo steps the scene back one committed mutation. It reports whether a
// step was taken.
func (s *Scene) Undo() bool {
	if !s.hist.canUndo() {
		return false
	}
	undone := s.hist.recs[s.hist.idx].action
	rec, _ := s.hist.undo()
	s.restore(rec)
	s.logf("undo %s", undone)
	return true
}

// Redo steps the scene forward one undone mutation. It reports whether a
// step was taken.
func (s *Scene) Redo() bool {
	rec, ok := s.hist.redo()
	if !ok {
		return false
	}
	s.restore(rec)
	s.logf("redo %s", rec.action)
	return true
}

// CanUndo reports whether Undo would take a step.
func (s *Scene) CanUndo() bool { return s.hist.canUndo() }

// CanRedo reports whether Redo would take a step.
func (s *Scene) CanRedo() bool { return s.hist.canRedo() }

// ExportSTL merges the world space meshes of the given models (all models
// when none are named) and writes them to a binary STL file.
func (s *Scene) ExportSTL(path string, ids ...uuid.UUID) error {
	targets := s.models
	if len(ids) > 0 {
		targets = make([]*Model, len(ids))
		for i, id := range ids {
			m, err := s.Get(id)
			if err != nil {
				return err
			}
			targets[i] = m
		}
	}
	var tris []r3.Triangle
	for _, m := range targets {
		tris = append(tris, m.WorldMesh().Triangles()...)
	}
	if len(tris) == 0 {
		return errors.New("no triangles to export")
	}
	return render.SaveSTL(path, csg.MeshFromTriangles(tris, exportWeldTol))
}
