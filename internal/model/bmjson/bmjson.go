// Package bmjson reads building models from a JSON export: a flat list of
// elements, each with an id, a type tag and an optional mesh in local
// coordinates plus a row-major 4x4 transform to world space.
package bmjson

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/EliCDavis/vector/vector3"

	"bimcloud/internal/model"
)

type fileMesh struct {
	Vertices  [][3]float64 `json:"vertices"`
	Faces     [][3]int     `json:"faces"`
	Transform []float64    `json:"transform,omitempty"`
}

type fileElement struct {
	ID   int64     `json:"id"`
	Type string    `json:"type"`
	Mesh *fileMesh `json:"mesh,omitempty"`
}

type fileModel struct {
	Name     string        `json:"name,omitempty"`
	Elements []fileElement `json:"elements"`
}

// Store is a fully parsed in-memory model file.
type Store struct {
	path     string
	elements []model.Element
	byID     map[int64]*fileElement
}

// Open parses the model file at path. The whole file is read up front;
// extraction afterwards is pure in-memory work.
func Open(path string) (model.Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmjson: read %s: %w", path, err)
	}

	var fm fileModel
	if err := json.Unmarshal(raw, &fm); err != nil {
		return nil, fmt.Errorf("bmjson: parse %s: %w", path, err)
	}

	slf := &Store{
		path: path,
		byID: make(map[int64]*fileElement, len(fm.Elements)),
	}
	for i := range fm.Elements {
		el := &fm.Elements[i]
		if _, dup := slf.byID[el.ID]; dup {
			return nil, fmt.Errorf("bmjson: duplicate element id %d in %s", el.ID, path)
		}
		slf.byID[el.ID] = el
		slf.elements = append(slf.elements, model.Element{
			ID:                el.ID,
			Type:              el.Type,
			HasRepresentation: el.Mesh != nil,
		})
	}
	return slf, nil
}

func (slf *Store) Path() string {
	return slf.path
}

func (slf *Store) Elements() []model.Element {
	out := make([]model.Element, len(slf.elements))
	copy(out, slf.elements)
	return out
}

func (slf *Store) Element(id int64) (model.Element, bool) {
	el, ok := slf.byID[id]
	if !ok {
		return model.Element{}, false
	}
	return model.Element{ID: el.ID, Type: el.Type, HasRepresentation: el.Mesh != nil}, true
}

// Extract validates the element's buffers and applies its transform,
// producing world-space geometry.
func (slf *Store) Extract(id int64) (model.Geometry, error) {
	el, ok := slf.byID[id]
	if !ok {
		return model.Geometry{}, fmt.Errorf("element %d: %w", id, model.ErrNotFound)
	}
	if el.Mesh == nil {
		return model.Geometry{}, fmt.Errorf("element %d: %w", id, model.ErrNoRepresentation)
	}

	m := el.Mesh
	if m.Transform != nil && len(m.Transform) != 16 {
		return model.Geometry{}, fmt.Errorf("element %d: transform has %d entries, want 16", id, len(m.Transform))
	}
	for _, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return model.Geometry{}, fmt.Errorf("element %d: face index %d out of range (%d vertices)", id, idx, len(m.Vertices))
			}
		}
	}

	verts := make([]vector3.Float64, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = applyTransform(m.Transform, v[0], v[1], v[2])
	}
	faces := make([][3]int, len(m.Faces))
	copy(faces, m.Faces)

	return model.Geometry{Vertices: verts, Faces: faces}, nil
}

func (slf *Store) Close() error {
	return nil
}

// applyTransform applies a row-major 4x4 affine transform. A nil transform
// means the mesh is already in world coordinates.
func applyTransform(t []float64, x, y, z float64) vector3.Float64 {
	if t == nil {
		return vector3.New(x, y, z)
	}
	return vector3.New(
		t[0]*x+t[1]*y+t[2]*z+t[3],
		t[4]*x+t[5]*y+t[6]*z+t[7],
		t[8]*x+t[9]*y+t[10]*z+t[11],
	)
}
