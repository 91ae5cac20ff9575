// Package geom holds the triangle-mesh math the converter needs: union by
// concatenation, vertex normals, palette coloring and uniform surface
// sampling. Vectors are EliCDavis/vector float64 triples throughout.
package geom

import (
	"math"

	"github.com/EliCDavis/vector/vector3"
)

// Mesh is an indexed triangle mesh. Normals and Colors are per-vertex and
// optional; when present they have the same length as Vertices.
type Mesh struct {
	Vertices []vector3.Float64
	Faces    [][3]int
	Normals  []vector3.Float64
	Colors   []vector3.Float64
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

func (m *Mesh) Empty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Append unions other into m by concatenating buffers and offsetting face
// indices. Both meshes must carry the same attribute set: the pipeline only
// unions raw meshes with raw meshes and colored meshes with colored meshes.
func (m *Mesh) Append(other *Mesh) {
	offset := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		m.Faces = append(m.Faces, [3]int{f[0] + offset, f[1] + offset, f[2] + offset})
	}
	if other.Normals != nil {
		m.Normals = append(m.Normals, other.Normals...)
	}
	if other.Colors != nil {
		m.Colors = append(m.Colors, other.Colors...)
	}
}

// PaintUniformColor assigns the same color to every vertex.
func (m *Mesh) PaintUniformColor(c vector3.Float64) {
	m.Colors = make([]vector3.Float64, len(m.Vertices))
	for i := range m.Colors {
		m.Colors[i] = c
	}
}

// ComputeVertexNormals accumulates area-weighted face normals per vertex and
// normalizes the result. Degenerate faces contribute nothing.
func (m *Mesh) ComputeVertexNormals() {
	normals := make([]vector3.Float64, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		// Cross product length is twice the face area, so summing the raw
		// cross products weights each face by its area.
		n := b.Sub(a).Cross(c.Sub(a))
		normals[f[0]] = normals[f[0]].Add(n)
		normals[f[1]] = normals[f[1]].Add(n)
		normals[f[2]] = normals[f[2]].Add(n)
	}
	for i, n := range normals {
		if l := n.Length(); l > 0 {
			normals[i] = n.DivByConstant(l)
		}
	}
	m.Normals = normals
}

// TriangleArea returns the surface area of face i.
func (m *Mesh) TriangleArea(i int) float64 {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}

// SurfaceArea returns the total surface area across all faces.
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.Faces {
		total += m.TriangleArea(i)
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the mesh vertices.
func (m *Mesh) Bounds() (min, max vector3.Float64) {
	if len(m.Vertices) == 0 {
		return vector3.New(0.0, 0, 0), vector3.New(0.0, 0, 0)
	}
	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for _, v := range m.Vertices {
		minX = math.Min(minX, v.X())
		minY = math.Min(minY, v.Y())
		minZ = math.Min(minZ, v.Z())
		maxX = math.Max(maxX, v.X())
		maxY = math.Max(maxY, v.Y())
		maxZ = math.Max(maxZ, v.Z())
	}
	return vector3.New(minX, minY, minZ), vector3.New(maxX, maxY, maxZ)
}
