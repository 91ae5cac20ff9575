package geom

import (
	"testing"

	"github.com/EliCDavis/vector/vector3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *Mesh {
	return &Mesh{
		Vertices: []vector3.Float64{
			vector3.New(0.0, 0, 0),
			vector3.New(1.0, 0, 0),
			vector3.New(1.0, 1, 0),
			vector3.New(0.0, 1, 0),
		},
		Faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestAppendOffsetsFaceIndices(t *testing.T) {
	m := quad()
	m.Append(quad())

	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 4, m.TriangleCount())
	assert.Equal(t, [3]int{4, 5, 6}, m.Faces[2])
	assert.Equal(t, [3]int{4, 6, 7}, m.Faces[3])
}

func TestAppendIntoEmptyMesh(t *testing.T) {
	m := &Mesh{}
	m.Append(quad())

	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, [3]int{0, 1, 2}, m.Faces[0])
}

func TestComputeVertexNormals(t *testing.T) {
	m := quad()
	m.ComputeVertexNormals()

	require.Len(t, m.Normals, 4)
	for _, n := range m.Normals {
		// Planar quad in the xy plane, normals all point along +z.
		assert.InDelta(t, 0, n.X(), 1e-9)
		assert.InDelta(t, 0, n.Y(), 1e-9)
		assert.InDelta(t, 1, n.Z(), 1e-9)
	}
}

func TestComputeVertexNormalsDegenerateFace(t *testing.T) {
	m := &Mesh{
		Vertices: []vector3.Float64{
			vector3.New(0.0, 0, 0),
			vector3.New(0.0, 0, 0),
			vector3.New(0.0, 0, 0),
		},
		Faces: [][3]int{{0, 1, 2}},
	}
	m.ComputeVertexNormals()

	require.Len(t, m.Normals, 3)
	assert.Zero(t, m.Normals[0].Length())
}

func TestPaintUniformColor(t *testing.T) {
	m := quad()
	c := vector3.New(0.5, 0.25, 0.75)
	m.PaintUniformColor(c)

	require.Len(t, m.Colors, 4)
	for _, got := range m.Colors {
		assert.Equal(t, c, got)
	}
}

func TestSurfaceArea(t *testing.T) {
	assert.InDelta(t, 1.0, quad().SurfaceArea(), 1e-9)
}

func TestBounds(t *testing.T) {
	m := quad()
	m.Vertices = append(m.Vertices, vector3.New(-2.0, 3, -1))

	lo, hi := m.Bounds()
	assert.Equal(t, vector3.New(-2.0, 0, -1), lo)
	assert.Equal(t, vector3.New(1.0, 3, 0), hi)
}

func TestPaletteColorWrapsAround(t *testing.T) {
	assert.Equal(t, PaletteColor(0), PaletteColor(PaletteSize()))
	assert.Equal(t, PaletteColor(3), PaletteColor(PaletteSize()+3))
	assert.NotEqual(t, PaletteColor(0), PaletteColor(1))
}
