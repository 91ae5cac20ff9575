package pipeline

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimcloud/internal/geom"
)

func TestAggregate(t *testing.T) {
	mt := NewMeshesByType()
	tri := unitTriangle(0)
	mt.Add(ExtractedMesh{Type: "Wall", Vertices: tri.Vertices, Faces: tri.Faces})
	tri2 := unitTriangle(2)
	mt.Add(ExtractedMesh{Type: "Wall", Vertices: tri2.Vertices, Faces: tri2.Faces})
	tri3 := unitTriangle(4)
	mt.Add(ExtractedMesh{Type: "Door", Vertices: tri3.Vertices, Faces: tri3.Faces})

	combined, summaries := Aggregate(mt, zerolog.Nop())

	assert.Equal(t, 9, combined.VertexCount())
	assert.Equal(t, 3, combined.TriangleCount())
	assert.Len(t, combined.Normals, 9)
	assert.Len(t, combined.Colors, 9)

	require.Len(t, summaries, 2)
	assert.Equal(t, "Wall", summaries[0].Type)
	assert.Equal(t, 2, summaries[0].Meshes)
	assert.Equal(t, geom.PaletteColor(0), summaries[0].Color)
	assert.Equal(t, "Door", summaries[1].Type)
	assert.Equal(t, 1, summaries[1].Meshes)
	assert.Equal(t, geom.PaletteColor(1), summaries[1].Color)

	// Each type group is painted with its own palette color.
	assert.NotEqual(t, combined.Colors[0], combined.Colors[8])
	assert.Equal(t, combined.Colors[0], combined.Colors[5])
}

func TestAggregateEmpty(t *testing.T) {
	combined, summaries := Aggregate(NewMeshesByType(), zerolog.Nop())

	assert.True(t, combined.Empty())
	assert.Empty(t, summaries)
}
