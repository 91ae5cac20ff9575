package pipeline

import (
	"github.com/EliCDavis/vector/vector3"
	"github.com/rs/zerolog"

	"bimcloud/internal/geom"
)

// TypeSummary describes one per-type mesh group after aggregation.
type TypeSummary struct {
	Type   string
	Meshes int
	Color  vector3.Float64
}

// Aggregate unions each type group into one mesh, computes its normals and
// paints it with the palette color for its position in iteration order, then
// unions everything into the combined mesh used for sampling and export.
// Runs single-threaded after the drain loop has finished.
func Aggregate(mt *MeshesByType, logger zerolog.Logger) (*geom.Mesh, []TypeSummary) {
	combined := &geom.Mesh{}
	var summaries []TypeSummary

	for i, typeTag := range mt.Types() {
		group := mt.Meshes(typeTag)

		typeMesh := &geom.Mesh{}
		for _, em := range group {
			typeMesh.Append(&geom.Mesh{Vertices: em.Vertices, Faces: em.Faces})
		}
		typeMesh.ComputeVertexNormals()

		color := geom.PaletteColor(i)
		typeMesh.PaintUniformColor(color)
		combined.Append(typeMesh)

		logger.Info().
			Str("type", typeTag).
			Int("elements", len(group)).
			Floats64("color", []float64{color.X(), color.Y(), color.Z()}).
			Msg("Type group aggregated")

		summaries = append(summaries, TypeSummary{
			Type:   typeTag,
			Meshes: len(group),
			Color:  color,
		})
	}

	return combined, summaries
}
