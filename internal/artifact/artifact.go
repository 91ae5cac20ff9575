// Package artifact persists conversion outputs as binary PLY files.
package artifact

import (
	"fmt"
	"os"

	"github.com/EliCDavis/polyform/formats/ply"
	"github.com/EliCDavis/polyform/modeling"
	"github.com/EliCDavis/vector/vector3"

	"bimcloud/internal/geom"
)

// WriteMesh writes the combined colored mesh to path.
func WriteMesh(path string, m *geom.Mesh) error {
	tris := make([]int, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		tris = append(tris, f[0], f[1], f[2])
	}

	v3Data := map[string][]vector3.Float64{
		modeling.PositionAttribute: m.Vertices,
	}
	if len(m.Normals) == len(m.Vertices) && len(m.Normals) > 0 {
		v3Data[modeling.NormalAttribute] = m.Normals
	}
	if len(m.Colors) == len(m.Vertices) && len(m.Colors) > 0 {
		v3Data[modeling.ColorAttribute] = m.Colors
	}

	mesh := modeling.NewMesh(tris).SetFloat3Data(v3Data)
	return writePLY(path, mesh)
}

// WritePointCloud writes the sampled points to path.
func WritePointCloud(path string, points []vector3.Float64) error {
	pc := modeling.NewPointCloud(
		map[string][]vector3.Float64{
			modeling.PositionAttribute: points,
		},
		nil,
		nil,
		nil,
	)
	return writePLY(path, pc)
}

func writePLY(path string, mesh modeling.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("artifact: create %s: %w", path, err)
	}
	defer f.Close()

	if err := ply.WriteBinary(f, mesh); err != nil {
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return nil
}
