package pipeline

import (
	"bimcloud/internal/model"
)

// ProcessBatch extracts geometry for every element of one batch. It is a
// pure function of the batch: it opens its own store handle from a cold
// start and shares no state with other workers or the orchestrator.
//
// Failure policy: a per-element failure (missing element, no representation,
// excluded type, extraction error, empty buffers) skips that element
// silently; a whole-batch failure (store unopenable) yields an empty mesh
// list for the batch id. Neither aborts the run.
func ProcessBatch(b Batch, open model.OpenFunc) BatchResult {
	store, err := open(b.Path)
	if err != nil {
		return BatchResult{BatchID: b.ID}
	}
	defer store.Close()

	var meshes []ExtractedMesh
	for _, id := range b.ElementIDs {
		el, ok := store.Element(id)
		if !ok || !el.HasRepresentation {
			continue
		}
		if _, excluded := b.Exclude[el.Type]; excluded {
			continue
		}

		g, err := store.Extract(id)
		if err != nil {
			continue
		}
		if len(g.Vertices) == 0 || len(g.Faces) == 0 {
			continue
		}
		meshes = append(meshes, ExtractedMesh{
			Vertices: g.Vertices,
			Faces:    g.Faces,
			Type:     el.Type,
		})
	}
	return BatchResult{BatchID: b.ID, Meshes: meshes}
}
