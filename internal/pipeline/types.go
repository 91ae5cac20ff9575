// Package pipeline implements the batch-parallel geometry extraction run:
// partitioning candidate element ids, fanning batches out to isolated
// workers, draining results in completion order and aggregating the meshes
// by element type before sampling.
package pipeline

import (
	"time"

	"github.com/EliCDavis/vector/vector3"
)

// ExtractedMesh is one element's world-space geometry plus its type tag.
// Ownership transfers to the orchestrator when the batch result is merged.
type ExtractedMesh struct {
	Vertices []vector3.Float64
	Faces    [][3]int
	Type     string
}

// Batch is a contiguous slice of candidate element ids processed by one
// worker invocation. Every field is a private copy; batches share nothing
// with each other or with the orchestrator.
type Batch struct {
	ID         int
	ElementIDs []int64
	Path       string
	Exclude    map[string]struct{}
}

// BatchResult carries a worker's extracted meshes back to the drain loop.
// An empty mesh list is a valid result, not an error.
type BatchResult struct {
	BatchID int
	Meshes  []ExtractedMesh
}

// MeshesByType groups extracted meshes by type tag, preserving first-seen
// insertion order across completed batches. Owned exclusively by the
// orchestrator's drain loop; it grows monotonically and never shrinks.
type MeshesByType struct {
	order  []string
	groups map[string][]ExtractedMesh
}

func NewMeshesByType() *MeshesByType {
	return &MeshesByType{groups: make(map[string][]ExtractedMesh)}
}

// Add appends a mesh to its type group, creating the group on first sight.
func (mt *MeshesByType) Add(em ExtractedMesh) {
	if _, ok := mt.groups[em.Type]; !ok {
		mt.order = append(mt.order, em.Type)
	}
	mt.groups[em.Type] = append(mt.groups[em.Type], em)
}

// Types returns the type tags in first-seen order.
func (mt *MeshesByType) Types() []string {
	out := make([]string, len(mt.order))
	copy(out, mt.order)
	return out
}

// Meshes returns the group for a type tag.
func (mt *MeshesByType) Meshes(typeTag string) []ExtractedMesh {
	return mt.groups[typeTag]
}

// Len returns the total number of meshes across all groups.
func (mt *MeshesByType) Len() int {
	total := 0
	for _, g := range mt.groups {
		total += len(g)
	}
	return total
}

// Status mirrors the run lifecycle in progress events.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Progress is emitted after every completed batch and once at the end of the
// run.
type Progress struct {
	RunID             string        `json:"runId"`
	Status            Status        `json:"status"`
	BatchID           int           `json:"batchId"`
	BatchesDone       int           `json:"batchesDone"`
	BatchesTotal      int           `json:"batchesTotal"`
	ElementsProcessed int           `json:"elementsProcessed"`
	ElementsTotal     int           `json:"elementsTotal"`
	Elapsed           time.Duration `json:"elapsed"`
}

// ProgressFunc receives progress updates. Implementations must not block the
// drain loop.
type ProgressFunc func(Progress)

// MultiProgress fans one progress event out to several sinks. Nil entries are
// skipped; with no usable sinks it returns nil so callers can test for "no
// progress consumer" directly.
func MultiProgress(fns ...ProgressFunc) ProgressFunc {
	active := make([]ProgressFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			active = append(active, fn)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(p Progress) {
		for _, fn := range active {
			fn(p)
		}
	}
}
