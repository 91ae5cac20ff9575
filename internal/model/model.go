// Package model defines the contract between the extraction pipeline and a
// building-model backend. The pipeline never parses model files itself; it
// enumerates elements and asks the store for world-space geometry one element
// at a time.
package model

import (
	"errors"

	"github.com/EliCDavis/vector/vector3"
)

var (
	// ErrNotFound is returned when an element id does not exist in the store.
	ErrNotFound = errors.New("model: element not found")

	// ErrNoRepresentation is returned when an element exists but carries no
	// geometric representation.
	ErrNoRepresentation = errors.New("model: element has no representation")
)

// Element is a discrete entity of the source model (wall, door, ...).
// Source data is immutable; the pipeline never writes back.
type Element struct {
	ID                int64
	Type              string
	HasRepresentation bool
}

// Geometry holds world-space triangle buffers for a single element.
// Every face references valid indices into Vertices.
type Geometry struct {
	Vertices []vector3.Float64
	Faces    [][3]int
}

// Store is one open handle to a model file. Handles are cheap enough to
// reopen per worker; implementations need not be safe for concurrent use.
type Store interface {
	// Path returns the source file path this store was opened from.
	Path() string

	// Elements returns all elements in file enumeration order.
	Elements() []Element

	// Element looks up a single element by id.
	Element(id int64) (Element, bool)

	// Extract evaluates the element's representation into world-space
	// vertex and face buffers. Fails per element, never per store.
	Extract(id int64) (Geometry, error)

	Close() error
}

// OpenFunc opens a store for a model file path. Each batch worker calls it
// independently so that no handle is ever shared across workers.
type OpenFunc func(path string) (Store, error)

// CandidateIDs returns the ids of all elements carrying a representation,
// in file enumeration order.
func CandidateIDs(s Store) []int64 {
	var ids []int64
	for _, el := range s.Elements() {
		if el.HasRepresentation {
			ids = append(ids, el.ID)
		}
	}
	return ids
}
