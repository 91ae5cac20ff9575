package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"bimcloud/internal/model"
)

// TakeCensus counts elements with a geometric representation per type tag.
// It opens its own store handle, independent of the extraction pipeline, so
// the census stays a side, inspectable step.
func TakeCensus(path string, open model.OpenFunc) (map[string]int, error) {
	store, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("census: %w", err)
	}
	defer store.Close()

	counts := make(map[string]int)
	for _, el := range store.Elements() {
		if el.HasRepresentation {
			counts[el.Type]++
		}
	}
	return counts, nil
}

// PrintCensus writes the census as an aligned table, alphabetically sorted
// by type tag, followed by totals.
func PrintCensus(w io.Writer, path string, counts map[string]int) {
	types := make([]string, 0, len(counts))
	total := 0
	for t, n := range counts {
		types = append(types, t)
		total += n
	}
	sort.Strings(types)

	rule := strings.Repeat("-", 50)
	fmt.Fprintf(w, "\nElement types in %s:\n", filepath.Base(path))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-30s | %-10s\n", "Element Type", "Count")
	fmt.Fprintln(w, rule)
	for _, t := range types {
		fmt.Fprintf(w, "%-30s | %-10d\n", t, counts[t])
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total element types: %d\n", len(types))
	fmt.Fprintf(w, "Total elements with geometry: %d\n", total)
}
