package geom

import "github.com/EliCDavis/vector/vector3"

// palette is the fixed catalog of distinct type colors. Indexing wraps when
// a model has more element types than catalog entries.
var palette = []vector3.Float64{
	vector3.New(1.0, 0, 0),     // red
	vector3.New(0.0, 1, 0),     // green
	vector3.New(0.0, 0, 1),     // blue
	vector3.New(1.0, 1, 0),     // yellow
	vector3.New(1.0, 0, 1),     // magenta
	vector3.New(0.0, 1, 1),     // cyan
	vector3.New(0.5, 0, 0),     // dark red
	vector3.New(0.0, 0.5, 0),   // dark green
	vector3.New(0.0, 0, 0.5),   // dark blue
	vector3.New(0.5, 0.5, 0),   // olive
	vector3.New(0.5, 0, 0.5),   // purple
	vector3.New(0.0, 0.5, 0.5), // teal
	vector3.New(1.0, 0.5, 0),   // orange
	vector3.New(0.5, 1, 0),     // light green
	vector3.New(0.0, 0.5, 1),   // light blue
}

// PaletteColor returns the catalog color for the i-th type in iteration
// order, wrapping modulo the catalog size.
func PaletteColor(i int) vector3.Float64 {
	return palette[i%len(palette)]
}

// PaletteSize returns the number of distinct catalog colors.
func PaletteSize() int {
	return len(palette)
}
