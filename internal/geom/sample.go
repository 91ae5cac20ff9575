package geom

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/EliCDavis/vector/vector3"
)

// ErrNoSurface is returned when a mesh has no faces with positive area to
// sample from.
var ErrNoSurface = errors.New("geom: mesh has no surface area")

// SampleSurfaceUniform draws exactly n points uniformly distributed over the
// mesh surface: the probability of a sample landing on a triangle is
// proportional to that triangle's area. Points are independent of vertex
// topology.
func SampleSurfaceUniform(m *Mesh, n int, rng *rand.Rand) ([]vector3.Float64, error) {
	if n <= 0 {
		return nil, nil
	}

	// Cumulative area table for area-proportional triangle selection.
	cumulative := make([]float64, len(m.Faces))
	total := 0.0
	for i := range m.Faces {
		total += m.TriangleArea(i)
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, ErrNoSurface
	}

	points := make([]vector3.Float64, n)
	for i := 0; i < n; i++ {
		target := rng.Float64() * total
		fi := sort.SearchFloat64s(cumulative, target)
		if fi >= len(m.Faces) {
			fi = len(m.Faces) - 1
		}
		points[i] = samplePointInTriangle(m, fi, rng)
	}
	return points, nil
}

// samplePointInTriangle picks a uniform point inside face fi using the
// square-root barycentric trick.
func samplePointInTriangle(m *Mesh, fi int, rng *rand.Rand) vector3.Float64 {
	f := m.Faces[fi]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]

	r1 := math.Sqrt(rng.Float64())
	r2 := rng.Float64()
	u := 1 - r1
	v := r1 * (1 - r2)
	w := r1 * r2

	return a.Scale(u).
		Add(b.Scale(v)).
		Add(c.Scale(w))
}
