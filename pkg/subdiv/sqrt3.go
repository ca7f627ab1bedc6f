package subdiv

import (
	"math"

	"github.com/chazu/vvmesh/pkg/mesh"
)

// Sqrt3 inserts a vertex at the centroid of every triangle and then flips
// every original edge, so that it joins the two centroids beside it. If move
// is set, the original vertices are pulled toward the average of their
// neighbors by w = (4 - 2cos(2pi/n))/9. The mesh must consist of triangles.
func Sqrt3(m *mesh.Mesh, steps int, move bool) *mesh.Mesh {
	return repeat(m, steps, func(orig *mesh.Mesh) *mesh.Mesh {
		return sqrt3Step(orig, move)
	})
}

func sqrt3Step(orig *mesh.Mesh, move bool) *mesh.Mesh {
	next := orig.Clone()

	orig.Faces(func(face []int) {
		if len(face) != 3 {
			return
		}
		n0, n1, n2 := face[0], face[1], face[2]
		f := next.AddVertex(orig.Average(face), n0, n1, n2)
		next.Splice(f, n1, n0, true)
		next.Splice(f, n2, n1, true)
		next.Splice(f, n0, n2, true)
	})

	if move {
		for v, vn := range orig.Neighbors {
			n := float64(len(vn))
			if n == 0 {
				continue
			}
			w := (4 - 2*math.Cos(2*math.Pi/n)) / 9
			next.Vertices[v] = lerp(orig.Vertices[v], orig.Average(vn), w)
		}
	}

	// Flip. Around a in the neighborhood of b sit the centroids of the two
	// triangles sharing a-b; they become neighbors and a-b goes away.
	orig.Edges(func(a, b int) {
		ni := next.NextTo(a, b)
		pi := next.PrevTo(a, b)
		if ni == mesh.NotFound || pi == mesh.NotFound {
			return
		}
		next.Splice(ni, a, pi, true)
		next.Splice(pi, b, ni, true)
		next.Separate(a, b)
	})

	return next
}
