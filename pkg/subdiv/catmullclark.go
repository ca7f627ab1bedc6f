package subdiv

import (
	"github.com/chazu/vvmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// CatmullClark refines a quad mesh: one point per edge, one per face, and
// every original vertex moved by beta = 3/(2n) toward the average of its
// neighbors and gamma = 1/(4n) toward the average of its diagonal corners.
// The mesh must consist of quads.
func CatmullClark(m *mesh.Mesh, steps int) *mesh.Mesh {
	return repeat(m, steps, catmullClarkStep)
}

func catmullClarkStep(orig *mesh.Mesh) *mesh.Mesh {
	x := orig.Vertices
	next := orig.Clone()
	first := next.NumVertices()

	// Edge points.
	orig.Edges(func(v, p int) {
		e := x[v].Add(x[p]).MulScalar(0.375)
		opposite := x[orig.NextTo(p, v)].
			Add(x[orig.PrevTo(p, v)]).
			Add(x[orig.NextTo(v, p)]).
			Add(x[orig.PrevTo(v, p)])
		next.Insert(v, p, e.Add(opposite.MulScalar(0.0625)))
	})

	// Vertex points.
	for v, vn := range orig.Neighbors {
		if len(vn) == 0 {
			continue
		}
		n := float64(len(vn))
		beta := 3 / (2 * n)
		gamma := 1 / (4 * n)

		var diagonal v3.Vec
		for _, p := range vn {
			diagonal = diagonal.Add(x[orig.NextTo(v, p)])
		}
		diagonal = diagonal.DivScalar(n)

		next.Vertices[v] = x[v].MulScalar(1 - beta - gamma).
			Add(orig.Average(vn).MulScalar(beta)).
			Add(diagonal.MulScalar(gamma))
	}

	// Face points. With every edge split, each quad [c0, c1, c2, c3] walks as
	// the octagon [c0, e0, c1, e1, c2, e2, c3, e3]; it is seen once from every
	// corner and handled from the smallest one.
	split := next.Clone()
	var poly []int
	for v := range first {
		for _, e := range split.Neighbors[v] {
			poly = split.Orbit(v, e, poly)
			if len(poly) != 8 || poly[0] > poly[2] || poly[0] > poly[4] || poly[0] > poly[6] {
				continue
			}

			corners := []int{poly[0], poly[2], poly[4], poly[6]}
			f := next.AddVertex(orig.Average(corners), poly[1], poly[3], poly[5], poly[7])

			// Edge point e_i lies on c_i -> c_i+1; the new quad
			// [c_i+1, e_i+1, f, e_i] puts f right after c_i+1 around e_i.
			for i := range 4 {
				next.Splice(f, corners[(i+1)%4], poly[2*i+1], true)
			}
		}
	}

	return next
}
