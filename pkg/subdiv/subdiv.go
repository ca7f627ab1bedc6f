// Package subdiv implements refinement schemes over vertex-vertex meshes.
//
// Every scheme takes a mesh and a step count and returns the refined mesh.
// Each step reads from a frozen snapshot of the previous generation and
// writes into a separate next generation, so the input mesh is never
// modified. A step count of zero or less returns a copy of the input.
//
// Interpolating schemes (Polyhedral, Butterfly) keep original positions and
// split every edge. Approximating schemes (Loop, Sqrt3, CatmullClark) also
// move the original vertices. DooSabin cuts corners and replaces every
// original vertex with one vertex per incident face.
package subdiv

import (
	"math"

	"github.com/chazu/vvmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// repeat applies step to m steps times, starting from a copy of m.
func repeat(m *mesh.Mesh, steps int, step func(orig *mesh.Mesh) *mesh.Mesh) *mesh.Mesh {
	cur := m.Clone()
	for range steps {
		cur = step(cur)
	}
	return cur
}

// lerp returns a + (b - a) * t.
func lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// splitEdges inserts one vertex per undirected edge of orig, positioned by
// point, and rewires the new vertices into a triangulated ring. orig is
// read-only; the result is a new generation.
func splitEdges(orig *mesh.Mesh, point func(a, b int) v3.Vec) *mesh.Mesh {
	next := orig.Clone()
	first := next.NumVertices()

	orig.Edges(func(a, b int) {
		next.Insert(a, b, point(a, b))
	})

	reassign(next, first)
	return next
}

// reassign rebuilds the neighborhood of every edge point from first onward.
// An edge point i inserted between a and b starts out as [a, b]. Once every
// edge is split, the neighborhoods of a and b hold edge points only, and the
// ones adjacent to i there are the edge points of the two triangles sharing
// the original edge:
//
//	[a, prev(i, a), next(i, b), b, prev(i, b), next(i, a)]
//
// Only neighborhoods of new vertices are rewritten, and the lookups only
// read original vertices, so the pass can run in place.
func reassign(m *mesh.Mesh, first int) {
	for i := first; i < m.NumVertices(); i++ {
		vn := m.Neighbors[i]
		if len(vn) != 2 {
			continue
		}
		a, b := vn[0], vn[1]
		m.Neighbors[i] = []int{
			a,
			m.PrevTo(i, a),
			m.NextTo(i, b),
			b,
			m.PrevTo(i, b),
			m.NextTo(i, a),
		}
	}
}

// --- Polyhedral ---

// Polyhedral splits every edge at its midpoint. If scale is not zero the
// midpoint is normalized and multiplied by scale, which refines a sphere of
// radius scale centred at the origin.
func Polyhedral(m *mesh.Mesh, steps int, scale float64) *mesh.Mesh {
	return repeat(m, steps, func(orig *mesh.Mesh) *mesh.Mesh {
		return splitEdges(orig, func(a, b int) v3.Vec {
			x := orig.Vertices[a].Add(orig.Vertices[b]).MulScalar(0.5)
			if scale != 0 {
				x = x.Normalize().MulScalar(scale)
			}
			return x
		})
	})
}

// --- Butterfly ---

// Butterfly splits every edge with the eight-point butterfly stencil. The
// mesh must be a closed triangle mesh.
func Butterfly(m *mesh.Mesh, steps int) *mesh.Mesh {
	return repeat(m, steps, func(orig *mesh.Mesh) *mesh.Mesh {
		x := orig.Vertices
		return splitEdges(orig, func(v, u int) v3.Vec {
			p := x[v].Add(x[u]).MulScalar(0.5)
			p = p.Add(x[orig.NextTo(u, v)].Add(x[orig.PrevTo(u, v)]).MulScalar(1.0 / 8))
			p = p.Sub(x[orig.NextToN(u, v, 2)].Add(x[orig.PrevToN(u, v, 2)]).MulScalar(1.0 / 16))
			p = p.Sub(x[orig.NextToN(v, u, 2)].Add(x[orig.PrevToN(v, u, 2)]).MulScalar(1.0 / 16))
			return p
		})
	})
}

// --- Loop ---

// Loop splits every edge with the Loop edge stencil. If move is set, the
// original vertices are pulled toward the average of their neighbors by
// w = (3/8 + cos(2pi/n)/4)^2 + 3/8, n being the valence. The mesh must be a
// closed triangle mesh.
func Loop(m *mesh.Mesh, steps int, move bool) *mesh.Mesh {
	return repeat(m, steps, func(orig *mesh.Mesh) *mesh.Mesh {
		x := orig.Vertices
		next := splitEdges(orig, func(v, u int) v3.Vec {
			p := x[v].Add(x[u]).MulScalar(3.0 / 8)
			return p.Add(x[orig.NextTo(u, v)].Add(x[orig.PrevTo(u, v)]).MulScalar(1.0 / 8))
		})
		if move {
			for v, vn := range orig.Neighbors {
				n := float64(len(vn))
				if n == 0 {
					continue
				}
				w := 3.0/8 + math.Cos(2*math.Pi/n)/4
				w = w*w + 3.0/8
				next.Vertices[v] = lerp(x[v], orig.Average(vn), w)
			}
		}
		return next
	})
}
