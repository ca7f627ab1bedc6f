package subdiv

import (
	"math"

	"github.com/chazu/vvmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// DooSabin cuts every corner of every face. Each original vertex v with
// neighbors N(v) is replaced by one new vertex per incident face; the face
// between N(v)[k] and N(v)[k+1] gets corner k of v. The original vertices
// are not part of the result. Faces of any arity are supported.
func DooSabin(m *mesh.Mesh, steps int) *mesh.Mesh {
	return repeat(m, steps, dooSabinStep)
}

func dooSabinStep(orig *mesh.Mesh) *mesh.Mesh {
	x := orig.Vertices

	// Corners are numbered vertex by vertex: corner k of v is offset[v] + k.
	offset := make([]int, len(orig.Neighbors)+1)
	for v, vn := range orig.Neighbors {
		offset[v+1] = offset[v] + len(vn)
	}
	corner := func(v, k int) int {
		n := len(orig.Neighbors[v])
		if n == 0 {
			return mesh.NotFound
		}
		return offset[v] + ((k%n)+n)%n
	}

	next := &mesh.Mesh{
		Vertices:  make([]v3.Vec, offset[len(orig.Neighbors)]),
		Neighbors: make([][]int, offset[len(orig.Neighbors)]),
	}

	var poly []int
	for v, vn := range orig.Neighbors {
		for k, p := range vn {
			t := corner(v, k)
			poly = orig.Orbit(v, p, poly)
			next.Vertices[t] = cornerPoint(x, poly)

			// The face [v, p, ..., y] seen from p and from y.
			y := vn[(k+1)%len(vn)]
			c := corner(p, lo.IndexOf(orig.Neighbors[p], orig.PrevTo(v, p)))
			d := corner(y, lo.IndexOf(orig.Neighbors[y], v))

			next.Neighbors[t] = []int{corner(v, k-1), c, d, corner(v, k+1)}
		}
	}

	return next
}

// cornerPoint positions the corner of poly[0] inside the face poly.
func cornerPoint(x []v3.Vec, poly []int) v3.Vec {
	o := len(poly)
	if o == 4 {
		// v, its two face neighbors p and q, and the opposite corner r.
		v, p, r, q := x[poly[0]], x[poly[1]], x[poly[2]], x[poly[3]]
		return v.MulScalar(0.5625).
			Add(p.MulScalar(0.1875)).
			Add(q.MulScalar(0.1875)).
			Add(r.MulScalar(0.0625))
	}

	n := float64(o)
	c := x[poly[0]].MulScalar(0.25 + 1.25/n)
	for i := 1; i < o; i++ {
		w := (3 + 2*math.Cos(2*math.Pi*float64(i)/n)) / (4 * n)
		c = c.Add(x[poly[i]].MulScalar(w))
	}
	return c
}
