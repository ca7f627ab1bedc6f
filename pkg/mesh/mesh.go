package mesh

import (
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// NotFound is returned by neighborhood lookups when the requested vertex is
// not part of the searched neighborhood.
const NotFound = -1

// NoViolation is returned by Check when the adjacency is symmetric.
const NoViolation = -1

// Mesh is a vertex-vertex mesh. The index of a vertex in Vertices is its
// identity for the lifetime of the mesh; in-place edits only ever append.
type Mesh struct {
	Vertices  []v3.Vec // vertex positions
	Neighbors [][]int  // cyclic neighbor indices per vertex
}

// New creates a mesh from vertex positions and per-vertex neighbor lists.
// Both slices are copied. Missing neighbor lists are treated as empty.
func New(vertices []v3.Vec, neighbors [][]int) *Mesh {
	m := &Mesh{
		Vertices:  slices.Clone(vertices),
		Neighbors: make([][]int, len(vertices)),
	}
	for i := range m.Neighbors {
		if i < len(neighbors) {
			m.Neighbors[i] = slices.Clone(neighbors[i])
		}
	}
	return m
}

// Clone returns a deep copy of the mesh. The copy shares no backing storage
// with m, which makes it usable as a frozen snapshot while m is edited.
func (m *Mesh) Clone() *Mesh {
	return New(m.Vertices, m.Neighbors)
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int {
	return len(m.Vertices)
}

// Degree returns the number of neighbors of vertex v, or 0 if v is out of range.
func (m *Mesh) Degree(v int) int {
	if !m.valid(v) {
		return 0
	}
	return len(m.Neighbors[v])
}

// AddVertex appends a vertex with the given neighbor list and returns its index.
// The neighbors are not updated to point back at the new vertex.
func (m *Mesh) AddVertex(x v3.Vec, neighbors ...int) int {
	m.Vertices = append(m.Vertices, x)
	m.Neighbors = append(m.Neighbors, slices.Clone(neighbors))
	return len(m.Vertices) - 1
}

func (m *Mesh) valid(v int) bool {
	return v >= 0 && v < len(m.Vertices) && v < len(m.Neighbors)
}

// wrap maps i into [0, n) for cyclic neighborhood arithmetic.
func wrap(i, n int) int {
	if n <= 0 {
		panic("mesh: wrap on an empty neighborhood")
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// step locates x in the neighborhood of v and returns the neighbor steps
// positions away from it, wrapping around the list.
func (m *Mesh) step(x, v, steps int) int {
	if !m.valid(v) {
		return NotFound
	}
	vn := m.Neighbors[v]
	n := lo.IndexOf(vn, x)
	if n < 0 {
		return NotFound
	}
	return vn[wrap(n+steps, len(vn))]
}

// NextTo returns the neighbor following x in the neighborhood of v.
func (m *Mesh) NextTo(x, v int) int {
	return m.step(x, v, 1)
}

// PrevTo returns the neighbor preceding x in the neighborhood of v.
func (m *Mesh) PrevTo(x, v int) int {
	return m.step(x, v, -1)
}

// NextToN returns the neighbor steps positions after x in the neighborhood of v.
func (m *Mesh) NextToN(x, v, steps int) int {
	return m.step(x, v, steps)
}

// PrevToN returns the neighbor steps positions before x in the neighborhood of v.
func (m *Mesh) PrevToN(x, v, steps int) int {
	return m.step(x, v, -steps)
}

// Orbit collects the vertices of the face bounded by the directed edge a->b
// into polygon (reusing its storage) and returns it. The walk repeatedly
// steps to PrevTo(a, b) until it arrives back at a or runs off an open
// boundary. The arity of the face is the length of the result.
func (m *Mesh) Orbit(a, b int, polygon []int) []int {
	polygon, _ = m.orbit(a, b, polygon)
	return polygon
}

// orbit is Orbit that also reports whether the walk closed.
func (m *Mesh) orbit(a, b int, polygon []int) ([]int, bool) {
	start := a
	polygon = append(polygon[:0], a)
	// A face can not visit more vertices than the mesh has.
	for range len(m.Vertices) {
		polygon = append(polygon, b)
		c := m.PrevTo(a, b)
		if c == NotFound {
			return polygon, false
		}
		if c == start {
			return polygon, true
		}
		a, b = b, c
	}
	return polygon, false
}

// Insert splits the edge between a and b with a new vertex at x. The new
// vertex gets the neighbors [a, b], and it replaces b in the neighborhood of
// a and a in the neighborhood of b. The index of the new vertex is returned.
//
// a and b must be neighbors of each other. If they are not, the replacement
// silently does not happen and the new vertex is left dangling.
func (m *Mesh) Insert(a, b int, x v3.Vec) int {
	xi := m.AddVertex(x, a, b)
	if m.valid(a) {
		replace(m.Neighbors[a], b, xi)
	}
	if m.valid(b) {
		replace(m.Neighbors[b], a, xi)
	}
	return xi
}

func replace(vn []int, old, x int) {
	if n := lo.IndexOf(vn, old); n >= 0 {
		vn[n] = x
	}
}

// Splice inserts a into the neighborhood of v, directly after x if after is
// set and directly before it otherwise. Nothing happens if x is not a
// neighbor of v.
func (m *Mesh) Splice(a, x, v int, after bool) {
	if !m.valid(v) {
		return
	}
	vn := m.Neighbors[v]
	n := lo.IndexOf(vn, x)
	if n < 0 {
		return
	}
	if after {
		n++
	}
	m.Neighbors[v] = slices.Insert(vn, n, a)
}

// Erase removes the first occurrence of x from the neighborhood of v.
func (m *Mesh) Erase(x, v int) {
	if !m.valid(v) {
		return
	}
	vn := m.Neighbors[v]
	if n := lo.IndexOf(vn, x); n >= 0 {
		m.Neighbors[v] = slices.Delete(vn, n, n+1)
	}
}

// Separate removes the edge between a and b from both neighborhoods.
func (m *Mesh) Separate(a, b int) {
	m.Erase(a, b)
	m.Erase(b, a)
}

// Check verifies that adjacency is symmetric: for every u in the
// neighborhood of v, v is in the neighborhood of u. It returns NoViolation
// or the index of the first vertex whose neighborhood is inconsistent.
func (m *Mesh) Check() int {
	for v, vn := range m.Neighbors {
		for _, u := range vn {
			if !m.valid(u) || !lo.Contains(m.Neighbors[u], v) {
				return v
			}
		}
	}
	return NoViolation
}

// Average returns the arithmetic mean of the positions of the given vertices.
func (m *Mesh) Average(indices []int) v3.Vec {
	var sum v3.Vec
	if len(indices) == 0 {
		return sum
	}
	for _, i := range indices {
		sum = sum.Add(m.Vertices[i])
	}
	return sum.DivScalar(float64(len(indices)))
}
