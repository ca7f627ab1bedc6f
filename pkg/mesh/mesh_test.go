package mesh

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tetrahedron builds the reference tetrahedron with literal neighborhoods.
func tetrahedron() *Mesh {
	const a = 0.5
	return New(
		[]v3.Vec{
			{X: -a, Y: -a, Z: +a},
			{X: +a, Y: -a, Z: -a},
			{X: +a, Y: +a, Z: +a},
			{X: -a, Y: +a, Z: -a},
		},
		[][]int{{1, 2, 3}, {0, 3, 2}, {0, 1, 3}, {0, 2, 1}},
	)
}

// ring builds n vertices on a circle, each connected to its two neighbors.
func ring(n int) *Mesh {
	m := &Mesh{}
	for i := range n {
		m.AddVertex(v3.Vec{X: float64(i)}, (i+1)%n, (i+n-1)%n)
	}
	return m
}

func TestTetrahedronEuler(t *testing.T) {
	m := tetrahedron()
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 6, m.NumEdges())
	assert.Equal(t, 4, m.NumFaces())
	assert.Equal(t, 2, m.EulerCharacteristic())
	assert.Equal(t, NoViolation, m.Check())
	assert.True(t, m.IsClosed())
	assert.True(t, m.OnlyArity(3))
	assert.False(t, m.OnlyArity(4))
}

func TestNewCopiesInput(t *testing.T) {
	vertices := []v3.Vec{{}, {X: 1}}
	neighbors := [][]int{{1}, {0}}
	m := New(vertices, neighbors)

	neighbors[0][0] = 7
	vertices[1] = v3.Vec{X: 9}
	assert.Equal(t, []int{1}, m.Neighbors[0])
	assert.Equal(t, 1.0, m.Vertices[1].X)

	c := m.Clone()
	c.Neighbors[1][0] = 5
	assert.Equal(t, []int{0}, m.Neighbors[1])
}

func TestNextPrev(t *testing.T) {
	m := tetrahedron()
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"next", m.NextTo(2, 0), 3},
		{"next wraps", m.NextTo(3, 0), 1},
		{"prev", m.PrevTo(2, 0), 1},
		{"prev wraps", m.PrevTo(1, 0), 3},
		{"next two", m.NextToN(1, 0, 2), 3},
		{"prev four", m.PrevToN(1, 0, 4), 3},
		{"next zero", m.NextToN(2, 0, 0), 2},
		{"absent neighbor", m.NextTo(0, 0), NotFound},
		{"absent vertex", m.PrevTo(1, 9), NotFound},
		{"negative vertex", m.NextTo(1, -1), NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestOrbit(t *testing.T) {
	m := tetrahedron()

	assert.Equal(t, []int{0, 1, 2}, m.Orbit(0, 1, nil))
	assert.Equal(t, []int{1, 3, 2}, m.Orbit(1, 3, nil))

	// Every directed edge closes a triangle.
	var poly []int
	for a, an := range m.Neighbors {
		for _, b := range an {
			poly = m.Orbit(a, b, poly)
			require.Len(t, poly, 3, "orbit(%d, %d)", a, b)
			assert.Equal(t, a, poly[0])
			assert.Equal(t, a, m.PrevTo(poly[1], poly[2]), "orbit(%d, %d) does not close", a, b)
		}
	}
}

func TestOrbitOpenBoundary(t *testing.T) {
	m := tetrahedron()
	m.Erase(0, 2) // 2 no longer lists 0

	poly := m.Orbit(0, 2, nil)
	assert.Equal(t, []int{0, 2}, poly)
}

func TestFaces(t *testing.T) {
	m := tetrahedron()
	var faces [][]int
	m.Faces(func(face []int) {
		faces = append(faces, append([]int(nil), face...))
	})
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}}, faces)
	assert.Equal(t, map[int]int{3: 4}, m.FaceArities())
}

func TestEdges(t *testing.T) {
	m := tetrahedron()
	var edges [][2]int
	m.Edges(func(a, b int) {
		edges = append(edges, [2]int{a, b})
	})
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 3}, {1, 2}, {2, 3}}, edges)
}

func TestInsert(t *testing.T) {
	m := tetrahedron()
	x := m.Insert(0, 1, v3.Vec{X: 0.5})

	assert.Equal(t, 4, x)
	assert.Equal(t, []int{0, 1}, m.Neighbors[x])
	assert.Equal(t, []int{4, 2, 3}, m.Neighbors[0])
	assert.Equal(t, []int{4, 3, 2}, m.Neighbors[1])
	assert.Equal(t, NoViolation, m.Check())
}

func TestInsertNotAdjacent(t *testing.T) {
	m := ring(4)
	x := m.Insert(0, 2, v3.Vec{})

	// The replacement silently does not happen.
	assert.Equal(t, []int{1, 3}, m.Neighbors[0])
	assert.Equal(t, []int{3, 1}, m.Neighbors[2])
	assert.Equal(t, []int{0, 2}, m.Neighbors[x])
	assert.Equal(t, x, m.Check())
}

func TestInsertEraseRoundTrip(t *testing.T) {
	m := tetrahedron()
	want := tetrahedron().Neighbors

	x := m.Insert(0, 1, v3.Vec{})
	m.Erase(x, 0)
	m.Erase(x, 1)
	assert.NotContains(t, m.Neighbors[0], x)
	assert.NotContains(t, m.Neighbors[1], x)

	m.Splice(1, 2, 0, false)
	m.Splice(0, 3, 1, false)
	assert.Equal(t, want, m.Neighbors[:4])
}

func TestSplice(t *testing.T) {
	m := tetrahedron()

	m.Splice(7, 2, 0, true)
	assert.Equal(t, []int{1, 2, 7, 3}, m.Neighbors[0])

	m.Splice(8, 1, 0, false)
	assert.Equal(t, []int{8, 1, 2, 7, 3}, m.Neighbors[0])

	m.Splice(9, 5, 0, true)
	assert.Equal(t, []int{8, 1, 2, 7, 3}, m.Neighbors[0], "absent anchor is a no-op")

	m.Splice(9, 1, 42, true)
	assert.Equal(t, 4, m.NumVertices(), "absent vertex is a no-op")
}

func TestEraseAndSeparate(t *testing.T) {
	m := tetrahedron()

	m.Erase(5, 0)
	assert.Equal(t, []int{1, 2, 3}, m.Neighbors[0])

	m.Separate(0, 1)
	assert.Equal(t, []int{2, 3}, m.Neighbors[0])
	assert.Equal(t, []int{3, 2}, m.Neighbors[1])
	assert.Equal(t, NoViolation, m.Check())
	assert.Equal(t, 5, m.NumEdges())
}

func TestCheck(t *testing.T) {
	m := tetrahedron()
	m.Erase(3, 2)
	assert.Equal(t, 3, m.Check())

	m = tetrahedron()
	m.Neighbors[1] = append(m.Neighbors[1], 9)
	assert.Equal(t, 1, m.Check())
}

func TestAverage(t *testing.T) {
	m := tetrahedron()
	assert.Equal(t, v3.Vec{}, m.Average([]int{0, 1, 2, 3}))
	assert.Equal(t, v3.Vec{}, m.Average(nil))
	assert.InDelta(t, 0.5, m.Average([]int{1, 2}).X, 1e-12)
}

func TestDegree(t *testing.T) {
	m := tetrahedron()
	assert.Equal(t, 3, m.Degree(0))
	assert.Equal(t, 0, m.Degree(-1))
	assert.Equal(t, 0, m.Degree(4))
}
