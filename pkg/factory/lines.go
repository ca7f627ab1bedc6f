package factory

import (
	"github.com/chazu/vvmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Normals returns a line mesh with one segment per vertex, running from the
// vertex to vertex + normal*scale. Start points come first, end points
// follow in the same order. It returns nil if the slices differ in length
// or are empty.
func Normals(vertices, normals []v3.Vec, scale float64) *mesh.Mesh {
	n := len(vertices)
	if n == 0 || len(normals) != n {
		return nil
	}

	m := &mesh.Mesh{
		Vertices:  make([]v3.Vec, 2*n),
		Neighbors: make([][]int, 2*n),
	}
	for i, v := range vertices {
		k := i + n
		m.Vertices[i] = v
		m.Vertices[k] = v.Add(normals[i].MulScalar(scale))
		m.Neighbors[i] = []int{k}
		m.Neighbors[k] = []int{i}
	}
	return m
}
