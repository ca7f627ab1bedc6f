// Package factory builds base meshes: the five Platonic solids, a geodesic
// sphere, line meshes visualizing normals, and meshes welded from triangle
// soups. Factory meshes are closed and pass mesh.Check.
package factory

import (
	"math"
	"sort"

	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/chazu/vvmesh/pkg/subdiv"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// GoldenRatio is (1 + sqrt 5) / 2.
var GoldenRatio = (1 + math.Sqrt(5)) / 2

// distanceTolerance is the relative tolerance used to match edge lengths.
const distanceTolerance = 1e-6

// Tetrahedron returns a regular tetrahedron centred at the origin.
func Tetrahedron() *mesh.Mesh {
	const a = 0.5
	return mesh.New(
		[]v3.Vec{
			// Lower edge, orthogonal to the upper edge.
			{X: -a, Y: -a, Z: +a},
			{X: +a, Y: -a, Z: -a},
			// Upper edge.
			{X: +a, Y: +a, Z: +a},
			{X: -a, Y: +a, Z: -a},
		},
		[][]int{
			{1, 2, 3},
			{0, 3, 2},
			{0, 1, 3},
			{0, 2, 1},
		},
	)
}

// Octahedron returns a regular octahedron centred at the origin.
func Octahedron() *mesh.Mesh {
	a := 0.5
	b := 1 / (2 * math.Sqrt2)
	m := mesh.New([]v3.Vec{
		// Top and bottom.
		{X: 0, Y: +a, Z: 0},
		{X: 0, Y: -a, Z: 0},
		// Square base.
		{X: +b, Y: 0, Z: +b},
		{X: +b, Y: 0, Z: -b},
		{X: -b, Y: 0, Z: -b},
		{X: -b, Y: 0, Z: +b},
	}, nil)
	PopulateNeighborhood(m, math.Sqrt(a*a+2*b*b), 4)
	return m
}

// Hexahedron returns a unit cube centred at the origin.
func Hexahedron() *mesh.Mesh {
	const a = 0.5
	m := mesh.New([]v3.Vec{
		// Front face.
		{X: +a, Y: +a, Z: +a},
		{X: -a, Y: +a, Z: +a},
		{X: -a, Y: -a, Z: +a},
		{X: +a, Y: -a, Z: +a},
		// Back face.
		{X: -a, Y: +a, Z: -a},
		{X: +a, Y: +a, Z: -a},
		{X: +a, Y: -a, Z: -a},
		{X: -a, Y: -a, Z: -a},
	}, nil)
	PopulateNeighborhood(m, 2*a, 3)
	return m
}

// Icosahedron returns a regular icosahedron centred at the origin.
func Icosahedron() *mesh.Mesh {
	a := 0.5
	b := 1 / (2 * GoldenRatio)
	m := mesh.New([]v3.Vec{
		{X: 0, Y: -b, Z: +a},
		{X: -b, Y: -a, Z: 0},
		{X: +b, Y: -a, Z: 0},
		{X: 0, Y: -b, Z: -a},
		{X: 0, Y: +b, Z: -a},
		{X: +a, Y: 0, Z: -b},
		{X: -a, Y: 0, Z: -b},
		{X: 0, Y: +b, Z: +a},
		{X: -a, Y: 0, Z: +b},
		{X: +a, Y: 0, Z: +b},
		{X: -b, Y: +a, Z: 0},
		{X: +b, Y: +a, Z: 0},
	}, nil)
	PopulateNeighborhood(m, math.Sqrt(2*(a*a-a*b+b*b)), 5)
	return m
}

// Dodecahedron returns a regular dodecahedron centred at the origin.
func Dodecahedron() *mesh.Mesh {
	a := 0.5
	b := 1 / (2 * GoldenRatio)
	c := (2 - GoldenRatio) * 0.5
	m := mesh.New([]v3.Vec{
		{X: -c, Y: 0, Z: -a},
		{X: +c, Y: 0, Z: -a},
		{X: +b, Y: -b, Z: -b},
		{X: 0, Y: -a, Z: -c},
		{X: -b, Y: -b, Z: -b},
		{X: -b, Y: +b, Z: -b},
		{X: 0, Y: +a, Z: -c},
		{X: +b, Y: +b, Z: -b},
		{X: -c, Y: 0, Z: +a},
		{X: +c, Y: 0, Z: +a},
		{X: +b, Y: +b, Z: +b},
		{X: 0, Y: +a, Z: +c},
		{X: -b, Y: +b, Z: +b},
		{X: -b, Y: -b, Z: +b},
		{X: 0, Y: -a, Z: +c},
		{X: +b, Y: -b, Z: +b},
		{X: -a, Y: -c, Z: 0},
		{X: +a, Y: -c, Z: 0},
		{X: +a, Y: +c, Z: 0},
		{X: -a, Y: +c, Z: 0},
	}, nil)
	PopulateNeighborhood(m, 2*c, 3)
	return m
}

// Sphere returns a geodesic sphere: an icosahedron pushed out to radius and
// refined steps times with polyhedral subdivision projecting onto the sphere.
func Sphere(radius float64, steps int) *mesh.Mesh {
	m := Icosahedron()
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Normalize().MulScalar(radius)
	}
	return subdiv.Polyhedral(m, steps, radius)
}

// PopulateNeighborhood makes every pair of vertices at the given distance
// neighbors, keeping at most valence neighbors per vertex. Each neighborhood
// is ordered counter-clockwise around the direction from the origin to the
// vertex, starting with the neighbor of lowest index, so the mesh must be
// convex and contain the origin.
func PopulateNeighborhood(m *mesh.Mesh, distance float64, valence int) {
	d2 := distance * distance

	for i, r := range m.Vertices {
		axis := r.Normalize()

		type neighbor struct {
			index int
			angle float64
		}
		var found []neighbor
		var ref v3.Vec

		for k, p := range m.Vertices {
			if k == i || len(found) >= valence {
				continue
			}
			u := p.Sub(r)
			if math.Abs(u.Dot(u)-d2) > distanceTolerance*d2 {
				continue
			}

			// Project onto the plane the axis is the normal of.
			up := u.Sub(axis.MulScalar(u.Dot(axis)))
			if len(found) == 0 {
				ref = up
				found = append(found, neighbor{index: k})
				continue
			}

			angle := math.Atan2(ref.Cross(up).Dot(axis), ref.Dot(up))
			if angle < 0 {
				angle += 2 * math.Pi
			}
			found = append(found, neighbor{index: k, angle: angle})
		}

		sort.SliceStable(found, func(x, y int) bool {
			return found[x].angle < found[y].angle
		})

		vn := make([]int, len(found))
		for n, f := range found {
			vn[n] = f.index
		}
		m.Neighbors[i] = vn
	}
}
