package factory

import (
	"math"
	"testing"

	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatonicSolids(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *mesh.Mesh
		v, e, f int
		arity   int
		valence int
		edge    float64
	}{
		{"tetrahedron", Tetrahedron, 4, 6, 4, 3, 3, math.Sqrt2},
		{"octahedron", Octahedron, 6, 12, 8, 3, 4, math.Sqrt(0.5)},
		{"hexahedron", Hexahedron, 8, 12, 6, 4, 3, 1},
		{"icosahedron", Icosahedron, 12, 30, 20, 3, 5, 1 / GoldenRatio},
		{"dodecahedron", Dodecahedron, 20, 30, 12, 5, 3, 2 - GoldenRatio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build()
			require.Equal(t, mesh.NoViolation, m.Check())
			assert.Equal(t, tt.v, m.NumVertices())
			assert.Equal(t, tt.e, m.NumEdges())
			assert.Equal(t, tt.f, m.NumFaces())
			assert.Equal(t, 2, m.EulerCharacteristic())
			assert.True(t, m.OnlyArity(tt.arity), "arities %v", m.FaceArities())
			assert.Empty(t, m.Validate())

			for v := range m.Vertices {
				assert.Equal(t, tt.valence, m.Degree(v), "valence of %d", v)
			}
			m.Edges(func(a, b int) {
				assert.InDelta(t, tt.edge, m.Vertices[a].Sub(m.Vertices[b]).Length(), 1e-9)
			})
		})
	}
}

// Every face must wind counter-clockwise seen from outside.
func TestPlatonicOrientation(t *testing.T) {
	for _, m := range []*mesh.Mesh{Tetrahedron(), Octahedron(), Hexahedron(), Icosahedron(), Dodecahedron()} {
		m.Faces(func(face []int) {
			a, b, c := m.Vertices[face[0]], m.Vertices[face[1]], m.Vertices[face[2]]
			n := b.Sub(a).Cross(c.Sub(a))
			assert.Greater(t, n.Dot(a), 0.0, "face %v winds inward", face)
		})
	}
}

func TestPopulateNeighborhoodMatchesTetrahedron(t *testing.T) {
	want := Tetrahedron()
	m := mesh.New(want.Vertices, nil)
	PopulateNeighborhood(m, math.Sqrt2, 3)
	assert.Equal(t, want.Neighbors, m.Neighbors)
}

func TestPopulateNeighborhoodValenceCap(t *testing.T) {
	m := mesh.New(Octahedron().Vertices, nil)
	PopulateNeighborhood(m, math.Sqrt(0.5), 2)
	for v := range m.Vertices {
		assert.Equal(t, 2, m.Degree(v))
	}
}

func TestSphere(t *testing.T) {
	m := Sphere(2, 2)
	require.Equal(t, mesh.NoViolation, m.Check())
	assert.Equal(t, 162, m.NumVertices())
	assert.Equal(t, 320, m.NumFaces())
	for _, v := range m.Vertices {
		assert.InDelta(t, 2, v.Length(), 1e-9)
	}
}

func TestNormals(t *testing.T) {
	vertices := []v3.Vec{{X: 1}, {Y: 1}}
	normals := []v3.Vec{{X: 1}, {Y: 1}}

	m := Normals(vertices, normals, 0.5)
	require.NotNil(t, m)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 2, m.NumEdges())
	assert.Equal(t, 0, m.NumFaces())
	assert.Equal(t, mesh.NoViolation, m.Check())
	assert.Equal(t, v3.Vec{X: 1.5}, m.Vertices[2])
	assert.Equal(t, []int{3}, m.Neighbors[1])

	assert.Nil(t, Normals(vertices, normals[:1], 1))
	assert.Nil(t, Normals(nil, nil, 1))
}

// soup turns the faces of a triangle mesh into an unwelded triangle list.
func soup(m *mesh.Mesh) []*sdf.Triangle3 {
	var tris []*sdf.Triangle3
	m.Faces(func(face []int) {
		tris = append(tris, &sdf.Triangle3{m.Vertices[face[0]], m.Vertices[face[1]], m.Vertices[face[2]]})
	})
	return tris
}

func TestFromTriangles(t *testing.T) {
	for _, src := range []*mesh.Mesh{Tetrahedron(), Octahedron(), Icosahedron()} {
		tris := soup(src)
		m, err := FromTriangles(tris, 1e-6)
		require.NoError(t, err)
		assert.Equal(t, mesh.NoViolation, m.Check())
		assert.Equal(t, src.NumVertices(), m.NumVertices())
		assert.Equal(t, src.NumEdges(), m.NumEdges())
		assert.Equal(t, src.NumFaces(), m.NumFaces())
		assert.True(t, m.OnlyArity(3))
	}
}

func TestFromTrianglesDropsDegenerate(t *testing.T) {
	tris := soup(Tetrahedron())
	p := tris[0][0]
	tris = append(tris, &sdf.Triangle3{p, p, tris[0][1]}, nil)

	m, err := FromTriangles(tris, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 4, m.NumFaces())
}

func TestFromTrianglesNonManifold(t *testing.T) {
	tests := []struct {
		name string
		tris func() []*sdf.Triangle3
	}{
		{"open", func() []*sdf.Triangle3 { return soup(Tetrahedron())[1:] }},
		{"duplicate", func() []*sdf.Triangle3 {
			tris := soup(Tetrahedron())
			return append(tris, tris[0])
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTriangles(tt.tris(), 1e-6)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNonManifold), "got %v", err)
		})
	}
}
