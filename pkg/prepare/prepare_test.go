package prepare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/vvmesh/pkg/factory"
	"github.com/chazu/vvmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTetrahedron(t *testing.T) {
	m := factory.Tetrahedron()
	p := Compile(m)

	assert.Equal(t, []int{0, 1, 2, 0, 2, 3, 0, 3, 1, 1, 3, 2}, p.Triangles)
	assert.Empty(t, p.Quads)
	assert.Empty(t, p.Polygons)
	assert.Empty(t, p.Points)
	assert.Empty(t, p.Lines)
	assert.Equal(t, 4, p.NumFaces())

	for i, n := range p.Normals {
		assert.InDelta(t, 1, n.Length(), 1e-12)
		// The three faces around a vertex of a regular tetrahedron sum to
		// its direction from the centre.
		assert.InDelta(t, 1, n.Dot(m.Vertices[i].Normalize()), 1e-9)
	}

	assert.Equal(t, v3.Vec{X: -0.5, Y: -0.5, Z: -0.5}, p.Box.Min)
	assert.Equal(t, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, p.Box.Max)
}

func TestCompileArities(t *testing.T) {
	tests := []struct {
		name      string
		m         *mesh.Mesh
		triangles int
		quads     int
		polygons  int
		buffered  int
	}{
		{"octahedron", factory.Octahedron(), 8, 0, 0, 8},
		{"hexahedron", factory.Hexahedron(), 0, 6, 0, 12},
		{"dodecahedron", factory.Dodecahedron(), 0, 0, 12, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.m)
			assert.Equal(t, tt.triangles, len(p.Triangles)/3)
			assert.Equal(t, tt.quads, len(p.Quads)/4)
			assert.Len(t, p.Polygons, tt.polygons)

			b := p.Buffers()
			assert.Equal(t, tt.m.NumVertices(), b.VertexCount())
			assert.Equal(t, tt.buffered, b.TriangleCount())
			assert.Len(t, b.Normals, len(b.Vertices))
			assert.False(t, b.IsEmpty())

			for i, n := range p.Normals {
				assert.Greater(t, n.Dot(tt.m.Vertices[i]), 0.0, "normal %d points inward", i)
			}
		})
	}
}

func TestCompileSkipsLargeFaces(t *testing.T) {
	// A double-sided hexagon: two faces of arity 6.
	var vertices []v3.Vec
	var neighbors [][]int
	for i := range 6 {
		vertices = append(vertices, v3.Vec{X: float64(i)})
		neighbors = append(neighbors, []int{(i + 1) % 6, (i + 5) % 6})
	}
	p := Compile(mesh.New(vertices, neighbors))

	assert.Equal(t, 0, p.NumFaces())
	for _, n := range p.Normals {
		assert.Equal(t, v3.Vec{}, n)
	}
}

func TestCompilePointsAndLines(t *testing.T) {
	m := mesh.New(
		[]v3.Vec{{}, {X: 1}, {X: 2}, {Y: 5}},
		[][]int{{1}, {0}, nil, nil},
	)
	p := Compile(m)

	assert.Equal(t, []int{2, 3}, p.Points)
	assert.Equal(t, []int{0, 1}, p.Lines)
	assert.Equal(t, 0, p.NumFaces())
	assert.Equal(t, v3.Vec{X: 2, Y: 5}, p.Box.Max)

	b := p.Buffers()
	assert.Equal(t, []uint32{0, 1}, b.Lines)
	assert.Empty(t, b.Indices)
}

func TestCompileEmpty(t *testing.T) {
	p := Compile(&mesh.Mesh{})
	assert.Equal(t, 0, p.NumFaces())
	assert.True(t, p.Buffers().IsEmpty())
}

func TestNormalsMesh(t *testing.T) {
	p := Compile(factory.Icosahedron())
	lines := p.NormalsMesh(0.2)

	require.NotNil(t, lines)
	assert.Equal(t, 24, lines.NumVertices())
	assert.Equal(t, 12, lines.NumEdges())
	assert.Len(t, Compile(lines).Lines, 24)
}

func TestSaveSTL(t *testing.T) {
	p := Compile(factory.Hexahedron())
	assert.Len(t, p.Soup(), 12)

	path := filepath.Join(t.TempDir(), "cube.stl")
	require.NoError(t, p.SaveSTL(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// 80 byte header, triangle count, 50 bytes per triangle.
	assert.Equal(t, int64(84+50*12), info.Size())
}

func TestSaveSTLNoFaces(t *testing.T) {
	p := Compile(mesh.New([]v3.Vec{{}}, nil))
	assert.Error(t, p.SaveSTL(filepath.Join(t.TempDir(), "empty.stl")))
}
