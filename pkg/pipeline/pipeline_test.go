package pipeline_test

import (
	"testing"

	"github.com/chazu/vvmesh/pkg/config"
	"github.com/chazu/vvmesh/pkg/factory"
	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/chazu/vvmesh/pkg/pipeline"
	"github.com/chazu/vvmesh/pkg/subdiv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() config.Subdivision {
	return config.Default().Subdivision
}

func TestRunSinglePass(t *testing.T) {
	m := factory.Icosahedron()
	out, err := pipeline.Run(m, defaults(), pipeline.Pass{Scheme: "loop", Steps: 2, Move: true})
	require.NoError(t, err)

	assert.Equal(t, pipeline.Stats{Vertices: 162, Edges: 480, Faces: 320}, pipeline.StatsOf(out))
	assert.Equal(t, 12, m.NumVertices(), "input untouched")
}

func TestRunChain(t *testing.T) {
	out, err := pipeline.Run(factory.Hexahedron(), defaults(),
		pipeline.Pass{Scheme: "catmull-clark", Steps: 1},
		pipeline.Pass{Scheme: "doo-sabin", Steps: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, mesh.NoViolation, out.Check())
	assert.Equal(t, 2*48, out.NumVertices())
}

func TestRunNoPasses(t *testing.T) {
	m := factory.Tetrahedron()
	out, err := pipeline.Run(m, defaults())
	require.NoError(t, err)
	assert.Equal(t, m, out)
	assert.NotSame(t, m, out)
}

func TestRunErrors(t *testing.T) {
	broken := factory.Tetrahedron()
	broken.Erase(0, 1)

	tests := []struct {
		name   string
		m      *mesh.Mesh
		pass   pipeline.Pass
		target error
	}{
		{"unknown scheme", factory.Tetrahedron(), pipeline.Pass{Scheme: "kobbelt", Steps: 1}, subdiv.ErrUnknownScheme},
		{"too many steps", factory.Tetrahedron(), pipeline.Pass{Scheme: "loop", Steps: 7}, pipeline.ErrBadStepCount},
		{"negative steps", factory.Tetrahedron(), pipeline.Pass{Scheme: "loop", Steps: -1}, pipeline.ErrBadStepCount},
		{"quads only", factory.Tetrahedron(), pipeline.Pass{Scheme: "catmull-clark", Steps: 1}, subdiv.ErrUnsupportedMesh},
		{"triangles only", factory.Dodecahedron(), pipeline.Pass{Scheme: "butterfly", Steps: 1}, subdiv.ErrUnsupportedMesh},
		{"broken input", broken, pipeline.Pass{Scheme: "loop", Steps: 1}, pipeline.ErrInconsistent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.Run(tt.m, defaults(), tt.pass)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestRunWithoutSelfCheck(t *testing.T) {
	cfg := defaults()
	cfg.SelfCheck = false

	broken := factory.Tetrahedron()
	broken.Erase(0, 1)

	// The broken mesh is no longer closed, so the scheme refuses it.
	_, err := pipeline.Run(broken, cfg, pipeline.Pass{Scheme: "loop", Steps: 1})
	assert.True(t, errors.Is(err, subdiv.ErrUnsupportedMesh), "got %v", err)
}
