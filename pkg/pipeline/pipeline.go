// Package pipeline applies a sequence of subdivision passes to a mesh. Each
// pass is checked against the scheme's mesh requirements before it runs,
// and the result can be verified with mesh.Check afterwards. The pipeline
// is read-only and never mutates its input mesh.
package pipeline

import (
	"fmt"

	"github.com/chazu/vvmesh/pkg/config"
	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/chazu/vvmesh/pkg/subdiv"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

var (
	// ErrInconsistent is returned when a mesh fails the adjacency check.
	ErrInconsistent = errors.New("mesh adjacency is inconsistent")
	// ErrBadStepCount is returned for step counts outside [0, MaxSteps].
	ErrBadStepCount = errors.New("step count out of range")
)

// Pass is one refinement pass.
type Pass struct {
	Scheme string  // registered scheme name, see subdiv.Names
	Steps  int     // number of steps
	Move   bool    // relocate original vertices (loop, sqrt3)
	Scale  float64 // sphere radius for polyhedral, 0 for midpoints
}

func (p Pass) String() string {
	return fmt.Sprintf("%s x%d", p.Scheme, p.Steps)
}

// Stats summarizes a mesh for logging and reporting.
type Stats struct {
	Vertices int
	Edges    int
	Faces    int
}

// StatsOf counts the vertices, edges and faces of m.
func StatsOf(m *mesh.Mesh) Stats {
	return Stats{
		Vertices: m.NumVertices(),
		Edges:    m.NumEdges(),
		Faces:    m.NumFaces(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("V=%d E=%d F=%d", s.Vertices, s.Edges, s.Faces)
}

// Run applies passes to m in order and returns the final generation.
func Run(m *mesh.Mesh, cfg config.Subdivision, passes ...Pass) (*mesh.Mesh, error) {
	if cfg.SelfCheck {
		if err := check(m); err != nil {
			return nil, errors.Wrap(err, "pipeline: input")
		}
	}

	cur := m.Clone()
	for i, p := range passes {
		next, err := apply(cur, cfg, p)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: pass %d (%s)", i, p)
		}
		cur = next
	}
	return cur, nil
}

func apply(m *mesh.Mesh, cfg config.Subdivision, p Pass) (*mesh.Mesh, error) {
	s, err := subdiv.Lookup(p.Scheme)
	if err != nil {
		return nil, err
	}
	if p.Steps < 0 || p.Steps > cfg.MaxSteps {
		return nil, errors.Wrapf(ErrBadStepCount, "%d not in [0, %d]", p.Steps, cfg.MaxSteps)
	}
	if !subdiv.Supports(s, m) {
		return nil, errors.Wrapf(subdiv.ErrUnsupportedMesh, "%s needs closed %s", s.Name, s.Requires)
	}

	next := s.Apply(m, p.Steps, subdiv.Options{Move: p.Move, Scale: p.Scale})
	klog.V(1).Infof("pipeline: %s: %s -> %s", p, StatsOf(m), StatsOf(next))

	if cfg.SelfCheck {
		if err := check(next); err != nil {
			return nil, err
		}
	}
	return next, nil
}

func check(m *mesh.Mesh) error {
	if v := m.Check(); v != mesh.NoViolation {
		klog.Warningf("pipeline: adjacency check failed at vertex %d", v)
		return errors.Wrapf(ErrInconsistent, "vertex %d", v)
	}
	return nil
}
