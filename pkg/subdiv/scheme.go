package subdiv

import (
	"sort"
	"strings"

	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownScheme is returned by Lookup for names that are not registered.
	ErrUnknownScheme = errors.New("unknown subdivision scheme")
	// ErrUnsupportedMesh is returned when a scheme can not refine a mesh.
	ErrUnsupportedMesh = errors.New("mesh not supported by scheme")
)

// Requirement describes which meshes a scheme can refine.
type Requirement int

const (
	// AnyPolygons accepts any closed mesh.
	AnyPolygons Requirement = iota
	// Triangles accepts closed meshes made of triangles only.
	Triangles
	// Quads accepts closed meshes made of quads only.
	Quads
)

// String returns the human-readable name of the requirement.
func (r Requirement) String() string {
	switch r {
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	default:
		return "polygons"
	}
}

// Options are the per-pass knobs some schemes accept.
type Options struct {
	Move  bool    // Loop, Sqrt3: relocate original vertices
	Scale float64 // Polyhedral: project onto a sphere of this radius, 0 to disable
}

// Scheme is a named subdivision scheme.
type Scheme struct {
	Name     string
	Requires Requirement
	apply    func(m *mesh.Mesh, steps int, opts Options) *mesh.Mesh
}

// Apply runs the scheme on m for the given number of steps.
func (s Scheme) Apply(m *mesh.Mesh, steps int, opts Options) *mesh.Mesh {
	return s.apply(m, steps, opts)
}

var schemes = map[string]Scheme{
	"polyhedral": {
		Name:     "polyhedral",
		Requires: Triangles,
		apply: func(m *mesh.Mesh, steps int, opts Options) *mesh.Mesh {
			return Polyhedral(m, steps, opts.Scale)
		},
	},
	"butterfly": {
		Name:     "butterfly",
		Requires: Triangles,
		apply: func(m *mesh.Mesh, steps int, _ Options) *mesh.Mesh {
			return Butterfly(m, steps)
		},
	},
	"loop": {
		Name:     "loop",
		Requires: Triangles,
		apply: func(m *mesh.Mesh, steps int, opts Options) *mesh.Mesh {
			return Loop(m, steps, opts.Move)
		},
	},
	"sqrt3": {
		Name:     "sqrt3",
		Requires: Triangles,
		apply: func(m *mesh.Mesh, steps int, opts Options) *mesh.Mesh {
			return Sqrt3(m, steps, opts.Move)
		},
	},
	"catmull-clark": {
		Name:     "catmull-clark",
		Requires: Quads,
		apply: func(m *mesh.Mesh, steps int, _ Options) *mesh.Mesh {
			return CatmullClark(m, steps)
		},
	},
	"doo-sabin": {
		Name:     "doo-sabin",
		Requires: AnyPolygons,
		apply: func(m *mesh.Mesh, steps int, _ Options) *mesh.Mesh {
			return DooSabin(m, steps)
		},
	},
}

// Lookup returns the scheme registered under name. Names are matched case
// insensitively and underscores are accepted in place of dashes.
func Lookup(name string) (Scheme, error) {
	key := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	s, ok := schemes[key]
	if !ok {
		return Scheme{}, errors.Wrapf(ErrUnknownScheme, "%q", name)
	}
	return s, nil
}

// Names returns the registered scheme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supports reports whether s can refine m.
func Supports(s Scheme, m *mesh.Mesh) bool {
	switch s.Requires {
	case Triangles:
		return m.OnlyArity(3)
	case Quads:
		return m.OnlyArity(4)
	default:
		return m.NumVertices() > 0 && m.IsClosed()
	}
}
