package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/vvmesh/pkg/config"
	"github.com/chazu/vvmesh/pkg/factory"
	"github.com/chazu/vvmesh/pkg/kernel"
	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/chazu/vvmesh/pkg/pipeline"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms mesh script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: vertex-count -> vertex_count
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a vertex-vertex mesh so it can be passed between builtins.
type sexpMesh struct {
	m *mesh.Mesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %s)", pipeline.StatsOf(s.m))
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid.
type sexpSolid struct {
	s kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.s.BoundingBox()
	return fmt.Sprintf("(solid [%.1f %.1f %.1f]..[%.1f %.1f %.1f])", min.X, min.Y, min.Z, max.X, max.Y, max.Z)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_loop) and plain strings ("loop").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMesh extracts a mesh from a sexpMesh.
func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

func intSexp(n int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(n)}
}

// meshArg extracts the single mesh argument of a builtin.
func meshArg(fn string, args []zygo.Sexp) (*mesh.Mesh, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s requires exactly 1 argument, got %d", fn, len(args))
	}
	m, err := toMesh(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return m, nil
}

// solidArgs extracts n solid arguments of a builtin.
func solidArgs(fn string, args []zygo.Sexp, n int) ([]kernel.Solid, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d arguments, got %d", fn, n, len(args))
	}
	solids := make([]kernel.Solid, n)
	for i, a := range args {
		s, err := toSolid(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		solids[i] = s
	}
	return solids, nil
}

// numberArgs extracts n numeric arguments of a builtin.
func numberArgs(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d arguments, got %d", fn, n, len(args))
	}
	nums := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		nums[i] = f
	}
	return nums, nil
}

// dimensionArgs extracts n numeric arguments of a builtin that must all be
// positive.
func dimensionArgs(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	nums, err := numberArgs(fn, args, n)
	if err != nil {
		return nil, err
	}
	for i, f := range nums {
		if f <= 0 {
			return nil, fmt.Errorf("%s: argument %d must be positive, got %g", fn, i+1, f)
		}
	}
	return nums, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all mesh script builtins into a zygomys
// environment. Emitted meshes are collected into scene.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, scene *Scene, cfg config.Config, k kernel.Kernel) {

	// -----------------------------------------------------------------------
	// (tetrahedron) (octahedron) (hexahedron) (icosahedron) (dodecahedron)
	// -----------------------------------------------------------------------
	solids := map[string]func() *mesh.Mesh{
		"tetrahedron":  factory.Tetrahedron,
		"octahedron":   factory.Octahedron,
		"hexahedron":   factory.Hexahedron,
		"icosahedron":  factory.Icosahedron,
		"dodecahedron": factory.Dodecahedron,
	}
	for fn, build := range solids {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 0 {
				return zygo.SexpNull, fmt.Errorf("%s takes no arguments, got %d", name, len(args))
			}
			return &sexpMesh{m: build()}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (sphere :radius 1 :steps 2)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		radius, steps := 1.0, 2

		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
			radius = f
		}
		if v, ok := pa.kw["steps"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: steps: %w", err)
			}
			steps = n
		}
		if radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("sphere: radius must be positive, got %g", radius)
		}
		if steps < 0 || steps > cfg.Subdivision.MaxSteps {
			return zygo.SexpNull, fmt.Errorf("sphere: steps must be in [0, %d], got %d", cfg.Subdivision.MaxSteps, steps)
		}

		return &sexpMesh{m: factory.Sphere(radius, steps)}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		xyz, err := numberArgs(name, args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (subdivide m :scheme :loop :steps 2 :move true :scale 0)
	//
	// :scheme is required; :steps defaults to 1.
	// -----------------------------------------------------------------------
	env.AddFunction("subdivide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("subdivide requires a mesh as first argument")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
		}

		pass := pipeline.Pass{Steps: 1}
		v, ok := pa.kw["scheme"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("subdivide: :scheme is required")
		}
		if pass.Scheme, err = toKeywordString(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: scheme: %w", err)
		}
		if v, ok := pa.kw["steps"]; ok {
			if pass.Steps, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: steps: %w", err)
			}
		}
		if v, ok := pa.kw["move"]; ok {
			if pass.Move, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: move: %w", err)
			}
		}
		if v, ok := pa.kw["scale"]; ok {
			if pass.Scale, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: scale: %w", err)
			}
		}

		out, err := pipeline.Run(m, cfg.Subdivision, pass)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
		}
		return &sexpMesh{m: out}, nil
	})

	// -----------------------------------------------------------------------
	// (check m) (vertex-count m) (edge-count m) (face-count m)
	//
	// check returns -1 for a consistent mesh, otherwise the first vertex
	// whose neighborhood is not mirrored.
	// -----------------------------------------------------------------------
	queries := map[string]func(m *mesh.Mesh) int{
		"check":        (*mesh.Mesh).Check,
		"vertex_count": (*mesh.Mesh).NumVertices,
		"edge_count":   (*mesh.Mesh).NumEdges,
		"face_count":   (*mesh.Mesh).NumFaces,
	}
	for fn, query := range queries {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			m, err := meshArg(name, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			return intSexp(query(m)), nil
		})
	}

	// -----------------------------------------------------------------------
	// (emit "name" m)
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("emit requires a name and a mesh")
		}
		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: name: %w", err)
		}
		m, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		if err := scene.add(meshName, m); err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		return args[1], nil
	})

	registerSolidBuiltins(env, k)
}

// registerSolidBuiltins installs the kernel builtins:
//
//	(box x y z) (ball r) (cylinder height radius)
//	(union a b) (difference a b) (intersection a b)
//	(translate s (vec3 x y z)) (rotate s (vec3 rx ry rz))
//	(tessellate s)
func registerSolidBuiltins(env *zygo.Zlisp, k kernel.Kernel) {
	add := func(fn string, body func(name string, args []zygo.Sexp) (zygo.Sexp, error)) {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if k == nil {
				return zygo.SexpNull, fmt.Errorf("%s: no solid kernel configured", name)
			}
			return body(name, args)
		})
	}

	add("box", func(name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := dimensionArgs(name, args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Box(d[0], d[1], d[2])}, nil
	})
	add("ball", func(name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := dimensionArgs(name, args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Sphere(d[0])}, nil
	})
	add("cylinder", func(name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := dimensionArgs(name, args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: k.Cylinder(d[0], d[1])}, nil
	})

	booleans := map[string]func(a, b kernel.Solid) kernel.Solid{
		"union":        nil,
		"difference":   nil,
		"intersection": nil,
	}
	if k != nil {
		booleans["union"] = k.Union
		booleans["difference"] = k.Difference
		booleans["intersection"] = k.Intersection
	}
	for fn, op := range booleans {
		add(fn, func(name string, args []zygo.Sexp) (zygo.Sexp, error) {
			s, err := solidArgs(name, args, 2)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpSolid{s: op(s[0], s[1])}, nil
		})
	}

	transforms := map[string]func(s kernel.Solid, x, y, z float64) kernel.Solid{
		"translate": nil,
		"rotate":    nil,
	}
	if k != nil {
		transforms["translate"] = k.Translate
		transforms["rotate"] = k.Rotate
	}
	for fn, op := range transforms {
		add(fn, func(name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vec3", name)
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			v, err := toVec3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &sexpSolid{s: op(s, v.X, v.Y, v.Z)}, nil
		})
	}

	add("tessellate", func(name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, err := solidArgs(name, args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		m, err := k.ToMesh(s[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})
}
