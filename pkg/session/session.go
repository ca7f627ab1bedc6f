// Package session is the frontend-facing facade. It evaluates a mesh script,
// runs every emitted mesh through the preparer and returns flat buffers a
// viewer can upload directly, or writes them out as STL files.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/vvmesh/pkg/config"
	"github.com/chazu/vvmesh/pkg/engine"
	"github.com/chazu/vvmesh/pkg/kernel/sdfx"
	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/chazu/vvmesh/pkg/prepare"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Session owns an engine and the sdfx kernel backing its solid builtins.
type Session struct {
	cfg    config.Config
	engine *engine.Engine
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Vertices []float32  `json:"vertices"`
	Normals  []float32  `json:"normals"`
	Indices  []uint32   `json:"indices"`
	Lines    []uint32   `json:"lines"`
	BoxMin   [3]float64 `json:"boxMin"`
	BoxMax   [3]float64 `json:"boxMax"`

	// Normal overlay: a line per vertex, NormalVertices holds both ends.
	NormalVertices []float32 `json:"normalVertices"`
	NormalLines    []uint32  `json:"normalLines"`
}

// ErrorData is a JSON-serializable error or warning for the frontend.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full result returned to the frontend.
type Result struct {
	Meshes   []MeshData  `json:"meshes"`
	Errors   []ErrorData `json:"errors"`
	Warnings []ErrorData `json:"warnings"`
}

// New creates a Session from cfg.
func New(cfg config.Config) *Session {
	return &Session{
		cfg:    cfg,
		engine: engine.NewEngine(cfg, sdfx.New(cfg.Kernel.MeshCells)),
	}
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (s *Session) Evaluate(source string) Result {
	result := Result{
		Meshes:   []MeshData{},
		Errors:   []ErrorData{},
		Warnings: []ErrorData{},
	}

	scene, errs := s.scene(source)
	if len(errs) > 0 {
		result.Errors = errs
		return result
	}

	for i, sm := range scene.Meshes {
		warnings, ok := s.validate(sm)
		result.Warnings = append(result.Warnings, warnings...)
		if !ok {
			result.Errors = append(result.Errors, ErrorData{
				Message: fmt.Sprintf("mesh %q is malformed and was not prepared", sm.Name),
			})
			continue
		}

		p := prepare.Compile(sm.Mesh)
		b := p.Buffers()
		md := MeshData{
			Name:     sm.Name,
			Color:    colorPalette[i%len(colorPalette)],
			Vertices: b.Vertices,
			Normals:  b.Normals,
			Indices:  b.Indices,
			Lines:    b.Lines,
			BoxMin:   [3]float64{p.Box.Min.X, p.Box.Min.Y, p.Box.Min.Z},
			BoxMax:   [3]float64{p.Box.Max.X, p.Box.Max.Y, p.Box.Max.Z},
		}
		if nm := p.NormalsMesh(s.cfg.Normals.Scale); nm != nil {
			nb := prepare.Compile(nm).Buffers()
			md.NormalVertices, md.NormalLines = nb.Vertices, nb.Lines
		}
		result.Meshes = append(result.Meshes, md)
		klog.V(1).Infof("session: %s: %d vertices, %d triangles", sm.Name, b.VertexCount(), b.TriangleCount())
	}

	return result
}

// ExportSTL evaluates source and writes every emitted mesh with faces to
// dir as <name>.stl. It returns the written paths in emission order.
func (s *Session) ExportSTL(source, dir string) ([]string, error) {
	scene, errs := s.scene(source)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = engine.EvalError{Line: e.Line, Col: e.Col, Message: e.Message}.Error()
		}
		return nil, errors.Errorf("session: %s", strings.Join(msgs, "; "))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "session")
	}

	var paths []string
	for _, sm := range scene.Meshes {
		p := prepare.Compile(sm.Mesh)
		if p.NumFaces() == 0 {
			klog.Warningf("session: %s has no faces, not exported", sm.Name)
			continue
		}
		path := filepath.Join(dir, stlName(sm.Name))
		if err := p.SaveSTL(path); err != nil {
			return paths, errors.Wrap(err, "session")
		}
		klog.V(1).Infof("session: wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// scene evaluates source and converts failures to ErrorData.
func (s *Session) scene(source string) (*engine.Scene, []ErrorData) {
	scene, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		klog.Warningf("session: evaluate: %v", err)
		return nil, []ErrorData{{Message: err.Error()}}
	}

	if len(evalErrs) > 0 {
		out := make([]ErrorData, 0, len(evalErrs))
		for _, e := range evalErrs {
			out = append(out, ErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, out
	}
	return scene, nil
}

// validate reports the warnings for a mesh and whether it is usable.
func (s *Session) validate(sm engine.SceneMesh) ([]ErrorData, bool) {
	findings := sm.Mesh.Validate()
	var out []ErrorData
	for _, f := range findings {
		klog.Warningf("session: %s: %v", sm.Name, f)
		out = append(out, ErrorData{Message: fmt.Sprintf("%s: %s", sm.Name, f.Error())})
	}
	return out, !mesh.HasErrors(findings)
}

// stlName turns a mesh name into a file name.
func stlName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if clean == "" {
		clean = "mesh"
	}
	return clean + ".stl"
}
