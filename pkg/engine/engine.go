// Package engine provides the Lisp evaluation engine for mesh scripts.
// It wraps zygomys in a sandboxed environment with builtins for factory
// meshes, kernel solids and subdivision passes, and produces a Scene of
// emitted meshes from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/vvmesh/pkg/config"
	"github.com/chazu/vvmesh/pkg/kernel"
	"github.com/chazu/vvmesh/pkg/mesh"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/plan-systems/klog"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// SceneMesh is a mesh emitted by a script under a name.
type SceneMesh struct {
	Name string
	Mesh *mesh.Mesh
}

// Scene collects the meshes a script emits, in emission order.
type Scene struct {
	Meshes []SceneMesh
}

// Len returns the number of emitted meshes.
func (s *Scene) Len() int {
	return len(s.Meshes)
}

// Lookup returns the mesh emitted under name, or nil.
func (s *Scene) Lookup(name string) *mesh.Mesh {
	for _, sm := range s.Meshes {
		if sm.Name == name {
			return sm.Mesh
		}
	}
	return nil
}

func (s *Scene) add(name string, m *mesh.Mesh) error {
	if s.Lookup(name) != nil {
		return fmt.Errorf("a mesh named %q was already emitted", name)
	}
	s.Meshes = append(s.Meshes, SceneMesh{Name: name, Mesh: m})
	return nil
}

// Engine wraps the zygomys interpreter for mesh script evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	cfg    config.Config
	kernel kernel.Kernel
}

// NewEngine creates a new Engine. The kernel backs the solid builtins; if
// it is nil those builtins report an error.
func NewEngine(cfg config.Config, k kernel.Kernel) *Engine {
	return &Engine{cfg: cfg, kernel: k}
}

// Evaluate takes Lisp source code and produces the emitted meshes.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	timeout := e.cfg.Engine.Timeout.Duration
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	return waitWithTimeout(ch, gen, &e.mu, &e.generation, timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Scene, []EvalError, error) {
	scene := &Scene{}

	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return scene, nil, nil
	}

	// Create a fresh sandboxed zygomys environment.
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, scene, e.cfg, e.kernel)

	// Load and compile the source string into bytecode.
	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	// Execute the compiled bytecode.
	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	klog.V(1).Infof("engine: script emitted %d meshes", scene.Len())
	return scene, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
