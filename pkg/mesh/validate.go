package mesh

import (
	"fmt"

	"github.com/samber/lo"
)

// MaxPreparedArity is the largest face arity the preparer turns into index
// buffers. Larger faces are skipped there.
const MaxPreparedArity = 5

// ValidationSeverity indicates whether a validation finding makes the mesh
// unusable for subdivision or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // topology is broken
	SeverityWarning                           // topology is usable with limitations
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Vertex   int                // offending vertex, or NotFound for mesh-level findings
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Vertex == NotFound {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] vertex %d: %s", e.Severity, e.Vertex, e.Message)
}

// Validate runs all structural checks and returns the findings. An empty
// slice means the mesh is a consistent closed manifold whose faces the
// preparer can handle. Validate is read-only.
func (m *Mesh) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, m.validateIndices()...)
	if len(errs) > 0 {
		// The remaining checks walk neighborhoods and need valid indices.
		return errs
	}
	errs = append(errs, m.validateSymmetry()...)
	errs = append(errs, m.validateOrbits()...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	return lo.SomeBy(errs, func(e ValidationError) bool {
		return e.Severity == SeverityError
	})
}

// validateIndices checks that neighbor lists reference existing vertices,
// never the vertex itself and never the same neighbor twice.
func (m *Mesh) validateIndices() []ValidationError {
	var errs []ValidationError

	if len(m.Neighbors) != len(m.Vertices) {
		errs = append(errs, ValidationError{
			Vertex:   NotFound,
			Message:  fmt.Sprintf("%d neighbor lists for %d vertices", len(m.Neighbors), len(m.Vertices)),
			Severity: SeverityError,
		})
		return errs
	}

	for v, vn := range m.Neighbors {
		for _, u := range vn {
			switch {
			case !m.valid(u):
				errs = append(errs, ValidationError{
					Vertex:   v,
					Message:  fmt.Sprintf("neighbor %d is out of range", u),
					Severity: SeverityError,
				})
			case u == v:
				errs = append(errs, ValidationError{
					Vertex:   v,
					Message:  "vertex is its own neighbor",
					Severity: SeverityError,
				})
			}
		}
		if dups := lo.FindDuplicates(vn); len(dups) > 0 {
			errs = append(errs, ValidationError{
				Vertex:   v,
				Message:  fmt.Sprintf("duplicate neighbors %v", dups),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateSymmetry reports every vertex with a one-sided adjacency, using the
// same rule as Check.
func (m *Mesh) validateSymmetry() []ValidationError {
	var errs []ValidationError
	for v, vn := range m.Neighbors {
		for _, u := range vn {
			if !lo.Contains(m.Neighbors[u], v) {
				errs = append(errs, ValidationError{
					Vertex:   v,
					Message:  fmt.Sprintf("neighbor %d does not list it back", u),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateOrbits reports open face walks and faces the preparer will skip.
func (m *Mesh) validateOrbits() []ValidationError {
	var errs []ValidationError
	var face []int

	for v, vn := range m.Neighbors {
		if len(vn) < 2 {
			continue
		}
		for _, u := range vn {
			var closed bool
			face, closed = m.orbit(v, u, face)
			if !closed {
				errs = append(errs, ValidationError{
					Vertex:   v,
					Message:  fmt.Sprintf("face walk from edge %d->%d does not close", v, u),
					Severity: SeverityWarning,
				})
				continue
			}
			if len(face) > MaxPreparedArity && startsAtMin(face) {
				errs = append(errs, ValidationError{
					Vertex:   v,
					Message:  fmt.Sprintf("face of arity %d will not be prepared", len(face)),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return errs
}
