package mesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// hasFinding returns true if errs contains a finding of the given severity
// whose message contains substr.
func hasFinding(errs []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, e := range errs {
		if e.Severity == sev && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateClean(t *testing.T) {
	errs := tetrahedron().Validate()
	assert.Empty(t, errs)
	assert.False(t, HasErrors(errs))
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Mesh)
		substr string
	}{
		{"out of range", func(m *Mesh) { m.Neighbors[0] = append(m.Neighbors[0], 9) }, "out of range"},
		{"self loop", func(m *Mesh) { m.Neighbors[0] = append(m.Neighbors[0], 0) }, "its own neighbor"},
		{"duplicate", func(m *Mesh) { m.Neighbors[0] = append(m.Neighbors[0], 1) }, "duplicate"},
		{"asymmetric", func(m *Mesh) { m.Erase(3, 0) }, "does not list it back"},
		{"missing lists", func(m *Mesh) { m.Neighbors = m.Neighbors[:3] }, "neighbor lists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tetrahedron()
			tt.mutate(m)
			errs := m.Validate()
			assert.True(t, HasErrors(errs))
			assert.True(t, hasFinding(errs, SeverityError, tt.substr), "findings: %v", errs)
		})
	}
}

func TestValidateOpenWalk(t *testing.T) {
	m := tetrahedron()
	m.Erase(0, 2)
	assert.True(t, hasFinding(m.Validate(), SeverityWarning, "does not close"))
}

func TestValidateLargeFace(t *testing.T) {
	errs := ring(6).Validate()
	assert.False(t, HasErrors(errs))
	assert.True(t, hasFinding(errs, SeverityWarning, "arity 6"))
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Vertex: 3, Message: "boom", Severity: SeverityWarning}
	assert.Equal(t, "[warning] vertex 3: boom", e.Error())

	e = ValidationError{Vertex: NotFound, Message: "boom", Severity: SeverityError}
	assert.Equal(t, "[error] boom", e.Error())
}
