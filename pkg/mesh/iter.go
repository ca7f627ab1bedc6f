package mesh

// Edges calls fn once for every undirected edge, as the pair (a, b) with a < b.
func (m *Mesh) Edges(fn func(a, b int)) {
	for a, an := range m.Neighbors {
		for _, b := range an {
			if a < b {
				fn(a, b)
			}
		}
	}
}

// Faces calls fn once for every closed face of arity 3 or more. The face is
// passed in orbit order starting at its smallest vertex index. The slice is
// reused between calls and must be copied to be retained.
func (m *Mesh) Faces(fn func(face []int)) {
	var face []int
	for v, vn := range m.Neighbors {
		if len(vn) < 2 {
			continue
		}
		for _, u := range vn {
			var closed bool
			face, closed = m.orbit(v, u, face)
			if !closed || len(face) < 3 || !startsAtMin(face) {
				continue
			}
			fn(face)
		}
	}
}

// startsAtMin reports whether face[0] is strictly smaller than every other
// entry, which picks exactly one rotation of each face.
func startsAtMin(face []int) bool {
	for _, x := range face[1:] {
		if x <= face[0] {
			return false
		}
	}
	return true
}

// NumEdges returns the number of undirected edges.
func (m *Mesh) NumEdges() int {
	n := 0
	for _, vn := range m.Neighbors {
		n += len(vn)
	}
	return n / 2
}

// NumFaces returns the number of closed faces.
func (m *Mesh) NumFaces() int {
	n := 0
	m.Faces(func([]int) { n++ })
	return n
}

// EulerCharacteristic returns V - E + F.
func (m *Mesh) EulerCharacteristic() int {
	return m.NumVertices() - m.NumEdges() + m.NumFaces()
}

// FaceArities returns how many closed faces there are of each arity.
func (m *Mesh) FaceArities() map[int]int {
	arities := make(map[int]int)
	m.Faces(func(face []int) { arities[len(face)]++ })
	return arities
}

// IsClosed reports whether every directed edge lies on a closed face.
func (m *Mesh) IsClosed() bool {
	var face []int
	for v, vn := range m.Neighbors {
		for _, u := range vn {
			var closed bool
			if face, closed = m.orbit(v, u, face); !closed || len(face) < 3 {
				return false
			}
		}
	}
	return true
}

// OnlyArity reports whether the mesh is closed and all of its faces have the
// given arity.
func (m *Mesh) OnlyArity(arity int) bool {
	if m.NumVertices() == 0 || !m.IsClosed() {
		return false
	}
	arities := m.FaceArities()
	return len(arities) == 1 && arities[arity] > 0
}
