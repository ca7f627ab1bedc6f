package prepare

// Buffers is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Buffers struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Lines    []uint32  `json:"lines"`    // [i0,i1, ...] segments
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty returns true if the buffers hold no geometry.
func (b *Buffers) IsEmpty() bool {
	return len(b.Vertices) == 0
}

// Buffers flattens the compiled mesh. Quads and polygons are split into
// triangle fans around their first vertex. Points are not included.
func (p *Prepared) Buffers() *Buffers {
	b := &Buffers{
		Vertices: make([]float32, 0, 3*len(p.Vertices)),
		Normals:  make([]float32, 0, 3*len(p.Normals)),
		Indices:  make([]uint32, 0, len(p.Triangles)+len(p.Quads)*3/2),
		Lines:    make([]uint32, 0, len(p.Lines)),
	}

	for _, v := range p.Vertices {
		b.Vertices = append(b.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
	}
	for _, n := range p.Normals {
		b.Normals = append(b.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}

	p.EachTriangle(func(i0, i1, i2 int) {
		b.Indices = append(b.Indices, uint32(i0), uint32(i1), uint32(i2))
	})
	for _, i := range p.Lines {
		b.Lines = append(b.Lines, uint32(i))
	}

	return b
}

// EachTriangle calls fn for every triangle of the compiled mesh, fanning
// quads and polygons around their first vertex.
func (p *Prepared) EachTriangle(fn func(i0, i1, i2 int)) {
	for i := 0; i+2 < len(p.Triangles); i += 3 {
		fn(p.Triangles[i], p.Triangles[i+1], p.Triangles[i+2])
	}
	for i := 0; i+3 < len(p.Quads); i += 4 {
		fan(p.Quads[i:i+4], fn)
	}
	for _, poly := range p.Polygons {
		fan(poly, fn)
	}
}

func fan(poly []int, fn func(i0, i1, i2 int)) {
	for k := 1; k+1 < len(poly); k++ {
		fn(poly[0], poly[k], poly[k+1])
	}
}
