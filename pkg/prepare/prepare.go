// Package prepare turns a vertex-vertex mesh into render-ready primitives:
// index lists per primitive kind, one smoothed normal per vertex and the
// bounding box. Faces are found by walking orbits; faces of more than five
// vertices are skipped.
package prepare

import (
	"slices"

	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Prepared holds the compiled primitives of a mesh. Index lists refer to
// Vertices and Normals.
type Prepared struct {
	Vertices []v3.Vec
	Normals  []v3.Vec

	Points    []int   // one index per isolated vertex
	Lines     []int   // two indices per segment
	Triangles []int   // three indices per triangle
	Quads     []int   // four indices per quad
	Polygons  [][]int // larger faces, up to mesh.MaxPreparedArity vertices

	Box sdf.Box3
}

// Compile walks every vertex of m. Vertices without neighbors become
// points, vertices with a single neighbor become line ends, and every other
// vertex contributes the faces around it. Each face is compiled once, from
// its smallest vertex index, and its normal (the cross product of its first
// two edges) is added to the normal of every vertex of the face. The summed
// normals are normalized at the end.
//
// Compile never fails; faces it can not handle are left out.
func Compile(m *mesh.Mesh) *Prepared {
	p := &Prepared{
		Vertices: slices.Clone(m.Vertices),
		Normals:  make([]v3.Vec, len(m.Vertices)),
	}
	if len(m.Vertices) == 0 {
		return p
	}

	p.Box = sdf.Box3{Min: m.Vertices[0], Max: m.Vertices[0]}
	var poly []int

	for vi, v := range m.Vertices {
		p.Box.Min = p.Box.Min.Min(v)
		p.Box.Max = p.Box.Max.Max(v)

		vn := m.Neighbors[vi]
		switch len(vn) {
		case 0:
			p.Points = append(p.Points, vi)
			continue
		case 1:
			// Emit each segment once, from its smaller end unless the
			// other end is part of a face.
			if u := vn[0]; vi < u || m.Degree(u) != 1 {
				p.Lines = append(p.Lines, vi, u)
			}
			continue
		}

		for _, u := range vn {
			poly = m.Orbit(vi, u, poly)
			o := len(poly)
			if o < 3 || o > mesh.MaxPreparedArity || !smallestFirst(poly) {
				continue
			}

			a, b := m.Vertices[poly[1]], m.Vertices[poly[2]]
			normal := a.Sub(v).Cross(b.Sub(v))
			for _, k := range poly {
				p.Normals[k] = p.Normals[k].Add(normal)
			}

			switch o {
			case 3:
				p.Triangles = append(p.Triangles, poly...)
			case 4:
				p.Quads = append(p.Quads, poly...)
			default:
				p.Polygons = append(p.Polygons, append([]int(nil), poly...))
			}
		}
	}

	for i, n := range p.Normals {
		if l := n.Length(); l > 0 {
			p.Normals[i] = n.DivScalar(l)
		}
	}

	return p
}

func smallestFirst(poly []int) bool {
	for _, x := range poly[1:] {
		if x <= poly[0] {
			return false
		}
	}
	return true
}

// NumFaces returns the number of compiled faces.
func (p *Prepared) NumFaces() int {
	return len(p.Triangles)/3 + len(p.Quads)/4 + len(p.Polygons)
}
