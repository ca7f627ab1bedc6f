package prepare

import (
	"github.com/chazu/vvmesh/pkg/factory"
	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/pkg/errors"
)

// Soup returns the compiled faces as counter-clockwise triangles, the form
// sdfx renders and writes.
func (p *Prepared) Soup() []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, p.NumFaces())
	p.EachTriangle(func(i0, i1, i2 int) {
		tris = append(tris, &sdf.Triangle3{p.Vertices[i0], p.Vertices[i1], p.Vertices[i2]})
	})
	return tris
}

// SaveSTL writes the compiled faces to path as a binary STL file.
func (p *Prepared) SaveSTL(path string) error {
	tris := p.Soup()
	if len(tris) == 0 {
		return errors.Errorf("prepare: no faces to write to %s", path)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return errors.Wrapf(err, "prepare: write %s", path)
	}
	return nil
}

// NormalsMesh returns a line mesh drawing every vertex normal with the given
// length.
func (p *Prepared) NormalsMesh(scale float64) *mesh.Mesh {
	return factory.Normals(p.Vertices, p.Normals, scale)
}
