package factory

import (
	"math"

	"github.com/chazu/vvmesh/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// ErrNonManifold is returned by FromTriangles when the welded triangles do
// not form a closed two-manifold surface.
var ErrNonManifold = errors.New("triangles do not form a closed manifold")

// DefaultWeldTolerance is the welding distance used when a caller passes a
// non-positive tolerance.
const DefaultWeldTolerance = 1e-9

type weldKey [3]int64

// fan collects the triangles around one vertex as links b -> c, where the
// triangle (v, b, c) is counter-clockwise.
type fan struct {
	first int
	next  map[int]int
}

// FromTriangles welds a triangle soup into a vertex-vertex mesh. Corners
// closer than tolerance are merged. Triangles must be counter-clockwise seen
// from outside; triangles that collapse after welding are dropped. Every
// vertex must be surrounded by a single closed fan of triangles, otherwise
// ErrNonManifold is returned.
func FromTriangles(tris []*sdf.Triangle3, tolerance float64) (*mesh.Mesh, error) {
	if tolerance <= 0 {
		tolerance = DefaultWeldTolerance
	}

	m := &mesh.Mesh{}
	index := make(map[weldKey]int)
	key := func(p v3.Vec) weldKey {
		return weldKey{
			int64(math.Round(p.X / tolerance)),
			int64(math.Round(p.Y / tolerance)),
			int64(math.Round(p.Z / tolerance)),
		}
	}
	weld := func(k weldKey, p v3.Vec) int {
		if i, ok := index[k]; ok {
			return i
		}
		i := m.AddVertex(p)
		index[k] = i
		return i
	}

	var fans []*fan
	link := func(v, b, c int) error {
		for len(fans) <= v {
			fans = append(fans, nil)
		}
		f := fans[v]
		if f == nil {
			f = &fan{first: b, next: make(map[int]int)}
			fans[v] = f
		}
		if _, dup := f.next[b]; dup {
			return errors.Wrapf(ErrNonManifold, "edge %d->%d is shared by more than two triangles", v, b)
		}
		f.next[b] = c
		return nil
	}

	for n, t := range tris {
		if t == nil {
			continue
		}
		ka, kb, kc := key(t[0]), key(t[1]), key(t[2])
		if ka == kb || kb == kc || kc == ka {
			continue
		}
		a, b, c := weld(ka, t[0]), weld(kb, t[1]), weld(kc, t[2])
		for _, l := range [][3]int{{a, b, c}, {b, c, a}, {c, a, b}} {
			if err := link(l[0], l[1], l[2]); err != nil {
				return nil, errors.Wrapf(err, "triangle %d", n)
			}
		}
	}

	for v := range m.Vertices {
		if v >= len(fans) || fans[v] == nil {
			return nil, errors.Wrapf(ErrNonManifold, "vertex %d has no triangles", v)
		}
		vn, err := fans[v].ring()
		if err != nil {
			return nil, errors.Wrapf(err, "vertex %d", v)
		}
		m.Neighbors[v] = vn
	}

	return m, nil
}

// ring walks the links of the fan and returns the neighbors in order.
func (f *fan) ring() ([]int, error) {
	vn := make([]int, 0, len(f.next))
	b := f.first
	for range len(f.next) {
		vn = append(vn, b)
		c, ok := f.next[b]
		if !ok {
			return nil, errors.Wrapf(ErrNonManifold, "open fan at %d", b)
		}
		b = c
		if b == f.first {
			break
		}
	}
	if b != f.first || len(vn) != len(f.next) {
		return nil, errors.Wrap(ErrNonManifold, "fan is not a single cycle")
	}
	return vn, nil
}
