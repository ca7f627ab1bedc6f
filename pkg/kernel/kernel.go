// Package kernel defines the abstract solid kernel interface. A kernel
// builds solids from primitives, boolean operations and transforms, and
// turns them into closed vertex-vertex meshes that can be refined like any
// factory mesh. The abstraction allows swapping backends without changing
// the rest of the system.
package kernel

import (
	"github.com/chazu/vvmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max v3.Vec)
}

// Kernel is the abstract solid kernel interface.
type Kernel interface {
	// Primitives, centred at the origin.
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output. The result is a closed manifold with counter-clockwise
	// neighborhoods, made of triangles.
	ToMesh(s Solid) (*mesh.Mesh, error)
}
