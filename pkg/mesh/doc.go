// Package mesh implements a vertex-vertex polygon mesh. A mesh stores only
// vertex positions and, per vertex, the cyclic list of neighboring vertex
// indices. Edges and faces are implicit and recovered by walking neighbor
// lists (see Mesh.Orbit).
//
// Neighbor lists are ordered counter-clockwise around the outward direction
// of the surface, so that for a face (a, b, c, ...) the vertex following b in
// the neighborhood of a is the last vertex of that face.
//
// None of the primitives in this package panic or return errors on malformed
// topology. Lookups that fail return NotFound and edits degrade to no-ops.
package mesh
