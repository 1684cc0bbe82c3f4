// Package mesh provides an indexed triangle mesh with the connectivity
// tables needed for slicing: edge incidence, vertex adjacency and
// per-face normals.
package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/goslice/pkg/geometry"
)

// NoFace marks an absent incident face in an edge record.
const NoFace = -1

// Edge connects two vertices and records the faces on either side.
// V is stored with the smaller vertex index first. Boundary edges
// have Faces[1] == NoFace.
type Edge struct {
	V     [2]int
	Faces [2]int
}

// IsBoundary reports whether the edge has only one incident face.
func (e Edge) IsBoundary() bool {
	return e.Faces[1] == NoFace
}

// Diagnostic records a non-fatal geometry irregularity found while
// building or querying a mesh.
type Diagnostic struct {
	Code    string
	Message string
}

// Mesh is an indexed triangle mesh. Vertices and faces are stored in
// flat arrays; all cross references are integer indices into them.
type Mesh struct {
	Vertices []geometry.Vector3
	Faces    [][3]int

	// Edges is the unique edge table; FaceEdges[f][k] is the index of
	// the edge between Faces[f][k] and Faces[f][(k+1)%3].
	Edges     []Edge
	FaceEdges [][3]int

	edgeIndex   map[[2]int]int
	neighbors   [][]int
	faceNormals []geometry.Vector3
	warnings    []Diagnostic
}

// New builds a mesh from a vertex array and a face-vertex table.
// Face indices out of range are an error. Degenerate faces (repeated
// vertices) are dropped with a diagnostic, and edges with more than
// two incident faces are reported but keep their first two faces.
func New(vertices []geometry.Vector3, faces [][3]int) (*Mesh, error) {
	m := &Mesh{
		Vertices:  vertices,
		edgeIndex: make(map[[2]int]int),
	}

	for i, f := range faces {
		for _, v := range f {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, v, len(vertices))
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			m.warn("degenerate-face", fmt.Sprintf("face %d has repeated vertices, dropped", i))
			continue
		}
		m.Faces = append(m.Faces, f)
	}

	m.buildEdges()
	m.buildNeighbors()
	m.buildFaceNormals()
	return m, nil
}

// FromTriangles welds triangle soup into an indexed mesh. Vertices
// closer than tol are merged.
func FromTriangles(triangles []geometry.Triangle, tol float64) (*Mesh, error) {
	if tol <= 0 {
		tol = 1e-6
	}

	type key [3]int64
	quantize := func(p geometry.Vector3) key {
		return key{
			int64(math.Round(p.X / tol)),
			int64(math.Round(p.Y / tol)),
			int64(math.Round(p.Z / tol)),
		}
	}

	index := make(map[key]int)
	var vertices []geometry.Vector3
	lookup := func(p geometry.Vector3) int {
		k := quantize(p)
		if i, ok := index[k]; ok {
			return i
		}
		i := len(vertices)
		vertices = append(vertices, p)
		index[k] = i
		return i
	}

	faces := make([][3]int, 0, len(triangles))
	for _, t := range triangles {
		faces = append(faces, [3]int{lookup(t.V1), lookup(t.V2), lookup(t.V3)})
	}

	return New(vertices, faces)
}

func (m *Mesh) warn(code, message string) {
	m.warnings = append(m.warnings, Diagnostic{Code: code, Message: message})
}

// Warnings returns the diagnostics collected while building the mesh.
func (m *Mesh) Warnings() []Diagnostic {
	return m.warnings
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (m *Mesh) buildEdges() {
	m.FaceEdges = make([][3]int, len(m.Faces))
	for fi, f := range m.Faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			key := edgeKey(a, b)
			ei, ok := m.edgeIndex[key]
			if !ok {
				ei = len(m.Edges)
				m.Edges = append(m.Edges, Edge{V: key, Faces: [2]int{fi, NoFace}})
				m.edgeIndex[key] = ei
			} else {
				e := &m.Edges[ei]
				if e.Faces[1] == NoFace {
					e.Faces[1] = fi
				} else {
					m.warn("non-manifold-edge",
						fmt.Sprintf("edge %d-%d has more than two incident faces", key[0], key[1]))
				}
			}
			m.FaceEdges[fi][k] = ei
		}
	}
}

func (m *Mesh) buildNeighbors() {
	m.neighbors = make([][]int, len(m.Vertices))
	for _, e := range m.Edges {
		m.neighbors[e.V[0]] = append(m.neighbors[e.V[0]], e.V[1])
		m.neighbors[e.V[1]] = append(m.neighbors[e.V[1]], e.V[0])
	}
	for _, n := range m.neighbors {
		sort.Ints(n)
	}
}

func (m *Mesh) buildFaceNormals() {
	m.faceNormals = make([]geometry.Vector3, len(m.Faces))
	for fi, f := range m.Faces {
		v0 := m.Vertices[f[0]]
		e1 := m.Vertices[f[1]].Sub(v0)
		e2 := m.Vertices[f[2]].Sub(v0)
		n := e1.Cross(e2)
		if n.IsZero() {
			m.warn("zero-area-face", fmt.Sprintf("face %d has zero area", fi))
			m.faceNormals[fi] = geometry.NewVector3(0, 0, 1)
			continue
		}
		m.faceNormals[fi] = n.Normalize()
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// EdgeCount returns the number of unique edges.
func (m *Mesh) EdgeCount() int { return len(m.Edges) }

// EdgeBetween returns the index of the edge connecting vertices a and b.
func (m *Mesh) EdgeBetween(a, b int) (int, bool) {
	ei, ok := m.edgeIndex[edgeKey(a, b)]
	return ei, ok
}

// VertexNeighbors returns the vertices adjacent to v, sorted by index.
func (m *Mesh) VertexNeighbors(v int) []int {
	return m.neighbors[v]
}

// FaceNormal returns the unit normal of face f.
func (m *Mesh) FaceNormal(f int) geometry.Vector3 {
	return m.faceNormals[f]
}

// FaceCentroid returns the centroid of face f.
func (m *Mesh) FaceCentroid(f int) geometry.Vector3 {
	fv := m.Faces[f]
	return geometry.Centroid([]geometry.Vector3{
		m.Vertices[fv[0]], m.Vertices[fv[1]], m.Vertices[fv[2]],
	})
}

// FaceTriangle returns face f as a geometry triangle.
func (m *Mesh) FaceTriangle(f int) geometry.Triangle {
	fv := m.Faces[f]
	return geometry.NewTriangle(m.faceNormals[f],
		m.Vertices[fv[0]], m.Vertices[fv[1]], m.Vertices[fv[2]])
}

// ZBounds returns the minimum and maximum vertex z coordinates.
func (m *Mesh) ZBounds() (zmin, zmax float64) {
	zmin, zmax = math.Inf(1), math.Inf(-1)
	for _, v := range m.Vertices {
		zmin = math.Min(zmin, v.Z)
		zmax = math.Max(zmax, v.Z)
	}
	return zmin, zmax
}

// BoundingBox returns the axis-aligned bounding box of all vertices.
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	return geometry.BoundingBoxOf(m.Vertices)
}

// BoundaryVertices returns the indices of vertices on boundary edges,
// sorted by index.
func (m *Mesh) BoundaryVertices() []int {
	seen := make(map[int]bool)
	for _, e := range m.Edges {
		if e.IsBoundary() {
			seen[e.V[0]] = true
			seen[e.V[1]] = true
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// OrderedVertexNeighbors returns the one-ring neighbors of v ordered by
// walking the incident faces around the vertex. For boundary vertices
// the walk starts at a boundary edge. Returns nil when the fan around v
// cannot be ordered (non-manifold neighborhood).
func (m *Mesh) OrderedVertexNeighbors(v int) []int {
	succ := make(map[int]int)
	indegree := make(map[int]int)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			if f[k] == v {
				a, b := f[(k+1)%3], f[(k+2)%3]
				if _, dup := succ[a]; dup {
					return nil
				}
				succ[a] = b
				indegree[b]++
			}
		}
	}
	if len(succ) == 0 {
		return nil
	}

	start := -1
	for a := range succ {
		if indegree[a] == 0 && (start == -1 || a < start) {
			start = a
		}
	}
	if start == -1 {
		// closed fan, pick the smallest neighbor for determinism
		for a := range succ {
			if start == -1 || a < start {
				start = a
			}
		}
	}

	ring := []int{start}
	cur := start
	for len(ring) <= len(succ) {
		next, ok := succ[cur]
		if !ok || next == start {
			break
		}
		ring = append(ring, next)
		cur = next
	}
	return ring
}

// EdgeLength returns the length of edge e.
func (m *Mesh) EdgeLength(e int) float64 {
	edge := m.Edges[e]
	return m.Vertices[edge.V[0]].Distance(m.Vertices[edge.V[1]])
}

// AverageEdgeLength returns the mean edge length, zero for an empty mesh.
func (m *Mesh) AverageEdgeLength() float64 {
	if len(m.Edges) == 0 {
		return 0
	}
	total := 0.0
	for i := range m.Edges {
		total += m.EdgeLength(i)
	}
	return total / float64(len(m.Edges))
}
