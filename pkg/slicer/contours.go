package slicer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/mesh"
)

// contour is one assembled polyline of edge crossings.
type contour struct {
	points []geometry.Vector3
	closed bool
}

// vertexHitShift nudges the threshold off exact vertex values so
// repeated extractions stay consistent.
const vertexHitShift = 1e-9

// extractContours assembles the level set {field == threshold} on the
// mesh into open and closed polylines. Crossing points are found per
// edge by linear interpolation, connected into a graph through their
// shared faces, and each connected component is walked from an end
// node (open) or an arbitrary node (closed).
func extractContours(m *mesh.Mesh, field []float64, threshold float64) []contour {
	threshold = avoidVertexHits(field, threshold)

	// one graph node per intersected mesh edge
	nodeOf := make(map[int]int64)
	crossEdge := make([]int, 0)
	crossPoint := make([]geometry.Vector3, 0)

	for ei, e := range m.Edges {
		f0 := field[e.V[0]] - threshold
		f1 := field[e.V[1]] - threshold
		if (f0 < 0) == (f1 < 0) {
			continue
		}
		t := f0 / (f0 - f1)
		p := m.Vertices[e.V[0]].Lerp(m.Vertices[e.V[1]], t)
		nodeOf[ei] = int64(len(crossEdge))
		crossEdge = append(crossEdge, ei)
		crossPoint = append(crossPoint, p)
	}
	if len(crossEdge) == 0 {
		return nil
	}

	g := simple.NewUndirectedGraph()
	for _, id := range nodeOf {
		g.AddNode(simple.Node(id))
	}
	for ei, id := range nodeOf {
		for _, fi := range m.Edges[ei].Faces {
			if fi == mesh.NoFace {
				continue
			}
			for _, other := range m.FaceEdges[fi] {
				if other == ei {
					continue
				}
				if otherID, ok := nodeOf[other]; ok && otherID != id {
					g.SetEdge(simple.Edge{F: simple.Node(id), T: simple.Node(otherID)})
				}
			}
		}
	}

	components := topo.ConnectedComponents(g)
	sort.Slice(components, func(i, j int) bool {
		return minNodeID(components[i]) < minNodeID(components[j])
	})

	var contours []contour
	for _, comp := range components {
		order := walkComponent(g, comp)
		if len(order) == 0 {
			continue
		}

		c := contour{points: make([]geometry.Vector3, 0, len(order))}
		for _, id := range order {
			c.points = append(c.points, crossPoint[id])
		}

		first := m.Edges[crossEdge[order[0]]]
		last := m.Edges[crossEdge[order[len(order)-1]]]
		c.closed = sharesVertex(first, last)
		contours = append(contours, c)
	}
	return contours
}

// avoidVertexHits moves the threshold off exact vertex values. The
// shift is positive except at the top of the field range, where it
// goes inward so the last contour is not pushed off the mesh.
func avoidVertexHits(field []float64, threshold float64) float64 {
	scale := 1.0
	max := math.Inf(-1)
	for _, f := range field {
		scale = math.Max(scale, math.Abs(f))
		max = math.Max(max, f)
	}
	dir := 1.0
	if threshold >= max {
		dir = -1.0
	}
	for attempt := 0; attempt < 8; attempt++ {
		hit := false
		for _, f := range field {
			if math.Abs(f-threshold) < 1e-12*scale {
				hit = true
				break
			}
		}
		if !hit {
			break
		}
		threshold += dir * vertexHitShift * scale
	}
	return threshold
}

func minNodeID(nodes []graph.Node) int64 {
	min := nodes[0].ID()
	for _, n := range nodes[1:] {
		if n.ID() < min {
			min = n.ID()
		}
	}
	return min
}

// walkComponent orders the nodes of one connected component with a
// depth first traversal. Open polylines start at a degree-1 node,
// closed loops at the smallest node id. Neighbors are visited smallest
// id first so the walk is deterministic.
func walkComponent(g *simple.UndirectedGraph, comp []graph.Node) []int64 {
	start := int64(-1)
	for _, n := range comp {
		if degreeOf(g, n.ID()) == 1 && (start == -1 || n.ID() < start) {
			start = n.ID()
		}
	}
	if start == -1 {
		start = minNodeID(comp)
	}

	visited := make(map[int64]bool, len(comp))
	order := make([]int64, 0, len(comp))
	stack := []int64{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		order = append(order, cur)

		var next []int64
		for _, n := range graph.NodesOf(g.From(cur)) {
			if !visited[n.ID()] {
				next = append(next, n.ID())
			}
		}
		// push larger ids first so the smaller neighbor is walked next
		sort.Slice(next, func(i, j int) bool { return next[i] > next[j] })
		stack = append(stack, next...)
	}
	return order
}

func degreeOf(g *simple.UndirectedGraph, id int64) int {
	return len(graph.NodesOf(g.From(id)))
}

func sharesVertex(a, b mesh.Edge) bool {
	return a.V[0] == b.V[0] || a.V[0] == b.V[1] || a.V[1] == b.V[0] || a.V[1] == b.V[1]
}
