package slicer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/philipparndt/goslice/pkg/mesh"
)

// GeodesicDistances returns, for every vertex, the shortest distance
// along mesh edges to the nearest of the source vertices. Distances
// are computed with a single Dijkstra run from a virtual node that is
// connected to all sources with zero-weight edges. Unreachable
// vertices get +Inf.
func GeodesicDistances(m *mesh.Mesh, sources []int) ([]float64, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no source vertices given")
	}
	for _, s := range sources {
		if s < 0 || s >= m.VertexCount() {
			return nil, fmt.Errorf("source vertex %d out of range, mesh has %d vertices", s, m.VertexCount())
		}
	}

	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for v := 0; v < m.VertexCount(); v++ {
		g.AddNode(simple.Node(int64(v)))
	}
	for i, e := range m.Edges {
		g.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(int64(e.V[0])),
			T: simple.Node(int64(e.V[1])),
			W: m.EdgeLength(i),
		})
	}

	virtual := int64(m.VertexCount())
	g.AddNode(simple.Node(virtual))
	for _, s := range sources {
		g.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(virtual),
			T: simple.Node(int64(s)),
			W: 0,
		})
	}

	shortest := path.DijkstraFrom(simple.Node(virtual), g)

	distances := make([]float64, m.VertexCount())
	for v := 0; v < m.VertexCount(); v++ {
		distances[v] = shortest.WeightTo(int64(v))
	}
	return distances, nil
}

func meanDistanceAt(distances []float64, vertices []int) float64 {
	if len(vertices) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range vertices {
		total += distances[v]
	}
	return total / float64(len(vertices))
}
