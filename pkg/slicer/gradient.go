package slicer

import (
	"fmt"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/mesh"
)

// FaceGradients returns the gradient of a vertex scalar field on every
// face. Zero-area faces get a zero gradient.
func FaceGradients(m *mesh.Mesh, field []float64) []geometry.Vector3 {
	grads := make([]geometry.Vector3, m.FaceCount())
	for fi, f := range m.Faces {
		v0, v1, v2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		u0, u1, u2 := field[f[0]], field[f[1]], field[f[2]]

		tri := m.FaceTriangle(fi)
		area := tri.Area()
		if area == 0 {
			continue
		}
		n := m.FaceNormal(fi)

		// grad u = ((u1-u0) n x (v0-v2) + (u2-u0) n x (v1-v0)) / 2A
		g := n.Cross(v0.Sub(v2)).Mul(u1 - u0).
			Add(n.Cross(v1.Sub(v0)).Mul(u2 - u0)).
			Mul(1.0 / (2.0 * area))
		grads[fi] = g
	}
	return grads
}

// VertexGradients averages face gradients onto the vertices, weighted
// by face area.
func VertexGradients(m *mesh.Mesh, faceGradients []geometry.Vector3) []geometry.Vector3 {
	grads := make([]geometry.Vector3, m.VertexCount())
	weights := make([]float64, m.VertexCount())

	for fi, f := range m.Faces {
		area := m.FaceTriangle(fi).Area()
		for _, v := range f {
			grads[v] = grads[v].Add(faceGradients[fi].Mul(area))
			weights[v] += area
		}
	}
	for v := range grads {
		if weights[v] > 0 {
			grads[v] = grads[v].Mul(1.0 / weights[v])
		}
	}
	return grads
}

// GradientEvaluation classifies the critical points of a scalar field
// on the mesh and carries its face and vertex gradients.
type GradientEvaluation struct {
	Minima  []int
	Maxima  []int
	Saddles []int

	FaceGradient   []geometry.Vector3
	VertexGradient []geometry.Vector3
}

// EvaluateGradient computes gradients and critical points of a vertex
// scalar field. A vertex is classified by counting the sign changes of
// the field difference around its ordered one-ring: no change is an
// extremum, two changes a regular point, more an (even) saddle.
func EvaluateGradient(m *mesh.Mesh, field []float64) (*GradientEvaluation, error) {
	if len(field) != m.VertexCount() {
		return nil, fmt.Errorf("scalar field has %d values, mesh has %d vertices", len(field), m.VertexCount())
	}

	eval := &GradientEvaluation{
		FaceGradient: FaceGradients(m, field),
	}
	eval.VertexGradient = VertexGradients(m, eval.FaceGradient)

	for v := 0; v < m.VertexCount(); v++ {
		ring := m.OrderedVertexNeighbors(v)
		if len(ring) == 0 {
			continue
		}
		ring = append(ring, ring[0])

		var diffs []float64
		for _, n := range ring {
			if d := field[v] - field[n]; d != 0 {
				diffs = append(diffs, d)
			}
		}

		switch sgc := countSignChanges(diffs); {
		case sgc == 0:
			if field[v] > field[ring[0]] {
				eval.Maxima = append(eval.Maxima, v)
			} else {
				eval.Minima = append(eval.Minima, v)
			}
		case sgc > 2 && sgc%2 == 0:
			eval.Saddles = append(eval.Saddles, v)
		}
	}
	return eval, nil
}

func countSignChanges(values []float64) int {
	count := 0
	for i := 1; i < len(values); i++ {
		if values[i-1]*values[i] < 0 {
			count++
		}
	}
	return count
}
