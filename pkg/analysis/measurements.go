// Package analysis computes printability statistics for a model: its
// dimensions, surface area, edge lengths and mesh topology.
package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/mesh"
	"github.com/philipparndt/goslice/pkg/stl"
)

// MeasurementResult contains the measurements of a model and its
// welded mesh.
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int

	// welded mesh topology
	VertexCount   int
	EdgeCount     int
	BoundaryEdges int
	Watertight    bool
	Warnings      []mesh.Diagnostic

	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// AnalyzeModel measures a model and the mesh welded from it with the
// given tolerance.
func AnalyzeModel(model *stl.Model, weldTolerance float64) (*MeasurementResult, error) {
	m, err := model.Mesh(weldTolerance)
	if err != nil {
		return nil, fmt.Errorf("welding mesh: %w", err)
	}

	result := &MeasurementResult{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
		VertexCount:   m.VertexCount(),
		EdgeCount:     m.EdgeCount(),
		Warnings:      m.Warnings(),
	}
	result.Dimensions = result.BoundingBox.Size()
	result.Volume = result.BoundingBox.Volume()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for e := 0; e < m.EdgeCount(); e++ {
		length := m.EdgeLength(e)
		totalLength += length
		minLength = math.Min(minLength, length)
		maxLength = math.Max(maxLength, length)
		if m.Edges[e].IsBoundary() {
			result.BoundaryEdges++
		}
	}
	if m.EdgeCount() > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(m.EdgeCount())
	}
	result.Watertight = result.BoundaryEdges == 0 && len(result.Warnings) == 0

	return result, nil
}

// FormatVector formats a 3D vector for command line output.
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
