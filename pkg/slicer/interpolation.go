package slicer

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/mesh"
)

// InterpolationConfig configures an InterpolationSlicer.
type InterpolationConfig struct {
	// AvgLayerHeight controls how many isocurves are generated over
	// the span between the two boundaries.
	AvgLayerHeight float64
	// MinPointsPerPath drops shorter contours; zero uses the default.
	MinPointsPerPath int
}

func (c InterpolationConfig) validate() error {
	if c.AvgLayerHeight <= 0 {
		return fmt.Errorf("average layer height must be positive, got %v", c.AvgLayerHeight)
	}
	if c.MinPointsPerPath < 0 {
		return fmt.Errorf("min points per path must not be negative, got %d", c.MinPointsPerPath)
	}
	return nil
}

// InterpolationSlicer generates non-planar contours that gradually
// interpolate between two user-defined boundary regions of the mesh.
// The blend is driven by geodesic distance fields from the low and the
// high boundary.
type InterpolationSlicer struct {
	mesh       *mesh.Mesh
	low, high  []int
	cfg        InterpolationConfig
	result     *Result
	curveCount int
}

// NewInterpolationSlicer creates a slicer that interpolates from the
// low boundary vertices towards the high boundary vertices.
func NewInterpolationSlicer(m *mesh.Mesh, lowBoundary, highBoundary []int, cfg InterpolationConfig) (*InterpolationSlicer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(lowBoundary) == 0 || len(highBoundary) == 0 {
		return nil, fmt.Errorf("both boundaries need at least one vertex")
	}
	return &InterpolationSlicer{
		mesh:   m,
		low:    lowBoundary,
		high:   highBoundary,
		cfg:    cfg,
		result: NewResult(m, cfg.AvgLayerHeight),
	}, nil
}

// Result returns the slicing result.
func (s *InterpolationSlicer) Result() *Result { return s.result }

// IsoCurveCount returns the number of isocurves of the last run.
func (s *InterpolationSlicer) IsoCurveCount() int { return s.curveCount }

// SliceModel generates one layer per interpolation parameter. For a
// parameter t the field (1-t)*dLow - t*dHigh is contoured at zero, so
// t=0 hugs the low boundary and t=1 the high one.
func (s *InterpolationSlicer) SliceModel() error {
	dLow, err := GeodesicDistances(s.mesh, s.low)
	if err != nil {
		return fmt.Errorf("low boundary: %w", err)
	}
	dHigh, err := GeodesicDistances(s.mesh, s.high)
	if err != nil {
		return fmt.Errorf("high boundary: %w", err)
	}

	s.curveCount = isoCurveCount(
		meanDistanceAt(dLow, s.high), meanDistanceAt(dHigh, s.low), s.cfg.AvgLayerHeight)
	params := InterpolationParameters(s.curveCount)
	log.Printf("slicer: interpolation slicing with %d isocurves", s.curveCount)

	minPoints := s.cfg.MinPointsPerPath
	if minPoints == 0 {
		minPoints = defaultMinPointsPerPath
	}

	field := make([]float64, s.mesh.VertexCount())
	var layers []*Layer
	for _, t := range params {
		for v := range field {
			field[v] = (1-t)*dLow[v] - t*dHigh[v]
		}
		layer := contoursToLayer(extractContours(s.mesh, field, 0), minPoints)
		if layer != nil {
			layers = append(layers, layer)
		}
	}

	return s.result.SetLayers(layers)
}

// isoCurveCount covers the average geodesic span between the
// boundaries with curves spaced by the average layer height.
func isoCurveCount(avgLowToHigh, avgHighToLow, avgLayerHeight float64) int {
	n := int((avgLowToHigh + avgHighToLow) * 0.5 / avgLayerHeight)
	if n < 1 {
		return 1
	}
	return n
}

// InterpolationParameters returns the interpolation parameters for n
// curves: n evenly spaced values in (0,1) followed by 0.997, which
// lands the final curve just inside the high boundary.
func InterpolationParameters(n int) []float64 {
	params := make([]float64, 0, n+1)
	for i := 1; i <= n; i++ {
		params = append(params, float64(i)/float64(n+1))
	}
	return append(params, 0.997)
}
