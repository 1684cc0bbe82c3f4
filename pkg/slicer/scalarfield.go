package slicer

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/mesh"
)

// defaultMinPointsPerPath drops contour fragments that are too small
// to print.
const defaultMinPointsPerPath = 4

// ScalarFieldConfig configures a ScalarFieldSlicer.
type ScalarFieldConfig struct {
	// IsoCurves is the number of isocontour steps to generate.
	IsoCurves int
	// MinPointsPerPath drops shorter contours; zero uses the default.
	MinPointsPerPath int
}

func (c ScalarFieldConfig) validate() error {
	if c.IsoCurves < 1 {
		return fmt.Errorf("number of isocurves must be at least 1, got %d", c.IsoCurves)
	}
	if c.MinPointsPerPath < 0 {
		return fmt.Errorf("min points per path must not be negative, got %d", c.MinPointsPerPath)
	}
	return nil
}

// ScalarFieldSlicer generates the isocontours of a user-provided
// scalar field defined on the mesh vertices.
type ScalarFieldSlicer struct {
	mesh   *mesh.Mesh
	field  []float64
	cfg    ScalarFieldConfig
	result *Result
}

// NewScalarFieldSlicer creates a slicer for the given vertex field.
// The field must have one value per mesh vertex; it is shifted so its
// minimum becomes zero.
func NewScalarFieldSlicer(m *mesh.Mesh, field []float64, cfg ScalarFieldConfig) (*ScalarFieldSlicer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(field) != m.VertexCount() {
		return nil, fmt.Errorf("scalar field has %d values, mesh has %d vertices", len(field), m.VertexCount())
	}

	min := field[0]
	for _, f := range field {
		if f < min {
			min = f
		}
	}
	normalized := make([]float64, len(field))
	for i, f := range field {
		normalized[i] = f - min
	}

	return &ScalarFieldSlicer{
		mesh:   m,
		field:  normalized,
		cfg:    cfg,
		result: NewResult(m, 0),
	}, nil
}

// Result returns the slicing result.
func (s *ScalarFieldSlicer) Result() *Result { return s.result }

// SliceModel generates one layer per isovalue. The isovalues are
// evenly spaced over the field range; the first one is nudged a little
// off the field minimum where contours degenerate.
func (s *ScalarFieldSlicer) SliceModel() error {
	max := 0.0
	for _, f := range s.field {
		if f > max {
			max = f
		}
	}
	if max == 0 {
		return fmt.Errorf("scalar field is constant, nothing to contour")
	}

	minPoints := s.cfg.MinPointsPerPath
	if minPoints == 0 {
		minPoints = defaultMinPointsPerPath
	}

	step := max / float64(s.cfg.IsoCurves+1)
	log.Printf("slicer: scalar field slicing with %d isocurves, step %v", s.cfg.IsoCurves, step)

	var layers []*Layer
	for i := 0; i <= s.cfg.IsoCurves; i++ {
		threshold := float64(i) * step
		if i == 0 {
			threshold = 0.05 * step
		}
		layer := contoursToLayer(extractContours(s.mesh, s.field, threshold), minPoints)
		if layer != nil {
			layers = append(layers, layer)
		}
	}

	return s.result.SetLayers(layers)
}

// contoursToLayer keeps contours with at least minPoints points and
// wraps them in a layer, nil when nothing survives.
func contoursToLayer(contours []contour, minPoints int) *Layer {
	layer := &Layer{}
	for _, c := range contours {
		if len(c.points) < minPoints {
			continue
		}
		layer.Paths = append(layer.Paths, &Path{Points: c.points, IsClosed: c.closed})
	}
	if len(layer.Paths) == 0 {
		return nil
	}
	return layer
}
