package slicer

import (
	"fmt"
	"log"
	"math"

	"github.com/philipparndt/goslice/pkg/mesh"
)

// HeightRange restricts planar slicing to a part of the model. Start
// and End are measured from the mesh minimum height.
type HeightRange struct {
	Start, End float64
}

// PlanarConfig configures a PlanarSlicer.
type PlanarConfig struct {
	LayerHeight float64
	HeightRange *HeightRange
}

func (c PlanarConfig) validate() error {
	if c.LayerHeight <= 0 {
		return fmt.Errorf("layer height must be positive, got %v", c.LayerHeight)
	}
	if r := c.HeightRange; r != nil {
		if r.Start < 0 || r.End <= r.Start {
			return fmt.Errorf("invalid height range [%v %v]", r.Start, r.End)
		}
	}
	return nil
}

// PlanarSlicer generates contours parallel to the xy plane, spaced by
// the layer height starting at the mesh minimum height.
type PlanarSlicer struct {
	mesh   *mesh.Mesh
	cfg    PlanarConfig
	result *Result
}

// NewPlanarSlicer creates a planar slicer. The configuration is
// validated here; SliceModel does the work.
func NewPlanarSlicer(m *mesh.Mesh, cfg PlanarConfig) (*PlanarSlicer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &PlanarSlicer{
		mesh:   m,
		cfg:    cfg,
		result: NewResult(m, cfg.LayerHeight),
	}, nil
}

// Result returns the slicing result.
func (s *PlanarSlicer) Result() *Result { return s.result }

// SliceModel slices the mesh into horizontal layers.
func (s *PlanarSlicer) SliceModel() error {
	zmin, zmax := s.mesh.ZBounds()

	if r := s.cfg.HeightRange; r != nil {
		if zmin+r.Start <= zmax && zmin+r.End <= zmax {
			zmax = zmin + r.End
			zmin = zmin + r.Start
		} else {
			s.result.AddDiagnostic("height-range",
				"height range [%v %v] out of bounds, slicing the full model", r.Start, r.End)
		}
	}

	field := make([]float64, s.mesh.VertexCount())
	for i, v := range s.mesh.Vertices {
		field[i] = v.Z
	}

	noOfLayers := int(math.Abs(zmax-zmin)/s.cfg.LayerHeight) + 1
	log.Printf("slicer: planar slicing into %d layers, layer height %v", noOfLayers, s.cfg.LayerHeight)

	var layers []*Layer
	for i := 0; i < noOfLayers; i++ {
		threshold := zmin + float64(i)*s.cfg.LayerHeight
		contours := extractContours(s.mesh, field, threshold)
		if len(contours) == 0 {
			continue
		}
		layer := &Layer{}
		for _, c := range contours {
			layer.Paths = append(layer.Paths, &Path{Points: c.points, IsClosed: c.closed})
		}
		layers = append(layers, layer)
	}

	return s.result.SetLayers(layers)
}
