package postprocess

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// Axis selects the direction of the raft fill lines.
type Axis int

const (
	XAxis Axis = iota
	YAxis
)

// RaftConfig configures GenerateRaft.
type RaftConfig struct {
	// Offset expands the raft footprint beyond the first layer, in mm.
	Offset float64
	// DistanceBetweenPaths spaces the parallel fill lines.
	DistanceBetweenPaths float64
	// Direction aligns the fill lines with the x or the y axis.
	Direction Axis
	// Layers is the number of raft layers, at least 1.
	Layers int
	// LayerHeight of the raft layers; zero uses the slicing layer height.
	LayerHeight float64
}

func (c RaftConfig) validate() error {
	if c.Offset < 0 {
		return fmt.Errorf("raft offset must not be negative, got %v", c.Offset)
	}
	if c.DistanceBetweenPaths <= 0 {
		return fmt.Errorf("distance between raft paths must be positive, got %v", c.DistanceBetweenPaths)
	}
	if c.Layers < 1 {
		return fmt.Errorf("raft needs at least 1 layer, got %d", c.Layers)
	}
	if c.Direction != XAxis && c.Direction != YAxis {
		return fmt.Errorf("unknown raft direction %d", c.Direction)
	}
	return nil
}

// GenerateRaft inserts raft layers below the model: a zigzag of
// parallel lines filling the expanded bounding box of the first layer.
// The model layers are lifted so the raft fits underneath. A raft
// cannot be combined with a brim, and must be generated before
// vertical sorting.
func GenerateRaft(r *slicer.Result, cfg RaftConfig) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if len(r.VerticalLayers) > 0 {
		return fmt.Errorf("raft must be generated before sorting into vertical layers")
	}
	if len(r.Layers) == 0 {
		return fmt.Errorf("no layers to generate a raft for")
	}
	if r.Layers[0].IsBrim {
		return fmt.Errorf("brim found: cannot apply raft when brim is used, choose one")
	}

	layerHeight := cfg.LayerHeight
	if layerHeight == 0 {
		layerHeight = r.LayerHeight
	}
	if layerHeight <= 0 {
		return fmt.Errorf("raft layer height must be positive, got %v", layerHeight)
	}
	log.Printf("postprocess: generating raft with %d layers", cfg.Layers)

	// footprint: expanded xy bounding box of the first layer
	var firstLayerPoints []geometry.Vector3
	for _, p := range r.Layers[0].Paths {
		firstLayerPoints = append(firstLayerPoints, p.Points...)
	}
	if len(firstLayerPoints) == 0 {
		return fmt.Errorf("first layer has no points")
	}
	bb := geometry.BoundingBoxOf(firstLayerPoints).Expand(cfg.Offset)
	xRange := bb.Size().X
	yRange := bb.Size().Y

	var steps int
	if cfg.Direction == YAxis {
		steps = int(xRange / cfg.DistanceBetweenPaths)
	} else {
		steps = int(yRange / cfg.DistanceBetweenPaths)
	}

	baseZ := r.Layers[0].Paths[0].Points[0].Z

	// lift the model so the raft fits underneath
	lift := float64(cfg.Layers-1) * layerHeight
	if lift > 0 {
		for _, layer := range r.Layers {
			for _, path := range layer.Paths {
				for k, pt := range path.Points {
					path.Points[k] = geometry.NewVector3(pt.X, pt.Y, pt.Z+lift)
				}
			}
		}
	}

	rafts := make([]*slicer.Layer, 0, cfg.Layers)
	for i := 0; i < cfg.Layers; i++ {
		z := baseZ + float64(i)*layerHeight
		points := make([]geometry.Vector3, 0, 2*(steps+1))
		for j := 0; j <= steps; j++ {
			var p1, p2 geometry.Vector3
			if cfg.Direction == YAxis {
				x := bb.Min.X + float64(j)*cfg.DistanceBetweenPaths
				p1 = geometry.NewVector3(x, bb.Min.Y, z)
				p2 = geometry.NewVector3(x, bb.Min.Y+yRange, z)
			} else {
				y := bb.Min.Y + float64(j)*cfg.DistanceBetweenPaths
				p1 = geometry.NewVector3(bb.Min.X, y, z)
				p2 = geometry.NewVector3(bb.Min.X+xRange, y, z)
			}
			// zigzag: alternate the direction of every other line
			if j%2 == 0 {
				points = append(points, p1, p2)
			} else {
				points = append(points, p2, p1)
			}
		}
		rafts = append(rafts, &slicer.Layer{
			IsRaft: true,
			Paths:  []*slicer.Path{{Points: points, IsClosed: false}},
		})
	}

	r.Layers = append(rafts, r.Layers...)
	r.MarkPostprocessed()
	return nil
}
