package organizer

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/philipparndt/goslice/pkg/slicer"
)

// SortVerticalLayersTopologically orders the vertical layers of a
// branching print so every part is printed after the parts it rests
// on. Layer b rests on layer a when b starts within heightTolerance
// above some height of a and their footprints come closer than
// proximityThreshold in the xy plane. A cyclic dependency means the
// print is not feasible and is reported as an error.
func SortVerticalLayersTopologically(r *slicer.Result, heightTolerance, proximityThreshold float64) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}
	if heightTolerance <= 0 || proximityThreshold <= 0 {
		return fmt.Errorf("tolerances must be positive")
	}
	layers := r.VerticalLayers
	if len(layers) == 0 {
		return fmt.Errorf("no vertical layers, run SortIntoVerticalLayers first")
	}
	if len(layers) < 2 {
		return nil
	}
	log.Printf("organizer: topological sorting of %d vertical layers", len(layers))

	g := simple.NewDirectedGraph()
	for i := range layers {
		g.AddNode(simple.Node(i))
	}
	for i, a := range layers {
		for j, b := range layers {
			if i == j {
				continue
			}
			if restsOn(b, a, heightTolerance, proximityThreshold) {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}

	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		return fmt.Errorf("vertical layers form a cyclic dependency, print is not feasible: %w", err)
	}

	ordered := make([]*slicer.VerticalLayer, 0, len(layers))
	for _, node := range sorted {
		ordered = append(ordered, layers[int(node.ID())])
	}
	for i, vl := range ordered {
		vl.ID = i
	}
	r.VerticalLayers = ordered
	r.MarkPostprocessed()
	return nil
}

// restsOn reports whether b starts on top of a: the base of b lies
// within the height span of a (plus tolerance) and the two come close
// enough in the xy plane.
func restsOn(b, a *slicer.VerticalLayer, heightTolerance, proximityThreshold float64) bool {
	aMin, aMax := a.ZRange()
	bMin, _ := b.ZRange()
	if bMin <= aMin || bMin > aMax+heightTolerance {
		return false
	}

	head := b.Paths[0].Centroid()
	closest := math.Inf(1)
	for _, path := range a.Paths {
		for _, pt := range path.Points {
			closest = math.Min(closest, pt.DistanceXY(head))
		}
	}
	return closest < proximityThreshold
}
