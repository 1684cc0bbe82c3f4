package postprocess

import (
	"fmt"
	"log"
	"sort"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// SortIntoVerticalLayers regroups the paths of the horizontal layers
// into vertical layers by centroid proximity: each path joins the
// vertical layer whose head centroid is nearest, if that is closer
// than distThreshold and the layer is below maxPaths. Otherwise a new
// vertical layer is started. maxPaths <= 0 means no limit.
//
// The horizontal layers are consumed; afterwards the result carries
// vertical layers only.
func SortIntoVerticalLayers(r *slicer.Result, distThreshold float64, maxPaths int) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}
	if distThreshold <= 0 {
		return fmt.Errorf("distance threshold must be positive, got %v", distThreshold)
	}

	vertical := []*slicer.VerticalLayer{{ID: 0}}
	for _, layer := range r.Layers {
		for _, path := range layer.Paths {
			target := selectVerticalLayer(vertical, path, distThreshold, maxPaths)
			if target == nil {
				target = &slicer.VerticalLayer{ID: vertical[len(vertical)-1].ID + 1}
				vertical = append(vertical, target)
			}
			target.AppendPath(path)
		}
	}

	log.Printf("postprocess: sorted into %d vertical layers", len(vertical))
	r.VerticalLayers = vertical
	r.Layers = nil
	r.MarkPostprocessed()
	return nil
}

func selectVerticalLayer(vertical []*slicer.VerticalLayer, path *slicer.Path, distThreshold float64, maxPaths int) *slicer.VerticalLayer {
	if len(vertical[0].Paths) == 0 {
		return vertical[0]
	}

	centroid := path.Centroid()
	var candidate *slicer.VerticalLayer
	best := 0.0
	for _, vl := range vertical {
		d := vl.HeadCentroid.Distance(centroid)
		if candidate == nil || d < best {
			candidate = vl
			best = d
		}
	}

	if best >= distThreshold {
		return nil
	}
	if maxPaths > 0 && len(candidate.Paths) >= maxPaths {
		return nil
	}
	return candidate
}

// ReorderVerticalLayers reorders vertical layers that span the same
// height band so the one whose head centroid is closest to alignPt is
// printed first. Groups of consecutive layers with equal z spans are
// sorted independently; the group order itself is preserved.
func ReorderVerticalLayers(r *slicer.Result, alignPt geometry.Vector3) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}
	if len(r.VerticalLayers) == 0 {
		return fmt.Errorf("no vertical layers, run SortIntoVerticalLayers first")
	}

	var reordered []*slicer.VerticalLayer
	for start := 0; start < len(r.VerticalLayers); {
		end := start + 1
		zmin, zmax := r.VerticalLayers[start].ZRange()
		for end < len(r.VerticalLayers) {
			lo, hi := r.VerticalLayers[end].ZRange()
			if lo != zmin || hi != zmax {
				break
			}
			end++
		}

		group := append([]*slicer.VerticalLayer(nil), r.VerticalLayers[start:end]...)
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].HeadCentroid.Distance(alignPt) < group[j].HeadCentroid.Distance(alignPt)
		})
		reordered = append(reordered, group...)
		start = end
	}

	r.VerticalLayers = reordered
	r.MarkPostprocessed()
	return nil
}
