package postprocess

import (
	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// UnifyPathsOrientation makes consecutive paths travel the same way:
// each path is compared against the previous path in its layer, or
// against the first path of the previous layer, and reversed when it
// runs in the opposite direction. Closed paths keep their seam point
// in front when reversed.
func UnifyPathsOrientation(r *slicer.Result) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}

	for i, layer := range r.Layers {
		for j, path := range layer.Paths {
			var reference *slicer.Path
			if j > 0 {
				reference = layer.Paths[j-1]
			} else if i > 0 && len(r.Layers[i-1].Paths) > 0 {
				reference = r.Layers[i-1].Paths[0]
			}
			if reference != nil {
				matchOrientation(path, reference)
			}
		}
	}
	r.MarkPostprocessed()
	return nil
}

func matchOrientation(path, reference *slicer.Path) {
	if len(path.Points) < 2 || len(reference.Points) < 2 {
		return
	}

	span := func(pts []geometry.Vector3) geometry.Vector3 {
		if len(pts) > 2 {
			return pts[0].Sub(pts[2]).Normalize()
		}
		return pts[0].Sub(pts[1]).Normalize()
	}

	if span(path.Points).Dot(span(reference.Points)) >= 0 {
		return
	}

	if path.IsClosed {
		path.Points = reverseKeepingSeam(path.Points)
	} else {
		path.Reverse()
	}
}

// reverseKeepingSeam reverses a closed loop while keeping the same
// point at the front.
func reverseKeepingSeam(pts []geometry.Vector3) []geometry.Vector3 {
	out := make([]geometry.Vector3, 0, len(pts))
	out = append(out, pts[0])
	for i := len(pts) - 1; i >= 1; i-- {
		out = append(out, pts[i])
	}
	return out
}
