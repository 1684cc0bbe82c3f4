package postprocess

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// AlignMode selects the seam alignment target.
type AlignMode int

const (
	// AlignNextPath orients each seam towards the neighboring path so
	// that travel moves between paths stay short.
	AlignNextPath AlignMode = iota
	// AlignOrigin orients all seams towards the world origin.
	AlignOrigin
	// AlignXAxis orients all seams towards +x.
	AlignXAxis
	// AlignYAxis orients all seams towards +y.
	AlignYAxis
	// AlignPoint orients all seams towards an explicit point.
	AlignPoint
)

// axisAlignDistance puts the axis alignment targets far enough out
// that they act as a direction.
const axisAlignDistance = float64(1 << 32)

// AlignSeams moves the seam (start point) of every closed path to the
// point closest to the alignment target, and reverses open paths whose
// end is closer to it. The point argument is only used with AlignPoint.
func AlignSeams(r *slicer.Result, mode AlignMode, point geometry.Vector3) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}

	for i, layer := range r.Layers {
		for j, path := range layer.Paths {
			target, ok := alignTarget(r, mode, point, i, j)
			if !ok {
				continue
			}
			if path.IsClosed {
				alignClosedPath(path, target)
			} else if path.Points[0].Distance(target) > path.Points[len(path.Points)-1].Distance(target) {
				path.Reverse()
			}
		}
	}
	r.MarkPostprocessed()
	return nil
}

func alignTarget(r *slicer.Result, mode AlignMode, point geometry.Vector3, i, j int) (geometry.Vector3, bool) {
	switch mode {
	case AlignOrigin:
		return geometry.Vector3{}, true
	case AlignXAxis:
		return geometry.NewVector3(axisAlignDistance, 0, 0), true
	case AlignYAxis:
		return geometry.NewVector3(0, axisAlignDistance, 0), true
	case AlignPoint:
		return point, true
	}

	// next path mode
	layer := r.Layers[i]
	last := func(p *slicer.Path) geometry.Vector3 { return p.Points[len(p.Points)-1] }
	switch {
	case len(layer.Paths) == 1 && i == 0:
		if len(r.Layers) > 1 && len(r.Layers[1].Paths) > 0 {
			return r.Layers[1].Paths[0].Points[0], true
		}
	case len(layer.Paths) == 1:
		prev := r.Layers[i-1]
		return last(prev.Paths[len(prev.Paths)-1]), true
	case i == 0 && j == 0:
		return last(layer.Paths[1]), true
	case j != 0:
		return last(layer.Paths[j-1]), true
	default: // first path of a later layer
		prev := r.Layers[i-1]
		return last(prev.Paths[len(prev.Paths)-1]), true
	}
	return geometry.Vector3{}, false
}

func alignClosedPath(path *slicer.Path, target geometry.Vector3) {
	pts := path.Points
	repeated := len(pts) > 1 && pts[0] == pts[len(pts)-1]
	if repeated {
		pts = pts[:len(pts)-1]
	}

	best := 0
	bestDist := pts[0].Distance(target)
	for i, p := range pts[1:] {
		if d := p.Distance(target); d < bestDist {
			bestDist = d
			best = i + 1
		}
	}

	shifted := make([]geometry.Vector3, 0, len(pts)+1)
	shifted = append(shifted, pts[best:]...)
	shifted = append(shifted, pts[:best]...)
	if repeated {
		shifted = append(shifted, shifted[0])
	}
	path.Points = shifted
}

// SmoothSeams evens out the layer transition of closed paths by
// removing the points within smoothDistance of the seam and inserting
// a single point at exactly that distance. Only layers consisting of a
// single path are smoothed; multi-path layers get a diagnostic.
func SmoothSeams(r *slicer.Result, smoothDistance float64) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}
	if smoothDistance <= 0 {
		return fmt.Errorf("smooth distance must be positive, got %v", smoothDistance)
	}
	log.Printf("postprocess: smoothing seams with a distance of %v mm", smoothDistance)

	for i, layer := range r.Layers {
		if len(layer.Paths) != 1 {
			r.AddDiagnostic("seam-smooth",
				"layer %d has %d paths, seam smoothing needs a single path, skipped", i, len(layer.Paths))
			continue
		}
		smoothPathSeam(layer.Paths[0], smoothDistance)
	}
	for _, vl := range r.VerticalLayers {
		for _, p := range vl.Paths {
			smoothPathSeam(p, smoothDistance)
		}
	}
	r.MarkPostprocessed()
	return nil
}

func smoothPathSeam(path *slicer.Path, smoothDistance float64) {
	if !path.IsClosed || len(path.Points) < 3 {
		return
	}
	seam := path.Points[0]
	half := make([]geometry.Vector3, len(path.Points)/2)
	copy(half, path.Points[:len(path.Points)/2])

	for _, p := range half {
		if seam.Distance(p) < smoothDistance {
			path.Points = path.Points[1:]
			continue
		}
		dir := p.Sub(seam).Normalize()
		entry := seam.Add(dir.Mul(smoothDistance))
		path.Points = append([]geometry.Vector3{entry}, path.Points...)
		path.Points = path.Points[:len(path.Points)-1]
		break
	}
}
