// Package postprocess modifies sliced paths before print organization:
// polyline simplification, seam control, brim and raft generation,
// and grouping into vertical layers.
package postprocess

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// SimplifyPaths reduces the point count of every path with the
// Ramer-Douglas-Peucker algorithm. Raft layers are left untouched and
// the seam point of closed paths stays in place. Running it twice with
// the same threshold is a no-op.
func SimplifyPaths(r *slicer.Result, threshold float64) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}
	if threshold <= 0 {
		return fmt.Errorf("simplification threshold must be positive, got %v", threshold)
	}

	remaining := 0
	for _, layer := range r.Layers {
		if layer.IsRaft {
			continue
		}
		for _, p := range layer.Paths {
			p.Points = rdp(p.Points, threshold)
			remaining += len(p.Points)
		}
	}
	r.MarkPostprocessed()
	log.Printf("postprocess: %d points remaining after simplification", remaining)
	return nil
}

// rdp keeps the endpoints and recursively keeps the point farthest
// from the chord while it deviates more than eps.
func rdp(points []geometry.Vector3, eps float64) []geometry.Vector3 {
	if len(points) < 3 {
		return points
	}

	maxDist := 0.0
	maxIdx := 0
	a, b := points[0], points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		if d := distanceToSegment(points[i], a, b); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= eps {
		return []geometry.Vector3{a, b}
	}

	left := rdp(points[:maxIdx+1], eps)
	right := rdp(points[maxIdx:], eps)
	return append(left[:len(left)-1], right...)
}

func distanceToSegment(p, a, b geometry.Vector3) float64 {
	ab := b.Sub(a)
	l2 := ab.LengthSquared()
	if l2 == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
