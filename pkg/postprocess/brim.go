package postprocess

import (
	"fmt"
	"log"
	"math"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// GenerateBrim replaces the first layer with concentric outward
// offsets of its contours, printed from the outside in so the brim is
// laid down before the object walls. A brim cannot be combined with a
// raft, and must be generated before vertical sorting.
func GenerateBrim(r *slicer.Result, layerWidth float64, numberOfOffsets int) error {
	if err := r.RequireSliced(); err != nil {
		return err
	}
	if layerWidth <= 0 {
		return fmt.Errorf("layer width must be positive, got %v", layerWidth)
	}
	if numberOfOffsets < 1 {
		return fmt.Errorf("number of brim offsets must be at least 1, got %d", numberOfOffsets)
	}
	if len(r.VerticalLayers) > 0 {
		return fmt.Errorf("brim must be generated before sorting into vertical layers")
	}
	if len(r.Layers) == 0 {
		return fmt.Errorf("no layers to generate a brim for")
	}
	if r.Layers[0].IsRaft {
		return fmt.Errorf("raft found: cannot apply brim when raft is used, choose one")
	}
	log.Printf("postprocess: generating brim with layer width %v mm, %d offsets", layerWidth, numberOfOffsets)

	brim := &slicer.Layer{IsBrim: true, BrimOffsets: numberOfOffsets}
	for _, path := range r.Layers[0].Paths {
		z := path.Points[0].Z
		for i := 0; i < numberOfOffsets; i++ {
			pts := offsetPolygonXY(path.Points, float64(i)*layerWidth, z)
			if len(pts) > 0 {
				brim.Paths = append(brim.Paths, &slicer.Path{Points: pts, IsClosed: true})
			}
		}
	}

	// print from the outside towards the object
	for i, j := 0, len(brim.Paths)-1; i < j; i, j = i+1, j-1 {
		brim.Paths[i], brim.Paths[j] = brim.Paths[j], brim.Paths[i]
	}

	r.Layers[0] = brim
	return AlignSeams(r, AlignNextPath, geometry.Vector3{})
}

// offsetPolygonXY offsets a polygon outward in the xy plane by the
// given distance using mitered corners. The result lies at height z.
// Works for both windings; a zero offset returns a copy at height z.
func offsetPolygonXY(points []geometry.Vector3, offset float64, z float64) []geometry.Vector3 {
	n := len(points)
	if n < 3 {
		return nil
	}

	// signed area decides which side is outward
	area := 0.0
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	orient := 1.0
	if area < 0 {
		orient = -1.0
	}

	out := make([]geometry.Vector3, 0, n)
	for i := 0; i < n; i++ {
		prev := points[(i-1+n)%n]
		cur := points[i]
		next := points[(i+1)%n]

		p, ok := miterVertex(prev, cur, next, offset*orient)
		if !ok {
			continue
		}
		out = append(out, geometry.NewVector3(p[0], p[1], z))
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// miterVertex intersects the offset lines of the two edges meeting at
// cur. For a counterclockwise polygon a positive offset moves outward.
func miterVertex(prev, cur, next geometry.Vector3, offset float64) ([2]float64, bool) {
	n1, ok1 := edgeOutwardNormal(prev, cur)
	n2, ok2 := edgeOutwardNormal(cur, next)
	if !ok1 || !ok2 {
		return [2]float64{}, false
	}

	// offset edge endpoints
	a1 := [2]float64{prev.X + n1[0]*offset, prev.Y + n1[1]*offset}
	b1 := [2]float64{cur.X + n1[0]*offset, cur.Y + n1[1]*offset}
	a2 := [2]float64{cur.X + n2[0]*offset, cur.Y + n2[1]*offset}
	b2 := [2]float64{next.X + n2[0]*offset, next.Y + n2[1]*offset}

	d1 := [2]float64{b1[0] - a1[0], b1[1] - a1[1]}
	d2 := [2]float64{b2[0] - a2[0], b2[1] - a2[1]}
	denom := d1[0]*d2[1] - d1[1]*d2[0]
	if math.Abs(denom) < 1e-12 {
		// near-collinear corner, fall back to the edge offset point
		return b1, true
	}
	t := ((a2[0]-a1[0])*d2[1] - (a2[1]-a1[1])*d2[0]) / denom
	return [2]float64{a1[0] + t*d1[0], a1[1] + t*d1[1]}, true
}

// edgeOutwardNormal is the right-hand normal of the edge a->b, which
// points outward for counterclockwise polygons.
func edgeOutwardNormal(a, b geometry.Vector3) ([2]float64, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return [2]float64{}, false
	}
	return [2]float64{dy / l, -dx / l}, true
}
