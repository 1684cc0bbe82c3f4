package organizer

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/geometry"
)

// SmoothAttribute iteratively averages a scalar print point attribute
// with its neighbors. All print points are treated as one continuous
// sequence. On each iteration the interior values become
//
//	0.5*(prev + next)*strength + current*(1 - strength)
//
// so strength 0 leaves the values untouched and strength 1 replaces
// them with the neighbor average.
func SmoothAttribute(o *Organizer, iterations int, strength float64, get func(*PrintPoint) float64, set func(*PrintPoint, float64)) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if iterations < 1 {
		return fmt.Errorf("need at least 1 smoothing iteration, got %d", iterations)
	}
	if strength < 0 || strength > 1 {
		return fmt.Errorf("smoothing strength must be in [0, 1], got %v", strength)
	}

	points := o.collection.Flatten()
	values := make([]float64, len(points))
	for i, pp := range points {
		values[i] = get(pp)
	}

	next := make([]float64, len(values))
	for it := 0; it < iterations; it++ {
		copy(next, values)
		for i := 1; i < len(values)-1; i++ {
			mid := 0.5 * (values[i-1] + values[i+1])
			next[i] = mid*strength + values[i]*(1-strength)
		}
		values, next = next, values
	}

	for i, pp := range points {
		set(pp, values[i])
	}
	return nil
}

// SmoothLayerHeights smooths the layer heights of all print points.
func SmoothLayerHeights(o *Organizer, iterations int, strength float64) error {
	log.Printf("organizer: smoothing layer heights")
	return SmoothAttribute(o, iterations, strength,
		func(pp *PrintPoint) float64 { return pp.LayerHeight },
		func(pp *PrintPoint, v float64) { pp.LayerHeight = v })
}

// SmoothUpVectors smooths the up vectors componentwise and recomputes
// the frames afterwards.
func SmoothUpVectors(o *Organizer, iterations int, strength float64) error {
	log.Printf("organizer: smoothing up vectors")
	for c := 0; c < 3; c++ {
		err := SmoothAttribute(o, iterations, strength,
			func(pp *PrintPoint) float64 { return upComponent(pp.UpVector, c) },
			func(pp *PrintPoint, v float64) { pp.UpVector = setUpComponent(pp.UpVector, c, v) })
		if err != nil {
			return err
		}
	}
	o.collection.Walk(func(pp *PrintPoint, _, _, _ int) bool {
		pp.UpVector = pp.UpVector.Normalize()
		pp.RecomputeFrame()
		return true
	})
	return nil
}

func upComponent(v geometry.Vector3, c int) float64 {
	switch c {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func setUpComponent(v geometry.Vector3, c int, val float64) geometry.Vector3 {
	switch c {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}
