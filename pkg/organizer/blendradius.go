package organizer

import (
	"fmt"
	"log"
	"math"
)

// SetBlendRadius assigns the filleting radius for robotic motion. The
// radius is dFillet capped by the distance to the neighboring points
// times buffer, so consecutive blends never overlap. Points where the
// extruder state changes and points with a wait time get radius 0.
func SetBlendRadius(o *Organizer, dFillet, buffer float64) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if dFillet < 0 || buffer < 0 {
		return fmt.Errorf("fillet distance and buffer must not be negative")
	}
	log.Printf("organizer: setting blend radius")

	var state *bool
	o.collection.Walk(func(pp *PrintPoint, i, j, k int) bool {
		if pp.WaitTime > 0 {
			// the robot stops here anyway
			pp.BlendRadius = 0
			return true
		}

		if !sameToggle(state, pp.ExtruderToggle) {
			state = pp.ExtruderToggle
			pp.BlendRadius = 0
			return true
		}

		radius := dFillet
		prev, next := o.collection.Neighbors(i, j, k)
		if prev != nil {
			radius = math.Min(radius, prev.Position.Distance(pp.Position)*buffer)
		}
		if next != nil {
			radius = math.Min(radius, next.Position.Distance(pp.Position)*buffer)
		}
		pp.BlendRadius = math.Round(radius*1e5) / 1e5
		return true
	})
	return nil
}

func sameToggle(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
