package organizer

import (
	"fmt"
	"log"
)

// SetExtruderToggle decides for every print point whether the extruder
// keeps running. A path is interrupted at its end when travel to the
// next path is required:
//   - open paths are always interrupted
//   - horizontal layers with several paths are interrupted, except
//     between the offsets of one brim contour
//   - the last path of a vertical layer is interrupted
//   - a path is interrupted when the next layer starts with an open path
//
// The very last print point is always off.
func SetExtruderToggle(o *Organizer) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	log.Printf("organizer: setting extruder toggle")

	for i, layer := range o.layers {
		for j, path := range layer.paths {
			interrupt := false

			if !path.IsClosed {
				interrupt = true
			}
			if !layer.isVertical && len(layer.paths) > 1 {
				interrupt = true
				// consecutive offsets of the same brim contour are printed
				// in one go
				if layer.isBrim && layer.brimOffsets > 0 && (j+1)%layer.brimOffsets != 0 {
					interrupt = false
				}
			}
			if layer.isVertical && j == len(layer.paths)-1 {
				interrupt = true
			}
			if i < len(o.layers)-1 {
				next := o.layers[i+1]
				if len(next.paths) > 0 && !next.paths[0].IsClosed {
					interrupt = true
				}
			}

			points := o.collection.Layers[i].Paths[j].Points
			for k, pp := range points {
				pp.SetExtruderToggle(!(interrupt && k == len(points)-1))
			}
		}
	}

	// the print always ends with the extruder off
	last := o.collection.Layers[len(o.collection.Layers)-1]
	lastPath := last.Paths[len(last.Paths)-1]
	lastPath.Points[len(lastPath.Points)-1].SetExtruderToggle(false)
	return nil
}

// OverrideExtruderToggle sets every print point to the given extruder
// state.
func OverrideExtruderToggle(o *Organizer, on bool) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	o.collection.Walk(func(pp *PrintPoint, _, _, _ int) bool {
		pp.SetExtruderToggle(on)
		return true
	})
	return nil
}

// checkTogglesAssigned reports an error when any print point still has
// no extruder state.
func checkTogglesAssigned(c *Collection) error {
	var missing bool
	c.Walk(func(pp *PrintPoint, _, _, _ int) bool {
		if pp.ExtruderToggle == nil {
			missing = true
			return false
		}
		return true
	})
	if missing {
		return fmt.Errorf("extruder toggles have not been assigned, run SetExtruderToggle first")
	}
	return nil
}
