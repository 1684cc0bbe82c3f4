package organizer

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/geometry"
)

// AddSafetyPoints inserts travel points at every print interruption:
// one zHop millimeters above the interrupting point, and one above the
// point where printing resumes. A leading safety point is added above
// the very first print point. Extruder toggles must be assigned first.
func AddSafetyPoints(o *Organizer, zHop float64) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if zHop <= 0 {
		return fmt.Errorf("z hop must be positive, got %v", zHop)
	}
	if err := checkTogglesAssigned(o.collection); err != nil {
		return err
	}
	log.Printf("organizer: adding safety points with %v mm z hop", zHop)

	out := &Collection{}
	for i, layer := range o.collection.Layers {
		newLayer := &PrintLayer{}
		for j, path := range layer.Paths {
			newPath := &PrintPath{}
			for k, pp := range path.Points {
				newPath.Points = append(newPath.Points, pp)

				if pp.ExtruderToggle != nil && !*pp.ExtruderToggle {
					newPath.Points = append(newPath.Points, safetyPoint(pp, zHop))
					if next := o.collection.Next(i, j, k); next != nil && next.ExtruderOn() {
						newPath.Points = append(newPath.Points, safetyPoint(next, zHop))
					}
				}
			}
			newLayer.Paths = append(newLayer.Paths, newPath)
		}
		out.Layers = append(out.Layers, newLayer)
	}

	// lead in from above the first point; the trailing safety point is
	// already in place since the last toggle is off
	first := out.Layers[0].Paths[0]
	first.Points = append([]*PrintPoint{safetyPoint(first.Points[0], zHop)}, first.Points...)

	o.collection = out
	return nil
}

func safetyPoint(pp *PrintPoint, zHop float64) *PrintPoint {
	out := pp.Clone()
	out.Position = pp.Position.Add(geometry.NewVector3(0, 0, zHop))
	out.Frame.Point = out.Position
	out.SetExtruderToggle(false)
	return out
}
