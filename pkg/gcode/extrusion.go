package gcode

import (
	"fmt"
	"math"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/organizer"
)

// ExtrusionAmount is the filament length needed to extrude a bead of
// the given cross section over dist millimeters of travel:
//
//	E = dist * height * width / (pi * (D/2)^2) * flow
func ExtrusionAmount(dist, layerHeight, layerWidth, filamentDiameter, flow float64) float64 {
	area := math.Pi * math.Pow(filamentDiameter/2, 2)
	return dist * layerHeight * layerWidth / area * flow
}

// Record is one machine target: a position with its accumulated
// absolute extrusion and motion parameters.
type Record struct {
	Position geometry.Vector3
	// E is the absolute extruder position after this move. It never
	// decreases.
	E float64
	// Feedrate in mm/min.
	Feedrate float64
	// Extruding reports whether the move into this position deposits
	// material.
	Extruding bool
	// WaitTime in seconds to dwell at this position.
	WaitTime float64
}

// Records converts organized print points into a flat record stream.
// A segment deposits material when its starting point has the extruder
// on; the extrusion amount follows the layer height of the target
// point. Velocities, where assigned, override the profile feedrate.
func Records(c *organizer.Collection, p Profile) ([]Record, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	points := c.Flatten()
	if len(points) == 0 {
		return nil, fmt.Errorf("no print points to convert")
	}

	records := make([]Record, 0, len(points))
	e := 0.0
	for i, pp := range points {
		feedrate := p.Feedrate
		if pp.Velocity != nil {
			feedrate = *pp.Velocity * 60
		}

		extruding := false
		if i > 0 && points[i-1].ExtruderOn() {
			dist := points[i-1].Position.Distance(pp.Position)
			e += ExtrusionAmount(dist, pp.LayerHeight, p.LayerWidth, p.FilamentDiameter, p.FlowMultiplier)
			extruding = true
		} else if i > 0 {
			feedrate = p.FeedrateTravel
		}

		records = append(records, Record{
			Position:  pp.Position,
			E:         e,
			Feedrate:  feedrate,
			Extruding: extruding,
			WaitTime:  pp.WaitTime,
		})
	}
	return records, nil
}
