package organizer

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/geometry"
)

// SetVelocityConstant assigns the same print velocity, in mm/s, to
// every print point.
func SetVelocityConstant(o *Organizer, v float64) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("velocity must be positive, got %v", v)
	}
	log.Printf("organizer: setting constant velocity %v mm/s", v)
	o.collection.Walk(func(pp *PrintPoint, _, _, _ int) bool {
		pp.SetVelocity(v)
		return true
	})
	return nil
}

// SetVelocityPerLayer assigns one velocity per layer. The list must
// have exactly one value per layer.
func SetVelocityPerLayer(o *Organizer, velocities []float64) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if len(velocities) != o.collection.NumberOfLayers() {
		return fmt.Errorf("need one velocity per layer: got %d values for %d layers",
			len(velocities), o.collection.NumberOfLayers())
	}
	for _, v := range velocities {
		if v <= 0 {
			return fmt.Errorf("velocity must be positive, got %v", v)
		}
	}
	log.Printf("organizer: setting per-layer velocity")
	o.collection.Walk(func(pp *PrintPoint, i, _, _ int) bool {
		pp.SetVelocity(velocities[i])
		return true
	})
	return nil
}

// SetVelocityByRange remaps a per-point parameter onto a velocity
// range. The parameter is read with param; with bounded remapping the
// velocity is clamped to the velocity range.
func SetVelocityByRange(o *Organizer, param func(*PrintPoint) float64, paramRange, velocityRange [2]float64, bounded bool) error {
	if err := o.requireParameterizable(); err != nil {
		return err
	}
	if param == nil {
		return fmt.Errorf("param function must not be nil")
	}
	if paramRange[0] == paramRange[1] {
		return fmt.Errorf("parameter range must not be empty")
	}
	log.Printf("organizer: setting velocity by parameter range")
	o.collection.Walk(func(pp *PrintPoint, _, _, _ int) bool {
		p := param(pp)
		if bounded {
			pp.SetVelocity(remap(p, paramRange[0], paramRange[1], velocityRange[0], velocityRange[1]))
		} else {
			pp.SetVelocity(remapUnbound(p, paramRange[0], paramRange[1], velocityRange[0], velocityRange[1]))
		}
		return true
	})
	return nil
}

// SetVelocityByOverhang remaps the overhang of each print point onto a
// velocity range. The overhang is measured as the dot product of the
// mesh normal with the vertical axis: 0 on walls, 1 on horizontal
// overhangs.
func SetVelocityByOverhang(o *Organizer, overhangRange, velocityRange [2]float64, bounded bool) error {
	up := geometry.NewVector3(0, 0, 1)
	return SetVelocityByRange(o, func(pp *PrintPoint) float64 {
		return pp.MeshNormal.Dot(up)
	}, overhangRange, velocityRange, bounded)
}

// remap maps v from the source domain onto the target domain, clamped
// to the target bounds.
func remap(v, inFrom, inTo, outFrom, outTo float64) float64 {
	if v <= inFrom {
		return outFrom
	}
	if v >= inTo {
		return outTo
	}
	return remapUnbound(v, inFrom, inTo, outFrom, outTo)
}

// remapUnbound maps v from the source domain onto the target domain
// without clamping.
func remapUnbound(v, inFrom, inTo, outFrom, outTo float64) float64 {
	return outFrom + (v-inFrom)/(inTo-inFrom)*(outTo-outFrom)
}
