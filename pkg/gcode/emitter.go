package gcode

import (
	"fmt"
	"log"
	"strings"

	"github.com/philipparndt/goslice/pkg/organizer"
)

// Generate emits G-code for the organized print points. Positions are
// absolute, extrusion is absolute and monotone. The fan is switched on
// once the print passes the profile's fan start height.
func Generate(c *organizer.Collection, p Profile) (string, error) {
	records, err := Records(c, p)
	if err != nil {
		return "", err
	}
	log.Printf("gcode: generating %d moves", len(records))

	var b strings.Builder
	writeHeader(&b, p)

	fanOn := false
	for _, r := range records {
		if !fanOn && p.FanSpeed > 0 && r.Position.Z >= p.FanStartZ {
			fmt.Fprintf(&b, "M106 S%d\n", p.FanSpeed)
			fanOn = true
		}

		if r.Extruding {
			fmt.Fprintf(&b, "G1 X%.3f Y%.3f Z%.3f E%.5f F%.0f\n",
				r.Position.X, r.Position.Y, r.Position.Z, r.E, r.Feedrate)
		} else {
			fmt.Fprintf(&b, "G0 X%.3f Y%.3f Z%.3f F%.0f\n",
				r.Position.X, r.Position.Y, r.Position.Z, r.Feedrate)
		}

		if r.WaitTime > 0 {
			fmt.Fprintf(&b, "G4 S%.2f\n", r.WaitTime)
		}
	}

	writeFooter(&b, p)
	return b.String(), nil
}

func writeHeader(b *strings.Builder, p Profile) {
	b.WriteString("; generated by goslice\n")
	fmt.Fprintf(b, "M140 S%d\n", p.BedTemperature)
	fmt.Fprintf(b, "M190 S%d\n", p.BedTemperature)
	fmt.Fprintf(b, "M104 S%d\n", p.ExtruderTemperature)
	fmt.Fprintf(b, "M109 S%d\n", p.ExtruderTemperature)
	// home, absolute positioning, absolute extrusion, zero the extruder
	b.WriteString("G28\n")
	b.WriteString("G90\n")
	b.WriteString("M82\n")
	b.WriteString("G92 E0\n")
}

func writeFooter(b *strings.Builder, p Profile) {
	if p.RetractionLength > 0 {
		fmt.Fprintf(b, "G1 E-%.2f F%.0f\n", p.RetractionLength, p.FeedrateRetraction)
	}
	b.WriteString("M107\n") // fan off
	b.WriteString("M104 S0\n")
	b.WriteString("M140 S0\n")
	b.WriteString("M84\n") // disable steppers
}
