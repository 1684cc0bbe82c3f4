// Package gcode turns organized print points into machine output: a
// per-point record stream with accumulated extrusion, and G-code text.
package gcode

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the printer parameters for G-code generation. Profiles
// are loaded from YAML; missing keys keep their defaults.
type Profile struct {
	// physical
	NozzleDiameter   float64 `yaml:"nozzle_diameter"`
	FilamentDiameter float64 `yaml:"filament_diameter"`

	// dimensional
	LayerWidth     float64 `yaml:"layer_width"`
	FlowMultiplier float64 `yaml:"flow_multiplier"`

	// temperature
	ExtruderTemperature int     `yaml:"extruder_temperature"`
	BedTemperature      int     `yaml:"bed_temperature"`
	FanSpeed            int     `yaml:"fan_speed"`
	FanStartZ           float64 `yaml:"fan_start_z"`

	// movement, all in mm/min
	Feedrate           float64 `yaml:"feedrate"`
	FeedrateTravel     float64 `yaml:"feedrate_travel"`
	FeedrateRetraction float64 `yaml:"feedrate_retraction"`

	// retraction
	ZHop                float64 `yaml:"z_hop"`
	RetractionLength    float64 `yaml:"retraction_length"`
	RetractionMinTravel float64 `yaml:"retraction_min_travel"`
}

// DefaultProfile is a generic 1.75 mm FDM setup.
func DefaultProfile() Profile {
	return Profile{
		NozzleDiameter:      0.4,
		FilamentDiameter:    1.75,
		LayerWidth:          0.6,
		FlowMultiplier:      1.0,
		ExtruderTemperature: 200,
		BedTemperature:      60,
		FanSpeed:            255,
		FanStartZ:           0,
		Feedrate:            3600,
		FeedrateTravel:      4800,
		FeedrateRetraction:  3600,
		ZHop:                0.5,
		RetractionLength:    1,
		RetractionMinTravel: 3,
	}
}

func (p Profile) validate() error {
	if p.FilamentDiameter <= 0 {
		return fmt.Errorf("filament diameter must be positive, got %v", p.FilamentDiameter)
	}
	if p.LayerWidth <= 0 {
		return fmt.Errorf("layer width must be positive, got %v", p.LayerWidth)
	}
	if p.FlowMultiplier <= 0 {
		return fmt.Errorf("flow multiplier must be positive, got %v", p.FlowMultiplier)
	}
	if p.Feedrate <= 0 || p.FeedrateTravel <= 0 {
		return fmt.Errorf("feedrates must be positive")
	}
	return nil
}

// LoadProfile reads a YAML printer profile. Keys not present in the
// file keep their default values.
func LoadProfile(filename string) (Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Profile{}, fmt.Errorf("reading printer profile: %w", err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing printer profile %s: %w", filename, err)
	}
	if err := p.validate(); err != nil {
		return Profile{}, fmt.Errorf("printer profile %s: %w", filename, err)
	}
	return p, nil
}
