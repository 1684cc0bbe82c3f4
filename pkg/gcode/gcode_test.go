package gcode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/organizer"
	"github.com/philipparndt/goslice/pkg/slicer"
)

func TestExtrusionAmount(t *testing.T) {
	// 10 mm of a 0.2 x 0.4 bead from 1.75 mm filament
	got := ExtrusionAmount(10, 0.2, 0.4, 1.75, 1.0)
	if got < 0.332 || got > 0.334 {
		t.Errorf("ExtrusionAmount = %v, want ~0.333", got)
	}

	// doubling the flow doubles the extrusion
	if doubled := ExtrusionAmount(10, 0.2, 0.4, 1.75, 2.0); doubled != 2*got {
		t.Errorf("flow multiplier not linear: %v vs %v", doubled, got)
	}
}

func testCollection(t *testing.T) *organizer.Collection {
	t.Helper()
	r := slicer.NewResult(nil, 0.2)
	require.NoError(t, r.SetLayers([]*slicer.Layer{
		{Paths: []*slicer.Path{{Points: []geometry.Vector3{
			{X: 0, Y: 0, Z: 0.2}, {X: 10, Y: 0, Z: 0.2}, {X: 20, Y: 0, Z: 0.2},
		}}}},
		{Paths: []*slicer.Path{{Points: []geometry.Vector3{
			{X: 0, Y: 0, Z: 0.4}, {X: 10, Y: 0, Z: 0.4},
		}}}},
	}))
	o, err := organizer.New(r)
	require.NoError(t, err)
	require.NoError(t, o.CreatePrintPoints())
	require.NoError(t, organizer.SetExtruderToggle(o))
	require.NoError(t, organizer.SetVelocityConstant(o, 30))
	return o.Collection()
}

func TestRecords(t *testing.T) {
	c := testCollection(t)
	p := DefaultProfile()

	records, err := Records(c, p)
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.False(t, records[0].Extruding, "nothing is deposited on the way in")
	assert.True(t, records[1].Extruding)
	assert.False(t, records[3].Extruding, "travel between the open paths")
	assert.True(t, records[4].Extruding)

	// absolute E never decreases
	prev := 0.0
	for i, r := range records {
		assert.GreaterOrEqual(t, r.E, prev, "record %d", i)
		prev = r.E
	}
	assert.Greater(t, records[4].E, records[2].E)
	assert.Equal(t, records[2].E, records[3].E, "travel moves do not extrude")

	assert.Equal(t, 30.0*60, records[1].Feedrate, "assigned velocity in mm/min")
	assert.Equal(t, p.FeedrateTravel, records[3].Feedrate)
}

func TestGenerate(t *testing.T) {
	c := testCollection(t)
	text, err := Generate(c, DefaultProfile())
	require.NoError(t, err)

	assert.Contains(t, text, "M104 S200")
	assert.Contains(t, text, "M140 S60")
	assert.Contains(t, text, "G92 E0")
	assert.Contains(t, text, "M106 S255")
	assert.True(t, strings.Contains(text, "G1 X10.000 Y0.000 Z0.200"),
		"extruding move missing:\n%s", text)
	assert.True(t, strings.HasSuffix(text, "M84\n"))
}

func TestGenerateEmitsDwell(t *testing.T) {
	c := testCollection(t)
	c.Layers[0].Paths[0].Points[1].WaitTime = 0.5

	text, err := Generate(c, DefaultProfile())
	require.NoError(t, err)
	assert.Contains(t, text, "G4 S0.50")
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "printer.yaml")
	require.NoError(t, os.WriteFile(file, []byte("layer_width: 0.45\nbed_temperature: 80\n"), 0o644))

	p, err := LoadProfile(file)
	require.NoError(t, err)
	assert.Equal(t, 0.45, p.LayerWidth)
	assert.Equal(t, 80, p.BedTemperature)
	assert.Equal(t, 1.75, p.FilamentDiameter, "missing keys keep defaults")

	_, err = LoadProfile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(file, []byte("layer_width: -1\n"), 0o644))
	_, err = LoadProfile(file)
	assert.Error(t, err)
}
