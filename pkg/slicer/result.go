package slicer

import (
	"fmt"

	"github.com/philipparndt/goslice/pkg/mesh"
)

// State tracks the lifecycle of a slicing result.
type State int

const (
	Unsliced State = iota
	Sliced
	Postprocessed
)

func (s State) String() string {
	switch s {
	case Unsliced:
		return "unsliced"
	case Sliced:
		return "sliced"
	case Postprocessed:
		return "postprocessed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Diagnostic records a non-fatal irregularity encountered while
// slicing or post-processing.
type Diagnostic struct {
	Code    string
	Message string
}

// Result carries the slicing output through post-processing. It starts
// Unsliced, becomes Sliced once a slicer fills in the layers, and
// Postprocessed after the first destructive post-processing operation.
// Re-slicing a Postprocessed result is a state error.
type Result struct {
	Mesh           *mesh.Mesh
	Layers         []*Layer
	VerticalLayers []*VerticalLayer
	LayerHeight    float64

	state State
	diags []Diagnostic
}

// NewResult creates an empty result for m.
func NewResult(m *mesh.Mesh, layerHeight float64) *Result {
	return &Result{Mesh: m, LayerHeight: layerHeight}
}

// State returns the current lifecycle state.
func (r *Result) State() State { return r.state }

// SetLayers installs freshly sliced layers. Allowed while Unsliced or
// Sliced (re-slicing); not after post-processing has altered the paths.
func (r *Result) SetLayers(layers []*Layer) error {
	if r.state == Postprocessed {
		return fmt.Errorf("cannot re-slice a %s result", r.state)
	}
	r.Layers = layers
	r.VerticalLayers = nil
	r.state = Sliced
	return nil
}

// RequireSliced returns an error unless slicing has produced layers.
func (r *Result) RequireSliced() error {
	if r.state == Unsliced {
		return fmt.Errorf("operation requires a sliced result, got %s", r.state)
	}
	return nil
}

// MarkPostprocessed records that the paths were altered after slicing.
func (r *Result) MarkPostprocessed() {
	r.state = Postprocessed
}

// AddDiagnostic appends a warning record.
func (r *Result) AddDiagnostic(code, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns the collected warnings.
func (r *Result) Diagnostics() []Diagnostic { return r.diags }

// AllPaths returns the layers' paths in print order, layer by layer.
func (r *Result) AllPaths() []*Path {
	var out []*Path
	for _, l := range r.Layers {
		out = append(out, l.Paths...)
	}
	return out
}

// TotalPoints counts the points over all paths of all layers.
func (r *Result) TotalPoints() int {
	n := 0
	for _, l := range r.Layers {
		for _, p := range l.Paths {
			n += len(p.Points)
		}
	}
	return n
}

// OpenClosedCounts returns how many paths are open and closed.
func (r *Result) OpenClosedCounts() (open, closed int) {
	for _, l := range r.Layers {
		for _, p := range l.Paths {
			if p.IsClosed {
				closed++
			} else {
				open++
			}
		}
	}
	return open, closed
}
