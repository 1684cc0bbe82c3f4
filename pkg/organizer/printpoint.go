// Package organizer turns sliced paths into print points carrying the
// fabrication data a machine needs: layer height, surface normal, up
// vector, velocity, extruder state, wait times and blend radii.
package organizer

import (
	"encoding/json"
	"fmt"

	"github.com/philipparndt/goslice/pkg/geometry"
)

// AttributeKind discriminates the value stored in an Attribute.
type AttributeKind int

const (
	ScalarKind AttributeKind = iota
	VectorKind
	BoolKind
	TextKind
)

func (k AttributeKind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case VectorKind:
		return "vector"
	case BoolKind:
		return "bool"
	case TextKind:
		return "text"
	}
	return fmt.Sprintf("AttributeKind(%d)", int(k))
}

// Attribute is a typed value attached to a print point, for data
// transferred from the mesh or computed during organization.
type Attribute struct {
	Kind   AttributeKind
	Scalar float64
	Vector geometry.Vector3
	Bool   bool
	Text   string
}

func ScalarAttr(v float64) Attribute          { return Attribute{Kind: ScalarKind, Scalar: v} }
func VectorAttr(v geometry.Vector3) Attribute { return Attribute{Kind: VectorKind, Vector: v} }
func BoolAttr(v bool) Attribute               { return Attribute{Kind: BoolKind, Bool: v} }
func TextAttr(v string) Attribute             { return Attribute{Kind: TextKind, Text: v} }

type attributeJSON struct {
	Kind   string            `json:"kind"`
	Scalar *float64          `json:"scalar,omitempty"`
	Vector *geometry.Vector3 `json:"vector,omitempty"`
	Bool   *bool             `json:"bool,omitempty"`
	Text   *string           `json:"text,omitempty"`
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	out := attributeJSON{Kind: a.Kind.String()}
	switch a.Kind {
	case ScalarKind:
		out.Scalar = &a.Scalar
	case VectorKind:
		out.Vector = &a.Vector
	case BoolKind:
		out.Bool = &a.Bool
	case TextKind:
		out.Text = &a.Text
	default:
		return nil, fmt.Errorf("unknown attribute kind %d", int(a.Kind))
	}
	return json.Marshal(out)
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var in attributeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "scalar":
		a.Kind = ScalarKind
		if in.Scalar != nil {
			a.Scalar = *in.Scalar
		}
	case "vector":
		a.Kind = VectorKind
		if in.Vector != nil {
			a.Vector = *in.Vector
		}
	case "bool":
		a.Kind = BoolKind
		if in.Bool != nil {
			a.Bool = *in.Bool
		}
	case "text":
		a.Kind = TextKind
		if in.Text != nil {
			a.Text = *in.Text
		}
	default:
		return fmt.Errorf("unknown attribute kind %q", in.Kind)
	}
	return nil
}

// Frame is a positioned coordinate frame for robotic targets. The
// x-axis is orthogonal to up vector and mesh normal, the y-axis points
// towards the mesh normal.
type Frame struct {
	Point geometry.Vector3 `json:"point"`
	XAxis geometry.Vector3 `json:"xaxis"`
	YAxis geometry.Vector3 `json:"yaxis"`
}

// NewFrame builds the frame of a print point from its position, mesh
// normal and up vector. Degenerate inputs fall back to the world axes.
func NewFrame(pt, normal, up geometry.Vector3) Frame {
	if up.Dot(normal) >= 1 || up.Dot(normal) <= -1 {
		return Frame{Point: pt, XAxis: geometry.NewVector3(1, 0, 0), YAxis: geometry.NewVector3(0, 1, 0)}
	}
	x := up.Cross(normal)
	if x.IsZero() {
		x = geometry.NewVector3(1, 0, 0)
	}
	y := normal
	if y.IsZero() {
		y = geometry.NewVector3(0, 1, 0)
	}
	return Frame{Point: pt, XAxis: x.Normalize(), YAxis: y.Normalize()}
}

// PrintPoint is a single machine target: a position plus the printing
// attributes assigned during organization. Velocity and ExtruderToggle
// are nil until a parameter pass assigns them.
type PrintPoint struct {
	Position    geometry.Vector3 `json:"pt"`
	LayerHeight float64          `json:"layer_height"`
	MeshNormal  geometry.Vector3 `json:"mesh_normal"`
	UpVector    geometry.Vector3 `json:"up_vector"`
	Frame       Frame            `json:"frame"`

	ExtruderToggle *bool    `json:"extruder_toggle,omitempty"`
	Velocity       *float64 `json:"velocity,omitempty"`
	WaitTime       float64  `json:"wait_time,omitempty"`
	BlendRadius    float64  `json:"blend_radius,omitempty"`

	Attributes map[string]Attribute `json:"attributes,omitempty"`
}

// NewPrintPoint creates a print point with its frame derived from the
// normal and up vector.
func NewPrintPoint(pt geometry.Vector3, layerHeight float64, normal, up geometry.Vector3) *PrintPoint {
	return &PrintPoint{
		Position:    pt,
		LayerHeight: layerHeight,
		MeshNormal:  normal,
		UpVector:    up,
		Frame:       NewFrame(pt, normal, up),
	}
}

// RecomputeFrame refreshes the frame after the up vector or the normal
// changed.
func (p *PrintPoint) RecomputeFrame() {
	p.Frame = NewFrame(p.Position, p.MeshNormal, p.UpVector)
}

// SetExtruderToggle assigns the extruder state.
func (p *PrintPoint) SetExtruderToggle(on bool) {
	p.ExtruderToggle = &on
}

// ExtruderOn reports the extruder state; unassigned counts as off.
func (p *PrintPoint) ExtruderOn() bool {
	return p.ExtruderToggle != nil && *p.ExtruderToggle
}

// SetVelocity assigns the print velocity in mm/s.
func (p *PrintPoint) SetVelocity(v float64) {
	p.Velocity = &v
}

// Clone returns a deep copy of the print point.
func (p *PrintPoint) Clone() *PrintPoint {
	out := *p
	if p.ExtruderToggle != nil {
		v := *p.ExtruderToggle
		out.ExtruderToggle = &v
	}
	if p.Velocity != nil {
		v := *p.Velocity
		out.Velocity = &v
	}
	if p.Attributes != nil {
		out.Attributes = make(map[string]Attribute, len(p.Attributes))
		for k, v := range p.Attributes {
			out.Attributes[k] = v
		}
	}
	return &out
}
