package organizer

import (
	"fmt"
	"log"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/mesh"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// Phase tracks the lifecycle of an Organizer. Print points are created
// once, then parameterized, then exported. Parameter changes after an
// export are rejected.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseParameterized
	PhaseExported
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseParameterized:
		return "parameterized"
	case PhaseExported:
		return "exported"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

const defaultLayerHeight = 2.0

// jobLayer is the unified view over horizontal and vertical layers
// that the organizer walks.
type jobLayer struct {
	paths       []*slicer.Path
	isBrim      bool
	brimOffsets int
	isRaft      bool
	isVertical  bool
}

// Organizer creates and parameterizes the print points for a sliced
// result.
type Organizer struct {
	result     *slicer.Result
	layers     []jobLayer
	collection *Collection
	phase      Phase
}

// New creates an organizer for a sliced result. The result must hold
// layers, either horizontal or vertical.
func New(r *slicer.Result) (*Organizer, error) {
	if err := r.RequireSliced(); err != nil {
		return nil, err
	}

	var layers []jobLayer
	for _, l := range r.Layers {
		layers = append(layers, jobLayer{
			paths:       l.Paths,
			isBrim:      l.IsBrim,
			brimOffsets: l.BrimOffsets,
			isRaft:      l.IsRaft,
		})
	}
	for _, vl := range r.VerticalLayers {
		layers = append(layers, jobLayer{paths: vl.Paths, isVertical: true})
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("result has no layers to organize")
	}

	return &Organizer{result: r, layers: layers, collection: &Collection{}}, nil
}

// Collection returns the organized print points.
func (o *Organizer) Collection() *Collection { return o.collection }

// Phase returns the current lifecycle phase.
func (o *Organizer) Phase() Phase { return o.phase }

func (o *Organizer) requireParameterizable() error {
	if o.phase == PhaseCreated {
		return fmt.Errorf("print points have not been created yet")
	}
	if o.phase == PhaseExported {
		return fmt.Errorf("print points have already been exported, no further changes allowed")
	}
	return nil
}

// CreatePrintPoints builds one print point per path point. The mesh
// normal is pulled from the closest face of the sliced mesh; without a
// mesh a unit y normal is used. Brim and raft layers print with a
// vertical up vector.
func (o *Organizer) CreatePrintPoints() error {
	if o.phase != PhaseCreated {
		return fmt.Errorf("print points have already been created")
	}

	var locator *mesh.FaceLocator
	if o.result.Mesh != nil {
		locator = mesh.NewFaceLocator(o.result.Mesh)
	}

	layerHeight := o.result.LayerHeight
	if layerHeight <= 0 {
		layerHeight = defaultLayerHeight
	}

	count := 0
	for _, layer := range o.layers {
		printLayer := &PrintLayer{}
		for _, path := range layer.paths {
			printPath := &PrintPath{Points: make([]*PrintPoint, 0, len(path.Points))}
			for k, pt := range path.Points {
				normal := geometry.NewVector3(0, 1, 0)
				if locator != nil {
					_, n, _ := locator.Project(pt)
					normal = n
				}

				var up geometry.Vector3
				if layer.isBrim || layer.isRaft {
					up = geometry.NewVector3(0, 0, 1)
				} else {
					up = pathUpVector(path, k, normal)
				}

				printPath.Points = append(printPath.Points, NewPrintPoint(pt, layerHeight, normal, up))
				count++
			}
			printLayer.Paths = append(printLayer.Paths, printPath)
		}
		o.collection.Layers = append(o.collection.Layers, printLayer)
	}

	log.Printf("organizer: created %d print points", count)
	o.phase = PhaseParameterized
	return nil
}

// pathUpVector is orthogonal to the travel direction and the mesh
// normal. At the last point the direction to the previous point is
// used instead, with the sign flipped to stay consistent.
func pathUpVector(path *slicer.Path, k int, normal geometry.Vector3) geometry.Vector3 {
	p := path.Points[k]
	var diff geometry.Vector3
	negative := false
	if k < len(path.Points)-1 {
		diff = p.Sub(path.Points[k+1])
	} else {
		diff = p.Sub(path.Points[k-1])
		negative = true
	}

	up := normal.Cross(diff.Normalize())
	if negative {
		up = up.Mul(-1)
	}
	if up.IsZero() {
		return geometry.NewVector3(0, 0, 1)
	}
	return up.Normalize()
}

// ExportFlat serializes the print points as a flat array, removing
// duplicate points first. After the export the organizer rejects
// further parameter changes.
func (o *Organizer) ExportFlat() ([]byte, error) {
	if o.phase == PhaseCreated {
		return nil, fmt.Errorf("print points have not been created yet")
	}
	o.collection.RemoveDuplicatePoints(1e-4)
	data, err := o.collection.MarshalFlat()
	if err != nil {
		return nil, err
	}
	log.Printf("organizer: exported %d print points", o.collection.NumberOfPoints())
	o.phase = PhaseExported
	return data, nil
}

// ExportNested serializes the print points keeping the layer and path
// structure. After the export the organizer rejects further parameter
// changes.
func (o *Organizer) ExportNested() ([]byte, error) {
	if o.phase == PhaseCreated {
		return nil, fmt.Errorf("print points have not been created yet")
	}
	o.collection.RemoveDuplicatePoints(1e-4)
	data, err := o.collection.MarshalNested()
	if err != nil {
		return nil, err
	}
	log.Printf("organizer: exported %d print points", o.collection.NumberOfPoints())
	o.phase = PhaseExported
	return data, nil
}

// Info logs a summary of the organized print job.
func (o *Organizer) Info() {
	log.Printf("organizer: %d layers, %d paths, %d print points",
		o.collection.NumberOfLayers(), o.collection.NumberOfPaths(), o.collection.NumberOfPoints())
	log.Printf("organizer: toolpath length %.0f mm", o.collection.TotalLength())
	if t, err := o.collection.TotalPrintTime(); err == nil {
		log.Printf("organizer: estimated print time %.0f s", t)
	}
}
