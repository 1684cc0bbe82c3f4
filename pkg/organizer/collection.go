package organizer

import (
	"encoding/json"
	"fmt"
	"log"
)

// PrintPath is a run of print points traversed without interruption.
type PrintPath struct {
	Points []*PrintPoint `json:"printpoints"`
}

func (p *PrintPath) Len() int { return len(p.Points) }

// PrintLayer groups the print paths of one layer.
type PrintLayer struct {
	Paths []*PrintPath `json:"paths"`
}

// Collection holds the print points of a whole job, nested by layer
// and path, in print order.
type Collection struct {
	Layers []*PrintLayer `json:"layers"`
}

func (c *Collection) NumberOfLayers() int { return len(c.Layers) }

func (c *Collection) NumberOfPaths() int {
	n := 0
	for _, layer := range c.Layers {
		n += len(layer.Paths)
	}
	return n
}

func (c *Collection) NumberOfPoints() int {
	n := 0
	for _, layer := range c.Layers {
		for _, path := range layer.Paths {
			n += len(path.Points)
		}
	}
	return n
}

// Walk visits every print point in print order with its layer, path
// and point index. It stops early when visit returns false.
func (c *Collection) Walk(visit func(pp *PrintPoint, i, j, k int) bool) {
	for i, layer := range c.Layers {
		for j, path := range layer.Paths {
			for k, pp := range path.Points {
				if !visit(pp, i, j, k) {
					return
				}
			}
		}
	}
}

// Flatten returns all print points in print order.
func (c *Collection) Flatten() []*PrintPoint {
	out := make([]*PrintPoint, 0, c.NumberOfPoints())
	c.Walk(func(pp *PrintPoint, _, _, _ int) bool {
		out = append(out, pp)
		return true
	})
	return out
}

// Next returns the print point after (i, j, k) in print order, or nil
// at the very end.
func (c *Collection) Next(i, j, k int) *PrintPoint {
	path := c.Layers[i].Paths[j]
	if k < len(path.Points)-1 {
		return path.Points[k+1]
	}
	if j < len(c.Layers[i].Paths)-1 {
		return c.Layers[i].Paths[j+1].Points[0]
	}
	if i < len(c.Layers)-1 {
		return c.Layers[i+1].Paths[0].Points[0]
	}
	return nil
}

// Neighbors returns the previous and next print point within the same
// path, nil at the path boundaries.
func (c *Collection) Neighbors(i, j, k int) (prev, next *PrintPoint) {
	path := c.Layers[i].Paths[j]
	if k > 0 {
		prev = path.Points[k-1]
	}
	if k < len(path.Points)-1 {
		next = path.Points[k+1]
	}
	return prev, next
}

// TotalLength is the length of all paths, ignoring the extruder state.
func (c *Collection) TotalLength() float64 {
	total := 0.0
	for _, layer := range c.Layers {
		for _, path := range layer.Paths {
			for k := 1; k < len(path.Points); k++ {
				total += path.Points[k-1].Position.Distance(path.Points[k].Position)
			}
		}
	}
	return total
}

// TotalPrintTime is the print duration in seconds, or an error when no
// velocities have been assigned yet.
func (c *Collection) TotalPrintTime() (float64, error) {
	total := 0.0
	for _, layer := range c.Layers {
		for _, path := range layer.Paths {
			for k := 1; k < len(path.Points); k++ {
				cur := path.Points[k]
				if cur.Velocity == nil {
					return 0, fmt.Errorf("velocity has not been assigned")
				}
				if *cur.Velocity <= 0 {
					return 0, fmt.Errorf("velocity must be positive, got %v", *cur.Velocity)
				}
				total += path.Points[k-1].Position.Distance(cur.Position) / *cur.Velocity
			}
		}
	}
	return total, nil
}

// RemoveDuplicatePoints drops subsequent points closer than tolerance
// and reports how many were removed.
func (c *Collection) RemoveDuplicatePoints(tolerance float64) int {
	removed := 0
	for i, layer := range c.Layers {
		for j, path := range layer.Paths {
			kept := path.Points[:0]
			for k, pp := range path.Points {
				if k < len(path.Points)-1 &&
					pp.Position.Distance(path.Points[k+1].Position) < tolerance {
					removed++
					continue
				}
				kept = append(kept, pp)
			}
			if len(kept) < len(path.Points) {
				log.Printf("organizer: removed %d duplicate print points on layer %d, path %d",
					len(path.Points)-len(kept), i, j)
			}
			path.Points = kept
		}
	}
	return removed
}

// MarshalNested serializes the collection with its layer and path
// structure preserved.
func (c *Collection) MarshalNested() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// UnmarshalNested rebuilds a collection from its nested serialization.
func UnmarshalNested(data []byte) (*Collection, error) {
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing nested print points: %w", err)
	}
	return &c, nil
}

// MarshalFlat serializes all print points as a single array in print
// order, dropping the layer and path structure.
func (c *Collection) MarshalFlat() ([]byte, error) {
	return json.MarshalIndent(c.Flatten(), "", "  ")
}

// UnmarshalFlat rebuilds the flat point list from its serialization.
func UnmarshalFlat(data []byte) ([]*PrintPoint, error) {
	var pts []*PrintPoint
	if err := json.Unmarshal(data, &pts); err != nil {
		return nil, fmt.Errorf("parsing flat print points: %w", err)
	}
	return pts, nil
}
