package slicer

import (
	"testing"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/mesh"
)

// testCube returns a closed unit cube mesh.
func testCube(t *testing.T) *mesh.Mesh {
	t.Helper()
	v := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	f := [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{2, 3, 7}, {2, 7, 6},
		{1, 2, 6}, {1, 6, 5},
		{3, 0, 4}, {3, 4, 7},
	}
	m, err := mesh.New(v, f)
	if err != nil {
		t.Fatalf("cube mesh: %v", err)
	}
	return m
}

// testStrip returns an open vertical quad: two triangles spanning
// z in [0,1] in the xz plane. Vertices 0,1 are at the bottom, 2,3 at
// the top.
func testStrip(t *testing.T) *mesh.Mesh {
	t.Helper()
	v := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1},
	}
	m, err := mesh.New(v, [][3]int{{0, 1, 2}, {1, 3, 2}})
	if err != nil {
		t.Fatalf("strip mesh: %v", err)
	}
	return m
}

func TestResultStateMachine(t *testing.T) {
	r := NewResult(testCube(t), 0.5)

	if r.State() != Unsliced {
		t.Fatalf("new result should be unsliced, got %v", r.State())
	}
	if err := r.RequireSliced(); err == nil {
		t.Error("RequireSliced should fail on an unsliced result")
	}

	if err := r.SetLayers([]*Layer{{}}); err != nil {
		t.Fatalf("SetLayers failed: %v", err)
	}
	if r.State() != Sliced {
		t.Errorf("expected sliced state, got %v", r.State())
	}

	// re-slicing a sliced result is allowed
	if err := r.SetLayers([]*Layer{{}}); err != nil {
		t.Errorf("re-slice failed: %v", err)
	}

	r.MarkPostprocessed()
	if err := r.SetLayers([]*Layer{{}}); err == nil {
		t.Error("re-slicing a postprocessed result should fail")
	}
}

func TestResultSummaryCounts(t *testing.T) {
	r := NewResult(testCube(t), 0.5)
	layers := []*Layer{
		{Paths: []*Path{
			{Points: []geometry.Vector3{{X: 0}, {X: 1}, {X: 1, Y: 1}}, IsClosed: true},
			{Points: []geometry.Vector3{{Z: 1}, {X: 1, Z: 1}}},
		}},
		{Paths: []*Path{
			{Points: []geometry.Vector3{{Z: 2}, {X: 1, Z: 2}}, IsClosed: true},
		}},
	}
	if err := r.SetLayers(layers); err != nil {
		t.Fatalf("SetLayers failed: %v", err)
	}

	if got := len(r.AllPaths()); got != 3 {
		t.Errorf("AllPaths failed: expected 3 paths, got %d", got)
	}
	if got := r.TotalPoints(); got != 7 {
		t.Errorf("TotalPoints failed: expected 7, got %d", got)
	}
	open, closed := r.OpenClosedCounts()
	if open != 1 || closed != 2 {
		t.Errorf("OpenClosedCounts failed: expected 1 open 2 closed, got %d and %d", open, closed)
	}
}

func TestExtractContoursClosed(t *testing.T) {
	m := testCube(t)
	field := make([]float64, m.VertexCount())
	for i, v := range m.Vertices {
		field[i] = v.Z
	}

	contours := extractContours(m, field, 0.5)

	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	c := contours[0]
	if !c.closed {
		t.Error("cube cross-section should be closed")
	}
	for _, p := range c.points {
		if p.Z != 0.5 {
			t.Errorf("contour point not on slice plane: %v", p)
		}
	}

	// perimeter of the unit square cross-section
	path := &Path{Points: c.points, IsClosed: true}
	if got := path.Length(); got < 3.99 || got > 4.01 {
		t.Errorf("contour length failed: expected ~4, got %v", got)
	}
}

func TestExtractContoursOpen(t *testing.T) {
	m := testStrip(t)
	field := []float64{0, 0, 1, 1}

	contours := extractContours(m, field, 0.5)

	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	c := contours[0]
	if c.closed {
		t.Error("strip cross-section should be open")
	}
	if len(c.points) != 3 {
		t.Errorf("expected 3 crossing points, got %d", len(c.points))
	}
}

func TestExtractContoursVertexHit(t *testing.T) {
	// Threshold exactly on the bottom vertices must still produce a
	// single clean contour, not degenerate duplicates.
	m := testCube(t)
	field := make([]float64, m.VertexCount())
	for i, v := range m.Vertices {
		field[i] = v.Z
	}

	contours := extractContours(m, field, 0)

	if len(contours) != 1 {
		t.Fatalf("expected 1 contour at the vertex-hit threshold, got %d", len(contours))
	}
	if !contours[0].closed {
		t.Error("bottom contour should be closed")
	}
}
