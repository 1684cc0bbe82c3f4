package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/slicer"
)

// squarePath returns a closed axis-aligned square with corner points
// and edge midpoints, seam at (cx-half, cy-half).
func squarePath(cx, cy, z, half float64) *slicer.Path {
	h := half
	return &slicer.Path{
		IsClosed: true,
		Points: []geometry.Vector3{
			{X: cx - h, Y: cy - h, Z: z}, {X: cx, Y: cy - h, Z: z},
			{X: cx + h, Y: cy - h, Z: z}, {X: cx + h, Y: cy, Z: z},
			{X: cx + h, Y: cy + h, Z: z}, {X: cx, Y: cy + h, Z: z},
			{X: cx - h, Y: cy + h, Z: z}, {X: cx - h, Y: cy, Z: z},
		},
	}
}

func slicedResult(t *testing.T, layers ...*slicer.Layer) *slicer.Result {
	t.Helper()
	r := slicer.NewResult(nil, 0.5)
	require.NoError(t, r.SetLayers(layers))
	return r
}

func TestSimplifyPathsRemovesCollinearPoints(t *testing.T) {
	p := squarePath(0.5, 0.5, 0, 0.5)
	r := slicedResult(t, &slicer.Layer{Paths: []*slicer.Path{p}})

	require.NoError(t, SimplifyPaths(r, 0.01))

	// corners survive, edge midpoints go; seam and tail are pinned
	assert.Len(t, p.Points, 5)
	assert.Equal(t, geometry.NewVector3(0, 0, 0), p.Points[0])

	// idempotent
	before := append([]geometry.Vector3(nil), p.Points...)
	require.NoError(t, SimplifyPaths(r, 0.01))
	assert.Equal(t, before, p.Points)
}

func TestSimplifyPathsSkipsRaft(t *testing.T) {
	raftPath := &slicer.Path{Points: []geometry.Vector3{
		{X: 0}, {X: 1}, {X: 2}, {X: 3},
	}}
	r := slicedResult(t,
		&slicer.Layer{IsRaft: true, Paths: []*slicer.Path{raftPath}},
		&slicer.Layer{Paths: []*slicer.Path{squarePath(0.5, 0.5, 0.5, 0.5)}},
	)

	require.NoError(t, SimplifyPaths(r, 0.01))
	assert.Len(t, raftPath.Points, 4, "raft paths must not be simplified")
}

func TestSimplifyPathsErrors(t *testing.T) {
	r := slicedResult(t, &slicer.Layer{})
	assert.Error(t, SimplifyPaths(r, 0))

	unsliced := slicer.NewResult(nil, 0.5)
	assert.Error(t, SimplifyPaths(unsliced, 0.1))
}

func TestAlignSeamsToPoint(t *testing.T) {
	p := squarePath(0, 0, 0, 1)
	r := slicedResult(t, &slicer.Layer{Paths: []*slicer.Path{p}})

	require.NoError(t, AlignSeams(r, AlignPoint, geometry.NewVector3(5, 5, 0)))

	// seam rotates to the corner nearest the align point
	assert.Equal(t, geometry.NewVector3(1, 1, 0), p.Points[0])
	assert.Len(t, p.Points, 8, "rotation must not change the point count")
}

func TestAlignSeamsReversesOpenPath(t *testing.T) {
	p := &slicer.Path{Points: []geometry.Vector3{
		{X: 0}, {X: 1}, {X: 2},
	}}
	r := slicedResult(t, &slicer.Layer{Paths: []*slicer.Path{p}})

	require.NoError(t, AlignSeams(r, AlignOrigin, geometry.Vector3{}))

	assert.Equal(t, geometry.NewVector3(0, 0, 0), p.Points[0],
		"already closest, unchanged")

	require.NoError(t, AlignSeams(r, AlignXAxis, geometry.Vector3{}))
	assert.Equal(t, geometry.NewVector3(2, 0, 0), p.Points[0],
		"reversed towards +x")
}

func TestSmoothSeams(t *testing.T) {
	p := squarePath(0.5, 0.5, 0, 0.5)
	r := slicedResult(t, &slicer.Layer{Paths: []*slicer.Path{p}})

	require.NoError(t, SmoothSeams(r, 0.2))

	assert.Len(t, p.Points, 7)
	first := p.Points[0]
	assert.InDelta(t, 0.2, first.X, 1e-10)
	assert.InDelta(t, 0.0, first.Y, 1e-10)
}

func TestSmoothSeamsSkipsMultiPathLayers(t *testing.T) {
	a := squarePath(0, 0, 0, 1)
	b := squarePath(5, 5, 0, 1)
	r := slicedResult(t, &slicer.Layer{Paths: []*slicer.Path{a, b}})

	require.NoError(t, SmoothSeams(r, 0.2))

	assert.Len(t, a.Points, 8, "multi-path layer left alone")
	assert.NotEmpty(t, r.Diagnostics())
}

func TestGenerateBrim(t *testing.T) {
	r := slicedResult(t,
		&slicer.Layer{Paths: []*slicer.Path{squarePath(0.5, 0.5, 0.1, 0.5)}},
		&slicer.Layer{Paths: []*slicer.Path{squarePath(0.5, 0.5, 0.6, 0.5)}},
	)

	require.NoError(t, GenerateBrim(r, 0.3, 3))

	require.Len(t, r.Layers, 2, "brim replaces the first layer")
	brim := r.Layers[0]
	assert.True(t, brim.IsBrim)
	assert.Equal(t, 3, brim.BrimOffsets)
	require.Len(t, brim.Paths, 3)

	// printed outside-in: perimeters shrink towards the object
	prev := brim.Paths[0].Length()
	for _, p := range brim.Paths[1:] {
		assert.Less(t, p.Length(), prev)
		prev = p.Length()
	}

	// outermost path: side 1 + 2*0.6
	assert.InDelta(t, 4*(1+1.2), brim.Paths[0].Length(), 1e-6)
	for _, p := range brim.Paths {
		assert.True(t, p.IsClosed)
		assert.InDelta(t, 0.1, p.Points[0].Z, 1e-10)
	}
}

func TestGenerateBrimAfterRaftFails(t *testing.T) {
	r := slicedResult(t,
		&slicer.Layer{Paths: []*slicer.Path{squarePath(0.5, 0.5, 0, 0.5)}},
	)
	require.NoError(t, GenerateRaft(r, RaftConfig{
		Offset: 1, DistanceBetweenPaths: 1, Layers: 1,
	}))

	assert.Error(t, GenerateBrim(r, 0.3, 2))
}

func TestGenerateRaft(t *testing.T) {
	model := squarePath(0.5, 0.5, 0, 0.5)
	r := slicedResult(t,
		&slicer.Layer{Paths: []*slicer.Path{model}},
		&slicer.Layer{Paths: []*slicer.Path{squarePath(0.5, 0.5, 0.5, 0.5)}},
	)

	require.NoError(t, GenerateRaft(r, RaftConfig{
		Offset:               1,
		DistanceBetweenPaths: 1,
		Direction:            XAxis,
		Layers:               2,
	}))

	require.Len(t, r.Layers, 4)
	assert.True(t, r.Layers[0].IsRaft)
	assert.True(t, r.Layers[1].IsRaft)
	assert.False(t, r.Layers[2].IsRaft)

	// footprint [-1,2]x[-1,2], 1mm spacing -> 4 lines, zigzag
	raftPath := r.Layers[0].Paths[0]
	assert.False(t, raftPath.IsClosed)
	assert.Len(t, raftPath.Points, 8)

	// model lifted by one raft layer height
	assert.InDelta(t, 0.5, model.Points[0].Z, 1e-10)
}

func TestGenerateRaftAfterBrimFails(t *testing.T) {
	r := slicedResult(t,
		&slicer.Layer{Paths: []*slicer.Path{squarePath(0.5, 0.5, 0, 0.5)}},
		&slicer.Layer{Paths: []*slicer.Path{squarePath(0.5, 0.5, 0.5, 0.5)}},
	)
	require.NoError(t, GenerateBrim(r, 0.3, 2))

	err := GenerateRaft(r, RaftConfig{Offset: 1, DistanceBetweenPaths: 1, Layers: 1})
	assert.Error(t, err)
}

func TestSortIntoVerticalLayers(t *testing.T) {
	// two separate towers of stacked contours
	var layers []*slicer.Layer
	for i := 0; i < 3; i++ {
		z := float64(i) * 0.5
		layers = append(layers, &slicer.Layer{Paths: []*slicer.Path{
			squarePath(0, 0, z, 1),
			squarePath(100, 0, z, 1),
		}})
	}
	r := slicedResult(t, layers...)

	require.NoError(t, SortIntoVerticalLayers(r, 5, 0))

	assert.Nil(t, r.Layers, "horizontal layers are consumed")
	require.Len(t, r.VerticalLayers, 2)
	assert.Len(t, r.VerticalLayers[0].Paths, 3)
	assert.Len(t, r.VerticalLayers[1].Paths, 3)
}

func TestSortIntoVerticalLayersMaxPaths(t *testing.T) {
	var layers []*slicer.Layer
	for i := 0; i < 4; i++ {
		layers = append(layers, &slicer.Layer{Paths: []*slicer.Path{
			squarePath(0, 0, float64(i)*0.5, 1),
		}})
	}
	r := slicedResult(t, layers...)

	require.NoError(t, SortIntoVerticalLayers(r, 5, 2))

	require.Len(t, r.VerticalLayers, 2, "cap of 2 paths per vertical layer")
}

func TestReorderVerticalLayers(t *testing.T) {
	var layers []*slicer.Layer
	for i := 0; i < 2; i++ {
		z := float64(i) * 0.5
		layers = append(layers, &slicer.Layer{Paths: []*slicer.Path{
			squarePath(0, 0, z, 1),
			squarePath(100, 0, z, 1),
		}})
	}
	r := slicedResult(t, layers...)
	require.NoError(t, SortIntoVerticalLayers(r, 5, 0))
	require.Len(t, r.VerticalLayers, 2)

	require.NoError(t, ReorderVerticalLayers(r, geometry.NewVector3(100, 0, 0)))

	assert.InDelta(t, 100, r.VerticalLayers[0].HeadCentroid.X, 1e-10,
		"tower nearest the align point prints first")
}

func TestUnifyPathsOrientation(t *testing.T) {
	ref := &slicer.Path{IsClosed: true, Points: []geometry.Vector3{
		{X: 0, Y: 0}, {X: 0.5, Y: 0.5}, {X: 1, Y: 1}, {X: -1, Y: -1}, {X: 0, Y: -1},
	}}
	flipped := &slicer.Path{IsClosed: true, Points: []geometry.Vector3{
		{X: 0, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: -1}, {X: 1, Y: 1}, {X: 0.5, Y: 0.5},
	}}
	r := slicedResult(t, &slicer.Layer{Paths: []*slicer.Path{ref, flipped}})

	require.NoError(t, UnifyPathsOrientation(r))

	assert.Equal(t, ref.Points, flipped.Points,
		"reversed winding restored, seam stays in front")
}

func TestUnifyPathsOrientationOpen(t *testing.T) {
	ref := &slicer.Path{Points: []geometry.Vector3{
		{X: 0}, {X: 1}, {X: 2},
	}}
	flipped := &slicer.Path{Points: []geometry.Vector3{
		{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}}
	r := slicedResult(t,
		&slicer.Layer{Paths: []*slicer.Path{ref}},
		&slicer.Layer{Paths: []*slicer.Path{flipped}},
	)

	require.NoError(t, UnifyPathsOrientation(r))

	assert.Equal(t, geometry.NewVector3(0, 1, 0), flipped.Points[0])
}
