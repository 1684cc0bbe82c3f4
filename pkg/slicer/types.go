// Package slicer generates print paths on a triangle mesh. Three
// slicing strategies are provided: planar, scalar field isocontours and
// boundary interpolation. All of them share the Path/Layer data model
// and the Result lifecycle.
package slicer

import (
	"math"

	"github.com/philipparndt/goslice/pkg/geometry"
)

// Path is an ordered polyline on the sliced surface. Closed paths do
// not repeat the first point at the end.
type Path struct {
	Points   []geometry.Vector3
	IsClosed bool
}

// Centroid returns the average of the path points.
func (p *Path) Centroid() geometry.Vector3 {
	return geometry.Centroid(p.Points)
}

// Length returns the total polyline length, including the closing
// segment for closed paths.
func (p *Path) Length() float64 {
	if len(p.Points) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Distance(p.Points[i])
	}
	if p.IsClosed {
		total += p.Points[len(p.Points)-1].Distance(p.Points[0])
	}
	return total
}

// Reverse flips the point order in place.
func (p *Path) Reverse() {
	for i, j := 0, len(p.Points)-1; i < j; i, j = i+1, j-1 {
		p.Points[i], p.Points[j] = p.Points[j], p.Points[i]
	}
}

// Layer groups the paths generated at one slicing step. Brim and raft
// layers are generated by post-processing and flagged so that later
// stages can treat them differently.
type Layer struct {
	Paths []*Path

	IsBrim      bool
	BrimOffsets int
	IsRaft      bool
}

// PathCount returns the number of paths in the layer.
func (l *Layer) PathCount() int { return len(l.Paths) }

// ZRange returns the minimum and maximum z over all layer points.
func (l *Layer) ZRange() (zmin, zmax float64) {
	zmin, zmax = math.Inf(1), math.Inf(-1)
	for _, p := range l.Paths {
		for _, pt := range p.Points {
			zmin = math.Min(zmin, pt.Z)
			zmax = math.Max(zmax, pt.Z)
		}
	}
	return zmin, zmax
}

// VerticalLayer groups paths that lie on top of each other, used for
// non-planar prints where paths do not share a common plane.
type VerticalLayer struct {
	ID    int
	Paths []*Path

	// HeadCentroid is the centroid of the most recently appended path.
	HeadCentroid geometry.Vector3
}

// AppendPath adds a path and moves the layer head to its centroid.
func (v *VerticalLayer) AppendPath(p *Path) {
	v.Paths = append(v.Paths, p)
	v.HeadCentroid = p.Centroid()
}

// ZRange returns the minimum and maximum z over all paths.
func (v *VerticalLayer) ZRange() (zmin, zmax float64) {
	zmin, zmax = math.Inf(1), math.Inf(-1)
	for _, p := range v.Paths {
		for _, pt := range p.Points {
			zmin = math.Min(zmin, pt.Z)
			zmax = math.Max(zmax, pt.Z)
		}
	}
	return zmin, zmax
}
