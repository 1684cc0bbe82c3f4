package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	b := NewBoundingBox()
	b.Extend(NewVector3(1, 2, 3))
	b.Extend(NewVector3(-1, 5, 0))

	expectedMin := NewVector3(-1, 2, 0)
	expectedMax := NewVector3(1, 5, 3)

	if b.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, b.Min)
	}
	if b.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, b.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	b := BoundingBoxOf([]Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 3, 4),
	})

	size := b.Size()
	expected := NewVector3(2, 3, 4)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBoxOf([]Vector3{
		NewVector3(0, 0, 0),
		NewVector3(4, 6, 8),
	})

	center := b.Center()
	expected := NewVector3(2, 3, 4)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxExpand(t *testing.T) {
	b := BoundingBoxOf([]Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 2, 2),
	})

	expanded := b.Expand(1)

	if expanded.Min != NewVector3(-1, -1, 0) {
		t.Errorf("Expand min failed: got %v", expanded.Min)
	}
	if expanded.Max != NewVector3(3, 3, 2) {
		t.Errorf("Expand max failed: got %v", expanded.Max)
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	b := BoundingBoxOf([]Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 3, 4),
	})

	volume := b.Volume()
	expected := 24.0

	if math.Abs(volume-expected) > 1e-10 {
		t.Errorf("Volume failed: expected %v, got %v", expected, volume)
	}
}

func TestCentroid(t *testing.T) {
	points := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 0, 0),
		NewVector3(2, 2, 0),
		NewVector3(0, 2, 0),
	}

	c := Centroid(points)
	expected := NewVector3(1, 1, 0)

	if c != expected {
		t.Errorf("Centroid failed: expected %v, got %v", expected, c)
	}
}
