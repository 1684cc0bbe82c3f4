package mesh

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/philipparndt/goslice/pkg/geometry"
)

// faceCentroid is a kd-tree element carrying the face it belongs to.
type faceCentroid struct {
	kdtree.Point
	face int
}

// Compare, Dims and Distance unwrap the embedded coordinates of both
// elements. The promoted kdtree.Point methods would type-assert the
// peer to a bare Point and fail against faceCentroid values.
func (c faceCentroid) Compare(o kdtree.Comparable, d kdtree.Dim) float64 {
	return c.Point.Compare(o.(faceCentroid).Point, d)
}

func (c faceCentroid) Dims() int { return len(c.Point) }

func (c faceCentroid) Distance(o kdtree.Comparable) float64 {
	return c.Point.Distance(o.(faceCentroid).Point)
}

type faceCentroids []faceCentroid

func (c faceCentroids) Index(i int) kdtree.Comparable { return c[i] }
func (c faceCentroids) Len() int                      { return len(c) }
func (c faceCentroids) Pivot(d kdtree.Dim) int {
	return centroidPlane{Dim: d, faceCentroids: c}.Pivot()
}
func (c faceCentroids) Slice(start, end int) kdtree.Interface { return c[start:end] }

type centroidPlane struct {
	kdtree.Dim
	faceCentroids
}

func (p centroidPlane) Less(i, j int) bool {
	return p.faceCentroids[i].Point[p.Dim] < p.faceCentroids[j].Point[p.Dim]
}
func (p centroidPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p centroidPlane) Slice(start, end int) kdtree.SortSlicer {
	p.faceCentroids = p.faceCentroids[start:end]
	return p
}
func (p centroidPlane) Swap(i, j int) {
	p.faceCentroids[i], p.faceCentroids[j] = p.faceCentroids[j], p.faceCentroids[i]
}

// FaceLocator answers closest-face queries against a fixed mesh using a
// kd-tree over face centroids. Safe for concurrent queries.
type FaceLocator struct {
	mesh *Mesh
	tree *kdtree.Tree
}

// NewFaceLocator builds a locator for m. Returns nil for a mesh
// without faces.
func NewFaceLocator(m *Mesh) *FaceLocator {
	if m.FaceCount() == 0 {
		return nil
	}
	data := make(faceCentroids, m.FaceCount())
	for f := range m.Faces {
		c := m.FaceCentroid(f)
		data[f] = faceCentroid{Point: kdtree.Point{c.X, c.Y, c.Z}, face: f}
	}
	return &FaceLocator{mesh: m, tree: kdtree.New(data, false)}
}

// ClosestFace returns the face whose centroid is nearest to p.
func (l *FaceLocator) ClosestFace(p geometry.Vector3) int {
	got, _ := l.tree.Nearest(faceCentroid{Point: kdtree.Point{p.X, p.Y, p.Z}})
	return got.(faceCentroid).face
}

// Project returns p projected onto the plane of its closest face,
// together with that face's normal and index.
func (l *FaceLocator) Project(p geometry.Vector3) (point, normal geometry.Vector3, face int) {
	face = l.ClosestFace(p)
	tri := l.mesh.FaceTriangle(face)
	return tri.ClosestPoint(p), l.mesh.FaceNormal(face), face
}
