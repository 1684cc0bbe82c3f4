package stl

import (
	"os"
	"path/filepath"
	"testing"
)

const asciiTetra = `solid tetra
facet normal 0 0 -1
  outer loop
    vertex 0 0 0
    vertex 0 1 0
    vertex 1 0 0
  endloop
endfacet
facet normal 0 -1 0
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 0 1
  endloop
endfacet
facet normal -1 0 0
  outer loop
    vertex 0 0 0
    vertex 0 0 1
    vertex 0 1 0
  endloop
endfacet
facet normal 1 1 1
  outer loop
    vertex 1 0 0
    vertex 0 1 0
    vertex 0 0 1
  endloop
endfacet
endsolid tetra
`

func writeTempSTL(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.stl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func TestParseASCII(t *testing.T) {
	model, err := Parse(writeTempSTL(t, asciiTetra))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if model.Name != "tetra" {
		t.Errorf("Name failed: expected tetra, got %q", model.Name)
	}
	if model.TriangleCount() != 4 {
		t.Errorf("TriangleCount failed: expected 4, got %d", model.TriangleCount())
	}
}

func TestLoadMeshWelds(t *testing.T) {
	m, err := LoadMesh(writeTempSTL(t, asciiTetra), 1e-6)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	if m.VertexCount() != 4 {
		t.Errorf("expected 4 welded vertices, got %d", m.VertexCount())
	}
	if m.FaceCount() != 4 {
		t.Errorf("expected 4 faces, got %d", m.FaceCount())
	}
	if m.EdgeCount() != 6 {
		t.Errorf("expected 6 edges, got %d", m.EdgeCount())
	}
}

func TestLoadMeshEmptyFile(t *testing.T) {
	if _, err := LoadMesh(writeTempSTL(t, "solid empty\nendsolid empty\n"), 0); err == nil {
		t.Error("expected error for STL without triangles")
	}
}
