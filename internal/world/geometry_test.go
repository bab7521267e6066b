package world

import (
	"errors"
	"testing"
)

func square(x, y int) *Tile {
	fx, fy := float32(x), float32(y)
	return NewTile(TileKey{X: x, Y: y}, []Vec3{
		{fx, fy, 0}, {fx + 1, fy, 0}, {fx + 1, fy + 1, 0}, {fx, fy + 1, 0},
	}, "grassland", Color{R: 0.2, G: 0.8, B: 0.2})
}

func triangle(x, y int) *Tile {
	fx, fy := float32(x), float32(y)
	return NewTile(TileKey{X: x, Y: y}, []Vec3{
		{fx, fy, 0}, {fx + 1, fy, 0}, {fx, fy + 1, 0},
	}, "desert", Color{R: 0.9, G: 0.8, B: 0.4})
}

func TestNewTile_Centroid(t *testing.T) {
	tile := square(2, 4)
	if tile.Centroid != (Vec3{X: 2.5, Y: 4.5, Z: 0}) {
		t.Fatalf("expected centroid (2.5,4.5,0), got %+v", tile.Centroid)
	}
}

func TestGeometryStore_RangesPartitionBuffer(t *testing.T) {
	tiles := []*Tile{square(0, 0), triangle(1, 0), square(2, 0), triangle(3, 0)}
	s := NewGeometryStore()
	buf, total, err := s.Build(tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 14 {
		t.Fatalf("expected 14 vertices, got %d", total)
	}
	if len(buf) != total*3 {
		t.Fatalf("expected %d floats, got %d", total*3, len(buf))
	}

	next := 0
	sum := 0
	for _, tile := range tiles {
		if tile.VertexOffset != next {
			t.Fatalf("tile %s offset=%d, want %d", tile.Key, tile.VertexOffset, next)
		}
		if tile.VertexCount != len(tile.Polygon) {
			t.Fatalf("tile %s count=%d, want %d", tile.Key, tile.VertexCount, len(tile.Polygon))
		}
		next += tile.VertexCount
		sum += tile.VertexCount
	}
	if sum != total {
		t.Fatalf("sum of counts %d != total %d", sum, total)
	}
}

func TestGeometryStore_BufferIsInterleavedInOrder(t *testing.T) {
	a, b := triangle(0, 0), triangle(5, 5)
	s := NewGeometryStore()
	buf, _, err := s.Build([]*Tile{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second tile starts at vertex 3, float 9.
	if buf[9] != 5 || buf[10] != 5 || buf[11] != 0 {
		t.Fatalf("second tile pivot not at float 9: %v", buf[9:12])
	}
	if buf[6] != 0 || buf[7] != 1 {
		t.Fatalf("first tile last vertex wrong: %v", buf[6:9])
	}
}

func TestGeometryStore_Range(t *testing.T) {
	s := NewGeometryStore()
	if _, _, err := s.Build([]*Tile{square(0, 0), triangle(1, 0)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	off, n, err := s.Range(TileKey{X: 1, Y: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != 4 || n != 3 {
		t.Fatalf("expected range (4,3), got (%d,%d)", off, n)
	}
	if _, _, err := s.Range(TileKey{X: 9, Y: 9}); !errors.Is(err, ErrUnknownTile) {
		t.Fatalf("expected ErrUnknownTile, got %v", err)
	}
}

func TestGeometryStore_EmptyIsUsable(t *testing.T) {
	s := NewGeometryStore()
	buf, total, err := s.Build(nil)
	if !errors.Is(err, ErrEmptyGeometry) {
		t.Fatalf("expected ErrEmptyGeometry, got %v", err)
	}
	if total != 0 || len(buf) != 0 || s.Len() != 0 {
		t.Fatalf("empty build should describe zero ranges, got total=%d len=%d", total, s.Len())
	}
}

func TestGeometryStore_DegenerateTile(t *testing.T) {
	bad := NewTile(TileKey{X: 1, Y: 1}, []Vec3{{0, 0, 0}, {1, 0, 0}}, "ocean", Color{})
	s := NewGeometryStore()
	_, _, err := s.Build([]*Tile{square(0, 0), bad})
	if !errors.Is(err, ErrDegenerateTile) {
		t.Fatalf("expected ErrDegenerateTile, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("failed build must leave the store empty")
	}
}

func TestGeometryStore_DuplicateKey(t *testing.T) {
	s := NewGeometryStore()
	_, _, err := s.Build([]*Tile{square(0, 0), square(0, 0)})
	if !errors.Is(err, ErrDuplicateTile) {
		t.Fatalf("expected ErrDuplicateTile, got %v", err)
	}
}

func TestGeometryStore_RebuildReplacesEverything(t *testing.T) {
	s := NewGeometryStore()
	if _, _, err := s.Build([]*Tile{square(0, 0), square(1, 0)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gen := s.Generation()
	if _, _, err := s.Build([]*Tile{triangle(7, 7)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Generation() == gen {
		t.Fatal("rebuild should bump the generation")
	}
	if s.Tile(TileKey{X: 0, Y: 0}) != nil {
		t.Fatal("old tile should not survive a rebuild")
	}
	if s.TotalVertices() != 3 {
		t.Fatalf("expected 3 vertices after rebuild, got %d", s.TotalVertices())
	}
}
