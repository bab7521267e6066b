package world

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGeometry is returned when Build is given no tiles.
	ErrEmptyGeometry = errors.New("empty geometry")
	// ErrDegenerateTile is returned when a tile has fewer than 3 vertices.
	ErrDegenerateTile = errors.New("degenerate tile")
	// ErrUnknownTile is returned for keys that were not part of the last build.
	ErrUnknownTile = errors.New("unknown tile")
	// ErrDuplicateTile is returned when two tiles share a key.
	ErrDuplicateTile = errors.New("duplicate tile")
)

// minFanVertices is the smallest polygon that can be drawn as a triangle fan.
const minFanVertices = 3

// GeometryStore packs every tile polygon into one contiguous vertex buffer
// and remembers the (offset, count) draw range of each tile.
//
// The store is never patched: a changed tile set means a new Build, which
// bumps Generation and invalidates anything derived from the old build.
type GeometryStore struct {
	tiles      []*Tile
	index      map[TileKey]int
	buffer     []float32
	total      int
	generation uint64
}

// NewGeometryStore returns an empty store.
func NewGeometryStore() *GeometryStore {
	return &GeometryStore{index: map[TileKey]int{}}
}

// Build replaces the store contents with tiles, assigning each tile its
// vertex range in order. It returns the flattened xyz buffer and the total
// vertex count. On error the store is left empty but usable.
func (s *GeometryStore) Build(tiles []*Tile) ([]float32, int, error) {
	s.reset()
	if len(tiles) == 0 {
		return s.buffer, 0, ErrEmptyGeometry
	}

	total := 0
	index := make(map[TileKey]int, len(tiles))
	for i, t := range tiles {
		if len(t.Polygon) < minFanVertices {
			return s.buffer, 0, fmt.Errorf("tile %s has %d vertices: %w", t.Key, len(t.Polygon), ErrDegenerateTile)
		}
		if _, dup := index[t.Key]; dup {
			return s.buffer, 0, fmt.Errorf("tile %s: %w", t.Key, ErrDuplicateTile)
		}
		index[t.Key] = i
		total += len(t.Polygon)
	}

	buf := make([]float32, 0, total*3)
	offset := 0
	for _, t := range tiles {
		t.VertexOffset = offset
		t.VertexCount = len(t.Polygon)
		for _, v := range t.Polygon {
			buf = append(buf, v.X, v.Y, v.Z)
		}
		offset += t.VertexCount
	}

	s.tiles = append([]*Tile(nil), tiles...)
	s.index = index
	s.buffer = buf
	s.total = total
	return s.buffer, s.total, nil
}

func (s *GeometryStore) reset() {
	s.tiles = nil
	s.index = map[TileKey]int{}
	s.buffer = []float32{}
	s.total = 0
	s.generation++
}

// Range returns the draw range of key in the current build.
func (s *GeometryStore) Range(key TileKey) (offset, count int, err error) {
	i, ok := s.index[key]
	if !ok {
		return 0, 0, fmt.Errorf("tile %s: %w", key, ErrUnknownTile)
	}
	t := s.tiles[i]
	return t.VertexOffset, t.VertexCount, nil
}

// Tile returns the tile registered under key, or nil.
func (s *GeometryStore) Tile(key TileKey) *Tile {
	i, ok := s.index[key]
	if !ok {
		return nil
	}
	return s.tiles[i]
}

// Tiles returns the tiles in registration order. Callers must not reorder it.
func (s *GeometryStore) Tiles() []*Tile { return s.tiles }

// Len returns the number of tiles in the current build.
func (s *GeometryStore) Len() int { return len(s.tiles) }

// Buffer returns the packed xyz vertex buffer of the current build.
func (s *GeometryStore) Buffer() []float32 { return s.buffer }

// TotalVertices returns the vertex count of the current build.
func (s *GeometryStore) TotalVertices() int { return s.total }

// Generation increases on every Build, successful or not.
func (s *GeometryStore) Generation() uint64 { return s.generation }
