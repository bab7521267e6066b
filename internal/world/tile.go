package world

import "fmt"

// TileKey identifies a tile by its grid coordinate in the source geography.
type TileKey struct {
	X int
	Y int
}

func (k TileKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.X, k.Y)
}

// Vec3 is a point on the planet surface.
type Vec3 struct {
	X, Y, Z float32
}

// Color is a display colour with channels normalised to [0,1].
type Color struct {
	R, G, B float32
}

// Tile is one convex polygon of the planet surface.
type Tile struct {
	Key      TileKey
	Polygon  []Vec3 // fan order, Polygon[0] is the pivot
	Biome    string
	Color    Color
	Centroid Vec3

	// Position of this tile inside the shared geometry buffer, in vertices.
	// Only GeometryStore.Build writes these.
	VertexOffset int
	VertexCount  int

	Selected bool
}

// NewTile creates a tile and computes its centroid once.
func NewTile(key TileKey, polygon []Vec3, biome string, c Color) *Tile {
	return &Tile{
		Key:      key,
		Polygon:  polygon,
		Biome:    biome,
		Color:    c,
		Centroid: centroid(polygon),
	}
}

func centroid(poly []Vec3) Vec3 {
	if len(poly) == 0 {
		return Vec3{}
	}
	var sx, sy, sz float64
	for _, v := range poly {
		sx += float64(v.X)
		sy += float64(v.Y)
		sz += float64(v.Z)
	}
	n := float64(len(poly))
	return Vec3{X: float32(sx / n), Y: float32(sy / n), Z: float32(sz / n)}
}
