package picking

import (
	"fmt"

	"github.com/Garsondee/Tile-World/internal/world"
)

// Renderer is the draw target used by the id pass. Implementations must
// draw fills exactly: no blending, no antialiasing, no filtering.
type Renderer interface {
	Clear()
	DrawTileRange(offset, count int, fill world.Color)
	ReadPixel(x, y int) Pixel
}

// IDTable maps 1-based picking ids to tiles for one geometry build.
type IDTable struct {
	tiles      []*world.Tile
	ids        map[world.TileKey]uint32
	generation uint64
}

// AssignIDs numbers the store's tiles in registration order starting at 1.
func AssignIDs(store *world.GeometryStore) IDTable {
	tiles := store.Tiles()
	t := IDTable{
		tiles:      make([]*world.Tile, len(tiles)),
		ids:        make(map[world.TileKey]uint32, len(tiles)),
		generation: store.Generation(),
	}
	copy(t.tiles, tiles)
	for i, tile := range tiles {
		t.ids[tile.Key] = uint32(i + 1)
	}
	return t
}

// ID returns the picking id of key, or NoTile.
func (t IDTable) ID(key world.TileKey) uint32 { return t.ids[key] }

// Len returns the number of assigned ids.
func (t IDTable) Len() int { return len(t.tiles) }

// Lookup returns the tile for id. Id 0 and ids past the table are misses.
func (t IDTable) Lookup(id uint32) (*world.Tile, bool) {
	if id == NoTile || uint64(id) > uint64(len(t.tiles)) {
		return nil, false
	}
	return t.tiles[id-1], true
}

// Resolver answers "which tile is under this screen point" by drawing every
// tile in its id colour and reading back one pixel.
type Resolver struct {
	store    *world.GeometryStore
	renderer Renderer
	codec    Codec
	ids      IDTable

	// FlipY reads row frame.H-y instead of y, for targets whose origin is
	// bottom-left while cursor coordinates are top-left.
	FlipY bool
}

// NewResolver binds a resolver to store and assigns ids for its current build.
// A nil codec selects RGB24.
func NewResolver(store *world.GeometryStore, r Renderer, codec Codec) *Resolver {
	if codec == nil {
		codec = RGB24{}
	}
	return &Resolver{
		store:    store,
		renderer: r,
		codec:    codec,
		ids:      AssignIDs(store),
	}
}

// Refresh reassigns ids after the store was rebuilt.
func (p *Resolver) Refresh() {
	p.ids = AssignIDs(p.store)
}

// IDs returns the current id table.
func (p *Resolver) IDs() IDTable { return p.ids }

// Frame is the size of the render target in pixels.
type Frame struct {
	W, H int
}

// Resolve runs the id pass and returns the key of the tile under (x, y).
// A miss clears the selection; a hit makes that tile the only selected one.
// Cursor bounds checking is the caller's job.
func (p *Resolver) Resolve(x, y int, frame Frame) (world.TileKey, bool) {
	if p.ids.generation != p.store.Generation() {
		panic(fmt.Sprintf("picking: id table from build %d used against build %d; call Refresh after Build",
			p.ids.generation, p.store.Generation()))
	}

	p.renderer.Clear()
	for i, t := range p.ids.tiles {
		p.renderer.DrawTileRange(t.VertexOffset, t.VertexCount, p.codec.Encode(uint32(i+1)))
	}

	readY := y
	if p.FlipY {
		readY = frame.H - y
	}
	id := p.codec.Decode(p.renderer.ReadPixel(x, readY))

	hit, ok := p.ids.Lookup(id)
	p.selectOnly(hit)
	if !ok {
		return world.TileKey{}, false
	}
	return hit.Key, true
}

// ClearSelection deselects every tile.
func (p *Resolver) ClearSelection() { p.selectOnly(nil) }

func (p *Resolver) selectOnly(hit *world.Tile) {
	for _, t := range p.ids.tiles {
		t.Selected = t == hit
	}
}
