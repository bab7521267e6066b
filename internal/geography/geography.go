// Package geography supplies the tile set and movement graph of a planet,
// either loaded from a JSON description or generated as a test grid.
package geography

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Garsondee/Tile-World/internal/config"
	"github.com/Garsondee/Tile-World/internal/movement"
	"github.com/Garsondee/Tile-World/internal/world"
	"github.com/rs/zerolog"
)

// Geography is a finalized tile collection plus its adjacency graph.
type Geography struct {
	Tiles []*world.Tile
	Graph *movement.TileGraph
}

type fileNode struct {
	ID      [2]int       `json:"id"`
	Biome   string       `json:"biome"`
	Color   []float64    `json:"color"` // 0-255
	Polygon [][3]float32 `json:"polygon"`
}

type fileEdge struct {
	Source [2]int `json:"source"`
	Target [2]int `json:"target"`
	Cost   *int   `json:"cost,omitempty"`
}

type file struct {
	Nodes []fileNode `json:"nodes"`
	Edges []fileEdge `json:"edges"`
}

// FromConfig loads cfg.File when set and otherwise generates a grid.
func FromConfig(cfg config.GeographyConfig, log zerolog.Logger) (*Geography, error) {
	if cfg.File != "" {
		return Load(cfg.File, log)
	}
	opt := DefaultGridOptions
	opt.Cols, opt.Rows, opt.Seed = cfg.Cols, cfg.Rows, cfg.Seed
	g := Generate(opt)
	log.Info().Int("cols", opt.Cols).Int("rows", opt.Rows).Int64("seed", opt.Seed).Msg("geography generated")
	return g, nil
}

// SpawnTile returns the first tile with at least one neighbour, falling
// back to the first tile. It reports false for an empty geography.
func (g *Geography) SpawnTile() (world.TileKey, bool) {
	if len(g.Tiles) == 0 {
		return world.TileKey{}, false
	}
	for _, t := range g.Tiles {
		if len(g.Graph.Neighbors(t.Key)) > 0 {
			return t.Key, true
		}
	}
	return g.Tiles[0].Key, true
}

// Load reads a geography JSON file.
func Load(path string, log zerolog.Logger) (*Geography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geography %s: %w", path, err)
	}
	return Parse(data, log)
}

// Parse decodes a geography document. Nodes without a biome, colour or
// polygon are skipped, as are edges touching them. Edges without a cost
// get movement.DefaultEdgeCost.
func Parse(data []byte, log zerolog.Logger) (_ *Geography, err error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding geography: %w", err)
	}

	g := &Geography{Graph: movement.NewTileGraph()}
	defer func() {
		if err != nil {
			g.Graph.Close()
		}
	}()
	for _, n := range f.Nodes {
		key := world.TileKey{X: n.ID[0], Y: n.ID[1]}
		if n.Biome == "" || len(n.Color) < 3 || len(n.Polygon) == 0 {
			log.Debug().Stringer("tile", key).Msg("skipping incomplete node")
			continue
		}
		if g.Graph.Has(key) {
			return nil, fmt.Errorf("node %s: %w", key, world.ErrDuplicateTile)
		}
		poly := make([]world.Vec3, len(n.Polygon))
		for i, p := range n.Polygon {
			poly[i] = world.Vec3{X: p[0], Y: p[1], Z: p[2]}
		}
		c := world.Color{
			R: float32(n.Color[0] / 255),
			G: float32(n.Color[1] / 255),
			B: float32(n.Color[2] / 255),
		}
		g.Tiles = append(g.Tiles, world.NewTile(key, poly, n.Biome, c))
		g.Graph.AddTile(key)
	}

	dropped := 0
	for _, e := range f.Edges {
		a := world.TileKey{X: e.Source[0], Y: e.Source[1]}
		b := world.TileKey{X: e.Target[0], Y: e.Target[1]}
		if !g.Graph.Has(a) || !g.Graph.Has(b) {
			dropped++
			continue
		}
		cost := movement.DefaultEdgeCost
		if e.Cost != nil {
			cost = *e.Cost
		}
		if err = g.Graph.Connect(a, b, cost); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("tiles", len(g.Tiles)).
		Int("skipped_nodes", len(f.Nodes)-len(g.Tiles)).
		Int("dropped_edges", dropped).
		Msg("geography loaded")
	return g, nil
}
