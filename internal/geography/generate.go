package geography

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Tile-World/internal/movement"
	"github.com/Garsondee/Tile-World/internal/world"
)

// Biome names used by the generator.
const (
	BiomeOcean     = "ocean"
	BiomeGrassland = "grassland"
	BiomeForest    = "forest"
	BiomeDesert    = "desert"
	BiomeHills     = "hills"
	BiomeMountain  = "mountain"
	BiomeTundra    = "tundra"
)

type biomeInfo struct {
	color     world.Color
	entryCost int // 0 = impassable
}

var biomes = map[string]biomeInfo{
	BiomeOcean:     {rgb(30, 80, 160), 0},
	BiomeGrassland: {rgb(100, 170, 70), 1},
	BiomeForest:    {rgb(35, 110, 45), 2},
	BiomeDesert:    {rgb(220, 200, 120), 2},
	BiomeHills:     {rgb(150, 140, 90), 2},
	BiomeMountain:  {rgb(120, 110, 105), 3},
	BiomeTundra:    {rgb(200, 210, 215), 2},
}

func rgb(r, g, b float32) world.Color {
	return world.Color{R: r / 255, G: g / 255, B: b / 255}
}

// BiomeCost is the movement cost of entering a tile of biome b, or 0 if
// the biome cannot be entered. Unknown biomes cost the default.
func BiomeCost(b string) int {
	info, ok := biomes[b]
	if !ok {
		return movement.DefaultEdgeCost
	}
	return info.entryCost
}

// GridOptions controls Generate.
type GridOptions struct {
	Cols, Rows int
	Seed       int64
	NoiseScale float64 // smaller = broader continents
}

// DefaultGridOptions is a small map that fits the default window.
var DefaultGridOptions = GridOptions{Cols: 24, Rows: 16, Seed: 1, NoiseScale: 0.18}

// Generate builds a deterministic grid of unit squares on the z=0 plane.
// Tile (x,y) spans [x,x+1]×[y,y+1]. Orthogonal neighbours are connected
// with cost max(entry cost of either tile), so costs are symmetric; ocean
// tiles are not connected.
func Generate(opt GridOptions) *Geography {
	if opt.NoiseScale <= 0 {
		opt.NoiseScale = DefaultGridOptions.NoiseScale
	}
	rng := rand.New(rand.NewSource(opt.Seed)) // #nosec G404 -- map generation only
	elevSeed := rng.Int63()
	moistSeed := rng.Int63()

	g := &Geography{Graph: movement.NewTileGraph()}
	for y := 0; y < opt.Rows; y++ {
		for x := 0; x < opt.Cols; x++ {
			elev := valueNoise2D(float64(x)*opt.NoiseScale, float64(y)*opt.NoiseScale, elevSeed)
			moist := valueNoise2D(float64(x)*opt.NoiseScale, float64(y)*opt.NoiseScale, moistSeed)
			lat := math.Abs(float64(y)/float64(max(opt.Rows-1, 1))*2 - 1)
			b := pickBiome(elev, moist, lat)

			key := world.TileKey{X: x, Y: y}
			fx, fy := float32(x), float32(y)
			poly := []world.Vec3{{fx, fy, 0}, {fx + 1, fy, 0}, {fx + 1, fy + 1, 0}, {fx, fy + 1, 0}}
			g.Tiles = append(g.Tiles, world.NewTile(key, poly, b, biomes[b].color))
			g.Graph.AddTile(key)
		}
	}

	byKey := make(map[world.TileKey]string, len(g.Tiles))
	for _, t := range g.Tiles {
		byKey[t.Key] = t.Biome
	}
	for _, t := range g.Tiles {
		for _, n := range []world.TileKey{{X: t.Key.X + 1, Y: t.Key.Y}, {X: t.Key.X, Y: t.Key.Y + 1}} {
			nb, ok := byKey[n]
			if !ok {
				continue
			}
			ca, cb := BiomeCost(t.Biome), BiomeCost(nb)
			if ca == 0 || cb == 0 {
				continue
			}
			// Both endpoints exist and the cost is positive.
			_ = g.Graph.Connect(t.Key, n, max(ca, cb))
		}
	}
	return g
}

func pickBiome(elev, moist, lat float64) string {
	switch {
	case elev < 0.35:
		return BiomeOcean
	case lat > 0.85:
		return BiomeTundra
	case elev > 0.8:
		return BiomeMountain
	case elev > 0.68:
		return BiomeHills
	case moist > 0.6:
		return BiomeForest
	case moist < 0.3:
		return BiomeDesert
	default:
		return BiomeGrassland
	}
}

// valueNoise2D returns smooth lattice noise in [0,1].
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
