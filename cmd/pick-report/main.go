package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Tile-World/internal/config"
	"github.com/Garsondee/Tile-World/internal/game"
	"github.com/Garsondee/Tile-World/internal/geography"
	"github.com/Garsondee/Tile-World/internal/logging"
	"github.com/Garsondee/Tile-World/internal/movement"
	"github.com/Garsondee/Tile-World/internal/picking"
	"github.com/Garsondee/Tile-World/internal/render"
	"github.com/Garsondee/Tile-World/internal/world"
)

const (
	frameW = 640
	frameH = 480
)

type options struct {
	geo      config.GeographyConfig
	runs     int
	seedStep int64
	picks    int
	moves    int
	movement int
	logLevel string
	quiet    bool
}

type runStats struct {
	runIndex int
	seed     int64

	tiles    int
	vertices int

	hits   int
	misses int
	biomes map[string]struct{}

	completed    int
	insufficient int
	noPath       int
	spent        int
	turns        int
}

func main() {
	o, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("=== Pick Report ===\n")
	if o.geo.File != "" {
		fmt.Printf("file=%s runs=%d picks=%d moves=%d movement=%d\n\n", o.geo.File, o.runs, o.picks, o.moves, o.movement)
	} else {
		fmt.Printf("grid=%dx%d runs=%d picks=%d moves=%d movement=%d seed=%d seed_step=%d\n\n",
			o.geo.Cols, o.geo.Rows, o.runs, o.picks, o.moves, o.movement, o.geo.Seed, o.seedStep)
	}

	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.geo.Seed + int64(i)*o.seedStep
		rs, err := runScript(i+1, seed, o)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)
}

func runScript(runIndex int, seed int64, o options) (runStats, error) {
	log := logging.New(o.logLevel, os.Stderr)

	gc := o.geo
	gc.Seed = seed
	geo, err := geography.FromConfig(gc, log)
	if err != nil {
		return runStats{}, err
	}
	defer geo.Graph.Close()

	view := game.FitView(config.ViewConfig{Scale: fitScale(geo.Tiles, frameW, frameH)}, geo.Tiles, frameW, frameH)
	target := render.NewSoftware(frameW, frameH, view)
	s, err := game.NewSession(geo.Tiles, geo.Graph, target, log)
	if err != nil {
		return runStats{}, err
	}
	spawn, _ := geo.SpawnTile()
	s.AddUnit(world.NewUnit(spawn, "explorer", o.movement))

	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- scripted input only
	frame := picking.Frame{W: frameW, H: frameH}
	for i := 0; i < o.picks; i++ {
		x, y := rng.Intn(frameW), rng.Intn(frameH)
		key, ok := s.Select(x, y, frame)
		if !o.quiet {
			if ok {
				fmt.Printf("pick %3d (%3d,%3d) -> %s %s\n", i+1, x, y, key, s.Store().Tile(key).Biome)
			} else {
				fmt.Printf("pick %3d (%3d,%3d) -> none\n", i+1, x, y)
			}
		}
	}

	tiles := s.Store().Tiles()
	for i := 0; i < o.moves; i++ {
		dest := tiles[rng.Intn(len(tiles))].Key
		u := s.ActiveUnit()
		from := u.Position
		res, err := s.MoveActive(dest)
		if err != nil {
			return runStats{}, err
		}
		if !o.quiet {
			fmt.Printf("move %3d %s -> %s status=%s spent=%d at=%s path=%d\n",
				i+1, from, dest, res.Status, res.Spent, u.Position, len(res.Path))
		}
		s.EndTurn()
	}

	rs := tally(s.Events, s.Store())
	rs.runIndex = runIndex
	rs.seed = seed
	return rs, nil
}

func parseOptions(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("pick-report", flag.ContinueOnError)
	fs.StringVar(&o.geo.File, "file", "", "geography JSON file; empty generates a grid")
	fs.IntVar(&o.geo.Cols, "cols", 24, "generated grid columns")
	fs.IntVar(&o.geo.Rows, "rows", 16, "generated grid rows")
	fs.Int64Var(&o.geo.Seed, "seed", 42, "seed for run 1 (map and script)")
	fs.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	fs.IntVar(&o.runs, "runs", 1, "number of runs")
	fs.IntVar(&o.picks, "picks", 20, "random picks per run")
	fs.IntVar(&o.moves, "moves", 10, "random move orders per run, one per turn")
	fs.IntVar(&o.movement, "movement", world.DefaultMovement, "unit movement points per turn")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level written to stderr")
	fs.BoolVar(&o.quiet, "quiet", false, "print only per-run and aggregate tallies")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch {
	case o.runs <= 0:
		return options{}, fmt.Errorf("-runs must be > 0")
	case o.picks < 0 || o.moves < 0:
		return options{}, fmt.Errorf("-picks and -moves must be >= 0")
	case o.geo.File == "" && (o.geo.Cols <= 0 || o.geo.Rows <= 0):
		return options{}, fmt.Errorf("-cols and -rows must be > 0")
	}
	return o, nil
}

// tally derives run statistics from the session event log.
func tally(events *game.EventLog, store *world.GeometryStore) runStats {
	rs := runStats{
		tiles:    store.Len(),
		vertices: store.TotalVertices(),
		biomes:   map[string]struct{}{},
	}
	for _, e := range events.Entries() {
		switch e.Category {
		case "pick":
			switch e.Key {
			case "select":
				rs.hits++
				if i := strings.LastIndexByte(e.Value, ' '); i >= 0 {
					rs.biomes[e.Value[i+1:]] = struct{}{}
				}
			case "miss":
				rs.misses++
			}
		case "move":
			switch e.Key {
			case movement.Completed.String():
				rs.completed++
			case movement.InsufficientBudget.String():
				rs.insufficient++
			case movement.NoPath.String():
				rs.noPath++
			}
			rs.spent += int(e.NumVal)
		case "turn":
			rs.turns++
		}
	}
	return rs
}

// fitScale returns the pixels-per-unit that fits the xy extent of tiles
// into a w×h frame with a small margin.
func fitScale(tiles []*world.Tile, w, h int) float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, t := range tiles {
		for _, v := range t.Polygon {
			minX = math.Min(minX, float64(v.X))
			maxX = math.Max(maxX, float64(v.X))
			minY = math.Min(minY, float64(v.Y))
			maxY = math.Max(maxY, float64(v.Y))
		}
	}
	dx, dy := maxX-minX, maxY-minY
	if len(tiles) == 0 || dx <= 0 || dy <= 0 {
		return 1
	}
	return 0.9 * math.Min(float64(w)/dx, float64(h)/dy)
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("geometry: tiles=%d vertices=%d\n", rs.tiles, rs.vertices)
	fmt.Printf("picks: hit=%d miss=%d hit_rate=%.0f%%\n", rs.hits, rs.misses, pct(rs.hits, rs.hits+rs.misses))
	fmt.Printf("biomes_picked: %s\n", joinSet(rs.biomes))
	fmt.Printf("moves: completed=%d insufficient_budget=%d no_path=%d spent=%d turns=%d\n",
		rs.completed, rs.insufficient, rs.noPath, rs.spent, rs.turns)
	fmt.Println()
}

func printAggregate(all []runStats) {
	var hits, misses, completed, insufficient, noPath, spent int
	biomes := map[string]struct{}{}
	for _, rs := range all {
		hits += rs.hits
		misses += rs.misses
		completed += rs.completed
		insufficient += rs.insufficient
		noPath += rs.noPath
		spent += rs.spent
		for b := range rs.biomes {
			biomes[b] = struct{}{}
		}
	}
	moves := completed + insufficient + noPath

	fmt.Printf("=== Aggregate ===\n")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("picks: hit=%d miss=%d hit_rate=%.0f%%\n", hits, misses, pct(hits, hits+misses))
	fmt.Printf("moves: completed=%d insufficient_budget=%d no_path=%d completion_rate=%.0f%%\n",
		completed, insufficient, noPath, pct(completed, moves))
	fmt.Printf("avg_spent_per_move=%.2f\n", avg(spent, moves))
	fmt.Printf("unique_biomes=%d [%s]\n", len(biomes), joinSet(biomes))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(n, total int) float64 {
	return 100 * avg(n, total)
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
