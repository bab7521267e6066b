package movement

import "github.com/Garsondee/Tile-World/internal/world"

// Graph supplies routes and edge costs between tiles.
type Graph interface {
	// ShortestPath returns the minimum-cost route from..to inclusive, or
	// false if to is unreachable.
	ShortestPath(from, to world.TileKey) ([]world.TileKey, bool)
	// EdgeCost is direction-agnostic; edges without an explicit weight cost 1.
	EdgeCost(a, b world.TileKey) int
}

// Status is the outcome of a move request.
type Status uint8

const (
	Completed          Status = iota // unit reached the destination
	InsufficientBudget               // unit stopped on the last affordable tile
	NoPath                           // destination unreachable, unit untouched
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case InsufficientBudget:
		return "insufficient_budget"
	case NoPath:
		return "no_path"
	default:
		return "unknown"
	}
}

// MoveResult describes what a RequestMove call did.
type MoveResult struct {
	Status Status
	Path   []world.TileKey // route as computed, nil for NoPath
	Steps  int             // edges actually walked
	Spent  int             // movement points consumed
}

// Engine walks units along graph routes under their movement budget.
// It does not know about turns; callers invoke ResetBudget.
type Engine struct {
	graph Graph
}

// NewEngine returns an engine routing over g.
func NewEngine(g Graph) *Engine {
	return &Engine{graph: g}
}

// RequestMove moves u toward dest along the cheapest route, one edge at a
// time, until the destination is reached or the next edge is unaffordable.
// The unpaid remainder of the route is dropped.
func (e *Engine) RequestMove(u *world.Unit, dest world.TileKey) MoveResult {
	path, ok := e.graph.ShortestPath(u.Position, dest)
	if !ok || len(path) == 0 {
		return MoveResult{Status: NoPath}
	}

	res := MoveResult{Status: Completed, Path: path}
	for i := 0; i+1 < len(path); i++ {
		cost := e.graph.EdgeCost(path[i], path[i+1])
		if cost < 0 || u.MovementRemaining < cost {
			res.Status = InsufficientBudget
			return res
		}
		u.Position = path[i+1]
		u.MovementRemaining -= cost
		res.Steps++
		res.Spent += cost
	}
	return res
}

// ResetBudget restores u's movement points to its maximum.
func (e *Engine) ResetBudget(u *world.Unit) {
	u.MovementRemaining = u.MovementMax
}
