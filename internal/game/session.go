package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Garsondee/Tile-World/internal/movement"
	"github.com/Garsondee/Tile-World/internal/picking"
	"github.com/Garsondee/Tile-World/internal/world"
	"github.com/rs/zerolog"
)

// ErrNoUnit is returned for move orders when the session has no units.
var ErrNoUnit = errors.New("no unit to move")

// IDTarget is a picking render target that also holds the vertex buffer.
type IDTarget interface {
	picking.Renderer
	Load(buf []float32)
}

// Session owns the state of one play session. Each component gets only
// the piece it works on: the resolver sees the geometry store and id
// target, the engine sees the graph, and units are handed to the engine
// one at a time.
type Session struct {
	store    *world.GeometryStore
	target   IDTarget
	resolver *picking.Resolver
	engine   *movement.Engine

	units   []*world.Unit
	labels  []string
	spawned int
	active  int
	turn    int

	Events *EventLog
	log    zerolog.Logger
}

// NewSession builds the geometry for tiles, uploads it to target and
// assigns picking ids. Geometry errors are returned unchanged.
func NewSession(tiles []*world.Tile, graph movement.Graph, target IDTarget, log zerolog.Logger) (*Session, error) {
	s := &Session{
		store:  world.NewGeometryStore(),
		target: target,
		engine: movement.NewEngine(graph),
		turn:   1,
		Events: NewEventLog(),
		log:    log,
	}
	s.resolver = picking.NewResolver(s.store, target, nil)
	if err := s.Rebuild(tiles); err != nil {
		return nil, err
	}
	return s, nil
}

// Rebuild replaces the tile set. Geometry and picking ids are always
// rebuilt together; the old selection is dropped, as are units whose tile
// is not in the new set. The movement graph is not touched: callers that
// change adjacency must pass a session built over the new graph.
func (s *Session) Rebuild(tiles []*world.Tile) error {
	buf, total, err := s.store.Build(tiles)
	s.target.Load(buf)
	s.resolver.Refresh()
	s.resolver.ClearSelection()
	s.dropStrandedUnits()
	if err != nil {
		s.Events.Add(s.turn, "--", "geometry", "build_failed", err.Error(), 0)
		return fmt.Errorf("building geometry: %w", err)
	}
	s.Events.Add(s.turn, "--", "geometry", "built",
		fmt.Sprintf("tiles=%d vertices=%d", s.store.Len(), total), float64(total))
	s.log.Debug().Int("tiles", s.store.Len()).Int("vertices", total).Msg("geometry built")
	return nil
}

// dropStrandedUnits removes units standing on tiles the store no longer has.
func (s *Session) dropStrandedUnits() {
	active := s.ActiveUnit()
	units, labels := s.units[:0], s.labels[:0]
	for i, u := range s.units {
		if s.store.Tile(u.Position) != nil {
			units = append(units, u)
			labels = append(labels, s.labels[i])
			continue
		}
		s.Events.Add(s.turn, s.labels[i], "unit", "removed", u.Position.String(), 0)
		s.log.Warn().Str("unit", s.labels[i]).Stringer("tile", u.Position).Msg("unit tile removed by rebuild")
	}
	s.units, s.labels = units, labels

	s.active = 0
	for i, u := range s.units {
		if u == active {
			s.active = i
		}
	}
}

// SetFlipY makes picking read row frame.H-y instead of y.
func (s *Session) SetFlipY(flip bool) { s.resolver.FlipY = flip }

// AddUnit places u in the session. The first unit added becomes active.
// Labels (U0, U1, ...) are never reused.
func (s *Session) AddUnit(u *world.Unit) {
	label := fmt.Sprintf("U%d", s.spawned)
	s.spawned++
	s.units = append(s.units, u)
	s.labels = append(s.labels, label)
	s.Events.Add(s.turn, label, "unit", "spawn", u.Position.String(), float64(u.MovementMax))
}

// Select picks the tile under (x, y) and makes it the only selected tile.
func (s *Session) Select(x, y int, frame picking.Frame) (world.TileKey, bool) {
	key, ok := s.resolver.Resolve(x, y, frame)
	if !ok {
		s.Events.Add(s.turn, "--", "pick", "miss", fmt.Sprintf("(%d,%d)", x, y), 0)
		s.log.Debug().Int("x", x).Int("y", y).Msg("no tile under cursor")
		return key, false
	}
	t := s.store.Tile(key)
	s.Events.Add(s.turn, "--", "pick", "select", fmt.Sprintf("%s %s", key, t.Biome), 0)
	s.log.Info().Stringer("tile", key).Str("biome", t.Biome).Msg("tile selected")
	return key, true
}

// Order picks the tile under (x, y) and moves the active unit toward it.
// It reports false when nothing was under the cursor.
func (s *Session) Order(x, y int, frame picking.Frame) (movement.MoveResult, bool, error) {
	key, ok := s.Select(x, y, frame)
	if !ok {
		return movement.MoveResult{}, false, nil
	}
	res, err := s.MoveActive(key)
	return res, true, err
}

// MoveActive moves the active unit toward dest.
func (s *Session) MoveActive(dest world.TileKey) (movement.MoveResult, error) {
	u := s.ActiveUnit()
	if u == nil {
		return movement.MoveResult{}, ErrNoUnit
	}
	from := u.Position
	res := s.engine.RequestMove(u, dest)

	label := s.labels[s.active]
	s.Events.Add(s.turn, label, "move", res.Status.String(),
		fmt.Sprintf("%s→%s at=%s spent=%d", from, dest, u.Position, res.Spent), float64(res.Spent))

	ev := s.log.Info()
	if res.Status == movement.NoPath {
		ev = s.log.Warn()
	}
	ev.Str("unit", label).
		Stringer("from", from).
		Stringer("to", dest).
		Stringer("at", u.Position).
		Int("spent", res.Spent).
		Int("remaining", u.MovementRemaining).
		Str("status", res.Status.String()).
		Msg("move order")
	return res, nil
}

// EndTurn restores every unit's movement budget and advances the turn.
func (s *Session) EndTurn() {
	for _, u := range s.units {
		s.engine.ResetBudget(u)
	}
	s.Events.Add(s.turn, "--", "turn", "end", fmt.Sprintf("units=%d", len(s.units)), 0)
	s.log.Info().Int("turn", s.turn).Msg("turn ended")
	s.turn++
}

// CycleUnit makes the next unit active.
func (s *Session) CycleUnit() {
	if len(s.units) == 0 {
		return
	}
	s.active = (s.active + 1) % len(s.units)
}

// ActiveUnit returns the unit that receives move orders, or nil.
func (s *Session) ActiveUnit() *world.Unit {
	if len(s.units) == 0 {
		return nil
	}
	return s.units[s.active]
}

// SelectedTile returns the currently selected tile, or nil.
func (s *Session) SelectedTile() *world.Tile {
	for _, t := range s.store.Tiles() {
		if t.Selected {
			return t
		}
	}
	return nil
}

// Store exposes the geometry store for drawing.
func (s *Session) Store() *world.GeometryStore { return s.store }

// Units returns all units in spawn order.
func (s *Session) Units() []*world.Unit { return s.units }

// Turn returns the current turn number, starting at 1.
func (s *Session) Turn() int { return s.turn }

// Report summarises the selection and the active unit as plain text.
func (s *Session) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "turn %d\n", s.turn)
	if t := s.SelectedTile(); t != nil {
		fmt.Fprintf(&sb, "tile %s biome=%s centroid=(%.2f,%.2f,%.2f) vertices=%d\n",
			t.Key, t.Biome, t.Centroid.X, t.Centroid.Y, t.Centroid.Z, t.VertexCount)
	} else {
		sb.WriteString("tile none\n")
	}
	if u := s.ActiveUnit(); u != nil {
		fmt.Fprintf(&sb, "unit %s %s at %s movement %d/%d\n",
			s.labels[s.active], u.Kind, u.Position, u.MovementRemaining, u.MovementMax)
	}
	return sb.String()
}
