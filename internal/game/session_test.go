package game

import (
	"testing"

	"github.com/Garsondee/Tile-World/internal/movement"
	"github.com/Garsondee/Tile-World/internal/picking"
	"github.com/Garsondee/Tile-World/internal/render"
	"github.com/Garsondee/Tile-World/internal/world"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frame = picking.Frame{W: 100, H: 100}

// screen returns the pixel at the centre of tile (x,y) under testView.
func screen(x, y int) (int, int) { return x*10 + 5, 100 - y*10 - 5 }

func testView() render.Projection {
	return render.Projection{Scale: 10, CenterY: 100}
}

func square(x, y int, biome string) *world.Tile {
	fx, fy := float32(x), float32(y)
	return world.NewTile(world.TileKey{X: x, Y: y}, []world.Vec3{
		{fx, fy, 0}, {fx + 1, fy, 0}, {fx + 1, fy + 1, 0}, {fx, fy + 1, 0},
	}, biome, world.Color{R: 0.5})
}

// newTestSession builds a 3×2 grid. Row 0 is a line joined with cost 2;
// row 1 is unreachable.
func newTestSession(t *testing.T, movementPoints int) *Session {
	t.Helper()
	var tiles []*world.Tile
	g := movement.NewTileGraph()
	t.Cleanup(g.Close)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			tiles = append(tiles, square(x, y, "grassland"))
			g.AddTile(world.TileKey{X: x, Y: y})
		}
	}
	require.NoError(t, g.Connect(world.TileKey{X: 0, Y: 0}, world.TileKey{X: 1, Y: 0}, 2))
	require.NoError(t, g.Connect(world.TileKey{X: 1, Y: 0}, world.TileKey{X: 2, Y: 0}, 2))

	s, err := NewSession(tiles, g, render.NewSoftware(100, 100, testView()), zerolog.Nop())
	require.NoError(t, err)
	s.AddUnit(world.NewUnit(world.TileKey{X: 0, Y: 0}, "explorer", movementPoints))
	return s
}

func TestSession_SelectHitAndMiss(t *testing.T) {
	s := newTestSession(t, 5)

	x, y := screen(2, 1)
	key, ok := s.Select(x, y, frame)
	require.True(t, ok)
	assert.Equal(t, world.TileKey{X: 2, Y: 1}, key)
	require.NotNil(t, s.SelectedTile())
	assert.Equal(t, key, s.SelectedTile().Key)

	_, ok = s.Select(90, 10, frame)
	assert.False(t, ok)
	assert.Nil(t, s.SelectedTile(), "miss clears the selection")
	assert.Equal(t, 1, s.Events.Count("pick", "miss"))
}

func TestSession_OrderSpendsBudgetAndEndTurnRestoresIt(t *testing.T) {
	s := newTestSession(t, 3)
	u := s.ActiveUnit()

	x, y := screen(2, 0)
	res, hit, err := s.Order(x, y, frame)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, movement.InsufficientBudget, res.Status)
	assert.Equal(t, world.TileKey{X: 1, Y: 0}, u.Position)
	assert.Equal(t, 1, u.MovementRemaining)

	s.EndTurn()
	assert.Equal(t, 2, s.Turn())
	assert.Equal(t, 3, u.MovementRemaining)

	res, _, err = s.Order(x, y, frame)
	require.NoError(t, err)
	assert.Equal(t, movement.Completed, res.Status)
	assert.Equal(t, world.TileKey{X: 2, Y: 0}, u.Position)
	assert.Equal(t, 1, u.MovementRemaining)
	assert.Equal(t, 2, s.Events.Count("move", ""))
}

func TestSession_UnreachableOrderLeavesUnitInPlace(t *testing.T) {
	s := newTestSession(t, 5)
	u := s.ActiveUnit()

	x, y := screen(0, 1)
	res, hit, err := s.Order(x, y, frame)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, movement.NoPath, res.Status)
	assert.Equal(t, world.TileKey{X: 0, Y: 0}, u.Position)
	assert.Equal(t, 5, u.MovementRemaining)

	ev, ok := s.Events.LastOf("move", "no_path")
	require.True(t, ok)
	assert.Equal(t, "U0", ev.Unit)
}

func TestSession_OrderOnBackgroundDoesNothing(t *testing.T) {
	s := newTestSession(t, 5)
	_, hit, err := s.Order(90, 10, frame)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, s.Events.Count("move", ""))
}

func TestSession_MoveWithoutUnit(t *testing.T) {
	g := movement.NewTileGraph()
	t.Cleanup(g.Close)
	s, err := NewSession([]*world.Tile{square(0, 0, "grassland")}, g,
		render.NewSoftware(100, 100, testView()), zerolog.Nop())
	require.NoError(t, err)

	_, err = s.MoveActive(world.TileKey{})
	assert.ErrorIs(t, err, ErrNoUnit)
	assert.Nil(t, s.ActiveUnit())
}

func TestSession_RebuildRefreshesIDs(t *testing.T) {
	s := newTestSession(t, 5)
	x, y := screen(1, 0)
	_, ok := s.Select(x, y, frame)
	require.True(t, ok)

	require.NoError(t, s.Rebuild([]*world.Tile{square(1, 0, "desert")}))
	assert.Nil(t, s.SelectedTile(), "rebuild starts without a selection")

	key, ok := s.Select(x, y, frame)
	require.True(t, ok)
	assert.Equal(t, "desert", s.Store().Tile(key).Biome)

	x, y = screen(0, 0)
	_, ok = s.Select(x, y, frame)
	assert.False(t, ok, "removed tile is no longer pickable")
}

func TestSession_RebuildRejectsEmpty(t *testing.T) {
	s := newTestSession(t, 5)
	err := s.Rebuild(nil)
	assert.ErrorIs(t, err, world.ErrEmptyGeometry)
	assert.Zero(t, s.Store().Len())

	_, ok := s.Select(50, 50, frame)
	assert.False(t, ok, "empty store picks nothing")
}

func TestSession_Report(t *testing.T) {
	s := newTestSession(t, 5)
	assert.Contains(t, s.Report(), "tile none")

	x, y := screen(1, 1)
	_, ok := s.Select(x, y, frame)
	require.True(t, ok)
	r := s.Report()
	assert.Contains(t, r, "tile (1,1) biome=grassland")
	assert.Contains(t, r, "unit U0 explorer at (0,0) movement 5/5")
}

func TestSession_RebuildDropsUnitsOffTheMap(t *testing.T) {
	s := newTestSession(t, 5)
	s.AddUnit(world.NewUnit(world.TileKey{X: 2, Y: 1}, "settler", 3))
	s.CycleUnit()
	require.Equal(t, "settler", s.ActiveUnit().Kind)

	// (0,0) disappears, (2,1) stays.
	require.NoError(t, s.Rebuild([]*world.Tile{square(2, 1, "hills"), square(1, 0, "desert")}))

	require.Len(t, s.Units(), 1)
	assert.Equal(t, "settler", s.ActiveUnit().Kind, "surviving active unit stays active")
	ev, ok := s.Events.LastOf("unit", "removed")
	require.True(t, ok)
	assert.Equal(t, "U0", ev.Unit)
	assert.Equal(t, "(0,0)", ev.Value)
	for _, u := range s.Units() {
		assert.NotNil(t, s.Store().Tile(u.Position))
	}

	s.AddUnit(world.NewUnit(world.TileKey{X: 1, Y: 0}, "explorer", 5))
	spawn, ok := s.Events.LastOf("unit", "spawn")
	require.True(t, ok)
	assert.Equal(t, "U2", spawn.Unit, "labels are not reused")
}

func TestSession_FailedRebuildLeavesNoUnits(t *testing.T) {
	s := newTestSession(t, 5)
	require.Error(t, s.Rebuild(nil))
	assert.Empty(t, s.Units())
	assert.Nil(t, s.ActiveUnit())
	_, err := s.MoveActive(world.TileKey{})
	assert.ErrorIs(t, err, ErrNoUnit)
}
