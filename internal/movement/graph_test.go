package movement

import (
	"errors"
	"testing"

	"github.com/Garsondee/Tile-World/internal/world"
)

func TestTileGraph_PrefersCheaperRouteOverFewerHops(t *testing.T) {
	// A-D direct costs 10; A-B-C-D costs 3.
	g := lineGraph(t, 1)
	if err := g.Connect(tileA, tileD, 10); err != nil {
		t.Fatalf("connect: %v", err)
	}
	path, ok := g.ShortestPath(tileA, tileD)
	if !ok {
		t.Fatal("expected a path")
	}
	if len(path) != 4 || path[1] != tileB || path[2] != tileC {
		t.Fatalf("expected A,B,C,D, got %v", path)
	}
}

func TestTileGraph_NoPathToIsolatedTile(t *testing.T) {
	g := lineGraph(t, 1)
	if _, ok := g.ShortestPath(tileA, tileZ); ok {
		t.Fatal("expected no path to an isolated tile")
	}
	if _, ok := g.ShortestPath(tileA, world.TileKey{X: 42, Y: 42}); ok {
		t.Fatal("expected no path to a tile outside the graph")
	}
}

func TestTileGraph_PathStartsAndEndsOnRequest(t *testing.T) {
	g := lineGraph(t, 1)
	path, ok := g.ShortestPath(tileD, tileA)
	if !ok || path[0] != tileD || path[len(path)-1] != tileA {
		t.Fatalf("bad route %v", path)
	}
	self, ok := g.ShortestPath(tileB, tileB)
	if !ok || len(self) != 1 || self[0] != tileB {
		t.Fatalf("route to self should be [B], got %v", self)
	}
}

func TestTileGraph_EdgeCostIsDirectionAgnostic(t *testing.T) {
	g := lineGraph(t, 3)
	if g.EdgeCost(tileA, tileB) != 3 || g.EdgeCost(tileB, tileA) != 3 {
		t.Fatal("edge cost should be the same in both directions")
	}
	if g.EdgeCost(tileA, tileD) != DefaultEdgeCost {
		t.Fatal("unweighted pair should cost the default")
	}
}

func TestTileGraph_ConnectRejectsBadEdges(t *testing.T) {
	g := lineGraph(t, 1)
	if err := g.Connect(tileA, tileB, -1); !errors.Is(err, ErrNegativeCost) {
		t.Fatalf("expected ErrNegativeCost, got %v", err)
	}
	if err := g.Connect(tileA, world.TileKey{X: 5, Y: 5}, 1); !errors.Is(err, ErrUnknownTile) {
		t.Fatalf("expected ErrUnknownTile, got %v", err)
	}
}

func TestTileGraph_ReweightInvalidatesMemo(t *testing.T) {
	g := lineGraph(t, 1)
	if err := g.Connect(tileA, tileD, 5); err != nil {
		t.Fatalf("connect: %v", err)
	}
	first, _ := g.ShortestPath(tileA, tileD)
	if len(first) != 4 {
		t.Fatalf("expected the 3-hop route first, got %v", first)
	}
	if err := g.Connect(tileA, tileD, 1); err != nil {
		t.Fatalf("connect: %v", err)
	}
	second, _ := g.ShortestPath(tileA, tileD)
	if len(second) != 2 {
		t.Fatalf("expected the direct route after reweighting, got %v", second)
	}
}

func TestTileGraph_ReturnedPathIsACopy(t *testing.T) {
	g := lineGraph(t, 1)
	p1, _ := g.ShortestPath(tileA, tileC)
	p1[1] = tileZ
	p2, _ := g.ShortestPath(tileA, tileC)
	if p2[1] != tileB {
		t.Fatal("mutating a returned path must not affect later queries")
	}
}

func TestTileGraph_Deterministic(t *testing.T) {
	// Two equal-cost routes around a square; the choice must be stable.
	g := NewTileGraph()
	t.Cleanup(g.Close)
	corners := []world.TileKey{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, k := range corners {
		g.AddTile(k)
	}
	for i := range corners {
		if err := g.Connect(corners[i], corners[(i+1)%4], 1); err != nil {
			t.Fatalf("connect: %v", err)
		}
	}
	want, _ := g.dijkstra(corners[0], corners[2])
	for i := 0; i < 10; i++ {
		got, _ := g.dijkstra(corners[0], corners[2])
		if got[1] != want[1] {
			t.Fatalf("run %d picked %v, earlier %v", i, got, want)
		}
	}
}

func TestTileGraph_MemoBudgetCountsPathVertices(t *testing.T) {
	// Room for exactly one 3-vertex path: any per-item overhead would reject it.
	g := newTileGraph(3)
	t.Cleanup(g.Close)
	a, b, c := world.TileKey{X: 0}, world.TileKey{X: 1}, world.TileKey{X: 2}
	for _, k := range []world.TileKey{a, b, c} {
		g.AddTile(k)
	}
	if err := g.Connect(a, b, 1); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := g.Connect(b, c, 1); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if _, ok := g.ShortestPath(a, c); !ok {
		t.Fatal("expected a path a-c")
	}
	cached, ok := g.paths.Get(pathKey(a, c))
	if !ok {
		t.Fatal("3-vertex path should fit a 3-vertex memo")
	}
	if len(cached) != 3 {
		t.Fatalf("expected cached path of 3 tiles, got %d", len(cached))
	}
}
