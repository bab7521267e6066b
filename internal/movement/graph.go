package movement

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/Garsondee/Tile-World/internal/world"
	"github.com/dgraph-io/ristretto/v2"
)

// DefaultEdgeCost is the cost of an edge that carries no explicit weight.
const DefaultEdgeCost = 1

// ErrNegativeCost is returned by Connect for weights below zero.
var ErrNegativeCost = errors.New("negative edge cost")

// ErrUnknownTile is returned by Connect when an endpoint was never added.
var ErrUnknownTile = errors.New("unknown tile")

type edge struct {
	to   world.TileKey
	cost int
}

// TileGraph is an undirected weighted adjacency graph over tile keys.
// Shortest paths are memoised until the graph changes.
type TileGraph struct {
	adj   map[world.TileKey][]edge
	order []world.TileKey
	paths *ristretto.Cache[string, []world.TileKey]
}

var _ Graph = (*TileGraph)(nil)

// pathMemoVertices bounds the path memo, counted in path vertices.
const pathMemoVertices = 1 << 20

// NewTileGraph returns an empty graph.
func NewTileGraph() *TileGraph {
	return newTileGraph(pathMemoVertices)
}

func newTileGraph(maxVertices int64) *TileGraph {
	paths, err := ristretto.NewCache(&ristretto.Config[string, []world.TileKey]{
		NumCounters:        1 << 14,
		MaxCost:            maxVertices,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		// Only reachable with an invalid static config above.
		panic(err)
	}
	return &TileGraph{
		adj:   map[world.TileKey][]edge{},
		paths: paths,
	}
}

// Close stops the path memo's background goroutines.
func (g *TileGraph) Close() { g.paths.Close() }

// AddTile registers k as a node. Adding an existing key is a no-op.
func (g *TileGraph) AddTile(k world.TileKey) {
	if _, ok := g.adj[k]; ok {
		return
	}
	g.adj[k] = nil
	g.order = append(g.order, k)
	g.paths.Clear()
}

// Has reports whether k is a node of the graph.
func (g *TileGraph) Has(k world.TileKey) bool {
	_, ok := g.adj[k]
	return ok
}

// Len returns the node count.
func (g *TileGraph) Len() int { return len(g.order) }

// Connect adds or reweights the undirected edge a-b.
func (g *TileGraph) Connect(a, b world.TileKey, cost int) error {
	if cost < 0 {
		return fmt.Errorf("edge %s-%s cost %d: %w", a, b, cost, ErrNegativeCost)
	}
	if !g.Has(a) {
		return fmt.Errorf("edge %s-%s: %s: %w", a, b, a, ErrUnknownTile)
	}
	if !g.Has(b) {
		return fmt.Errorf("edge %s-%s: %s: %w", a, b, b, ErrUnknownTile)
	}
	g.setEdge(a, b, cost)
	g.setEdge(b, a, cost)
	g.paths.Clear()
	return nil
}

func (g *TileGraph) setEdge(from, to world.TileKey, cost int) {
	for i, e := range g.adj[from] {
		if e.to == to {
			g.adj[from][i].cost = cost
			return
		}
	}
	g.adj[from] = append(g.adj[from], edge{to: to, cost: cost})
}

// Neighbors returns the tiles adjacent to k in insertion order.
func (g *TileGraph) Neighbors(k world.TileKey) []world.TileKey {
	out := make([]world.TileKey, 0, len(g.adj[k]))
	for _, e := range g.adj[k] {
		out = append(out, e.to)
	}
	return out
}

// EdgeCost returns the weight of a-b, or DefaultEdgeCost when the tiles are
// not directly connected.
func (g *TileGraph) EdgeCost(a, b world.TileKey) int {
	for _, e := range g.adj[a] {
		if e.to == b {
			return e.cost
		}
	}
	return DefaultEdgeCost
}

// --- Dijkstra ---

type queueItem struct {
	key   world.TileKey
	dist  int
	seq   int // insertion order, breaks ties deterministically
	index int
}

type queue []*queueItem

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *queue) Push(x interface{}) { it := x.(*queueItem); it.index = len(*q); *q = append(*q, it) }
func (q *queue) Pop() interface{} {
	old := *q
	it := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return it
}

// ShortestPath returns the minimum total-cost route from..to inclusive.
func (g *TileGraph) ShortestPath(from, to world.TileKey) ([]world.TileKey, bool) {
	if !g.Has(from) || !g.Has(to) {
		return nil, false
	}
	ck := pathKey(from, to)
	if p, ok := g.paths.Get(ck); ok {
		return append([]world.TileKey(nil), p...), true
	}

	path, ok := g.dijkstra(from, to)
	if !ok {
		return nil, false
	}
	g.paths.Set(ck, path, int64(len(path)))
	g.paths.Wait()
	return append([]world.TileKey(nil), path...), true
}

func (g *TileGraph) dijkstra(from, to world.TileKey) ([]world.TileKey, bool) {
	dist := map[world.TileKey]int{from: 0}
	prev := map[world.TileKey]world.TileKey{}
	done := map[world.TileKey]bool{}

	seq := 0
	q := &queue{{key: from}}
	heap.Init(q)

	for q.Len() > 0 {
		cur := heap.Pop(q).(*queueItem)
		if done[cur.key] {
			continue
		}
		done[cur.key] = true
		if cur.key == to {
			return buildRoute(prev, from, to), true
		}
		for _, e := range g.adj[cur.key] {
			if done[e.to] {
				continue
			}
			nd := cur.dist + e.cost
			if d, seen := dist[e.to]; seen && nd >= d {
				continue
			}
			dist[e.to] = nd
			prev[e.to] = cur.key
			seq++
			heap.Push(q, &queueItem{key: e.to, dist: nd, seq: seq})
		}
	}
	return nil, false
}

func buildRoute(prev map[world.TileKey]world.TileKey, from, to world.TileKey) []world.TileKey {
	route := []world.TileKey{to}
	for k := to; k != from; {
		k = prev[k]
		route = append(route, k)
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

func pathKey(from, to world.TileKey) string {
	return fmt.Sprintf("%d,%d>%d,%d", from.X, from.Y, to.X, to.Y)
}
