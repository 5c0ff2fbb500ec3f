package game

import (
	"container/heap"
	"math"

	"github.com/Garsondee/Mimic-Sense/internal/geom"
	"github.com/Garsondee/Mimic-Sense/internal/scene"
)

// cellSize is the nav grid resolution in metres.
const cellSize = 0.25

// NavGrid is a walkability grid over the room floor (XZ plane) where
// true = blocked.
type NavGrid struct {
	origin  geom.Vec3 // world position of cell (0,0)'s min corner
	cols    int
	rows    int
	blocked []bool
}

// NewNavGrid builds a grid covering area. Each cell overlapping an obstacle's
// footprint, padded by the agent radius, is blocked.
func NewNavGrid(area geom.Bounds, obstacles []geom.Bounds, agentRadius float64) *NavGrid {
	size := area.Size()
	cols := int(math.Ceil(size.X / cellSize))
	rows := int(math.Ceil(size.Z / cellSize))
	ng := &NavGrid{
		origin:  area.Min(),
		cols:    max(cols, 1),
		rows:    max(rows, 1),
		blocked: make([]bool, max(cols, 1)*max(rows, 1)),
	}
	for _, b := range obstacles {
		lo, hi := b.Min(), b.Max()
		c0, r0 := ng.WorldToCell(geom.V(lo.X-agentRadius, 0, lo.Z-agentRadius))
		c1, r1 := ng.WorldToCell(geom.V(hi.X+agentRadius, 0, hi.Z+agentRadius))
		for r := max(0, r0); r <= min(ng.rows-1, r1); r++ {
			for c := max(0, c0); c <= min(ng.cols-1, c1); c++ {
				ng.blocked[r*ng.cols+c] = true
			}
		}
	}
	return ng
}

// NavGridFromScene blocks every active, non-trigger collider that stands on
// the floor. Objects for which skip returns true (agents, the player) are
// left out.
func NavGridFromScene(s *scene.Scene, area geom.Bounds, agentRadius float64, skip func(*scene.Object) bool) *NavGrid {
	var obstacles []geom.Bounds
	s.Walk(func(o *scene.Object) {
		if o.Collider == nil || o.Collider.IsTrigger || !o.ActiveInHierarchy() {
			return
		}
		if skip != nil && skip(o) {
			return
		}
		b := o.Collider.WorldBounds()
		if b.Min().Y > agentHeight {
			return
		}
		obstacles = append(obstacles, b)
	})
	return NewNavGrid(area, obstacles, agentRadius)
}

// IsBlocked returns true if the cell at (c, r) is not walkable.
func (ng *NavGrid) IsBlocked(c, r int) bool {
	if c < 0 || r < 0 || c >= ng.cols || r >= ng.rows {
		return true
	}
	return ng.blocked[r*ng.cols+c]
}

// WorldToCell converts a world position to grid cell coordinates.
func (ng *NavGrid) WorldToCell(p geom.Vec3) (int, int) {
	return int(math.Floor((p.X - ng.origin.X) / cellSize)), int(math.Floor((p.Z - ng.origin.Z) / cellSize))
}

// CellToWorld returns the floor-level centre of a cell.
func (ng *NavGrid) CellToWorld(c, r int) geom.Vec3 {
	return geom.V(
		ng.origin.X+(float64(c)+0.5)*cellSize,
		0,
		ng.origin.Z+(float64(r)+0.5)*cellSize,
	)
}

// nearestOpen finds the closest walkable cell to (c, r) within a few rings,
// so agents standing against furniture can still path out.
func (ng *NavGrid) nearestOpen(c, r int) (int, int, bool) {
	if !ng.IsBlocked(c, r) {
		return c, r, true
	}
	for ring := 1; ring <= 8; ring++ {
		for dr := -ring; dr <= ring; dr++ {
			for dc := -ring; dc <= ring; dc++ {
				if max(abs(dc), abs(dr)) != ring {
					continue
				}
				if !ng.IsBlocked(c+dc, r+dr) {
					return c + dc, r + dr, true
				}
			}
		}
	}
	return 0, 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// --- A* pathfinding ---

type pathNode struct {
	c, r   int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns floor-level waypoints from start to goal. A blocked start
// or goal snaps to the nearest open cell; otherwise the path ends exactly at
// goal. Returns nil if no path exists.
func (ng *NavGrid) FindPath(start, goal geom.Vec3) []geom.Vec3 {
	sc, sr := ng.WorldToCell(start)
	gc, gr := ng.WorldToCell(goal)
	goalOpen := !ng.IsBlocked(gc, gr)
	sc, sr, okS := ng.nearestOpen(sc, sr)
	gc, gr, okG := ng.nearestOpen(gc, gr)
	if !okS || !okG {
		return nil
	}

	key := func(c, r int) int { return r*ng.cols + c }
	heuristic := func(ac, ar, bc, br int) float64 {
		dx := math.Abs(float64(ac - bc))
		dy := math.Abs(float64(ar - br))
		return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
	}

	first := &pathNode{c: sc, r: sr, h: heuristic(sc, sr, gc, gr)}
	ol := &openList{first}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := make(map[int]*pathNode)
	best[key(sc, sr)] = first

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.c == gc && cur.r == gr {
			path := ng.buildPath(cur)
			if goalOpen {
				path[len(path)-1] = geom.V(goal.X, 0, goal.Z)
			}
			return path
		}
		k := key(cur.c, cur.r)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nc, nr := cur.c+d[0], cur.r+d[1]
			if ng.IsBlocked(nc, nr) {
				continue
			}
			// No diagonal corner-cutting through blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if ng.IsBlocked(cur.c+d[0], cur.r) || ng.IsBlocked(cur.c, cur.r+d[1]) {
					continue
				}
			}
			nk := key(nc, nr)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{c: nc, r: nr, g: g, h: heuristic(nc, nr, gc, gr), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func (ng *NavGrid) buildPath(end *pathNode) []geom.Vec3 {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.c, n.r})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	path := make([]geom.Vec3, len(cells))
	for i, c := range cells {
		path[i] = ng.CellToWorld(c[0], c[1])
	}
	return path
}
