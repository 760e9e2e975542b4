package route

import (
	"container/heap"
	"context"
	"math"

	"github.com/fireflow-eng/fireroute/internal/geom"
	"github.com/fireflow-eng/fireroute/internal/voxel"
)

// node is one search state in the arena. Parent is an arena index, not a
// pointer, so path reconstruction never chases object references.
type node struct {
	x, y, z int32
	g       float64
	parent  int32 // arena index, -1 for the start node
}

// openItem is a heap entry keyed by (f, order). The insertion order
// breaks f ties deterministically across runs and platforms.
type openItem struct {
	f     float64
	order int64
	arena int32
}

type openHeap []openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].order < h[j].order
}
func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)   { *h = append(*h, x.(openItem)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// move is a precomputed neighbour offset with its base traversal cost.
type move struct {
	dx, dy, dz int32
	cost       float64
}

// movesFor builds the neighbour set for a connectivity level. The base
// cost decomposes per axis: a planar diagonal contributes √2, a single
// planar axis 1.0, and any z component a further 1.0.
func movesFor(conn Connectivity) []move {
	var out []move
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				axes := 0
				if dx != 0 {
					axes++
				}
				if dy != 0 {
					axes++
				}
				if dz != 0 {
					axes++
				}
				switch conn {
				case Connectivity6:
					if axes > 1 {
						continue
					}
				case Connectivity18:
					if axes > 2 {
						continue
					}
				}
				cost := 0.0
				if dx != 0 && dy != 0 {
					cost += math.Sqrt2
				} else if dx != 0 || dy != 0 {
					cost += 1.0
				}
				if dz != 0 {
					cost += 1.0
				}
				out = append(out, move{dx: dx, dy: dy, dz: dz, cost: cost})
			}
		}
	}
	return out
}

// Pathfinder runs A* searches over read-only voxel grids. It is
// stateless between calls; one Pathfinder may serve concurrent searches
// on independent grids.
type Pathfinder struct {
	cfg   Config
	moves []move
}

// NewPathfinder validates the configuration and precomputes the
// neighbour set.
func NewPathfinder(cfg Config) (*Pathfinder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pathfinder{cfg: cfg, moves: movesFor(cfg.Connectivity)}, nil
}

// FindPath searches for a minimum-cost route between two world points.
// The grid must be fully burned and dilated before the call and must not
// be mutated while the search runs. ctx is checked every iteration so
// callers can impose external deadlines; budget exhaustion returns
// ErrNoPath, an unusable endpoint returns a *GeometryError.
func (pf *Pathfinder) FindPath(ctx context.Context, g *voxel.Grid, start, goal geom.Point3) (*PipeRoute, error) {
	sx, sy, sz, err := pf.snapToFree(g, start, "start")
	if err != nil {
		return nil, err
	}
	gx, gy, gz, err := pf.snapToFree(g, goal, "goal")
	if err != nil {
		return nil, err
	}

	arena := make([]node, 0, 1024)
	arena = append(arena, node{x: int32(sx), y: int32(sy), z: int32(sz), parent: -1})

	// best maps a flat cell index to the arena node holding the best
	// known g for that cell. Doubles as OPEN membership and CLOSED set.
	best := map[int]int32{g.Idx(sx, sy, sz): 0}
	closed := make(map[int]struct{})

	open := &openHeap{}
	heap.Init(open)
	var order int64
	heap.Push(open, openItem{f: pf.heuristic(sx, sy, sz, gx, gy, gz), order: order, arena: 0})

	iterations := 0
	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++
		if iterations > pf.cfg.MaxIterations {
			return nil, ErrNoPath
		}

		it := heap.Pop(open).(openItem)
		cur := arena[it.arena]
		curIdx := g.Idx(int(cur.x), int(cur.y), int(cur.z))
		if _, done := closed[curIdx]; done {
			continue // stale heap entry
		}
		closed[curIdx] = struct{}{}

		if int(cur.x) == gx && int(cur.y) == gy && int(cur.z) == gz {
			return pf.buildRoute(g, arena, it.arena, cur.g, iterations), nil
		}

		for _, m := range pf.moves {
			nx, ny, nz := int(cur.x+m.dx), int(cur.y+m.dy), int(cur.z+m.dz)
			if !g.IsFree(nx, ny, nz) {
				continue
			}
			nIdx := g.Idx(nx, ny, nz)
			if _, done := closed[nIdx]; done {
				continue
			}

			stepCost := m.cost * float64(g.Weight(nx, ny, nz))
			if m.dz != 0 {
				stepCost += pf.cfg.ElevationPenalty
			}
			// Turn detection needs the grandparent: compare the
			// direction (parent→current) against (current→next).
			if cur.parent >= 0 {
				p := arena[cur.parent]
				if cur.x-p.x != m.dx || cur.y-p.y != m.dy || cur.z-p.z != m.dz {
					stepCost += pf.cfg.TurnPenalty
				}
			}

			ng := cur.g + stepCost
			if prev, seen := best[nIdx]; seen && arena[prev].g <= ng {
				continue
			}

			arena = append(arena, node{x: int32(nx), y: int32(ny), z: int32(nz), g: ng, parent: it.arena})
			aIdx := int32(len(arena) - 1)
			best[nIdx] = aIdx
			order++
			heap.Push(open, openItem{
				f:     ng + pf.heuristic(nx, ny, nz, gx, gy, gz),
				order: order,
				arena: aIdx,
			})
		}
	}

	return nil, ErrNoPath
}

// heuristic is the 3D Euclidean distance in voxel units.
func (pf *Pathfinder) heuristic(x, y, z, gx, gy, gz int) float64 {
	dx, dy, dz := float64(gx-x), float64(gy-y), float64(gz-z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// snapToFree returns the grid coordinates of p, searching outward in
// expanding cubic shells for the nearest free voxel when the requested
// voxel is occupied or out of bounds.
func (pf *Pathfinder) snapToFree(g *voxel.Grid, p geom.Point3, what string) (int, int, int, error) {
	x, y, z := g.WorldToGrid(p)
	if g.IsFree(x, y, z) {
		return x, y, z, nil
	}
	for r := 1; r <= pf.cfg.SnapRadius; r++ {
		for dz := -r; dz <= r; dz++ {
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					// Shell only: at least one axis at the radius.
					if abs(dx) != r && abs(dy) != r && abs(dz) != r {
						continue
					}
					if g.IsFree(x+dx, y+dy, z+dz) {
						return x + dx, y + dy, z + dz, nil
					}
				}
			}
		}
	}
	return 0, 0, 0, &GeometryError{What: what, Point: p}
}

// buildRoute reconstructs the index path through the arena, derives the
// raw-path metrics, converts to world coordinates and simplifies.
func (pf *Pathfinder) buildRoute(g *voxel.Grid, arena []node, goal int32, cost float64, iterations int) *PipeRoute {
	var idxPath []node
	for i := goal; i >= 0; i = arena[i].parent {
		idxPath = append(idxPath, arena[i])
	}
	// Reverse into start→goal order.
	for i, j := 0, len(idxPath)-1; i < j; i, j = i+1, j-1 {
		idxPath[i], idxPath[j] = idxPath[j], idxPath[i]
	}

	turns, elevations := 0, 0
	for i := 1; i < len(idxPath); i++ {
		if idxPath[i].z != idxPath[i-1].z {
			elevations++
		}
		if i >= 2 {
			d1x, d1y, d1z := idxPath[i-1].x-idxPath[i-2].x, idxPath[i-1].y-idxPath[i-2].y, idxPath[i-1].z-idxPath[i-2].z
			d2x, d2y, d2z := idxPath[i].x-idxPath[i-1].x, idxPath[i].y-idxPath[i-1].y, idxPath[i].z-idxPath[i-1].z
			if d1x != d2x || d1y != d2y || d1z != d2z {
				turns++
			}
		}
	}

	world := make([]geom.Point3, len(idxPath))
	for i, n := range idxPath {
		world[i] = g.GridToWorld(int(n.x), int(n.y), int(n.z))
	}
	simplified := simplifyCollinear(world, pf.cfg.SimplifyTolerance)

	return &PipeRoute{
		Waypoints:        simplified,
		TotalLength:      pathLength(simplified),
		TurnCount:        turns,
		ElevationChanges: elevations,
		Cost:             cost,
		Iterations:       iterations,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
