package route

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/fireflow-eng/fireroute/internal/geom"
	"github.com/fireflow-eng/fireroute/internal/testutil"
	"github.com/fireflow-eng/fireroute/internal/voxel"
)

func mustPathfinder(t *testing.T, cfg Config) *Pathfinder {
	t.Helper()
	pf, err := NewPathfinder(cfg)
	if err != nil {
		t.Fatalf("NewPathfinder: %v", err)
	}
	return pf
}

func emptyGrid(t *testing.T, size float64) *voxel.Grid {
	t.Helper()
	return testutil.EmptyGrid(t, size, 1.0)
}

func TestFindPath_StraightLine(t *testing.T) {
	g := emptyGrid(t, 10)
	pf := mustPathfinder(t, DefaultConfig())

	start := geom.Point3{X: 0.5, Y: 2.5, Z: 2.5}
	end := geom.Point3{X: 9.5, Y: 2.5, Z: 2.5}
	r, err := pf.FindPath(context.Background(), g, start, end)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	// An unobstructed axis-aligned run simplifies to its two endpoints
	// and its length equals the straight-line distance.
	if len(r.Waypoints) != 2 {
		t.Errorf("waypoints = %d, want 2 after simplification", len(r.Waypoints))
	}
	if math.Abs(r.TotalLength-9.0) > 1e-9 {
		t.Errorf("length = %g, want 9.0", r.TotalLength)
	}
	if r.TurnCount != 0 {
		t.Errorf("turn count = %d, want 0", r.TurnCount)
	}
	if r.ElevationChanges != 0 {
		t.Errorf("elevation changes = %d, want 0", r.ElevationChanges)
	}
}

func TestFindPath_DiagonalLine(t *testing.T) {
	g := emptyGrid(t, 10)
	pf := mustPathfinder(t, DefaultConfig())

	start := geom.Point3{X: 0.5, Y: 0.5, Z: 2.5}
	end := geom.Point3{X: 9.5, Y: 9.5, Z: 2.5}
	r, err := pf.FindPath(context.Background(), g, start, end)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	want := 9 * math.Sqrt2
	if math.Abs(r.TotalLength-want) > 1e-9 {
		t.Errorf("length = %g, want %g", r.TotalLength, want)
	}
}

func TestFindPath_WaypointsAreFree(t *testing.T) {
	// Two wall slabs leaving a doorway at y in [5,7) force a detour.
	g2 := emptyGrid(t, 12)
	g2.BurnBox(geom.Box{Min: geom.Point3{X: 5, Y: 0, Z: 0}, Max: geom.Point3{X: 5.9, Y: 4.9, Z: 12}})
	g2.BurnBox(geom.Box{Min: geom.Point3{X: 5, Y: 7, Z: 0}, Max: geom.Point3{X: 5.9, Y: 12, Z: 12}})

	pf := mustPathfinder(t, DefaultConfig())
	r, err := pf.FindPath(context.Background(), g2,
		geom.Point3{X: 1.5, Y: 1.5, Z: 6.5}, geom.Point3{X: 10.5, Y: 1.5, Z: 6.5})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	for i, wp := range r.Waypoints {
		x, y, z := g2.WorldToGrid(wp)
		if !g2.IsFree(x, y, z) {
			t.Errorf("waypoint %d %v maps to an occupied voxel", i, wp)
		}
	}
	if r.TurnCount == 0 {
		t.Error("detour around wall reported zero turns")
	}
}

func TestFindPath_NoPathThroughSealedWall(t *testing.T) {
	// Full-height wall with no openings.
	g := testutil.WallGrid(t, 10, 1.0, 5, 0.9)

	pf := mustPathfinder(t, DefaultConfig())
	_, err := pf.FindPath(context.Background(), g,
		geom.Point3{X: 1.5, Y: 5.5, Z: 5.5}, geom.Point3{X: 8.5, Y: 5.5, Z: 5.5})
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("error = %v, want ErrNoPath", err)
	}
}

func TestFindPath_BudgetExhausted(t *testing.T) {
	g := emptyGrid(t, 10)
	cfg := DefaultConfig()
	cfg.MaxIterations = 3
	pf := mustPathfinder(t, cfg)

	_, err := pf.FindPath(context.Background(), g,
		geom.Point3{X: 0.5, Y: 0.5, Z: 0.5}, geom.Point3{X: 9.5, Y: 9.5, Z: 9.5})
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("error = %v, want ErrNoPath", err)
	}
}

func TestFindPath_SnapsOccupiedStart(t *testing.T) {
	g := emptyGrid(t, 10)
	// Occupy the exact start voxel only.
	x, y, z := g.WorldToGrid(geom.Point3{X: 2.5, Y: 2.5, Z: 2.5})
	g.SetOccupied(x, y, z)

	pf := mustPathfinder(t, DefaultConfig())
	r, err := pf.FindPath(context.Background(), g,
		geom.Point3{X: 2.5, Y: 2.5, Z: 2.5}, geom.Point3{X: 8.5, Y: 2.5, Z: 2.5})
	if err != nil {
		t.Fatalf("FindPath with occupied start: %v", err)
	}
	sx, sy, sz := g.WorldToGrid(r.Waypoints[0])
	if !g.IsFree(sx, sy, sz) {
		t.Error("snapped start still occupied")
	}
}

func TestFindPath_GeometryErrorWhenSnapExhausted(t *testing.T) {
	g := emptyGrid(t, 4)
	// Occupy everything: snapping can never find a free voxel.
	g.BurnBox(geom.Box{Min: geom.Point3{X: -1, Y: -1, Z: -1}, Max: geom.Point3{X: 5, Y: 5, Z: 5}})

	cfg := DefaultConfig()
	cfg.SnapRadius = 2
	pf := mustPathfinder(t, cfg)

	_, err := pf.FindPath(context.Background(), g,
		geom.Point3{X: 2, Y: 2, Z: 2}, geom.Point3{X: 3, Y: 3, Z: 3})
	var geomErr *GeometryError
	if !errors.As(err, &geomErr) {
		t.Fatalf("error = %v, want *GeometryError", err)
	}
	if geomErr.What != "start" {
		t.Errorf("GeometryError.What = %q, want start", geomErr.What)
	}
}

func TestFindPath_Cancellation(t *testing.T) {
	g := emptyGrid(t, 10)
	pf := mustPathfinder(t, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pf.FindPath(ctx, g,
		geom.Point3{X: 0.5, Y: 0.5, Z: 0.5}, geom.Point3{X: 9.5, Y: 9.5, Z: 9.5})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFindPath_ElevationPenaltyCounted(t *testing.T) {
	g := emptyGrid(t, 10)
	pf := mustPathfinder(t, DefaultConfig())

	r, err := pf.FindPath(context.Background(), g,
		geom.Point3{X: 2.5, Y: 2.5, Z: 1.5}, geom.Point3{X: 2.5, Y: 2.5, Z: 8.5})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if r.ElevationChanges != 7 {
		t.Errorf("elevation changes = %d, want 7", r.ElevationChanges)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	g := emptyGrid(t, 8)
	g.BurnBox(geom.Box{Min: geom.Point3{X: 3, Y: 3, Z: 0}, Max: geom.Point3{X: 4.9, Y: 4.9, Z: 8}})
	pf := mustPathfinder(t, DefaultConfig())

	var first *PipeRoute
	for i := 0; i < 5; i++ {
		r, err := pf.FindPath(context.Background(), g,
			geom.Point3{X: 0.5, Y: 0.5, Z: 4.5}, geom.Point3{X: 7.5, Y: 7.5, Z: 4.5})
		if err != nil {
			t.Fatalf("FindPath run %d: %v", i, err)
		}
		if first == nil {
			first = r
			continue
		}
		if len(r.Waypoints) != len(first.Waypoints) || r.Cost != first.Cost {
			t.Fatalf("run %d diverged: %d waypoints cost %g vs %d waypoints cost %g",
				i, len(r.Waypoints), r.Cost, len(first.Waypoints), first.Cost)
		}
		for j := range r.Waypoints {
			if r.Waypoints[j] != first.Waypoints[j] {
				t.Fatalf("run %d waypoint %d differs: %v vs %v", i, j, r.Waypoints[j], first.Waypoints[j])
			}
		}
	}
}

func TestMovesFor_Connectivity(t *testing.T) {
	if n := len(movesFor(Connectivity6)); n != 6 {
		t.Errorf("6-connectivity moves = %d", n)
	}
	if n := len(movesFor(Connectivity18)); n != 18 {
		t.Errorf("18-connectivity moves = %d", n)
	}
	if n := len(movesFor(Connectivity26)); n != 26 {
		t.Errorf("26-connectivity moves = %d", n)
	}
}

func TestMovesFor_Costs(t *testing.T) {
	for _, m := range movesFor(Connectivity26) {
		want := 0.0
		if m.dx != 0 && m.dy != 0 {
			want += math.Sqrt2
		} else if m.dx != 0 || m.dy != 0 {
			want += 1.0
		}
		if m.dz != 0 {
			want += 1.0
		}
		if m.cost != want {
			t.Errorf("move (%d,%d,%d) cost = %g, want %g", m.dx, m.dy, m.dz, m.cost, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad := DefaultConfig()
	bad.MaxIterations = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero iteration cap accepted")
	}

	bad = DefaultConfig()
	bad.Connectivity = 7
	if err := bad.Validate(); err == nil {
		t.Error("connectivity 7 accepted")
	}

	bad = DefaultConfig()
	bad.TurnPenalty = -1
	if err := bad.Validate(); err == nil {
		t.Error("negative turn penalty accepted")
	}
}

func TestFindPath_WeightedRegionAvoided(t *testing.T) {
	g := emptyGrid(t, 10)
	// Heavy-cost slab across the direct corridor; a free path around
	// exists below it.
	g.SetWeightRegion(geom.Point3{X: 4, Y: 0, Z: 4}, geom.Point3{X: 5.9, Y: 9.9, Z: 9.9}, 50)

	pf := mustPathfinder(t, DefaultConfig())
	r, err := pf.FindPath(context.Background(), g,
		geom.Point3{X: 1.5, Y: 5.5, Z: 6.5}, geom.Point3{X: 8.5, Y: 5.5, Z: 6.5})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	// The route should dodge under the weighted slab (z < 4) while
	// crossing x in [4,6).
	for _, wp := range r.Waypoints {
		if wp.X >= 4 && wp.X < 6 && wp.Z >= 4 {
			t.Errorf("waypoint %v crosses the weighted region", wp)
		}
	}
}
