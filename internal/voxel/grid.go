// Package voxel implements the dense occupancy model of the building
// volume: a regular grid of cubic cells flagged free or occupied, with a
// world↔index transform, obstacle burning and safety-margin dilation.
//
// A Grid is built once per routing run, mutated only while obstacles are
// burned and the safety margin applied, and treated as read-only for the
// rest of the run. It must never be mutated concurrently with a search.
package voxel

import (
	"fmt"
	"math"

	"github.com/fireflow-eng/fireroute/internal/geom"
)

// ConfigError reports an invalid grid configuration (non-positive
// resolution or degenerate padded bounds).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "voxel: " + e.Reason
}

// Grid is a dense 3D occupancy array over a padded building volume.
// Cells are indexed idx = (z*DimY + y)*DimX + x; the occupancy and weight
// slices are flat to keep the hot loops cache-friendly.
type Grid struct {
	DimX, DimY, DimZ int
	Origin           geom.Point3 // world position of the (0,0,0) corner
	Resolution       float64     // edge length of one cubic voxel, metres

	occupied []bool
	// weights holds optional traversal multipliers (default 1.0) used by
	// the pathfinder for avoid-if-possible regions. Lazily allocated.
	weights []float32
}

// NewGrid allocates a zero-initialised grid covering the bounds expanded
// by padding metres on every side.
func NewGrid(boundsMin, boundsMax geom.Point3, resolution, padding float64) (*Grid, error) {
	if resolution <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("resolution must be > 0, got %g", resolution)}
	}
	origin := geom.Point3{
		X: boundsMin.X - padding,
		Y: boundsMin.Y - padding,
		Z: boundsMin.Z - padding,
	}
	dimX := int(math.Ceil((boundsMax.X + padding - origin.X) / resolution))
	dimY := int(math.Ceil((boundsMax.Y + padding - origin.Y) / resolution))
	dimZ := int(math.Ceil((boundsMax.Z + padding - origin.Z) / resolution))
	if dimX <= 0 || dimY <= 0 || dimZ <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("degenerate grid dimensions %dx%dx%d", dimX, dimY, dimZ)}
	}

	return &Grid{
		DimX:       dimX,
		DimY:       dimY,
		DimZ:       dimZ,
		Origin:     origin,
		Resolution: resolution,
		occupied:   make([]bool, dimX*dimY*dimZ),
	}, nil
}

// Idx maps grid coordinates to the flat cell index. Callers must ensure
// the coordinates are in bounds.
func (g *Grid) Idx(x, y, z int) int {
	return (z*g.DimY+y)*g.DimX + x
}

// Coords is the inverse of Idx.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx % g.DimX
	y = (idx / g.DimX) % g.DimY
	z = idx / (g.DimX * g.DimY)
	return
}

// InBounds reports whether the grid coordinates fall inside the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.DimX && y >= 0 && y < g.DimY && z >= 0 && z < g.DimZ
}

// WorldToGrid converts a world position to grid coordinates:
// index = floor((coord - origin) / resolution). The result may be out of
// bounds; callers check with InBounds.
func (g *Grid) WorldToGrid(p geom.Point3) (x, y, z int) {
	x = int(math.Floor((p.X - g.Origin.X) / g.Resolution))
	y = int(math.Floor((p.Y - g.Origin.Y) / g.Resolution))
	z = int(math.Floor((p.Z - g.Origin.Z) / g.Resolution))
	return
}

// GridToWorld converts grid coordinates to the world position of the
// voxel centre: coord = origin + (index + 0.5) * resolution. Round-trip
// error through WorldToGrid is bounded by one resolution per axis.
func (g *Grid) GridToWorld(x, y, z int) geom.Point3 {
	return geom.Point3{
		X: g.Origin.X + (float64(x)+0.5)*g.Resolution,
		Y: g.Origin.Y + (float64(y)+0.5)*g.Resolution,
		Z: g.Origin.Z + (float64(z)+0.5)*g.Resolution,
	}
}

// IsFree reports whether the cell is inside the grid and unoccupied.
func (g *Grid) IsFree(x, y, z int) bool {
	return g.InBounds(x, y, z) && !g.occupied[g.Idx(x, y, z)]
}

// SetOccupied marks one cell occupied. Out-of-bounds coordinates are
// ignored.
func (g *Grid) SetOccupied(x, y, z int) {
	if g.InBounds(x, y, z) {
		g.occupied[g.Idx(x, y, z)] = true
	}
}

// OccupiedCount returns the number of occupied voxels.
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, o := range g.occupied {
		if o {
			n++
		}
	}
	return n
}

// Weight returns the traversal multiplier for a cell (1.0 unless a
// weighted region was painted).
func (g *Grid) Weight(x, y, z int) float32 {
	if g.weights == nil || !g.InBounds(x, y, z) {
		return 1.0
	}
	return g.weights[g.Idx(x, y, z)]
}

// SetWeightRegion paints a traversal multiplier over a box of world
// coordinates, marking an avoid-if-possible region for the pathfinder.
func (g *Grid) SetWeightRegion(min, max geom.Point3, weight float32) {
	if g.weights == nil {
		g.weights = make([]float32, len(g.occupied))
		for i := range g.weights {
			g.weights[i] = 1.0
		}
	}
	x0, y0, z0 := g.WorldToGrid(min)
	x1, y1, z1 := g.WorldToGrid(max)
	x0, y0, z0 = clamp(x0, 0, g.DimX-1), clamp(y0, 0, g.DimY-1), clamp(z0, 0, g.DimZ-1)
	x1, y1, z1 = clamp(x1, 0, g.DimX-1), clamp(y1, 0, g.DimY-1), clamp(z1, 0, g.DimZ-1)
	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			base := g.Idx(x0, y, z)
			for i := 0; i <= x1-x0; i++ {
				g.weights[base+i] = weight
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
