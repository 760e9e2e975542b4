package voxel

import (
	"fmt"
	"math"

	"github.com/fireflow-eng/fireroute/internal/geom"
)

// BurnBox marks every voxel intersecting the box (expanded by its
// clearance) as occupied. The box corners are converted to indices and
// clamped to the grid, then the whole index range is filled as one bulk
// write per row.
func (g *Grid) BurnBox(b geom.Box) {
	min := geom.Point3{X: b.Min.X - b.Clearance, Y: b.Min.Y - b.Clearance, Z: b.Min.Z - b.Clearance}
	max := geom.Point3{X: b.Max.X + b.Clearance, Y: b.Max.Y + b.Clearance, Z: b.Max.Z + b.Clearance}

	x0, y0, z0 := g.WorldToGrid(min)
	x1, y1, z1 := g.WorldToGrid(max)
	if x1 < 0 || y1 < 0 || z1 < 0 || x0 >= g.DimX || y0 >= g.DimY || z0 >= g.DimZ {
		return // entirely outside the grid
	}
	x0, y0, z0 = clamp(x0, 0, g.DimX-1), clamp(y0, 0, g.DimY-1), clamp(z0, 0, g.DimZ-1)
	x1, y1, z1 = clamp(x1, 0, g.DimX-1), clamp(y1, 0, g.DimY-1), clamp(z1, 0, g.DimZ-1)

	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			row := g.occupied[g.Idx(x0, y, z) : g.Idx(x1, y, z)+1]
			for i := range row {
				row[i] = true
			}
		}
	}
}

// BurnSweptLine marks every voxel within radius of the polyline as
// occupied. Each segment is stepped parametrically at half-voxel
// resolution and a sphere of ceil(radius/resolution) voxels is stamped at
// each sample.
func (g *Grid) BurnSweptLine(polyline []geom.Point3, radius float64) {
	if len(polyline) < 2 {
		return
	}
	rVox := int(math.Ceil(radius / g.Resolution))
	if rVox < 1 {
		rVox = 1
	}
	step := g.Resolution / 2

	for i := 0; i < len(polyline)-1; i++ {
		a, b := polyline[i], polyline[i+1]
		d := b.Sub(a)
		length := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
		n := int(math.Ceil(length/step)) + 1
		for s := 0; s <= n; s++ {
			t := float64(s) / float64(n)
			p := geom.Point3{X: a.X + d.X*t, Y: a.Y + d.Y*t, Z: a.Z + d.Z*t}
			cx, cy, cz := g.WorldToGrid(p)
			g.stampSphere(cx, cy, cz, rVox)
		}
	}
}

// stampSphere marks the voxels within rVox cells of (cx,cy,cz) occupied.
func (g *Grid) stampSphere(cx, cy, cz, rVox int) {
	r2 := rVox * rVox
	for dz := -rVox; dz <= rVox; dz++ {
		for dy := -rVox; dy <= rVox; dy++ {
			for dx := -rVox; dx <= rVox; dx++ {
				if dx*dx+dy*dy+dz*dz > r2 {
					continue
				}
				g.SetOccupied(cx+dx, cy+dy, cz+dz)
			}
		}
	}
}

// BurnObstacle validates the obstacle and dispatches on its variant.
// An invalid obstacle returns an error; nothing is burned.
func (g *Grid) BurnObstacle(o geom.Obstacle) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("burn obstacle: %w", err)
	}
	switch o.Kind {
	case geom.KindBox:
		g.BurnBox(*o.Box)
	case geom.KindSweptLine:
		g.BurnSweptLine(o.SweptLine.Polyline, o.SweptLine.Radius)
	}
	return nil
}

// ApplySafetyMargin dilates the occupied set by the given margin in
// metres, converted to max(1, ceil(margin/resolution)) rounds of
// 26-connected morphological dilation. Each round adds the full 3×3×3
// neighbourhood of every occupied voxel, so the occupied count never
// decreases as the margin grows. A margin <= 0 is a no-op.
func (g *Grid) ApplySafetyMargin(meters float64) {
	if meters <= 0 {
		return
	}
	rounds := int(math.Ceil(meters / g.Resolution))
	if rounds < 1 {
		rounds = 1
	}
	for r := 0; r < rounds; r++ {
		g.dilateOnce()
	}
}

func (g *Grid) dilateOnce() {
	src := make([]bool, len(g.occupied))
	copy(src, g.occupied)

	for z := 0; z < g.DimZ; z++ {
		for y := 0; y < g.DimY; y++ {
			for x := 0; x < g.DimX; x++ {
				if !src[g.Idx(x, y, z)] {
					continue
				}
				for dz := -1; dz <= 1; dz++ {
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							g.SetOccupied(x+dx, y+dy, z+dz)
						}
					}
				}
			}
		}
	}
}
