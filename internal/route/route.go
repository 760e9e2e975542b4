// Package route threads a sprinkler pipe through the free space of a
// voxel grid with A* search, then reduces the raw voxel path to a
// simplified sequence of world-frame waypoints with routing metrics.
package route

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/fireflow-eng/fireroute/internal/geom"
)

// ErrNoPath is returned when the search budget is exhausted before the
// goal is reached. It is an expected outcome for congested volumes and
// must map to a non-GREEN verdict upstream, never to a crash.
var ErrNoPath = errors.New("route: no path found within iteration budget")

// GeometryError reports an unusable start or goal: the requested voxel
// is occupied and no free voxel exists within the snap radius.
type GeometryError struct {
	What  string // "start" or "goal"
	Point geom.Point3
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("route: %s %v has no free voxel within snap radius", e.What, e.Point)
}

// PipeRoute is an ordered sequence of world waypoints plus metrics
// derived from the raw voxel path. Consecutive waypoints are connected
// through free voxels only and the sequence is collinearity-simplified.
type PipeRoute struct {
	Waypoints []geom.Point3

	// TotalLength is the world-space length of the simplified route,
	// in metres.
	TotalLength float64
	// TurnCount and ElevationChanges are computed on the raw
	// (unsimplified) index path.
	TurnCount        int
	ElevationChanges int
	// Cost is the accumulated A* g-cost of the goal node.
	Cost float64
	// Iterations is the number of nodes expanded by the search.
	Iterations int
}

// simplifyCollinear drops interior waypoints whose perpendicular
// deviation from the line through their kept neighbours is below tol.
func simplifyCollinear(points []geom.Point3, tol float64) []geom.Point3 {
	if len(points) <= 2 {
		return points
	}
	out := make([]geom.Point3, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points)-1; i++ {
		a := out[len(out)-1]
		b := points[i+1]
		if deviation(a, points[i], b) >= tol {
			out = append(out, points[i])
		}
	}
	out = append(out, points[len(points)-1])
	return out
}

// deviation is the perpendicular distance from p to the line a-b,
// computed as |cross(b-a, p-a)| / |b-a|. A degenerate a-b keeps p.
func deviation(a, p, b geom.Point3) float64 {
	ab := r3.Vec{X: b.X - a.X, Y: b.Y - a.Y, Z: b.Z - a.Z}
	ap := r3.Vec{X: p.X - a.X, Y: p.Y - a.Y, Z: p.Z - a.Z}
	den := r3.Norm(ab)
	if den == 0 {
		return r3.Norm(ap)
	}
	return r3.Norm(r3.Cross(ab, ap)) / den
}

// pathLength sums the Euclidean segment lengths of a waypoint sequence.
func pathLength(points []geom.Point3) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		d := points[i].Sub(points[i-1])
		total += r3.Norm(r3.Vec{X: d.X, Y: d.Y, Z: d.Z})
	}
	return total
}
