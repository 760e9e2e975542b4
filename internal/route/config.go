package route

import "fmt"

// Connectivity selects the neighbour set used for expansion.
type Connectivity int

const (
	// Connectivity6 expands face neighbours only.
	Connectivity6 Connectivity = 6
	// Connectivity18 adds edge neighbours.
	Connectivity18 Connectivity = 18
	// Connectivity26 adds corner neighbours. This is the canonical
	// default and matches the dilation structuring element used by
	// the voxelizer.
	Connectivity26 Connectivity = 26
)

// Config holds the pathfinder tuning parameters. The iteration cap is a
// required, explicit setting; there is no hidden constant backing it.
type Config struct {
	// MaxIterations bounds the number of nodes popped from the open
	// set before the search gives up with ErrNoPath.
	MaxIterations int

	// TurnPenalty is added to the move cost whenever the step
	// direction differs from the previous step direction.
	TurnPenalty float64

	// ElevationPenalty is added whenever a step changes the z index.
	ElevationPenalty float64

	// SnapRadius is the maximum cubic-shell radius, in voxels, searched
	// for a free voxel when the requested start or goal is occupied.
	SnapRadius int

	// SimplifyTolerance is the maximum perpendicular deviation, in
	// metres, below which an interior waypoint is dropped as collinear.
	SimplifyTolerance float64

	// Connectivity is the neighbour set (6, 18 or 26).
	Connectivity Connectivity
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations:     200_000,
		TurnPenalty:       1.5,
		ElevationPenalty:  2.0,
		SnapRadius:        5,
		SimplifyTolerance: 0.01,
		Connectivity:      Connectivity26,
	}
}

// Validate rejects configurations the search cannot run with.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("route: MaxIterations must be > 0, got %d", c.MaxIterations)
	}
	if c.TurnPenalty < 0 || c.ElevationPenalty < 0 {
		return fmt.Errorf("route: penalties must be >= 0")
	}
	if c.SnapRadius < 0 {
		return fmt.Errorf("route: SnapRadius must be >= 0, got %d", c.SnapRadius)
	}
	switch c.Connectivity {
	case Connectivity6, Connectivity18, Connectivity26:
	default:
		return fmt.Errorf("route: connectivity must be 6, 18 or 26, got %d", c.Connectivity)
	}
	return nil
}
