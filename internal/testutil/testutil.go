// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code
// duplication across test files.
package testutil

import (
	"math"
	"testing"

	"github.com/fireflow-eng/fireroute/internal/geom"
	"github.com/fireflow-eng/fireroute/internal/voxel"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within delta of want.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.Abs(got-want) > delta {
		t.Errorf("got %g, want %g (±%g)", got, want, delta)
	}
}

// EmptyGrid builds an unobstructed cubic grid of the given world size
// in metres at the given resolution, with no padding.
func EmptyGrid(t *testing.T, size, resolution float64) *voxel.Grid {
	t.Helper()
	g, err := voxel.NewGrid(geom.Point3{}, geom.Point3{X: size, Y: size, Z: size}, resolution, 0)
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}
	return g
}

// WallGrid builds a grid with a full y-z wall burned at world x=[wallX,
// wallX+thickness], splitting the volume in two.
func WallGrid(t *testing.T, size, resolution, wallX, thickness float64) *voxel.Grid {
	t.Helper()
	g := EmptyGrid(t, size, resolution)
	g.BurnBox(geom.Box{
		Min: geom.Point3{X: wallX, Y: -1, Z: -1},
		Max: geom.Point3{X: wallX + thickness, Y: size + 1, Z: size + 1},
	})
	return g
}
