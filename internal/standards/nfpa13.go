// Package standards holds the NFPA 13 reference data and compliance
// checks: hazard classification requirements, density/area curves and
// structured validation of actual design values.
//
// The tables are immutable after package initialisation and safe to
// share read-only across concurrent routing runs.
package standards

import "fmt"

// HazardClass is an occupancy risk category per NFPA 13.
type HazardClass string

const (
	Light     HazardClass = "light"
	Ordinary1 HazardClass = "ordinary_1"
	Ordinary2 HazardClass = "ordinary_2"
	Extra1    HazardClass = "extra_1"
	Extra2    HazardClass = "extra_2"
)

// HazardRequirements is one immutable reference table entry.
type HazardRequirements struct {
	// Density is the minimum design density in gpm/ft².
	Density float64
	// DesignArea is the hydraulically most demanding area in ft².
	DesignArea float64
	// MaxCoveragePerHead is the maximum floor area one sprinkler may
	// protect, ft².
	MaxCoveragePerHead float64
	// MaxSpacing and MinSpacing bound head-to-head distance, ft.
	MaxSpacing float64
	MinSpacing float64
	// MinPressure is the minimum residual pressure at the head, psi.
	MinPressure float64
	// HoseAllowance is the hose-stream allowance, gpm. Carried for
	// demand calculations; not checked by Validate.
	HoseAllowance float64
}

// UnknownHazardError reports an unrecognised hazard class identifier.
type UnknownHazardError struct {
	Class HazardClass
}

func (e *UnknownHazardError) Error() string {
	return fmt.Sprintf("standards: unknown hazard class %q", e.Class)
}

// requirements is the static NFPA 13 table for the five supported
// hazard classes.
var requirements = map[HazardClass]HazardRequirements{
	Light: {
		Density: 0.10, DesignArea: 1500, MaxCoveragePerHead: 225,
		MaxSpacing: 15, MinSpacing: 6, MinPressure: 7, HoseAllowance: 100,
	},
	Ordinary1: {
		Density: 0.15, DesignArea: 1500, MaxCoveragePerHead: 130,
		MaxSpacing: 15, MinSpacing: 6, MinPressure: 7, HoseAllowance: 250,
	},
	Ordinary2: {
		Density: 0.20, DesignArea: 1500, MaxCoveragePerHead: 130,
		MaxSpacing: 15, MinSpacing: 6, MinPressure: 7, HoseAllowance: 250,
	},
	Extra1: {
		Density: 0.30, DesignArea: 2500, MaxCoveragePerHead: 100,
		MaxSpacing: 12, MinSpacing: 6, MinPressure: 7, HoseAllowance: 500,
	},
	Extra2: {
		Density: 0.40, DesignArea: 2500, MaxCoveragePerHead: 100,
		MaxSpacing: 12, MinSpacing: 6, MinPressure: 7, HoseAllowance: 500,
	},
}

// breakpoint is one (area, density) point of a density/area curve.
type breakpoint struct {
	AreaFt2 float64
	Density float64
}

// densityCurves gives the design-density relief breakpoints per hazard
// class, ordered by increasing area with non-increasing density.
var densityCurves = map[HazardClass][]breakpoint{
	Light:     {{1500, 0.10}, {3000, 0.09}, {4000, 0.08}, {5000, 0.07}},
	Ordinary1: {{1500, 0.15}, {3000, 0.13}, {4000, 0.12}, {5000, 0.11}},
	Ordinary2: {{1500, 0.20}, {3000, 0.18}, {4000, 0.17}, {5000, 0.15}},
	Extra1:    {{2500, 0.30}, {3000, 0.28}, {4000, 0.26}, {5000, 0.24}},
	Extra2:    {{2500, 0.40}, {3000, 0.38}, {4000, 0.36}, {5000, 0.34}},
}

// Classes lists the supported hazard classes.
func Classes() []HazardClass {
	return []HazardClass{Light, Ordinary1, Ordinary2, Extra1, Extra2}
}

// Requirements returns the reference entry for a hazard class, or an
// *UnknownHazardError for an unrecognised identifier.
func Requirements(hazard HazardClass) (HazardRequirements, error) {
	req, ok := requirements[hazard]
	if !ok {
		return HazardRequirements{}, &UnknownHazardError{Class: hazard}
	}
	return req, nil
}

// InterpolateDensity returns the required design density for a coverage
// area: the first breakpoint's density at or below the first area, the
// last breakpoint's density at or beyond the last area, and a linear
// interpolation between the bracketing breakpoints otherwise. The
// result is monotonically non-increasing in area.
func InterpolateDensity(hazard HazardClass, areaFt2 float64) (float64, error) {
	curve, ok := densityCurves[hazard]
	if !ok {
		return 0, &UnknownHazardError{Class: hazard}
	}
	if areaFt2 <= curve[0].AreaFt2 {
		return curve[0].Density, nil
	}
	last := curve[len(curve)-1]
	if areaFt2 >= last.AreaFt2 {
		return last.Density, nil
	}
	for i := 1; i < len(curve); i++ {
		lo, hi := curve[i-1], curve[i]
		if areaFt2 <= hi.AreaFt2 {
			t := (areaFt2 - lo.AreaFt2) / (hi.AreaFt2 - lo.AreaFt2)
			return lo.Density + t*(hi.Density-lo.Density), nil
		}
	}
	return last.Density, nil
}
