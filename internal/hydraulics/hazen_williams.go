// Package hydraulics computes Hazen-Williams pressure loss and flow
// velocity for sprinkler pipe segments and routed branches.
//
// The empirical constants are unit-specific (flow in gpm, diameters in
// inches, lengths in feet, pressure in psi) and are carried verbatim
// from NFPA 13 practice rather than re-derived.
package hydraulics

import (
	"fmt"
	"math"
)

// Velocity thresholds in feet per second.
const (
	// RecommendedMaxVelocityFPS is the design-guidance ceiling.
	RecommendedMaxVelocityFPS = 20.0
	// AbsoluteMaxVelocityFPS is the fire-code maximum; above it the
	// segment is non-compliant.
	AbsoluteMaxVelocityFPS = 32.0
)

// Schedule identifies the pipe wall schedule used to resolve the actual
// internal diameter from a nominal size.
type Schedule string

const (
	Schedule40 Schedule = "40"
	Schedule10 Schedule = "10"
)

// Segment describes one hydraulic calculation unit.
type Segment struct {
	FlowGPM           float64  // water flow, gallons per minute
	NominalDiameterIn float64  // nominal pipe size, inches
	Schedule          Schedule // wall schedule for ID lookup
	LengthFt          float64  // segment length, feet
	CFactor           float64  // Hazen-Williams roughness coefficient
}

// Result carries the hydraulic outcome for a segment. Out-of-range
// engineering inputs never fail the calculation; they surface here as
// warnings and a cleared Compliant flag.
type Result struct {
	PressureLossPSI  float64
	UnitLossPSIPerFt float64
	VelocityFPS      float64
	ActualDiameterIn float64
	Compliant        bool
	Warnings         []string
}

// scheduleIDs maps nominal size to actual internal diameter in inches.
// Values are standard steel pipe dimensions.
var scheduleIDs = map[Schedule]map[float64]float64{
	Schedule40: {
		0.5: 0.622, 0.75: 0.824, 1.0: 1.049, 1.25: 1.380,
		1.5: 1.610, 2.0: 2.067, 2.5: 2.469, 3.0: 3.068,
		4.0: 4.026, 6.0: 6.065, 8.0: 7.981,
	},
	Schedule10: {
		1.0: 1.097, 1.25: 1.442, 1.5: 1.682, 2.0: 2.157,
		2.5: 2.635, 3.0: 3.260, 4.0: 4.260, 6.0: 6.357,
		8.0: 8.249,
	},
}

// ActualDiameter resolves the internal diameter for a nominal size and
// schedule. Unknown sizes fall back to the nominal value.
func ActualDiameter(nominal float64, sched Schedule) float64 {
	if table, ok := scheduleIDs[sched]; ok {
		if id, ok := table[nominal]; ok {
			return id
		}
	}
	return nominal
}

// UnitFrictionLoss returns the Hazen-Williams friction loss in psi per
// foot: 4.52 * Q^1.85 / (C^1.85 * d^4.87).
func UnitFrictionLoss(flowGPM, cFactor, diameterIn float64) float64 {
	if flowGPM <= 0 || cFactor <= 0 || diameterIn <= 0 {
		return 0
	}
	return 4.52 * math.Pow(flowGPM, 1.85) / (math.Pow(cFactor, 1.85) * math.Pow(diameterIn, 4.87))
}

// Velocity returns the flow velocity in feet per second:
// 0.4085 * Q / d^2.
func Velocity(flowGPM, diameterIn float64) float64 {
	if flowGPM <= 0 || diameterIn <= 0 {
		return 0
	}
	return 0.4085 * flowGPM / (diameterIn * diameterIn)
}

// Calculate evaluates a segment. It never returns an error: suspicious
// inputs and velocity exceedances are reported through the result.
func Calculate(seg Segment) Result {
	res := Result{Compliant: true}

	if seg.FlowGPM < 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("negative flow %.1f gpm treated as zero", seg.FlowGPM))
		seg.FlowGPM = 0
	}
	if seg.LengthFt < 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("negative length %.1f ft treated as zero", seg.LengthFt))
		seg.LengthFt = 0
	}
	if seg.CFactor <= 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("C-factor %.0f invalid, using 120", seg.CFactor))
		seg.CFactor = 120
	}

	res.ActualDiameterIn = ActualDiameter(seg.NominalDiameterIn, seg.Schedule)
	if res.ActualDiameterIn <= 0 {
		res.Warnings = append(res.Warnings, "non-positive diameter, hydraulics skipped")
		res.Compliant = false
		return res
	}

	res.UnitLossPSIPerFt = UnitFrictionLoss(seg.FlowGPM, seg.CFactor, res.ActualDiameterIn)
	res.PressureLossPSI = res.UnitLossPSIPerFt * seg.LengthFt
	res.VelocityFPS = Velocity(seg.FlowGPM, res.ActualDiameterIn)

	switch {
	case res.VelocityFPS > AbsoluteMaxVelocityFPS:
		res.Compliant = false
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"velocity %.1f fps exceeds fire-code maximum %.0f fps", res.VelocityFPS, AbsoluteMaxVelocityFPS))
	case res.VelocityFPS > RecommendedMaxVelocityFPS:
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"velocity %.1f fps above recommended %.0f fps", res.VelocityFPS, RecommendedMaxVelocityFPS))
	}

	return res
}
