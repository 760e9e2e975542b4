// Package units provides shared engineering unit constants and
// conversions for the routing core.
//
// The spatial model works in metres while the hydraulic formulas are
// unit-specific (gpm, inches, feet, psi); this package is the single
// place those conversions live.
package units

// Conversion factors.
const (
	MetersPerFoot  = 0.3048
	FeetPerMeter   = 1.0 / MetersPerFoot
	LPMPerGPM      = 3.78541 // litres/min per gallon/min
	BarPerPSI      = 0.0689476
	MPSPerFPS      = 0.3048
	InchesPerMeter = 39.3701
)

// Pressure unit names.
const (
	PSI = "psi"
	Bar = "bar"
)

// Flow unit names.
const (
	GPM = "gpm"
	LPM = "lpm"
)

// ValidFlowUnits contains the accepted flow unit names.
var ValidFlowUnits = []string{GPM, LPM}

// IsValidFlowUnit checks if the given unit is a recognised flow unit.
func IsValidFlowUnit(unit string) bool {
	for _, u := range ValidFlowUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// MetersToFeet converts a length in metres to feet.
func MetersToFeet(m float64) float64 { return m * FeetPerMeter }

// FeetToMeters converts a length in feet to metres.
func FeetToMeters(ft float64) float64 { return ft * MetersPerFoot }

// GPMToLPM converts a flow from gallons/min to litres/min.
func GPMToLPM(gpm float64) float64 { return gpm * LPMPerGPM }

// LPMToGPM converts a flow from litres/min to gallons/min.
func LPMToGPM(lpm float64) float64 { return lpm / LPMPerGPM }

// PSIToBar converts a pressure from psi to bar.
func PSIToBar(psi float64) float64 { return psi * BarPerPSI }

// BarToPSI converts a pressure from bar to psi.
func BarToPSI(bar float64) float64 { return bar / BarPerPSI }

// FPSToMPS converts a velocity from feet/s to metres/s.
func FPSToMPS(fps float64) float64 { return fps * MPSPerFPS }
