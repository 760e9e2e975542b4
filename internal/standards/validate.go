package standards

import "fmt"

// CheckKind names the requirement a violation was raised against.
type CheckKind string

const (
	CheckDensity  CheckKind = "density"
	CheckSpacing  CheckKind = "spacing"
	CheckCoverage CheckKind = "coverage"
	CheckPressure CheckKind = "pressure"
)

// Violation is one failed compliance check, carrying the magnitude of
// the shortfall or excess so downstream consumers can explain why.
type Violation struct {
	Check    CheckKind
	Actual   float64
	Required float64
	// Delta is the shortfall (for minimums) or excess (for maximums),
	// always positive.
	Delta   float64
	Message string
}

// ValidationResult is the outcome of checking actual design values
// against a hazard class. Compliant is true iff Violations is empty.
type ValidationResult struct {
	Hazard     HazardClass
	Compliant  bool
	Violations []Violation
}

// Validate compares the actual design values against the hazard's
// thresholds and returns one structured violation per failed check. It
// never errors for out-of-range engineering values; only an unknown
// hazard class is an error.
func Validate(hazard HazardClass, actualDensity, actualSpacing, actualCoverage, actualPressure float64) (ValidationResult, error) {
	req, err := Requirements(hazard)
	if err != nil {
		return ValidationResult{}, err
	}

	res := ValidationResult{Hazard: hazard}

	if actualDensity < req.Density {
		res.Violations = append(res.Violations, Violation{
			Check: CheckDensity, Actual: actualDensity, Required: req.Density,
			Delta: req.Density - actualDensity,
			Message: fmt.Sprintf("design density %.3f gpm/ft² is %.3f below the %.3f minimum",
				actualDensity, req.Density-actualDensity, req.Density),
		})
	}
	if actualSpacing > req.MaxSpacing {
		res.Violations = append(res.Violations, Violation{
			Check: CheckSpacing, Actual: actualSpacing, Required: req.MaxSpacing,
			Delta: actualSpacing - req.MaxSpacing,
			Message: fmt.Sprintf("head spacing %.1f ft exceeds the %.1f ft maximum by %.1f ft",
				actualSpacing, req.MaxSpacing, actualSpacing-req.MaxSpacing),
		})
	} else if actualSpacing < req.MinSpacing {
		res.Violations = append(res.Violations, Violation{
			Check: CheckSpacing, Actual: actualSpacing, Required: req.MinSpacing,
			Delta: req.MinSpacing - actualSpacing,
			Message: fmt.Sprintf("head spacing %.1f ft is below the %.1f ft minimum by %.1f ft",
				actualSpacing, req.MinSpacing, req.MinSpacing-actualSpacing),
		})
	}
	if actualCoverage > req.MaxCoveragePerHead {
		res.Violations = append(res.Violations, Violation{
			Check: CheckCoverage, Actual: actualCoverage, Required: req.MaxCoveragePerHead,
			Delta: actualCoverage - req.MaxCoveragePerHead,
			Message: fmt.Sprintf("coverage %.0f ft²/head exceeds the %.0f ft² maximum by %.0f ft²",
				actualCoverage, req.MaxCoveragePerHead, actualCoverage-req.MaxCoveragePerHead),
		})
	}
	if actualPressure < req.MinPressure {
		res.Violations = append(res.Violations, Violation{
			Check: CheckPressure, Actual: actualPressure, Required: req.MinPressure,
			Delta: req.MinPressure - actualPressure,
			Message: fmt.Sprintf("residual pressure %.1f psi is %.1f below the %.1f psi minimum",
				actualPressure, req.MinPressure-actualPressure, req.MinPressure),
		})
	}

	res.Compliant = len(res.Violations) == 0
	return res, nil
}
