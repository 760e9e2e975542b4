// Package verdict reduces the pathfinding, hydraulic and compliance
// outputs of a routing run to a single GO / CAUTION / STOP signal with a
// human-readable explanation.
package verdict

import (
	"fmt"

	"github.com/fireflow-eng/fireroute/internal/geom"
	"github.com/fireflow-eng/fireroute/internal/hydraulics"
	"github.com/fireflow-eng/fireroute/internal/standards"
)

// Light is the tri-state verdict signal.
type Light string

const (
	Green  Light = "GREEN"
	Yellow Light = "YELLOW"
	Red    Light = "RED"
)

// DefaultPressureWarningPSI is the default total-loss threshold above
// which a design is flagged for review.
const DefaultPressureWarningPSI = 50.0

// Verdict is the final decision for one routing run. Immutable once
// produced.
type Verdict struct {
	Light   Light
	Message string
	// Findings explain the decision, ordered by severity. Non-GREEN
	// verdicts always carry at least one finding.
	Findings []string
	// Action is the recommended next step; empty for GREEN.
	Action string
	// Metrics carries the numeric inputs the decision was based on.
	Metrics Metrics
}

// Metrics are the numeric facts backing a verdict.
type Metrics struct {
	VelocityFPS     float64
	PressureLossPSI float64
	ClashCount      int
	ViolationCount  int
}

// Engine evaluates the decision cascade. The zero value is not usable;
// construct with NewEngine so the pressure threshold is explicit.
type Engine struct {
	pressureWarningPSI float64
}

// NewEngine builds a decision engine. A non-positive threshold selects
// DefaultPressureWarningPSI.
func NewEngine(pressureWarningPSI float64) *Engine {
	if pressureWarningPSI <= 0 {
		pressureWarningPSI = DefaultPressureWarningPSI
	}
	return &Engine{pressureWarningPSI: pressureWarningPSI}
}

// Determine runs the ordered cascade. Rule order encodes severity
// precedence; the first matching stop/caution rule wins, so an unsafe
// design can never fall through to GREEN.
func (e *Engine) Determine(nfpa standards.ValidationResult, clashes []geom.Clash, hyd hydraulics.Result) Verdict {
	m := Metrics{
		VelocityFPS:     hyd.VelocityFPS,
		PressureLossPSI: hyd.PressureLossPSI,
		ClashCount:      len(clashes),
		ViolationCount:  len(nfpa.Violations),
	}

	// Rule 1: NFPA non-compliance stops the design.
	if !nfpa.Compliant {
		findings := make([]string, 0, len(nfpa.Violations))
		for _, v := range nfpa.Violations {
			findings = append(findings, v.Message)
		}
		if len(findings) == 0 {
			findings = append(findings, "NFPA 13 validation reported non-compliance")
		}
		return Verdict{
			Light:    Red,
			Message:  "STOP: design violates NFPA 13 requirements",
			Findings: findings,
			Action:   "revise sprinkler layout to meet NFPA 13 minimums before routing",
			Metrics:  m,
		}
	}

	// Rule 2: velocity above the fire-code maximum.
	if hyd.VelocityFPS > hydraulics.AbsoluteMaxVelocityFPS {
		return Verdict{
			Light:   Red,
			Message: "STOP: flow velocity exceeds fire-code maximum",
			Findings: []string{fmt.Sprintf("velocity %.1f fps exceeds the %.0f fps fire-code maximum",
				hyd.VelocityFPS, hydraulics.AbsoluteMaxVelocityFPS)},
			Action:  "increase pipe diameter to bring velocity under the code maximum",
			Metrics: m,
		}
	}

	// Rule 3: blocking clashes (critical/high or structural).
	for _, c := range clashes {
		if c.IsBlocking() {
			return Verdict{
				Light:   Red,
				Message: "STOP: route clashes with a structural or critical element",
				Findings: []string{fmt.Sprintf("%s clash with %s: %s",
					c.Severity, c.Type, c.Description)},
				Action:  "reroute the pipe clear of the clashing element",
				Metrics: m,
			}
		}
	}

	// Rule 4: velocity in the warning band.
	if hyd.VelocityFPS > hydraulics.RecommendedMaxVelocityFPS {
		return Verdict{
			Light:   Yellow,
			Message: "CAUTION: flow velocity above recommended limit",
			Findings: []string{fmt.Sprintf("velocity %.1f fps is above the recommended %.0f fps ceiling",
				hyd.VelocityFPS, hydraulics.RecommendedMaxVelocityFPS)},
			Action:  "consider one pipe size larger to reduce velocity",
			Metrics: m,
		}
	}

	// Rule 5: excessive total pressure loss.
	if hyd.PressureLossPSI > e.pressureWarningPSI {
		return Verdict{
			Light:   Yellow,
			Message: "CAUTION: high total pressure loss",
			Findings: []string{fmt.Sprintf("pressure loss %.1f psi exceeds the %.0f psi review threshold",
				hyd.PressureLossPSI, e.pressureWarningPSI)},
			Action:  "shorten the route or increase pipe diameter to recover pressure",
			Metrics: m,
		}
	}

	// Rule 6: any remaining (soft) clash.
	if len(clashes) > 0 {
		findings := make([]string, 0, len(clashes))
		for _, c := range clashes {
			findings = append(findings, fmt.Sprintf("%s clash with %s: %s", c.Severity, c.Type, c.Description))
		}
		return Verdict{
			Light:    Yellow,
			Message:  "CAUTION: soft clashes need review",
			Findings: findings,
			Action:   "review clearances with the affected trades",
			Metrics:  m,
		}
	}

	// Rule 7: clean design.
	return Verdict{
		Light:   Green,
		Message: "GO: design passes all checks",
		Findings: []string{
			"NFPA 13 requirements satisfied",
			fmt.Sprintf("velocity %.1f fps within the recommended %.0f fps ceiling",
				hyd.VelocityFPS, hydraulics.RecommendedMaxVelocityFPS),
			fmt.Sprintf("pressure loss %.1f psi under the %.0f psi threshold",
				hyd.PressureLossPSI, e.pressureWarningPSI),
			"no clashes reported",
		},
		Metrics: m,
	}
}
