package hydraulics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVelocity_ZeroFlow(t *testing.T) {
	if v := Velocity(0, 2.067); v != 0 {
		t.Errorf("velocity(Q=0) = %g, want 0", v)
	}
	if v := Velocity(-10, 2.067); v != 0 {
		t.Errorf("velocity(Q<0) = %g, want 0", v)
	}
}

func TestVelocity_KnownValue(t *testing.T) {
	// 0.4085 * 100 / 2.067² ≈ 9.56 fps
	v := Velocity(100, 2.067)
	assert.InDelta(t, 9.561, v, 0.01)
}

func TestUnitFrictionLoss_DecreasingCIncreasesLoss(t *testing.T) {
	prev := 0.0
	for _, c := range []float64{150, 140, 130, 120, 110, 100} {
		loss := UnitFrictionLoss(100, c, 2.067)
		if loss <= prev {
			t.Fatalf("loss at C=%g is %g, not strictly above %g", c, loss, prev)
		}
		prev = loss
	}
}

func TestActualDiameter(t *testing.T) {
	assert.Equal(t, 2.067, ActualDiameter(2.0, Schedule40))
	assert.Equal(t, 2.157, ActualDiameter(2.0, Schedule10))
	assert.Equal(t, 1.049, ActualDiameter(1.0, Schedule40))
	// Unknown nominal falls back to the nominal value.
	assert.Equal(t, 3.3, ActualDiameter(3.3, Schedule40))
	// Unknown schedule falls back too.
	assert.Equal(t, 2.0, ActualDiameter(2.0, Schedule("80")))
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	// 100 gpm through 100 ft of 2" Schedule 40 (ID 2.067") at C=120.
	res := Calculate(Segment{
		FlowGPM:           100,
		NominalDiameterIn: 2.0,
		Schedule:          Schedule40,
		LengthFt:          100,
		CFactor:           120,
	})

	wantUnit := 4.52 * math.Pow(100, 1.85) / (math.Pow(120, 1.85) * math.Pow(2.067, 4.87))
	require.InDelta(t, wantUnit*100, res.PressureLossPSI, 1e-9)
	assert.InDelta(t, 2.0, res.PressureLossPSI, 0.2)
	assert.InDelta(t, 9.56, res.VelocityFPS, 0.01)
	assert.True(t, res.Compliant)
	assert.Empty(t, res.Warnings)
}

func TestCalculate_VelocityBands(t *testing.T) {
	// ~9.6 fps: clean.
	clean := Calculate(Segment{FlowGPM: 100, NominalDiameterIn: 2.0, Schedule: Schedule40, LengthFt: 10, CFactor: 120})
	assert.True(t, clean.Compliant)
	assert.Empty(t, clean.Warnings)

	// ~24 fps: warning band, still compliant.
	warning := Calculate(Segment{FlowGPM: 250, NominalDiameterIn: 2.0, Schedule: Schedule40, LengthFt: 10, CFactor: 120})
	assert.Greater(t, warning.VelocityFPS, RecommendedMaxVelocityFPS)
	assert.LessOrEqual(t, warning.VelocityFPS, AbsoluteMaxVelocityFPS)
	assert.True(t, warning.Compliant)
	assert.NotEmpty(t, warning.Warnings)

	// ~38 fps: over the fire-code maximum, non-compliant.
	over := Calculate(Segment{FlowGPM: 400, NominalDiameterIn: 2.0, Schedule: Schedule40, LengthFt: 10, CFactor: 120})
	assert.Greater(t, over.VelocityFPS, AbsoluteMaxVelocityFPS)
	assert.False(t, over.Compliant)
	assert.NotEmpty(t, over.Warnings)
}

func TestCalculate_BadInputsNeverError(t *testing.T) {
	res := Calculate(Segment{FlowGPM: -50, NominalDiameterIn: 2.0, Schedule: Schedule40, LengthFt: -10, CFactor: -1})
	assert.Equal(t, 0.0, res.PressureLossPSI)
	assert.Equal(t, 0.0, res.VelocityFPS)
	// Three separate warnings: flow, length, C-factor.
	assert.Len(t, res.Warnings, 3)
	assert.True(t, res.Compliant)
}

func TestCalculate_NonPositiveDiameter(t *testing.T) {
	res := Calculate(Segment{FlowGPM: 100, NominalDiameterIn: 0, Schedule: Schedule40, LengthFt: 100, CFactor: 120})
	assert.False(t, res.Compliant)
	assert.NotEmpty(t, res.Warnings)
}
