// Package config loads the routing tuning configuration.
//
// The schema uses optional pointer fields so a partial JSON file only
// overrides the values it names; everything else falls back to the
// defaulting Get accessors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig is the root tuning document for a routing run. All fields
// are optional; nil means "use the default".
type TuningConfig struct {
	// Grid params
	ResolutionMeters   *float64 `json:"resolution_meters,omitempty"`
	PaddingMeters      *float64 `json:"padding_meters,omitempty"`
	SafetyMarginMeters *float64 `json:"safety_margin_meters,omitempty"`

	// Pathfinder params
	MaxIterations     *int     `json:"max_iterations,omitempty"`
	TurnPenalty       *float64 `json:"turn_penalty,omitempty"`
	ElevationPenalty  *float64 `json:"elevation_penalty,omitempty"`
	SnapRadius        *int     `json:"snap_radius,omitempty"`
	SimplifyTolerance *float64 `json:"simplify_tolerance,omitempty"`
	Connectivity      *int     `json:"connectivity,omitempty"`

	// Hydraulic params
	CFactor         *float64 `json:"c_factor,omitempty"`
	Schedule        *string  `json:"schedule,omitempty"`
	NominalDiameter *float64 `json:"nominal_diameter_in,omitempty"`

	// Decision params
	PressureWarningPSI *float64 `json:"pressure_warning_psi,omitempty"`
}

// Defaults, exposed for tests and documentation.
const (
	DefaultResolutionMeters   = 0.10
	DefaultPaddingMeters      = 0.50
	DefaultSafetyMarginMeters = 0.15
	DefaultMaxIterations      = 200_000
	DefaultTurnPenalty        = 1.5
	DefaultElevationPenalty   = 2.0
	DefaultSnapRadius         = 5
	DefaultSimplifyTolerance  = 0.01
	DefaultConnectivity       = 26
	DefaultCFactor            = 120.0
	DefaultSchedule           = "40"
	DefaultNominalDiameter    = 2.0
	DefaultPressureWarning    = 50.0
)

func (c *TuningConfig) GetResolutionMeters() float64 {
	if c != nil && c.ResolutionMeters != nil {
		return *c.ResolutionMeters
	}
	return DefaultResolutionMeters
}

func (c *TuningConfig) GetPaddingMeters() float64 {
	if c != nil && c.PaddingMeters != nil {
		return *c.PaddingMeters
	}
	return DefaultPaddingMeters
}

func (c *TuningConfig) GetSafetyMarginMeters() float64 {
	if c != nil && c.SafetyMarginMeters != nil {
		return *c.SafetyMarginMeters
	}
	return DefaultSafetyMarginMeters
}

func (c *TuningConfig) GetMaxIterations() int {
	if c != nil && c.MaxIterations != nil {
		return *c.MaxIterations
	}
	return DefaultMaxIterations
}

func (c *TuningConfig) GetTurnPenalty() float64 {
	if c != nil && c.TurnPenalty != nil {
		return *c.TurnPenalty
	}
	return DefaultTurnPenalty
}

func (c *TuningConfig) GetElevationPenalty() float64 {
	if c != nil && c.ElevationPenalty != nil {
		return *c.ElevationPenalty
	}
	return DefaultElevationPenalty
}

func (c *TuningConfig) GetSnapRadius() int {
	if c != nil && c.SnapRadius != nil {
		return *c.SnapRadius
	}
	return DefaultSnapRadius
}

func (c *TuningConfig) GetSimplifyTolerance() float64 {
	if c != nil && c.SimplifyTolerance != nil {
		return *c.SimplifyTolerance
	}
	return DefaultSimplifyTolerance
}

func (c *TuningConfig) GetConnectivity() int {
	if c != nil && c.Connectivity != nil {
		return *c.Connectivity
	}
	return DefaultConnectivity
}

func (c *TuningConfig) GetCFactor() float64 {
	if c != nil && c.CFactor != nil {
		return *c.CFactor
	}
	return DefaultCFactor
}

func (c *TuningConfig) GetSchedule() string {
	if c != nil && c.Schedule != nil {
		return *c.Schedule
	}
	return DefaultSchedule
}

func (c *TuningConfig) GetNominalDiameter() float64 {
	if c != nil && c.NominalDiameter != nil {
		return *c.NominalDiameter
	}
	return DefaultNominalDiameter
}

func (c *TuningConfig) GetPressureWarningPSI() float64 {
	if c != nil && c.PressureWarningPSI != nil {
		return *c.PressureWarningPSI
	}
	return DefaultPressureWarning
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the size cap; fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg TuningConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}
