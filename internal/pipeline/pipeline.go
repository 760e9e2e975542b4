// Package pipeline orchestrates one routing run end to end: voxelize the
// building volume, thread the pipe route with A*, evaluate hydraulics,
// check NFPA 13 compliance and reduce everything to a traffic-light
// verdict.
//
// A run is synchronous and single-threaded. The voxel grid finishes all
// mutation (obstacle burn plus safety-margin dilation) before the search
// starts and is read-only afterwards. Independent runs may execute in
// parallel, each against its own grid.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fireflow-eng/fireroute/internal/config"
	"github.com/fireflow-eng/fireroute/internal/geom"
	"github.com/fireflow-eng/fireroute/internal/hydraulics"
	"github.com/fireflow-eng/fireroute/internal/route"
	"github.com/fireflow-eng/fireroute/internal/standards"
	"github.com/fireflow-eng/fireroute/internal/units"
	"github.com/fireflow-eng/fireroute/internal/verdict"
	"github.com/fireflow-eng/fireroute/internal/voxel"
)

// Design carries the sprinkler layout values checked against NFPA 13.
type Design struct {
	Hazard              standards.HazardClass `json:"hazard"`
	DensityGPMFt2       float64               `json:"density_gpm_ft2"`
	SpacingFt           float64               `json:"spacing_ft"`
	CoverageFt2PerHead  float64               `json:"coverage_ft2_per_head"`
	ResidualPressurePSI float64               `json:"residual_pressure_psi"`
}

// Scene is the full input for one routing run, assembled by the caller
// from the geometry-extraction and clash-detection collaborators.
type Scene struct {
	Name      string          `json:"name"`
	Bounds    geom.Bounds     `json:"bounds"`
	Obstacles []geom.Obstacle `json:"obstacles,omitempty"`
	Clashes   []geom.Clash    `json:"clashes,omitempty"`

	// Start and End are the pipe connection points in world metres.
	Start geom.Point3 `json:"start"`
	End   geom.Point3 `json:"end"`

	// FlowGPM is the branch demand used for hydraulics.
	FlowGPM float64 `json:"flow_gpm"`

	Design Design `json:"design"`
}

// Validate checks the scene at the system boundary before any of it
// reaches the core.
func (s *Scene) Validate() error {
	if err := s.Bounds.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	for i, o := range s.Obstacles {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("scene %q obstacle %d: %w", s.Name, i, err)
		}
	}
	return nil
}

// StageTimings records wall-clock duration per pipeline stage.
type StageTimings struct {
	Voxelize  time.Duration
	Route     time.Duration
	Hydraulic time.Duration
	Validate  time.Duration
	Total     time.Duration
}

// RunResult aggregates everything a routing run produced.
type RunResult struct {
	RunID     string
	SceneName string
	CreatedAt time.Time

	// Route is nil when the search failed; RouteError then explains
	// why and the verdict is forced RED.
	Route      *route.PipeRoute
	RouteError string

	Hydraulic hydraulics.Result
	NFPA      standards.ValidationResult
	Verdict   verdict.Verdict

	OccupiedVoxels int
	Timings        StageTimings
}

// Runner executes routing runs against an explicit configuration. It
// holds no mutable shared state; one Runner may serve concurrent runs.
type Runner struct {
	cfg    *config.TuningConfig
	logger *log.Logger
}

// NewRunner builds a Runner. A nil cfg uses defaults for every
// parameter; a nil logger uses the standard logger.
func NewRunner(cfg *config.TuningConfig, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// routeConfig maps the tuning document onto the pathfinder config.
func (r *Runner) routeConfig() route.Config {
	return route.Config{
		MaxIterations:     r.cfg.GetMaxIterations(),
		TurnPenalty:       r.cfg.GetTurnPenalty(),
		ElevationPenalty:  r.cfg.GetElevationPenalty(),
		SnapRadius:        r.cfg.GetSnapRadius(),
		SimplifyTolerance: r.cfg.GetSimplifyTolerance(),
		Connectivity:      route.Connectivity(r.cfg.GetConnectivity()),
	}
}

// Run executes the full pipeline for one scene. Search failures
// (ErrNoPath, GeometryError) are expected outcomes: they surface as a
// RED verdict in the result, not as an error. An error is returned only
// for invalid input or configuration, or a cancelled context.
func (r *Runner) Run(ctx context.Context, scene *Scene) (*RunResult, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	res := &RunResult{
		RunID:     uuid.New().String(),
		SceneName: scene.Name,
		CreatedAt: time.Now().UTC(),
	}
	runStart := time.Now()
	r.logger.Printf("pipeline: run %s scene %q start", res.RunID, scene.Name)

	// Stage 1: voxelize. All grid mutation happens here; the grid is
	// read-only once the pathfinder sees it.
	t0 := time.Now()
	grid, err := voxel.NewGrid(scene.Bounds.Min, scene.Bounds.Max,
		r.cfg.GetResolutionMeters(), r.cfg.GetPaddingMeters())
	if err != nil {
		return nil, err
	}
	for _, o := range scene.Obstacles {
		if err := grid.BurnObstacle(o); err != nil {
			return nil, err
		}
	}
	grid.ApplySafetyMargin(r.cfg.GetSafetyMarginMeters())
	res.OccupiedVoxels = grid.OccupiedCount()
	res.Timings.Voxelize = time.Since(t0)
	r.logger.Printf("pipeline: run %s voxelized %dx%dx%d grid, %d occupied (%s)",
		res.RunID, grid.DimX, grid.DimY, grid.DimZ, res.OccupiedVoxels, res.Timings.Voxelize)

	// Stage 2: route.
	t0 = time.Now()
	pf, err := route.NewPathfinder(r.routeConfig())
	if err != nil {
		return nil, err
	}
	pipeRoute, routeErr := pf.FindPath(ctx, grid, scene.Start, scene.End)
	res.Timings.Route = time.Since(t0)
	if routeErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var geomErr *route.GeometryError
		if !errors.Is(routeErr, route.ErrNoPath) && !errors.As(routeErr, &geomErr) {
			return nil, routeErr
		}
		// Expected failure: no usable route. Finish the run with a
		// RED verdict so the caller always gets a decision.
		res.RouteError = routeErr.Error()
		res.Verdict = noRouteVerdict(routeErr)
		res.Timings.Total = time.Since(runStart)
		r.logger.Printf("pipeline: run %s no route: %v", res.RunID, routeErr)
		return res, nil
	}
	res.Route = pipeRoute
	r.logger.Printf("pipeline: run %s routed %.2f m, %d turns, %d elevation changes (%s)",
		res.RunID, pipeRoute.TotalLength, pipeRoute.TurnCount, pipeRoute.ElevationChanges, res.Timings.Route)

	// Stage 3: hydraulics over the routed length.
	t0 = time.Now()
	res.Hydraulic = hydraulics.Calculate(hydraulics.Segment{
		FlowGPM:           scene.FlowGPM,
		NominalDiameterIn: r.cfg.GetNominalDiameter(),
		Schedule:          hydraulics.Schedule(r.cfg.GetSchedule()),
		LengthFt:          units.MetersToFeet(pipeRoute.TotalLength),
		CFactor:           r.cfg.GetCFactor(),
	})
	res.Timings.Hydraulic = time.Since(t0)

	// Stage 4: NFPA validation.
	t0 = time.Now()
	nfpa, err := standards.Validate(scene.Design.Hazard,
		scene.Design.DensityGPMFt2, scene.Design.SpacingFt,
		scene.Design.CoverageFt2PerHead, scene.Design.ResidualPressurePSI)
	if err != nil {
		return nil, err
	}
	res.NFPA = nfpa
	res.Timings.Validate = time.Since(t0)

	// Stage 5: decide.
	engine := verdict.NewEngine(r.cfg.GetPressureWarningPSI())
	res.Verdict = engine.Determine(res.NFPA, scene.Clashes, res.Hydraulic)
	res.Timings.Total = time.Since(runStart)
	r.logger.Printf("pipeline: run %s verdict %s (%s)", res.RunID, res.Verdict.Light, res.Timings.Total)

	return res, nil
}

// noRouteVerdict maps a search failure onto a RED verdict with an
// actionable explanation. The cascade never sees this case because
// there is no hydraulic result to cascade over.
func noRouteVerdict(routeErr error) verdict.Verdict {
	finding := "pathfinding failed: " + routeErr.Error()
	action := "open a routing corridor or relax the safety margin, then re-run"
	var geomErr *route.GeometryError
	if errors.As(routeErr, &geomErr) {
		action = "move the " + geomErr.What + " connection point clear of obstructions"
	}
	return verdict.Verdict{
		Light:    verdict.Red,
		Message:  "STOP: no viable pipe route",
		Findings: []string{finding},
		Action:   action,
	}
}
