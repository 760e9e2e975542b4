// Package report renders a routed branch as engineering profile plots:
// elevation along the run and cumulative Hazen-Williams pressure loss
// against distance.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fireflow-eng/fireroute/internal/hydraulics"
	"github.com/fireflow-eng/fireroute/internal/route"
	"github.com/fireflow-eng/fireroute/internal/units"
)

// ProfilePlotter writes route profile PNGs to an output directory.
type ProfilePlotter struct {
	outputDir string
}

// NewProfilePlotter creates the output directory if needed.
func NewProfilePlotter(outputDir string) (*ProfilePlotter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create output dir: %w", err)
	}
	return &ProfilePlotter{outputDir: outputDir}, nil
}

// SaveProfile renders the elevation and pressure profiles for one run.
// The returned paths point at the written PNG files.
func (pp *ProfilePlotter) SaveProfile(name string, r *route.PipeRoute, hyd hydraulics.Result) (elevFile, pressFile string, err error) {
	if r == nil || len(r.Waypoints) < 2 {
		return "", "", fmt.Errorf("report: route %q has no waypoints to plot", name)
	}

	elevPts := make(plotter.XYs, 0, len(r.Waypoints))
	pressPts := make(plotter.XYs, 0, len(r.Waypoints))

	dist := 0.0
	for i, wp := range r.Waypoints {
		if i > 0 {
			d := wp.Sub(r.Waypoints[i-1])
			dist += vecLen(d.X, d.Y, d.Z)
		}
		elevPts = append(elevPts, plotter.XY{X: dist, Y: wp.Z})
		pressPts = append(pressPts, plotter.XY{
			X: dist,
			Y: hyd.UnitLossPSIPerFt * units.MetersToFeet(dist),
		})
	}

	pElev := plot.New()
	pElev.Title.Text = fmt.Sprintf("%s — elevation profile", name)
	pElev.X.Label.Text = "distance along route (m)"
	pElev.Y.Label.Text = "elevation (m)"

	elevLine, err := plotter.NewLine(elevPts)
	if err != nil {
		return "", "", fmt.Errorf("report: elevation line: %w", err)
	}
	elevLine.Width = vg.Points(1)
	pElev.Add(elevLine, plotter.NewGrid())

	pPress := plot.New()
	pPress.Title.Text = fmt.Sprintf("%s — cumulative pressure loss", name)
	pPress.X.Label.Text = "distance along route (m)"
	pPress.Y.Label.Text = "pressure loss (psi)"

	pressLine, err := plotter.NewLine(pressPts)
	if err != nil {
		return "", "", fmt.Errorf("report: pressure line: %w", err)
	}
	pressLine.Width = vg.Points(1)
	pPress.Add(pressLine, plotter.NewGrid())

	elevFile = filepath.Join(pp.outputDir, fmt.Sprintf("%s_elevation.png", name))
	if err := pElev.Save(10*vg.Inch, 4*vg.Inch, elevFile); err != nil {
		return "", "", fmt.Errorf("report: save elevation plot: %w", err)
	}
	pressFile = filepath.Join(pp.outputDir, fmt.Sprintf("%s_pressure.png", name))
	if err := pPress.Save(10*vg.Inch, 4*vg.Inch, pressFile); err != nil {
		return "", "", fmt.Errorf("report: save pressure plot: %w", err)
	}
	return elevFile, pressFile, nil
}

func vecLen(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}
