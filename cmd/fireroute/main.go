// Command fireroute runs the sprinkler routing pipeline for a scene
// file: it voxelizes the extracted geometry, routes the branch pipe,
// evaluates hydraulics and NFPA 13 compliance, and prints the
// traffic-light verdict.
//
// Usage:
//
//	fireroute -scene scene.json [-config tuning.json] [-db runs.db] [-plots out/]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fireflow-eng/fireroute/internal/config"
	"github.com/fireflow-eng/fireroute/internal/pipeline"
	"github.com/fireflow-eng/fireroute/internal/report"
	"github.com/fireflow-eng/fireroute/internal/runstore"
)

func main() {
	var (
		scenePath  = flag.String("scene", "", "path to the scene JSON file (required)")
		configPath = flag.String("config", "", "optional tuning config JSON")
		dbPath     = flag.String("db", "", "optional sqlite database to record the run")
		plotsDir   = flag.String("plots", "", "optional directory for route profile PNGs")
		asJSON     = flag.Bool("json", false, "print the full run result as JSON")
	)
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "fireroute: ", log.LstdFlags)

	var cfg *config.TuningConfig
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	scene, err := loadScene(*scenePath)
	if err != nil {
		logger.Fatalf("load scene: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, logger)
	result, err := runner.Run(ctx, scene)
	if err != nil {
		logger.Fatalf("run: %v", err)
	}

	if *dbPath != "" {
		store, err := runstore.Open(*dbPath)
		if err != nil {
			logger.Fatalf("open run store: %v", err)
		}
		defer store.Close()
		if err := store.InsertResult(result, string(scene.Design.Hazard)); err != nil {
			logger.Fatalf("record run: %v", err)
		}
		logger.Printf("recorded run %s in %s", result.RunID, *dbPath)
	}

	if *plotsDir != "" && result.Route != nil {
		pp, err := report.NewProfilePlotter(*plotsDir)
		if err != nil {
			logger.Fatalf("plotter: %v", err)
		}
		elev, press, err := pp.SaveProfile(scene.Name, result.Route, result.Hydraulic)
		if err != nil {
			logger.Fatalf("plot: %v", err)
		}
		logger.Printf("wrote %s and %s", elev, press)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			logger.Fatalf("encode result: %v", err)
		}
		return
	}

	printVerdict(result)
	if result.Verdict.Light == "RED" {
		os.Exit(1)
	}
}

func loadScene(path string) (*pipeline.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scene pipeline.Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scene, nil
}

func printVerdict(res *pipeline.RunResult) {
	fmt.Printf("%s — %s\n", res.Verdict.Light, res.Verdict.Message)
	for _, f := range res.Verdict.Findings {
		fmt.Printf("  - %s\n", f)
	}
	if res.Verdict.Action != "" {
		fmt.Printf("  action: %s\n", res.Verdict.Action)
	}
	if res.Route != nil {
		fmt.Printf("  route: %.2f m, %d turns, %d elevation changes, %.1f psi loss, %.1f fps\n",
			res.Route.TotalLength, res.Route.TurnCount, res.Route.ElevationChanges,
			res.Hydraulic.PressureLossPSI, res.Hydraulic.VelocityFPS)
	}
}
