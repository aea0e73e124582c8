// cncsim is the CNC motion and toolpath simulation host.
// It loads a YAML machine definition, validates the machine, tool
// library and stock, generates a facing pass over the stock, and runs
// the deterministic material removal simulation. Status and metrics
// servers can be enabled for live monitoring.
//
// Usage:
//
//	cncsim -config machine.yaml [options]
//
// Options:
//
//	-config string   Machine configuration file (required)
//	-metrics string  Prometheus metrics address (e.g. ":9100", default off)
//	-status string   Status API address (e.g. ":7125", default off)
//	-logfile string  Log file path (default: stdout)
//
// Examples:
//
//	# Run a simulation and exit
//	cncsim -config machine.yaml
//
//	# Keep serving status and metrics after the run
//	cncsim -config machine.yaml -metrics :9100 -status :7125
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cncsim-go/pkg/config"
	"cncsim-go/pkg/frame"
	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/log"
	"cncsim-go/pkg/machine"
	"cncsim-go/pkg/metrics"
	"cncsim-go/pkg/planner"
	"cncsim-go/pkg/sim"
	"cncsim-go/pkg/statusd"
	"cncsim-go/pkg/tool"
	"cncsim-go/pkg/toolpath"
)

const (
	clearanceHeight = 5.0
	depthOfCut      = 1.0
	stepoverRatio   = 0.8
)

var logger = log.GetLogger("main")

func main() {
	configFile := flag.String("config", "", "Machine configuration file (required)")
	metricsAddr := flag.String("metrics", "", "Prometheus metrics address (default off)")
	statusAddr := flag.String("status", "", "Status API address (default off)")
	logFile := flag.String("logfile", "", "Log file path (default: stdout)")

	flag.Parse()

	if *configFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -config is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetWriter(f)
	}

	if err := run(*configFile, *metricsAddr, *statusAddr); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(configFile, metricsAddr, statusAddr string) error {
	logger.Info("cncsim starting")
	logger.Info("config: %s", configFile)

	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	m, err := cfg.BuildMachine()
	if err != nil {
		return fmt.Errorf("building machine: %w", err)
	}
	library, err := cfg.BuildToolLibrary()
	if err != nil {
		return fmt.Errorf("building tool library: %w", err)
	}
	workpiece, grid, err := cfg.BuildStock()
	if err != nil {
		return fmt.Errorf("building stock: %w", err)
	}
	if grid == nil {
		return fmt.Errorf("config has no stock section, nothing to simulate")
	}
	if library.Len() == 0 {
		return fmt.Errorf("config defines no tools")
	}

	logger.Info("machine: %s (%s, %d axes)", m.Name(), m.MachineType(), m.AxisCount())
	logger.Info("tools: %d", library.Len())
	logger.Info("stock: %.1f x %.1f x %.1f at resolution %.2f",
		workpiece.Dimensions().Width(), workpiece.Dimensions().Length(),
		workpiece.Dimensions().Height(), grid.Resolution())

	cutter := library.List()[0]
	tp, err := buildFacingToolpath(m, cutter, workpiece.Dimensions())
	if err != nil {
		return fmt.Errorf("building toolpath: %w", err)
	}
	if err := toolpath.Validate(tp, m); err != nil {
		return fmt.Errorf("toolpath validation: %w", err)
	}
	logger.Info("toolpath: %d moves, %.1f length, %.1fs estimated",
		tp.MoveCount(), tp.TotalLength(), tp.EstimatedMachiningTime())

	job := planner.NewJob("", "facing pass", m, library.List(), workpiece)
	job.SetToolpaths([]*toolpath.Toolpath{tp})
	if err := job.Validate(); err != nil {
		return fmt.Errorf("job validation: %w", err)
	}

	// Simulation setup
	engine := cfg.BuildEngine()
	startPose := geom.Identity()
	if first, ok := tp.FirstState(); ok {
		startPose = geom.Translation(first.Position())
	}
	state := sim.NewSimulationState(grid, startPose, cfg.Simulation.Seed)
	controller := sim.NewStepController(engine, state)

	var registry *metrics.Registry
	var simMetrics *metrics.SimMetrics
	var metricsServer *metrics.Server
	if metricsAddr != "" {
		registry = metrics.NewRegistry()
		simMetrics = metrics.NewSimMetrics(registry)
		metricsServer = metrics.NewServer(registry, metricsAddr)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
		logger.Info("metrics: http://localhost%s/metrics", metricsAddr)
	}

	var statusServer *statusd.Server
	source := statusd.NewSimSource(controller)
	if statusAddr != "" {
		statusServer = statusd.New(statusd.Config{
			Addr:   statusAddr,
			Source: source,
		})
		go func() {
			if err := statusServer.Start(); err != nil {
				logger.Error("status server: %v", err)
			}
		}()
		logger.Info("status: http://localhost%s/server/info", statusAddr)
	}

	if err := controller.Initialize(); err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}
	source.MarkInitialized(true)
	initialVolume := grid.RemainingVolume()

	sweeps := buildSweeps(tp, cutter, grid.Resolution())
	logger.Info("engine: %s, %d sweeps, seed %d",
		engine.Type(), len(sweeps), cfg.Simulation.Seed)

	var removed float64
	var collisions, failures int
	for _, sweep := range sweeps {
		start := time.Now()
		result := controller.StepOnce(sweep)
		if simMetrics != nil {
			simMetrics.RecordStep(engine.Type(), result, time.Since(start).Seconds())
			simMetrics.RecordState(engine.Type(), state)
		}
		removed += result.MaterialRemovedVolume
		if result.CollisionDetected {
			collisions++
		}
		if !result.Succeeded() {
			failures++
			logger.Warn("step %d failed: %v", state.StepCount(), result.Err)
		}
	}

	logger.Info("simulation complete: %d steps, %.3fs simulated",
		state.StepCount(), state.ElapsedTime())
	logger.Info("material removed: %.1f (%.1f%% of stock)",
		removed, 100*removed/initialVolume)
	logger.Info("remaining volume: %.1f", grid.RemainingVolume())
	logger.Info("state hash: %016x", sim.HashState(state))
	if collisions > 0 {
		logger.Warn("collisions detected: %d", collisions)
	}
	if failures > 0 {
		job.SetStatus(planner.StatusError)
		return fmt.Errorf("%d steps failed", failures)
	}
	job.SetStatus(planner.StatusSimulated)

	// With servers enabled, keep serving until interrupted
	if metricsServer != nil || statusServer != nil {
		logger.Info("press Ctrl+C to stop")
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		if statusServer != nil {
			_ = statusServer.Stop()
		}
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(ctx)
		}
	}

	logger.Info("cncsim stopped")
	return nil
}

// buildFacingToolpath generates a serpentine facing pass across the
// stock top: rapid to clearance, spindle start, plunge, alternating
// full-width cuts with stepover, retract, spindle stop.
func buildFacingToolpath(m *machine.Machine, cutter tool.Tool, dims frame.StockDimensions) (*toolpath.Toolpath, error) {
	radius := cutter.Diameter() / 2
	stepover := cutter.Diameter() * stepoverRatio
	if stepover <= 0 {
		return nil, fmt.Errorf("tool %s has no diameter", cutter.ID())
	}

	feed := cutter.MaxFeedrate()
	if feed <= 0 {
		feed = 1000
	}
	rpm := m.Spindle().MaxRPM() * 0.8
	if cutter.MaxRPM() > 0 && cutter.MaxRPM() < m.Spindle().MaxRPM() {
		rpm = cutter.MaxRPM() * 0.8
	}
	if rpm < m.Spindle().MinRPM() {
		rpm = m.Spindle().MinRPM()
	}

	top := dims.Height()
	cutZ := top - depthOfCut
	safeZ := top + clearanceHeight

	tp := toolpath.New("", m.ID())

	state := toolpath.NewState(geom.Vec{X: radius, Y: radius, Z: safeZ}).
		WithTool(cutter.ID()).
		WithFeedRate(feed)

	// Spindle up, then plunge to cutting depth
	spinUp := toolpath.NewSpindleStart(state, rpm)
	tp.Append(spinUp)
	state = spinUp.End()

	plunge := toolpath.NewLinear(state, state.WithPosition(geom.Vec{X: radius, Y: radius, Z: cutZ}))
	tp.Append(plunge)
	state = plunge.End()

	// Serpentine passes along X, stepping over in Y
	xMin, xMax := radius, dims.Width()-radius
	yMax := dims.Length() - radius
	leftToRight := true
	for y := radius; ; y += stepover {
		if y > yMax {
			y = yMax
		}

		x := xMax
		if !leftToRight {
			x = xMin
		}
		cut := toolpath.NewLinear(state, state.WithPosition(geom.Vec{X: x, Y: y, Z: cutZ}))
		tp.Append(cut)
		state = cut.End()
		leftToRight = !leftToRight

		if y >= yMax {
			break
		}
	}

	// Retract and spin down
	retract := toolpath.NewRapid(state, state.WithPosition(geom.Vec{
		X: state.Position().X, Y: state.Position().Y, Z: safeZ,
	}), true)
	tp.Append(retract)
	state = retract.End()
	tp.Append(toolpath.NewSpindleStop(state))

	return tp, nil
}

// buildSweeps converts position-changing moves into tool sweeps.
// Control moves (dwell, spindle, tool change) produce no sweep.
func buildSweeps(tp *toolpath.Toolpath, cutter tool.Tool, resolution float64) []sim.ToolSweep {
	radius := cutter.Diameter() / 2
	length := cutter.TotalLength()

	sweeps := make([]sim.ToolSweep, 0, tp.MoveCount())
	for _, m := range tp.Moves() {
		if m.Type().IsControl() || m.IsZeroLength() {
			continue
		}
		start := geom.Translation(m.Start().Position())
		end := geom.Translation(m.End().Position())
		if m.Type() == toolpath.Rapid {
			sweeps = append(sweeps, sim.NewRapidSweep(start, end, radius, length, resolution))
		} else {
			sweeps = append(sweeps, sim.NewToolSweep(start, end, radius, length, resolution))
		}
	}
	return sweeps
}
