// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import (
	"fmt"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/log"
)

// DefaultTimeStep is the fixed simulated duration of one step in seconds.
const DefaultTimeStep = 0.001

// Clock supplies the fixed time step one simulation step advances by.
type Clock struct {
	dt float64
}

// NewClock creates a clock; non-positive steps fall back to
// DefaultTimeStep.
func NewClock(dt float64) Clock {
	if dt <= 0 {
		dt = DefaultTimeStep
	}
	return Clock{dt: dt}
}

// TimeStep returns the step duration in seconds.
func (c Clock) TimeStep() float64 { return c.dt }

// Engine is the simulation stepping contract exposed to job and UI
// layers. Implementations are single-threaded; one engine drives one
// state at a time.
type Engine interface {
	// Initialize validates the state and arms the engine for stepping.
	Initialize(state *SimulationState) error
	// Step executes one step against the state using the sweep.
	Step(state *SimulationState, sweep ToolSweep) StepResult
	// Reset restores the state to initial conditions and disarms the
	// engine.
	Reset(state *SimulationState) error
	// Clone returns an independently configured engine with no shared
	// mutable state.
	Clone() Engine
	// Type identifies the engine configuration.
	Type() string
	// Valid reports whether the engine is usable.
	Valid() bool
}

type phase int

const (
	phaseUninitialized phase = iota
	phaseInitialized
)

// RemovalEngine is the standard engine: fixed step bookkeeping with the
// removal/collision logic delegated to a RemovalStrategy. At Initialize
// it snapshots the state's grid so Reset can restore the original stock.
type RemovalEngine struct {
	strategy RemovalStrategy
	clock    Clock
	phase    phase
	snapshot MaterialGrid
	logger   *log.Logger
}

// NewRemovalEngine creates an engine with the given strategy and clock. A
// nil strategy defaults to BoxRemovalStrategy.
func NewRemovalEngine(strategy RemovalStrategy, clock Clock) *RemovalEngine {
	if strategy == nil {
		strategy = BoxRemovalStrategy{}
	}
	return &RemovalEngine{
		strategy: strategy,
		clock:    clock,
		logger:   log.GetLogger("sim"),
	}
}

// Type implements Engine.
func (e *RemovalEngine) Type() string {
	return fmt.Sprintf("removal/%s", e.strategy.Name())
}

// Valid implements Engine.
func (e *RemovalEngine) Valid() bool {
	return e != nil && e.strategy != nil && e.clock.TimeStep() > 0
}

// Initialize implements Engine. The state's step counter and time
// accumulator are cleared and the grid is snapshotted for Reset.
func (e *RemovalEngine) Initialize(state *SimulationState) error {
	if !state.Valid() {
		return errors.ResourceInvalid("simulation_state",
			"material grid missing or invalid")
	}
	e.snapshot = state.Grid().Clone()
	state.rewind(nil)
	e.phase = phaseInitialized
	e.logger.Debug("engine initialized: strategy=%s dt=%g", e.strategy.Name(), e.clock.TimeStep())
	return nil
}

// Step implements Engine. Calling Step before Initialize returns a
// non-recoverable InvalidState error and leaves the state untouched. A
// detected collision completes the step and is reported as a recoverable
// error alongside the collision flag.
func (e *RemovalEngine) Step(state *SimulationState, sweep ToolSweep) StepResult {
	if e.phase != phaseInitialized {
		return StepResult{Err: errors.InvalidState("step called before initialize")}
	}
	if !state.Valid() {
		return StepResult{Err: errors.ResourceInvalid("simulation_state",
			"material grid missing or invalid")}
	}
	if !sweep.Valid() {
		return StepResult{Err: errors.InvalidArgument("tool sweep has non-finite poses or parameters")}
	}

	removed, contact, collision, cells := e.strategy.Apply(state, sweep)

	dt := e.clock.TimeStep()
	state.advance(dt)
	state.SetToolPose(sweep.End())
	p := sweep.End().Position()
	state.SetAxisPositions([6]float64{p.X, p.Y, p.Z, 0, 0, 0})

	result := StepResult{
		MaterialRemovedVolume: removed,
		CollisionDetected:     collision,
		ToolContact:           contact,
		TimeDelta:             dt,
		CellsProcessed:        cells,
	}
	if collision {
		result.Err = errors.Collision("tool contacted material during rapid traverse")
		e.logger.Warn("collision at step %d, pose (%.3f, %.3f, %.3f)",
			state.StepCount(), p.X, p.Y, p.Z)
	}
	return result
}

// Reset implements Engine. The state's counters are cleared and its grid
// is restored from the Initialize-time snapshot; the engine returns to
// the uninitialized phase.
func (e *RemovalEngine) Reset(state *SimulationState) error {
	if state == nil {
		return errors.InvalidArgument("simulation state is nil")
	}
	var restored MaterialGrid
	if e.snapshot != nil {
		restored = e.snapshot.Clone()
	}
	state.rewind(restored)
	e.phase = phaseUninitialized
	e.snapshot = nil
	return nil
}

// Clone implements Engine. The clone starts uninitialized and shares no
// mutable state with the original.
func (e *RemovalEngine) Clone() Engine {
	return NewRemovalEngine(e.strategy.Clone(), e.clock)
}
