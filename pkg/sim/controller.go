// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import "cncsim-go/pkg/errors"

// StepController is a thin synchronous driver pairing one engine with one
// state. It delegates every operation to the engine and caches the last
// StepResult for introspection.
type StepController struct {
	engine Engine
	state  *SimulationState
	last   StepResult
	hasRun bool
}

// NewStepController pairs an engine with the state it will drive.
func NewStepController(engine Engine, state *SimulationState) *StepController {
	return &StepController{engine: engine, state: state}
}

// State returns the driven state.
func (c *StepController) State() *SimulationState { return c.state }

// Engine returns the underlying engine.
func (c *StepController) Engine() Engine { return c.engine }

// Initialize arms the engine for stepping.
func (c *StepController) Initialize() error {
	if c.engine == nil {
		return errors.InvalidArgument("step controller has no engine")
	}
	return c.engine.Initialize(c.state)
}

// StepOnce executes a single step and caches the result.
func (c *StepController) StepOnce(sweep ToolSweep) StepResult {
	if c.engine == nil {
		c.last = StepResult{Err: errors.InvalidArgument("step controller has no engine")}
	} else {
		c.last = c.engine.Step(c.state, sweep)
	}
	c.hasRun = true
	return c.last
}

// StepN repeats the same sweep up to n times, stopping at the first
// failed step. It returns the results of the steps that ran.
func (c *StepController) StepN(sweep ToolSweep, n int) []StepResult {
	var results []StepResult
	for i := 0; i < n; i++ {
		r := c.StepOnce(sweep)
		results = append(results, r)
		if !r.Succeeded() {
			break
		}
	}
	return results
}

// StepEach executes one step per sweep in order, stopping at the first
// failed step.
func (c *StepController) StepEach(sweeps []ToolSweep) []StepResult {
	var results []StepResult
	for _, s := range sweeps {
		r := c.StepOnce(s)
		results = append(results, r)
		if !r.Succeeded() {
			break
		}
	}
	return results
}

// Reset restores the state to initial conditions and clears the cached
// result.
func (c *StepController) Reset() error {
	if c.engine == nil {
		return errors.InvalidArgument("step controller has no engine")
	}
	err := c.engine.Reset(c.state)
	c.last = StepResult{}
	c.hasRun = false
	return err
}

// LastResult returns the cached result of the most recent step and
// whether any step has run since the last reset.
func (c *StepController) LastResult() (StepResult, bool) {
	return c.last, c.hasRun
}

// LastStepSucceeded reports whether the most recent step succeeded.
func (c *StepController) LastStepSucceeded() bool {
	return c.hasRun && c.last.Succeeded()
}

// LastStepHadCollision reports whether the most recent step detected a
// collision.
func (c *StepController) LastStepHadCollision() bool {
	return c.hasRun && c.last.CollisionDetected
}

// LastStepHadError reports whether the most recent step returned an
// error.
func (c *StepController) LastStepHadError() bool {
	return c.hasRun && c.last.Err != nil
}
