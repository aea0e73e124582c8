// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import (
	"cncsim-go/pkg/geom"
)

// SimulationState is the mutable aggregate one engine instance steps: an
// exclusively owned material grid, the current tool pose and axis
// positions, a monotonic step counter, an elapsed-time accumulator and a
// deterministic seed. The grid is deep-copied on Clone and never aliased
// between states; only the engine mutates a state, through Initialize,
// Step and Reset.
type SimulationState struct {
	grid          MaterialGrid
	toolPose      geom.Transform
	axisPositions [6]float64 // X, Y, Z, A, B, C
	stepCount     uint64
	elapsedTime   float64
	seed          uint64
	rng           RNG
}

// NewSimulationState creates a state owning the given grid, positioned at
// the given tool pose, with the deterministic seed.
func NewSimulationState(grid MaterialGrid, toolPose geom.Transform, seed uint64) *SimulationState {
	return &SimulationState{
		grid:     grid,
		toolPose: toolPose,
		seed:     seed,
		rng:      NewRNG(seed),
	}
}

// Grid returns the owned material grid.
func (s *SimulationState) Grid() MaterialGrid { return s.grid }

// ToolPose returns the current tool pose.
func (s *SimulationState) ToolPose() geom.Transform { return s.toolPose }

// SetToolPose updates the current tool pose.
func (s *SimulationState) SetToolPose(pose geom.Transform) { s.toolPose = pose }

// AxisPositions returns the current axis positions (X, Y, Z, A, B, C).
func (s *SimulationState) AxisPositions() [6]float64 { return s.axisPositions }

// SetAxisPositions updates the current axis positions.
func (s *SimulationState) SetAxisPositions(positions [6]float64) {
	s.axisPositions = positions
}

// StepCount returns the number of completed steps.
func (s *SimulationState) StepCount() uint64 { return s.stepCount }

// ElapsedTime returns the accumulated simulated time in seconds.
func (s *SimulationState) ElapsedTime() float64 { return s.elapsedTime }

// Seed returns the deterministic seed.
func (s *SimulationState) Seed() uint64 { return s.seed }

// Rand returns the next deterministic sample in [0, 1). The generator
// advances with the state and is restored on reset and copied on clone,
// so identical step sequences consume identical sample sequences.
func (s *SimulationState) Rand() float64 { return s.rng.Float64() }

// Valid reports whether the state can be simulated: a grid is present and
// reports itself valid, and the pose is finite.
func (s *SimulationState) Valid() bool {
	return s != nil && s.grid != nil && s.grid.Valid() && s.toolPose.IsFinite()
}

// Clone returns an independent deep copy, including a deep copy of the
// material grid and the current generator position.
func (s *SimulationState) Clone() *SimulationState {
	out := *s
	if s.grid != nil {
		out.grid = s.grid.Clone()
	}
	return &out
}

// advance records one completed step of duration dt.
func (s *SimulationState) advance(dt float64) {
	s.stepCount++
	s.elapsedTime += dt
}

// rewind clears the step counter and time accumulator and reseeds the
// generator, optionally swapping in a restored grid.
func (s *SimulationState) rewind(grid MaterialGrid) {
	s.stepCount = 0
	s.elapsedTime = 0
	s.rng = NewRNG(s.seed)
	if grid != nil {
		s.grid = grid
	}
}
