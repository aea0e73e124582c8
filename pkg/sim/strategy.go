// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

import "math"

// RemovalStrategy is the engine's variation point: it performs the
// material-removal and collision logic for one sweep against the state's
// grid. The surrounding bookkeeping (lifecycle, step counter, time
// accumulation) is identical for every strategy and lives in the engine.
type RemovalStrategy interface {
	// Name identifies the strategy for logging and cloning.
	Name() string
	// Apply cuts the sweep into the state's grid and returns removed
	// volume, contact/collision flags and the number of samples
	// processed. Apply must be deterministic given the state's generator
	// position.
	Apply(state *SimulationState, sweep ToolSweep) (removed float64, contact, collision bool, cells int)
	// Clone returns an independent strategy instance.
	Clone() RemovalStrategy
}

// BoxRemovalStrategy removes material by subtracting the sweep's
// axis-aligned tool envelope from the grid. Contact is detected by
// sampling the tip path at the sweep resolution, with a deterministic
// jitter drawn from the state's generator. A rapid traverse that contacts
// material is a collision; cutting contact is normal operation.
type BoxRemovalStrategy struct{}

// Name implements RemovalStrategy.
func (BoxRemovalStrategy) Name() string { return "box" }

// Clone implements RemovalStrategy.
func (BoxRemovalStrategy) Clone() RemovalStrategy { return BoxRemovalStrategy{} }

// Apply implements RemovalStrategy.
func (BoxRemovalStrategy) Apply(state *SimulationState, sweep ToolSweep) (float64, bool, bool, int) {
	grid := state.Grid()

	contact, cells := sampleContact(state, sweep)
	collision := contact && sweep.IsRapid()

	var removed float64
	if !sweep.IsRapid() && contact {
		before := grid.RemainingVolume()
		if grid.RemoveRegion(sweep.BoundingBox()) {
			removed = math.Max(before-grid.RemainingVolume(), 0)
		}
	}
	return removed, contact, collision, cells
}

// sampleContact walks the tip path at the sweep resolution and probes
// grid occupancy at each sample, jittered along the path by at most one
// resolution step. The jitter sequence comes from the state's generator,
// so replays are exact.
func sampleContact(state *SimulationState, sweep ToolSweep) (bool, int) {
	grid := state.Grid()
	steps := int(sweep.Distance()/sweep.Resolution()) + 1
	contact := false
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		jitter := (state.Rand() - 0.5) / float64(steps)
		pose := sweep.TransformAt(t + jitter)
		if grid.IsOccupied(pose.Position()) {
			contact = true
		}
	}
	return contact, steps + 1
}

// ContactOnlyStrategy detects contact and collisions without removing
// material. It backs dry-run verification passes.
type ContactOnlyStrategy struct{}

// Name implements RemovalStrategy.
func (ContactOnlyStrategy) Name() string { return "contact_only" }

// Clone implements RemovalStrategy.
func (ContactOnlyStrategy) Clone() RemovalStrategy { return ContactOnlyStrategy{} }

// Apply implements RemovalStrategy.
func (ContactOnlyStrategy) Apply(state *SimulationState, sweep ToolSweep) (float64, bool, bool, int) {
	contact, cells := sampleContact(state, sweep)
	return 0, contact, contact && sweep.IsRapid(), cells
}
