// Step controller wiring for the status server.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package statusd

import (
	"sync"

	"cncsim-go/pkg/sim"
)

// SimSource exposes a step controller as a StatusSource. All methods
// are safe for concurrent use; stepping and status queries may come
// from different goroutines.
type SimSource struct {
	mu          sync.RWMutex
	controller  *sim.StepController
	initialized bool
	adapter     *Adapter
}

// NewSimSource builds a source over the controller and registers the
// standard objects: engine, simulation_state, last_step.
func NewSimSource(controller *sim.StepController) *SimSource {
	s := &SimSource{
		controller: controller,
		adapter:    NewAdapter(),
	}
	s.adapter.RegisterProvider("engine", s.engineStatus)
	s.adapter.RegisterProvider("simulation_state", s.stateStatus)
	s.adapter.RegisterProvider("last_step", s.lastStepStatus)
	s.adapter.SetEngineStateFunc(s.EngineState)
	return s
}

// Controller returns the wrapped step controller.
func (s *SimSource) Controller() *sim.StepController {
	return s.controller
}

// MarkInitialized records that the engine has been initialized. The
// caller drives the engine lifecycle; the source only reports it.
func (s *SimSource) MarkInitialized(ok bool) {
	s.mu.Lock()
	s.initialized = ok
	s.mu.Unlock()
}

// ObjectsList implements StatusSource.
func (s *SimSource) ObjectsList() []string {
	return s.adapter.ObjectsList()
}

// ObjectStatus implements StatusSource.
func (s *SimSource) ObjectStatus(name string, attrs []string) map[string]any {
	return s.adapter.ObjectStatus(name, attrs)
}

// EngineState implements StatusSource.
func (s *SimSource) EngineState() string {
	s.mu.RLock()
	initialized := s.initialized
	s.mu.RUnlock()

	if !initialized {
		return "uninitialized"
	}
	if s.controller.LastStepHadError() {
		return "error"
	}
	return "ready"
}

func (s *SimSource) engineStatus(attrs []string) map[string]any {
	status := map[string]any{
		"type":  s.controller.Engine().Type(),
		"state": s.EngineState(),
	}
	return FilterStatus(status, attrs)
}

func (s *SimSource) stateStatus(attrs []string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.controller.State()
	pos := state.ToolPose().Position()
	axes := state.AxisPositions()

	status := map[string]any{
		"step_count":   state.StepCount(),
		"elapsed_time": state.ElapsedTime(),
		"seed":         state.Seed(),
		"position":     []float64{pos.X, pos.Y, pos.Z},
		"axes":         axes[:],
	}
	if grid := state.Grid(); grid != nil {
		status["remaining_volume"] = grid.RemainingVolume()
	}
	return FilterStatus(status, attrs)
}

func (s *SimSource) lastStepStatus(attrs []string) map[string]any {
	result, ok := s.controller.LastResult()
	status := map[string]any{
		"available": ok,
	}
	if ok {
		status["succeeded"] = result.Succeeded()
		status["collision"] = result.CollisionDetected
		status["tool_contact"] = result.ToolContact
		status["material_removed"] = result.MaterialRemovedVolume
		status["time_delta"] = result.TimeDelta
		status["cells_processed"] = result.CellsProcessed
		if result.Err != nil {
			status["error"] = result.Err.Error()
		}
	}
	return FilterStatus(status, attrs)
}
