// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"cncsim-go/pkg/sim"
)

// SimMetrics bundles the simulation core's metric set: step throughput,
// removed material, collisions, errors and per-step latency, labeled by
// engine type.
type SimMetrics struct {
	StepsTotal           *Counter
	StepErrorsTotal      *Counter
	CollisionsTotal      *Counter
	MaterialRemovedTotal *Counter
	RemainingVolume      *Gauge
	SimulatedTime        *Gauge
	StepDuration         *Histogram
}

// NewSimMetrics creates the metric set and registers it in the registry.
func NewSimMetrics(reg *Registry) *SimMetrics {
	m := &SimMetrics{
		StepsTotal: NewCounter("cncsim_steps_total",
			"Total simulation steps executed"),
		StepErrorsTotal: NewCounter("cncsim_step_errors_total",
			"Total simulation steps that returned an error"),
		CollisionsTotal: NewCounter("cncsim_collisions_total",
			"Total steps that detected a collision"),
		MaterialRemovedTotal: NewCounter("cncsim_material_removed_total",
			"Total material volume removed, in cubic units"),
		RemainingVolume: NewGauge("cncsim_remaining_volume",
			"Material volume still present, in cubic units"),
		SimulatedTime: NewGauge("cncsim_simulated_time_seconds",
			"Simulated time accumulated since initialization"),
		StepDuration: NewHistogram("cncsim_step_duration_seconds",
			"Wall-clock duration of one simulation step", DefaultBuckets()),
	}
	reg.MustRegister(m.StepsTotal)
	reg.MustRegister(m.StepErrorsTotal)
	reg.MustRegister(m.CollisionsTotal)
	reg.MustRegister(m.MaterialRemovedTotal)
	reg.MustRegister(m.RemainingVolume)
	reg.MustRegister(m.SimulatedTime)
	reg.MustRegister(m.StepDuration)
	return m
}

// RecordStep accounts one step result under the engine type label.
// wallSeconds is the measured wall-clock duration of the step.
func (m *SimMetrics) RecordStep(engineType string, r sim.StepResult, wallSeconds float64) {
	labels := Labels{"engine": engineType}
	m.StepsTotal.Inc(labels)
	if r.Err != nil {
		m.StepErrorsTotal.Inc(labels)
	}
	if r.CollisionDetected {
		m.CollisionsTotal.Inc(labels)
	}
	if r.MaterialRemovedVolume > 0 {
		m.MaterialRemovedTotal.Add(labels, r.MaterialRemovedVolume)
	}
	m.StepDuration.Observe(labels, wallSeconds)
}

// RecordState updates the state-derived gauges.
func (m *SimMetrics) RecordState(engineType string, state *sim.SimulationState) {
	labels := Labels{"engine": engineType}
	m.SimulatedTime.Set(labels, state.ElapsedTime())
	if g := state.Grid(); g != nil {
		m.RemainingVolume.Set(labels, g.RemainingVolume())
	}
}
