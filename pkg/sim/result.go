// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sim

// StepResult is the outcome of one simulation step. A fresh value is
// produced per step; a non-nil Err means the step did not execute (the
// state was left untouched) unless CollisionDetected is also set, in
// which case the step completed and the caller decides whether to
// continue.
type StepResult struct {
	Err                   error
	MaterialRemovedVolume float64
	CollisionDetected     bool
	ToolContact           bool
	TimeDelta             float64
	CellsProcessed        int
}

// Succeeded reports whether the step executed without error.
func (r StepResult) Succeeded() bool { return r.Err == nil }
