// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/machine"
)

// Validation tolerances.
const (
	// ContinuityTolerance is the maximum allowed gap between one move's
	// end position and the next move's start position.
	ContinuityTolerance = 1e-6
	// ArcRadiusTolerance is the maximum allowed difference between an
	// arc's start and end radii.
	ArcRadiusTolerance = 1e-6
	// MinArcRadius is the smallest meaningful arc radius.
	MinArcRadius = 1e-9
)

// Validate checks a toolpath against its structural invariants and, when a
// machine is given, against that machine's axis and spindle limits. It
// returns nil when the path is valid, or an error identifying the first
// offending move by index. Passing a nil machine skips machine-limit
// checks.
func Validate(tp *Toolpath, m *machine.Machine) error {
	if tp == nil {
		return errors.InvalidArgument("toolpath is nil")
	}
	if !tp.Valid() {
		return errors.GeometryInconsistency("toolpath has an empty id or non-finite move data")
	}
	moves := tp.Moves()
	for i, mv := range moves {
		if err := validateMove(i, mv); err != nil {
			return err
		}
		if i > 0 {
			if err := validateContinuity(i, moves[i-1], mv); err != nil {
				return err
			}
		}
		if m != nil {
			if err := validateMachineLimits(i, mv, m); err != nil {
				return err
			}
		}
	}
	if m != nil {
		if err := validateToolConsistency(moves); err != nil {
			return err
		}
	}
	return nil
}

// IsValid reports whether Validate accepts the toolpath.
func IsValid(tp *Toolpath, m *machine.Machine) bool {
	return Validate(tp, m) == nil
}

func validateMove(i int, mv Move) error {
	if mv.IsZeroLength() {
		return errors.MoveError(i, "length",
			mv.Type().String()+" move has identical start and end positions")
	}
	if mv.Type().RequiresFeedrate() && !mv.End().HasFeedRate() {
		return errors.MoveError(i, "feed_rate",
			mv.Type().String()+" move has no feed rate")
	}
	if mv.Type() == Rapid && !mv.RapidAllowed() {
		return errors.MoveError(i, "rapid_allowed",
			"rapid traverse is flagged as not allowed")
	}
	if mv.Type().IsArc() {
		return validateArc(i, mv)
	}
	return nil
}

// validateToolConsistency checks that tool changes name a tool and that
// every cutting move runs with an active tool.
func validateToolConsistency(moves []Move) error {
	for i, mv := range moves {
		if mv.Type() == ToolChange && mv.End().ToolID() == "" {
			return errors.MoveError(i, "tool_id",
				"tool change names no tool")
		}
		if mv.Type().IsCutting() && mv.End().ToolID() == "" {
			return errors.MoveError(i, "tool_id",
				"cutting move has no active tool")
		}
	}
	return nil
}

func validateArc(i int, mv Move) error {
	center, _ := mv.ArcCenter()
	r0 := r3.Norm(r3.Sub(mv.Start().Position(), center))
	r1 := r3.Norm(r3.Sub(mv.End().Position(), center))
	if r0 < MinArcRadius || r1 < MinArcRadius {
		return errors.MoveError(i, "arc_radius",
			"arc radius is below the minimum meaningful radius")
	}
	if math.Abs(r0-r1) > ArcRadiusTolerance {
		return errors.LimitError(i, "arc_radius_mismatch",
			math.Abs(r0-r1), 0, ArcRadiusTolerance)
	}
	return nil
}

func validateContinuity(i int, prev, cur Move) error {
	gap := r3.Norm(r3.Sub(cur.Start().Position(), prev.End().Position()))
	if gap > ContinuityTolerance {
		return errors.LimitError(i, "continuity_gap",
			gap, 0, ContinuityTolerance)
	}
	return nil
}

func validateMachineLimits(i int, mv Move, m *machine.Machine) error {
	for _, st := range []State{mv.Start(), mv.End()} {
		if err := validateStateLimits(i, st, m); err != nil {
			return err
		}
	}
	return nil
}

func validateStateLimits(i int, st State, m *machine.Machine) error {
	pos := st.Position()
	linear := []struct {
		axis  machine.AxisType
		coord float64
	}{
		{machine.AxisX, pos.X},
		{machine.AxisY, pos.Y},
		{machine.AxisZ, pos.Z},
	}
	for _, l := range linear {
		def, ok := m.Axis(l.axis)
		if !ok {
			continue
		}
		if !def.PositionValid(l.coord) {
			return errors.LimitError(i, l.axis.String(),
				l.coord, def.MinPosition(), def.MaxPosition())
		}
	}

	rotary := st.RotaryAxes()
	for j, axis := range []machine.AxisType{machine.AxisA, machine.AxisB, machine.AxisC} {
		def, ok := m.Axis(axis)
		if !ok {
			// Machines without the axis only accept zero there.
			if rotary[j] != 0 {
				return errors.MoveError(i, axis.String(),
					"rotary motion commanded on a machine without that axis")
			}
			continue
		}
		if !def.PositionValid(rotary[j]) {
			return errors.LimitError(i, axis.String(),
				rotary[j], def.MinPosition(), def.MaxPosition())
		}
	}

	if st.SpindleRunning() && !m.Spindle().RPMValid(st.SpindleRPM()) {
		return errors.LimitError(i, "spindle_rpm", st.SpindleRPM(),
			m.Spindle().MinRPM(), m.Spindle().MaxRPM())
	}
	return nil
}
