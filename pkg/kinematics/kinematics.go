// Package kinematics provides forward and inverse kinematics for CNC
// machine configurations.
//
// Kinematics implementations are stateless: axis positions are passed in
// explicitly and every calculation is deterministic. Positions use a fixed
// six-element layout [X, Y, Z, A, B, C]; axes a machine does not have are
// ignored on input and zero on output.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package kinematics

import (
	"cncsim-go/pkg/geom"
)

// Axis indices into the canonical six-element position array.
const (
	AxisX = iota
	AxisY
	AxisZ
	AxisA
	AxisB
	AxisC
	NumAxes
)

// AxisName returns the canonical letter for an axis index.
func AxisName(axis int) string {
	names := [NumAxes]string{"X", "Y", "Z", "A", "B", "C"}
	if axis < 0 || axis >= NumAxes {
		return "?"
	}
	return names[axis]
}

// AxisConfig reports which axes a kinematics implementation drives.
type AxisConfig struct {
	HasX, HasY, HasZ bool
	HasA, HasB, HasC bool
}

// Count returns the number of configured axes.
func (c AxisConfig) Count() int {
	n := 0
	for _, has := range [NumAxes]bool{c.HasX, c.HasY, c.HasZ, c.HasA, c.HasB, c.HasC} {
		if has {
			n++
		}
	}
	return n
}

// Has reports whether the axis at the given index is configured.
func (c AxisConfig) Has(axis int) bool {
	switch axis {
	case AxisX:
		return c.HasX
	case AxisY:
		return c.HasY
	case AxisZ:
		return c.HasZ
	case AxisA:
		return c.HasA
	case AxisB:
		return c.HasB
	case AxisC:
		return c.HasC
	default:
		return false
	}
}

// ForwardResult is the outcome of a forward kinematics calculation.
type ForwardResult struct {
	Pose          geom.Transform // tool pose in machine coordinates
	AxisPositions [6]float64
	Valid         bool
}

// InverseResult is one candidate solution from an inverse kinematics
// calculation. The pose is recomputed through forward kinematics so callers
// can verify round-trip consistency.
type InverseResult struct {
	AxisPositions [6]float64
	Pose          geom.Transform
	Valid         bool
}

// Kinematics converts between axis positions and tool poses for one
// machine configuration.
type Kinematics interface {
	// Type returns the kinematics type name (e.g. "cartesian3axis").
	Type() string

	// AxisConfig reports which axes this machine drives.
	AxisConfig() AxisConfig

	// AxisLimits returns [min, max] travel per axis; unused axes report
	// [0, 0].
	AxisLimits() [6][2]float64

	// Forward computes the tool pose for the given axis positions. The
	// result is invalid when any driven axis is out of its limits.
	Forward(axisPositions [6]float64) ForwardResult

	// Inverse computes candidate axis positions for a target tool pose.
	// Returns an empty slice when the pose is unreachable. Solution
	// ordering is deterministic, and every returned solution has been
	// verified through Forward before being marked valid.
	Inverse(targetPose geom.Transform) []InverseResult

	// PoseReachable reports whether a target pose has a valid solution.
	PoseReachable(targetPose geom.Transform) bool

	// WorkEnvelope returns a conservative AABB of reachable tool
	// positions derived from axis limits.
	WorkEnvelope() geom.AABB

	// Clone returns an independent copy.
	Clone() Kinematics

	// Valid reports whether the configuration is self-consistent.
	Valid() bool
}

// firstSolutionReachable is the shared PoseReachable policy: a pose is
// reachable when the first inverse solution is valid.
func firstSolutionReachable(k Kinematics, targetPose geom.Transform) bool {
	solutions := k.Inverse(targetPose)
	return len(solutions) > 0 && solutions[0].Valid
}
