// Package machine models CNC machine definitions: axes, spindle, tool
// changer and the composed machine used for validation and simulation.
// Definitions are immutable after construction and describe capability,
// not runtime state.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"math"
)

// AxisType identifies a machine axis.
type AxisType int

const (
	AxisX AxisType = iota // linear X
	AxisY                 // linear Y
	AxisZ                 // linear Z
	AxisA                 // rotary about X
	AxisB                 // rotary about Y
	AxisC                 // rotary about Z
	AxisCustom
)

// String returns the axis letter.
func (t AxisType) String() string {
	switch t {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	case AxisA:
		return "A"
	case AxisB:
		return "B"
	case AxisC:
		return "C"
	default:
		return "custom"
	}
}

// IsLinear reports whether the axis is a linear axis.
func (t AxisType) IsLinear() bool {
	return t == AxisX || t == AxisY || t == AxisZ
}

// IsRotary reports whether the axis is a rotary axis.
func (t AxisType) IsRotary() bool {
	return t == AxisA || t == AxisB || t == AxisC
}

// DefaultResolution is the encoder step size assumed when none is given.
const DefaultResolution = 0.001

// AxisDefinition describes one axis: travel limits, velocity and
// acceleration caps, and encoder resolution. Positions are machine units
// (mm for linear axes, degrees for rotary); velocity is units per second.
// Construction swaps inverted limits and clamps non-positive caps.
type AxisDefinition struct {
	axisType        AxisType
	minPosition     float64
	maxPosition     float64
	maxVelocity     float64
	maxAcceleration float64
	resolution      float64
}

// NewAxisDefinition creates an axis definition with the construction
// normalizations applied.
func NewAxisDefinition(axisType AxisType, minPos, maxPos, maxVel, maxAccel, resolution float64) AxisDefinition {
	if minPos > maxPos {
		minPos, maxPos = maxPos, minPos
	}
	if maxVel <= 0 {
		maxVel = 0
	}
	if maxAccel <= 0 {
		maxAccel = 0
	}
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return AxisDefinition{
		axisType:        axisType,
		minPosition:     minPos,
		maxPosition:     maxPos,
		maxVelocity:     maxVel,
		maxAcceleration: maxAccel,
		resolution:      resolution,
	}
}

// Type returns the axis type.
func (a AxisDefinition) Type() AxisType { return a.axisType }

// MinPosition returns the lower travel limit.
func (a AxisDefinition) MinPosition() float64 { return a.minPosition }

// MaxPosition returns the upper travel limit.
func (a AxisDefinition) MaxPosition() float64 { return a.maxPosition }

// TravelRange returns max - min.
func (a AxisDefinition) TravelRange() float64 { return a.maxPosition - a.minPosition }

// MaxVelocity returns the velocity cap in units per second.
func (a AxisDefinition) MaxVelocity() float64 { return a.maxVelocity }

// MaxAcceleration returns the acceleration cap in units per second squared.
func (a AxisDefinition) MaxAcceleration() float64 { return a.maxAcceleration }

// Resolution returns the encoder step size.
func (a AxisDefinition) Resolution() float64 { return a.resolution }

// PositionValid reports whether a position lies inside the travel limits.
func (a AxisDefinition) PositionValid(position float64) bool {
	return position >= a.minPosition && position <= a.maxPosition
}

// ClampPosition clamps a position to the travel limits.
func (a AxisDefinition) ClampPosition(position float64) float64 {
	return math.Max(a.minPosition, math.Min(a.maxPosition, position))
}

// IsLinear reports whether the axis is linear.
func (a AxisDefinition) IsLinear() bool { return a.axisType.IsLinear() }

// IsRotary reports whether the axis is rotary.
func (a AxisDefinition) IsRotary() bool { return a.axisType.IsRotary() }

// Valid reports whether the definition is self-consistent: min strictly
// below max, positive caps and everything finite.
func (a AxisDefinition) Valid() bool {
	for _, v := range []float64{a.minPosition, a.maxPosition, a.maxVelocity, a.maxAcceleration, a.resolution} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return a.minPosition < a.maxPosition &&
		a.maxVelocity > 0 &&
		a.maxAcceleration > 0 &&
		a.resolution > 0
}
