// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"math"
)

// SpindleDirection is the spindle rotation direction.
type SpindleDirection int

const (
	Clockwise SpindleDirection = iota
	CounterClockwise
)

// String returns the conventional short name for the direction.
func (d SpindleDirection) String() string {
	if d == CounterClockwise {
		return "CCW"
	}
	return "CW"
}

// Spindle describes spindle capability: RPM range, power rating in
// kilowatts and default rotation direction. Construction clamps negative
// inputs and swaps an inverted RPM range.
type Spindle struct {
	maxRPM    float64
	minRPM    float64
	power     float64
	direction SpindleDirection
}

// NewSpindle creates a spindle definition.
func NewSpindle(maxRPM, minRPM, power float64, direction SpindleDirection) Spindle {
	if maxRPM < 0 {
		maxRPM = 0
	}
	if minRPM < 0 {
		minRPM = 0
	}
	if power < 0 {
		power = 0
	}
	if minRPM > maxRPM {
		minRPM, maxRPM = maxRPM, minRPM
	}
	return Spindle{maxRPM: maxRPM, minRPM: minRPM, power: power, direction: direction}
}

// MaxRPM returns the maximum spindle speed.
func (s Spindle) MaxRPM() float64 { return s.maxRPM }

// MinRPM returns the minimum spindle speed.
func (s Spindle) MinRPM() float64 { return s.minRPM }

// RPMRange returns max - min.
func (s Spindle) RPMRange() float64 { return s.maxRPM - s.minRPM }

// Power returns the power rating in kilowatts.
func (s Spindle) Power() float64 { return s.power }

// Direction returns the default rotation direction.
func (s Spindle) Direction() SpindleDirection { return s.direction }

// RPMValid reports whether an RPM lies inside the spindle range.
func (s Spindle) RPMValid(rpm float64) bool {
	return rpm >= s.minRPM && rpm <= s.maxRPM
}

// ClampRPM clamps an RPM to the spindle range.
func (s Spindle) ClampRPM(rpm float64) float64 {
	return math.Max(s.minRPM, math.Min(s.maxRPM, rpm))
}

// EstimatedTorque returns a constant-power torque estimate in Nm at the
// given RPM, zero outside the valid range. A measured torque curve would
// replace this when available.
func (s Spindle) EstimatedTorque(rpm float64) float64 {
	if rpm <= 0 || !s.RPMValid(rpm) {
		return 0
	}
	angularVelocity := rpm * 2 * math.Pi / 60
	if angularVelocity <= 0 {
		return 0
	}
	return (s.power * 1000) / angularVelocity
}

// Valid reports whether the spindle definition is self-consistent.
func (s Spindle) Valid() bool {
	return s.maxRPM > 0 &&
		s.minRPM >= 0 &&
		s.minRPM <= s.maxRPM &&
		s.power >= 0 &&
		!math.IsInf(s.maxRPM, 0) && !math.IsNaN(s.maxRPM) &&
		!math.IsInf(s.minRPM, 0) && !math.IsNaN(s.minRPM) &&
		!math.IsInf(s.power, 0) && !math.IsNaN(s.power)
}
