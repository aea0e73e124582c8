// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package motion

import "math"

// AxisState is the dynamic state of one controlled axis: position and
// velocity integrated under hard travel limits, a velocity cap and an
// acceleration cap. Travel limits are hard stops; hitting one zeroes the
// velocity.
type AxisState struct {
	axis     int
	min, max float64
	maxVel   float64
	maxAccel float64
	position float64
	velocity float64
}

// NewAxisState creates an axis at position 0 with the given limits. A
// zero velocity cap disables the axis: updates leave it parked.
func NewAxisState(axis int, min, max, maxVel, maxAccel float64) AxisState {
	if min > max {
		min, max = max, min
	}
	return AxisState{
		axis:     axis,
		min:      min,
		max:      max,
		maxVel:   math.Max(maxVel, 0),
		maxAccel: math.Max(maxAccel, 0),
	}
}

// Axis returns the axis index.
func (a AxisState) Axis() int { return a.axis }

// Position returns the current position.
func (a AxisState) Position() float64 { return a.position }

// Velocity returns the current velocity.
func (a AxisState) Velocity() float64 { return a.velocity }

// MinLimit returns the lower travel limit.
func (a AxisState) MinLimit() float64 { return a.min }

// MaxLimit returns the upper travel limit.
func (a AxisState) MaxLimit() float64 { return a.max }

// MaxVelocity returns the velocity cap.
func (a AxisState) MaxVelocity() float64 { return a.maxVel }

// SetPosition places the axis at a position, clamped to limits, with
// zero velocity.
func (a *AxisState) SetPosition(pos float64) {
	a.position = math.Max(a.min, math.Min(a.max, pos))
	a.velocity = 0
}

// Update advances the axis by dt toward the target velocity, limited by
// the acceleration cap, then integrates position under the hard travel
// limits.
func (a *AxisState) Update(targetVelocity, dt float64) {
	if dt <= 0 || a.maxVel == 0 {
		return
	}
	targetVelocity = math.Max(-a.maxVel, math.Min(a.maxVel, targetVelocity))

	dv := targetVelocity - a.velocity
	if a.maxAccel > 0 {
		maxDv := a.maxAccel * dt
		dv = math.Max(-maxDv, math.Min(maxDv, dv))
	}
	a.velocity += dv

	a.position += a.velocity * dt
	if a.position <= a.min {
		a.position = a.min
		a.velocity = 0
	} else if a.position >= a.max {
		a.position = a.max
		a.velocity = 0
	}
}

// Reset returns the axis to position 0 (clamped into limits) at rest.
func (a *AxisState) Reset() {
	a.SetPosition(0)
}

// WithinLimits reports whether the position is inside the travel limits.
func (a AxisState) WithinLimits() bool {
	return a.position >= a.min && a.position <= a.max
}

// Valid reports whether the limits are finite and ordered.
func (a AxisState) Valid() bool {
	ok := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	return ok(a.min) && ok(a.max) && a.min <= a.max && ok(a.maxVel) && ok(a.maxAccel)
}
