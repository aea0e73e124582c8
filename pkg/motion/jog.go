// Package motion provides step-based, deterministic motion control on top
// of a kinematics implementation: per-axis velocity and acceleration
// limited dynamics, manual jogging, and moves toward a target tool pose.
// Execution is strictly synchronous; callers advance time by calling the
// update methods with an explicit time step.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package motion

import "math"

// JogDirection is the commanded direction of a manual jog.
type JogDirection int

const (
	JogPositive JogDirection = iota
	JogNegative
	JogStop
)

// String returns the direction name.
func (d JogDirection) String() string {
	switch d {
	case JogPositive:
		return "positive"
	case JogNegative:
		return "negative"
	default:
		return "stop"
	}
}

// JogCommand is a manual velocity-based movement command for one axis,
// like holding an arrow key on a control panel. Speed is in units per
// second; a duration or distance limit bounds the motion.
type JogCommand struct {
	axis        int // index into the canonical [X,Y,Z,A,B,C] layout
	direction   JogDirection
	speed       float64
	duration    float64
	distance    float64
	useDistance bool
}

// NewJog creates a duration-limited jog; duration 0 means continuous.
// Negative speed and duration clamp to zero.
func NewJog(axis int, direction JogDirection, speed, duration float64) JogCommand {
	return JogCommand{
		axis:      axis,
		direction: direction,
		speed:     math.Max(speed, 0),
		duration:  math.Max(duration, 0),
	}
}

// NewJogDistance creates a distance-limited jog.
func NewJogDistance(axis int, direction JogDirection, speed, distance float64) JogCommand {
	return JogCommand{
		axis:        axis,
		direction:   direction,
		speed:       math.Max(speed, 0),
		distance:    math.Max(distance, 0),
		useDistance: true,
	}
}

// Axis returns the target axis index.
func (c JogCommand) Axis() int { return c.axis }

// Direction returns the commanded direction.
func (c JogCommand) Direction() JogDirection { return c.direction }

// Speed returns the commanded speed in units per second.
func (c JogCommand) Speed() float64 { return c.speed }

// Duration returns the duration limit; 0 means continuous.
func (c JogCommand) Duration() float64 { return c.duration }

// Distance returns the distance limit.
func (c JogCommand) Distance() float64 { return c.distance }

// UsesDistance reports whether the command is distance-limited.
func (c JogCommand) UsesDistance() bool { return c.useDistance }

// IsStop reports whether the command stops the axis.
func (c JogCommand) IsStop() bool {
	return c.direction == JogStop || c.speed <= 0
}

// TargetVelocity returns the signed velocity to apply to the axis.
func (c JogCommand) TargetVelocity() float64 {
	if c.IsStop() {
		return 0
	}
	if c.direction == JogNegative {
		return -c.speed
	}
	return c.speed
}

// Valid reports whether the command parameters are finite.
func (c JogCommand) Valid() bool {
	ok := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	return ok(c.speed) && ok(c.duration) && ok(c.distance)
}
