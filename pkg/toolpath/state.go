// Package toolpath models CNC toolpaths as append-only sequences of
// atomic moves built from immutable machine-state snapshots, plus a
// validator enforcing geometric, continuity and machine-limit invariants.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"math"

	"cncsim-go/pkg/geom"
)

// CoordinateMode selects absolute (G90) or incremental (G91) coordinates.
type CoordinateMode int

const (
	Absolute CoordinateMode = iota
	Incremental
)

// String returns the G-code name of the mode.
func (m CoordinateMode) String() string {
	if m == Incremental {
		return "G91"
	}
	return "G90"
}

// CoolantState is the coolant delivery mode.
type CoolantState int

const (
	CoolantOff CoolantState = iota
	CoolantFlood
	CoolantMist
	CoolantThrough
)

// String returns the coolant state name.
func (c CoolantState) String() string {
	switch c {
	case CoolantFlood:
		return "flood"
	case CoolantMist:
		return "mist"
	case CoolantThrough:
		return "through"
	default:
		return "off"
	}
}

// State is an immutable snapshot of machine state at one point in a
// toolpath: position, rotary axes, feed rate, spindle RPM, active tool,
// coolant and coordinate mode. Derived states are produced with the With
// methods; equality is structural.
type State struct {
	position   geom.Vec
	rotary     [3]float64 // A, B, C
	feedRate   float64    // units/min, 0 = not set
	spindleRPM float64    // 0 = stopped
	toolID     string     // empty = no tool
	coolant    CoolantState
	coordMode  CoordinateMode
}

// NewState creates a state at the given position with everything else at
// defaults: no feed, spindle stopped, no tool, coolant off, absolute mode.
func NewState(position geom.Vec) State {
	return State{position: position}
}

// Position returns the linear position (X, Y, Z).
func (s State) Position() geom.Vec { return s.position }

// RotaryAxes returns the rotary positions (A, B, C).
func (s State) RotaryAxes() [3]float64 { return s.rotary }

// A returns the A-axis position.
func (s State) A() float64 { return s.rotary[0] }

// B returns the B-axis position.
func (s State) B() float64 { return s.rotary[1] }

// C returns the C-axis position.
func (s State) C() float64 { return s.rotary[2] }

// FeedRate returns the feed rate in units per minute.
func (s State) FeedRate() float64 { return s.feedRate }

// HasFeedRate reports whether a positive feed rate is set.
func (s State) HasFeedRate() bool { return s.feedRate > 0 }

// SpindleRPM returns the spindle speed.
func (s State) SpindleRPM() float64 { return s.spindleRPM }

// SpindleRunning reports whether the spindle is turning.
func (s State) SpindleRunning() bool { return s.spindleRPM > 0 }

// ToolID returns the active tool identifier, empty when none.
func (s State) ToolID() string { return s.toolID }

// HasTool reports whether a tool is active.
func (s State) HasTool() bool { return s.toolID != "" }

// Coolant returns the coolant state.
func (s State) Coolant() CoolantState { return s.coolant }

// CoordinateMode returns the coordinate mode.
func (s State) CoordinateMode() CoordinateMode { return s.coordMode }

// WithPosition returns a copy with a new linear position.
func (s State) WithPosition(p geom.Vec) State {
	s.position = p
	return s
}

// WithRotary returns a copy with new rotary positions.
func (s State) WithRotary(a, b, c float64) State {
	s.rotary = [3]float64{a, b, c}
	return s
}

// WithFeedRate returns a copy with a new feed rate; negatives clamp to
// zero.
func (s State) WithFeedRate(rate float64) State {
	s.feedRate = math.Max(rate, 0)
	return s
}

// WithSpindleRPM returns a copy with a new spindle speed; negatives clamp
// to zero.
func (s State) WithSpindleRPM(rpm float64) State {
	s.spindleRPM = math.Max(rpm, 0)
	return s
}

// WithTool returns a copy with a new active tool.
func (s State) WithTool(toolID string) State {
	s.toolID = toolID
	return s
}

// WithCoolant returns a copy with a new coolant state.
func (s State) WithCoolant(c CoolantState) State {
	s.coolant = c
	return s
}

// WithCoordinateMode returns a copy with a new coordinate mode.
func (s State) WithCoordinateMode(m CoordinateMode) State {
	s.coordMode = m
	return s
}

// Valid reports whether all numeric fields are finite.
func (s State) Valid() bool {
	return geom.FiniteVec(s.position) &&
		finite(s.rotary[0]) && finite(s.rotary[1]) && finite(s.rotary[2]) &&
		finite(s.feedRate) && finite(s.spindleRPM)
}

// Equal reports structural equality.
func (s State) Equal(other State) bool {
	return s == other
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
