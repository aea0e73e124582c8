// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"cncsim-go/pkg/geom"
)

// MoveType classifies a toolpath move.
type MoveType int

const (
	Rapid MoveType = iota
	Linear
	ArcCW
	ArcCCW
	Dwell
	ToolChange
	SpindleStart
	SpindleStop
)

// String returns the move type name.
func (t MoveType) String() string {
	switch t {
	case Rapid:
		return "rapid"
	case Linear:
		return "linear"
	case ArcCW:
		return "arc_cw"
	case ArcCCW:
		return "arc_ccw"
	case Dwell:
		return "dwell"
	case ToolChange:
		return "tool_change"
	case SpindleStart:
		return "spindle_start"
	case SpindleStop:
		return "spindle_stop"
	default:
		return "unknown"
	}
}

// IsCutting reports whether the move can remove material.
func (t MoveType) IsCutting() bool {
	return t == Linear || t == ArcCW || t == ArcCCW
}

// IsArc reports whether the move follows a circular arc.
func (t MoveType) IsArc() bool {
	return t == ArcCW || t == ArcCCW
}

// RequiresFeedrate reports whether the move needs a positive feed rate.
func (t MoveType) RequiresFeedrate() bool {
	return t.IsCutting()
}

// IsControl reports whether the move changes machine state without
// commanding motion.
func (t MoveType) IsControl() bool {
	return t == Dwell || t == ToolChange || t == SpindleStart || t == SpindleStop
}

// DefaultRapidRate is the traverse rate, in units per minute, assumed for
// rapid moves when estimating time.
const DefaultRapidRate = 10000.0

// DefaultToolChangeTime is the assumed tool change duration in seconds.
const DefaultToolChangeTime = 5.0

// spindleTransientTime is the assumed spindle spin-up/down time in seconds.
const spindleTransientTime = 0.1

// zeroLengthSq is the squared displacement below which a motion move
// counts as zero-length.
const zeroLengthSq = 1e-12

// Move is one atomic toolpath element: a motion or control operation with
// full machine-state snapshots at its start and end. Moves are built only
// through the typed constructors, which keep the end state consistent with
// the operation (a tool change ends with the new tool active, a spindle
// stop ends at zero RPM).
type Move struct {
	moveType     MoveType
	start        State
	end          State
	arcCenter    geom.Vec
	dwellSeconds float64
	rapidAllowed bool
}

// NewRapid creates a rapid traverse between two states. rapidAllowed is
// the safety flag: a rapid built with it false is rejected by Validate,
// which lets planners mark traverses through restricted regions without
// losing the move.
func NewRapid(start, end State, rapidAllowed bool) Move {
	return Move{moveType: Rapid, start: start, end: end, rapidAllowed: rapidAllowed}
}

// NewLinear creates a linear feed move between two states.
func NewLinear(start, end State) Move {
	return Move{moveType: Linear, start: start, end: end}
}

// NewArc creates a circular arc move. moveType must be ArcCW or ArcCCW;
// center is the arc center in the same coordinates as the endpoint
// positions.
func NewArc(moveType MoveType, start, end State, center geom.Vec) Move {
	return Move{moveType: moveType, start: start, end: end, arcCenter: center}
}

// NewDwell creates a pause of the given duration. Negative durations clamp
// to zero. Start and end states are identical.
func NewDwell(state State, seconds float64) Move {
	return Move{
		moveType:     Dwell,
		start:        state,
		end:          state,
		dwellSeconds: math.Max(seconds, 0),
	}
}

// NewToolChange creates a tool change. The end state carries the new tool.
func NewToolChange(state State, newToolID string) Move {
	return Move{
		moveType: ToolChange,
		start:    state,
		end:      state.WithTool(newToolID),
	}
}

// NewSpindleStart creates a spindle start at the given speed. The end
// state carries the new RPM.
func NewSpindleStart(state State, rpm float64) Move {
	return Move{
		moveType: SpindleStart,
		start:    state,
		end:      state.WithSpindleRPM(rpm),
	}
}

// NewSpindleStop creates a spindle stop. The end state is at zero RPM.
func NewSpindleStop(state State) Move {
	return Move{
		moveType: SpindleStop,
		start:    state,
		end:      state.WithSpindleRPM(0),
	}
}

// Type returns the move type.
func (m Move) Type() MoveType { return m.moveType }

// Start returns the machine state at the start of the move.
func (m Move) Start() State { return m.start }

// End returns the machine state at the end of the move.
func (m Move) End() State { return m.end }

// ArcCenter returns the arc center and whether the move is an arc.
func (m Move) ArcCenter() (geom.Vec, bool) {
	return m.arcCenter, m.moveType.IsArc()
}

// DwellSeconds returns the dwell duration, zero for non-dwell moves.
func (m Move) DwellSeconds() float64 { return m.dwellSeconds }

// RapidAllowed reports whether the move may traverse at rapid rate.
func (m Move) RapidAllowed() bool { return m.rapidAllowed }

// Length returns the path length of the move. Control moves have zero
// length; arcs use the swept angle around the center.
func (m Move) Length() float64 {
	if m.moveType.IsControl() {
		return 0
	}
	if m.moveType.IsArc() {
		return m.arcLength()
	}
	return r3.Norm(r3.Sub(m.end.Position(), m.start.Position()))
}

func (m Move) arcLength() float64 {
	v0 := r3.Sub(m.start.Position(), m.arcCenter)
	v1 := r3.Sub(m.end.Position(), m.arcCenter)
	r0 := r3.Norm(v0)
	r1 := r3.Norm(v1)
	if r0 <= 0 || r1 <= 0 {
		return 0
	}
	cos := r3.Dot(v0, v1) / (r0 * r1)
	cos = math.Max(-1, math.Min(1, cos))
	return r0 * math.Acos(cos)
}

// EstimatedTime returns the estimated duration of the move in seconds.
// Rapids use DefaultRapidRate; feed moves use the start state's feed rate.
func (m Move) EstimatedTime() float64 {
	switch m.moveType {
	case Dwell:
		return m.dwellSeconds
	case ToolChange:
		return DefaultToolChangeTime
	case SpindleStart, SpindleStop:
		return spindleTransientTime
	}
	length := m.Length()
	if length <= 0 {
		return 0
	}
	rate := m.start.FeedRate()
	if m.moveType == Rapid {
		rate = DefaultRapidRate
	}
	if rate <= 0 {
		return 0
	}
	return length / rate * 60
}

// IsZeroLength reports whether a motion move has negligible displacement.
// Control moves are never zero-length: they always have an effect.
func (m Move) IsZeroLength() bool {
	if m.moveType.IsControl() {
		return false
	}
	d := r3.Sub(m.end.Position(), m.start.Position())
	return r3.Dot(d, d) < zeroLengthSq
}

// Valid reports whether both states are finite and, for arcs, the center
// is finite.
func (m Move) Valid() bool {
	if !m.start.Valid() || !m.end.Valid() {
		return false
	}
	if m.moveType.IsArc() && !geom.FiniteVec(m.arcCenter) {
		return false
	}
	return true
}
