// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"cncsim-go/pkg/geom"
	"cncsim-go/pkg/tool"
)

// Machine is a complete machine definition: axes, spindle, tool changer
// and work envelope. Machines are immutable after construction, safe for
// concurrent read access and compared by identifier.
type Machine struct {
	id                 string
	name               string
	axes               map[AxisType]AxisDefinition
	spindle            Spindle
	toolChanger        ToolChanger
	workEnvelope       geom.AABB
	supportedToolTypes []tool.Type
}

// New creates a machine definition. The axes map is copied.
func New(id, name string, axes map[AxisType]AxisDefinition, spindle Spindle,
	toolChanger ToolChanger, workEnvelope geom.AABB, supportedToolTypes []tool.Type) *Machine {
	axesCopy := make(map[AxisType]AxisDefinition, len(axes))
	for t, a := range axes {
		axesCopy[t] = a
	}
	return &Machine{
		id:                 id,
		name:               name,
		axes:               axesCopy,
		spindle:            spindle,
		toolChanger:        toolChanger,
		workEnvelope:       workEnvelope,
		supportedToolTypes: append([]tool.Type(nil), supportedToolTypes...),
	}
}

// ID returns the machine identifier.
func (m *Machine) ID() string { return m.id }

// Name returns the display name.
func (m *Machine) Name() string { return m.name }

// Axis looks up an axis definition.
func (m *Machine) Axis(t AxisType) (AxisDefinition, bool) {
	a, ok := m.axes[t]
	return a, ok
}

// HasAxis reports whether the machine has the given axis.
func (m *Machine) HasAxis(t AxisType) bool {
	_, ok := m.axes[t]
	return ok
}

// Axes returns a copy of the axis map.
func (m *Machine) Axes() map[AxisType]AxisDefinition {
	out := make(map[AxisType]AxisDefinition, len(m.axes))
	for t, a := range m.axes {
		out[t] = a
	}
	return out
}

// AxisCount returns the number of configured axes.
func (m *Machine) AxisCount() int { return len(m.axes) }

// Spindle returns the spindle definition.
func (m *Machine) Spindle() Spindle { return m.spindle }

// ToolChanger returns the tool changer definition.
func (m *Machine) ToolChanger() ToolChanger { return m.toolChanger }

// WorkEnvelope returns the XYZ work envelope.
func (m *Machine) WorkEnvelope() geom.AABB { return m.workEnvelope }

// SupportsToolType reports whether a tool type can run on this machine.
// An empty supported list means all types are accepted.
func (m *Machine) SupportsToolType(t tool.Type) bool {
	if len(m.supportedToolTypes) == 0 {
		return true
	}
	for _, supported := range m.supportedToolTypes {
		if supported == t {
			return true
		}
	}
	return false
}

// linearRotaryCounts tallies the configured axes by kind.
func (m *Machine) linearRotaryCounts() (linear, rotary int) {
	for t := range m.axes {
		if t.IsLinear() {
			linear++
		} else if t.IsRotary() {
			rotary++
		}
	}
	return linear, rotary
}

// MachineType classifies the machine by axis count ("3-axis", "5-axis", ...).
func (m *Machine) MachineType() string {
	linear, rotary := m.linearRotaryCounts()
	switch {
	case linear == 3 && rotary == 0:
		return "3-axis"
	case linear == 3 && rotary == 1:
		return "4-axis"
	case linear == 3 && rotary == 2:
		return "5-axis"
	case linear == 2 && rotary == 0:
		return "2-axis"
	default:
		return "custom"
	}
}

// Equal compares machines by identifier.
func (m *Machine) Equal(other *Machine) bool {
	return other != nil && m.id == other.id
}

// Valid performs a quick structural check; Validate gives detailed errors.
func (m *Machine) Valid() bool {
	return m.id != "" &&
		m.name != "" &&
		len(m.axes) > 0 &&
		m.spindle.Valid() &&
		m.toolChanger.Valid() &&
		m.workEnvelope.IsValid()
}
