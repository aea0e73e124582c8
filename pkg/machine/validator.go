// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"fmt"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/tool"
)

// Validate runs all machine configuration checks and returns the first
// failure as a structured error, or nil when the machine is consistent.
func Validate(m *Machine) error {
	if err := validateBasic(m); err != nil {
		return err
	}
	if err := validateAxes(m); err != nil {
		return err
	}
	if err := validateSpindle(m); err != nil {
		return err
	}
	if err := validateToolChanger(m); err != nil {
		return err
	}
	return validateWorkEnvelope(m)
}

// IsValid reports whether the machine passes all validation checks.
func IsValid(m *Machine) bool {
	return Validate(m) == nil
}

func validateBasic(m *Machine) error {
	if m == nil {
		return errors.MachineInvalid("machine is nil")
	}
	if m.ID() == "" {
		return errors.MachineInvalid("machine has empty id")
	}
	if m.Name() == "" {
		return errors.MachineInvalid(fmt.Sprintf("machine %q has empty name", m.ID()))
	}
	if m.AxisCount() == 0 {
		return errors.MachineInvalid(fmt.Sprintf("machine %q has no axes", m.ID()))
	}
	return nil
}

func validateAxes(m *Machine) error {
	for t, axis := range m.Axes() {
		if !axis.Valid() {
			return errors.MachineInvalid(
				fmt.Sprintf("machine %q has invalid %s axis", m.ID(), t))
		}
		if axis.Type() != t {
			return errors.MachineInvalid(fmt.Sprintf(
				"machine %q keys axis %s with a %s definition", m.ID(), t, axis.Type()))
		}
	}

	linear, _ := m.linearRotaryCounts()

	// Full linear machines must carry X, Y and Z specifically.
	if linear == 3 {
		for _, t := range []AxisType{AxisX, AxisY, AxisZ} {
			if !m.HasAxis(t) {
				return errors.MachineInvalid(fmt.Sprintf(
					"machine %q has 3 linear axes but is missing %s", m.ID(), t))
			}
		}
	}
	return nil
}

func validateSpindle(m *Machine) error {
	s := m.Spindle()
	if !s.Valid() {
		return errors.MachineInvalid(fmt.Sprintf("machine %q has invalid spindle", m.ID()))
	}
	if s.MaxRPM() <= 0 {
		return errors.MachineInvalid(fmt.Sprintf(
			"machine %q spindle max RPM %g is not positive", m.ID(), s.MaxRPM()))
	}
	if s.MinRPM() > s.MaxRPM() {
		return errors.MachineInvalid(fmt.Sprintf(
			"machine %q spindle min RPM %g exceeds max RPM %g",
			m.ID(), s.MinRPM(), s.MaxRPM()))
	}
	return nil
}

func validateToolChanger(m *Machine) error {
	c := m.ToolChanger()
	if !c.Valid() {
		return errors.MachineInvalid(fmt.Sprintf("machine %q has invalid tool changer", m.ID()))
	}
	return nil
}

func validateWorkEnvelope(m *Machine) error {
	envelope := m.WorkEnvelope()
	if !envelope.IsValid() {
		return errors.MachineInvalid(fmt.Sprintf("machine %q has invalid work envelope", m.ID()))
	}

	// When linear axes are defined, the envelope must fit inside them.
	checks := []struct {
		axis     AxisType
		min, max float64
	}{
		{AxisX, envelope.Min.X, envelope.Max.X},
		{AxisY, envelope.Min.Y, envelope.Max.Y},
		{AxisZ, envelope.Min.Z, envelope.Max.Z},
	}
	for _, chk := range checks {
		axis, ok := m.Axis(chk.axis)
		if !ok {
			continue
		}
		if chk.min < axis.MinPosition() || chk.max > axis.MaxPosition() {
			return errors.MachineInvalid(fmt.Sprintf(
				"machine %q work envelope %s bounds [%g, %g] exceed axis limits [%g, %g]",
				m.ID(), chk.axis, chk.min, chk.max, axis.MinPosition(), axis.MaxPosition()))
		}
	}
	return nil
}

// ValidateToolCompatibility checks that a tool can run on the machine:
// its type must be supported and its RPM limit must overlap the spindle
// range.
func ValidateToolCompatibility(m *Machine, t tool.Tool) error {
	if !m.SupportsToolType(t.Type()) {
		return errors.ToolInvalid(t.ID(), fmt.Sprintf(
			"tool type %s is not supported by machine %q", t.Type(), m.ID()))
	}

	s := m.Spindle()
	if t.MaxRPM() < s.MinRPM() {
		return errors.ToolInvalid(t.ID(), fmt.Sprintf(
			"tool max RPM %g is below machine %q spindle minimum %g",
			t.MaxRPM(), m.ID(), s.MinRPM()))
	}
	return nil
}

// IsToolCompatible reports whether a tool can run on the machine.
func IsToolCompatible(m *Machine, t tool.Tool) bool {
	return ValidateToolCompatibility(m, t) == nil
}
